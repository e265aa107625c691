package compositor

import (
	"errors"
	"fmt"

	"github.com/gogpu/rend"
	"github.com/gogpu/rend/render"
)

// SceneView is what a render-scene pass asks of the scene renderer:
// re-run the queue pipeline for this camera, restricted to a group
// span, a visibility mask and an optional material scheme override.
// The target is already bound on the render system when RenderScene is
// called; the view carries it for sizing decisions only.
type SceneView struct {
	Camera         rend.Camera
	Target         render.RenderTarget
	FirstGroup     rend.GroupID
	LastGroup      rend.GroupID
	VisibilityMask uint32
	Scheme         string
	ShadowsEnabled bool
}

// SceneRenderer re-invokes the collect/sort/drain pipeline for a
// render-scene pass. Implemented by the host's scene manager; it must
// issue its batches against the render system's currently bound target.
type SceneRenderer interface {
	RenderScene(view SceneView) error
}

// Instance is one compositor enabled on a chain, with its selected
// technique and allocated intermediate targets.
type Instance struct {
	Compositor *Compositor

	// Enabled toggles the instance without removing it; disabled
	// instances keep their slot so re-enabling is cheap.
	Enabled bool

	technique *Technique
	targets   map[string]render.RenderTarget
	output    render.RenderTarget
	evaluated bool
}

// Technique returns the technique Compile selected, nil when the
// instance is unsupported or the chain is not compiled.
func (in *Instance) Technique() *Technique { return in.technique }

// Target returns the instance's allocated target for a texture name.
func (in *Instance) Target(name string) render.RenderTarget {
	return in.targets[name]
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithAllocator overrides the chain's intermediate texture allocator.
// The default allocates through the render system's CreateTexture.
func WithAllocator(alloc Allocator) ChainOption {
	return func(c *Chain) { c.pool = NewTexturePool(alloc) }
}

// Chain is the ordered list of compositors applied to one viewport.
// Compile resolves techniques and allocates textures; Evaluate runs
// the chain once per frame. Both run on the render goroutine.
type Chain struct {
	system   render.RenderSystem
	renderer SceneRenderer
	final    render.RenderTarget

	instances []*Instance
	pool      *TexturePool
	compiled  bool
}

// NewChain creates a chain rendering its final output into final.
func NewChain(sys render.RenderSystem, renderer SceneRenderer, final render.RenderTarget, opts ...ChainOption) *Chain {
	c := &Chain{
		system:   sys,
		renderer: renderer,
		final:    final,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pool == nil {
		c.pool = NewTexturePool(SystemAllocator(sys))
	}
	return c
}

// Append adds a compositor to the end of the chain and returns its
// instance. The chain must be (re)compiled before the next Evaluate.
func (c *Chain) Append(comp *Compositor) *Instance {
	in := &Instance{Compositor: comp, Enabled: true}
	c.instances = append(c.instances, in)
	c.compiled = false
	return in
}

// Instances returns the chain's entries in order.
func (c *Chain) Instances() []*Instance { return c.instances }

// Compile selects each enabled compositor's technique and allocates
// intermediate textures. Capability mismatches disable the offending
// instance for this compile (its effect is simply absent); wiring
// mistakes (ErrUnboundInput) abort compilation because they are
// authoring errors the caller must fix.
//
// fc, when non-nil, receives the degraded-format count.
func (c *Chain) Compile(fc *rend.FrameContext) error {
	caps := c.system.Capabilities()
	c.release()

	available := make(map[string]struct{})
	for _, in := range c.instances {
		in.technique = nil
		in.evaluated = false
		if !in.Enabled {
			continue
		}

		tech, err := in.Compositor.selectTechniqueWith(caps, available)
		if err != nil {
			if errors.Is(err, ErrUnboundInput) {
				return err
			}
			rend.Logger().Warn("compositor: chain entry skipped",
				"compositor", in.Compositor.Name, "reason", err)
			continue
		}
		in.technique = tech
		if fc != nil {
			fc.Stats.DegradedFormats += tech.DegradedCount()
		}

		if err := c.allocate(in, tech); err != nil {
			return fmt.Errorf("compositor %q: %w", in.Compositor.Name, err)
		}
		for _, name := range tech.producedNames() {
			available[name] = struct{}{}
		}
	}

	c.compiled = true
	rend.Logger().Info("compositor: chain compiled",
		"entries", len(c.instances), "pooledIdle", c.pool.Len())
	return nil
}

func (c *Chain) allocate(in *Instance, tech *Technique) error {
	in.targets = make(map[string]render.RenderTarget, len(tech.Textures))
	for _, def := range tech.Textures {
		w, h := def.Size(c.final.Width(), c.final.Height())
		formats := tech.ResolvedFormats()[def.Name]

		if len(formats) == 1 {
			t, err := c.pool.Acquire(w, h, formats[0])
			if err != nil {
				return err
			}
			in.targets[def.Name] = t
			continue
		}

		attachments := make([]render.RenderTarget, len(formats))
		for i, f := range formats {
			t, err := c.pool.Acquire(w, h, f)
			if err != nil {
				return err
			}
			attachments[i] = t
		}
		in.targets[def.Name] = render.NewMultiTarget(attachments...)
	}
	return nil
}

// Evaluate runs the chain for one frame. Instances without a selected
// technique are skipped. Errors from the render system abort the
// evaluation; the frame's remaining effects do not run.
func (c *Chain) Evaluate(cam rend.Camera, fc *rend.FrameContext) error {
	if !c.compiled {
		if err := c.Compile(fc); err != nil {
			return err
		}
	}

	var previous render.RenderTarget
	last := c.lastActive()

	for i, in := range c.instances {
		if !in.Enabled || in.technique == nil {
			continue
		}

		// Intermediate instances render their output into a
		// viewport-sized texture forwarded to the next entry;
		// only the last active instance writes the real target.
		out := c.final
		if i != last {
			t, err := c.pool.Acquire(c.final.Width(), c.final.Height(), c.final.Format())
			if err != nil {
				return err
			}
			// Recycle the previous hop's forward texture now that
			// this instance replaces it.
			if in.output != nil {
				c.pool.Release(in.output)
			}
			in.output = t
			out = t
		}

		if err := c.evaluateInstance(in, cam, out, previous); err != nil {
			return fmt.Errorf("compositor %q: %w", in.Compositor.Name, err)
		}
		in.evaluated = true
		previous = out
	}
	return nil
}

func (c *Chain) evaluateInstance(in *Instance, cam rend.Camera, out, previous render.RenderTarget) error {
	for _, tp := range in.technique.allTargets() {
		if tp.OnlyInitial && in.evaluated {
			continue
		}

		target := out
		if tp.OutputName != "" {
			target = in.targets[tp.OutputName]
		}
		if err := c.system.BeginTarget(target); err != nil {
			return err
		}

		for _, p := range tp.Passes {
			var err error
			switch p.Kind {
			case PassClear:
				err = c.system.Clear(p.Clear)
			case PassStencil:
				err = c.system.SetStencil(p.Stencil)
			case PassRenderScene:
				err = c.renderer.RenderScene(SceneView{
					Camera:         cam,
					Target:         target,
					FirstGroup:     p.FirstGroup,
					LastGroup:      p.LastGroup,
					VisibilityMask: p.VisibilityMask,
					Scheme:         p.Scheme,
					ShadowsEnabled: p.ShadowsEnabled && !tp.DisableShadows,
				})
			case PassRenderQuad:
				err = c.system.DrawQuad(p.Material, c.resolveInputs(in, tp, p, previous))
			}
			if err != nil {
				_ = c.system.EndTarget()
				return err
			}
		}

		if err := c.system.EndTarget(); err != nil {
			return err
		}
	}
	return nil
}

// resolveInputs binds a quad pass's named inputs: the instance's own
// textures first, then textures produced by earlier chain entries,
// plus the implicit "previous" forward when the target requests it.
// Names were validated at support-check time, so misses here only
// happen after the caller mutated passes post-compile.
func (c *Chain) resolveInputs(in *Instance, tp *TargetPass, p *Pass, previous render.RenderTarget) []render.QuadInput {
	inputs := make([]render.QuadInput, 0, len(p.Inputs)+1)
	if tp.Input == InputPrevious && previous != nil {
		inputs = append(inputs, render.QuadInput{Name: "previous", Source: previous})
	}
	for _, name := range p.Inputs {
		if t, ok := in.targets[name]; ok {
			inputs = append(inputs, render.QuadInput{Name: name, Source: t})
			continue
		}
		for i := len(c.instances) - 1; i >= 0; i-- {
			other := c.instances[i]
			if other == in {
				continue
			}
			if t, ok := other.targets[name]; ok {
				inputs = append(inputs, render.QuadInput{Name: name, Source: t})
				break
			}
		}
	}
	return inputs
}

func (c *Chain) lastActive() int {
	for i := len(c.instances) - 1; i >= 0; i-- {
		if c.instances[i].Enabled && c.instances[i].technique != nil {
			return i
		}
	}
	return -1
}

// release returns every instance's targets to the pool.
func (c *Chain) release() {
	for _, in := range c.instances {
		for name, t := range in.targets {
			if mt, ok := t.(*render.MultiTarget); ok {
				for _, a := range mt.Attachments() {
					c.pool.Release(a)
				}
			} else {
				c.pool.Release(t)
			}
			delete(in.targets, name)
		}
		if in.output != nil {
			c.pool.Release(in.output)
			in.output = nil
		}
	}
}

// Release frees all intermediate targets and marks the chain
// uncompiled. Call on viewport resize or before dropping the chain.
// This is also the frame-abort path: in-flight targets go back to the
// pool and nothing is submitted for them.
func (c *Chain) Release() {
	c.release()
	c.compiled = false
}

// Close releases the chain and destroys pooled GPU resources.
func (c *Chain) Close() {
	c.Release()
	c.pool.Close()
}
