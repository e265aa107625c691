package compositor

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/gogpu/rend"
)

var (
	// ErrUnsupported marks a capability mismatch: the technique cannot
	// run on this device. Non-fatal; chains skip the technique and try
	// the next candidate.
	ErrUnsupported = errors.New("compositor: technique unsupported")

	// ErrUnboundInput marks an authoring mistake: a quad pass samples
	// a texture no earlier target pass produced. Detected at
	// support-check time, never at draw time, and reported rather
	// than degraded.
	ErrUnboundInput = errors.New("compositor: quad pass references unbound input texture")
)

// TextureDef declares one named intermediate texture. More than one
// format makes the definition a multi-render-target set: one texture
// per format, bound simultaneously.
type TextureDef struct {
	Name string

	// Width and Height are absolute pixel sizes; zero means derive
	// from the viewport through the corresponding factor.
	Width  int
	Height int

	// WidthFactor and HeightFactor scale the viewport size when the
	// absolute size is zero. Zero means 1.0 (full viewport size).
	WidthFactor  float32
	HeightFactor float32

	// Formats lists the attachment formats. len > 1 declares MRT.
	Formats []rend.PixelFormat

	// Pooled textures may share backing storage with other chains
	// when their content does not survive across instances.
	Pooled bool

	// AcceptDegradation permits substituting the nearest natively
	// supported format when a requested format is unavailable.
	// Without it an unavailable format makes the technique
	// unsupported.
	AcceptDegradation bool
}

// Size resolves the definition's pixel size for a viewport.
func (d TextureDef) Size(vpWidth, vpHeight int) (int, int) {
	w, h := d.Width, d.Height
	if w == 0 {
		f := d.WidthFactor
		if f == 0 {
			f = 1
		}
		w = int(math32.Round(f * float32(vpWidth)))
	}
	if h == 0 {
		f := d.HeightFactor
		if f == 0 {
			f = 1
		}
		h = int(math32.Round(f * float32(vpHeight)))
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Technique describes one way to realize a compositor effect: the
// intermediate texture declarations plus the ordered target passes,
// ending in the output target pass.
type Technique struct {
	Name string

	Textures []TextureDef
	Targets  []*TargetPass

	// Output renders to the final destination. Required.
	Output *TargetPass

	resolved map[string][]rend.PixelFormat
	degraded int
}

// NewTechnique creates an empty technique.
func NewTechnique(name string) *Technique {
	return &Technique{Name: name}
}

// AddTexture declares an intermediate texture.
func (t *Technique) AddTexture(d TextureDef) *Technique {
	t.Textures = append(t.Textures, d)
	return t
}

// AddTarget appends an intermediate target pass.
func (t *Technique) AddTarget(tp *TargetPass) *Technique {
	t.Targets = append(t.Targets, tp)
	return t
}

// SetOutput sets the final output target pass.
func (t *Technique) SetOutput(tp *TargetPass) *Technique {
	t.Output = tp
	return t
}

// ResolvedFormats returns, after a successful support check, the
// native formats each texture definition resolved to. Degraded
// substitutions are observable here.
func (t *Technique) ResolvedFormats() map[string][]rend.PixelFormat {
	return t.resolved
}

// DegradedCount returns how many formats the last successful support
// check substituted under the degradation policy.
func (t *Technique) DegradedCount() int {
	return t.degraded
}

// Supported checks the technique against the device capabilities:
//
//	(a) every contained pass is supported (quad materials recursively),
//	(b) every texture format is native or acceptably degraded,
//	(c) MRT attachment counts fit within MaxColorTargets,
//	(d) MRT formats share one bit depth unless the device mixes depths,
//
// plus the input-wiring rule: every quad input must name a texture
// produced by an earlier target pass. Returns nil when usable; an
// error wrapping ErrUnsupported for capability mismatches; an error
// wrapping ErrUnboundInput for wiring mistakes.
func (t *Technique) Supported(caps rend.Capabilities) error {
	return t.supportedWith(caps, nil)
}

// supportedWith is Supported with extra input names already available,
// used by Chain to admit textures produced by prior chain entries.
func (t *Technique) supportedWith(caps rend.Capabilities, extern map[string]struct{}) error {
	if t.Output == nil {
		return fmt.Errorf("technique %q has no output target: %w", t.Name, ErrUnsupported)
	}

	resolved := make(map[string][]rend.PixelFormat, len(t.Textures))
	degraded := 0
	for _, d := range t.Textures {
		if len(d.Formats) == 0 {
			return fmt.Errorf("texture %q declares no formats: %w", d.Name, ErrUnsupported)
		}
		if len(d.Formats) > caps.MaxColorTargets {
			return fmt.Errorf("texture %q needs %d simultaneous targets, device has %d: %w",
				d.Name, len(d.Formats), caps.MaxColorTargets, ErrUnsupported)
		}

		out := make([]rend.PixelFormat, len(d.Formats))
		for i, f := range d.Formats {
			if caps.FormatSupported(f) {
				out[i] = f
				continue
			}
			if !d.AcceptDegradation {
				return fmt.Errorf("texture %q format %v unsupported: %w", d.Name, f, ErrUnsupported)
			}
			nf, ok := caps.NearestSupported(f)
			if !ok {
				return fmt.Errorf("texture %q format %v has no usable substitute: %w",
					d.Name, f, ErrUnsupported)
			}
			rend.Logger().Warn("compositor: degrading texture format",
				"technique", t.Name, "texture", d.Name,
				"requested", f.String(), "resolved", nf.String())
			out[i] = nf
			degraded++
		}

		if len(out) > 1 && !caps.MixedDepthTargets {
			bits := out[0].Bits()
			for _, f := range out[1:] {
				if f.Bits() != bits {
					return fmt.Errorf("texture %q mixes bit depths across MRT attachments: %w",
						d.Name, ErrUnsupported)
				}
			}
		}
		resolved[d.Name] = out
	}

	available := make(map[string]struct{}, len(extern)+len(t.Textures))
	for name := range extern {
		available[name] = struct{}{}
	}
	for _, tp := range t.allTargets() {
		for _, p := range tp.Passes {
			if !p.Supported(caps) {
				return fmt.Errorf("technique %q: %v pass unsupported: %w",
					t.Name, p.Kind, ErrUnsupported)
			}
			if p.Kind != PassRenderQuad {
				continue
			}
			for _, name := range p.Inputs {
				if _, ok := available[name]; !ok {
					return fmt.Errorf("technique %q: input %q: %w", t.Name, name, ErrUnboundInput)
				}
			}
		}
		if tp.OutputName != "" {
			if _, declared := resolved[tp.OutputName]; !declared {
				return fmt.Errorf("technique %q: target writes undeclared texture %q: %w",
					t.Name, tp.OutputName, ErrUnboundInput)
			}
			available[tp.OutputName] = struct{}{}
		}
	}

	t.resolved = resolved
	t.degraded = degraded
	return nil
}

// producedNames returns the names of every texture a target pass in t
// writes, for seeding later chain entries.
func (t *Technique) producedNames() []string {
	var names []string
	for _, tp := range t.allTargets() {
		if tp.OutputName != "" {
			names = append(names, tp.OutputName)
		}
	}
	return names
}

func (t *Technique) allTargets() []*TargetPass {
	if t.Output == nil {
		return t.Targets
	}
	all := make([]*TargetPass, 0, len(t.Targets)+1)
	all = append(all, t.Targets...)
	return append(all, t.Output)
}
