// Package soft is the CPU reference backend: it executes compositor
// quad passes for real on image.RGBA targets, clears and records scene
// batches, and reports deliberately narrow capabilities (8-bit formats
// only) so capability fallback paths are exercisable without a GPU.
package soft

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/gogpu/rend"
	"github.com/gogpu/rend/backend"
	"github.com/gogpu/rend/material"
	"github.com/gogpu/rend/render"
)

func init() {
	backend.Register(backend.BackendSoft, func() render.RenderSystem {
		return New()
	})
}

// BatchRecord is one executed batch, kept for inspection: the soft
// backend does not rasterize 3D geometry, it validates submission
// order and state-change counts.
type BatchRecord struct {
	PassName  string
	ItemCount int
}

// System is the soft render system.
type System struct {
	initialized bool
	caps        rend.Capabilities

	target  render.RenderTarget
	stencil render.StencilState

	// Executed records every batch in submission order since the last
	// ResetLog. Tests and tooling read it to verify ordering.
	Executed []BatchRecord

	// Quads counts full-screen quad draws since the last ResetLog.
	Quads int
}

// New creates an uninitialized soft system.
func New() *System {
	return &System{}
}

// Name returns the backend identifier.
func (s *System) Name() string { return backend.BackendSoft }

// Init initializes the backend. Never fails: the CPU is always there.
func (s *System) Init() error {
	s.caps = rend.Capabilities{
		MaxColorTargets:   4,
		MixedDepthTargets: true,
		RenderFormats: rend.NewFormatSet(
			rend.FormatRGBA8, rend.FormatRGBA8SRGB,
			rend.FormatBGRA8, rend.FormatBGRA8SRGB,
			rend.FormatR8, rend.FormatRG8,
			rend.FormatDepth24S8,
		),
	}
	s.initialized = true
	rend.Logger().Info("backend: initialized", "name", s.Name())
	return nil
}

// Close releases the system. Safe to call multiple times.
func (s *System) Close() {
	s.initialized = false
	s.target = nil
	s.Executed = nil
}

// Capabilities reports the soft caps: 4 color targets, mixed depths
// allowed, 8-bit color formats only. Float formats degrade here, which
// is exactly what makes the soft backend useful for fallback testing.
func (s *System) Capabilities() rend.Capabilities {
	return s.caps
}

// CreateTexture allocates a CPU texture. Combined with the default
// chain allocator this yields pixel-accessible intermediate targets.
func (s *System) CreateTexture(desc render.TextureDescriptor) (render.Texture, error) {
	if !s.initialized {
		return nil, backend.ErrNotInitialized
	}
	return newMemTexture(desc), nil
}

// BeginTarget directs subsequent operations at t.
func (s *System) BeginTarget(t render.RenderTarget) error {
	if !s.initialized {
		return backend.ErrNotInitialized
	}
	if s.target != nil {
		return fmt.Errorf("soft: BeginTarget while %dx%d target still bound",
			s.target.Width(), s.target.Height())
	}
	s.target = t
	return nil
}

// Clear fills the bound target's color buffer. Depth and stencil
// buffers do not exist on the CPU path and clear as no-ops.
func (s *System) Clear(opts render.ClearOptions) error {
	if s.target == nil {
		return backend.ErrNotInitialized
	}
	if opts.Buffers&render.ClearColor == 0 {
		return nil
	}
	pix := s.target.Pixels()
	if pix == nil {
		return fmt.Errorf("soft: target has no CPU pixels")
	}
	c := color.RGBA{
		R: uint8(clamp01(opts.Color[0]) * 255),
		G: uint8(clamp01(opts.Color[1]) * 255),
		B: uint8(clamp01(opts.Color[2]) * 255),
		A: uint8(clamp01(opts.Color[3]) * 255),
	}
	stride := s.target.Stride()
	for y := 0; y < s.target.Height(); y++ {
		row := pix[y*stride:]
		for x := 0; x < s.target.Width(); x++ {
			row[x*4+0] = c.R
			row[x*4+1] = c.G
			row[x*4+2] = c.B
			row[x*4+3] = c.A
		}
	}
	return nil
}

// SetStencil records the stencil state. The CPU path does not apply it.
func (s *System) SetStencil(st render.StencilState) error {
	if s.target == nil {
		return backend.ErrNotInitialized
	}
	s.stencil = st
	return nil
}

// ExecuteBatch records the batch. Submission order across calls is the
// record order.
func (s *System) ExecuteBatch(b render.Batch) error {
	if s.target == nil {
		return backend.ErrNotInitialized
	}
	s.Executed = append(s.Executed, BatchRecord{
		PassName:  b.Pass.Name,
		ItemCount: len(b.Items),
	})
	return nil
}

// DrawQuad composites the inputs onto the bound target: the first
// input replaces the target's contents, later inputs blend over it,
// each scaled to the full target. This is the whole CPU model of a
// full-screen effect pass; the material's programs are not executed.
func (s *System) DrawQuad(mat *material.Material, inputs []render.QuadInput) error {
	if s.target == nil {
		return backend.ErrNotInitialized
	}
	dst, err := targetImage(s.target)
	if err != nil {
		return err
	}
	s.Quads++

	for i, in := range inputs {
		src, err := targetImage(in.Source)
		if err != nil {
			return fmt.Errorf("soft: quad input %q: %w", in.Name, err)
		}
		op := draw.Over
		if i == 0 {
			op = draw.Src
		}
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), op, nil)
	}
	return nil
}

// EndTarget completes rendering to the bound target.
func (s *System) EndTarget() error {
	if s.target == nil {
		return backend.ErrNotInitialized
	}
	s.target = nil
	return nil
}

// ResetLog clears the executed-batch record and quad counter.
func (s *System) ResetLog() {
	s.Executed = s.Executed[:0]
	s.Quads = 0
}

var _ render.RenderSystem = (*System)(nil)

// targetImage views a pixel-accessible target as an *image.RGBA
// sharing its memory.
func targetImage(t render.RenderTarget) (*image.RGBA, error) {
	pix := t.Pixels()
	if pix == nil {
		return nil, fmt.Errorf("target %dx%d has no CPU pixels", t.Width(), t.Height())
	}
	return &image.RGBA{
		Pix:    pix,
		Stride: t.Stride(),
		Rect:   image.Rect(0, 0, t.Width(), t.Height()),
	}, nil
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// memTexture is a CPU-backed render.Texture. TextureTarget detects its
// pixel access and exposes it through Pixels, so compositor
// intermediates created through the soft system stay readable.
type memTexture struct {
	img    *image.RGBA
	format rend.PixelFormat
}

func newMemTexture(desc render.TextureDescriptor) *memTexture {
	return &memTexture{
		img:    image.NewRGBA(image.Rect(0, 0, int(desc.Width), int(desc.Height))),
		format: desc.Format,
	}
}

func (t *memTexture) Width() uint32                  { return uint32(t.img.Bounds().Dx()) }
func (t *memTexture) Height() uint32                 { return uint32(t.img.Bounds().Dy()) }
func (t *memTexture) Format() rend.PixelFormat       { return t.format }
func (t *memTexture) CreateView() render.TextureView { return nil }
func (t *memTexture) Destroy()                       {}

// Pix exposes the backing pixels for render.TextureTarget.
func (t *memTexture) Pix() []byte { return t.img.Pix }

// RowStride exposes the backing stride for render.TextureTarget.
func (t *memTexture) RowStride() int { return t.img.Stride }

var _ render.Texture = (*memTexture)(nil)
