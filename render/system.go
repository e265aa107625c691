package render

import (
	"github.com/gogpu/rend"
	"github.com/gogpu/rend/material"
)

// ClearBuffers selects which buffers a clear touches.
type ClearBuffers uint8

const (
	ClearColor ClearBuffers = 1 << iota
	ClearDepth
	ClearStencil
)

// ClearOptions parameterizes a clear operation.
type ClearOptions struct {
	Buffers ClearBuffers
	Color   [4]float32
	Depth   float32
	Stencil uint8
}

// StencilState parameterizes a compositor stencil pass. The fields are
// forwarded to the backend untouched; rend does not interpret them.
type StencilState struct {
	Enabled   bool
	RefValue  uint32
	Mask      uint32
	CompareOp string
	PassOp    string
	FailOp    string
}

// QuadInput is one named texture sampled by a full-screen quad pass.
type QuadInput struct {
	// Name is the sampler binding name in the quad material.
	Name string

	// Source is the target whose contents are sampled.
	Source RenderTarget
}

// RenderSystem is what the queue core and the compositor require of a
// backend: target binding, clears, ordered batch execution, and
// full-screen quads. Implementations live under backend/.
//
// Calls follow a strict bracket per target: BeginTarget, then any mix
// of Clear/SetStencil/ExecuteBatch/DrawQuad, then EndTarget. All calls
// happen on the goroutine that owns the graphics context.
type RenderSystem interface {
	// Name returns the backend identifier (e.g., "soft", "wgpu").
	Name() string

	// Init initializes the backend. Must be called before any
	// rendering operation.
	Init() error

	// Close releases all backend resources. The backend must not be
	// used after Close.
	Close()

	// Capabilities reports what the device can do. Valid after Init.
	Capabilities() rend.Capabilities

	// CreateTexture allocates a texture, typically a compositor
	// intermediate.
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// BeginTarget directs subsequent operations at the given target.
	BeginTarget(t RenderTarget) error

	// Clear clears the bound target's selected buffers.
	Clear(opts ClearOptions) error

	// SetStencil applies stencil state to subsequent draws on the
	// bound target.
	SetStencil(s StencilState) error

	// ExecuteBatch binds the batch's pass once and draws its items in
	// order. Order across calls is the submission order and must be
	// preserved.
	ExecuteBatch(b Batch) error

	// DrawQuad issues one full-screen draw on the bound target with
	// the given material, sampling the named inputs.
	DrawQuad(mat *material.Material, inputs []QuadInput) error

	// EndTarget completes rendering to the bound target.
	EndTarget() error
}
