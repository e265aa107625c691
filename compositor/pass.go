package compositor

import (
	"github.com/gogpu/rend"
	"github.com/gogpu/rend/material"
	"github.com/gogpu/rend/render"
)

// PassKind discriminates the compositor pass variants. The set is
// closed: a pass is exactly one of clear, stencil, render-scene or
// render-quad, and evaluation switches on the kind.
type PassKind uint8

const (
	PassClear PassKind = iota
	PassStencil
	PassRenderScene
	PassRenderQuad
)

// String returns the kind name.
func (k PassKind) String() string {
	switch k {
	case PassClear:
		return "clear"
	case PassStencil:
		return "stencil"
	case PassRenderScene:
		return "render-scene"
	case PassRenderQuad:
		return "render-quad"
	}
	return "unknown"
}

// Pass is one operation within a target pass. Only the field group
// matching Kind is meaningful. Passes are owned by their parent
// TargetPass and die with it.
type Pass struct {
	Kind PassKind

	// Clear parameterizes PassClear.
	Clear render.ClearOptions

	// Stencil parameterizes PassStencil.
	Stencil render.StencilState

	// PassRenderScene: re-invoke the queue pipeline restricted to the
	// group span [FirstGroup, LastGroup], with a visibility mask and
	// an optional material scheme override (empty for none).
	FirstGroup     rend.GroupID
	LastGroup      rend.GroupID
	VisibilityMask uint32
	Scheme         string
	ShadowsEnabled bool

	// PassRenderQuad: one full-screen draw with Material, sampling
	// the textures named in Inputs.
	Material *material.Material
	Inputs   []string
}

// NewClearPass creates a clear operation.
func NewClearPass(opts render.ClearOptions) *Pass {
	return &Pass{Kind: PassClear, Clear: opts}
}

// NewStencilPass creates a stencil state operation.
func NewStencilPass(s render.StencilState) *Pass {
	return &Pass{Kind: PassStencil, Stencil: s}
}

// NewScenePass creates a render-scene operation covering the group span
// [first, last], all visibility flags, shadows enabled.
func NewScenePass(first, last rend.GroupID) *Pass {
	return &Pass{
		Kind:           PassRenderScene,
		FirstGroup:     first,
		LastGroup:      last,
		VisibilityMask: rend.VisibilityAll,
		ShadowsEnabled: true,
	}
}

// NewQuadPass creates a full-screen quad operation using mat and
// sampling the named inputs.
func NewQuadPass(mat *material.Material, inputs ...string) *Pass {
	return &Pass{Kind: PassRenderQuad, Material: mat, Inputs: inputs}
}

// Supported reports whether the pass can execute with the given
// capabilities. Quad passes recursively require their material to have
// at least one supported technique; the other kinds are always
// executable.
func (p *Pass) Supported(caps rend.Capabilities) bool {
	if p.Kind == PassRenderQuad {
		return p.Material != nil && p.Material.Supported(caps)
	}
	return true
}
