package material

import (
	"hash/fnv"

	"github.com/gogpu/rend"
)

// BlendFactor is one operand of the blend equation.
type BlendFactor uint8

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstColor
	BlendOneMinusDstColor
)

// Pass is one GPU state-binding step within a technique: blend and
// depth state plus opaque program and texture names. Passes are shared
// across many renderables; POINTER IDENTITY is what the queue groups
// by, so reusing one *Pass across materials is how batching happens.
//
// After mutating a shared pass between frames, register it with the
// process's PendingPassUpdates via MarkDirty; its sort hash is then
// recomputed exactly once at the next frame clear, before any queue
// uses it again.
type Pass struct {
	Name string

	// SrcBlend and DstBlend define the blend equation operands.
	// The default One/Zero is opaque.
	SrcBlend BlendFactor
	DstBlend BlendFactor

	DepthWrite bool
	DepthCheck bool

	// VertexProgram and FragmentProgram are opaque program names
	// resolved by the render system.
	VertexProgram   string
	FragmentProgram string

	// TextureNames are the texture unit bindings, resolved by the
	// render system or the compositor's input wiring.
	TextureNames []string

	hash        uint32
	unsupported bool
}

// NewPass creates an opaque pass with depth write and check enabled.
func NewPass(name string) *Pass {
	p := &Pass{
		Name:       name,
		SrcBlend:   BlendOne,
		DstBlend:   BlendZero,
		DepthWrite: true,
		DepthCheck: true,
	}
	p.recomputeHash()
	return p
}

// Transparent reports whether the pass blends with the frame buffer.
// Transparent passes are depth-sorted back-to-front instead of being
// grouped by pass identity.
func (p *Pass) Transparent() bool {
	return !(p.SrcBlend == BlendOne && p.DstBlend == BlendZero)
}

// Hash returns the pass's sort hash. The hash orders pass groups within
// a priority bucket deterministically; it is NOT an identity (identity
// is the pointer).
func (p *Pass) Hash() uint32 {
	return p.hash
}

// MarkDirty registers p for re-hashing at the next frame clear.
// Call after mutating a pass that is already in use.
func (p *Pass) MarkDirty(pending *PendingPassUpdates) {
	pending.add(p)
}

// MarkUnsupported flags the pass as unusable on the current device,
// typically because the host failed to compile its programs. Techniques
// containing an unsupported pass are excluded from selection.
func (p *Pass) MarkUnsupported() {
	p.unsupported = true
}

// Supported reports whether the pass can execute on a device with the
// given capabilities.
func (p *Pass) Supported(caps rend.Capabilities) bool {
	return !p.unsupported
}

func (p *Pass) recomputeHash() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(p.Name))
	_, _ = h.Write([]byte{
		byte(p.SrcBlend), byte(p.DstBlend),
		b2b(p.DepthWrite), b2b(p.DepthCheck),
	})
	_, _ = h.Write([]byte(p.VertexProgram))
	_, _ = h.Write([]byte(p.FragmentProgram))
	for _, t := range p.TextureNames {
		_, _ = h.Write([]byte(t))
	}
	p.hash = h.Sum32()
}

func b2b(v bool) byte {
	if v {
		return 1
	}
	return 0
}
