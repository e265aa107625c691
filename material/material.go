package material

import (
	"errors"
	"sync"

	"github.com/gogpu/rend"
)

// ErrNoTechnique is returned when a renderable resolves to no technique
// at all: it has neither a material nor a technique override, and no
// default material is configured. This is a fatal fill-time
// configuration error; the frame's fill for that camera aborts.
var ErrNoTechnique = errors.New("material: renderable has no technique and no default material")

// Material is a named, ranked list of techniques, best first.
// Materials are shared across renderables; identity matters for
// nothing here (batching keys on passes), but sharing keeps the
// per-frame resolution cheap.
type Material struct {
	Name string

	techniques []*Technique
}

// New creates an empty material.
func New(name string) *Material {
	return &Material{Name: name}
}

// AddTechnique appends t and returns the material for chaining.
func (m *Material) AddTechnique(t *Technique) *Material {
	m.techniques = append(m.techniques, t)
	return m
}

// Techniques returns the ranked technique list.
func (m *Material) Techniques() []*Technique {
	return m.techniques
}

// BestTechnique resolves the technique for a scheme name. It interns
// the name and defers to BestTechniqueIndex; callers resolving per
// frame should intern once and use the index form.
func (m *Material) BestTechnique(scheme string) *Technique {
	return m.BestTechniqueIndex(SchemeIndex(scheme))
}

// BestTechniqueIndex resolves the technique for an interned scheme
// index: the first technique declared for that scheme, falling back to
// the first default-scheme technique, then nil.
func (m *Material) BestTechniqueIndex(idx int) *Technique {
	if idx != DefaultSchemeIndex {
		for _, t := range m.techniques {
			if t.schemeIdx == idx {
				return t
			}
		}
	}
	for _, t := range m.techniques {
		if t.schemeIdx == DefaultSchemeIndex {
			return t
		}
	}
	return nil
}

// SupportedTechnique is BestTechnique restricted to techniques that
// pass the capability check. Used by the compositor's recursive
// material support rule.
func (m *Material) SupportedTechnique(scheme string, caps rend.Capabilities) *Technique {
	idx := SchemeIndex(scheme)
	if idx != DefaultSchemeIndex {
		for _, t := range m.techniques {
			if t.schemeIdx == idx && t.Supported(caps) {
				return t
			}
		}
	}
	for _, t := range m.techniques {
		if t.schemeIdx == DefaultSchemeIndex && t.Supported(caps) {
			return t
		}
	}
	return nil
}

// Supported reports whether at least one technique is supported.
func (m *Material) Supported(caps rend.Capabilities) bool {
	for _, t := range m.techniques {
		if t.Supported(caps) {
			return true
		}
	}
	return false
}

// defaultMaterial is the engine-owned fallback for renderables with no
// material assigned: a single unlit opaque pass.
var defaultMaterial = sync.OnceValue(func() *Material {
	pass := NewPass("base-white")
	tech := NewTechnique("default").AddPass(pass)
	return New("BaseWhite").AddTechnique(tech)
})

// Default returns the process-wide fallback material. Queues use it
// when a renderable carries neither material nor technique, unless the
// queue was configured with a different default (or explicitly with
// none, making material-less renderables a reported error).
func Default() *Material {
	return defaultMaterial()
}
