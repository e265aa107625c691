package material

import "github.com/gogpu/rend"

// Technique is one way to realize a material: an ordered list of
// passes, optionally tied to a scheme. A material's techniques are
// ranked best-first; the first supported one wins.
type Technique struct {
	Name string

	scheme    string
	schemeIdx int

	passes []*Pass
}

// NewTechnique creates an empty technique for the default scheme.
func NewTechnique(name string) *Technique {
	return &Technique{Name: name}
}

// SetScheme ties the technique to a rendering scheme and returns the
// technique for chaining. The name is interned once here so resolution
// compares indices, not strings. The empty string is the default
// scheme.
func (t *Technique) SetScheme(name string) *Technique {
	t.scheme = name
	t.schemeIdx = SchemeIndex(name)
	return t
}

// Scheme returns the scheme name, empty for the default scheme.
func (t *Technique) Scheme() string { return t.scheme }

// AddPass appends p and returns the technique for chaining.
func (t *Technique) AddPass(p *Pass) *Technique {
	t.passes = append(t.passes, p)
	return t
}

// Passes returns the pass list in execution order. The slice is the
// technique's own; callers must not mutate it.
func (t *Technique) Passes() []*Pass {
	return t.passes
}

// Transparent reports whether the technique's first pass blends.
// Mixed techniques sort by their leading pass, matching how the queue
// routes each pass individually anyway.
func (t *Technique) Transparent() bool {
	return len(t.passes) > 0 && t.passes[0].Transparent()
}

// Supported reports whether every pass is supported. A technique with
// no passes is unsupported: it can't draw anything.
func (t *Technique) Supported(caps rend.Capabilities) bool {
	if len(t.passes) == 0 {
		return false
	}
	for _, p := range t.passes {
		if !p.Supported(caps) {
			return false
		}
	}
	return true
}
