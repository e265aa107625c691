package queue

import (
	"github.com/gogpu/rend"
	"github.com/gogpu/rend/material"
)

// Renderable is what the queue requires of a drawable: the core
// geometry contract plus material state for technique resolution.
type Renderable interface {
	rend.Renderable

	// Material returns the object's material, or nil if none is
	// assigned (the queue then falls back to its default material).
	Material() *material.Material

	// Technique returns an explicit technique override, or nil to
	// resolve through the material.
	Technique() *material.Technique
}

// Item is one queued (renderable, pass) entry. A renderable whose
// technique has N passes contributes N items, one per pass, so the
// drain loop never re-resolves materials.
type Item struct {
	Handle     rend.Handle
	Renderable Renderable
	Pass       *material.Pass

	// depth is the squared camera distance, filled by Sort.
	depth float32
}

// Depth returns the item's squared view depth as of the last Sort.
func (it Item) Depth() float32 { return it.depth }

// Predicate filters items during iteration. Shadow-caster passes and
// color passes iterate the SAME stored items with different predicates;
// the queue never keeps a second copy per pass kind.
type Predicate func(Item) bool

// CastersOnly matches items whose renderable casts shadows. Note that
// an object with ReceivesShadows false still matches when it casts:
// caster iteration is independent of receiver eligibility.
func CastersOnly(it Item) bool {
	return it.Renderable.CastsShadows()
}

// SolidVisitor receives one pass and every item bound to it. Returning
// false stops the iteration.
type SolidVisitor func(pass *material.Pass, items []Item) bool

// TransparentVisitor receives depth-ordered transparent items.
// Returning false stops the iteration.
type TransparentVisitor func(it Item) bool
