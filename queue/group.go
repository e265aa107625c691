package queue

import (
	"sort"

	"github.com/gogpu/rend"
)

// Group is the per-frame collection for one GroupID: priority-indexed
// buckets, each split into solids and transparents. Priorities iterate
// ascending; the bucket map and its sorted key cache are retained
// across frames.
type Group struct {
	priorities map[rend.Priority]*PriorityGroup
	order      []rend.Priority
	orderDirty bool

	mode SortMode

	// ShadowsEnabled gates whether this group participates in shadow
	// passes at all. Overlays and skies typically disable it.
	ShadowsEnabled bool
}

func newGroup(mode SortMode) *Group {
	return &Group{
		priorities:     make(map[rend.Priority]*PriorityGroup),
		mode:           mode,
		ShadowsEnabled: true,
	}
}

// SortMode returns the group's organization mode.
func (g *Group) SortMode() SortMode { return g.mode }

// SetSortMode changes how the group organizes its contents. Takes
// effect at the next Sort.
func (g *Group) SetSortMode(mode SortMode) { g.mode = mode }

func (g *Group) bucket(prio rend.Priority) *PriorityGroup {
	pg, ok := g.priorities[prio]
	if !ok {
		pg = newPriorityGroup()
		g.priorities[prio] = pg
		g.orderDirty = true
	}
	return pg
}

func (g *Group) add(prio rend.Priority, it Item) {
	g.bucket(prio).add(it)
}

func (g *Group) clear() {
	for _, pg := range g.priorities {
		pg.clear()
	}
}

func (g *Group) merge(other *Group) {
	for prio, pg := range other.priorities {
		g.bucket(prio).merge(pg)
	}
}

func (g *Group) sortedPriorities() []rend.Priority {
	if g.orderDirty {
		g.order = g.order[:0]
		for prio := range g.priorities {
			g.order = append(g.order, prio)
		}
		sort.Slice(g.order, func(i, j int) bool { return g.order[i] < g.order[j] })
		g.orderDirty = false
	}
	return g.order
}

func (g *Group) sort(cam rend.Camera, fill depthFiller) {
	for _, prio := range g.sortedPriorities() {
		pg := g.priorities[prio]
		pg.fillDepths(cam, g.mode, fill)
		pg.sortContents(g.mode)
	}
}

// Len returns the number of queued items across all priorities.
func (g *Group) Len() int {
	n := 0
	for _, pg := range g.priorities {
		n += pg.Len()
	}
	return n
}

// Each walks the priority buckets ascending until fn returns false.
func (g *Group) Each(fn func(prio rend.Priority, pg *PriorityGroup) bool) {
	for _, prio := range g.sortedPriorities() {
		if !fn(prio, g.priorities[prio]) {
			return
		}
	}
}

// VisitSolids walks every priority's solids in submission order.
func (g *Group) VisitSolids(v SolidVisitor, pred Predicate) bool {
	for _, prio := range g.sortedPriorities() {
		if !g.priorities[prio].VisitSolids(v, pred) {
			return false
		}
	}
	return true
}

// VisitTransparents walks every priority's transparents in submission
// order.
func (g *Group) VisitTransparents(v TransparentVisitor, pred Predicate) bool {
	for _, prio := range g.sortedPriorities() {
		if !g.priorities[prio].VisitTransparents(v, pred) {
			return false
		}
	}
	return true
}
