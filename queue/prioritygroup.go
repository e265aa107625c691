package queue

import (
	"sort"

	"github.com/gogpu/rend"
	"github.com/gogpu/rend/material"
)

// SortMode controls how a group organizes its contents.
type SortMode uint8

const (
	// SortPassGroup groups solids by pass identity so the backend
	// binds each pass once. Inter-pass order is pass hash ascending,
	// ties by first-insertion order.
	SortPassGroup SortMode = 1 << iota

	// SortDistance depth-sorts transparents back-to-front. Always
	// wanted for correctness; separate only so degenerate tooling can
	// observe insertion order.
	SortDistance

	// SortFrontToBack additionally sorts the solids within one pass
	// group by ascending distance, helping early-z rejection.
	SortFrontToBack
)

// DefaultSortMode is pass-grouped solids plus depth-sorted transparents.
const DefaultSortMode = SortPassGroup | SortDistance

// PriorityGroup holds the items of one (group, priority) bucket, split
// into solids (keyed by pass identity) and transparents (a flat list
// that Sort orders back-to-front). Clearing retains allocated capacity
// so steady-state frames stop allocating.
type PriorityGroup struct {
	solids    map[*material.Pass][]Item
	passOrder []*material.Pass

	transparents []Item

	scratch []Item
}

func newPriorityGroup() *PriorityGroup {
	return &PriorityGroup{solids: make(map[*material.Pass][]Item)}
}

func (pg *PriorityGroup) add(it Item) {
	if it.Pass.Transparent() {
		pg.transparents = append(pg.transparents, it)
		return
	}
	items := pg.solids[it.Pass]
	if len(items) == 0 {
		pg.passOrder = append(pg.passOrder, it.Pass)
	}
	pg.solids[it.Pass] = append(items, it)
}

// clear empties the bucket but keeps slice capacity. Pass keys that
// went unused this frame are dropped so the map tracks the working set.
func (pg *PriorityGroup) clear() {
	for p, items := range pg.solids {
		if len(items) == 0 {
			delete(pg.solids, p)
			continue
		}
		pg.solids[p] = items[:0]
	}
	pg.passOrder = pg.passOrder[:0]
	pg.transparents = pg.transparents[:0]
}

func (pg *PriorityGroup) merge(other *PriorityGroup) {
	for _, p := range other.passOrder {
		for _, it := range other.solids[p] {
			pg.add(it)
		}
	}
	pg.transparents = append(pg.transparents, other.transparents...)
}

// Len returns the number of queued items.
func (pg *PriorityGroup) Len() int {
	n := len(pg.transparents)
	for _, items := range pg.solids {
		n += len(items)
	}
	return n
}

// SolidCount returns the number of queued solid items.
func (pg *PriorityGroup) SolidCount() int {
	n := 0
	for _, items := range pg.solids {
		n += len(items)
	}
	return n
}

// TransparentCount returns the number of queued transparent items.
func (pg *PriorityGroup) TransparentCount() int {
	return len(pg.transparents)
}

// PassCount returns the number of distinct solid passes, which equals
// the number of pass binds the bucket will cost.
func (pg *PriorityGroup) PassCount() int {
	return len(pg.passOrder)
}

// sortContents establishes the bucket's submission order. depths must
// already be filled (see Group.sort).
func (pg *PriorityGroup) sortContents(mode SortMode) {
	if mode&SortPassGroup != 0 {
		sort.SliceStable(pg.passOrder, func(i, j int) bool {
			return pg.passOrder[i].Hash() < pg.passOrder[j].Hash()
		})
	}
	if mode&SortFrontToBack != 0 {
		for _, items := range pg.solids {
			sort.SliceStable(items, func(i, j int) bool {
				return items[i].depth < items[j].depth
			})
		}
	}
	if mode&SortDistance != 0 {
		// Back-to-front: farthest first. Stable so equal depths keep
		// insertion order.
		sort.SliceStable(pg.transparents, func(i, j int) bool {
			return pg.transparents[i].depth > pg.transparents[j].depth
		})
	}
}

// fillDepths computes the squared view depth of every item that a later
// sortContents will compare.
func (pg *PriorityGroup) fillDepths(cam rend.Camera, mode SortMode, par depthFiller) {
	if mode&SortDistance != 0 {
		par(pg.transparents, cam)
	}
	if mode&SortFrontToBack != 0 {
		for _, items := range pg.solids {
			par(items, cam)
		}
	}
}

// VisitSolids walks the solids in submission order: passes ordered by
// hash (after sortContents), each visited once with all its items.
// A nil predicate visits everything; with a predicate, passes whose
// items are all filtered out are skipped entirely, so no empty pass
// bind is ever reported.
func (pg *PriorityGroup) VisitSolids(v SolidVisitor, pred Predicate) bool {
	for _, p := range pg.passOrder {
		items := pg.solids[p]
		if len(items) == 0 {
			continue
		}
		if pred != nil {
			pg.scratch = pg.scratch[:0]
			for _, it := range items {
				if pred(it) {
					pg.scratch = append(pg.scratch, it)
				}
			}
			if len(pg.scratch) == 0 {
				continue
			}
			items = pg.scratch
		}
		if !v(p, items) {
			return false
		}
	}
	return true
}

// VisitTransparents walks the transparents in submission order
// (back-to-front after Sort).
func (pg *PriorityGroup) VisitTransparents(v TransparentVisitor, pred Predicate) bool {
	for _, it := range pg.transparents {
		if pred != nil && !pred(it) {
			continue
		}
		if !v(it) {
			return false
		}
	}
	return true
}

// depthFiller fills Item.depth for a slice; the queue supplies either a
// sequential or a pooled parallel implementation based on size.
type depthFiller func(items []Item, cam rend.Camera)
