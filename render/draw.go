package render

import (
	"github.com/gogpu/rend"
	"github.com/gogpu/rend/material"
	"github.com/gogpu/rend/queue"
)

// DrawItem is one renderable under one bound pass.
type DrawItem struct {
	Handle     rend.Handle
	Renderable rend.Renderable
	Transform  rend.Mat4
}

// Batch is one pass bind plus every item drawn under it, in order.
// For solids the queue guarantees exactly one batch per distinct pass;
// transparents become single-item batches because their depth order
// outranks state-change economy.
type Batch struct {
	Pass  *material.Pass
	Items []DrawItem
}

// Submission is the flattened, final draw stream for one queue drain:
// batches in submission order. Iterating and issuing them front to back
// is all a backend does.
type Submission struct {
	Batches []Batch
}

// Reset empties s while keeping capacity.
func (s *Submission) Reset() {
	s.Batches = s.Batches[:0]
}

// DrawCalls returns the total item count across batches.
func (s *Submission) DrawCalls() int {
	n := 0
	for i := range s.Batches {
		n += len(s.Batches[i].Items)
	}
	return n
}

// BuildSubmission flattens the queue's groups [first, last] into s in
// submission order: groups ascending, priorities ascending, solids
// pass-grouped, then that bucket's transparents back-to-front. The
// queue must already be sorted (queue.Sort) for this camera.
//
// pred filters items (nil for none); use queue.CastersOnly for shadow
// caster streams. fc, when non-nil, receives the batch, draw-call and
// per-category item counts.
func BuildSubmission(q *queue.RenderQueue, first, last rend.GroupID, pred queue.Predicate, fc *rend.FrameContext, s *Submission) {
	s.Reset()
	solids, transparents := 0, 0

	q.EachRange(first, last, func(gid rend.GroupID, g *queue.Group) bool {
		g.Each(func(prio rend.Priority, pg *queue.PriorityGroup) bool {
			pg.VisitSolids(func(pass *material.Pass, items []queue.Item) bool {
				b := Batch{Pass: pass, Items: make([]DrawItem, len(items))}
				for i, it := range items {
					b.Items[i] = DrawItem{
						Handle:     it.Handle,
						Renderable: it.Renderable,
						Transform:  it.Renderable.WorldTransform(),
					}
				}
				s.Batches = append(s.Batches, b)
				solids += len(items)
				return true
			}, pred)

			pg.VisitTransparents(func(it queue.Item) bool {
				s.Batches = append(s.Batches, Batch{
					Pass: it.Pass,
					Items: []DrawItem{{
						Handle:     it.Handle,
						Renderable: it.Renderable,
						Transform:  it.Renderable.WorldTransform(),
					}},
				})
				transparents++
				return true
			}, pred)
			return true
		})
		return true
	})

	if fc != nil {
		fc.Stats.Solids += solids
		fc.Stats.Transparents += transparents
		fc.Stats.Batches += len(s.Batches)
		fc.Stats.DrawCalls += s.DrawCalls()
	}
}
