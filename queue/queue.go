package queue

import (
	"fmt"
	"sync"

	"github.com/gogpu/rend"
	"github.com/gogpu/rend/internal/parallel"
	"github.com/gogpu/rend/material"
)

// depthParallelThreshold is the bucket size above which per-item depth
// computation moves to the worker pool. Below it the fan-out costs more
// than it saves.
const depthParallelThreshold = 1024

// Listener observes and may redirect queue adds. Returning ok=false
// vetoes the renderable for this frame; returning a different technique
// substitutes it before pass routing.
type Listener interface {
	PrepareRenderable(r Renderable, tech *material.Technique) (t *material.Technique, ok bool)
}

// Option configures a RenderQueue.
type Option func(*RenderQueue)

// WithDefaultMaterial sets the fallback material for renderables that
// carry neither material nor technique. Passing nil removes the
// fallback entirely, making such adds a reported configuration error.
// The default is material.Default().
func WithDefaultMaterial(m *material.Material) Option {
	return func(q *RenderQueue) { q.defaultMat = m }
}

// WithScheme sets the initial technique-resolution scheme.
func WithScheme(scheme string) Option {
	return func(q *RenderQueue) { q.SetScheme(scheme) }
}

// WithListener installs an add listener.
func WithListener(l Listener) Option {
	return func(q *RenderQueue) { q.listener = l }
}

// WithDefaultGroup changes the group used by the Sink adapter and by
// Push. The default is rend.GroupMain.
func WithDefaultGroup(gid rend.GroupID) Option {
	return func(q *RenderQueue) { q.defaultGroup = gid }
}

// WithSortMode presets the organization mode a group is created with.
func WithSortMode(gid rend.GroupID, mode SortMode) Option {
	return func(q *RenderQueue) { q.modes[gid] = mode }
}

// RenderQueue routes renderables into groups and produces the frame's
// submission order. It is confined to the render goroutine; only the
// background depth fill fans out, and that joins before Sort returns.
type RenderQueue struct {
	groups map[rend.GroupID]*Group
	order  []rend.GroupID
	dirty  bool

	modes        map[rend.GroupID]SortMode
	defaultGroup rend.GroupID
	defaultMat   *material.Material
	scheme       string
	schemeIdx    int
	listener     Listener

	poolOnce sync.Once
	pool     *parallel.WorkerPool
}

// New creates an empty queue. Overlay groups default to pass-grouping
// only: overlays are painter-ordered by priority, so distance sorting
// would fight the author's ordering.
func New(opts ...Option) *RenderQueue {
	q := &RenderQueue{
		groups:       make(map[rend.GroupID]*Group),
		modes:        make(map[rend.GroupID]SortMode),
		defaultGroup: rend.GroupMain,
		defaultMat:   material.Default(),
	}
	q.modes[rend.GroupOverlay] = SortPassGroup
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// SetScheme switches the technique-resolution scheme for subsequent
// adds. The name is interned here, once, so every add resolves against
// a small-int index. The compositor uses this for per-pass material
// scheme overrides.
func (q *RenderQueue) SetScheme(scheme string) {
	q.scheme = scheme
	q.schemeIdx = material.SchemeIndex(scheme)
}

// Scheme returns the active technique-resolution scheme.
func (q *RenderQueue) Scheme() string { return q.scheme }

// Group returns the group for gid, creating it on first use.
func (q *RenderQueue) Group(gid rend.GroupID) *Group {
	g, ok := q.groups[gid]
	if !ok {
		mode, hasMode := q.modes[gid]
		if !hasMode {
			mode = DefaultSortMode
		}
		g = newGroup(mode)
		q.groups[gid] = g
		q.dirty = true
	}
	return g
}

// resolveTechnique picks the technique for r: explicit override first,
// then the material's best for the active scheme, then the queue's
// default material. No resolution at all is a fatal configuration
// error.
func (q *RenderQueue) resolveTechnique(r Renderable) (*material.Technique, error) {
	if t := r.Technique(); t != nil {
		return t, nil
	}
	if m := r.Material(); m != nil {
		if t := m.BestTechniqueIndex(q.schemeIdx); t != nil {
			return t, nil
		}
	}
	if q.defaultMat != nil {
		if t := q.defaultMat.BestTechniqueIndex(q.schemeIdx); t != nil {
			return t, nil
		}
	}
	return nil, material.ErrNoTechnique
}

// Add resolves r's technique and appends one item per pass into the
// (gid, prio) bucket. Adds always append: duplicate calls duplicate
// entries, and avoiding that is the caller's responsibility.
//
// The returned error is a fatal fill-time configuration error (see
// material.ErrNoTechnique); the caller should abandon this camera's
// fill and report it.
func (q *RenderQueue) Add(h rend.Handle, r Renderable, gid rend.GroupID, prio rend.Priority) error {
	tech, err := q.resolveTechnique(r)
	if err != nil {
		return fmt.Errorf("queue: add to %v: %w", gid, err)
	}
	if q.listener != nil {
		t, ok := q.listener.PrepareRenderable(r, tech)
		if !ok {
			return nil
		}
		if t != nil {
			tech = t
		}
	}

	g := q.Group(gid)
	for _, p := range tech.Passes() {
		g.add(prio, Item{Handle: h, Renderable: r, Pass: p})
	}
	return nil
}

// Push adds r to the queue's default group at the default priority.
func (q *RenderQueue) Push(h rend.Handle, r Renderable) error {
	return q.Add(h, r, q.defaultGroup, rend.DefaultPriority)
}

// Sink returns a rend.Sink view of the queue for use with a Collector.
// Renderables that do not satisfy queue.Renderable (no material
// contract) are a configuration error.
func (q *RenderQueue) Sink() rend.Sink {
	return sinkAdapter{q}
}

type sinkAdapter struct{ q *RenderQueue }

func (s sinkAdapter) Add(h rend.Handle, r rend.Renderable) error {
	qr, ok := r.(Renderable)
	if !ok {
		return fmt.Errorf("queue: renderable %T carries no material state", r)
	}
	return s.q.Push(h, qr)
}

// Sort establishes the submission order for every group. Call exactly
// once per frame, after the fill completes and before any drain:
// transparent ordering needs the full, stable set of camera distances.
func (q *RenderQueue) Sort(cam rend.Camera) {
	fill := q.depthFiller()
	for _, gid := range q.sortedGroupIDs() {
		q.groups[gid].sort(cam, fill)
	}
	rend.Logger().Debug("queue: sorted", "groups", len(q.groups))
}

// Clear empties every group while keeping their allocated capacity.
// It first flushes the process-wide pending pass updates through fc,
// which happens exactly once per frame across all queues.
func (q *RenderQueue) Clear(fc *rend.FrameContext) {
	if fc != nil {
		fc.FlushPending()
	}
	for _, g := range q.groups {
		g.clear()
	}
}

// Merge unions other's contents into q, group by group, preserving both
// queues' priority buckets and keeping duplicates. other is unchanged.
func (q *RenderQueue) Merge(other *RenderQueue) {
	for gid, og := range other.groups {
		q.Group(gid).merge(og)
	}
}

// Len returns the total number of queued items.
func (q *RenderQueue) Len() int {
	n := 0
	for _, g := range q.groups {
		n += g.Len()
	}
	return n
}

// Each walks the groups in GroupID order until fn returns false.
// Lower-numbered groups always precede higher-numbered ones; that is
// the frame's coarse submission order.
func (q *RenderQueue) Each(fn func(gid rend.GroupID, g *Group) bool) {
	for _, gid := range q.sortedGroupIDs() {
		if !fn(gid, q.groups[gid]) {
			return
		}
	}
}

// EachRange walks only the groups in [first, last] in order. The
// compositor's render-scene passes use this to restrict a pass to a
// group span.
func (q *RenderQueue) EachRange(first, last rend.GroupID, fn func(gid rend.GroupID, g *Group) bool) {
	for _, gid := range q.sortedGroupIDs() {
		if gid < first || gid > last {
			continue
		}
		if !fn(gid, q.groups[gid]) {
			return
		}
	}
}

// Close releases the background sorting pool, if one was started.
func (q *RenderQueue) Close() {
	if q.pool != nil {
		q.pool.Close()
	}
}

func (q *RenderQueue) sortedGroupIDs() []rend.GroupID {
	if q.dirty {
		q.order = q.order[:0]
		for gid := range q.groups {
			q.order = append(q.order, gid)
		}
		// Insertion sort; the group count is tiny.
		for i := 1; i < len(q.order); i++ {
			for j := i; j > 0 && q.order[j] < q.order[j-1]; j-- {
				q.order[j], q.order[j-1] = q.order[j-1], q.order[j]
			}
		}
		q.dirty = false
	}
	return q.order
}

func (q *RenderQueue) depthFiller() depthFiller {
	return func(items []Item, cam rend.Camera) {
		if len(items) == 0 {
			return
		}
		if len(items) < depthParallelThreshold {
			for i := range items {
				items[i].depth = items[i].Renderable.SquaredViewDepth(cam)
			}
			return
		}
		q.poolOnce.Do(func() {
			q.pool = parallel.NewWorkerPool(0)
		})
		q.pool.ForEach(len(items), 256, func(start, end int) {
			for i := start; i < end; i++ {
				items[i].depth = items[i].Renderable.SquaredViewDepth(cam)
			}
		})
	}
}
