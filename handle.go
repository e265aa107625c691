package rend

import (
	"sync"

	"github.com/gogpu/rend/internal/parallel"
)

// Handle is a stable reference to a renderable in a World. Handles are
// generational: removing an object invalidates its handle, so a stale
// handle misses instead of dangling. The zero Handle is never valid.
type Handle uint64

func makeHandle(index, gen uint32) Handle {
	return Handle(uint64(index)<<32 | uint64(gen))
}

func (h Handle) index() uint32 { return uint32(h >> 32) }
func (h Handle) gen() uint32   { return uint32(h) }

// IsZero reports whether h is the invalid zero handle.
func (h Handle) IsZero() bool { return h == 0 }

type worldEntry struct {
	r    Renderable
	gen  uint32
	live bool
}

// World is an arena of renderables. Queue structures store Handles
// into a World rather than raw references; destroying an object
// mid-frame is a contract violation either way, but handles make the
// violation detectable (Get misses) rather than undefined.
//
// Add, Remove, Get and Each must be called from the render goroutine.
// PrepareAsync may be called from any goroutine; prepared objects are
// handed off to the render thread by CommitPrepared, which the render
// loop calls before the next frame's queue fill.
type World struct {
	entries []worldEntry
	free    []uint32

	prepMu   sync.Mutex
	prepared []Renderable

	poolOnce sync.Once
	pool     *parallel.WorkerPool
}

// NewWorld creates an empty arena.
func NewWorld() *World {
	return &World{}
}

// Add inserts r and returns its handle.
func (w *World) Add(r Renderable) Handle {
	if n := len(w.free); n > 0 {
		idx := w.free[n-1]
		w.free = w.free[:n-1]
		e := &w.entries[idx]
		e.r = r
		e.live = true
		return makeHandle(idx, e.gen)
	}
	// Generations start at 1 so the zero Handle never resolves.
	w.entries = append(w.entries, worldEntry{r: r, gen: 1, live: true})
	return makeHandle(uint32(len(w.entries)-1), 1)
}

// Remove deletes the object behind h. The slot's generation is bumped
// so outstanding handles to it miss. Returns false for stale handles.
func (w *World) Remove(h Handle) bool {
	idx := h.index()
	if int(idx) >= len(w.entries) {
		return false
	}
	e := &w.entries[idx]
	if !e.live || e.gen != h.gen() {
		return false
	}
	e.r = nil
	e.live = false
	e.gen++
	w.free = append(w.free, idx)
	return true
}

// Get resolves h. The second return value is false for stale or zero
// handles.
func (w *World) Get(h Handle) (Renderable, bool) {
	idx := h.index()
	if int(idx) >= len(w.entries) {
		return nil, false
	}
	e := &w.entries[idx]
	if !e.live || e.gen != h.gen() {
		return nil, false
	}
	return e.r, true
}

// Len returns the number of live objects.
func (w *World) Len() int {
	n := 0
	for i := range w.entries {
		if w.entries[i].live {
			n++
		}
	}
	return n
}

// Each calls fn for every live object until fn returns false.
func (w *World) Each(fn func(Handle, Renderable) bool) {
	for i := range w.entries {
		e := &w.entries[i]
		if !e.live {
			continue
		}
		if !fn(makeHandle(uint32(i), e.gen), e.r) {
			return
		}
	}
}

// PrepareAsync runs prepare(r) on a background worker and stages r for
// insertion. The object becomes visible to the arena only after the
// render thread calls CommitPrepared; GPU handoff stays synchronized
// onto the thread that owns the graphics context.
func (w *World) PrepareAsync(r Renderable, prepare func(Renderable)) {
	w.poolOnce.Do(func() {
		w.pool = parallel.NewWorkerPool(0)
	})
	w.pool.Submit(func() {
		if prepare != nil {
			prepare(r)
		}
		w.prepMu.Lock()
		w.prepared = append(w.prepared, r)
		w.prepMu.Unlock()
	})
}

// CommitPrepared adds every staged object to the arena and returns the
// new handles. Called from the render goroutine before queue fill.
func (w *World) CommitPrepared() []Handle {
	w.prepMu.Lock()
	staged := w.prepared
	w.prepared = nil
	w.prepMu.Unlock()

	if len(staged) == 0 {
		return nil
	}
	handles := make([]Handle, len(staged))
	for i, r := range staged {
		handles[i] = w.Add(r)
	}
	Logger().Debug("world: committed prepared renderables", "count", len(staged))
	return handles
}

// Close stops the background preparation pool, if one was started.
// Staged but uncommitted objects are dropped.
func (w *World) Close() {
	if w.pool != nil {
		w.pool.Close()
	}
}
