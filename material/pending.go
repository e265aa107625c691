package material

import "sync"

// PendingPassUpdates is the process-wide set of passes whose parameters
// changed since the last frame and whose sort hashes must be
// recomputed. Registration is safe from any goroutine (resource loaders
// edit materials in the background); Flush runs on the render thread,
// called through FrameContext exactly once per frame before any queue
// clears its buckets. That ordering prevents a half-updated pass from
// being sorted by one queue and re-hashed under another.
//
// PendingPassUpdates implements rend.PassFlusher.
type PendingPassUpdates struct {
	mu  sync.Mutex
	set map[*Pass]struct{}
}

// NewPendingPassUpdates creates an empty update set.
func NewPendingPassUpdates() *PendingPassUpdates {
	return &PendingPassUpdates{set: make(map[*Pass]struct{})}
}

func (u *PendingPassUpdates) add(p *Pass) {
	u.mu.Lock()
	u.set[p] = struct{}{}
	u.mu.Unlock()
}

// Len returns the number of passes awaiting a flush.
func (u *PendingPassUpdates) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.set)
}

// Flush recomputes the hash of every registered pass and empties the
// set. Returns the number of passes touched.
func (u *PendingPassUpdates) Flush() int {
	u.mu.Lock()
	defer u.mu.Unlock()

	n := len(u.set)
	for p := range u.set {
		p.recomputeHash()
		delete(u.set, p)
	}
	return n
}
