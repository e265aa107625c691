package rend

// PassFlusher flushes pending pass parameter updates. Implemented by
// material.PendingPassUpdates; declared here so FrameContext does not
// depend on the material package.
type PassFlusher interface {
	// Flush applies all pending updates and returns how many passes
	// were touched.
	Flush() int
}

// FrameContext carries the per-process frame state that used to live in
// global singletons: the pending pass-update flush point, the frame
// counter and the frame statistics. One FrameContext is shared by every
// render queue in the process and passed explicitly into each queue's
// Clear.
//
// Pass parameter updates are cross-queue state: a pass edited between
// frames must be re-hashed before ANY queue reuses it, and exactly once.
// FlushPending enforces that by flushing on the first call per frame and
// doing nothing on later calls.
//
// FrameContext is confined to the render goroutine and needs no locking;
// the flusher itself is safe for concurrent registration from loader
// goroutines.
type FrameContext struct {
	flusher PassFlusher

	frame        uint64
	flushedFrame uint64

	// Stats accumulates counters for the current frame.
	Stats FrameStats
}

// NewFrameContext creates a context whose clears flush through f.
// f may be nil when no material system is attached (tests).
func NewFrameContext(f PassFlusher) *FrameContext {
	return &FrameContext{flusher: f}
}

// BeginFrame advances the frame counter and resets the statistics.
// Call once per frame before any queue fill.
func (fc *FrameContext) BeginFrame() {
	fc.frame++
	fc.Stats.Reset()
}

// Frame returns the current frame number. Frame 0 is before the first
// BeginFrame.
func (fc *FrameContext) Frame() uint64 {
	return fc.frame
}

// FlushPending flushes pending pass updates if they have not been
// flushed this frame yet. Every RenderQueue.Clear calls this first, so
// the flush happens exactly once per frame no matter how many queues
// are active, and always before any queue empties its buckets.
func (fc *FrameContext) FlushPending() int {
	if fc.flusher == nil || fc.flushedFrame == fc.frame {
		return 0
	}
	fc.flushedFrame = fc.frame
	n := fc.flusher.Flush()
	fc.Stats.FlushedPasses += n
	if n > 0 {
		Logger().Debug("framecontext: flushed pending pass updates",
			"frame", fc.frame, "passes", n)
	}
	return n
}
