package rend

import "testing"

// countFlusher reports a fixed pass count and counts invocations.
type countFlusher struct {
	passes int
	calls  int
}

func (f *countFlusher) Flush() int {
	f.calls++
	return f.passes
}

func TestFlushPendingOncePerFrame(t *testing.T) {
	f := &countFlusher{passes: 3}
	fc := NewFrameContext(f)

	fc.BeginFrame()
	if got := fc.FlushPending(); got != 3 {
		t.Errorf("first FlushPending = %d, want 3", got)
	}
	// Later calls in the same frame are no-ops; several queues may
	// clear against the same context.
	if got := fc.FlushPending(); got != 0 {
		t.Errorf("second FlushPending = %d, want 0", got)
	}
	if f.calls != 1 {
		t.Errorf("flusher called %d times, want 1", f.calls)
	}

	fc.BeginFrame()
	if got := fc.FlushPending(); got != 3 {
		t.Errorf("FlushPending after new frame = %d, want 3", got)
	}
	if f.calls != 2 {
		t.Errorf("flusher called %d times after two frames, want 2", f.calls)
	}
}

func TestFlushPendingNilFlusher(t *testing.T) {
	fc := NewFrameContext(nil)
	fc.BeginFrame()
	if got := fc.FlushPending(); got != 0 {
		t.Errorf("FlushPending with nil flusher = %d, want 0", got)
	}
}

func TestBeginFrameResetsStats(t *testing.T) {
	fc := NewFrameContext(&countFlusher{passes: 2})
	fc.BeginFrame()
	fc.Stats.Visible = 10
	fc.FlushPending()
	if fc.Stats.FlushedPasses != 2 {
		t.Errorf("FlushedPasses = %d, want 2", fc.Stats.FlushedPasses)
	}

	fc.BeginFrame()
	if fc.Stats.Visible != 0 || fc.Stats.FlushedPasses != 0 {
		t.Errorf("stats not reset: %+v", fc.Stats)
	}
	if fc.Frame() != 2 {
		t.Errorf("Frame() = %d, want 2", fc.Frame())
	}
}
