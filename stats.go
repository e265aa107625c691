package rend

// FrameStats counts what happened during one frame. The collector,
// queue and compositor all write into the FrameContext's stats; the
// host reads them after the frame for profiling overlays or logging.
type FrameStats struct {
	// Visible is the number of renderables that passed culling.
	Visible int

	// Culled is the number of renderables rejected by frustum or
	// visibility-mask tests.
	Culled int

	// Solids and Transparents count the items flattened into
	// submissions, per category.
	Solids       int
	Transparents int

	// Batches is the number of distinct pass binds submitted.
	Batches int

	// DrawCalls is the number of draw operations submitted.
	DrawCalls int

	// FlushedPasses is the number of passes whose pending parameter
	// updates were flushed at clear time.
	FlushedPasses int

	// DegradedFormats counts compositor texture formats substituted
	// by the degradation policy.
	DegradedFormats int
}

// Reset zeroes all counters.
func (s *FrameStats) Reset() {
	*s = FrameStats{}
}
