package rend

// Sink receives renderables that survived the collector's filtering.
// Implemented by the queue package's render queues.
type Sink interface {
	// Add appends one renderable. A non-nil error is a fatal fill-time
	// configuration error and aborts the collection.
	Add(h Handle, r Renderable) error
}

// VisibleBounds accumulates the world bounds of the objects visible to
// one camera in one frame. Box covers every visible object; ReceiverBox
// covers only shadow receivers. Shadow setup uses both to size and clip
// shadow frusta.
type VisibleBounds struct {
	Box         Bounds
	ReceiverBox Bounds
}

// NewVisibleBounds returns empty accumulation state.
func NewVisibleBounds() VisibleBounds {
	return VisibleBounds{Box: EmptyBounds(), ReceiverBox: EmptyBounds()}
}

// MergeRenderable folds r's bounds into the accumulation.
func (vb *VisibleBounds) MergeRenderable(r Renderable) {
	b := r.WorldBounds()
	vb.Box = vb.Box.Merge(b)
	if r.ReceivesShadows() {
		vb.ReceiverBox = vb.ReceiverBox.Merge(b)
	}
}

// Collector walks a World per camera and pushes the renderables that
// pass its predicates into a Sink. It applies, in order: liveness (free
// slots are skipped by the arena), visibility-mask match, frustum test,
// and optionally a casters-only filter for shadow passes.
//
// Shadow passes and color passes run DIFFERENT collectors over the SAME
// world; there is never a second copy of the scene.
type Collector struct {
	world       *World
	mask        uint32
	onlyCasters bool
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithVisibilityMask restricts collection to renderables whose
// visibility flags intersect mask. The default is VisibilityAll.
func WithVisibilityMask(mask uint32) CollectorOption {
	return func(c *Collector) { c.mask = mask }
}

// WithOnlyShadowCasters restricts collection to shadow casters. Used
// for the caster pass; note an object with ReceivesShadows false still
// collects here when it casts.
func WithOnlyShadowCasters() CollectorOption {
	return func(c *Collector) { c.onlyCasters = true }
}

// NewCollector creates a collector over w.
func NewCollector(w *World, opts ...CollectorOption) *Collector {
	c := &Collector{world: w, mask: VisibilityAll}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect pushes every passing renderable into sink and returns the
// accumulated visible bounds. A sink error aborts the walk and is
// returned; per the error contract that means the frame's fill for this
// camera is abandoned.
func (c *Collector) Collect(cam Camera, sink Sink, fc *FrameContext) (VisibleBounds, error) {
	vb := NewVisibleBounds()
	var walkErr error

	c.world.Each(func(h Handle, r Renderable) bool {
		if r.VisibilityFlags()&c.mask == 0 || !cam.Sees(r.WorldBounds()) {
			if fc != nil {
				fc.Stats.Culled++
			}
			return true
		}
		if c.onlyCasters && !r.CastsShadows() {
			if fc != nil {
				fc.Stats.Culled++
			}
			return true
		}
		if err := sink.Add(h, r); err != nil {
			walkErr = err
			return false
		}
		vb.MergeRenderable(r)
		if fc != nil {
			fc.Stats.Visible++
		}
		return true
	})

	return vb, walkErr
}
