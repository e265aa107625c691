package rend

// Topology describes how vertices assemble into primitives.
type Topology uint8

const (
	TopologyTriangleList Topology = iota
	TopologyTriangleStrip
	TopologyLineList
	TopologyLineStrip
	TopologyPointList
)

// RenderOperation describes one drawable unit of geometry: the vertex
// and index streams plus the primitive topology. Buffer handles are
// opaque resource IDs owned by the host's resource system; rend never
// dereferences them, it only forwards them to the render system.
type RenderOperation struct {
	Topology    Topology
	VertexCount int
	IndexCount  int

	// VertexBuffer and IndexBuffer are host resource IDs. IndexBuffer
	// is 0 for non-indexed draws.
	VertexBuffer uint64
	IndexBuffer  uint64
}

// Indexed reports whether the draw uses an index buffer.
func (op RenderOperation) Indexed() bool { return op.IndexBuffer != 0 }

// LightKind classifies a light source.
type LightKind uint8

const (
	LightDirectional LightKind = iota
	LightPoint
	LightSpot
)

// Light is the queue-facing view of a light source. Shading is the
// backend's concern; the queue only forwards the lights a renderable
// reports as affecting it.
type Light struct {
	Kind         LightKind
	Position     Vec3
	Direction    Vec3
	Range        float32
	CastsShadows bool
}

// VisibilityAll is the visibility mask matching every renderable.
const VisibilityAll uint32 = 0xFFFFFFFF

// Renderable is one drawable unit as seen by the queue: geometry, a
// world placement, and the per-object flags the grouping and shadow
// predicates need. Material resolution is layered on top by the queue
// package, which requires its renderables to also expose material state.
//
// Renderables are created and destroyed by the scene graph. Queue
// structures hold non-owning Handles into a World; a renderable must
// stay alive from queue-fill until the frame's submission completes.
type Renderable interface {
	// RenderOperation returns the geometry to draw.
	RenderOperation() RenderOperation

	// WorldTransform returns the object's world matrix.
	WorldTransform() Mat4

	// WorldBounds returns the world-space bounding box used for
	// frustum culling and visible-bounds accumulation.
	WorldBounds() Bounds

	// SquaredViewDepth returns the squared distance from the camera,
	// the sort key for transparency ordering. Squared because ordering
	// does not need the square root.
	SquaredViewDepth(cam Camera) float32

	// Lights returns the lights affecting this object this frame.
	Lights() []Light

	// CastsShadows reports whether the object is included in
	// shadow-caster iteration.
	CastsShadows() bool

	// ReceivesShadows reports whether the object participates in
	// shadow-receiver bookkeeping.
	ReceivesShadows() bool

	// VisibilityFlags is matched against the collector's and the
	// compositor's visibility masks; an object is visible to a pass
	// when flags AND mask is non-zero.
	VisibilityFlags() uint32
}
