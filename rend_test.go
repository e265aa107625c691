package rend

// testRenderable is a minimal Renderable for arena and collector tests.
type testRenderable struct {
	name     string
	bounds   Bounds
	depth    float32
	lights   []Light
	casts    bool
	receives bool
	flags    uint32
	prepared bool
}

func newTestRenderable(name string, center Vec3) *testRenderable {
	half := Vec3{1, 1, 1}
	return &testRenderable{
		name:     name,
		bounds:   Bounds{Min: center.Sub(half), Max: center.Add(half)},
		receives: true,
		flags:    VisibilityAll,
	}
}

func (r *testRenderable) RenderOperation() RenderOperation {
	return RenderOperation{Topology: TopologyTriangleList, VertexCount: 3}
}
func (r *testRenderable) WorldTransform() Mat4 { return Identity() }
func (r *testRenderable) WorldBounds() Bounds  { return r.bounds }
func (r *testRenderable) SquaredViewDepth(cam Camera) float32 {
	if r.depth != 0 {
		return r.depth * r.depth
	}
	return r.bounds.Center().DistanceSq(cam.Position())
}
func (r *testRenderable) Lights() []Light         { return r.lights }
func (r *testRenderable) CastsShadows() bool      { return r.casts }
func (r *testRenderable) ReceivesShadows() bool   { return r.receives }
func (r *testRenderable) VisibilityFlags() uint32 { return r.flags }
