package rend

// Camera exposes the view state the queue core needs: a position for
// depth sorting and a visibility test for culling. Projection and view
// matrices are forwarded to the render system untouched.
type Camera interface {
	// Position returns the camera's world-space position.
	Position() Vec3

	// ViewMatrix returns the world-to-view transform.
	ViewMatrix() Mat4

	// ProjectionMatrix returns the view-to-clip transform.
	ProjectionMatrix() Mat4

	// Sees reports whether the bounds intersect the camera's visible
	// volume. An empty bounds is never seen.
	Sees(b Bounds) bool
}

// BasicCamera is a minimal Camera: a position, view/projection matrices
// supplied by the host, and a far-distance visibility test. Scene graphs
// with real frustum culling provide their own Camera implementation.
type BasicCamera struct {
	Pos  Vec3
	View Mat4
	Proj Mat4

	// Far bounds the visible distance. Zero or negative means
	// unlimited: everything with non-empty bounds is seen.
	Far float32
}

// Position returns the camera position.
func (c *BasicCamera) Position() Vec3 { return c.Pos }

// ViewMatrix returns the world-to-view transform.
func (c *BasicCamera) ViewMatrix() Mat4 { return c.View }

// ProjectionMatrix returns the view-to-clip transform.
func (c *BasicCamera) ProjectionMatrix() Mat4 { return c.Proj }

// Sees reports whether b's bounding sphere is within Far of the camera.
func (c *BasicCamera) Sees(b Bounds) bool {
	if b.Empty() {
		return false
	}
	if c.Far <= 0 {
		return true
	}
	reach := c.Far + b.Radius()
	return b.Center().DistanceSq(c.Pos) <= reach*reach
}

var _ Camera = (*BasicCamera)(nil)
