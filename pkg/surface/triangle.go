package surface

import (
	"github.com/philipparndt/gosurf/pkg/geometry"
)

// Triangle names three vertices of its mesh and caches two frames: the rest
// frame built at construction (or rebase) and the current frame built by the
// last Update.
type Triangle struct {
	index   int
	indices [3]int

	corners    [3]geometry.Vector3
	current    geometry.Frame
	degenerate bool

	rest           geometry.Frame
	restDegenerate bool
}

// Index returns the triangle index within its mesh.
func (t Triangle) Index() int { return t.index }

// Indices returns the vertex indices in winding order.
func (t Triangle) Indices() [3]int { return t.indices }

// Corners returns the vertex positions as of the last Update.
func (t Triangle) Corners() [3]geometry.Vector3 { return t.corners }

// Centroid returns the centroid as of the last Update.
func (t Triangle) Centroid() geometry.Vector3 {
	return t.corners[0].Add(t.corners[1]).Add(t.corners[2]).Mul(1.0 / 3.0)
}

// Degenerate reports whether the current frame could not be built.
func (t Triangle) Degenerate() bool { return t.degenerate }

// Current returns the frame as of the last Update.
func (t Triangle) Current() (geometry.Frame, error) {
	if t.degenerate {
		return geometry.Frame{}, &DegenerateGeometryError{Triangle: t.index, Err: geometry.ErrDegenerate}
	}
	return t.current, nil
}

// Rest returns the frame captured for the rest pose.
func (t Triangle) Rest() (geometry.Frame, error) {
	if t.restDegenerate {
		return geometry.Frame{}, &DegenerateGeometryError{Triangle: t.index, Err: geometry.ErrDegenerate}
	}
	return t.rest, nil
}

// Transfer takes a point expressed relative to the rest pose of this
// triangle and returns where it sits relative to the current pose. The
// in-plane coordinates follow the edges and the offset along the normal is
// kept.
func (t Triangle) Transfer(p geometry.Vector3) (geometry.Vector3, error) {
	rest, err := t.Rest()
	if err != nil {
		return geometry.Vector3{}, err
	}
	current, err := t.Current()
	if err != nil {
		return geometry.Vector3{}, err
	}
	return current.World(rest.Local(p)), nil
}

// ClosestPoint projects q onto the triangle as of the last Update.
func (t Triangle) ClosestPoint(q geometry.Vector3) geometry.Projection {
	return geometry.ClosestPointOnTriangle(q, t.corners[0], t.corners[1], t.corners[2])
}

// refresh rebuilds the current frame from the given vertices.
func (t *Triangle) refresh(vertices []Vertex) error {
	for k, i := range t.indices {
		t.corners[k] = vertices[i].position
	}

	frame, err := geometry.NewFrame(t.corners[0], t.corners[1], t.corners[2])
	if err != nil {
		t.current = geometry.Frame{}
		t.degenerate = true
		return &DegenerateGeometryError{Triangle: t.index, Err: err}
	}
	t.current = frame
	t.degenerate = false
	return nil
}

// snapshotRest copies the current frame into the rest frame.
func (t *Triangle) snapshotRest() {
	t.rest = t.current
	t.restDegenerate = t.degenerate
}
