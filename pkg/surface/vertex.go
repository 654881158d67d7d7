package surface

import (
	"fmt"

	"github.com/philipparndt/gosurf/pkg/geometry"
)

// Vertex is a mesh point with its live position and the rest position
// captured when the mesh was built or last rebased.
type Vertex struct {
	index    int
	position geometry.Vector3
	rest     geometry.Vector3
}

func (v Vertex) String() string {
	return fmt.Sprintf("vertex %d (%.2f, %.2f, %.2f)", v.index, v.position.X, v.position.Y, v.position.Z)
}

// Index returns the vertex index within its mesh.
func (v Vertex) Index() int { return v.index }

// Position returns the live position.
func (v Vertex) Position() geometry.Vector3 { return v.position }

// RestPosition returns the rest pose position.
func (v Vertex) RestPosition() geometry.Vector3 { return v.rest }

// Delta returns rest - position.
func (v Vertex) Delta() geometry.Vector3 { return v.rest.Sub(v.position) }
