// Package surface models a triangulated surface: vertex positions with a
// captured rest pose, per-triangle cached frames, face adjacency, and
// closest point queries.
//
// A Mesh is not safe for concurrent use. Derived triangle geometry is only
// recomputed by Update.
package surface

import (
	"github.com/philipparndt/gosurf/pkg/geometry"
	"github.com/philipparndt/gosurf/pkg/topology"
)

// Source is the scene that owns the mesh data. A Mesh reads positions and
// connectivity from it and writes moved positions back to it.
type Source interface {
	VertexCount(handle string) (int, error)
	VertexPosition(handle string, index int) (geometry.Vector3, error)
	SetVertexPosition(handle string, index int, p geometry.Vector3) error
	FaceCount(handle string) (int, error)
	FaceVertexIndices(handle string, face int) ([]int, error)
	FaceEdgeIncidence(handle string) (topology.Incidence, error)
}

// SceneQuerier is implemented by sources that answer closest point queries
// themselves.
type SceneQuerier interface {
	ClosestPointOnScene(handle string, p geometry.Vector3) (geometry.Vector3, error)
}
