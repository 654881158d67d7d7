// Package topology derives face adjacency from face/edge incidence.
package topology

import (
	"errors"
	"fmt"
	"sort"
)

// ErrMalformed is returned when incidence data does not describe a mesh.
var ErrMalformed = errors.New("malformed incidence")

// Incidence relates faces to the edges bounding them and edges to the faces
// that use them.
type Incidence struct {
	FaceEdges map[int][]int
	EdgeFaces map[int][]int
}

// Adjacency maps a face to the other faces sharing an edge with it. A face
// reached through two shared edges is listed twice.
type Adjacency map[int][]int

// Edge is an undirected edge between two vertex indices, A < B.
type Edge struct {
	A, B int
}

// NewEdge orders the endpoints.
func NewEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// FromTriangles derives incidence for triangles given as vertex index
// triples. Edge ids are assigned in first-seen order. The returned edge list
// maps edge id to its endpoints.
func FromTriangles(faces [][3]int) (Incidence, []Edge) {
	inc := Incidence{
		FaceEdges: make(map[int][]int, len(faces)),
		EdgeFaces: make(map[int][]int, len(faces)*3/2),
	}
	ids := make(map[Edge]int, len(faces)*3/2)
	var edges []Edge

	for f, tri := range faces {
		pairs := [3]Edge{
			NewEdge(tri[0], tri[1]),
			NewEdge(tri[1], tri[2]),
			NewEdge(tri[2], tri[0]),
		}
		for _, e := range pairs {
			id, ok := ids[e]
			if !ok {
				id = len(edges)
				ids[e] = id
				edges = append(edges, e)
			}
			inc.FaceEdges[f] = append(inc.FaceEdges[f], id)
			inc.EdgeFaces[id] = append(inc.EdgeFaces[id], f)
		}
	}
	return inc, edges
}

// Faces returns the face indices in ascending order.
func (inc Incidence) Faces() []int {
	faces := make([]int, 0, len(inc.FaceEdges))
	for f := range inc.FaceEdges {
		faces = append(faces, f)
	}
	sort.Ints(faces)
	return faces
}

// Build computes face adjacency. For every face f and every edge e of f,
// each face incident to e other than f is appended to f's list.
func Build(inc Incidence) (Adjacency, error) {
	adj := make(Adjacency, len(inc.FaceEdges))

	for _, f := range inc.Faces() {
		if len(inc.FaceEdges[f]) == 0 {
			return nil, fmt.Errorf("%w: face %d has no edges", ErrMalformed, f)
		}
		neighbors := []int{}
		for _, e := range inc.FaceEdges[f] {
			faces, ok := inc.EdgeFaces[e]
			if !ok {
				return nil, fmt.Errorf("%w: face %d references unknown edge %d", ErrMalformed, f, e)
			}
			if len(faces) == 0 {
				return nil, fmt.Errorf("%w: edge %d has no incident faces", ErrMalformed, e)
			}
			for _, other := range faces {
				if other != f {
					neighbors = append(neighbors, other)
				}
			}
		}
		adj[f] = neighbors
	}

	for e, faces := range inc.EdgeFaces {
		if len(faces) == 0 {
			return nil, fmt.Errorf("%w: edge %d has no incident faces", ErrMalformed, e)
		}
	}

	return adj, nil
}

// BoundaryEdges returns the ids of edges used by exactly one face, ascending.
func BoundaryEdges(inc Incidence) []int {
	var out []int
	for e, faces := range inc.EdgeFaces {
		if len(faces) == 1 {
			out = append(out, e)
		}
	}
	sort.Ints(out)
	return out
}

// NonManifoldEdges returns the ids of edges shared by more than two faces,
// ascending. Such edges are listed, not repaired.
func NonManifoldEdges(inc Incidence) []int {
	var out []int
	for e, faces := range inc.EdgeFaces {
		if len(faces) > 2 {
			out = append(out, e)
		}
	}
	sort.Ints(out)
	return out
}
