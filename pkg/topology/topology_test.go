package topology

import (
	"errors"
	"reflect"
	"testing"
)

// quad is two triangles sharing the diagonal 0-2.
var quad = [][3]int{
	{0, 1, 2},
	{0, 2, 3},
}

func TestFromTriangles(t *testing.T) {
	inc, edges := FromTriangles(quad)

	if len(edges) != 5 {
		t.Fatalf("expected 5 edges, got %d", len(edges))
	}
	if !reflect.DeepEqual(inc.FaceEdges[0], []int{0, 1, 2}) {
		t.Errorf("FaceEdges[0] failed: got %v", inc.FaceEdges[0])
	}
	// edge 2 is 0-2, the shared diagonal
	if edges[2] != NewEdge(2, 0) {
		t.Errorf("edge 2 failed: expected %v, got %v", NewEdge(0, 2), edges[2])
	}
	if !reflect.DeepEqual(inc.EdgeFaces[2], []int{0, 1}) {
		t.Errorf("EdgeFaces[2] failed: expected [0 1], got %v", inc.EdgeFaces[2])
	}
}

func TestBuildQuad(t *testing.T) {
	inc, _ := FromTriangles(quad)
	adj, err := Build(inc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	expected := Adjacency{0: {1}, 1: {0}}
	if !reflect.DeepEqual(adj, expected) {
		t.Errorf("Build failed: expected %v, got %v", expected, adj)
	}
}

func TestBuildKeepsRepeatedNeighbors(t *testing.T) {
	// two faces over the same three vertices share all three edges
	inc, _ := FromTriangles([][3]int{{0, 1, 2}, {2, 1, 0}})
	adj, err := Build(inc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if !reflect.DeepEqual(adj[0], []int{1, 1, 1}) {
		t.Errorf("expected face 1 listed once per shared edge, got %v", adj[0])
	}
}

func TestBuildSymmetric(t *testing.T) {
	// a fan of four triangles around vertex 0
	faces := [][3]int{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}, {0, 4, 1}, {5, 6, 7}}
	inc, _ := FromTriangles(faces)
	adj, err := Build(inc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for a, neighbors := range adj {
		for _, b := range neighbors {
			if !contains(adj[b], a) {
				t.Errorf("adjacency not symmetric: %d lists %d but %d lists %v", a, b, b, adj[b])
			}
		}
	}
	if len(adj[4]) != 0 {
		t.Errorf("isolated face should have no neighbors, got %v", adj[4])
	}
	if len(adj[0]) != 2 {
		t.Errorf("fan face should have 2 neighbors, got %v", adj[0])
	}
}

func TestBuildMalformed(t *testing.T) {
	tests := []struct {
		name string
		inc  Incidence
	}{
		{
			name: "unknown edge",
			inc: Incidence{
				FaceEdges: map[int][]int{0: {0, 1, 2}},
				EdgeFaces: map[int][]int{0: {0}, 1: {0}},
			},
		},
		{
			name: "edge without faces",
			inc: Incidence{
				FaceEdges: map[int][]int{0: {0, 1, 2}},
				EdgeFaces: map[int][]int{0: {0}, 1: {0}, 2: {}},
			},
		},
		{
			name: "face without edges",
			inc: Incidence{
				FaceEdges: map[int][]int{0: {0, 1, 2}, 1: {}},
				EdgeFaces: map[int][]int{0: {0}, 1: {0}, 2: {0}},
			},
		},
		{
			name: "face with nil edges",
			inc: Incidence{
				FaceEdges: map[int][]int{0: nil},
				EdgeFaces: map[int][]int{},
			},
		},
		{
			name: "orphan edge",
			inc: Incidence{
				FaceEdges: map[int][]int{0: {0, 1, 2}},
				EdgeFaces: map[int][]int{0: {0}, 1: {0}, 2: {0}, 3: nil},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj, err := Build(tt.inc)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
			if adj != nil {
				t.Errorf("expected no adjacency, got %v", adj)
			}
		})
	}
}

func TestBoundaryAndNonManifoldEdges(t *testing.T) {
	inc, edges := FromTriangles([][3]int{{0, 1, 2}, {0, 2, 3}, {0, 2, 4}})

	boundary := BoundaryEdges(inc)
	if len(boundary) != 6 {
		t.Errorf("expected 6 boundary edges, got %d", len(boundary))
	}

	nonManifold := NonManifoldEdges(inc)
	if len(nonManifold) != 1 || edges[nonManifold[0]] != NewEdge(0, 2) {
		t.Errorf("expected the 0-2 edge to be non-manifold, got %v", nonManifold)
	}
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
