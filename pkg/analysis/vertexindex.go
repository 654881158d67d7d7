package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/philipparndt/gosurf/pkg/geometry"
	"github.com/philipparndt/gosurf/pkg/surface"
)

// vertexPoint is a vertex position stored in the kd-tree. Its Distance is
// the squared Euclidean distance, as kdtree expects.
type vertexPoint struct {
	index int
	p     geometry.Vector3
}

func (v vertexPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(vertexPoint)
	return v.p.Component(geometry.Axis(d)) - q.p.Component(geometry.Axis(d))
}

func (v vertexPoint) Dims() int { return 3 }

func (v vertexPoint) Distance(c kdtree.Comparable) float64 {
	return v.p.Sub(c.(vertexPoint).p).LengthSquared()
}

type vertexPoints []vertexPoint

func (p vertexPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p vertexPoints) Len() int                       { return len(p) }
func (p vertexPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p vertexPoints) Pivot(d kdtree.Dim) int {
	return plane{Dim: d, vertexPoints: p}.Pivot()
}

// plane sorts vertex points along one dimension.
type plane struct {
	kdtree.Dim
	vertexPoints
}

func (p plane) Less(i, j int) bool {
	axis := geometry.Axis(p.Dim)
	return p.vertexPoints[i].p.Component(axis) < p.vertexPoints[j].p.Component(axis)
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.vertexPoints = p.vertexPoints[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.vertexPoints[i], p.vertexPoints[j] = p.vertexPoints[j], p.vertexPoints[i]
}

// NearestVertex is a vertex found by a VertexIndex query.
type NearestVertex struct {
	Index    int
	Position geometry.Vector3
	Distance float64
}

// VertexIndex answers nearest vertex queries over a snapshot of vertex
// positions.
type VertexIndex struct {
	tree *kdtree.Tree
	size int
}

// NewVertexIndex indexes the current vertex positions of m.
func NewVertexIndex(m *surface.Mesh) *VertexIndex {
	vertices := m.Vertices()
	points := make(vertexPoints, len(vertices))
	for i, v := range vertices {
		points[i] = vertexPoint{index: v.Index(), p: v.Position()}
	}
	if len(points) == 0 {
		return &VertexIndex{}
	}
	return &VertexIndex{tree: kdtree.New(points, false), size: len(points)}
}

// Len returns the number of indexed vertices.
func (idx *VertexIndex) Len() int { return idx.size }

// Nearest returns the vertex closest to q. ok is false for an empty index.
func (idx *VertexIndex) Nearest(q geometry.Vector3) (NearestVertex, bool) {
	if idx.size == 0 {
		return NearestVertex{}, false
	}
	c, d2 := idx.tree.Nearest(vertexPoint{p: q})
	v := c.(vertexPoint)
	return NearestVertex{Index: v.index, Position: v.p, Distance: math.Sqrt(d2)}, true
}

// NearestN returns up to n vertices ordered by distance to q, nearest first.
func (idx *VertexIndex) NearestN(q geometry.Vector3, n int) []NearestVertex {
	if idx.size == 0 || n <= 0 {
		return nil
	}

	keep := kdtree.NewNKeeper(n)
	idx.tree.NearestSet(keep, vertexPoint{p: q})

	out := make([]NearestVertex, 0, n)
	for _, cd := range keep.Heap {
		v, ok := cd.Comparable.(vertexPoint)
		if !ok {
			continue
		}
		out = append(out, NearestVertex{Index: v.index, Position: v.p, Distance: math.Sqrt(cd.Dist)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].Index < out[j].Index
	})
	return out
}
