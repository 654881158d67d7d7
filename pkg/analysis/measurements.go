package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/gosurf/pkg/geometry"
	"github.com/philipparndt/gosurf/pkg/surface"
	"github.com/philipparndt/gosurf/pkg/topology"
)

// EdgeInfo contains information about an edge of the surface
type EdgeInfo struct {
	Edge   topology.Edge
	Start  geometry.Vector3
	End    geometry.Vector3
	Length float64
	Faces  []int
}

// MeasurementResult contains various measurements of a surface
type MeasurementResult struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	Volume        float64
	SurfaceArea   float64
	VertexCount   int
	TriangleCount int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64

	BoundaryEdges       []EdgeInfo
	NonManifoldEdges    []EdgeInfo
	DegenerateTriangles []int
	IsolatedTriangles   []int
	MaxNeighbors        int
	AvgNeighbors        float64

	AllEdges []EdgeInfo
}

// AnalyzeSurface measures the surface as of its last Update. Each
// undirected edge is counted once.
func AnalyzeSurface(m *surface.Mesh) *MeasurementResult {
	triangles := m.Triangles()
	result := &MeasurementResult{
		BoundingBox:   geometry.NewBoundingBox(),
		VertexCount:   m.VertexCount(),
		TriangleCount: len(triangles),
	}

	faces := make([][3]int, len(triangles))
	for i, tri := range triangles {
		faces[i] = tri.Indices()
		c := tri.Corners()
		for _, p := range c {
			result.BoundingBox.Extend(p)
		}
		result.SurfaceArea += c[1].Sub(c[0]).Cross(c[2].Sub(c[0])).Length() / 2
		if tri.Degenerate() {
			result.DegenerateTriangles = append(result.DegenerateTriangles, i)
		}
	}
	result.Dimensions = result.BoundingBox.Size()
	if !result.BoundingBox.Empty() {
		result.Volume = result.BoundingBox.Volume()
	}

	inc, edges := topology.FromTriangles(faces)
	positions := make([]geometry.Vector3, m.VertexCount())
	for _, v := range m.Vertices() {
		positions[v.Index()] = v.Position()
	}

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0
	for id, e := range edges {
		info := EdgeInfo{
			Edge:   e,
			Start:  positions[e.A],
			End:    positions[e.B],
			Length: positions[e.A].Distance(positions[e.B]),
			Faces:  inc.EdgeFaces[id],
		}
		result.AllEdges = append(result.AllEdges, info)

		totalLength += info.Length
		minLength = math.Min(minLength, info.Length)
		maxLength = math.Max(maxLength, info.Length)
	}
	for _, id := range topology.BoundaryEdges(inc) {
		result.BoundaryEdges = append(result.BoundaryEdges, result.AllEdges[id])
	}
	for _, id := range topology.NonManifoldEdges(inc) {
		result.NonManifoldEdges = append(result.NonManifoldEdges, result.AllEdges[id])
	}

	result.EdgeCount = len(result.AllEdges)
	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	totalNeighbors := 0
	for i := range triangles {
		n, _ := m.Neighbors(i)
		totalNeighbors += len(n)
		if len(n) > result.MaxNeighbors {
			result.MaxNeighbors = len(n)
		}
		if len(n) == 0 {
			result.IsolatedTriangles = append(result.IsolatedTriangles, i)
		}
	}
	if len(triangles) > 0 {
		result.AvgNeighbors = float64(totalNeighbors) / float64(len(triangles))
	}

	return result
}

// FindEdgesByLength finds all edges within a length range
func FindEdgesByLength(result *MeasurementResult, minLength, maxLength float64) []EdgeInfo {
	var edges []EdgeInfo
	for _, edge := range result.AllEdges {
		if edge.Length >= minLength && edge.Length <= maxLength {
			edges = append(edges, edge)
		}
	}
	return edges
}

// FindLongestEdges returns the N longest edges
func FindLongestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length > b.Length })
}

// FindShortestEdges returns the N shortest edges
func FindShortestEdges(result *MeasurementResult, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length < b.Length })
}

func sortedEdges(result *MeasurementResult, count int, less func(a, b EdgeInfo) bool) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.SliceStable(edges, func(i, j int) bool {
		return less(edges[i], edges[j])
	})

	if count > len(edges) {
		count = len(edges)
	}
	if count < 0 {
		count = 0
	}
	return edges[:count]
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
