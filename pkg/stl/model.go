package stl

import (
	"github.com/philipparndt/gosurf/pkg/geometry"
)

// Facet is one triangle as stored in an STL file: an outward normal and
// three corners, with no shared vertices.
type Facet struct {
	Normal     geometry.Vector3
	V1, V2, V3 geometry.Vector3
}

// Model represents a complete STL model
type Model struct {
	Name   string
	Facets []Facet
}

// NewModel creates a new STL model
func NewModel(name string) *Model {
	return &Model{
		Name:   name,
		Facets: make([]Facet, 0),
	}
}

// AddFacet appends a facet to the model
func (m *Model) AddFacet(f Facet) {
	m.Facets = append(m.Facets, f)
}

// FacetCount returns the number of facets in the model
func (m *Model) FacetCount() int {
	return len(m.Facets)
}

// BoundingBox calculates the bounding box of the entire model
func (m *Model) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, f := range m.Facets {
		bbox.Extend(f.V1)
		bbox.Extend(f.V2)
		bbox.Extend(f.V3)
	}
	return bbox
}

// Indexed welds corners with identical coordinates into shared vertices and
// returns the vertex positions in first-seen order together with one index
// triple per facet.
func (m *Model) Indexed() ([]geometry.Vector3, [][3]int) {
	lookup := make(map[geometry.Vector3]int, len(m.Facets))
	positions := make([]geometry.Vector3, 0, len(m.Facets)/2+3)
	faces := make([][3]int, 0, len(m.Facets))

	vertex := func(p geometry.Vector3) int {
		if i, ok := lookup[p]; ok {
			return i
		}
		i := len(positions)
		lookup[p] = i
		positions = append(positions, p)
		return i
	}

	for _, f := range m.Facets {
		faces = append(faces, [3]int{vertex(f.V1), vertex(f.V2), vertex(f.V3)})
	}
	return positions, faces
}

// FromIndexed builds a model from shared vertices, computing facet normals
// from the winding order.
func FromIndexed(name string, positions []geometry.Vector3, faces [][3]int) *Model {
	m := &Model{Name: name, Facets: make([]Facet, 0, len(faces))}
	for _, face := range faces {
		v1, v2, v3 := positions[face[0]], positions[face[1]], positions[face[2]]
		m.AddFacet(Facet{
			Normal: v2.Sub(v1).Cross(v3.Sub(v1)).Normalize(),
			V1:     v1,
			V2:     v2,
			V3:     v3,
		})
	}
	return m
}
