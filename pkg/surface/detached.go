package surface

import (
	"fmt"

	"github.com/philipparndt/gosurf/pkg/geometry"
	"github.com/philipparndt/gosurf/pkg/topology"
)

// detached is the private Source of a cloned Mesh. It owns a copy of the
// positions and faces, so writes through the clone stay with the clone.
type detached struct {
	positions []geometry.Vector3
	faces     [][3]int
}

func detach(m *Mesh) *detached {
	d := &detached{
		positions: make([]geometry.Vector3, len(m.vertices)),
		faces:     make([][3]int, len(m.triangles)),
	}
	for i, v := range m.vertices {
		d.positions[i] = v.position
	}
	for i, t := range m.triangles {
		d.faces[i] = t.indices
	}
	return d
}

func (d *detached) VertexCount(string) (int, error) { return len(d.positions), nil }

func (d *detached) VertexPosition(_ string, index int) (geometry.Vector3, error) {
	if index < 0 || index >= len(d.positions) {
		return geometry.Vector3{}, fmt.Errorf("vertex %d out of range", index)
	}
	return d.positions[index], nil
}

func (d *detached) SetVertexPosition(_ string, index int, p geometry.Vector3) error {
	if index < 0 || index >= len(d.positions) {
		return fmt.Errorf("vertex %d out of range", index)
	}
	d.positions[index] = p
	return nil
}

func (d *detached) FaceCount(string) (int, error) { return len(d.faces), nil }

func (d *detached) FaceVertexIndices(_ string, face int) ([]int, error) {
	if face < 0 || face >= len(d.faces) {
		return nil, fmt.Errorf("face %d out of range", face)
	}
	f := d.faces[face]
	return []int{f[0], f[1], f[2]}, nil
}

func (d *detached) FaceEdgeIncidence(string) (topology.Incidence, error) {
	inc, _ := topology.FromTriangles(d.faces)
	return inc, nil
}
