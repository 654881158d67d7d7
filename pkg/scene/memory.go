// Package scene holds named meshes in memory and serves them to surfaces.
package scene

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/philipparndt/gosurf/pkg/geometry"
	"github.com/philipparndt/gosurf/pkg/stl"
	"github.com/philipparndt/gosurf/pkg/topology"
)

var (
	// ErrUnknownMesh is returned for a handle that names no mesh.
	ErrUnknownMesh = errors.New("unknown mesh")
	// ErrMeshExists is returned when adding under a handle already in use.
	ErrMeshExists = errors.New("mesh already exists")
	// ErrNotTriangulated is returned for triangle-only queries on a mesh
	// with other polygons.
	ErrNotTriangulated = errors.New("mesh is not triangulated")
)

type mesh struct {
	positions []geometry.Vector3
	faces     [][]int
}

func (m *mesh) triangles() ([][3]int, error) {
	out := make([][3]int, len(m.faces))
	for f, face := range m.faces {
		if len(face) != 3 {
			return nil, fmt.Errorf("face %d has %d vertices: %w", f, len(face), ErrNotTriangulated)
		}
		out[f] = [3]int{face[0], face[1], face[2]}
	}
	return out, nil
}

// Memory is a thread-safe in-memory scene.
type Memory struct {
	mu     sync.RWMutex
	meshes map[string]*mesh
}

// NewMemory returns an empty scene.
func NewMemory() *Memory {
	return &Memory{meshes: make(map[string]*mesh)}
}

// Add stores a mesh under handle. Positions and faces are copied. Faces may
// be any polygon; vertex indices are checked against positions.
func (s *Memory) Add(handle string, positions []geometry.Vector3, faces [][]int) error {
	m := &mesh{
		positions: append([]geometry.Vector3(nil), positions...),
		faces:     make([][]int, len(faces)),
	}
	for f, face := range faces {
		for _, i := range face {
			if i < 0 || i >= len(positions) {
				return fmt.Errorf("face %d: vertex index %d out of range [0, %d)", f, i, len(positions))
			}
		}
		m.faces[f] = append([]int(nil), face...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meshes[handle]; ok {
		return fmt.Errorf("%q: %w", handle, ErrMeshExists)
	}
	s.meshes[handle] = m
	return nil
}

// AddTriangles stores a triangle mesh under handle.
func (s *Memory) AddTriangles(handle string, positions []geometry.Vector3, faces [][3]int) error {
	polys := make([][]int, len(faces))
	for f, face := range faces {
		polys[f] = []int{face[0], face[1], face[2]}
	}
	return s.Add(handle, positions, polys)
}

// AddModel welds an STL model into shared vertices and stores it.
func (s *Memory) AddModel(handle string, model *stl.Model) error {
	positions, faces := model.Indexed()
	return s.AddTriangles(handle, positions, faces)
}

// Duplicate copies the mesh at src to a new handle dst.
func (s *Memory) Duplicate(src, dst string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meshes[src]
	if !ok {
		return fmt.Errorf("%q: %w", src, ErrUnknownMesh)
	}
	if _, ok := s.meshes[dst]; ok {
		return fmt.Errorf("%q: %w", dst, ErrMeshExists)
	}

	c := &mesh{
		positions: append([]geometry.Vector3(nil), m.positions...),
		faces:     make([][]int, len(m.faces)),
	}
	for f, face := range m.faces {
		c.faces[f] = append([]int(nil), face...)
	}
	s.meshes[dst] = c
	return nil
}

// Remove deletes the mesh at handle.
func (s *Memory) Remove(handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meshes[handle]; !ok {
		return fmt.Errorf("%q: %w", handle, ErrUnknownMesh)
	}
	delete(s.meshes, handle)
	return nil
}

// Handles returns the stored handles in sorted order.
func (s *Memory) Handles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.meshes))
	for h := range s.meshes {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// lookup must be called with s.mu held.
func (s *Memory) lookup(handle string) (*mesh, error) {
	m, ok := s.meshes[handle]
	if !ok {
		return nil, fmt.Errorf("%q: %w", handle, ErrUnknownMesh)
	}
	return m, nil
}

// Positions returns a copy of every vertex position.
func (s *Memory) Positions(handle string) ([]geometry.Vector3, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, err := s.lookup(handle)
	if err != nil {
		return nil, err
	}
	return append([]geometry.Vector3(nil), m.positions...), nil
}

// ReplacePositions overwrites every vertex position. The vertex count must
// not change.
func (s *Memory) ReplacePositions(handle string, positions []geometry.Vector3) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.lookup(handle)
	if err != nil {
		return err
	}
	if len(positions) != len(m.positions) {
		return fmt.Errorf("%q has %d vertices, got %d positions", handle, len(m.positions), len(positions))
	}
	copy(m.positions, positions)
	return nil
}

// VertexCount returns the number of vertices of the mesh.
func (s *Memory) VertexCount(handle string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, err := s.lookup(handle)
	if err != nil {
		return 0, err
	}
	return len(m.positions), nil
}

// VertexPosition returns the position of one vertex.
func (s *Memory) VertexPosition(handle string, index int) (geometry.Vector3, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, err := s.lookup(handle)
	if err != nil {
		return geometry.Vector3{}, err
	}
	if index < 0 || index >= len(m.positions) {
		return geometry.Vector3{}, fmt.Errorf("vertex %d out of range [0, %d)", index, len(m.positions))
	}
	return m.positions[index], nil
}

// SetVertexPosition moves one vertex.
func (s *Memory) SetVertexPosition(handle string, index int, p geometry.Vector3) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.lookup(handle)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(m.positions) {
		return fmt.Errorf("vertex %d out of range [0, %d)", index, len(m.positions))
	}
	m.positions[index] = p
	return nil
}

// FaceCount returns the number of faces of the mesh.
func (s *Memory) FaceCount(handle string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, err := s.lookup(handle)
	if err != nil {
		return 0, err
	}
	return len(m.faces), nil
}

// FaceVertexIndices returns a copy of the vertex indices of one face.
func (s *Memory) FaceVertexIndices(handle string, face int) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, err := s.lookup(handle)
	if err != nil {
		return nil, err
	}
	if face < 0 || face >= len(m.faces) {
		return nil, fmt.Errorf("face %d out of range [0, %d)", face, len(m.faces))
	}
	return append([]int(nil), m.faces[face]...), nil
}

// FaceEdgeIncidence derives edge incidence for a triangle mesh.
func (s *Memory) FaceEdgeIncidence(handle string) (topology.Incidence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, err := s.lookup(handle)
	if err != nil {
		return topology.Incidence{}, err
	}
	tris, err := m.triangles()
	if err != nil {
		return topology.Incidence{}, err
	}
	inc, _ := topology.FromTriangles(tris)
	return inc, nil
}

// Edges returns the undirected edges of a triangle mesh by edge id.
func (s *Memory) Edges(handle string) ([]topology.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, err := s.lookup(handle)
	if err != nil {
		return nil, err
	}
	tris, err := m.triangles()
	if err != nil {
		return nil, err
	}
	_, edges := topology.FromTriangles(tris)
	return edges, nil
}

// ClosestPointOnScene returns the nearest point to p on the live geometry of
// a triangle mesh.
func (s *Memory) ClosestPointOnScene(handle string, p geometry.Vector3) (geometry.Vector3, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, err := s.lookup(handle)
	if err != nil {
		return geometry.Vector3{}, err
	}
	tris, err := m.triangles()
	if err != nil {
		return geometry.Vector3{}, err
	}
	if len(tris) == 0 {
		return geometry.Vector3{}, fmt.Errorf("%q has no faces", handle)
	}

	var best geometry.Vector3
	bestD2 := math.Inf(1)
	for _, t := range tris {
		q := geometry.ClosestPointOnTriangle(p, m.positions[t[0]], m.positions[t[1]], m.positions[t[2]]).Point
		if d2 := p.Sub(q).LengthSquared(); d2 < bestD2 {
			best, bestD2 = q, d2
		}
	}
	return best, nil
}

// SaveSTL writes the mesh at handle to path as binary STL.
func (s *Memory) SaveSTL(handle, path string) error {
	s.mu.RLock()
	m, err := s.lookup(handle)
	if err != nil {
		s.mu.RUnlock()
		return err
	}
	tris, err := m.triangles()
	if err != nil {
		s.mu.RUnlock()
		return err
	}
	model := stl.FromIndexed(handle, m.positions, tris)
	s.mu.RUnlock()

	return model.WriteFile(path)
}
