package surface

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/philipparndt/gosurf/pkg/geometry"
	"github.com/philipparndt/gosurf/pkg/topology"
)

// Mesh is a triangle surface bound to one mesh of a Source.
type Mesh struct {
	src    Source
	handle string
	log    *zap.Logger

	vertices  []Vertex
	triangles []Triangle

	// shared between clones, never modified after construction
	adjacency topology.Adjacency
}

// Option configures a Mesh.
type Option func(*Mesh)

// WithLogger sets the logger used for construction and update diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(m *Mesh) {
		if log != nil {
			m.log = log
		}
	}
}

// New reads the mesh named handle from src. Every face must have exactly
// three valid vertex indices; otherwise a *TopologyError is returned and no
// mesh is built.
//
// Triangles without area do not fail construction. They are flagged and
// reported by Triangle.Degenerate.
func New(src Source, handle string, opts ...Option) (*Mesh, error) {
	m := &Mesh{
		src:    src,
		handle: handle,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	positions, err := m.readPositions()
	if err != nil {
		return nil, err
	}
	m.vertices = make([]Vertex, len(positions))
	for i, p := range positions {
		m.vertices[i] = Vertex{index: i, position: p, rest: p}
	}

	if err := m.readTriangles(); err != nil {
		return nil, err
	}

	degenerate := 0
	for i := range m.triangles {
		if err := m.triangles[i].refresh(m.vertices); err != nil {
			degenerate++
			m.log.Warn("degenerate triangle", zap.String("mesh", handle), zap.Int("triangle", i))
		}
		m.triangles[i].snapshotRest()
	}

	if err := m.buildAdjacency(); err != nil {
		return nil, err
	}

	m.log.Debug("surface built",
		zap.String("mesh", handle),
		zap.Int("vertices", len(m.vertices)),
		zap.Int("triangles", len(m.triangles)),
		zap.Int("degenerate", degenerate),
	)
	return m, nil
}

func (m *Mesh) readPositions() ([]geometry.Vector3, error) {
	count, err := m.src.VertexCount(m.handle)
	if err != nil {
		return nil, &CollaboratorError{Op: "vertex count", Handle: m.handle, Err: err}
	}

	positions := make([]geometry.Vector3, count)
	for i := range positions {
		p, err := m.src.VertexPosition(m.handle, i)
		if err != nil {
			return nil, &CollaboratorError{Op: fmt.Sprintf("read vertex %d", i), Handle: m.handle, Err: err}
		}
		positions[i] = p
	}
	return positions, nil
}

func (m *Mesh) readTriangles() error {
	count, err := m.src.FaceCount(m.handle)
	if err != nil {
		return &CollaboratorError{Op: "face count", Handle: m.handle, Err: err}
	}

	m.triangles = make([]Triangle, count)
	for f := range m.triangles {
		indices, err := m.src.FaceVertexIndices(m.handle, f)
		if err != nil {
			return &CollaboratorError{Op: fmt.Sprintf("read face %d", f), Handle: m.handle, Err: err}
		}
		if len(indices) != 3 {
			return &TopologyError{Face: f, Reason: fmt.Sprintf("non-triangular face with %d vertices", len(indices))}
		}

		tri := Triangle{index: f}
		for k, i := range indices {
			if i < 0 || i >= len(m.vertices) {
				return &TopologyError{Face: f, Reason: fmt.Sprintf("vertex index %d out of range [0, %d)", i, len(m.vertices))}
			}
			tri.indices[k] = i
		}
		m.triangles[f] = tri
	}
	return nil
}

func (m *Mesh) buildAdjacency() error {
	inc, err := m.src.FaceEdgeIncidence(m.handle)
	if err != nil {
		return &CollaboratorError{Op: "face edge incidence", Handle: m.handle, Err: err}
	}

	if len(inc.FaceEdges) != len(m.triangles) {
		return &TopologyError{Face: -1, Reason: fmt.Sprintf("incidence lists %d faces, mesh has %d", len(inc.FaceEdges), len(m.triangles))}
	}
	for f := range inc.FaceEdges {
		if f < 0 || f >= len(m.triangles) {
			return &TopologyError{Face: f, Reason: "face in incidence is not in the mesh"}
		}
	}

	adj, err := topology.Build(inc)
	if err != nil {
		return &TopologyError{Face: -1, Err: err}
	}
	m.adjacency = adj
	return nil
}

// Handle returns the name of the mesh within its Source.
func (m *Mesh) Handle() string { return m.handle }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.vertices) }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.triangles) }

// Vertex returns vertex i.
func (m *Mesh) Vertex(i int) (Vertex, error) {
	if err := checkIndex("vertex", i, len(m.vertices)); err != nil {
		return Vertex{}, err
	}
	return m.vertices[i], nil
}

// Vertices returns a copy of all vertices.
func (m *Mesh) Vertices() []Vertex {
	out := make([]Vertex, len(m.vertices))
	copy(out, m.vertices)
	return out
}

// Triangle returns triangle i.
func (m *Mesh) Triangle(i int) (Triangle, error) {
	if err := checkIndex("triangle", i, len(m.triangles)); err != nil {
		return Triangle{}, err
	}
	return m.triangles[i], nil
}

// Triangles returns a copy of all triangles.
func (m *Mesh) Triangles() []Triangle {
	out := make([]Triangle, len(m.triangles))
	copy(out, m.triangles)
	return out
}

// Adjacency returns the face adjacency built at construction. The map is
// shared with clones and must not be modified.
func (m *Mesh) Adjacency() topology.Adjacency { return m.adjacency }

// Neighbors returns the triangles sharing an edge with triangle i.
func (m *Mesh) Neighbors(i int) ([]int, error) {
	if err := checkIndex("triangle", i, len(m.triangles)); err != nil {
		return nil, err
	}
	out := make([]int, len(m.adjacency[i]))
	copy(out, m.adjacency[i])
	return out, nil
}

// Update refreshes vertex positions from the Source and then recomputes the
// current frame of every triangle, as selected. Frames are never recomputed
// implicitly.
//
// Positions are committed only after all of them were read. Degenerate
// triangles do not stop the update; their errors are combined and returned.
func (m *Mesh) Update(updateVertices, updateTriangles bool) error {
	if updateVertices {
		positions, err := m.readPositions()
		if err != nil {
			return err
		}
		if len(positions) != len(m.vertices) {
			return &TopologyError{Face: -1, Reason: fmt.Sprintf("vertex count changed from %d to %d", len(m.vertices), len(positions))}
		}
		for i, p := range positions {
			m.vertices[i].position = p
		}
	}

	if !updateTriangles {
		return nil
	}

	var errs error
	for i := range m.triangles {
		if err := m.triangles[i].refresh(m.vertices); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		m.log.Warn("degenerate triangles after update",
			zap.String("mesh", m.handle),
			zap.Int("count", len(multierr.Errors(errs))),
		)
	}
	return errs
}

// SetVertexPosition moves vertex i, writing the position through to the
// Source first. Triangle frames are not recomputed.
func (m *Mesh) SetVertexPosition(i int, p geometry.Vector3) error {
	if err := checkIndex("vertex", i, len(m.vertices)); err != nil {
		return err
	}
	if err := m.src.SetVertexPosition(m.handle, i, p); err != nil {
		return &CollaboratorError{Op: fmt.Sprintf("write vertex %d", i), Handle: m.handle, Err: err}
	}
	m.vertices[i].position = p
	return nil
}

// Reset writes every rest position back to the Source, restoring the
// original shape. Rest positions are unchanged and frames are left for the
// next Update.
func (m *Mesh) Reset() error {
	for i := range m.vertices {
		if err := m.SetVertexPosition(i, m.vertices[i].rest); err != nil {
			return err
		}
	}
	return nil
}

// RebaseRestPose takes the live positions as the new rest pose and rebuilds
// the rest frames from them.
func (m *Mesh) RebaseRestPose() error {
	var errs error
	for i := range m.vertices {
		m.vertices[i].rest = m.vertices[i].position
	}
	for i := range m.triangles {
		if err := m.triangles[i].refresh(m.vertices); err != nil {
			errs = multierr.Append(errs, err)
		}
		m.triangles[i].snapshotRest()
	}
	return errs
}

// Clone returns an independent copy. The copy owns its positions: writes and
// resets through it never reach this mesh or its Source, and its Update reads
// back only its own writes. Cached frames are copied as they are, not
// recomputed.
func (m *Mesh) Clone() *Mesh {
	c := m.copyState()
	c.src = detach(m)
	return c
}

func (m *Mesh) copyState() *Mesh {
	return &Mesh{
		src:       m.src,
		handle:    m.handle,
		log:       m.log,
		vertices:  m.Vertices(),
		triangles: m.Triangles(),
		adjacency: m.adjacency,
	}
}

// CloneTo returns a copy bound to another Source mesh, typically a duplicate
// of this one. The target must have the same vertex and face counts.
func (m *Mesh) CloneTo(src Source, handle string) (*Mesh, error) {
	vertices, err := src.VertexCount(handle)
	if err != nil {
		return nil, &CollaboratorError{Op: "vertex count", Handle: handle, Err: err}
	}
	faces, err := src.FaceCount(handle)
	if err != nil {
		return nil, &CollaboratorError{Op: "face count", Handle: handle, Err: err}
	}
	if vertices != len(m.vertices) || faces != len(m.triangles) {
		return nil, &TopologyError{Face: -1, Reason: fmt.Sprintf(
			"clone target %q has %d vertices and %d faces, expected %d and %d",
			handle, vertices, faces, len(m.vertices), len(m.triangles))}
	}

	c := m.copyState()
	c.src = src
	c.handle = handle
	return c, nil
}
