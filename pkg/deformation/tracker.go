// Package deformation derives per-vertex displacement from a surface and
// aggregates it for visualisation.
package deformation

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/gosurf/pkg/geometry"
	"github.com/philipparndt/gosurf/pkg/surface"
)

// ErrCorrespondence is returned when two surfaces compared vertex by vertex
// do not have the same number of vertices.
var ErrCorrespondence = errors.New("vertex correspondence mismatch")

// Range is a closed interval of delta component values.
type Range struct {
	Min, Max float64
}

// Span returns Max - Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// Displacement is the delta of one vertex.
type Displacement struct {
	Vertex    int
	Delta     geometry.Vector3
	Magnitude float64
}

// Tracker holds per-vertex deltas computed at the last Update. A tracker
// made by NewTracker measures each vertex against its rest position; one
// made by NewComparison measures a reference surface against a target.
type Tracker struct {
	target    *surface.Mesh
	reference *surface.Mesh

	deltas []geometry.Vector3
	values Range
	axes   [3]Range
}

// NewTracker tracks rest - position for every vertex of m.
func NewTracker(m *surface.Mesh) *Tracker {
	t := &Tracker{target: m}
	t.track(m.Vertices(), nil)
	return t
}

// NewComparison tracks reference.position - target.position for vertices
// with the same index.
func NewComparison(reference, target *surface.Mesh) (*Tracker, error) {
	t := &Tracker{target: target, reference: reference}
	if err := t.Update(); err != nil {
		return nil, err
	}
	return t, nil
}

// Update recomputes every delta from the vertex positions the surfaces hold
// now. Deltas are not refreshed otherwise. Only a comparison can fail, when
// the two surfaces no longer have the same vertex count.
func (t *Tracker) Update() error {
	vertices := t.target.Vertices()
	if t.reference == nil {
		t.track(vertices, nil)
		return nil
	}

	reference := t.reference.Vertices()
	if len(reference) != len(vertices) {
		return fmt.Errorf("%w: %q has %d vertices, %q has %d", ErrCorrespondence,
			t.reference.Handle(), len(reference), t.target.Handle(), len(vertices))
	}
	t.track(vertices, reference)
	return nil
}

// track stores the deltas of vertices, against reference when it is not nil
// and against their rest positions otherwise.
func (t *Tracker) track(vertices, reference []surface.Vertex) {
	deltas := make([]geometry.Vector3, len(vertices))
	for i, v := range vertices {
		if reference != nil {
			deltas[i] = reference[i].Position().Sub(v.Position())
		} else {
			deltas[i] = v.Delta()
		}
	}

	t.deltas = deltas
	t.aggregate()
}

func (t *Tracker) aggregate() {
	t.values = Range{}
	t.axes = [3]Range{}
	if len(t.deltas) == 0 {
		return
	}

	for _, axis := range geometry.Axes {
		r := Range{Min: math.Inf(1), Max: math.Inf(-1)}
		for _, d := range t.deltas {
			c := d.Component(axis)
			r.Min = math.Min(r.Min, c)
			r.Max = math.Max(r.Max, c)
		}
		t.axes[axis] = r
	}

	t.values = t.axes[0]
	for _, r := range t.axes[1:] {
		t.values.Min = math.Min(t.values.Min, r.Min)
		t.values.Max = math.Max(t.values.Max, r.Max)
	}
}

// Len returns the number of tracked vertices.
func (t *Tracker) Len() int { return len(t.deltas) }

// Delta returns the delta of vertex i.
func (t *Tracker) Delta(i int) (geometry.Vector3, error) {
	if i < 0 || i >= len(t.deltas) {
		return geometry.Vector3{}, &surface.IndexError{Kind: "vertex", Index: i, Len: len(t.deltas)}
	}
	return t.deltas[i], nil
}

// Deltas returns a copy of all deltas by vertex index.
func (t *Tracker) Deltas() []geometry.Vector3 {
	return append([]geometry.Vector3(nil), t.deltas...)
}

// ValueRange returns the smallest and largest delta component over every
// vertex and axis. It is the zero Range when there are no vertices.
func (t *Tracker) ValueRange() Range { return t.values }

// AxisRange returns the range of one delta component. It is the zero Range
// for an axis other than x, y or z.
func (t *Tracker) AxisRange(axis geometry.Axis) Range {
	if !axis.Valid() {
		return Range{}
	}
	return t.axes[axis]
}

// Normalized maps the delta of vertex i into [0, 1] per component using
// the value range. All components map to 0.5 when the range is empty.
func (t *Tracker) Normalized(i int) (geometry.Vector3, error) {
	d, err := t.Delta(i)
	if err != nil {
		return geometry.Vector3{}, err
	}
	span := t.values.Span()
	if span == 0 {
		return geometry.NewVector3(0.5, 0.5, 0.5), nil
	}
	offset := geometry.NewVector3(t.values.Min, t.values.Min, t.values.Min)
	return d.Sub(offset).Mul(1 / span), nil
}

// MostDisplaced returns up to n vertices ordered by delta length, largest
// first. Equal lengths keep vertex order.
func (t *Tracker) MostDisplaced(n int) []Displacement {
	all := make([]Displacement, len(t.deltas))
	for i, d := range t.deltas {
		all[i] = Displacement{Vertex: i, Delta: d, Magnitude: d.Length()}
	}
	sort.SliceStable(all, func(a, b int) bool {
		return all[a].Magnitude > all[b].Magnitude
	})

	if n < 0 {
		n = 0
	}
	if n < len(all) {
		all = all[:n]
	}
	return all
}
