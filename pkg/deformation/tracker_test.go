package deformation

import (
	"errors"
	"testing"

	"github.com/philipparndt/gosurf/pkg/geometry"
	"github.com/philipparndt/gosurf/pkg/scene"
	"github.com/philipparndt/gosurf/pkg/surface"
)

func newMesh(t *testing.T, s *scene.Memory, handle string) *surface.Mesh {
	t.Helper()
	err := s.AddTriangles(handle, []geometry.Vector3{
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(1, 1, 0),
		geometry.NewVector3(0, 1, 0),
	}, [][3]int{{0, 1, 2}, {0, 2, 3}})
	if err != nil {
		t.Fatalf("AddTriangles failed: %v", err)
	}
	m, err := surface.New(s, handle)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return m
}

func TestTrackerAtRest(t *testing.T) {
	m := newMesh(t, scene.NewMemory(), "quad")
	tr := NewTracker(m)

	if tr.Len() != 4 {
		t.Fatalf("Len failed: expected 4, got %d", tr.Len())
	}
	if r := tr.ValueRange(); r != (Range{}) {
		t.Errorf("ValueRange failed: expected zero range, got %+v", r)
	}
	n, err := tr.Normalized(0)
	if err != nil {
		t.Fatalf("Normalized failed: %v", err)
	}
	if n != geometry.NewVector3(0.5, 0.5, 0.5) {
		t.Errorf("Normalized failed: expected (0.5,0.5,0.5), got %v", n)
	}
}

func TestTrackerUpdate(t *testing.T) {
	m := newMesh(t, scene.NewMemory(), "quad")
	tr := NewTracker(m)

	if err := m.SetVertexPosition(2, geometry.NewVector3(1, 1, 2)); err != nil {
		t.Fatalf("SetVertexPosition failed: %v", err)
	}
	if err := m.SetVertexPosition(3, geometry.NewVector3(-1, 1, 0)); err != nil {
		t.Fatalf("SetVertexPosition failed: %v", err)
	}

	if d, _ := tr.Delta(2); d != (geometry.Vector3{}) {
		t.Errorf("deltas must not change before Update: got %v", d)
	}
	if err := tr.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	d, err := tr.Delta(2)
	if err != nil {
		t.Fatalf("Delta failed: %v", err)
	}
	if d != geometry.NewVector3(0, 0, -2) {
		t.Errorf("Delta failed: expected (0,0,-2), got %v", d)
	}

	if r := tr.ValueRange(); r.Min != -2 || r.Max != 1 {
		t.Errorf("ValueRange failed: expected [-2, 1], got %+v", r)
	}
	tests := []struct {
		axis     geometry.Axis
		expected Range
	}{
		{geometry.AxisX, Range{Min: 0, Max: 1}},
		{geometry.AxisY, Range{Min: 0, Max: 0}},
		{geometry.AxisZ, Range{Min: -2, Max: 0}},
		{geometry.Axis(3), Range{}},
		{geometry.Axis(-1), Range{}},
	}
	for _, tt := range tests {
		if got := tr.AxisRange(tt.axis); got != tt.expected {
			t.Errorf("AxisRange(%v) failed: expected %+v, got %+v", tt.axis, tt.expected, got)
		}
	}

	n, _ := tr.Normalized(2)
	expected := geometry.NewVector3(2.0/3.0, 2.0/3.0, 0)
	if n.Distance(expected) > 1e-12 {
		t.Errorf("Normalized failed: expected %v, got %v", expected, n)
	}

	top := tr.MostDisplaced(3)
	if len(top) != 3 || top[0].Vertex != 2 || top[1].Vertex != 3 || top[2].Vertex != 0 {
		t.Errorf("MostDisplaced failed: expected vertices 2, 3, 0, got %+v", top)
	}
	if len(tr.MostDisplaced(10)) != 4 {
		t.Errorf("MostDisplaced failed: expected all 4 vertices")
	}

	deltas := tr.Deltas()
	deltas[2] = geometry.Vector3{}
	if d, _ := tr.Delta(2); d == (geometry.Vector3{}) {
		t.Error("Deltas must return a copy")
	}

	var indexErr *surface.IndexError
	if _, err := tr.Delta(4); !errors.As(err, &indexErr) {
		t.Errorf("Delta failed: expected IndexError, got %v", err)
	}
}

func TestDeltaZeroAfterReset(t *testing.T) {
	m := newMesh(t, scene.NewMemory(), "quad")
	for i := 0; i < m.VertexCount(); i++ {
		if err := m.SetVertexPosition(i, geometry.NewVector3(float64(i), 5, 5)); err != nil {
			t.Fatalf("SetVertexPosition failed: %v", err)
		}
	}
	if err := m.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if err := m.Update(true, true); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	tr := NewTracker(m)
	for i, d := range tr.Deltas() {
		if d != (geometry.Vector3{}) {
			t.Errorf("vertex %d failed: expected zero delta after reset, got %v", i, d)
		}
	}
}

func TestComparison(t *testing.T) {
	s := scene.NewMemory()
	reference := newMesh(t, s, "reference")
	target := newMesh(t, s, "target")

	if err := s.SetVertexPosition("target", 1, geometry.NewVector3(1, 0, 3)); err != nil {
		t.Fatalf("SetVertexPosition failed: %v", err)
	}
	if err := target.Update(true, true); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	cmp, err := NewComparison(reference, target)
	if err != nil {
		t.Fatalf("NewComparison failed: %v", err)
	}
	d, _ := cmp.Delta(1)
	if d != geometry.NewVector3(0, 0, -3) {
		t.Errorf("Delta failed: expected (0,0,-3), got %v", d)
	}
	if r := cmp.ValueRange(); r.Min != -3 || r.Max != 0 {
		t.Errorf("ValueRange failed: expected [-3, 0], got %+v", r)
	}
}

func TestComparisonMismatch(t *testing.T) {
	s := scene.NewMemory()
	reference := newMesh(t, s, "reference")
	err := s.AddTriangles("tri", []geometry.Vector3{
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(0, 1, 0),
	}, [][3]int{{0, 1, 2}})
	if err != nil {
		t.Fatalf("AddTriangles failed: %v", err)
	}
	target, err := surface.New(s, "tri")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := NewComparison(reference, target); !errors.Is(err, ErrCorrespondence) {
		t.Errorf("NewComparison failed: expected ErrCorrespondence, got %v", err)
	}
}
