package geometry

import (
	"math"
	"testing"
)

func TestBoundingBoxExtend(t *testing.T) {
	bbox := NewBoundingBox()
	if !bbox.Empty() {
		t.Error("new bounding box should be empty")
	}

	bbox.Extend(NewVector3(1, 2, 3))
	bbox.Extend(NewVector3(4, 5, 6))
	bbox.Extend(NewVector3(-1, 0, 2))

	expectedMin := NewVector3(-1, 0, 2)
	expectedMax := NewVector3(4, 5, 6)

	if bbox.Min != expectedMin {
		t.Errorf("Min failed: expected %v, got %v", expectedMin, bbox.Min)
	}
	if bbox.Max != expectedMax {
		t.Errorf("Max failed: expected %v, got %v", expectedMax, bbox.Max)
	}
	if bbox.Empty() {
		t.Error("extended bounding box should not be empty")
	}
}

func TestBoundingBoxEmptySize(t *testing.T) {
	if size := NewBoundingBox().Size(); size != (Vector3{}) {
		t.Errorf("Size of empty box failed: expected zero, got %v", size)
	}
}

func TestBoundingBoxCenterAndVolume(t *testing.T) {
	bbox := BoundsOf(NewVector3(0, 0, 0), NewVector3(2, 4, 6))

	if center := bbox.Center(); center != NewVector3(1, 2, 3) {
		t.Errorf("Center failed: expected (1, 2, 3), got %v", center)
	}
	if volume := bbox.Volume(); math.Abs(volume-48) > 1e-10 {
		t.Errorf("Volume failed: expected 48, got %v", volume)
	}
}

func TestBoundingBoxExpandContains(t *testing.T) {
	bbox := BoundsOf(NewVector3(0, 0, 0), NewVector3(1, 1, 1)).Expand(0.5)

	if !bbox.Contains(NewVector3(-0.5, 1.5, 0)) {
		t.Error("expanded box should contain its new corner region")
	}
	if bbox.Contains(NewVector3(-0.6, 0, 0)) {
		t.Error("expanded box should not contain points beyond the margin")
	}
}
