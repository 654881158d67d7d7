package geometry

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestFrameLocalCoordinates(t *testing.T) {
	v1 := NewVector3(1, 1, 1)
	v2 := NewVector3(3, 1, 1)
	v3 := NewVector3(1, 4, 2)

	frame, err := NewFrame(v1, v2, v3)
	if err != nil {
		t.Fatalf("NewFrame failed: %v", err)
	}

	tests := []struct {
		name  string
		point Vector3
		local Vector3
	}{
		{"v1", v1, NewVector3(0, 0, 0)},
		{"v2", v2, NewVector3(1, 0, 0)},
		{"v3", v3, NewVector3(0, 1, 0)},
		{"unit normal offset", v1.Add(frame.Normal), NewVector3(0, 0, 1)},
		{"centroid", frame.Centroid, NewVector3(1.0/3.0, 1.0/3.0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := frame.Local(tt.point)
			if !closeTo(got, tt.local, 1e-10) {
				t.Errorf("Local failed: expected %v, got %v", tt.local, got)
			}
		})
	}
}

func TestFrameRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		tri := randomTriangle(rng)
		frame, err := NewFrame(tri[0], tri[1], tri[2])
		if err != nil {
			t.Fatalf("NewFrame failed: %v", err)
		}

		p := randomPoint(rng, 5)
		back := frame.World(frame.Local(p))
		if !closeTo(back, p, 1e-8) {
			t.Fatalf("round trip failed: expected %v, got %v", p, back)
		}
	}
}

func TestFrameInverseIsInverse(t *testing.T) {
	frame, err := NewFrame(NewVector3(0, 0, 0), NewVector3(2, 0.5, 0), NewVector3(-1, 3, 1))
	if err != nil {
		t.Fatalf("NewFrame failed: %v", err)
	}

	for j := 0; j < 3; j++ {
		col := frame.Inverse.MulVec(frame.Simplex.Column(j))
		for i, v := range col.Array() {
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(v-want) > 1e-12 {
				t.Errorf("Inverse*Simplex[%d][%d] failed: expected %v, got %v", i, j, want, v)
			}
		}
	}
}

func TestFrameNormalAndArea(t *testing.T) {
	frame, err := NewFrame(unitTriangle[0], unitTriangle[1], unitTriangle[2])
	if err != nil {
		t.Fatalf("NewFrame failed: %v", err)
	}

	if frame.Normal != NewVector3(0, 0, 1) {
		t.Errorf("Normal failed: expected (0, 0, 1), got %v", frame.Normal)
	}
	if math.Abs(frame.Area()-0.5) > 1e-12 {
		t.Errorf("Area failed: expected 0.5, got %v", frame.Area())
	}
	if frame.Edges[0] != NewVector3(1, 0, 0) || frame.Edges[1] != NewVector3(0, 1, 0) {
		t.Errorf("Edges failed: got %v", frame.Edges)
	}
}

func TestFrameDegenerate(t *testing.T) {
	tests := []struct {
		name string
		tri  [3]Vector3
	}{
		{"collinear", [3]Vector3{NewVector3(0, 0, 0), NewVector3(1, 1, 1), NewVector3(2, 2, 2)}},
		{"repeated corner", [3]Vector3{NewVector3(0, 0, 0), NewVector3(0, 0, 0), NewVector3(0, 1, 0)}},
		{"not finite", [3]Vector3{NewVector3(0, 0, 0), NewVector3(math.NaN(), 0, 0), NewVector3(0, 1, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFrame(tt.tri[0], tt.tri[1], tt.tri[2])
			if !errors.Is(err, ErrDegenerate) {
				t.Errorf("expected ErrDegenerate, got %v", err)
			}
		})
	}
}
