package geometry

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerate is returned when a triangle has no usable area.
var ErrDegenerate = errors.New("degenerate triangle")

// degenerateTolerance bounds |E1 x E2| relative to |E1||E2|, i.e. the sine
// of the angle at the first corner.
const degenerateTolerance = 1e-12

var identity3 = mat.NewDiagDense(3, []float64{1, 1, 1})

// Matrix3 is a row-major 3x3 matrix.
type Matrix3 [3][3]float64

// MulVec returns m * v.
func (m Matrix3) MulVec(v Vector3) Vector3 {
	return Vector3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Column returns column j.
func (m Matrix3) Column(j int) Vector3 {
	return Vector3{m[0][j], m[1][j], m[2][j]}
}

func columns(c0, c1, c2 Vector3) Matrix3 {
	return Matrix3{
		{c0.X, c1.X, c2.X},
		{c0.Y, c1.Y, c2.Y},
		{c0.Z, c1.Z, c2.Z},
	}
}

// Frame caches the geometry derived from a triangle's three corners: the
// centroid, the edge matrix [E1 E2], the simplex basis [E1 E2 N] with N the
// unit normal, and the inverse of that basis.
//
// A Frame is a snapshot. It does not follow its corners when they move.
type Frame struct {
	Corners  [3]Vector3
	Centroid Vector3
	Edges    [2]Vector3
	Normal   Vector3
	Simplex  Matrix3
	Inverse  Matrix3
}

// NewFrame builds the frame for triangle (v1, v2, v3). The inverse of the
// simplex basis is obtained from its QR factorisation.
func NewFrame(v1, v2, v3 Vector3) (Frame, error) {
	e1 := v2.Sub(v1)
	e2 := v3.Sub(v1)
	cross := e1.Cross(e2)
	area2 := cross.Length()

	if !cross.IsFinite() || !(area2 > degenerateTolerance*e1.Length()*e2.Length()) {
		return Frame{}, ErrDegenerate
	}

	normal := cross.Mul(1 / area2)
	simplex := columns(e1, e2, normal)

	inverse, err := invertQR(simplex)
	if err != nil {
		return Frame{}, err
	}

	return Frame{
		Corners:  [3]Vector3{v1, v2, v3},
		Centroid: v1.Add(v2).Add(v3).Mul(1.0 / 3.0),
		Edges:    [2]Vector3{e1, e2},
		Normal:   normal,
		Simplex:  simplex,
		Inverse:  inverse,
	}, nil
}

func invertQR(m Matrix3) (Matrix3, error) {
	a := mat.NewDense(3, 3, []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	})

	var qr mat.QR
	qr.Factorize(a)

	var inv mat.Dense
	if err := qr.SolveTo(&inv, false, identity3); err != nil {
		return Matrix3{}, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}

	var out Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = inv.At(i, j)
		}
	}
	return out, nil
}

// Local expresses p in the frame's coordinates (s, t, h) such that
// p = V1 + s*E1 + t*E2 + h*N. Points in the triangle's plane have h == 0.
func (f Frame) Local(p Vector3) Vector3 {
	return f.Inverse.MulVec(p.Sub(f.Corners[0]))
}

// World maps local coordinates back to a world position.
func (f Frame) World(local Vector3) Vector3 {
	return f.Corners[0].Add(f.Simplex.MulVec(local))
}

// Area returns the triangle's surface area.
func (f Frame) Area() float64 {
	return f.Edges[0].Cross(f.Edges[1]).Length() / 2
}

// Bounds returns the triangle's bounding box.
func (f Frame) Bounds() BoundingBox {
	return BoundsOf(f.Corners[0], f.Corners[1], f.Corners[2])
}

// ClosestPoint projects q onto the triangle the frame was built from.
func (f Frame) ClosestPoint(q Vector3) Projection {
	return ClosestPointOnTriangle(q, f.Corners[0], f.Corners[1], f.Corners[2])
}
