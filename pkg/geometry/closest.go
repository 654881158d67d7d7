package geometry

// Region identifies where the unconstrained minimum of the squared distance
// fell relative to the triangle, in the (s, t) parameter plane. The numbering
// follows Ericson's case table.
type Region int

const (
	RegionInterior Region = iota
	RegionEdge23
	RegionCorner3
	RegionEdge13
	RegionCorner1
	RegionEdge12
	RegionCorner2
)

func (r Region) String() string {
	switch r {
	case RegionInterior:
		return "interior"
	case RegionEdge23:
		return "edge v2-v3"
	case RegionCorner3:
		return "corner v3"
	case RegionEdge13:
		return "edge v1-v3"
	case RegionCorner1:
		return "corner v1"
	case RegionEdge12:
		return "edge v1-v2"
	case RegionCorner2:
		return "corner v2"
	}
	return "unknown"
}

// Projection is the result of projecting a query point onto a triangle.
// Point equals V1 + S*(V2-V1) + T*(V3-V1).
type Projection struct {
	Point  Vector3
	S, T   float64
	Region Region
}

// ClosestPointOnTriangle returns the point of triangle (v1, v2, v3) nearest
// to q. There is no facing test: the nearest point may lie on a triangle
// whose normal points away from q.
//
// Triangles with no area are handled by taking the nearest of their three
// edge segments.
func ClosestPointOnTriangle(q, v1, v2, v3 Vector3) Projection {
	e1 := v2.Sub(v1)
	e2 := v3.Sub(v1)
	v0 := v1.Sub(q)

	a := e1.Dot(e1)
	b := e1.Dot(e2)
	c := e2.Dot(e2)
	d := e1.Dot(v0)
	e := e2.Dot(v0)

	det := a*c - b*b
	if !(det > 0) {
		return closestOnDegenerate(q, v1, v2, v3)
	}

	s := b*e - c*d
	t := b*d - a*e
	var region Region

	if s+t < det {
		if s < 0 {
			if t < 0 {
				region = RegionCorner1
				if d < 0 {
					s = clamp01(-d / a)
					t = 0
				} else {
					s = 0
					t = clamp01(-e / c)
				}
			} else {
				region = RegionEdge13
				s = 0
				t = clamp01(-e / c)
			}
		} else if t < 0 {
			region = RegionEdge12
			s = clamp01(-d / a)
			t = 0
		} else {
			region = RegionInterior
			invDet := 1 / det
			s *= invDet
			t *= invDet
		}
	} else {
		if s < 0 {
			region = RegionCorner3
			tmp0 := b + d
			tmp1 := c + e
			if tmp1 > tmp0 {
				numer := tmp1 - tmp0
				denom := a - 2*b + c
				s = clamp01(numer / denom)
				t = 1 - s
			} else {
				s = 0
				t = clamp01(-e / c)
			}
		} else if t < 0 {
			region = RegionCorner2
			if a+d > b+e {
				numer := c + e - b - d
				denom := a - 2*b + c
				s = clamp01(numer / denom)
				t = 1 - s
			} else {
				s = clamp01(-d / a)
				t = 0
			}
		} else {
			region = RegionEdge23
			numer := c + e - b - d
			denom := a - 2*b + c
			s = clamp01(numer / denom)
			t = 1 - s
		}
	}

	return Projection{
		Point:  pointAt(v1, v2, v3, e1, e2, s, t),
		S:      s,
		T:      t,
		Region: region,
	}
}

// pointAt evaluates v1 + s*e1 + t*e2, returning the corners themselves when
// the parameters select one so vertex queries round-trip exactly.
func pointAt(v1, v2, v3, e1, e2 Vector3, s, t float64) Vector3 {
	switch {
	case s == 0 && t == 0:
		return v1
	case s == 1 && t == 0:
		return v2
	case s == 0 && t == 1:
		return v3
	}
	return v1.Add(e1.Mul(s)).Add(e2.Mul(t))
}

func closestOnDegenerate(q, v1, v2, v3 Vector3) Projection {
	u12, p12 := closestOnSegment(q, v1, v2)
	u13, p13 := closestOnSegment(q, v1, v3)
	u23, p23 := closestOnSegment(q, v2, v3)

	best := Projection{Point: p12, S: u12, T: 0, Region: RegionEdge12}
	bestDist := q.Sub(p12).LengthSquared()

	if dist := q.Sub(p13).LengthSquared(); dist < bestDist {
		best = Projection{Point: p13, S: 0, T: u13, Region: RegionEdge13}
		bestDist = dist
	}
	if dist := q.Sub(p23).LengthSquared(); dist < bestDist {
		best = Projection{Point: p23, S: 1 - u23, T: u23, Region: RegionEdge23}
	}
	return best
}

// closestOnSegment returns the parameter u in [0, 1] and the point a + u*(b-a)
// nearest to q.
func closestOnSegment(q, a, b Vector3) (float64, Vector3) {
	ab := b.Sub(a)
	length2 := ab.LengthSquared()
	if length2 == 0 {
		return 0, a
	}
	u := clamp01(q.Sub(a).Dot(ab) / length2)
	switch u {
	case 0:
		return 0, a
	case 1:
		return 1, b
	}
	return u, a.Add(ab.Mul(u))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
