package surface

import (
	"math"

	"github.com/philipparndt/gosurf/pkg/geometry"
)

// Hit is the nearest point found on a surface.
type Hit struct {
	Point    geometry.Vector3
	Triangle int
	Distance float64
	Region   geometry.Region
	S, T     float64
}

func hitOn(t *Triangle, q geometry.Vector3) (Hit, float64) {
	p := t.ClosestPoint(q)
	d2 := q.Sub(p.Point).LengthSquared()
	return Hit{
		Point:    p.Point,
		Triangle: t.index,
		Region:   p.Region,
		S:        p.S,
		T:        p.T,
	}, d2
}

// ClosestPoint scans every triangle and returns the nearest point to q.
// Among equidistant triangles the lowest index wins. Triangle geometry is
// taken as of the last Update, and back-facing triangles are not skipped.
func (m *Mesh) ClosestPoint(q geometry.Vector3) (Hit, error) {
	if len(m.triangles) == 0 {
		return Hit{}, ErrNoTriangles
	}

	var best Hit
	bestD2 := math.Inf(1)
	for i := range m.triangles {
		hit, d2 := hitOn(&m.triangles[i], q)
		if d2 < bestD2 {
			best, bestD2 = hit, d2
		}
	}
	best.Distance = math.Sqrt(bestD2)
	return best, nil
}

// ClosestPointOnScene asks the Source for the nearest point when it can
// answer directly, and otherwise falls back to ClosestPoint.
func (m *Mesh) ClosestPointOnScene(q geometry.Vector3) (geometry.Vector3, error) {
	if sq, ok := m.src.(SceneQuerier); ok {
		p, err := sq.ClosestPointOnScene(m.handle, q)
		if err != nil {
			return geometry.Vector3{}, &CollaboratorError{Op: "closest point", Handle: m.handle, Err: err}
		}
		return p, nil
	}

	hit, err := m.ClosestPoint(q)
	if err != nil {
		return geometry.Vector3{}, err
	}
	return hit.Point, nil
}
