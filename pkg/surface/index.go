package surface

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/philipparndt/gosurf/pkg/geometry"
)

// boundEpsilon keeps flat and axis-aligned triangles from producing
// zero-length R-tree boxes.
const boundEpsilon = 1e-9

// relativePad is the box padding per unit of coordinate magnitude.
const relativePad = 1e-12

// Default R-tree node sizes.
const (
	DefaultMinChildren = 2
	DefaultMaxChildren = 8
)

type indexedTriangle struct {
	tri    Triangle
	bounds rtreego.Rect
}

func (t *indexedTriangle) Bounds() rtreego.Rect { return t.bounds }

// Index answers whole-surface closest point queries with an R-tree over the
// triangles' bounding boxes. It holds a snapshot of the triangles taken at
// the last Rebuild; call Rebuild after Mesh.Update.
type Index struct {
	mesh        *Mesh
	minChildren int
	maxChildren int
	tree        *rtreego.Rtree
}

// NewIndex builds an index over m. Non-positive node sizes select the
// defaults.
func NewIndex(m *Mesh, minChildren, maxChildren int) (*Index, error) {
	if minChildren <= 0 {
		minChildren = DefaultMinChildren
	}
	if maxChildren <= 0 {
		maxChildren = DefaultMaxChildren
	}
	if minChildren > maxChildren/2 {
		return nil, fmt.Errorf("rtree min children %d must be at most half of max children %d", minChildren, maxChildren)
	}

	idx := &Index{mesh: m, minChildren: minChildren, maxChildren: maxChildren}
	if err := idx.Rebuild(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Rebuild reloads every triangle from the mesh.
func (idx *Index) Rebuild() error {
	tree := rtreego.NewTree(3, idx.minChildren, idx.maxChildren)
	for i := range idx.mesh.triangles {
		tri := idx.mesh.triangles[i]
		rect, err := boxRect(geometry.BoundsOf(tri.corners[0], tri.corners[1], tri.corners[2]), boundEpsilon)
		if err != nil {
			return fmt.Errorf("triangle %d bounds: %w", i, err)
		}
		tree.Insert(&indexedTriangle{tri: tri, bounds: rect})
	}
	idx.tree = tree
	return nil
}

// Size returns the number of indexed triangles.
func (idx *Index) Size() int { return idx.tree.Size() }

// ClosestPoint returns the same point distance as Mesh.ClosestPoint. The
// nearest bounding box gives an upper bound on the distance; every triangle
// whose box meets the cube of that half-width around q is then checked
// exactly.
func (idx *Index) ClosestPoint(q geometry.Vector3) (Hit, error) {
	if idx.tree.Size() == 0 {
		return Hit{}, ErrNoTriangles
	}

	nearest, ok := idx.tree.NearestNeighbor(rtreego.Point{q.X, q.Y, q.Z}).(*indexedTriangle)
	if !ok {
		return Hit{}, ErrNoTriangles
	}
	_, bound2 := hitOn(&nearest.tri, q)
	bound := math.Sqrt(bound2)

	search, err := boxRect(geometry.BoundsOf(q), bound+boundEpsilon+bound*1e-9)
	if err != nil {
		return Hit{}, err
	}

	var best Hit
	bestD2 := math.Inf(1)
	for _, s := range idx.tree.SearchIntersect(search) {
		hit, d2 := hitOn(&s.(*indexedTriangle).tri, q)
		if d2 < bestD2 || (d2 == bestD2 && hit.Triangle < best.Triangle) {
			best, bestD2 = hit, d2
		}
	}
	best.Distance = math.Sqrt(bestD2)
	return best, nil
}

// boxRect converts b, padded by margin, into an R-tree rectangle. The
// padding grows with the magnitude of the coordinates and each side moves out
// by at least one ulp, so boxes stay non-empty far from the origin.
func boxRect(b geometry.BoundingBox, margin float64) (rtreego.Rect, error) {
	lo, hi := b.Min.Array(), b.Max.Array()
	point := make(rtreego.Point, 3)
	lengths := make([]float64, 3)
	for k := range lo {
		pad := math.Max(margin, relativePad*math.Max(math.Abs(lo[k]), math.Abs(hi[k])))
		start := math.Nextafter(lo[k]-pad, math.Inf(-1))
		end := math.Nextafter(hi[k]+pad, math.Inf(1))
		point[k] = start
		lengths[k] = end - start
	}
	return rtreego.NewRect(point, lengths)
}
