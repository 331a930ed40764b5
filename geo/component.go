package geo

import (
	"errors"
	"math"
)

// ErrInvalidGeometry is returned when a component cannot be built from its input.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Component2D is a query geometry that can be related to indexed shapes.
//
// Implementations work on decoded coordinates. Boundary points count as
// contained.
type Component2D interface {
	// Bounds returns the bounding box of the component.
	Bounds() Box
	// Contains reports whether the point lies in the component.
	Contains(x, y float64) bool
	// Relate returns how the box relates to the component.
	Relate(box Box) Relation

	// IntersectsLine reports whether the segment ab shares a point with the component.
	IntersectsLine(a, b Point) bool
	// IntersectsTriangle reports whether the triangle abc shares a point with the component.
	IntersectsTriangle(a, b, c Point) bool
	// ContainsLine reports whether the segment ab lies fully inside the component.
	ContainsLine(a, b Point) bool
	// ContainsTriangle reports whether the triangle abc lies fully inside the component.
	ContainsTriangle(a, b, c Point) bool

	// WithinPoint evaluates whether the component may be within the point.
	WithinPoint(p Point) WithinRelation
	// WithinLine evaluates whether the component may be within the segment.
	// ab reports whether the segment is part of the original shape boundary.
	WithinLine(a Point, ab bool, b Point) WithinRelation
	// WithinTriangle evaluates whether the component may be within the
	// triangle. The flags report which edges belong to the original shape
	// boundary.
	WithinTriangle(a Point, ab bool, b Point, bc bool, c Point, ca bool) WithinRelation
}

// orient returns 1 when c is left of the directed line a->b, -1 when it is
// right and 0 when the three points are collinear.
func orient(a, b, c Point) int {
	v1 := (b.X - a.X) * (c.Y - a.Y)
	v2 := (c.X - a.X) * (b.Y - a.Y)
	switch {
	case v1 > v2:
		return 1
	case v1 < v2:
		return -1
	default:
		return 0
	}
}

// onSegment reports whether p lies on the closed segment ab.
func onSegment(a, b, p Point) bool {
	return orient(a, b, p) == 0 &&
		p.X >= math.Min(a.X, b.X) && p.X <= math.Max(a.X, b.X) &&
		p.Y >= math.Min(a.Y, b.Y) && p.Y <= math.Max(a.Y, b.Y)
}

// segmentsIntersect reports whether the closed segments a1b1 and a2b2 share a point.
func segmentsIntersect(a1, b1, a2, b2 Point) bool {
	if segmentsCross(a1, b1, a2, b2) {
		return true
	}
	return onSegment(a1, b1, a2) || onSegment(a1, b1, b2) ||
		onSegment(a2, b2, a1) || onSegment(a2, b2, b1)
}

// segmentsCross reports whether the segments cross at a single point interior
// to both.
func segmentsCross(a1, b1, a2, b2 Point) bool {
	o1 := orient(a1, b1, a2)
	o2 := orient(a1, b1, b2)
	o3 := orient(a2, b2, a1)
	o4 := orient(a2, b2, b1)
	return o1*o2 < 0 && o3*o4 < 0
}

// pointInTriangle reports whether p lies in the closed triangle abc. The
// triangle may be degenerate.
func pointInTriangle(p, a, b, c Point) bool {
	if !bboxOf(a, b, c).Contains(p.X, p.Y) {
		return false
	}
	o1 := orient(a, b, p)
	o2 := orient(b, c, p)
	o3 := orient(c, a, p)
	hasNeg := o1 < 0 || o2 < 0 || o3 < 0
	hasPos := o1 > 0 || o2 > 0 || o3 > 0
	if hasNeg && hasPos {
		return false
	}
	if !hasNeg && !hasPos {
		// degenerate triangle: collinear vertices
		return onSegment(a, b, p) || onSegment(b, c, p) || onSegment(c, a, p)
	}
	return true
}

// pointStrictlyInTriangle reports whether p lies in the interior of abc.
func pointStrictlyInTriangle(p, a, b, c Point) bool {
	o1 := orient(a, b, p)
	o2 := orient(b, c, p)
	o3 := orient(c, a, p)
	return (o1 > 0 && o2 > 0 && o3 > 0) || (o1 < 0 && o2 < 0 && o3 < 0)
}

// segmentIntersectsBox reports whether the closed segment ab shares a point
// with the closed box.
func segmentIntersectsBox(a, b Point, box Box) bool {
	if !box.Intersects(bboxOf(a, b)) {
		return false
	}
	if box.Contains(a.X, a.Y) || box.Contains(b.X, b.Y) {
		return true
	}
	return segmentCrossesBoxEdges(a, b, box)
}

func segmentCrossesBoxEdges(a, b Point, box Box) bool {
	ll := Point{box.MinX, box.MinY}
	lr := Point{box.MaxX, box.MinY}
	ur := Point{box.MaxX, box.MaxY}
	ul := Point{box.MinX, box.MaxY}
	return segmentsIntersect(a, b, ll, lr) ||
		segmentsIntersect(a, b, lr, ur) ||
		segmentsIntersect(a, b, ur, ul) ||
		segmentsIntersect(a, b, ul, ll)
}

func checkFinite(pts ...Point) error {
	for _, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return ErrInvalidGeometry
		}
	}
	return nil
}
