package geo

import (
	"fmt"
	"math"
)

type boxComponent struct {
	box Box
}

// NewBox returns a rectangular component. Bounds are inclusive.
func NewBox(minX, maxX, minY, maxY float64) (Component2D, error) {
	if err := checkFinite(Point{minX, minY}, Point{maxX, maxY}); err != nil {
		return nil, err
	}
	if minX > maxX || minY > maxY {
		return nil, fmt.Errorf("%w: box min (%v, %v) exceeds max (%v, %v)", ErrInvalidGeometry, minX, minY, maxX, maxY)
	}
	return &boxComponent{box: Box{MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY}}, nil
}

// NewLatLonBox returns a geographic rectangle. A box with minLon > maxLon
// crosses the antimeridian and is split into two rectangles.
func NewLatLonBox(minLat, maxLat, minLon, maxLon float64) (Component2D, error) {
	b := LatLonBox{MinLat: minLat, MaxLat: maxLat, MinLon: minLon, MaxLon: maxLon}
	if err := b.Check(); err != nil {
		return nil, err
	}
	if minLat > maxLat {
		return nil, fmt.Errorf("%w: minLat %v exceeds maxLat %v", ErrInvalidGeometry, minLat, maxLat)
	}
	if !b.CrossesDateline() {
		return NewBox(minLon, maxLon, minLat, maxLat)
	}
	east, err := NewBox(minLon, MaxLongitude, minLat, maxLat)
	if err != nil {
		return nil, err
	}
	west, err := NewBox(MinLongitude, maxLon, minLat, maxLat)
	if err != nil {
		return nil, err
	}
	return Union(east, west)
}

func (r *boxComponent) Bounds() Box { return r.box }

func (r *boxComponent) Contains(x, y float64) bool { return r.box.Contains(x, y) }

func (r *boxComponent) Relate(b Box) Relation {
	if !r.box.Intersects(b) {
		return CellOutside
	}
	if b.Within(r.box) {
		return CellInside
	}
	return CellCrosses
}

func (r *boxComponent) IntersectsLine(a, b Point) bool {
	return segmentIntersectsBox(a, b, r.box)
}

func (r *boxComponent) IntersectsTriangle(a, b, c Point) bool {
	if !r.box.Intersects(bboxOf(a, b, c)) {
		return false
	}
	if r.containsAny(a, b, c) {
		return true
	}
	if pointInTriangle(Point{r.box.MinX, r.box.MinY}, a, b, c) {
		return true
	}
	return segmentCrossesBoxEdges(a, b, r.box) ||
		segmentCrossesBoxEdges(b, c, r.box) ||
		segmentCrossesBoxEdges(c, a, r.box)
}

func (r *boxComponent) ContainsLine(a, b Point) bool {
	return r.box.Contains(a.X, a.Y) && r.box.Contains(b.X, b.Y)
}

func (r *boxComponent) ContainsTriangle(a, b, c Point) bool {
	return r.box.Contains(a.X, a.Y) && r.box.Contains(b.X, b.Y) && r.box.Contains(c.X, c.Y)
}

func (r *boxComponent) WithinPoint(p Point) WithinRelation {
	if r.box.Contains(p.X, p.Y) {
		return WithinNotWithin
	}
	return WithinDisjoint
}

func (r *boxComponent) WithinLine(a Point, ab bool, b Point) WithinRelation {
	if r.containsAny(a, b) {
		return WithinNotWithin
	}
	if ab && segmentCrossesBoxEdges(a, b, r.box) {
		return WithinNotWithin
	}
	return WithinDisjoint
}

func (r *boxComponent) WithinTriangle(a Point, ab bool, b Point, bc bool, c Point, ca bool) WithinRelation {
	if !r.box.Intersects(bboxOf(a, b, c)) {
		return WithinDisjoint
	}
	if r.containsAny(a, b, c) {
		return WithinNotWithin
	}
	rel := WithinDisjoint
	for _, e := range [...]struct {
		p, q Point
		orig bool
	}{{a, b, ab}, {b, c, bc}, {c, a, ca}} {
		if segmentCrossesBoxEdges(e.p, e.q, r.box) {
			if e.orig {
				return WithinNotWithin
			}
			rel = WithinCandidate
		}
	}
	if rel == WithinCandidate {
		return rel
	}
	if pointInTriangle(r.box.Center(), a, b, c) {
		return WithinCandidate
	}
	return WithinDisjoint
}

func (r *boxComponent) containsAny(pts ...Point) bool {
	for _, p := range pts {
		if r.box.Contains(p.X, p.Y) {
			return true
		}
	}
	return false
}

func (r *boxComponent) String() string {
	return fmt.Sprintf("BOX(%v %v, %v %v)", r.box.MinX, r.box.MinY, r.box.MaxX, r.box.MaxY)
}

// XYBoxFromPointDistance returns the cartesian box enclosing the circle of the
// given radius around (x, y), clamped to the float32 range.
func XYBoxFromPointDistance(x, y, radius float64) Box {
	clamp := func(v float64) float64 {
		return math.Max(-math.MaxFloat32, math.Min(math.MaxFloat32, v))
	}
	return Box{
		MinX: clamp(x - radius), MaxX: clamp(x + radius),
		MinY: clamp(y - radius), MaxY: clamp(y + radius),
	}
}
