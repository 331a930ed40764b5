package geo

import (
	"fmt"
	"strings"
)

type polygonComponent struct {
	// rings[0] is the shell, the rest are holes. Every ring is closed.
	rings  [][]Point
	bounds Box
}

// NewPolygon returns a polygon component. Rings may be given open or closed;
// each needs at least three distinct vertices.
func NewPolygon(shell []Point, holes ...[]Point) (Component2D, error) {
	rings := make([][]Point, 0, 1+len(holes))
	for i, r := range append([][]Point{shell}, holes...) {
		closed, err := closeRing(r)
		if err != nil {
			return nil, fmt.Errorf("ring %d: %w", i, err)
		}
		rings = append(rings, closed)
	}
	return &polygonComponent{rings: rings, bounds: bboxOf(rings[0]...)}, nil
}

func closeRing(r []Point) ([]Point, error) {
	if err := checkFinite(r...); err != nil {
		return nil, err
	}
	n := len(r)
	if n > 0 && r[0] == r[n-1] {
		n--
	}
	if n < 3 {
		return nil, fmt.Errorf("%w: ring needs at least 3 vertices, got %d", ErrInvalidGeometry, n)
	}
	out := make([]Point, n+1)
	copy(out, r[:n])
	out[n] = r[0]
	return out, nil
}

func (p *polygonComponent) Bounds() Box { return p.bounds }

func (p *polygonComponent) Contains(x, y float64) bool {
	if !p.bounds.Contains(x, y) {
		return false
	}
	pt := Point{x, y}
	for _, r := range p.rings {
		if ringBoundaryContains(r, pt) {
			return true
		}
	}
	if !ringContains(p.rings[0], pt) {
		return false
	}
	for _, h := range p.rings[1:] {
		if ringContains(h, pt) {
			return false
		}
	}
	return true
}

// ringContains is the even-odd crossing test. Boundary points are undefined.
func ringContains(ring []Point, pt Point) bool {
	inside := false
	for i, j := 0, len(ring)-2; i < len(ring)-1; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) &&
			pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

func ringBoundaryContains(ring []Point, pt Point) bool {
	for i := 0; i < len(ring)-1; i++ {
		if onSegment(ring[i], ring[i+1], pt) {
			return true
		}
	}
	return false
}

func (p *polygonComponent) edges(fn func(a, b Point) bool) bool {
	for _, r := range p.rings {
		for i := 0; i < len(r)-1; i++ {
			if fn(r[i], r[i+1]) {
				return true
			}
		}
	}
	return false
}

func (p *polygonComponent) Relate(b Box) Relation {
	if !p.bounds.Intersects(b) {
		return CellOutside
	}
	if p.edges(func(e1, e2 Point) bool { return segmentIntersectsBox(e1, e2, b) }) {
		return CellCrosses
	}
	// no boundary touches the box: it is either fully inside or fully outside
	if p.Contains(b.MinX, b.MinY) {
		return CellInside
	}
	return CellOutside
}

func (p *polygonComponent) IntersectsLine(a, b Point) bool {
	if !p.bounds.Intersects(bboxOf(a, b)) {
		return false
	}
	if p.Contains(a.X, a.Y) || p.Contains(b.X, b.Y) {
		return true
	}
	return p.edges(func(e1, e2 Point) bool { return segmentsIntersect(a, b, e1, e2) })
}

func (p *polygonComponent) IntersectsTriangle(a, b, c Point) bool {
	if !p.bounds.Intersects(bboxOf(a, b, c)) {
		return false
	}
	if p.Contains(a.X, a.Y) || p.Contains(b.X, b.Y) || p.Contains(c.X, c.Y) {
		return true
	}
	if pointInTriangle(p.rings[0][0], a, b, c) {
		return true
	}
	return p.edges(func(e1, e2 Point) bool {
		return segmentsIntersect(a, b, e1, e2) || segmentsIntersect(b, c, e1, e2) || segmentsIntersect(c, a, e1, e2)
	})
}

func (p *polygonComponent) ContainsLine(a, b Point) bool {
	if !p.Contains(a.X, a.Y) || !p.Contains(b.X, b.Y) {
		return false
	}
	mid := Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
	if !p.Contains(mid.X, mid.Y) {
		return false
	}
	return !p.edges(func(e1, e2 Point) bool { return segmentsCross(a, b, e1, e2) })
}

func (p *polygonComponent) ContainsTriangle(a, b, c Point) bool {
	if !p.Contains(a.X, a.Y) || !p.Contains(b.X, b.Y) || !p.Contains(c.X, c.Y) {
		return false
	}
	if p.edges(func(e1, e2 Point) bool {
		return segmentsCross(a, b, e1, e2) || segmentsCross(b, c, e1, e2) || segmentsCross(c, a, e1, e2)
	}) {
		return false
	}
	// a ring vertex strictly inside the triangle means a hole or a notch of
	// the shell lies inside it
	for _, r := range p.rings {
		for _, v := range r[:len(r)-1] {
			if pointStrictlyInTriangle(v, a, b, c) {
				return false
			}
		}
	}
	return true
}

func (p *polygonComponent) WithinPoint(pt Point) WithinRelation {
	if p.Contains(pt.X, pt.Y) {
		return WithinNotWithin
	}
	return WithinDisjoint
}

func (p *polygonComponent) WithinLine(a Point, ab bool, b Point) WithinRelation {
	if ab && p.IntersectsLine(a, b) {
		return WithinNotWithin
	}
	return WithinDisjoint
}

func (p *polygonComponent) WithinTriangle(a Point, ab bool, b Point, bc bool, c Point, ca bool) WithinRelation {
	if !p.bounds.Intersects(bboxOf(a, b, c)) {
		return WithinDisjoint
	}
	// a triangle vertex inside the polygon means the polygon sticks out of the shape
	if p.Contains(a.X, a.Y) || p.Contains(b.X, b.Y) || p.Contains(c.X, c.Y) {
		return WithinNotWithin
	}
	rel := WithinDisjoint
	for _, e := range [...]struct {
		p, q Point
		orig bool
	}{{a, b, ab}, {b, c, bc}, {c, a, ca}} {
		if p.edges(func(e1, e2 Point) bool { return segmentsIntersect(e.p, e.q, e1, e2) }) {
			if e.orig {
				return WithinNotWithin
			}
			rel = WithinCandidate
		}
	}
	if rel == WithinCandidate {
		return rel
	}
	if pointInTriangle(p.rings[0][0], a, b, c) {
		return WithinCandidate
	}
	return WithinDisjoint
}

func (p *polygonComponent) String() string {
	var sb strings.Builder
	sb.WriteString("POLYGON(")
	for i, r := range p.rings {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j, v := range r {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%v %v", v.X, v.Y)
		}
		sb.WriteByte(')')
	}
	sb.WriteByte(')')
	return sb.String()
}
