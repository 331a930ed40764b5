package geo

import (
	"fmt"
	"strings"
)

type lineComponent struct {
	pts    []Point
	bounds Box
}

// NewLine returns a line-string component with at least two vertices.
func NewLine(pts []Point) (Component2D, error) {
	if len(pts) < 2 {
		return nil, fmt.Errorf("%w: line needs at least 2 vertices, got %d", ErrInvalidGeometry, len(pts))
	}
	if err := checkFinite(pts...); err != nil {
		return nil, err
	}
	cp := make([]Point, len(pts))
	copy(cp, pts)
	return &lineComponent{pts: cp, bounds: bboxOf(cp...)}, nil
}

func (l *lineComponent) segments(fn func(a, b Point) bool) bool {
	for i := 0; i < len(l.pts)-1; i++ {
		if fn(l.pts[i], l.pts[i+1]) {
			return true
		}
	}
	return false
}

func (l *lineComponent) Bounds() Box { return l.bounds }

func (l *lineComponent) Contains(x, y float64) bool {
	if !l.bounds.Contains(x, y) {
		return false
	}
	pt := Point{x, y}
	return l.segments(func(a, b Point) bool { return onSegment(a, b, pt) })
}

func (l *lineComponent) Relate(box Box) Relation {
	if !l.bounds.Intersects(box) {
		return CellOutside
	}
	if l.segments(func(a, b Point) bool { return segmentIntersectsBox(a, b, box) }) {
		return CellCrosses
	}
	return CellOutside
}

func (l *lineComponent) IntersectsLine(a, b Point) bool {
	if !l.bounds.Intersects(bboxOf(a, b)) {
		return false
	}
	return l.segments(func(p, q Point) bool { return segmentsIntersect(a, b, p, q) })
}

func (l *lineComponent) IntersectsTriangle(a, b, c Point) bool {
	if !l.bounds.Intersects(bboxOf(a, b, c)) {
		return false
	}
	if pointInTriangle(l.pts[0], a, b, c) {
		return true
	}
	return l.segments(func(p, q Point) bool {
		return segmentsIntersect(a, b, p, q) || segmentsIntersect(b, c, p, q) || segmentsIntersect(c, a, p, q)
	})
}

// ContainsLine holds only when ab lies on a single segment of the line.
func (l *lineComponent) ContainsLine(a, b Point) bool {
	return l.segments(func(p, q Point) bool { return onSegment(p, q, a) && onSegment(p, q, b) })
}

// ContainsTriangle holds only for degenerate triangles lying on a single segment.
func (l *lineComponent) ContainsTriangle(a, b, c Point) bool {
	return l.segments(func(p, q Point) bool {
		return onSegment(p, q, a) && onSegment(p, q, b) && onSegment(p, q, c)
	})
}

func (l *lineComponent) WithinPoint(pt Point) WithinRelation {
	if l.Contains(pt.X, pt.Y) {
		return WithinNotWithin
	}
	return WithinDisjoint
}

func (l *lineComponent) WithinLine(a Point, ab bool, b Point) WithinRelation {
	if !l.IntersectsLine(a, b) {
		return WithinDisjoint
	}
	if ab && l.ContainsLine(a, b) && len(l.pts) == 2 {
		return WithinCandidate
	}
	return WithinNotWithin
}

func (l *lineComponent) WithinTriangle(a Point, ab bool, b Point, bc bool, c Point, ca bool) WithinRelation {
	if !l.bounds.Intersects(bboxOf(a, b, c)) {
		return WithinDisjoint
	}
	rel := WithinDisjoint
	for _, e := range [...]struct {
		p, q Point
		orig bool
	}{{a, b, ab}, {b, c, bc}, {c, a, ca}} {
		if l.segments(func(p, q Point) bool { return segmentsIntersect(e.p, e.q, p, q) }) {
			if e.orig {
				return WithinNotWithin
			}
			rel = WithinCandidate
		}
	}
	if rel == WithinCandidate || pointInTriangle(l.pts[0], a, b, c) {
		return WithinCandidate
	}
	return WithinDisjoint
}

func (l *lineComponent) String() string {
	var sb strings.Builder
	sb.WriteString("LINESTRING(")
	for i, p := range l.pts {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v %v", p.X, p.Y)
	}
	sb.WriteByte(')')
	return sb.String()
}
