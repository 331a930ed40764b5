package geo

import (
	"fmt"
	"strings"
)

type unionComponent struct {
	parts  []Component2D
	bounds Box
}

// Union combines components into one. A point is contained when any part
// contains it. A single component is returned unchanged.
//
// Lines and triangles count as contained only when a single part contains
// them. A triangle spanning two touching parts relates as crossing, so a
// shape split across parts never matches WITHIN. Query with one covering
// component when that matters.
func Union(components ...Component2D) (Component2D, error) {
	switch len(components) {
	case 0:
		return nil, fmt.Errorf("%w: union of zero components", ErrInvalidGeometry)
	case 1:
		return components[0], nil
	}
	u := &unionComponent{bounds: EmptyBox()}
	for _, c := range components {
		if c == nil {
			return nil, fmt.Errorf("%w: nil component", ErrInvalidGeometry)
		}
		if nested, ok := c.(*unionComponent); ok {
			u.parts = append(u.parts, nested.parts...)
		} else {
			u.parts = append(u.parts, c)
		}
		u.bounds = u.bounds.Union(c.Bounds())
	}
	return u, nil
}

func (u *unionComponent) Bounds() Box { return u.bounds }

func (u *unionComponent) Contains(x, y float64) bool {
	if !u.bounds.Contains(x, y) {
		return false
	}
	for _, c := range u.parts {
		if c.Contains(x, y) {
			return true
		}
	}
	return false
}

func (u *unionComponent) Relate(b Box) Relation {
	if !u.bounds.Intersects(b) {
		return CellOutside
	}
	crosses := false
	for _, c := range u.parts {
		switch c.Relate(b) {
		case CellInside:
			return CellInside
		case CellCrosses:
			crosses = true
		}
	}
	if crosses {
		return CellCrosses
	}
	return CellOutside
}

func (u *unionComponent) anyPart(fn func(Component2D) bool) bool {
	for _, c := range u.parts {
		if fn(c) {
			return true
		}
	}
	return false
}

func (u *unionComponent) IntersectsLine(a, b Point) bool {
	return u.anyPart(func(c Component2D) bool { return c.IntersectsLine(a, b) })
}

func (u *unionComponent) IntersectsTriangle(a, b, t Point) bool {
	return u.anyPart(func(c Component2D) bool { return c.IntersectsTriangle(a, b, t) })
}

// ContainsLine reports whether a single part contains the segment. See Union.
func (u *unionComponent) ContainsLine(a, b Point) bool {
	return u.anyPart(func(c Component2D) bool { return c.ContainsLine(a, b) })
}

// ContainsTriangle reports whether a single part contains the triangle. See Union.
func (u *unionComponent) ContainsTriangle(a, b, t Point) bool {
	return u.anyPart(func(c Component2D) bool { return c.ContainsTriangle(a, b, t) })
}

func (u *unionComponent) within(fn func(Component2D) WithinRelation) WithinRelation {
	rel := WithinDisjoint
	for _, c := range u.parts {
		switch fn(c) {
		case WithinNotWithin:
			return WithinNotWithin
		case WithinCandidate:
			rel = WithinCandidate
		}
	}
	return rel
}

func (u *unionComponent) WithinPoint(p Point) WithinRelation {
	return u.within(func(c Component2D) WithinRelation { return c.WithinPoint(p) })
}

func (u *unionComponent) WithinLine(a Point, ab bool, b Point) WithinRelation {
	return u.within(func(c Component2D) WithinRelation { return c.WithinLine(a, ab, b) })
}

func (u *unionComponent) WithinTriangle(a Point, ab bool, b Point, bc bool, t Point, ca bool) WithinRelation {
	return u.within(func(c Component2D) WithinRelation { return c.WithinTriangle(a, ab, b, bc, t, ca) })
}

func (u *unionComponent) String() string {
	parts := make([]string, len(u.parts))
	for i, c := range u.parts {
		parts[i] = fmt.Sprint(c)
	}
	return "UNION(" + strings.Join(parts, ", ") + ")"
}
