package geo

import "fmt"

type pointComponent struct {
	p Point
}

// NewPoint returns a single-point component.
func NewPoint(x, y float64) (Component2D, error) {
	p := Point{x, y}
	if err := checkFinite(p); err != nil {
		return nil, err
	}
	return &pointComponent{p: p}, nil
}

func (c *pointComponent) Bounds() Box { return Box{MinX: c.p.X, MaxX: c.p.X, MinY: c.p.Y, MaxY: c.p.Y} }

func (c *pointComponent) Contains(x, y float64) bool { return x == c.p.X && y == c.p.Y }

func (c *pointComponent) Relate(b Box) Relation {
	if !b.Contains(c.p.X, c.p.Y) {
		return CellOutside
	}
	if b.MinX == b.MaxX && b.MinY == b.MaxY {
		return CellInside
	}
	return CellCrosses
}

func (c *pointComponent) IntersectsLine(a, b Point) bool { return onSegment(a, b, c.p) }

func (c *pointComponent) IntersectsTriangle(a, b, t Point) bool { return pointInTriangle(c.p, a, b, t) }

func (c *pointComponent) ContainsLine(a, b Point) bool { return a == c.p && b == c.p }

func (c *pointComponent) ContainsTriangle(a, b, t Point) bool {
	return a == c.p && b == c.p && t == c.p
}

func (c *pointComponent) WithinPoint(p Point) WithinRelation {
	if p == c.p {
		return WithinCandidate
	}
	return WithinDisjoint
}

func (c *pointComponent) WithinLine(a Point, ab bool, b Point) WithinRelation {
	if onSegment(a, b, c.p) {
		return WithinCandidate
	}
	return WithinDisjoint
}

func (c *pointComponent) WithinTriangle(a Point, ab bool, b Point, bc bool, t Point, ca bool) WithinRelation {
	if pointInTriangle(c.p, a, b, t) {
		return WithinCandidate
	}
	return WithinDisjoint
}

func (c *pointComponent) String() string { return fmt.Sprintf("POINT(%v %v)", c.p.X, c.p.Y) }
