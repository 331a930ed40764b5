package geo

import "fmt"

type quantizer interface {
	quantize(enc Encoding) Component2D
}

// Quantize snaps the vertices of c onto the grid of enc, so the component
// compares against indexed coordinates the way they decode. Both bounds of a
// box round the same way stored values do, which keeps a value stored exactly
// on an edge inside the box.
func Quantize(enc Encoding, c Component2D) (Component2D, error) {
	if !enc.Valid() {
		return nil, fmt.Errorf("%w: invalid encoding", ErrInvalidGeometry)
	}
	q, ok := c.(quantizer)
	if !ok {
		return nil, fmt.Errorf("%w: cannot quantize %T", ErrInvalidGeometry, c)
	}
	return q.quantize(enc), nil
}

func quantizePoint(enc Encoding, p Point) Point {
	x, y := enc.Quantize(p.X, p.Y)
	return Point{X: x, Y: y}
}

func quantizePoints(enc Encoding, pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = quantizePoint(enc, p)
	}
	return out
}

func (c *pointComponent) quantize(enc Encoding) Component2D {
	return &pointComponent{p: quantizePoint(enc, c.p)}
}

func (r *boxComponent) quantize(enc Encoding) Component2D {
	minX, minY := enc.Quantize(r.box.MinX, r.box.MinY)
	maxX, maxY := enc.Quantize(r.box.MaxX, r.box.MaxY)
	return &boxComponent{box: Box{MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY}}
}

// Vertices that collapse onto one grid cell are kept; a degenerate ring still
// answers containment through its boundary.
func (p *polygonComponent) quantize(enc Encoding) Component2D {
	rings := make([][]Point, len(p.rings))
	for i, r := range p.rings {
		rings[i] = quantizePoints(enc, r)
	}
	return &polygonComponent{rings: rings, bounds: bboxOf(rings[0]...)}
}

func (l *lineComponent) quantize(enc Encoding) Component2D {
	pts := quantizePoints(enc, l.pts)
	return &lineComponent{pts: pts, bounds: bboxOf(pts...)}
}

func (u *unionComponent) quantize(enc Encoding) Component2D {
	out := &unionComponent{parts: make([]Component2D, len(u.parts)), bounds: EmptyBox()}
	for i, c := range u.parts {
		q := c.(quantizer).quantize(enc)
		out.parts[i] = q
		out.bounds = out.bounds.Union(q.Bounds())
	}
	return out
}
