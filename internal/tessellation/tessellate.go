package tessellation

import (
	"fmt"

	"github.com/twpayne/go-geom"

	"github.com/hupe1980/geodv/geo"
)

// Tessellate converts a geometry into records using enc.
//
// Points become point records, line strings become one line record per
// segment and polygon shells are split into triangles by ear clipping.
// Polygons with holes are not supported.
func Tessellate(enc geo.Encoding, g geom.T) ([]Triangle, error) {
	if !enc.Valid() {
		return nil, fmt.Errorf("%w: invalid encoding", geo.ErrInvalidGeometry)
	}
	return appendGeom(nil, enc, g)
}

func appendGeom(dst []Triangle, enc geo.Encoding, g geom.T) ([]Triangle, error) {
	switch t := g.(type) {
	case *geom.Point:
		v, err := encodeCoord(enc, t.Coords())
		if err != nil {
			return nil, err
		}
		return append(dst, NewPoint(v.x, v.y)), nil
	case *geom.MultiPoint:
		for i := 0; i < t.NumPoints(); i++ {
			var err error
			if dst, err = appendGeom(dst, enc, t.Point(i)); err != nil {
				return nil, err
			}
		}
		return dst, nil
	case *geom.LineString:
		return appendLine(dst, enc, t.Coords())
	case *geom.MultiLineString:
		for i := 0; i < t.NumLineStrings(); i++ {
			var err error
			if dst, err = appendLine(dst, enc, t.LineString(i).Coords()); err != nil {
				return nil, err
			}
		}
		return dst, nil
	case *geom.Polygon:
		return appendPolygon(dst, enc, t)
	case *geom.MultiPolygon:
		for i := 0; i < t.NumPolygons(); i++ {
			var err error
			if dst, err = appendPolygon(dst, enc, t.Polygon(i)); err != nil {
				return nil, err
			}
		}
		return dst, nil
	case *geom.GeometryCollection:
		for _, sub := range t.Geoms() {
			var err error
			if dst, err = appendGeom(dst, enc, sub); err != nil {
				return nil, err
			}
		}
		return dst, nil
	default:
		return nil, fmt.Errorf("%w: %T", geo.ErrUnsupportedGeometry, g)
	}
}

type vertex struct {
	x, y int32
	// decoded coordinates, used for orientation tests
	p geo.Point
}

func encodeCoord(enc geo.Encoding, c geom.Coord) (vertex, error) {
	if len(c) < 2 {
		return vertex{}, fmt.Errorf("%w: coordinate with %d ordinates", geo.ErrInvalidGeometry, len(c))
	}
	if err := enc.Check(c[0], c[1]); err != nil {
		return vertex{}, err
	}
	x, y := enc.EncodeX(c[0]), enc.EncodeY(c[1])
	return vertex{x: x, y: y, p: geo.Point{X: enc.DecodeX(x), Y: enc.DecodeY(y)}}, nil
}

func appendLine(dst []Triangle, enc geo.Encoding, coords []geom.Coord) ([]Triangle, error) {
	if len(coords) < 2 {
		return nil, fmt.Errorf("%w: line needs at least 2 vertices, got %d", geo.ErrInvalidGeometry, len(coords))
	}
	prev, err := encodeCoord(enc, coords[0])
	if err != nil {
		return nil, err
	}
	for _, c := range coords[1:] {
		cur, err := encodeCoord(enc, c)
		if err != nil {
			return nil, err
		}
		dst = append(dst, NewLine(prev.x, prev.y, cur.x, cur.y))
		prev = cur
	}
	return dst, nil
}

func appendPolygon(dst []Triangle, enc geo.Encoding, p *geom.Polygon) ([]Triangle, error) {
	switch n := p.NumLinearRings(); {
	case n == 0:
		return nil, fmt.Errorf("%w: empty polygon", geo.ErrInvalidGeometry)
	case n > 1:
		return nil, fmt.Errorf("%w: polygon with %d holes", geo.ErrUnsupportedGeometry, n-1)
	}

	coords := p.LinearRing(0).Coords()
	ring := make([]vertex, 0, len(coords))
	for _, c := range coords {
		v, err := encodeCoord(enc, c)
		if err != nil {
			return nil, err
		}
		// drop vertices that collapse onto their predecessor after encoding
		if len(ring) > 0 && ring[len(ring)-1].x == v.x && ring[len(ring)-1].y == v.y {
			continue
		}
		ring = append(ring, v)
	}
	if len(ring) > 1 && ring[0].x == ring[len(ring)-1].x && ring[0].y == ring[len(ring)-1].y {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return nil, fmt.Errorf("%w: polygon needs at least 3 distinct vertices, got %d", geo.ErrInvalidGeometry, len(ring))
	}
	if signedArea(ring) < 0 {
		for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
			ring[i], ring[j] = ring[j], ring[i]
		}
	}
	return earClip(dst, ring)
}

func signedArea(ring []vertex) float64 {
	var sum float64
	for i := range ring {
		a, b := ring[i].p, ring[(i+1)%len(ring)].p
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

func orient(a, b, c geo.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
}

func inTriangle(p, a, b, c geo.Point) bool {
	return orient(a, b, p) >= 0 && orient(b, c, p) >= 0 && orient(c, a, p) >= 0
}

// earClip triangulates a counter-clockwise ring. orig[i] tracks whether the
// edge from node i to its successor belongs to the original boundary.
func earClip(dst []Triangle, ring []vertex) ([]Triangle, error) {
	nodes := make([]int, len(ring))
	orig := make([]bool, len(ring))
	for i := range nodes {
		nodes[i] = i
		orig[i] = true
	}

	emit := func(a, b, c int, ab, bc, ca bool) {
		va, vb, vc := ring[a], ring[b], ring[c]
		dst = append(dst, Triangle{
			Kind: KindTriangle,
			AX:   va.x, AY: va.y,
			BX: vb.x, BY: vb.y,
			CX: vc.x, CY: vc.y,
			AB: ab, BC: bc, CA: ca,
		})
	}

	for len(nodes) > 3 {
		n := len(nodes)
		clipped := false
		for i := 0; i < n; i++ {
			prev, cur, next := nodes[(i+n-1)%n], nodes[i], nodes[(i+1)%n]
			if !isEar(ring, nodes, prev, cur, next) {
				continue
			}
			emit(prev, cur, next, orig[prev], orig[cur], false)
			orig[prev] = false
			nodes = append(nodes[:i], nodes[i+1:]...)
			clipped = true
			break
		}
		if clipped {
			continue
		}
		// no ear: drop a collinear vertex, merging its two edges
		merged := false
		for i := 0; i < n; i++ {
			prev, cur, next := nodes[(i+n-1)%n], nodes[i], nodes[(i+1)%n]
			if orient(ring[prev].p, ring[cur].p, ring[next].p) == 0 {
				orig[prev] = orig[prev] && orig[cur]
				nodes = append(nodes[:i], nodes[i+1:]...)
				merged = true
				break
			}
		}
		if !merged {
			return nil, fmt.Errorf("%w: polygon ring is self-intersecting", geo.ErrInvalidGeometry)
		}
	}
	a, b, c := nodes[0], nodes[1], nodes[2]
	emit(a, b, c, orig[a], orig[b], orig[c])
	return dst, nil
}

func isEar(ring []vertex, nodes []int, prev, cur, next int) bool {
	a, b, c := ring[prev].p, ring[cur].p, ring[next].p
	if orient(a, b, c) <= 0 {
		return false
	}
	for _, n := range nodes {
		if n == prev || n == cur || n == next {
			continue
		}
		p := ring[n].p
		if p == a || p == b || p == c {
			continue
		}
		if inTriangle(p, a, b, c) {
			return false
		}
	}
	return true
}
