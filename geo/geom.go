package geo

import (
	"errors"
	"fmt"

	"github.com/twpayne/go-geom"
)

// ErrUnsupportedGeometry is returned for geometry types that have no component form.
var ErrUnsupportedGeometry = errors.New("unsupported geometry")

// FromGeom converts a go-geom geometry into a component. Coordinates are
// validated against the encoding; x is the first ordinate of each coordinate.
func FromGeom(enc Encoding, g geom.T) (Component2D, error) {
	if !enc.Valid() {
		return nil, fmt.Errorf("%w: invalid encoding", ErrInvalidGeometry)
	}
	switch t := g.(type) {
	case *geom.Point:
		p, err := toPoint(enc, t.Coords())
		if err != nil {
			return nil, err
		}
		return NewPoint(p.X, p.Y)
	case *geom.MultiPoint:
		parts := make([]Component2D, 0, t.NumPoints())
		for i := 0; i < t.NumPoints(); i++ {
			c, err := FromGeom(enc, t.Point(i))
			if err != nil {
				return nil, err
			}
			parts = append(parts, c)
		}
		return Union(parts...)
	case *geom.LineString:
		pts, err := toPoints(enc, t.Coords())
		if err != nil {
			return nil, err
		}
		return NewLine(pts)
	case *geom.MultiLineString:
		parts := make([]Component2D, 0, t.NumLineStrings())
		for i := 0; i < t.NumLineStrings(); i++ {
			c, err := FromGeom(enc, t.LineString(i))
			if err != nil {
				return nil, err
			}
			parts = append(parts, c)
		}
		return Union(parts...)
	case *geom.Polygon:
		if t.NumLinearRings() == 0 {
			return nil, fmt.Errorf("%w: empty polygon", ErrInvalidGeometry)
		}
		rings := make([][]Point, 0, t.NumLinearRings())
		for i := 0; i < t.NumLinearRings(); i++ {
			pts, err := toPoints(enc, t.LinearRing(i).Coords())
			if err != nil {
				return nil, err
			}
			rings = append(rings, pts)
		}
		return NewPolygon(rings[0], rings[1:]...)
	case *geom.MultiPolygon:
		parts := make([]Component2D, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			c, err := FromGeom(enc, t.Polygon(i))
			if err != nil {
				return nil, err
			}
			parts = append(parts, c)
		}
		return Union(parts...)
	case *geom.GeometryCollection:
		geoms := t.Geoms()
		parts := make([]Component2D, 0, len(geoms))
		for _, sub := range geoms {
			c, err := FromGeom(enc, sub)
			if err != nil {
				return nil, err
			}
			parts = append(parts, c)
		}
		return Union(parts...)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedGeometry, g)
	}
}

func toPoint(enc Encoding, c geom.Coord) (Point, error) {
	if len(c) < 2 {
		return Point{}, fmt.Errorf("%w: coordinate with %d ordinates", ErrInvalidGeometry, len(c))
	}
	if err := enc.Check(c[0], c[1]); err != nil {
		return Point{}, err
	}
	return Point{X: c[0], Y: c[1]}, nil
}

func toPoints(enc Encoding, coords []geom.Coord) ([]Point, error) {
	pts := make([]Point, len(coords))
	for i, c := range coords {
		p, err := toPoint(enc, c)
		if err != nil {
			return nil, err
		}
		pts[i] = p
	}
	return pts, nil
}
