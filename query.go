package geodv

import (
	"github.com/twpayne/go-geom"

	"github.com/hupe1980/geodv/geo"
	"github.com/hupe1980/geodv/internal/search"
)

// Query matches documents of a segment.
type Query = search.Query

// QueryRelation is the spatial predicate of a shape query.
type QueryRelation = search.QueryRelation

// Shape query relations.
const (
	Intersects = search.RelationIntersects
	Within     = search.RelationWithin
	Disjoint   = search.RelationDisjoint
	// Contains cannot be evaluated on doc values and is rejected with
	// ErrUnsupported.
	Contains = search.RelationContains
)

// ParseRelation parses "intersects", "within", "disjoint" or "contains".
func ParseRelation(s string) (QueryRelation, error) {
	r, err := search.ParseRelation(s)
	return r, translateError(err)
}

// NewShapeQuery matches documents of a shape field whose shape stands in
// relation to the union of components.
func NewShapeQuery(field string, enc geo.Encoding, relation QueryRelation, components ...geo.Component2D) (Query, error) {
	q, err := search.NewShapeQuery(field, enc, relation, components...)
	if err != nil {
		return nil, translateError(err)
	}
	return q, nil
}

// NewGeomShapeQuery is NewShapeQuery with go-geom geometries.
func NewGeomShapeQuery(field string, enc geo.Encoding, relation QueryRelation, geoms ...geom.T) (Query, error) {
	components, err := components(enc, geoms)
	if err != nil {
		return nil, err
	}
	return NewShapeQuery(field, enc, relation, components...)
}

// NewPointInGeometryQuery matches documents of a point field with a point
// inside the union of components.
func NewPointInGeometryQuery(field string, enc geo.Encoding, components ...geo.Component2D) (Query, error) {
	q, err := search.NewPointInGeometryQuery(field, enc, components...)
	if err != nil {
		return nil, translateError(err)
	}
	return q, nil
}

// NewGeomPointQuery is NewPointInGeometryQuery with go-geom geometries.
func NewGeomPointQuery(field string, enc geo.Encoding, geoms ...geom.T) (Query, error) {
	components, err := components(enc, geoms)
	if err != nil {
		return nil, err
	}
	return NewPointInGeometryQuery(field, enc, components...)
}

// NewLatLonBoxQuery matches documents of a geographic point field inside a
// box. minLon > maxLon selects a box crossing the antimeridian.
func NewLatLonBoxQuery(field string, minLat, maxLat, minLon, maxLon float64) (Query, error) {
	q, err := search.NewLatLonBoxQuery(field, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, translateError(err)
	}
	return q, nil
}

// NewXYBoxQuery matches documents of a cartesian point field inside a box.
func NewXYBoxQuery(field string, minX, maxX, minY, maxY float64) (Query, error) {
	q, err := search.NewXYBoxQuery(field, minX, maxX, minY, maxY)
	if err != nil {
		return nil, translateError(err)
	}
	return q, nil
}

// NewSortedNumericSetQuery matches documents of a numeric field having any
// of values.
func NewSortedNumericSetQuery(field string, values ...int64) (Query, error) {
	q, err := search.NewSortedNumericSetQuery(field, values...)
	if err != nil {
		return nil, translateError(err)
	}
	return q, nil
}

// NewPointSetQuery matches documents of a point field holding any of
// points exactly, after encoding.
func NewPointSetQuery(field string, enc geo.Encoding, points ...geo.Point) (Query, error) {
	q, err := search.NewPointSetQuery(field, enc, points...)
	if err != nil {
		return nil, translateError(err)
	}
	return q, nil
}

func components(enc geo.Encoding, geoms []geom.T) ([]geo.Component2D, error) {
	out := make([]geo.Component2D, len(geoms))
	for i, g := range geoms {
		c, err := geo.FromGeom(enc, g)
		if err != nil {
			return nil, translateError(err)
		}
		out[i] = c
	}
	return out, nil
}
