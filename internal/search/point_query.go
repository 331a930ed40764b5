package search

import (
	"fmt"

	"github.com/hupe1980/geodv/docvalues"
	"github.com/hupe1980/geodv/geo"
	"github.com/hupe1980/geodv/internal/docid"
	"github.com/hupe1980/geodv/internal/hash"
)

// Per-document confirmation costs of point queries.
const (
	PointMatchCost = 100
	BoxMatchCost   = 5
)

// PointInGeometryQuery matches documents with at least one point inside a
// query geometry.
type PointInGeometryQuery struct {
	field     string
	enc       geo.Encoding
	component geo.Component2D
	key       string
}

// NewPointInGeometryQuery returns a query over the point field matching
// documents with a point in the union of components, snapped onto the grid
// of enc.
func NewPointInGeometryQuery(field string, enc geo.Encoding, components ...geo.Component2D) (*PointInGeometryQuery, error) {
	if field == "" {
		return nil, fmt.Errorf("%w: empty field", ErrInvalidArgument)
	}
	if !enc.Valid() {
		return nil, fmt.Errorf("%w: invalid encoding", ErrInvalidArgument)
	}
	c, parts, err := quantized(enc, components)
	if err != nil {
		return nil, err
	}
	return &PointInGeometryQuery{field: field, enc: enc, component: c, key: componentKey(parts)}, nil
}

// Field returns the point field.
func (q *PointInGeometryQuery) Field() string { return q.field }

func (q *PointInGeometryQuery) matches(values docvalues.SortedNumericDocValues) bool {
	bounds := q.component.Bounds()
	for range values.DocValueCount() {
		x, y := q.enc.Unpack(values.NextValue())
		if !bounds.Contains(x, y) {
			continue
		}
		if q.component.Contains(x, y) {
			return true
		}
	}
	return false
}

// TwoPhase approximates with every document holding a point.
func (q *PointInGeometryQuery) TwoPhase(seg *docvalues.Segment) (docid.TwoPhaseIterator, error) {
	if err := checkField(seg, q.field, docvalues.FieldSortedNumeric, q.enc.Kind()); err != nil {
		return nil, err
	}
	values, err := seg.SortedNumeric(q.field)
	if err != nil {
		return nil, err
	}
	return &docid.MatchFunc{
		Approx: values,
		Match:  func(int) (bool, error) { return q.matches(values), nil },
		Cost:   PointMatchCost,
	}, nil
}

// Iterator returns the confirmed documents of seg.
func (q *PointInGeometryQuery) Iterator(seg *docvalues.Segment) (docid.Iterator, error) {
	return iteratorOf(q, seg)
}

// IsCacheable reports whether seg allows caching.
func (q *PointInGeometryQuery) IsCacheable(seg *docvalues.Segment) bool { return seg.IsCacheable() }

// Hash is consistent with Equal.
func (q *PointInGeometryQuery) Hash() uint64 {
	return hash.NewKey64().
		String("point_in_geometry").
		String(q.field).
		Uint64(uint64(q.enc.Kind())).
		String(q.key).
		Sum()
}

// Equal reports whether other selects the same geometry on the same field.
func (q *PointInGeometryQuery) Equal(other Query) bool {
	o, ok := other.(*PointInGeometryQuery)
	return ok && q.field == o.field && q.enc.Kind() == o.enc.Kind() && q.key == o.key
}

// String renders the query for logs.
func (q *PointInGeometryQuery) String() string {
	return fmt.Sprintf("%s:in(%s)[%s]", q.field, q.enc.Kind(), q.key)
}

// BoxQuery matches documents with at least one point inside an axis-aligned
// box, comparing encoded integers. For geographic fields a box whose encoded
// minimum longitude exceeds its maximum wraps across the antimeridian.
type BoxQuery struct {
	field      string
	enc        geo.Encoding
	minX, maxX int32
	minY, maxY int32
	wrap       bool
}

// NewLatLonBoxQuery returns a box query over a geographic point field.
// minLon > maxLon selects a box crossing the antimeridian.
func NewLatLonBoxQuery(field string, minLat, maxLat, minLon, maxLon float64) (*BoxQuery, error) {
	box := geo.LatLonBox{MinLat: minLat, MaxLat: maxLat, MinLon: minLon, MaxLon: maxLon}
	if err := box.Check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if minLat > maxLat {
		return nil, fmt.Errorf("%w: min latitude %v > max latitude %v", ErrInvalidArgument, minLat, maxLat)
	}
	return NewEncodedBoxQuery(field, geo.Geographic,
		geo.EncodeLongitude(minLon), geo.EncodeLongitude(maxLon),
		geo.EncodeLatitude(minLat), geo.EncodeLatitude(maxLat))
}

// NewXYBoxQuery returns a box query over a cartesian point field.
func NewXYBoxQuery(field string, minX, maxX, minY, maxY float64) (*BoxQuery, error) {
	for _, v := range []float64{minX, maxX, minY, maxY} {
		if err := geo.CheckXY(v); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}
	if minX > maxX || minY > maxY {
		return nil, fmt.Errorf("%w: empty box [%v, %v] x [%v, %v]", ErrInvalidArgument, minX, maxX, minY, maxY)
	}
	return NewEncodedBoxQuery(field, geo.Cartesian,
		geo.Cartesian.EncodeX(minX), geo.Cartesian.EncodeX(maxX),
		geo.Cartesian.EncodeY(minY), geo.Cartesian.EncodeY(maxY))
}

// NewEncodedBoxQuery returns a box query from already encoded bounds.
func NewEncodedBoxQuery(field string, enc geo.Encoding, minX, maxX, minY, maxY int32) (*BoxQuery, error) {
	if field == "" {
		return nil, fmt.Errorf("%w: empty field", ErrInvalidArgument)
	}
	if !enc.Valid() {
		return nil, fmt.Errorf("%w: invalid encoding", ErrInvalidArgument)
	}
	if minY > maxY {
		return nil, fmt.Errorf("%w: encoded min y %d > max y %d", ErrInvalidArgument, minY, maxY)
	}
	wrap := minX > maxX
	if wrap && enc.Kind() != geo.KindGeographic {
		return nil, fmt.Errorf("%w: encoded min x %d > max x %d", ErrInvalidArgument, minX, maxX)
	}
	return &BoxQuery{field: field, enc: enc, minX: minX, maxX: maxX, minY: minY, maxY: maxY, wrap: wrap}, nil
}

// Field returns the point field.
func (q *BoxQuery) Field() string { return q.field }

// CrossesDateline reports whether the longitude range wraps.
func (q *BoxQuery) CrossesDateline() bool { return q.wrap }

// ContainsEncoded tests one encoded point.
func (q *BoxQuery) ContainsEncoded(x, y int32) bool {
	if y < q.minY || y > q.maxY {
		return false
	}
	if q.wrap {
		return x >= q.minX || x <= q.maxX
	}
	return x >= q.minX && x <= q.maxX
}

func (q *BoxQuery) matches(values docvalues.SortedNumericDocValues) bool {
	for range values.DocValueCount() {
		if q.ContainsEncoded(q.enc.UnpackEncoded(values.NextValue())) {
			return true
		}
	}
	return false
}

// TwoPhase approximates with every document holding a point and confirms
// on encoded values.
func (q *BoxQuery) TwoPhase(seg *docvalues.Segment) (docid.TwoPhaseIterator, error) {
	if err := checkField(seg, q.field, docvalues.FieldSortedNumeric, q.enc.Kind()); err != nil {
		return nil, err
	}
	values, err := seg.SortedNumeric(q.field)
	if err != nil {
		return nil, err
	}
	return &docid.MatchFunc{
		Approx: values,
		Match:  func(int) (bool, error) { return q.matches(values), nil },
		Cost:   BoxMatchCost,
	}, nil
}

// Iterator returns the confirmed documents of seg.
func (q *BoxQuery) Iterator(seg *docvalues.Segment) (docid.Iterator, error) {
	return iteratorOf(q, seg)
}

// IsCacheable reports whether seg allows caching.
func (q *BoxQuery) IsCacheable(seg *docvalues.Segment) bool { return seg.IsCacheable() }

// Hash is consistent with Equal.
func (q *BoxQuery) Hash() uint64 {
	return hash.NewKey64().
		String("box").
		String(q.field).
		Uint64(uint64(q.enc.Kind())).
		Int64(int64(q.minX)).Int64(int64(q.maxX)).
		Int64(int64(q.minY)).Int64(int64(q.maxY)).
		Sum()
}

// Equal compares encoded bounds.
func (q *BoxQuery) Equal(other Query) bool {
	o, ok := other.(*BoxQuery)
	return ok && q.field == o.field && q.enc.Kind() == o.enc.Kind() &&
		q.minX == o.minX && q.maxX == o.maxX && q.minY == o.minY && q.maxY == o.maxY
}

// String renders the decoded bounds.
func (q *BoxQuery) String() string {
	return fmt.Sprintf("%s:box(%s)[x %v..%v, y %v..%v]", q.field, q.enc.Kind(),
		q.enc.DecodeX(q.minX), q.enc.DecodeX(q.maxX), q.enc.DecodeY(q.minY), q.enc.DecodeY(q.maxY))
}
