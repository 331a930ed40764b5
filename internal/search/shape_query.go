package search

import (
	"fmt"

	"github.com/hupe1980/geodv/docvalues"
	"github.com/hupe1980/geodv/geo"
	"github.com/hupe1980/geodv/internal/docid"
	"github.com/hupe1980/geodv/internal/hash"
	"github.com/hupe1980/geodv/internal/shapedv"
)

// ShapeMatchCost is the per-document confirmation cost reported by shape
// queries. Decoding and relating a tessellation is expensive compared to
// scanning packed points.
const ShapeMatchCost = 1000

// ShapeQuery relates the tessellated shapes of a binary field to a query
// geometry.
type ShapeQuery struct {
	field     string
	enc       geo.Encoding
	relation  QueryRelation
	component geo.Component2D
	key       string
}

// NewShapeQuery returns a query matching documents whose shape stands in
// relation to the union of components. The components are snapped onto the
// grid of enc first. RelationContains is rejected.
func NewShapeQuery(field string, enc geo.Encoding, relation QueryRelation, components ...geo.Component2D) (*ShapeQuery, error) {
	if field == "" {
		return nil, fmt.Errorf("%w: empty field", ErrInvalidArgument)
	}
	if !enc.Valid() {
		return nil, fmt.Errorf("%w: invalid encoding", ErrInvalidArgument)
	}
	switch relation {
	case RelationIntersects, RelationWithin, RelationDisjoint:
	case RelationContains:
		return nil, fmt.Errorf("%w: %s on doc values", ErrUnsupportedRelation, relation)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, relation)
	}
	c, parts, err := quantized(enc, components)
	if err != nil {
		return nil, err
	}
	return &ShapeQuery{
		field:     field,
		enc:       enc,
		relation:  relation,
		component: c,
		key:       componentKey(parts),
	}, nil
}

// Field returns the shape field.
func (q *ShapeQuery) Field() string { return q.field }

// Relation returns the query relation.
func (q *ShapeQuery) Relation() QueryRelation { return q.relation }

// Component returns the combined query geometry.
func (q *ShapeQuery) Component() geo.Component2D { return q.component }

// Matches applies the query relation to one shape.
func (q *ShapeQuery) Matches(dv *shapedv.DocValues) bool {
	rel := dv.Relate(q.component)
	result := rel != geo.CellOutside
	if q.relation == RelationWithin {
		result = rel == geo.CellInside
	}
	if q.relation == RelationDisjoint {
		return !result
	}
	return result
}

// TwoPhase approximates with every document holding a shape and confirms by
// decoding and relating its tessellation.
func (q *ShapeQuery) TwoPhase(seg *docvalues.Segment) (docid.TwoPhaseIterator, error) {
	if err := checkField(seg, q.field, docvalues.FieldBinary, q.enc.Kind()); err != nil {
		return nil, err
	}
	values, err := seg.Binary(q.field)
	if err != nil {
		return nil, err
	}
	shape := shapedv.New(q.enc)
	return &docid.MatchFunc{
		Approx: values,
		Match: func(doc int) (bool, error) {
			if err := shape.Reset(values.BinaryValue()); err != nil {
				return false, fmt.Errorf("field %q document %d: %w", q.field, doc, err)
			}
			return q.Matches(shape), nil
		},
		Cost: ShapeMatchCost,
	}, nil
}

// Iterator returns the confirmed documents of seg.
func (q *ShapeQuery) Iterator(seg *docvalues.Segment) (docid.Iterator, error) {
	return iteratorOf(q, seg)
}

// IsCacheable reports whether seg allows caching.
func (q *ShapeQuery) IsCacheable(seg *docvalues.Segment) bool { return seg.IsCacheable() }

// Hash covers field, kind, relation and the snapped geometry.
func (q *ShapeQuery) Hash() uint64 {
	return hash.NewKey64().
		String("shape").
		String(q.field).
		Uint64(uint64(q.enc.Kind())).
		Uint64(uint64(q.relation)).
		String(q.key).
		Sum()
}

// Equal reports whether other is the same shape query.
func (q *ShapeQuery) Equal(other Query) bool {
	o, ok := other.(*ShapeQuery)
	return ok && q.field == o.field && q.enc.Kind() == o.enc.Kind() &&
		q.relation == o.relation && q.key == o.key
}

// String renders the query for logs.
func (q *ShapeQuery) String() string {
	return fmt.Sprintf("%s:%s(%s)[%s]", q.field, q.relation, q.enc.Kind(), q.key)
}
