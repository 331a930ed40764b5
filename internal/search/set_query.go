package search

import (
	"fmt"
	"slices"

	"github.com/hupe1980/geodv/docvalues"
	"github.com/hupe1980/geodv/geo"
	"github.com/hupe1980/geodv/internal/docid"
	"github.com/hupe1980/geodv/internal/hash"
	"github.com/hupe1980/geodv/internal/longset"
)

// SetMatchCost is the per-document confirmation cost of set queries.
const SetMatchCost = 5

// SetQuery matches documents with at least one numeric value in a set.
type SetQuery struct {
	field string
	// kind is the coordinate kind for packed points, KindUnknown otherwise.
	kind geo.Kind
	set  *longset.Set
}

// NewSortedNumericSetQuery matches documents of a sorted numeric field
// having any of values. The input is copied and may be in any order.
func NewSortedNumericSetQuery(field string, values ...int64) (*SetQuery, error) {
	return newSetQuery(field, geo.KindUnknown, values)
}

// NewPointSetQuery matches documents of a point field holding any of
// points, compared after encoding.
func NewPointSetQuery(field string, enc geo.Encoding, points ...geo.Point) (*SetQuery, error) {
	if !enc.Valid() {
		return nil, fmt.Errorf("%w: invalid encoding", ErrInvalidArgument)
	}
	values := make([]int64, len(points))
	for i, p := range points {
		if err := enc.Check(p.X, p.Y); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		values[i] = enc.Pack(p.X, p.Y)
	}
	return newSetQuery(field, enc.Kind(), values)
}

func newSetQuery(field string, kind geo.Kind, values []int64) (*SetQuery, error) {
	if field == "" {
		return nil, fmt.Errorf("%w: empty field", ErrInvalidArgument)
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	set, err := longset.New(sorted)
	if err != nil {
		return nil, err
	}
	return &SetQuery{field: field, kind: kind, set: set}, nil
}

// Field returns the numeric field.
func (q *SetQuery) Field() string { return q.field }

// Set returns the membership set.
func (q *SetQuery) Set() *longset.Set { return q.set }

// matches reports whether any of the ascending values is in the set.
func (q *SetQuery) matches(values docvalues.SortedNumericDocValues) bool {
	lo, hi := q.set.MinValue(), q.set.MaxValue()
	for range values.DocValueCount() {
		v := values.NextValue()
		if v < lo {
			continue
		}
		if v > hi {
			return false
		}
		if q.set.Contains(v) {
			return true
		}
	}
	return false
}

// TwoPhase approximates with every document holding a value.
func (q *SetQuery) TwoPhase(seg *docvalues.Segment) (docid.TwoPhaseIterator, error) {
	if err := checkField(seg, q.field, docvalues.FieldSortedNumeric, q.kind); err != nil {
		return nil, err
	}
	values, err := seg.SortedNumeric(q.field)
	if err != nil {
		return nil, err
	}
	if q.set.Size() == 0 {
		return &docid.MatchFunc{Approx: docid.Empty(), Match: func(int) (bool, error) { return false, nil }}, nil
	}
	return &docid.MatchFunc{
		Approx: values,
		Match:  func(int) (bool, error) { return q.matches(values), nil },
		Cost:   SetMatchCost,
	}, nil
}

// Iterator returns the confirmed documents of seg.
func (q *SetQuery) Iterator(seg *docvalues.Segment) (docid.Iterator, error) {
	return iteratorOf(q, seg)
}

// IsCacheable reports whether seg allows caching.
func (q *SetQuery) IsCacheable(seg *docvalues.Segment) bool { return seg.IsCacheable() }

// Hash is consistent with Equal.
func (q *SetQuery) Hash() uint64 {
	return hash.NewKey64().
		String("set").
		String(q.field).
		Uint64(uint64(q.kind)).
		Uint64(q.set.Hash()).
		Sum()
}

// Equal reports whether other holds the same set on the same field.
func (q *SetQuery) Equal(other Query) bool {
	o, ok := other.(*SetQuery)
	return ok && q.field == o.field && q.kind == o.kind && q.set.Equal(o.set)
}

// String renders the query for logs.
func (q *SetQuery) String() string {
	if q.kind == geo.KindUnknown {
		return fmt.Sprintf("%s:%s", q.field, q.set)
	}
	return fmt.Sprintf("%s:points(%s)%s", q.field, q.kind, q.set)
}
