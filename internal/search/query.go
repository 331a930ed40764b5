package search

import (
	"fmt"
	"strings"

	"github.com/hupe1980/geodv/docvalues"
	"github.com/hupe1980/geodv/geo"
	"github.com/hupe1980/geodv/internal/docid"
)

// Query matches documents of a segment.
type Query interface {
	// Field returns the doc-values field the query reads.
	Field() string
	// Iterator returns the matching documents of seg, including deleted
	// ones. Confirmation errors are reported through docid.Err.
	Iterator(seg *docvalues.Segment) (docid.Iterator, error)
	// IsCacheable reports whether results on seg may be cached.
	IsCacheable(seg *docvalues.Segment) bool
	// Hash is consistent with Equal.
	Hash() uint64
	Equal(other Query) bool
	String() string
}

// TwoPhaseQuery is implemented by queries with a separate confirmation
// phase.
type TwoPhaseQuery interface {
	Query
	TwoPhase(seg *docvalues.Segment) (docid.TwoPhaseIterator, error)
}

// QueryRelation is the spatial predicate of a shape query.
type QueryRelation uint8

const (
	// RelationIntersects matches shapes sharing at least one point with the
	// query geometry.
	RelationIntersects QueryRelation = iota
	// RelationWithin matches shapes fully inside the query geometry.
	RelationWithin
	// RelationDisjoint matches shapes sharing no point with the query
	// geometry.
	RelationDisjoint
	// RelationContains matches shapes containing the query geometry. Not
	// supported on doc values.
	RelationContains
)

func (r QueryRelation) String() string {
	switch r {
	case RelationIntersects:
		return "intersects"
	case RelationWithin:
		return "within"
	case RelationDisjoint:
		return "disjoint"
	case RelationContains:
		return "contains"
	default:
		return fmt.Sprintf("relation(%d)", uint8(r))
	}
}

// ParseRelation parses the value returned by QueryRelation.String.
func ParseRelation(s string) (QueryRelation, error) {
	switch strings.ToLower(s) {
	case "intersects":
		return RelationIntersects, nil
	case "within":
		return RelationWithin, nil
	case "disjoint":
		return RelationDisjoint, nil
	case "contains":
		return RelationContains, nil
	default:
		return 0, fmt.Errorf("%w: unknown relation %q", ErrInvalidArgument, s)
	}
}

// iteratorOf wraps a two-phase query into a plain iterator.
func iteratorOf(q TwoPhaseQuery, seg *docvalues.Segment) (docid.Iterator, error) {
	tp, err := q.TwoPhase(seg)
	if err != nil {
		return nil, err
	}
	return docid.AsIterator(tp), nil
}

// quantized snaps components onto the index grid of enc and returns their
// union along with the snapped parts.
func quantized(enc geo.Encoding, components []geo.Component2D) (geo.Component2D, []geo.Component2D, error) {
	parts := make([]geo.Component2D, len(components))
	for i, c := range components {
		if c == nil {
			return nil, nil, fmt.Errorf("%w: nil component", ErrInvalidArgument)
		}
		q, err := geo.Quantize(enc, c)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		parts[i] = q
	}
	u, err := geo.Union(parts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return u, parts, nil
}

func componentKey(components []geo.Component2D) string {
	parts := make([]string, len(components))
	for i, c := range components {
		parts[i] = fmt.Sprint(c)
	}
	return strings.Join(parts, ", ")
}
