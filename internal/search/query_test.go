package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geodv/docvalues"
	"github.com/hupe1980/geodv/geo"
	"github.com/hupe1980/geodv/internal/docid"
)

func TestParseRelation(t *testing.T) {
	for _, r := range []QueryRelation{RelationIntersects, RelationWithin, RelationDisjoint, RelationContains} {
		got, err := ParseRelation(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	got, err := ParseRelation("WITHIN")
	require.NoError(t, err)
	assert.Equal(t, RelationWithin, got)

	_, err = ParseRelation("overlaps")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, "relation(9)", QueryRelation(9).String())
}

func TestShapeQuery_Relations(t *testing.T) {
	seg := shapeSegment(t)

	tests := []struct {
		name     string
		relation QueryRelation
		query    [4]float64
		want     []uint32
	}{
		{"intersects all near origin", RelationIntersects, [4]float64{-1, 2, -1, 2}, []uint32{0, 2}},
		{"within all near origin", RelationWithin, [4]float64{-1, 2, -1, 2}, []uint32{0, 2}},
		{"disjoint from origin", RelationDisjoint, [4]float64{-1, 2, -1, 2}, []uint32{1}},
		{"intersects crossing box", RelationIntersects, [4]float64{0.5, 20, 0.5, 20}, []uint32{0, 1, 2}},
		{"within crossing box", RelationWithin, [4]float64{0.5, 20, 0.5, 20}, []uint32{1}},
		{"disjoint crossing box", RelationDisjoint, [4]float64{0.5, 20, 0.5, 20}, nil},
		{"intersects nothing", RelationIntersects, [4]float64{50, 60, 50, 60}, nil},
		{"disjoint from far box", RelationDisjoint, [4]float64{50, 60, 50, 60}, []uint32{0, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NewShapeQuery("shape", geo.Geographic, tt.relation,
				box(t, tt.query[0], tt.query[1], tt.query[2], tt.query[3]))
			require.NoError(t, err)
			got := collect(t, seg, q)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShapeQuery_ExactFill(t *testing.T) {
	seg := edgeSegment(t)

	tests := []struct {
		name      string
		relation  QueryRelation
		component func(t *testing.T) geo.Component2D
		want      []uint32
	}{
		{"within box", RelationWithin, func(t *testing.T) geo.Component2D { return box(t, 1, 2, 1, 2) }, []uint32{0}},
		{"within polygon", RelationWithin, unitSquare, []uint32{0}},
		{"intersects touching edge", RelationIntersects, func(t *testing.T) geo.Component2D { return box(t, 1, 2, 1, 2) }, []uint32{0, 1}},
		{"disjoint", RelationDisjoint, unitSquare, []uint32{2}},
		{"within union", RelationWithin, func(t *testing.T) geo.Component2D {
			c, err := geo.Union(box(t, 1, 2, 1, 2), box(t, 3, 4, 3, 4))
			require.NoError(t, err)
			return c
		}, []uint32{0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NewShapeQuery("shape", geo.Geographic, tt.relation, tt.component(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, collect(t, seg, q))
		})
	}
}

func TestShapeQuery_Union(t *testing.T) {
	seg := shapeSegment(t)
	q, err := NewShapeQuery("shape", geo.Geographic, RelationWithin,
		box(t, -1, 2, -1, 2), box(t, 9, 12, 9, 12))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, collect(t, seg, q))
}

func TestShapeQuery_Errors(t *testing.T) {
	c := box(t, 0, 1, 0, 1)

	_, err := NewShapeQuery("shape", geo.Geographic, RelationContains, c)
	assert.ErrorIs(t, err, ErrUnsupportedRelation)

	_, err = NewShapeQuery("", geo.Geographic, RelationIntersects, c)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewShapeQuery("shape", geo.Encoding{}, RelationIntersects, c)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewShapeQuery("shape", geo.Geographic, RelationIntersects)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewShapeQuery("shape", geo.Geographic, QueryRelation(42), c)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestShapeQuery_FieldKind(t *testing.T) {
	seg := shapeSegment(t)

	q, err := NewShapeQuery("point", geo.Geographic, RelationIntersects, box(t, 0, 1, 0, 1))
	require.NoError(t, err)
	_, err = q.Iterator(seg)
	require.ErrorIs(t, err, ErrFieldKind)

	var fke *FieldKindError
	require.ErrorAs(t, err, &fke)
	assert.Equal(t, "point", fke.Field)
	assert.Equal(t, docvalues.FieldSortedNumeric, fke.Type)
	assert.Equal(t, docvalues.FieldBinary, fke.WantType)

	q, err = NewShapeQuery("shape", geo.Cartesian, RelationIntersects, box(t, 0, 1, 0, 1))
	require.NoError(t, err)
	_, err = q.Iterator(seg)
	assert.ErrorIs(t, err, ErrFieldKind)
}

func TestShapeQuery_MissingField(t *testing.T) {
	seg := shapeSegment(t)
	q, err := NewShapeQuery("nope", geo.Geographic, RelationIntersects, box(t, -180, 180, -90, 90))
	require.NoError(t, err)
	assert.Empty(t, collect(t, seg, q))
}

func TestShapeQuery_TwoPhase(t *testing.T) {
	seg := shapeSegment(t)
	q, err := NewShapeQuery("shape", geo.Geographic, RelationWithin, box(t, 5, 20, 5, 20))
	require.NoError(t, err)

	tp, err := q.TwoPhase(seg)
	require.NoError(t, err)
	assert.Equal(t, float32(ShapeMatchCost), tp.MatchCost())

	// The approximation yields every document with a shape, deleted or not.
	var approx, confirmed []int
	it := tp.Approximation()
	for doc := it.NextDoc(); doc != docid.NoMoreDocs; doc = it.NextDoc() {
		approx = append(approx, doc)
		ok, err := tp.Matches()
		require.NoError(t, err)
		if ok {
			confirmed = append(confirmed, doc)
		}
	}
	assert.Equal(t, []int{0, 1, 2, 3}, approx)
	assert.Equal(t, []int{1}, confirmed)
}

func TestShapeQuery_EqualHash(t *testing.T) {
	a, err := NewShapeQuery("shape", geo.Geographic, RelationIntersects, box(t, 0, 1, 0, 1))
	require.NoError(t, err)
	b, err := NewShapeQuery("shape", geo.Geographic, RelationIntersects, box(t, 0, 1, 0, 1))
	require.NoError(t, err)
	c, err := NewShapeQuery("shape", geo.Geographic, RelationWithin, box(t, 0, 1, 0, 1))
	require.NoError(t, err)
	d, err := NewShapeQuery("shape", geo.Geographic, RelationIntersects, box(t, 0, 2, 0, 1))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.Equal(t, a.String(), b.String())
	assert.False(t, a.Equal(c))
	assert.NotEqual(t, a.Hash(), c.Hash())
	assert.False(t, a.Equal(d))
	assert.NotEqual(t, a.Hash(), d.Hash())

	bq, err := NewXYBoxQuery("shape", 0, 1, 0, 1)
	require.NoError(t, err)
	assert.False(t, a.Equal(bq))
}
