package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geodv/docvalues"
	"github.com/hupe1980/geodv/geo"
)

func numericSegment(t *testing.T) *docvalues.Segment {
	t.Helper()
	b := docvalues.NewBuilder(docvalues.WithMaxDoc(6))
	for doc, vals := range map[int][]int64{
		0: {5, 1},
		1: {7},
		2: {100, 3},
		4: {5},
		5: {-9, 200},
	} {
		for _, v := range vals {
			require.NoError(t, b.AddLong(doc, "n", v))
		}
	}
	require.NoError(t, b.Delete(4))
	seg, err := b.Build()
	require.NoError(t, err)
	return seg
}

func TestSetQuery_Numeric(t *testing.T) {
	seg := numericSegment(t)

	tests := []struct {
		name   string
		values []int64
		want   []uint32
	}{
		{"unordered input", []int64{100, 5}, []uint32{0, 2}},
		{"duplicates", []int64{7, 7, 7}, []uint32{1}},
		{"below all", []int64{-100}, nil},
		{"above all", []int64{1000}, nil},
		{"between values", []int64{-1, 6}, nil},
		{"extremes", []int64{-9, 200}, []uint32{5}},
		{"empty set", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NewSortedNumericSetQuery("n", tt.values...)
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

func TestSetQuery_MatchCost(t *testing.T) {
	q, err := NewSortedNumericSetQuery("n", 1)
	require.NoError(t, err)
	tp, err := q.TwoPhase(numericSegment(t))
	require.NoError(t, err)
	assert.Equal(t, float32(SetMatchCost), tp.MatchCost())
}

func TestSetQuery_Points(t *testing.T) {
	b := docvalues.NewBuilder()
	require.NoError(t, b.AddPoint(0, "loc", geo.Geographic, 13.4, 52.5))
	require.NoError(t, b.AddPoint(1, "loc", geo.Geographic, 2.35, 48.85))
	require.NoError(t, b.AddPoint(1, "loc", geo.Geographic, -0.12, 51.5))
	require.NoError(t, b.AddPoint(2, "xy", geo.Cartesian, 1, 2))
	seg, err := b.Build()
	require.NoError(t, err)

	q, err := NewPointSetQuery("loc", geo.Geographic, geo.Point{X: -0.12, Y: 51.5}, geo.Point{X: 0, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, []uint32{1}, collect(t, seg, q))

	q, err = NewPointSetQuery("xy", geo.Cartesian, geo.Point{X: 1, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, collect(t, seg, q))

	q, err = NewPointSetQuery("xy", geo.Geographic, geo.Point{X: 1, Y: 2})
	require.NoError(t, err)
	_, err = q.Iterator(seg)
	assert.ErrorIs(t, err, ErrFieldKind)

	_, err = NewPointSetQuery("loc", geo.Geographic, geo.Point{X: 0, Y: 91})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorIs(t, err, geo.ErrInvalidCoordinate)
}

func TestSetQuery_EqualHash(t *testing.T) {
	a, err := NewSortedNumericSetQuery("n", 3, 1, 2)
	require.NoError(t, err)
	b, err := NewSortedNumericSetQuery("n", 1, 2, 3, 3)
	require.NoError(t, err)
	c, err := NewSortedNumericSetQuery("m", 1, 2, 3)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.False(t, a.Equal(c))
	assert.NotEqual(t, a.Hash(), c.Hash())

	p, err := NewPointSetQuery("n", geo.Cartesian)
	require.NoError(t, err)
	e, err := NewSortedNumericSetQuery("n")
	require.NoError(t, err)
	assert.False(t, p.Equal(e))
}

func TestSetQuery_Errors(t *testing.T) {
	_, err := NewSortedNumericSetQuery("", 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewPointSetQuery("loc", geo.Encoding{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
