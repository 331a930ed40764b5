package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantize_EdgeValues(t *testing.T) {
	raw, err := NewBox(1, 2, 1, 2)
	require.NoError(t, err)
	square, err := NewPolygon([]Point{pt(1, 1), pt(2, 1), pt(2, 2), pt(1, 2)})
	require.NoError(t, err)
	line, err := NewLine([]Point{pt(1, 1), pt(2, 2)})
	require.NoError(t, err)
	point, err := NewPoint(1, 1)
	require.NoError(t, err)
	union, err := Union(raw, square)
	require.NoError(t, err)

	// (1, 1) reads back just below the grid value it was stored as.
	x, y := Geographic.Quantize(1, 1)
	require.Less(t, x, 1.0)
	require.Less(t, y, 1.0)
	assert.False(t, raw.Contains(x, y))

	tests := []struct {
		name string
		c    Component2D
	}{
		{"box", raw},
		{"polygon", square},
		{"line", line},
		{"point", point},
		{"union", union},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Quantize(Geographic, tt.c)
			require.NoError(t, err)
			assert.True(t, q.Contains(x, y))
			assert.Equal(t, x, q.Bounds().MinX)
			assert.Equal(t, y, q.Bounds().MinY)
		})
	}
}

func TestQuantize_Box(t *testing.T) {
	c, err := NewBox(1, 2, 1, 2)
	require.NoError(t, err)
	q, err := Quantize(Geographic, c)
	require.NoError(t, err)

	tests := []struct {
		name   string
		lon    float64
		lat    float64
		inside bool
	}{
		{"min corner", 1, 1, true},
		{"max corner", 2, 2, true},
		{"min x edge", 1, 1.5, true},
		{"max x edge", 2, 1.5, true},
		{"min y edge", 1.5, 1, true},
		{"max y edge", 1.5, 2, true},
		{"below", 1.5, 0.99, false},
		{"right", 2.01, 1.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Geographic.Quantize(tt.lon, tt.lat)
			assert.Equal(t, tt.inside, q.Contains(x, y))
		})
	}

	// stored triangle filling the box exactly
	a, b, d := quantizePoint(Geographic, pt(1, 1)), quantizePoint(Geographic, pt(2, 1)), quantizePoint(Geographic, pt(2, 2))
	assert.True(t, q.ContainsTriangle(a, b, d))
	assert.Equal(t, CellInside, q.Relate(bboxOf(a, b, d)))
}

func TestQuantize_Cartesian(t *testing.T) {
	c, err := NewBox(0.1, 0.3, -0.3, -0.1)
	require.NoError(t, err)
	q, err := Quantize(Cartesian, c)
	require.NoError(t, err)

	for _, v := range [][2]float64{{0.1, -0.3}, {0.3, -0.1}, {0.2, -0.2}} {
		x, y := Cartesian.Quantize(v[0], v[1])
		assert.True(t, q.Contains(x, y), "%v", v)
	}
}

func TestQuantize_Errors(t *testing.T) {
	c, err := NewPoint(0, 0)
	require.NoError(t, err)
	_, err = Quantize(Encoding{}, c)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
	_, err = Quantize(Geographic, nil)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}
