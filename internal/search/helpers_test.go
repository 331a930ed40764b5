package search

import (
	"context"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geodv/docvalues"
	"github.com/hupe1980/geodv/geo"
	"github.com/hupe1980/geodv/testutil"
)

// shapeSegment holds squares:
//
//	0: [0,1]²
//	1: [10,11]²
//	2: [0.2,0.7]²
//	3: [0,1]², deleted
//	4: no shape
func shapeSegment(t *testing.T) *docvalues.Segment {
	t.Helper()
	b := docvalues.NewBuilder(docvalues.WithMaxDoc(5))
	require.NoError(t, b.AddShape(0, "shape", geo.Geographic, testutil.Square(0, 0, 1)))
	require.NoError(t, b.AddShape(1, "shape", geo.Geographic, testutil.Square(10, 10, 1)))
	require.NoError(t, b.AddShape(2, "shape", geo.Geographic, testutil.Square(0.2, 0.2, 0.5)))
	require.NoError(t, b.AddShape(3, "shape", geo.Geographic, testutil.Square(0, 0, 1)))
	require.NoError(t, b.AddPoint(4, "point", geo.Geographic, 1, 1))
	require.NoError(t, b.Delete(3))
	seg, err := b.Build()
	require.NoError(t, err)
	return seg
}

func collect(t *testing.T, seg *docvalues.Segment, q Query) []uint32 {
	t.Helper()
	bm, err := Collect(context.Background(), seg, q)
	require.NoError(t, err)
	return bm.ToArray()
}

func bitmapOf(docs ...uint32) *roaring.Bitmap {
	return roaring.BitmapOf(docs...)
}

func box(t *testing.T, minX, maxX, minY, maxY float64) geo.Component2D {
	t.Helper()
	c, err := geo.NewBox(minX, maxX, minY, maxY)
	require.NoError(t, err)
	return c
}
