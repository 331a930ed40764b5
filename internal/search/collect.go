package search

import (
	"context"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/geodv/docvalues"
	"github.com/hupe1980/geodv/internal/docid"
)

// Collect returns the live documents of seg matching q.
func Collect(ctx context.Context, seg *docvalues.Segment, q Query) (*roaring.Bitmap, error) {
	it, err := q.Iterator(seg)
	if err != nil {
		return nil, err
	}
	return CollectIterator(ctx, seg.LiveIterator(it))
}

// CollectIterator drains it into a bitmap, checking ctx every
// CheckInterval documents.
func CollectIterator(ctx context.Context, it docid.Iterator) (*roaring.Bitmap, error) {
	bm := roaring.New()
	visited := 0
	for doc := it.NextDoc(); doc != docid.NoMoreDocs; doc = it.NextDoc() {
		if visited++; visited%CheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		bm.Add(uint32(doc))
	}
	if err := docid.Err(it); err != nil {
		return nil, err
	}
	bm.RunOptimize()
	return bm, nil
}
