package search

import (
	"context"
	"encoding/binary"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/geodv/docvalues"
	"github.com/hupe1980/geodv/internal/cache"
)

// QueryCache memoizes per-segment match sets in a block cache, keyed by
// segment id and query hash. Entries carry the query's String form, so a
// hash collision is a miss rather than a wrong result.
type QueryCache struct {
	c      cache.BlockCache
	hits   atomic.Int64
	misses atomic.Int64
}

// NewQueryCache returns a query cache over c.
func NewQueryCache(c cache.BlockCache) *QueryCache {
	return &QueryCache{c: c}
}

func cacheKey(seg *docvalues.Segment, q Query) cache.CacheKey {
	return cache.CacheKey{Kind: cache.CacheKindMatches, Source: seg.ID(), Offset: q.Hash()}
}

// Get returns the cached matches of q on seg.
func (qc *QueryCache) Get(ctx context.Context, seg *docvalues.Segment, q Query) (*roaring.Bitmap, bool) {
	b, ok := qc.c.Get(ctx, cacheKey(seg, q))
	if !ok {
		qc.misses.Add(1)
		return nil, false
	}
	n, k := binary.Uvarint(b)
	if k <= 0 || uint64(len(b)-k) < n || string(b[k:k+int(n)]) != q.String() {
		qc.misses.Add(1)
		return nil, false
	}
	bm := roaring.New()
	if _, err := bm.FromUnsafeBytes(b[k+int(n):]); err != nil {
		qc.misses.Add(1)
		return nil, false
	}
	qc.hits.Add(1)
	return bm, true
}

// Put caches the matches of q on seg.
func (qc *QueryCache) Put(ctx context.Context, seg *docvalues.Segment, q Query, bm *roaring.Bitmap) error {
	data, err := bm.ToBytes()
	if err != nil {
		return err
	}
	key := q.String()
	b := make([]byte, 0, binary.MaxVarintLen64+len(key)+len(data))
	b = binary.AppendUvarint(b, uint64(len(key)))
	b = append(b, key...)
	b = append(b, data...)
	qc.c.Set(ctx, cacheKey(seg, q), b)
	return nil
}

// Evict drops all entries of seg and returns how many there were.
func (qc *QueryCache) Evict(seg *docvalues.Segment) int {
	return qc.c.InvalidateSource(cache.CacheKindMatches, seg.ID())
}

// Stats returns the hit and miss counts of this cache.
func (qc *QueryCache) Stats() (hits, misses int64) {
	return qc.hits.Load(), qc.misses.Load()
}

// CachedCollect is Collect with a lookup in qc first. A nil qc disables
// caching. The returned bitmap must not be modified.
func CachedCollect(ctx context.Context, seg *docvalues.Segment, q Query, qc *QueryCache) (bm *roaring.Bitmap, hit bool, err error) {
	cacheable := qc != nil && seg.IsCacheable() && q.IsCacheable(seg)
	if cacheable {
		if bm, ok := qc.Get(ctx, seg, q); ok {
			return bm, true, nil
		}
	}
	bm, err = Collect(ctx, seg, q)
	if err != nil {
		return nil, false, err
	}
	if cacheable {
		if err := qc.Put(ctx, seg, q, bm); err != nil {
			return nil, false, err
		}
	}
	return bm, false, nil
}
