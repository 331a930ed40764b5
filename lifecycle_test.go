package geodv_test

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geodv"
	"github.com/hupe1980/geodv/docvalues"
	"github.com/hupe1980/geodv/geo"
	"github.com/hupe1980/geodv/testutil"
)

func randomSegment(t *testing.T, seed int64, docs int) *docvalues.Segment {
	t.Helper()
	rng := testutil.NewRNG(seed)
	b := docvalues.NewBuilder()
	for doc := range docs {
		lat, lon := rng.LatLon()
		require.NoError(t, b.AddPoint(doc, "loc", geo.Geographic, lon, lat))
		if doc%4 == 0 {
			require.NoError(t, b.AddShape(doc, "area", geo.Geographic, rng.Polygon(lon*0.9, lat*0.9, 1, 6)))
		}
	}
	seg, err := b.Build()
	require.NoError(t, err)
	return seg
}

// TestNoGoroutineLeaks verifies that per-segment search tasks terminate when
// calls return, also on error and cancellation.
func TestNoGoroutineLeaks(t *testing.T) {
	s := geodv.New(
		geodv.WithResourceLimits(geodv.ResourceLimits{MaxConcurrentSegments: 2}),
		geodv.WithQueryCache(1<<20),
	)
	for i := range 8 {
		require.NoError(t, s.Add(randomSegment(t, int64(i), 500)))
	}

	before := runtime.NumGoroutine()

	ctx := context.Background()
	q, err := geodv.NewLatLonBoxQuery("loc", -10, 10, -10, 10)
	require.NoError(t, err)
	for range 20 {
		_, err := s.Match(ctx, q)
		require.NoError(t, err)
		_, err = s.Nearest(ctx, geodv.NearestLatLon("loc", 0, 0, 10))
		require.NoError(t, err)
	}

	bad, err := geodv.NewLatLonBoxQuery("area", -10, 10, -10, 10)
	require.NoError(t, err)
	_, err = s.Match(ctx, bad)
	require.Error(t, err)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.Match(canceled, q)
	require.ErrorIs(t, err, context.Canceled)

	require.NoError(t, s.Close())

	time.Sleep(50 * time.Millisecond)
	runtime.GC()
	after := runtime.NumGoroutine()
	assert.LessOrEqual(t, after, before+2, "goroutines leaked: before=%d after=%d", before, after)
}

// TestCloseWithActiveOperations verifies graceful shutdown during active
// searches.
func TestCloseWithActiveOperations(t *testing.T) {
	s := geodv.New()
	for i := range 4 {
		require.NoError(t, s.Add(randomSegment(t, int64(i), 2000)))
	}

	ctx := context.Background()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 100 {
			_, err := s.Nearest(ctx, geodv.NearestLatLon("loc", 10, 10, 5))
			if err != nil {
				assert.ErrorIs(t, err, geodv.ErrClosed)
				return
			}
		}
	}()

	time.Sleep(10 * time.Millisecond)
	assert.NoError(t, s.Close())
	<-done
}
