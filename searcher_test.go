package geodv

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geodv/blobstore"
	"github.com/hupe1980/geodv/docvalues"
	"github.com/hupe1980/geodv/geo"
	"github.com/hupe1980/geodv/testutil"
)

// cities are (lon, lat).
var cities = []geo.Point{
	{X: 13.405, Y: 52.52},    // berlin
	{X: 2.3522, Y: 48.8566},  // paris
	{X: -0.1276, Y: 51.5072}, // london
	{X: 12.4964, Y: 41.9028}, // rome
	{X: -3.7038, Y: 40.4168}, // madrid
	{X: 16.3738, Y: 48.2082}, // vienna
}

// citySegments splits cities over two segments; every doc also gets a
// 1x1 degree square around its city in "area".
func citySegments(t *testing.T) []*docvalues.Segment {
	t.Helper()
	var segs []*docvalues.Segment
	for part := range 2 {
		b := docvalues.NewBuilder()
		for i := part * 3; i < part*3+3; i++ {
			doc := i - part*3
			c := cities[i]
			require.NoError(t, b.AddPoint(doc, "loc", geo.Geographic, c.X, c.Y))
			require.NoError(t, b.AddShape(doc, "area", geo.Geographic, testutil.Square(c.X-0.5, c.Y-0.5, 1)))
			require.NoError(t, b.AddLong(doc, "city", int64(i)))
		}
		seg, err := b.Build()
		require.NoError(t, err)
		segs = append(segs, seg)
	}
	return segs
}

func newCitySearcher(t *testing.T, opts ...Option) *Searcher {
	t.Helper()
	s := New(opts...)
	require.NoError(t, s.Add(citySegments(t)...))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSearcher_Match(t *testing.T) {
	ctx := context.Background()
	s := newCitySearcher(t)

	// central europe box: berlin, paris, vienna
	box, err := geo.NewLatLonBox(45, 55, 0, 20)
	require.NoError(t, err)

	q, err := NewShapeQuery("area", geo.Geographic, Within, box)
	require.NoError(t, err)
	res, err := s.Match(ctx, q)
	require.NoError(t, err)
	require.Len(t, res.Segments, 2)
	assert.Equal(t, 3, res.Count())
	assert.Equal(t, []uint32{0, 1}, res.Segments[0].Docs.ToArray())
	assert.Equal(t, []uint32{2}, res.Segments[1].Docs.ToArray())
	assert.Equal(t, res.Segments[1].Docs, res.Docs(s.Segments()[1].ID()))
	assert.Nil(t, res.Docs("unknown"))

	// london's square straddles the box edge
	q, err = NewShapeQuery("area", geo.Geographic, Disjoint, box)
	require.NoError(t, err)
	n, err := s.Count(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	q, err = NewLatLonBoxQuery("loc", 45, 55, 0, 20)
	require.NoError(t, err)
	n, err = s.Count(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	q, err = NewSortedNumericSetQuery("city", 0, 5)
	require.NoError(t, err)
	n, err = s.Count(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSearcher_Errors(t *testing.T) {
	ctx := context.Background()
	s := newCitySearcher(t)
	box, err := geo.NewBox(0, 1, 0, 1)
	require.NoError(t, err)

	_, err = NewShapeQuery("area", geo.Geographic, Contains, box)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = NewLatLonBoxQuery("loc", 0, 100, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	q, err := NewShapeQuery("loc", geo.Geographic, Intersects, box)
	require.NoError(t, err)
	_, err = s.Match(ctx, q)
	require.ErrorIs(t, err, ErrInvalidArgument)
	var fke *ErrFieldKind
	require.ErrorAs(t, err, &fke)
	assert.Equal(t, "loc", fke.Field)

	_, err = s.Nearest(ctx, NearestLatLon("area", 0, 0, 1))
	assert.ErrorAs(t, err, &fke)

	_, err = s.Nearest(ctx, NearestLatLon("loc", 0, 0, 0))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.Nearest(ctx, NearestRequest{Field: "loc", N: 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.Nearest(ctx, NearestLatLon("loc", 95, 0, 1))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.Nearest(ctx, NearestRequest{
		Field: "loc", Kind: geo.KindGeographic, N: 1,
		After: &Hit{Segment: "nope"},
	})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = ParseRelation("touches")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSearcher_Nearest(t *testing.T) {
	ctx := context.Background()
	s := newCitySearcher(t)

	// from munich: vienna, berlin, paris, rome, london, madrid
	hits, err := s.Nearest(ctx, NearestLatLon("loc", 48.1351, 11.582, 4))
	require.NoError(t, err)
	require.Len(t, hits, 4)

	segs := s.Segments()
	assert.Equal(t, Hit{Segment: segs[1].ID(), Doc: 2, Distance: hits[0].Distance}, hits[0])
	assert.Equal(t, segs[0].ID(), hits[1].Segment)
	assert.Equal(t, 0, hits[1].Doc)
	assert.Equal(t, segs[0].ID(), hits[2].Segment)
	assert.Equal(t, 1, hits[2].Doc)
	assert.Equal(t, segs[1].ID(), hits[3].Segment)
	assert.Equal(t, 0, hits[3].Doc)

	// vienna is ~355km from munich
	assert.InDelta(t, 355_000, hits[0].Distance, 10_000)
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].Distance, hits[i].Distance)
	}
}

func TestSearcher_NearestFilter(t *testing.T) {
	ctx := context.Background()
	s := newCitySearcher(t)

	filter, err := NewSortedNumericSetQuery("city", 2, 4)
	require.NoError(t, err)
	req := NearestLatLon("loc", 48.1351, 11.582, 10)
	req.Filter = filter

	hits, err := s.Nearest(ctx, req)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	// london before madrid
	assert.Equal(t, 2, hits[0].Doc)
	assert.Equal(t, 1, hits[1].Doc)
}

func TestSearcher_NearestPaging(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(17)

	s := New()
	t.Cleanup(func() { _ = s.Close() })
	for range 3 {
		b := docvalues.NewBuilder()
		for doc := range 200 {
			lat, lon := rng.LatLonNear(0, 179, 3)
			require.NoError(t, b.AddPoint(doc, "loc", geo.Geographic, lon, lat))
		}
		// exact ties across segments
		require.NoError(t, b.AddPoint(200, "loc", geo.Geographic, 179, 0.5))
		seg, err := b.Build()
		require.NoError(t, err)
		require.NoError(t, s.Add(seg))
	}

	all, err := s.Nearest(ctx, NearestLatLon("loc", 0, 179, 60))
	require.NoError(t, err)
	require.Len(t, all, 60)

	var paged []Hit
	req := NearestLatLon("loc", 0, 179, 7)
	for len(paged) < 60 {
		page, err := s.Nearest(ctx, req)
		require.NoError(t, err)
		require.NotEmpty(t, page)
		paged = append(paged, page...)
		last := page[len(page)-1]
		req.After = &last
	}
	assert.Equal(t, all, paged[:60])
}

func TestSearcher_NearestXY(t *testing.T) {
	ctx := context.Background()
	b := docvalues.NewBuilder()
	require.NoError(t, b.AddPoint(0, "xy", geo.Cartesian, 3, 4))
	require.NoError(t, b.AddPoint(1, "xy", geo.Cartesian, 1, 1))
	require.NoError(t, b.AddPoint(2, "xy", geo.Cartesian, 6, 8))
	require.NoError(t, b.Delete(1))
	seg, err := b.Build()
	require.NoError(t, err)

	s := New()
	require.NoError(t, s.Add(seg))
	hits, err := s.Nearest(ctx, NearestXY("xy", 0, 0, 5))
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 0, hits[0].Doc)
	assert.InDelta(t, 5, hits[0].Distance, 1e-9)
	assert.Equal(t, 2, hits[1].Doc)
	assert.InDelta(t, 10, hits[1].Distance, 1e-9)
	assert.False(t, math.IsInf(hits[1].Distance, 0))
}

func TestSearcher_QueryCache(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}
	s := newCitySearcher(t, WithQueryCache(1<<20), WithMetricsCollector(metrics))

	q, err := NewLatLonBoxQuery("loc", 45, 55, 0, 20)
	require.NoError(t, err)
	for range 3 {
		n, err := s.Count(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	}

	stats := metrics.GetStats()
	assert.Equal(t, int64(3), stats.QueryCount)
	assert.Equal(t, int64(9), stats.QueryMatches)
	assert.Equal(t, int64(2), stats.CacheMisses)
	assert.Equal(t, int64(4), stats.CacheHits)

	id := s.Segments()[0].ID()
	assert.True(t, s.Remove(id))
	assert.False(t, s.Remove(id))
	n, err := s.Count(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSearcher_SaveOpen(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}
	rc := NewResourceController(ResourceLimits{MaxConcurrentSegments: 2, MemoryLimitBytes: 1 << 20})

	for _, store := range map[string]blobstore.BlobStore{
		"memory": blobstore.NewMemoryStore(),
		"local":  blobstore.NewLocalStore(t.TempDir()),
	} {
		s := New(WithMetricsCollector(metrics), WithResourceController(rc))
		segs := citySegments(t)
		_, err := s.SaveSegment(ctx, store, "a", segs[0], docvalues.CompressionZSTD)
		require.NoError(t, err)
		_, err = s.SaveSegment(ctx, store, "b", segs[1], docvalues.CompressionLZ4)
		require.NoError(t, err)

		require.NoError(t, s.OpenSegments(ctx, store, "a", "b"))
		require.Len(t, s.Segments(), 2)
		assert.Equal(t, segs[0].ID(), s.Segments()[0].ID())
		assert.Positive(t, rc.MemoryUsage())

		hits, err := s.Nearest(ctx, NearestLatLon("loc", 48.1351, 11.582, 1))
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, 2, hits[0].Doc)

		err = s.OpenSegments(ctx, store, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.Close())
		assert.Zero(t, rc.MemoryUsage())
	}

	stats := metrics.GetStats()
	assert.Equal(t, int64(4), stats.SegmentsOpened)
	assert.Equal(t, int64(2), stats.SegmentOpenErrors)
	assert.Positive(t, stats.SegmentBytes)
}

func TestSearcher_Closed(t *testing.T) {
	ctx := context.Background()
	s := newCitySearcher(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	q, err := NewSortedNumericSetQuery("city", 1)
	require.NoError(t, err)
	_, err = s.Match(ctx, q)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Nearest(ctx, NearestLatLon("loc", 0, 0, 1))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Add(citySegments(t)...), ErrClosed)
}

func TestSearcher_Canceled(t *testing.T) {
	s := newCitySearcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q, err := NewSortedNumericSetQuery("city", 1)
	require.NoError(t, err)
	_, err = s.Match(ctx, q)
	assert.ErrorIs(t, err, context.Canceled)
}
