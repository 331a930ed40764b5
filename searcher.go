package geodv

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/geodv/blobstore"
	"github.com/hupe1980/geodv/docvalues"
	"github.com/hupe1980/geodv/geo"
	"github.com/hupe1980/geodv/internal/cache"
	"github.com/hupe1980/geodv/internal/docid"
	"github.com/hupe1980/geodv/internal/search"
)

type segmentEntry struct {
	seg *docvalues.Segment
	// mem is the memory reserved for seg from the resource controller.
	mem int64
}

// Searcher runs spatial queries over a set of immutable segments. Every
// segment is searched by its own task; results are merged in segment order.
//
// Searcher is safe for concurrent use.
type Searcher struct {
	opts  options
	cache cache.BlockCache
	qc    *search.QueryCache

	mu       sync.RWMutex
	segments []segmentEntry
	closed   bool
}

// New returns a Searcher without segments.
func New(optFns ...Option) *Searcher {
	s := &Searcher{opts: applyOptions(optFns)}
	if s.opts.queryCacheBytes > 0 {
		s.cache = cache.NewShardedLRUBlockCache(s.opts.queryCacheBytes, s.opts.rc)
		s.qc = search.NewQueryCache(s.cache)
	}
	return s
}

// Add registers in-memory segments.
func (s *Searcher) Add(segs ...*docvalues.Segment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for _, seg := range segs {
		s.segments = append(s.segments, segmentEntry{seg: seg})
	}
	return nil
}

// OpenSegments loads the named segment blobs from store and registers them
// in the order given. Loads run concurrently and reserve the blob size from
// the memory limit; the IO limit throttles reads.
func (s *Searcher) OpenSegments(ctx context.Context, store blobstore.BlobStore, names ...string) error {
	var opts []docvalues.Option
	if s.opts.rc != nil {
		opts = append(opts, docvalues.WithIOLimiter(s.opts.rc))
	}

	loaded := make([]segmentEntry, len(names))
	err := s.fanOut(ctx, len(names), func(ctx context.Context, i int) error {
		start := time.Now()
		seg, err := docvalues.Open(ctx, store, names[i], opts...)
		if err == nil {
			err = s.opts.rc.AcquireMemory(ctx, seg.Size())
		}
		err = translateError(err)
		s.opts.logger.LogSegmentOpen(ctx, names[i], sizeOf(seg), err)
		s.opts.metricsCollector.RecordSegmentOpen(sizeOf(seg), time.Since(start), err)
		if err != nil {
			return err
		}
		loaded[i] = segmentEntry{seg: seg, mem: seg.Size()}
		return nil
	})
	if err != nil {
		for _, e := range loaded {
			s.opts.rc.ReleaseMemory(e.mem)
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		for _, e := range loaded {
			s.opts.rc.ReleaseMemory(e.mem)
		}
		return ErrClosed
	}
	s.segments = append(s.segments, loaded...)
	return nil
}

func sizeOf(seg *docvalues.Segment) int64 {
	if seg == nil {
		return 0
	}
	return seg.Size()
}

// SaveSegment writes seg to store as name using the configured codec and
// IO limit.
func (s *Searcher) SaveSegment(ctx context.Context, store blobstore.BlobStore, name string, seg *docvalues.Segment, compression docvalues.Compression) (int64, error) {
	opts := []docvalues.Option{docvalues.WithCodec(s.opts.codec), docvalues.WithCompression(compression)}
	if s.opts.rc != nil {
		opts = append(opts, docvalues.WithIOLimiter(s.opts.rc))
	}
	n, err := docvalues.Save(ctx, store, name, seg, opts...)
	return n, translateError(err)
}

// Remove unregisters the segment with the given id and drops its cached
// match sets. It reports whether the segment was found.
func (s *Searcher) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.segments, func(e segmentEntry) bool { return e.seg.ID() == id })
	if i < 0 {
		return false
	}
	e := s.segments[i]
	s.segments = slices.Delete(s.segments, i, i+1)
	s.opts.rc.ReleaseMemory(e.mem)
	if s.qc != nil {
		s.qc.Evict(e.seg)
	}
	return true
}

// Segments returns the registered segments in search order.
func (s *Searcher) Segments() []*docvalues.Segment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*docvalues.Segment, len(s.segments))
	for i, e := range s.segments {
		out[i] = e.seg
	}
	return out
}

// Close releases all segments and the query cache.
func (s *Searcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for _, e := range s.segments {
		s.opts.rc.ReleaseMemory(e.mem)
	}
	s.segments = nil
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

func (s *Searcher) snapshot() ([]*docvalues.Segment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make([]*docvalues.Segment, len(s.segments))
	for i, e := range s.segments {
		out[i] = e.seg
	}
	return out, nil
}

// fanOut runs fn for 0..n-1, each in its own goroutine holding a worker slot
// of the resource controller. Without a controller it runs GOMAXPROCS tasks
// at a time. The first error cancels the others.
func (s *Searcher) fanOut(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if s.opts.rc == nil {
		g.SetLimit(runtime.GOMAXPROCS(0))
	}
	for i := range n {
		if err := s.opts.rc.AcquireWorker(gctx); err != nil {
			if werr := g.Wait(); werr != nil {
				return werr
			}
			return err
		}
		g.Go(func() error {
			defer s.opts.rc.ReleaseWorker()
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

// collect returns the live matches of q on seg, through the query cache
// when enabled.
func (s *Searcher) collect(ctx context.Context, seg *docvalues.Segment, q Query) (*roaring.Bitmap, error) {
	bm, hit, err := search.CachedCollect(ctx, seg, q, s.qc)
	if err != nil {
		return nil, err
	}
	if s.qc != nil && seg.IsCacheable() && q.IsCacheable(seg) {
		s.opts.metricsCollector.RecordCache(hit)
	}
	return bm, nil
}

// SegmentMatches holds the matching documents of one segment.
type SegmentMatches struct {
	Segment string
	// Docs must not be modified; it may be shared with the query cache.
	Docs *roaring.Bitmap
}

// MatchResult holds the matches of a query per segment, in search order.
type MatchResult struct {
	Segments []SegmentMatches
}

// Count returns the total number of matching documents.
func (r *MatchResult) Count() int {
	var n uint64
	for _, m := range r.Segments {
		n += m.Docs.GetCardinality()
	}
	return int(n)
}

// Docs returns the matches of the segment with the given id, nil if the
// segment is unknown.
func (r *MatchResult) Docs(segment string) *roaring.Bitmap {
	for _, m := range r.Segments {
		if m.Segment == segment {
			return m.Docs
		}
	}
	return nil
}

// Match returns the live documents of every segment matching q.
func (s *Searcher) Match(ctx context.Context, q Query) (_ *MatchResult, err error) {
	start := time.Now()
	segs, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	res := &MatchResult{Segments: make([]SegmentMatches, len(segs))}
	defer func() {
		count := 0
		if err == nil {
			count = res.Count()
		}
		s.opts.logger.LogQuery(ctx, q.String(), len(segs), count, err)
		s.opts.metricsCollector.RecordQuery(count, time.Since(start), err)
	}()

	err = s.fanOut(ctx, len(segs), func(ctx context.Context, i int) error {
		bm, err := s.collect(ctx, segs[i], q)
		if err != nil {
			return fmt.Errorf("segment %s: %w", segs[i].ID(), err)
		}
		res.Segments[i] = SegmentMatches{Segment: segs[i].ID(), Docs: bm}
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	return res, nil
}

// Count returns the number of live documents matching q.
func (s *Searcher) Count(ctx context.Context, q Query) (int, error) {
	res, err := s.Match(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.Count(), nil
}

// Hit is a document sorted by distance.
type Hit struct {
	Segment string
	Doc     int
	// Distance is in meters for geographic fields. Documents without a
	// value never become hits.
	Distance float64
}

// NearestRequest describes a distance-sorted search.
type NearestRequest struct {
	// Field is a point field of the given Kind.
	Field string
	Kind  geo.Kind
	// Origin is (lon, lat) for geographic fields.
	Origin geo.Point
	// N is the page size.
	N int
	// Filter, if set, restricts the candidates.
	Filter Query
	// After is the last hit of the previous page.
	After *Hit
}

// NearestLatLon returns a request for the n documents of a geographic
// point field closest to (lat, lon).
func NearestLatLon(field string, lat, lon float64, n int) NearestRequest {
	return NearestRequest{Field: field, Kind: geo.KindGeographic, Origin: geo.Point{X: lon, Y: lat}, N: n}
}

// NearestXY returns a request for the n documents of a cartesian point
// field closest to (x, y).
func NearestXY(field string, x, y float64, n int) NearestRequest {
	return NearestRequest{Field: field, Kind: geo.KindCartesian, Origin: geo.Point{X: x, Y: y}, N: n}
}

func (r NearestRequest) comparator() (*search.DistanceComparator, error) {
	switch r.Kind {
	case geo.KindGeographic:
		return search.NewLatLonDistanceComparator(r.Field, r.Origin.Y, r.Origin.X, r.N)
	case geo.KindCartesian:
		return search.NewXYDistanceComparator(r.Field, r.Origin.X, r.Origin.Y, r.N)
	default:
		return nil, fmt.Errorf("%w: unknown coordinate kind %s", ErrInvalidArgument, r.Kind)
	}
}

// Nearest returns the live documents with a value in req.Field closest to
// req.Origin, best first. Ties on distance sort by segment order, then by
// document id.
func (s *Searcher) Nearest(ctx context.Context, req NearestRequest) (hits []Hit, err error) {
	start := time.Now()
	defer func() {
		s.opts.logger.LogNearest(ctx, req.Field, req.N, len(hits), err)
		s.opts.metricsCollector.RecordNearest(req.N, time.Since(start), err)
	}()

	if req.N <= 0 {
		return nil, fmt.Errorf("%w: n must be positive, got %d", ErrInvalidArgument, req.N)
	}
	if _, err := req.comparator(); err != nil {
		return nil, translateError(err)
	}
	segs, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	afterSeg := -1
	if req.After != nil {
		afterSeg = slices.IndexFunc(segs, func(seg *docvalues.Segment) bool { return seg.ID() == req.After.Segment })
		if afterSeg < 0 {
			return nil, fmt.Errorf("%w: unknown segment %q in after", ErrInvalidArgument, req.After.Segment)
		}
	}

	perSeg := make([][]Hit, len(segs))
	err = s.fanOut(ctx, len(segs), func(ctx context.Context, i int) error {
		h, err := s.nearestInSegment(ctx, segs[i], req, afterDoc(req.After, i, afterSeg))
		if err != nil {
			return fmt.Errorf("segment %s: %w", segs[i].ID(), err)
		}
		perSeg[i] = h
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}

	type ranked struct {
		Hit
		seg int
	}
	var all []ranked
	for i, h := range perSeg {
		for _, hit := range h {
			all = append(all, ranked{Hit: hit, seg: i})
		}
	}
	slices.SortFunc(all, func(a, b ranked) int {
		return cmp.Or(
			cmp.Compare(a.Distance, b.Distance),
			cmp.Compare(a.seg, b.seg),
			cmp.Compare(a.Doc, b.Doc),
		)
	})
	hits = make([]Hit, 0, min(req.N, len(all)))
	for _, r := range all[:min(req.N, len(all))] {
		hits = append(hits, r.Hit)
	}
	return hits, nil
}

// afterDoc translates a global search-after position into the per-segment
// one. Segments before the after segment have already returned all hits
// tied with it, later segments none.
func afterDoc(after *Hit, seg, afterSeg int) *search.After {
	if after == nil {
		return nil
	}
	doc := after.Doc
	switch {
	case seg < afterSeg:
		doc = math.MaxInt
	case seg > afterSeg:
		doc = -1
	}
	return &search.After{Value: after.Distance, Doc: doc}
}

func (s *Searcher) nearestInSegment(ctx context.Context, seg *docvalues.Segment, req NearestRequest, after *search.After) ([]Hit, error) {
	c, err := req.comparator()
	if err != nil {
		return nil, err
	}
	values, err := seg.SortedNumeric(req.Field)
	if err != nil {
		return nil, err
	}
	it := seg.LiveIterator(values)
	if req.Filter != nil {
		bm, err := s.collect(ctx, seg, req.Filter)
		if err != nil {
			return nil, err
		}
		it = docid.Intersect(it, docid.BitmapIterator(bm))
	}

	found, err := search.TopN(ctx, seg, it, c, req.N, after)
	if err != nil {
		return nil, err
	}
	hits := make([]Hit, len(found))
	for i, h := range found {
		hits[i] = Hit{Segment: seg.ID(), Doc: h.Doc, Distance: h.Value}
	}
	return hits, nil
}
