package geodv

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordQuery is called after each match query. matches is the total
	// number of matching documents, err is nil if successful.
	RecordQuery(matches int, duration time.Duration, err error)

	// RecordNearest is called after each distance-sorted search.
	// n is the number of hits requested.
	RecordNearest(n int, duration time.Duration, err error)

	// RecordCache is called for every per-segment query cache lookup.
	RecordCache(hit bool)

	// RecordSegmentOpen is called after loading a segment blob of the given
	// size.
	RecordSegmentOpen(bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordQuery(int, time.Duration, error)         {}
func (NoopMetricsCollector) RecordNearest(int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordCache(bool)                              {}
func (NoopMetricsCollector) RecordSegmentOpen(int64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	QueryCount        atomic.Int64
	QueryErrors       atomic.Int64
	QueryMatches      atomic.Int64
	QueryTotalNanos   atomic.Int64
	NearestCount      atomic.Int64
	NearestErrors     atomic.Int64
	NearestTotalNanos atomic.Int64
	CacheHits         atomic.Int64
	CacheMisses       atomic.Int64
	SegmentsOpened    atomic.Int64
	SegmentOpenErrors atomic.Int64
	SegmentBytes      atomic.Int64
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(matches int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
		return
	}
	b.QueryMatches.Add(int64(matches))
}

// RecordNearest implements MetricsCollector.
func (b *BasicMetricsCollector) RecordNearest(n int, duration time.Duration, err error) {
	b.NearestCount.Add(1)
	b.NearestTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.NearestErrors.Add(1)
	}
}

// RecordCache implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCache(hit bool) {
	if hit {
		b.CacheHits.Add(1)
	} else {
		b.CacheMisses.Add(1)
	}
}

// RecordSegmentOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSegmentOpen(bytes int64, duration time.Duration, err error) {
	if err != nil {
		b.SegmentOpenErrors.Add(1)
		return
	}
	b.SegmentsOpened.Add(1)
	b.SegmentBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		QueryCount:        b.QueryCount.Load(),
		QueryErrors:       b.QueryErrors.Load(),
		QueryMatches:      b.QueryMatches.Load(),
		QueryAvgNanos:     avg(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
		NearestCount:      b.NearestCount.Load(),
		NearestErrors:     b.NearestErrors.Load(),
		NearestAvgNanos:   avg(b.NearestTotalNanos.Load(), b.NearestCount.Load()),
		CacheHits:         b.CacheHits.Load(),
		CacheMisses:       b.CacheMisses.Load(),
		SegmentsOpened:    b.SegmentsOpened.Load(),
		SegmentOpenErrors: b.SegmentOpenErrors.Load(),
		SegmentBytes:      b.SegmentBytes.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	QueryCount        int64
	QueryErrors       int64
	QueryMatches      int64
	QueryAvgNanos     int64
	NearestCount      int64
	NearestErrors     int64
	NearestAvgNanos   int64
	CacheHits         int64
	CacheMisses       int64
	SegmentsOpened    int64
	SegmentOpenErrors int64
	SegmentBytes      int64
}
