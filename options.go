package geodv

import (
	"log/slog"

	"github.com/hupe1980/geodv/codec"
	"github.com/hupe1980/geodv/internal/resource"
)

// ResourceLimits bounds concurrency, memory and IO of a Searcher.
type ResourceLimits = resource.Config

// ResourceController enforces ResourceLimits. One controller may be shared
// by several searchers.
type ResourceController = resource.Controller

// NewResourceController returns a controller enforcing limits.
func NewResourceController(limits ResourceLimits) *ResourceController {
	return resource.NewController(limits)
}

type options struct {
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
	rc               *resource.Controller
	queryCacheBytes  int64
}

// Option configures a Searcher.
type Option func(*options)

// WithCodec configures the codec used for segment catalogs written by
// Searcher.SaveSegment. Reading detects the codec from the blob header.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &geodv.BasicMetricsCollector{}
//	s := geodv.New(geodv.WithMetricsCollector(metrics))
//	// ... use s ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.QueryCount, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := geodv.NewJSONLogger(slog.LevelInfo)
//	s := geodv.New(geodv.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController bounds the number of segments processed at once,
// the memory held by loaded segments and cached match sets, and the IO rate
// of segment loads.
func WithResourceController(rc *ResourceController) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithResourceLimits is WithResourceController(NewResourceController(limits)).
func WithResourceLimits(limits ResourceLimits) Option {
	return func(o *options) {
		o.rc = resource.NewController(limits)
	}
}

// WithQueryCache enables caching of per-segment match sets in a sharded LRU
// of the given capacity in bytes. 0 disables caching.
func WithQueryCache(capacityBytes int64) Option {
	return func(o *options) {
		o.queryCacheBytes = capacityBytes
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
