package geodv

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with geodv-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithField adds a field name to the logger.
func (l *Logger) WithField(field string) *Logger {
	return &Logger{
		Logger: l.Logger.With("field", field),
	}
}

// WithSegment adds a segment id to the logger.
func (l *Logger) WithSegment(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("segment", id),
	}
}

// LogQuery logs a match query over all segments.
func (l *Logger) LogQuery(ctx context.Context, query string, segments, matches int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"query", query,
			"segments", segments,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"query", query,
			"segments", segments,
			"matches", matches,
		)
	}
}

// LogNearest logs a distance-sorted search.
func (l *Logger) LogNearest(ctx context.Context, field string, n, hits int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "nearest failed",
			"field", field,
			"n", n,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "nearest completed",
			"field", field,
			"n", n,
			"hits", hits,
		)
	}
}

// LogSegmentOpen logs loading a segment blob.
func (l *Logger) LogSegmentOpen(ctx context.Context, name string, size int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "segment open failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "segment opened",
			"name", name,
			"bytes", size,
		)
	}
}
