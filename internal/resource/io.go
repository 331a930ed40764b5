package resource

import (
	"context"
	"errors"
	"io"
)

// IOLimiter throttles byte transfers.
type IOLimiter interface {
	AcquireIO(ctx context.Context, bytes int) error
}

// RateLimitedReader charges every read against an IOLimiter.
type RateLimitedReader struct {
	ctx context.Context
	r   io.Reader
	l   IOLimiter
}

// NewRateLimitedReader wraps r. A nil limiter disables throttling.
func NewRateLimitedReader(ctx context.Context, r io.Reader, l IOLimiter) *RateLimitedReader {
	return &RateLimitedReader{ctx: ctx, r: r, l: l}
}

func (r *RateLimitedReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := r.r.Read(p)
	if n > 0 && r.l != nil {
		if werr := r.l.AcquireIO(r.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

// RateLimitedWriter charges every write against an IOLimiter before passing
// it on.
type RateLimitedWriter struct {
	ctx context.Context
	w   io.Writer
	l   IOLimiter
}

// NewRateLimitedWriter wraps w. A nil limiter disables throttling.
func NewRateLimitedWriter(ctx context.Context, w io.Writer, l IOLimiter) *RateLimitedWriter {
	return &RateLimitedWriter{ctx: ctx, w: w, l: l}
}

func (w *RateLimitedWriter) Write(p []byte) (int, error) {
	if err := w.ctx.Err(); err != nil {
		return 0, err
	}
	if w.l != nil {
		if err := w.l.AcquireIO(w.ctx, len(p)); err != nil {
			return 0, err
		}
	}
	return w.w.Write(p)
}

// Seek forwards to the underlying writer if it supports seeking.
func (w *RateLimitedWriter) Seek(offset int64, whence int) (int64, error) {
	s, ok := w.w.(io.Seeker)
	if !ok {
		return 0, errors.New("underlying writer does not support seeking")
	}
	return s.Seek(offset, whence)
}
