package search

import (
	"context"
	"fmt"

	"github.com/hupe1980/geodv/docvalues"
	"github.com/hupe1980/geodv/internal/docid"
)

// CheckInterval is the number of documents between context checks.
const CheckInterval = 1024

// Hit is a sorted document of one segment.
type Hit struct {
	Doc   int
	Value float64
}

// After is the last hit of a previous page. Documents sorting before or at
// it are skipped; Doc breaks ties on Value.
type After struct {
	Value float64
	Doc   int
}

// TopN collects the n best documents of it (already restricted to live
// documents by the caller) according to c, best first.
func TopN(ctx context.Context, seg *docvalues.Segment, it docid.Iterator, c FieldComparator, n int, after *After) ([]Hit, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: n must be positive, got %d", ErrInvalidArgument, n)
	}
	if err := c.SetNextSegment(seg); err != nil {
		return nil, err
	}
	if after != nil {
		c.SetTopValue(after.Value)
	}

	scratch := getScratch()
	defer putScratch(scratch)
	return topN(ctx, it, c, n, after, scratch)
}

// TopNScratch is TopN with caller-owned scratch memory, for loops that
// collect many segments on one goroutine.
func TopNScratch(ctx context.Context, seg *docvalues.Segment, it docid.Iterator, c FieldComparator, n int, after *After, scratch *Scratch) ([]Hit, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: n must be positive, got %d", ErrInvalidArgument, n)
	}
	if err := c.SetNextSegment(seg); err != nil {
		return nil, err
	}
	if after != nil {
		c.SetTopValue(after.Value)
	}
	scratch.Reset()
	return topN(ctx, it, c, n, after, scratch)
}

func topN(ctx context.Context, it docid.Iterator, c FieldComparator, n int, after *After, scratch *Scratch) ([]Hit, error) {
	q := scratch.queue(c, n)
	for doc := it.NextDoc(); doc != docid.NoMoreDocs; doc = it.NextDoc() {
		if scratch.Visited++; scratch.Visited%CheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if after != nil {
			top, err := c.CompareTop(doc)
			if err != nil {
				return nil, err
			}
			if top > 0 || (top == 0 && doc <= after.Doc) {
				continue
			}
		}

		if q.full() {
			// docs arrive in order, so a tie with the bottom loses
			bottom, err := c.CompareBottom(doc)
			if err != nil {
				return nil, err
			}
			if bottom <= 0 {
				continue
			}
			if err := c.Copy(q.top().slot, doc); err != nil {
				return nil, err
			}
			q.replaceTop(doc)
			c.SetBottom(q.top().slot)
			continue
		}

		slot := q.Len()
		if err := c.Copy(slot, doc); err != nil {
			return nil, err
		}
		q.push(hitEntry{slot: slot, doc: doc})
		if q.full() {
			c.SetBottom(q.top().slot)
		}
	}
	if err := docid.Err(it); err != nil {
		return nil, err
	}

	hits := make([]Hit, q.Len())
	for i := len(hits) - 1; i >= 0; i-- {
		e := q.pop()
		hits[i] = Hit{Doc: e.doc, Value: c.Value(e.slot)}
	}
	return hits, nil
}
