// Package docid provides forward-only document id iteration and the
// two-phase matching protocol used by doc-values queries.
//
// Iterators start unpositioned (DocID returns -1) and return NoMoreDocs once
// exhausted. Doc ids passed to Advance must be greater than the current one.
package docid

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"
)

// NoMoreDocs is returned by exhausted iterators.
const NoMoreDocs = math.MaxInt32

// Iterator walks document ids in increasing order.
type Iterator interface {
	// DocID returns the current document, -1 before the first call to
	// NextDoc or Advance, and NoMoreDocs once exhausted.
	DocID() int
	// NextDoc moves to the next document.
	NextDoc() int
	// Advance moves to the first document >= target.
	Advance(target int) int
	// Cost returns an upper bound of the number of documents.
	Cost() int64
}

// Err returns the error that stopped it, if it records one.
func Err(it Iterator) error {
	if e, ok := it.(interface{ Err() error }); ok {
		return e.Err()
	}
	return nil
}

// SlowAdvance advances by repeated NextDoc calls.
func SlowAdvance(it Iterator, target int) int {
	doc := it.DocID()
	for doc < target {
		doc = it.NextDoc()
	}
	return doc
}

type rangeIterator struct {
	doc    int
	maxDoc int
}

// All iterates over every document in [0, maxDoc).
func All(maxDoc int) Iterator {
	return &rangeIterator{doc: -1, maxDoc: maxDoc}
}

func (r *rangeIterator) DocID() int { return r.doc }

func (r *rangeIterator) NextDoc() int { return r.Advance(r.doc + 1) }

func (r *rangeIterator) Advance(target int) int {
	if target >= r.maxDoc {
		r.doc = NoMoreDocs
	} else {
		r.doc = target
	}
	return r.doc
}

func (r *rangeIterator) Cost() int64 { return int64(r.maxDoc) }

type emptyIterator struct{ doc int }

// Empty returns an iterator over no documents.
func Empty() Iterator { return &emptyIterator{doc: -1} }

func (e *emptyIterator) DocID() int { return e.doc }

func (e *emptyIterator) NextDoc() int {
	e.doc = NoMoreDocs
	return e.doc
}

func (e *emptyIterator) Advance(int) int { return e.NextDoc() }

func (e *emptyIterator) Cost() int64 { return 0 }

type bitmapIterator struct {
	it   roaring.IntPeekable
	doc  int
	cost int64
}

// BitmapIterator iterates over the documents of a roaring bitmap.
func BitmapIterator(bm *roaring.Bitmap) Iterator {
	return &bitmapIterator{it: bm.Iterator(), doc: -1, cost: int64(bm.GetCardinality())}
}

func (b *bitmapIterator) DocID() int { return b.doc }

func (b *bitmapIterator) NextDoc() int {
	if !b.it.HasNext() {
		b.doc = NoMoreDocs
		return b.doc
	}
	b.doc = int(b.it.Next())
	return b.doc
}

func (b *bitmapIterator) Advance(target int) int {
	if target >= NoMoreDocs {
		b.doc = NoMoreDocs
		return b.doc
	}
	b.it.AdvanceIfNeeded(uint32(target))
	return b.NextDoc()
}

func (b *bitmapIterator) Cost() int64 { return b.cost }

type liveIterator struct {
	in   Iterator
	live *bitset.BitSet
}

// FilterLive skips documents whose bit is clear in live. A nil set keeps
// every document.
func FilterLive(it Iterator, live *bitset.BitSet) Iterator {
	if live == nil {
		return it
	}
	return &liveIterator{in: it, live: live}
}

func (l *liveIterator) DocID() int { return l.in.DocID() }

func (l *liveIterator) NextDoc() int { return l.skip(l.in.NextDoc()) }

func (l *liveIterator) Advance(target int) int { return l.skip(l.in.Advance(target)) }

func (l *liveIterator) skip(doc int) int {
	for doc != NoMoreDocs && !l.live.Test(uint(doc)) {
		doc = l.in.NextDoc()
	}
	return doc
}

func (l *liveIterator) Cost() int64 { return l.in.Cost() }

func (l *liveIterator) Err() error { return Err(l.in) }

type conjunction struct {
	lead   Iterator
	others []Iterator
}

// Intersect iterates over documents present in every iterator.
func Intersect(its ...Iterator) Iterator {
	switch len(its) {
	case 0:
		return Empty()
	case 1:
		return its[0]
	}
	lead := 0
	for i, it := range its {
		if it.Cost() < its[lead].Cost() {
			lead = i
		}
	}
	others := make([]Iterator, 0, len(its)-1)
	for i, it := range its {
		if i != lead {
			others = append(others, it)
		}
	}
	return &conjunction{lead: its[lead], others: others}
}

func (c *conjunction) DocID() int { return c.lead.DocID() }

func (c *conjunction) NextDoc() int { return c.doNext(c.lead.NextDoc()) }

func (c *conjunction) Advance(target int) int { return c.doNext(c.lead.Advance(target)) }

func (c *conjunction) doNext(doc int) int {
advance:
	for doc != NoMoreDocs {
		for _, o := range c.others {
			next := o.DocID()
			if next < doc {
				next = o.Advance(doc)
			}
			if next > doc {
				doc = c.lead.Advance(next)
				continue advance
			}
		}
		return doc
	}
	return NoMoreDocs
}

func (c *conjunction) Cost() int64 { return c.lead.Cost() }

func (c *conjunction) Err() error {
	if err := Err(c.lead); err != nil {
		return err
	}
	for _, o := range c.others {
		if err := Err(o); err != nil {
			return err
		}
	}
	return nil
}
