package docvalues

import (
	"sort"

	"github.com/hupe1980/geodv/internal/docid"
)

// BinaryDocValues iterates documents that have a binary value.
type BinaryDocValues interface {
	docid.Iterator
	// AdvanceExact positions on target and reports whether it has a value.
	// Targets must not decrease between calls.
	AdvanceExact(target int) (bool, error)
	// BinaryValue returns the value of the current document. The slice is
	// only valid until the next positioning call.
	BinaryValue() []byte
}

// SortedNumericDocValues iterates documents that have numeric values.
type SortedNumericDocValues interface {
	docid.Iterator
	// AdvanceExact positions on target and reports whether it has values.
	// Targets must not decrease between calls.
	AdvanceExact(target int) (bool, error)
	// DocValueCount returns the number of values of the current document.
	DocValueCount() int
	// NextValue returns the next value in ascending order. It must be
	// called at most DocValueCount times per document.
	NextValue() int64
}

// cursor walks a sorted doc list.
type cursor struct {
	docs []int32
	pos  int
	doc  int
}

func newCursor(docs []int32) cursor {
	return cursor{docs: docs, pos: -1, doc: -1}
}

func (c *cursor) DocID() int { return c.doc }

func (c *cursor) Cost() int64 { return int64(len(c.docs)) }

func (c *cursor) NextDoc() int {
	c.pos++
	return c.sync()
}

func (c *cursor) Advance(target int) int {
	start := c.pos + 1
	if start < 0 {
		start = 0
	}
	rest := c.docs[min(start, len(c.docs)):]
	c.pos = start + sort.Search(len(rest), func(i int) bool { return int(rest[i]) >= target })
	return c.sync()
}

func (c *cursor) sync() int {
	if c.pos >= len(c.docs) {
		c.pos = len(c.docs)
		c.doc = docid.NoMoreDocs
		return c.doc
	}
	c.doc = int(c.docs[c.pos])
	return c.doc
}

// advanceExact moves to target without passing it.
func (c *cursor) advanceExact(target int) bool {
	if c.pos >= 0 && c.pos < len(c.docs) {
		switch cur := int(c.docs[c.pos]); {
		case cur == target:
			c.doc = target
			return true
		case cur > target:
			return false
		}
	}
	start := max(c.pos+1, 0)
	rest := c.docs[min(start, len(c.docs)):]
	i := sort.Search(len(rest), func(i int) bool { return int(rest[i]) >= target })
	if i < len(rest) && int(rest[i]) == target {
		c.pos = start + i
		c.doc = target
		return true
	}
	// Park just before the next doc so NextDoc still returns it.
	c.pos = start + i - 1
	c.doc = target
	return false
}

type binaryIterator struct {
	cursor
	col *binaryColumn
	hit bool
}

func newBinaryIterator(col *binaryColumn) *binaryIterator {
	return &binaryIterator{cursor: newCursor(col.docs), col: col}
}

func (it *binaryIterator) NextDoc() int {
	it.hit = true
	return it.cursor.NextDoc()
}

func (it *binaryIterator) Advance(target int) int {
	it.hit = true
	return it.cursor.Advance(target)
}

func (it *binaryIterator) AdvanceExact(target int) (bool, error) {
	it.hit = it.advanceExact(target)
	return it.hit, nil
}

func (it *binaryIterator) BinaryValue() []byte {
	if !it.hit || it.pos < 0 || it.pos >= len(it.col.docs) {
		return nil
	}
	return it.col.value(it.pos)
}

type numericIterator struct {
	cursor
	col  *numericColumn
	vals []int64
	next int
}

func newNumericIterator(col *numericColumn) *numericIterator {
	return &numericIterator{cursor: newCursor(col.docs), col: col}
}

func (it *numericIterator) load(ok bool) {
	it.next = 0
	if !ok || it.pos < 0 || it.pos >= len(it.col.docs) {
		it.vals = nil
		return
	}
	it.vals = it.col.valuesAt(it.pos)
}

func (it *numericIterator) NextDoc() int {
	doc := it.cursor.NextDoc()
	it.load(true)
	return doc
}

func (it *numericIterator) Advance(target int) int {
	doc := it.cursor.Advance(target)
	it.load(true)
	return doc
}

func (it *numericIterator) AdvanceExact(target int) (bool, error) {
	ok := it.advanceExact(target)
	it.load(ok)
	return ok, nil
}

func (it *numericIterator) DocValueCount() int { return len(it.vals) }

func (it *numericIterator) NextValue() int64 {
	v := it.vals[it.next]
	it.next++
	return v
}

var (
	_ BinaryDocValues        = (*binaryIterator)(nil)
	_ SortedNumericDocValues = (*numericIterator)(nil)
)
