package search

import "github.com/hupe1980/geodv/docvalues"

// FieldComparator compares documents of one segment for a top-N sort. The
// sort keeps candidates in numbered slots; the comparator remembers the
// sort value of every slot.
//
// Documents passed to CompareBottom, Copy and CompareTop must not decrease
// within a segment.
type FieldComparator interface {
	// SetNextSegment switches to seg. Slots keep their values.
	SetNextSegment(seg *docvalues.Segment) error
	// SetBottom marks slot as the weakest competitive candidate.
	SetBottom(slot int)
	// CompareBottom compares the bottom with doc: positive when doc sorts
	// before the bottom.
	CompareBottom(doc int) (int, error)
	// Copy stores the sort value of doc in slot.
	Copy(slot, doc int) error
	// Compare compares two slots.
	Compare(a, b int) int
	// SetTopValue sets the value of the last hit of a previous page.
	SetTopValue(v float64)
	// CompareTop compares the top value with doc: positive when doc sorts
	// before the top value.
	CompareTop(doc int) (int, error)
	// Value returns the external value of slot.
	Value(slot int) float64
}
