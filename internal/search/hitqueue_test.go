package search

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"
)

// sliceComparator compares fixed slot values.
type sliceComparator struct {
	FieldComparator
	values []float64
}

func (c *sliceComparator) Compare(a, b int) int { return cmp.Compare(c.values[a], c.values[b]) }

func TestHitQueue_WeakestOnTop(t *testing.T) {
	c := &sliceComparator{values: []float64{3, 1, 4, 1, 5}}
	q := newHitQueue(c, 5)
	for slot := range c.values {
		q.push(hitEntry{slot: slot, doc: slot * 10})
	}
	assert.True(t, q.full())
	assert.Equal(t, 4, q.top().slot)

	var docs []int
	for q.Len() > 0 {
		docs = append(docs, q.pop().doc)
	}
	// weakest first; the tie on value 1 pops the later doc first
	assert.Equal(t, []int{40, 20, 0, 30, 10}, docs)
}

func TestHitQueue_ReplaceTop(t *testing.T) {
	c := &sliceComparator{values: []float64{2, 8, 5}}
	q := newHitQueue(c, 3)
	for slot := range c.values {
		q.push(hitEntry{slot: slot, doc: slot})
	}
	top := q.top()
	assert.Equal(t, 1, top.slot)

	c.values[top.slot] = 0
	q.replaceTop(7)
	assert.Equal(t, 2, q.top().slot)

	var docs []int
	for q.Len() > 0 {
		docs = append(docs, q.pop().doc)
	}
	assert.Equal(t, []int{2, 0, 7}, docs)
}
