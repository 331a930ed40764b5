package search

import "sync"

// Scratch is reusable memory for a top-N collection. It owns the hit queue
// backing array so that steady-state collection does not allocate.
//
// Scratch is NOT thread-safe. It is intended to be owned by a single goroutine
// during a collection.
type Scratch struct {
	// entries backs the hit queue.
	entries []hitEntry

	// Visited counts the documents offered to the comparator.
	Visited int
}

// NewScratch creates a Scratch sized for n hits.
func NewScratch(n int) *Scratch {
	return &Scratch{entries: make([]hitEntry, 0, n)}
}

// Reset clears the scratch state for reuse without freeing memory.
func (s *Scratch) Reset() {
	s.entries = s.entries[:0]
	s.Visited = 0
}

func (s *Scratch) queue(cmp FieldComparator, n int) *hitQueue {
	if cap(s.entries) < n {
		s.entries = make([]hitEntry, 0, n)
	}
	return &hitQueue{cmp: cmp, items: s.entries[:0], size: n}
}

var scratchPool = sync.Pool{New: func() any { return NewScratch(64) }}

func getScratch() *Scratch {
	s := scratchPool.Get().(*Scratch)
	s.Reset()
	return s
}

func putScratch(s *Scratch) {
	// oversized buffers from huge pages are not worth keeping
	if cap(s.entries) > 1<<16 {
		return
	}
	scratchPool.Put(s)
}
