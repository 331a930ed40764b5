package search

// hitEntry is a candidate document and the comparator slot holding its
// sort value.
type hitEntry struct {
	slot int
	doc  int
}

// hitQueue is a bounded max-heap of candidates ordered by a comparator: the
// top is the weakest candidate. Ties sort by ascending doc id, so the later
// document is the weaker one. It does not implement container/heap to
// avoid interface overhead.
type hitQueue struct {
	cmp   FieldComparator
	items []hitEntry
	size  int
}

func newHitQueue(cmp FieldComparator, size int) *hitQueue {
	return &hitQueue{cmp: cmp, items: make([]hitEntry, 0, size), size: size}
}

func (q *hitQueue) Len() int { return len(q.items) }

func (q *hitQueue) full() bool { return len(q.items) == q.size }

// weaker reports whether items[i] sorts after items[j].
func (q *hitQueue) weaker(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if c := q.cmp.Compare(a.slot, b.slot); c != 0 {
		return c > 0
	}
	return a.doc > b.doc
}

// top returns the weakest candidate.
func (q *hitQueue) top() hitEntry { return q.items[0] }

func (q *hitQueue) push(e hitEntry) {
	q.items = append(q.items, e)
	q.siftUp(len(q.items) - 1)
}

// replaceTop sets the doc of the top entry, whose slot was rewritten, and
// restores the heap.
func (q *hitQueue) replaceTop(doc int) {
	q.items[0].doc = doc
	q.siftDown(0)
}

func (q *hitQueue) pop() hitEntry {
	n := len(q.items)
	e := q.items[0]
	q.items[0] = q.items[n-1]
	q.items = q.items[:n-1]
	if len(q.items) > 0 {
		q.siftDown(0)
	}
	return e
}

func (q *hitQueue) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.weaker(i, parent) {
			break
		}
		q.items[i], q.items[parent] = q.items[parent], q.items[i]
		i = parent
	}
}

func (q *hitQueue) siftDown(i int) {
	n := len(q.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		j := left
		if right := left + 1; right < n && q.weaker(right, left) {
			j = right
		}
		if !q.weaker(j, i) {
			break
		}
		q.items[i], q.items[j] = q.items[j], q.items[i]
		i = j
	}
}
