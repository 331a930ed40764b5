package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/geodv/internal/resource"
)

// LRUBlockCache is a size-bounded LRU BlockCache. Entries are additionally
// indexed by (kind, source) so dropping a blob or a segment does not scan
// the whole cache.
type LRUBlockCache struct {
	mu       sync.Mutex
	capacity int64
	size     int64
	order    *list.List // front is most recently used
	items    map[CacheKey]*list.Element
	sources  map[sourceKey]map[CacheKey]*list.Element
	rc       *resource.Controller

	hits   [numKinds]atomic.Int64
	misses [numKinds]atomic.Int64
}

type sourceKey struct {
	kind   CacheKind
	source string
}

type entry struct {
	key   CacheKey
	value []byte
}

// NewLRUBlockCache creates a new LRU cache with the given capacity in bytes.
// If rc is not nil, cached bytes are reserved from it.
func NewLRUBlockCache(capacity int64, rc *resource.Controller) *LRUBlockCache {
	return &LRUBlockCache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[CacheKey]*list.Element),
		sources:  make(map[sourceKey]map[CacheKey]*list.Element),
		rc:       rc,
	}
}

// Get returns a cached value and marks it as recently used.
func (c *LRUBlockCache) Get(_ context.Context, key CacheKey) ([]byte, bool) {
	c.mu.Lock()
	var b []byte
	el, ok := c.items[key]
	if ok {
		c.order.MoveToFront(el)
		b = el.Value.(*entry).value
	}
	c.mu.Unlock()

	if !ok {
		c.misses[key.Kind.index()].Add(1)
		return nil, false
	}
	c.hits[key.Kind.index()].Add(1)
	return b, true
}

// Set caches a value. Values larger than the capacity, or that the resource
// controller refuses, are dropped.
func (c *LRUBlockCache) Set(_ context.Context, key CacheKey, b []byte) {
	n := int64(len(b))
	if n > c.capacity {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.replace(el, b)
		return
	}

	// Evict first so the controller sees the released memory.
	c.shrinkTo(c.capacity - n)
	if !c.rc.TryAcquireMemory(n) {
		return
	}
	el := c.order.PushFront(&entry{key: key, value: b})
	c.items[key] = el
	sk := sourceKey{key.Kind, key.Source}
	m := c.sources[sk]
	if m == nil {
		m = make(map[CacheKey]*list.Element)
		c.sources[sk] = m
	}
	m[key] = el
	c.size += n
}

func (c *LRUBlockCache) replace(el *list.Element, b []byte) {
	c.order.MoveToFront(el)
	e := el.Value.(*entry)
	delta := int64(len(b)) - int64(len(e.value))
	switch {
	case delta > 0 && !c.rc.TryAcquireMemory(delta):
		return
	case delta < 0:
		c.rc.ReleaseMemory(-delta)
	}
	e.value = b
	c.size += delta
	c.shrinkTo(c.capacity)
}

func (c *LRUBlockCache) shrinkTo(limit int64) {
	for c.size > limit {
		back := c.order.Back()
		if back == nil {
			return
		}
		c.remove(back)
	}
}

func (c *LRUBlockCache) remove(el *list.Element) {
	e := c.order.Remove(el).(*entry)
	delete(c.items, e.key)
	sk := sourceKey{e.key.Kind, e.key.Source}
	if m := c.sources[sk]; m != nil {
		delete(m, e.key)
		if len(m) == 0 {
			delete(c.sources, sk)
		}
	}
	n := int64(len(e.value))
	c.size -= n
	c.rc.ReleaseMemory(n)
}

// InvalidateSource drops every entry of the given kind derived from source
// and returns how many were removed.
func (c *LRUBlockCache) InvalidateSource(kind CacheKind, source string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.sources[sourceKey{kind, source}]
	n := len(m)
	for _, el := range m {
		c.remove(el)
	}
	return n
}

// Close drops all entries and returns their memory to the controller.
func (c *LRUBlockCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.order.Len() > 0 {
		c.remove(c.order.Back())
	}
	return nil
}

// Stats returns hit and miss counts over all kinds.
func (c *LRUBlockCache) Stats() (hits, misses int64) {
	for i := range numKinds {
		hits += c.hits[i].Load()
		misses += c.misses[i].Load()
	}
	return hits, misses
}

// KindStats returns hit and miss counts of one kind.
func (c *LRUBlockCache) KindStats(kind CacheKind) (hits, misses int64) {
	return c.hits[kind.index()].Load(), c.misses[kind.index()].Load()
}

// Size returns the current size of the cache in bytes.
func (c *LRUBlockCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Len returns the number of entries.
func (c *LRUBlockCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
