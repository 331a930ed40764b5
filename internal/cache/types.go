package cache

import "context"

// CacheKind separates key spaces.
type CacheKind uint8

const (
	CacheKindUnknown CacheKind = iota
	CacheKindBlob              // fixed-size blocks of a stored blob
	CacheKindMatches           // serialized per-segment match sets of a query

	numKinds = int(CacheKindMatches) + 1
)

func (k CacheKind) index() int {
	if int(k) >= numKinds {
		return int(CacheKindUnknown)
	}
	return int(k)
}

func (k CacheKind) String() string {
	switch k {
	case CacheKindBlob:
		return "blob"
	case CacheKindMatches:
		return "matches"
	default:
		return "unknown"
	}
}

// CacheKey identifies one cached value.
type CacheKey struct {
	Kind CacheKind
	// Source is the blob name or segment id the value derives from.
	Source string
	// Offset is a block index or a query hash.
	Offset uint64
}

// BlockCache is a byte-oriented cache for immutable values.
// Returned slices must be treated as read-only.
type BlockCache interface {
	// Get returns a cached block. ok=false if missing.
	Get(ctx context.Context, key CacheKey) (b []byte, ok bool)
	// Set caches a block. The cache retains b; callers must not modify it.
	Set(ctx context.Context, key CacheKey, b []byte)
	// InvalidateSource removes every entry of kind derived from source.
	InvalidateSource(kind CacheKind, source string) int
	// Close releases any resources.
	Close() error
	// KindStats returns the hit and miss counts of one kind.
	KindStats(kind CacheKind) (hits, misses int64)
}
