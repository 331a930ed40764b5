package cache

import (
	"context"

	"github.com/hupe1980/geodv/internal/hash"
	"github.com/hupe1980/geodv/internal/resource"
)

const numShards = 64

// ShardedLRUBlockCache distributes entries across 64 LRU shards.
type ShardedLRUBlockCache struct {
	shards [numShards]*LRUBlockCache
}

// NewShardedLRUBlockCache creates a new sharded LRU cache.
// The capacity is divided evenly across all shards.
func NewShardedLRUBlockCache(capacity int64, rc *resource.Controller) *ShardedLRUBlockCache {
	shardCapacity := max(capacity/numShards, 1)

	s := &ShardedLRUBlockCache{}
	for i := range numShards {
		s.shards[i] = NewLRUBlockCache(shardCapacity, rc)
	}
	return s
}

func (s *ShardedLRUBlockCache) shard(key CacheKey) *LRUBlockCache {
	h := hash.NewKey64().Uint64(uint64(key.Kind)).String(key.Source).Uint64(key.Offset).Sum()
	return s.shards[h%numShards]
}

// Get returns a cached block.
func (s *ShardedLRUBlockCache) Get(ctx context.Context, key CacheKey) ([]byte, bool) {
	return s.shard(key).Get(ctx, key)
}

// Set caches a block.
func (s *ShardedLRUBlockCache) Set(ctx context.Context, key CacheKey, b []byte) {
	s.shard(key).Set(ctx, key, b)
}

// InvalidateSource removes the entries of source from every shard. Blocks
// of one source are spread over all shards.
func (s *ShardedLRUBlockCache) InvalidateSource(kind CacheKind, source string) int {
	n := 0
	for _, shard := range s.shards {
		n += shard.InvalidateSource(kind, source)
	}
	return n
}

// Close closes all shards.
func (s *ShardedLRUBlockCache) Close() error {
	for _, shard := range s.shards {
		if err := shard.Close(); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns aggregated hit/miss statistics.
func (s *ShardedLRUBlockCache) Stats() (hits, misses int64) {
	for _, shard := range s.shards {
		h, m := shard.Stats()
		hits += h
		misses += m
	}
	return hits, misses
}

// KindStats returns aggregated hit/miss statistics of one kind.
func (s *ShardedLRUBlockCache) KindStats(kind CacheKind) (hits, misses int64) {
	for _, shard := range s.shards {
		h, m := shard.KindStats(kind)
		hits += h
		misses += m
	}
	return hits, misses
}

// Size returns the total size across all shards.
func (s *ShardedLRUBlockCache) Size() int64 {
	var total int64
	for _, shard := range s.shards {
		total += shard.Size()
	}
	return total
}
