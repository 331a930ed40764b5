// Package cache provides in-memory LRU caching of immutable byte values:
// blocks of remote blobs and serialized query match sets.
//
// ShardedLRUBlockCache spreads keys over 64 LRU shards to reduce lock
// contention. Both caches account their bytes against a resource.Controller
// when one is given, so cached data counts towards the global memory limit.
package cache
