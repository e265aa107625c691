// Package cache provides a thread-safe sharded LRU cache. rend uses it
// to memoize deterministic derived state: compositor technique
// selection per capability set, and any host-side lookup tables built
// on top of the queue.
package cache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

const (
	// shardCount is a power of 2 so shard selection is a bitwise AND.
	shardCount = 16
	shardMask  = shardCount - 1

	// DefaultCapacity is the per-shard entry limit used when the
	// caller passes a non-positive capacity.
	DefaultCapacity = 256
)

// Hasher computes the shard-selection hash for a key.
type Hasher[K any] func(K) uint64

// StringHasher computes the FNV-1a hash of a string key.
func StringHasher(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Uint64Hasher returns the key itself (identity hash).
func Uint64Hasher(u uint64) uint64 { return u }

// Stats is a snapshot of cache counters.
type Stats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// node is an entry in a shard's intrusive LRU list.
type node[K comparable, V any] struct {
	key        K
	value      V
	prev, next *node[K, V]
}

// shard is one lock domain: a map plus an LRU list with sentinel head.
type shard[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*node[K, V]
	head    node[K, V] // head.next = most recent, head.prev = oldest
	len     int
}

func (s *shard[K, V]) init() {
	s.entries = make(map[K]*node[K, V])
	s.head.next = &s.head
	s.head.prev = &s.head
}

func (s *shard[K, V]) unlink(n *node[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
}

func (s *shard[K, V]) pushFront(n *node[K, V]) {
	n.next = s.head.next
	n.prev = &s.head
	s.head.next.prev = n
	s.head.next = n
}

// ShardedCache is a thread-safe LRU cache split into 16 shards to keep
// lock contention low. Eviction is per shard, oldest first.
type ShardedCache[K comparable, V any] struct {
	shards   [shardCount]shard[K, V]
	hasher   Hasher[K]
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewSharded creates a cache with the given per-shard capacity.
// Total capacity is capacity * 16.
func NewSharded[K comparable, V any](capacity int, hasher Hasher[K]) *ShardedCache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &ShardedCache[K, V]{hasher: hasher, capacity: capacity}
	for i := range c.shards {
		c.shards[i].init()
	}
	return c
}

func (c *ShardedCache[K, V]) shardFor(key K) *shard[K, V] {
	return &c.shards[c.hasher(key)&shardMask]
}

// Get retrieves a value, refreshing its recency on hit.
func (c *ShardedCache[K, V]) Get(key K) (V, bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	n, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	s.unlink(n)
	s.pushFront(n)
	v := n.value
	s.mu.Unlock()
	c.hits.Add(1)
	return v, true
}

// Set stores a value, evicting the shard's oldest entries over
// capacity. The value is stored as-is, not copied.
func (c *ShardedCache[K, V]) Set(key K, value V) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.entries[key]; ok {
		n.value = value
		s.unlink(n)
		s.pushFront(n)
		return
	}

	for s.len >= c.capacity {
		oldest := s.head.prev
		if oldest == &s.head {
			break
		}
		s.unlink(oldest)
		delete(s.entries, oldest.key)
		s.len--
		c.evictions.Add(1)
	}

	n := &node[K, V]{key: key, value: value}
	s.pushFront(n)
	s.entries[key] = n
	s.len++
}

// GetOrCreate returns the cached value or creates and stores one. The
// create function runs with the shard lock held so concurrent callers
// for the same key compute once; keep it fast.
func (c *ShardedCache[K, V]) GetOrCreate(key K, create func() V) V {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.entries[key]; ok {
		s.unlink(n)
		s.pushFront(n)
		c.hits.Add(1)
		return n.value
	}
	c.misses.Add(1)

	value := create()
	for s.len >= c.capacity {
		oldest := s.head.prev
		if oldest == &s.head {
			break
		}
		s.unlink(oldest)
		delete(s.entries, oldest.key)
		s.len--
		c.evictions.Add(1)
	}
	n := &node[K, V]{key: key, value: value}
	s.pushFront(n)
	s.entries[key] = n
	s.len++
	return value
}

// Delete removes an entry, reporting whether it existed.
func (c *ShardedCache[K, V]) Delete(key K) bool {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.entries[key]
	if !ok {
		return false
	}
	s.unlink(n)
	delete(s.entries, key)
	s.len--
	return true
}

// Clear removes all entries.
func (c *ShardedCache[K, V]) Clear() {
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		s.init()
		s.len = 0
		s.mu.Unlock()
	}
}

// Len returns the total number of entries.
func (c *ShardedCache[K, V]) Len() int {
	total := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		total += s.len
		s.mu.Unlock()
	}
	return total
}

// Capacity returns the per-shard capacity.
func (c *ShardedCache[K, V]) Capacity() int { return c.capacity }

// Stats returns a snapshot of the counters.
func (c *ShardedCache[K, V]) Stats() Stats {
	return Stats{
		Len:       c.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
