// Package cache memoizes parsed expressions keyed by their source string.
//
// Keys are the literal source text: two expressions that differ only in
// whitespace are cached separately. Parsed trees are immutable, so a cached
// value may be shared by any number of goroutines.
//
// # Example
//
//	c := cache.New[*types.Subexpression](1024)
//	ast := c.GetOrParse("width / 2", func() *types.Subexpression {
//	    return parser.ParseExpression("width / 2")
//	})
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// DefaultCapacity is used when New is called with a capacity <= 0.
const DefaultCapacity = 256

// Store is a parse cache. Implementations must be safe for concurrent use.
type Store[V any] interface {
	// GetOrParse returns the value cached for key, calling parse to create
	// it on a miss.
	GetOrParse(key string, parse func() V) V
	Get(key string) (V, bool)
	Set(key string, value V)
	Invalidate(key string)
	Clear()
	Len() int
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// entry is a cache entry stored in the doubly-linked list.
type entry[V any] struct {
	key   string
	value V
}

// LRU is a thread-safe LRU (Least Recently Used) cache.
// Once the capacity is reached, the least recently accessed entry is evicted.
//
// Concurrent misses for the same key are collapsed so parse runs once.
type LRU[V any] struct {
	mu       sync.RWMutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
	group    singleflight.Group
	hits     atomic.Uint64
	misses   atomic.Uint64
}

// New creates a new LRU cache with the given capacity.
// If capacity <= 0, DefaultCapacity is used.
func New[V any](capacity int) *LRU[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LRU[V]{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// Get retrieves a value from the cache.
// Returns (value, true) if found and moves the entry to front (MRU).
func (c *LRU[V]) Get(key string) (V, bool) {
	var value V
	c.mu.RLock()
	el, ok := c.items[key]
	if ok {
		value = el.Value.(*entry[V]).value
	}
	// Skip the write lock when the element is already the most recent.
	alreadyFront := ok && c.ll.Front() == el
	c.mu.RUnlock()
	if !ok {
		return value, false
	}

	if !alreadyFront {
		// Promote to front under write lock; re-check in case of concurrent eviction.
		c.mu.Lock()
		el, ok = c.items[key]
		if ok {
			c.ll.MoveToFront(el)
			value = el.Value.(*entry[V]).value
		}
		c.mu.Unlock()

		if !ok {
			var zero V
			return zero, false
		}
	}
	return value, true
}

// Set inserts or replaces a value in the cache.
// If at capacity, the least recently used entry is evicted first.
func (c *LRU[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry[V]).value = value
		c.ll.MoveToFront(el)
		return
	}

	if c.ll.Len() >= c.capacity {
		c.evictLocked()
	}

	el := c.ll.PushFront(&entry[V]{key: key, value: value})
	c.items[key] = el
}

// GetOrParse retrieves the value for key from cache, or calls parse() to
// create it, caches the result, and returns it.
func (c *LRU[V]) GetOrParse(key string, parse func() V) V {
	if v, ok := c.Get(key); ok {
		c.hits.Add(1)
		return v
	}
	c.misses.Add(1)

	v, _, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v := parse()
		c.Set(key, v)
		return v, nil
	})
	return v.(V)
}

// Len returns the number of entries currently in the cache.
func (c *LRU[V]) Len() int {
	c.mu.RLock()
	n := len(c.items)
	c.mu.RUnlock()
	return n
}

// Capacity returns the maximum number of entries the cache can hold.
func (c *LRU[V]) Capacity() int {
	return c.capacity
}

// Stats returns the hit and miss counters of GetOrParse.
func (c *LRU[V]) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Invalidate removes a single entry from the cache.
func (c *LRU[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.ll.Remove(el)
		delete(c.items, key)
	}
}

// Clear removes all entries from the cache and resets the counters.
func (c *LRU[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[string]*list.Element, c.capacity)
	c.hits.Store(0)
	c.misses.Store(0)
}

// evictLocked removes the least recently used entry.
// Must be called with c.mu held for writing.
func (c *LRU[V]) evictLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry[V]).key)
}

// Noop is a Store that never retains anything. Tests and benchmarks use it
// to measure cold parses and to keep test cases isolated.
type Noop[V any] struct{}

// GetOrParse always calls parse.
func (Noop[V]) GetOrParse(_ string, parse func() V) V { return parse() }

// Get always misses.
func (Noop[V]) Get(string) (V, bool) {
	var zero V
	return zero, false
}

// Set discards the value.
func (Noop[V]) Set(string, V) {}

// Invalidate does nothing.
func (Noop[V]) Invalidate(string) {}

// Clear does nothing.
func (Noop[V]) Clear() {}

// Len is always zero.
func (Noop[V]) Len() int { return 0 }

var (
	_ Store[int] = (*LRU[int])(nil)
	_ Store[int] = Noop[int]{}
)
