package cache

import "sync"

// Cache is a thread-safe LRU cache with a hard capacity.
// When an insertion exceeds the capacity, the least recently used entry is
// evicted and handed to the eviction callback.
//
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*entry[K, V]
	lru      lruList[K, V]
	capacity int
	onEvict  func(K, V)
	evicted  uint64
}

// New creates a cache holding at most capacity entries. A capacity <= 0 means
// unlimited. onEvict, if non-nil, is called with each evicted or cleared
// entry while the cache lock is held; it must not call back into the cache.
func New[K comparable, V any](capacity int, onEvict func(K, V)) *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]*entry[K, V]),
		capacity: capacity,
		onEvict:  onEvict,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.lru.moveToFront(e)
	return e.value, true
}

// GetOrCreate returns the cached value for key, or calls create and caches
// its result. create runs under the cache lock, so concurrent callers never
// create the same key twice. Errors from create are returned and nothing is
// cached.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.lru.moveToFront(e)
		return e.value, nil
	}

	value, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	e := &entry[K, V]{key: key, value: value}
	c.entries[key] = e
	c.lru.pushFront(e)

	for c.capacity > 0 && c.lru.len > c.capacity {
		c.evictOldest()
	}
	return value, nil
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Evictions returns how many entries have been evicted for capacity.
func (c *Cache[K, V]) Evictions() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evicted
}

// Clear removes every entry, passing each to the eviction callback.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for e := c.lru.head; e != nil; {
		next := e.next
		if c.onEvict != nil {
			c.onEvict(e.key, e.value)
		}
		e = next
	}
	c.entries = make(map[K]*entry[K, V])
	c.lru = lruList[K, V]{}
}

// evictOldest drops the least recently used entry. Caller must hold c.mu.
func (c *Cache[K, V]) evictOldest() {
	e := c.lru.tail
	if e == nil {
		return
	}
	c.lru.unlink(e)
	delete(c.entries, e.key)
	c.evicted++
	if c.onEvict != nil {
		c.onEvict(e.key, e.value)
	}
}
