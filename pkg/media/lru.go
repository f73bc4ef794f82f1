package media

// Cache is a fixed-capacity key/value store with least-recently-used
// eviction. It is not safe for concurrent use on its own; the Service
// guards its cache behind a mutex.
type Cache[K comparable, V any] struct {
	capacity int
	items    map[K]*node[K, V]
	head     *node[K, V] // most recently used
	tail     *node[K, V] // least recently used
	onEvict  func(key K, value V)
}

type node[K comparable, V any] struct {
	key   K
	value V
	prev  *node[K, V]
	next  *node[K, V]
}

// NewCache builds a cache holding at most capacity entries. The
// optional onEvict hook runs for every entry dropped to make room,
// before the entry leaves the cache. Capacity below 1 is raised to 1.
func NewCache[K comparable, V any](capacity int, onEvict func(key K, value V)) *Cache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[K, V]{
		capacity: capacity,
		items:    make(map[K]*node[K, V], capacity),
		onEvict:  onEvict,
	}
}

// Get returns the value stored under key and promotes it to most
// recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	n, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(n)
	return n.value, true
}

// Peek returns the value stored under key without touching recency.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	n, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	return n.value, true
}

// Put inserts or updates key, promoting it to most recently used.
// When an insert would exceed capacity, the least recently used entry
// is evicted first.
func (c *Cache[K, V]) Put(key K, value V) {
	if n, ok := c.items[key]; ok {
		n.value = value
		c.moveToFront(n)
		return
	}
	if len(c.items) >= c.capacity {
		c.evict()
	}
	n := &node[K, V]{key: key, value: value}
	c.items[key] = n
	c.pushFront(n)
}

// Remove drops key from the cache without invoking the eviction hook.
func (c *Cache[K, V]) Remove(key K) bool {
	n, ok := c.items[key]
	if !ok {
		return false
	}
	c.unlink(n)
	delete(c.items, key)
	return true
}

// Clear evicts every entry, invoking the eviction hook for each.
func (c *Cache[K, V]) Clear() {
	for c.tail != nil {
		c.evict()
	}
}

// Len reports the number of cached entries.
func (c *Cache[K, V]) Len() int {
	return len(c.items)
}

// Keys returns the cached keys ordered from most to least recently
// used.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.items))
	for n := c.head; n != nil; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}

func (c *Cache[K, V]) evict() {
	lru := c.tail
	if lru == nil {
		return
	}
	if c.onEvict != nil {
		c.onEvict(lru.key, lru.value)
	}
	c.unlink(lru)
	delete(c.items, lru.key)
}

func (c *Cache[K, V]) moveToFront(n *node[K, V]) {
	if c.head == n {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

func (c *Cache[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *Cache[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev = nil
	n.next = nil
}
