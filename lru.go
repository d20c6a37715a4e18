package truthdare

import "container/list"

// lruCache is a small string-keyed LRU used as the selector's anti-repeat
// memory. Process-local, session-scoped, never persisted.
type lruCache struct {
	capacity int
	order    *list.List // front = most recently used
	entries  map[string]*list.Element
}

func newLRUCache(capacity int) *lruCache {
	return &lruCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
	}
}

// Contains reports whether key is cached, refreshing its recency.
func (c *lruCache) Contains(key string) bool {
	el, ok := c.entries[key]
	if ok {
		c.order.MoveToFront(el)
	}
	return ok
}

// Put inserts or refreshes key, evicting the least recently used entry when
// over capacity.
func (c *lruCache) Put(key string) {
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		return
	}
	c.entries[key] = c.order.PushFront(key)
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(string))
	}
}

func (c *lruCache) Len() int { return c.order.Len() }

func (c *lruCache) Clear() {
	c.order.Init()
	c.entries = make(map[string]*list.Element, c.capacity)
}
