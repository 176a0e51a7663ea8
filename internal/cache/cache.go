package cache

import "sync"

// entry is one cached value with the tags it was stored under.
type entry struct {
	value any
	tags  map[Tag]struct{}
}

// Cache is a thread-safe in-memory cache with tag-based invalidation.
//
// Every entry carries zero or more tags; Clean removes all entries holding
// any of the given tags in one pass. Lookups after a Clean fall through to
// the caller's loader, so stale reads after a configuration change are
// bounded by the invalidation call, not a TTL.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	byTag   map[Tag]map[string]struct{}
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		byTag:   make(map[Tag]map[string]struct{}),
	}
}

// Set stores a value under the key with the given tags, replacing any
// previous entry and its tag associations.
func (c *Cache) Set(key string, value any, tags ...Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeLocked(key)

	tagSet := make(map[Tag]struct{}, len(tags))
	for _, tag := range tags {
		tagSet[tag] = struct{}{}
		if c.byTag[tag] == nil {
			c.byTag[tag] = make(map[string]struct{})
		}
		c.byTag[tag][key] = struct{}{}
	}
	c.entries[key] = entry{value: value, tags: tagSet}
}

// Get retrieves a value by key.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Delete removes a single entry by key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(key)
}

// Clean removes every entry holding any of the given tags and returns the
// number of entries removed.
func (c *Cache) Clean(tags ...Tag) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, tag := range tags {
		for key := range c.byTag[tag] {
			if _, ok := c.entries[key]; ok {
				c.removeLocked(key)
				removed++
			}
		}
	}
	return removed
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge removes all entries.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.byTag = make(map[Tag]map[string]struct{})
}

// removeLocked deletes an entry and its tag index references. Callers hold
// the write lock.
func (c *Cache) removeLocked(key string) {
	e, ok := c.entries[key]
	if !ok {
		return
	}
	for tag := range e.tags {
		delete(c.byTag[tag], key)
		if len(c.byTag[tag]) == 0 {
			delete(c.byTag, tag)
		}
	}
	delete(c.entries, key)
}
