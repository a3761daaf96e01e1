package dashboard

import (
	"sync"
	"time"
)

type cacheEntry struct {
	createdAt time.Time
	value     any
}

// DefaultMaxEntries bounds the number of results a Cache holds.
const DefaultMaxEntries = 256

// Cache memoizes section results by key for a fixed TTL. A zero TTL keeps
// entries until they are evicted. Expired entries are dropped on every Set,
// and once maxEntries is reached the oldest entry makes room. Cached values
// are shared between callers and must be treated as read-only.
type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]cacheEntry
	now        func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, maxEntries: DefaultMaxEntries, entries: map[string]cacheEntry{}, now: time.Now}
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && !c.now().Before(entry.createdAt.Add(c.ttl)) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (c *Cache) Set(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if c.ttl > 0 {
		for k, e := range c.entries {
			if !now.Before(e.createdAt.Add(c.ttl)) {
				delete(c.entries, k)
			}
		}
	}
	if _, ok := c.entries[key]; !ok && c.maxEntries > 0 {
		for len(c.entries) >= c.maxEntries {
			c.evictOldest()
		}
	}
	c.entries[key] = cacheEntry{createdAt: now, value: v}
}

func (c *Cache) evictOldest() {
	var oldest string
	var at time.Time
	first := true
	for k, e := range c.entries {
		if first || e.createdAt.Before(at) {
			oldest, at, first = k, e.createdAt, false
		}
	}
	delete(c.entries, oldest)
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// memo returns the cached value for key or computes and stores it. Errors
// are not cached.
func memo[T any](c *Cache, key string, compute func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}
	t, err := compute()
	if err != nil {
		return t, err
	}
	c.Set(key, t)
	return t, nil
}
