package ttlcache

import (
	"sync"
	"time"
)

// Cache is a bounded set of string keys with per-entry expiry. The webhook
// layer uses it to remember recently seen users so registration is not
// re-attempted on every incoming event. Both capacity and TTL are hard
// bounds: the cache never grows past maxSize entries.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	entries map[string]time.Time // key -> expiry deadline
}

// New creates a Cache holding at most maxSize keys, each for at most ttl.
func New(maxSize int, ttl time.Duration) *Cache {
	return &Cache{
		maxSize: maxSize,
		ttl:     ttl,
		entries: make(map[string]time.Time),
	}
}

// Contains reports whether key is present and not expired.
func (c *Cache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, ok := c.entries[key]
	if !ok {
		return false
	}
	if time.Now().After(deadline) {
		delete(c.entries, key)
		return false
	}
	return true
}

// Add records key. Expired entries are dropped first; if the cache is still
// full, the entry closest to expiry is evicted.
func (c *Cache) Add(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, deadline := range c.entries {
		if now.After(deadline) {
			delete(c.entries, k)
		}
	}
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxSize {
		var oldest string
		var oldestDeadline time.Time
		for k, deadline := range c.entries {
			if oldest == "" || deadline.Before(oldestDeadline) {
				oldest = k
				oldestDeadline = deadline
			}
		}
		delete(c.entries, oldest)
	}
	c.entries[key] = now.Add(c.ttl)
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
