// Package cache provides a small in-memory TTL cache used by the store to
// keep hot user and preference rows out of the database on the decision path.
package cache

import (
	"sync"
	"time"
)

// Config controls cache behavior.
type Config struct {
	DefaultTTL      time.Duration
	CleanupInterval time.Duration
	MaxItems        int
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is a TTL map safe for concurrent use. Expired entries are swept by a
// background janitor; reads never return stale values regardless of sweep
// timing.
type Cache struct {
	config Config

	mu    sync.RWMutex
	items map[string]entry

	stop chan struct{}
	once sync.Once
}

// New creates a cache and starts its janitor.
func New(config Config) *Cache {
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 10 * time.Minute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	c := &Cache{
		config: config,
		items:  make(map[string]entry),
		stop:   make(chan struct{}),
	}
	go c.janitor()
	return c
}

// Get returns the cached value for key, if present and unexpired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores a value under the default TTL.
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.config.DefaultTTL)
}

// SetWithTTL stores a value with an explicit TTL. When the cache is full the
// write is dropped rather than evicting; entries age out on their own.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.config.MaxItems > 0 && len(c.items) >= c.config.MaxItems {
		if _, exists := c.items[key]; !exists {
			return
		}
	}
	c.items[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
}

// Delete removes a key. Used to invalidate after writes.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Len returns the number of entries, including not-yet-swept expired ones.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the janitor goroutine.
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache) janitor() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, e := range c.items {
				if now.After(e.expiresAt) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
