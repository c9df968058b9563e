// Package cache provides in-memory caching implementations.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/CreativeUnicorns/themeprefs"
)

const defaultGCInterval = time.Minute

// item represents a single cache item with a value and an expiration time.
type item struct {
	value      interface{}
	ttl        time.Duration
	expiration time.Time
}

func (it item) expired(now time.Time) bool {
	return !it.expiration.IsZero() && now.After(it.expiration)
}

type evicted struct {
	key   string
	value interface{}
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithGCInterval sets how often expired items are swept. Non-positive values are ignored.
func WithGCInterval(d time.Duration) MemoryOption {
	return func(c *MemoryCache) {
		if d > 0 {
			c.gcInterval = d
		}
	}
}

// WithEvictionFunc registers fn to receive evicted items.
func WithEvictionFunc(fn EvictionFunc) MemoryOption {
	return func(c *MemoryCache) {
		c.onEvict = fn
	}
}

// WithSlidingExpiration makes every successful Get push the item's expiration
// forward by its original TTL.
func WithSlidingExpiration() MemoryOption {
	return func(c *MemoryCache) {
		c.sliding = true
	}
}

// MemoryCache implements the Cache interface using an in-memory store.
type MemoryCache struct {
	mu         sync.Mutex
	items      map[string]item
	gcInterval time.Duration
	onEvict    EvictionFunc
	sliding    bool
	closed     bool
	stop       chan struct{} // Channel to signal gc goroutine to stop
}

// NewMemoryCache initializes a new MemoryCache instance.
// It starts a garbage collection goroutine to clean expired items.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cache := &MemoryCache{
		items:      make(map[string]item),
		gcInterval: defaultGCInterval,
		stop:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(cache)
	}
	go cache.gc()
	return cache
}

// Get retrieves a value from the memory cache by key.
// Missing and expired keys both yield themeprefs.ErrNotFound.
func (c *MemoryCache) Get(_ context.Context, key string) (interface{}, error) {
	now := time.Now()

	c.mu.Lock()
	it, exists := c.items[key]
	if !exists {
		c.mu.Unlock()
		return nil, themeprefs.ErrNotFound
	}

	if it.expired(now) {
		delete(c.items, key)
		c.mu.Unlock()
		c.evict([]evicted{{key: key, value: it.value}})
		return nil, themeprefs.ErrNotFound
	}

	if c.sliding && it.ttl > 0 {
		it.expiration = now.Add(it.ttl)
		c.items[key] = it
	}
	c.mu.Unlock()

	return it.value, nil
}

// Set stores a value in the memory cache with an optional TTL.
// If TTL is greater than zero, the key will expire after the duration.
func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	var expiration time.Time
	if ttl > 0 {
		expiration = time.Now().Add(ttl)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return themeprefs.ErrStorageUnavailable
	}
	old, replaced := c.items[key]
	c.items[key] = item{
		value:      value,
		ttl:        ttl,
		expiration: expiration,
	}
	c.mu.Unlock()

	if replaced {
		c.evict([]evicted{{key: key, value: old.value}})
	}
	return nil
}

// Delete removes a key from the memory cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	it, exists := c.items[key]
	delete(c.items, key)
	c.mu.Unlock()

	if exists {
		c.evict([]evicted{{key: key, value: it.value}})
	}
	return nil
}

// Len returns the number of items held, including expired items not yet swept.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Close stops the gc goroutine and evicts every item.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.stop)

	dropped := make([]evicted, 0, len(c.items))
	for key, it := range c.items {
		dropped = append(dropped, evicted{key: key, value: it.value})
	}
	c.items = make(map[string]item)
	c.mu.Unlock()

	c.evict(dropped)
	return nil
}

// evict must be called without c.mu held.
func (c *MemoryCache) evict(items []evicted) {
	if c.onEvict == nil {
		return
	}
	for _, e := range items {
		c.onEvict(e.key, e.value)
	}
}

// gc runs a garbage collection process that periodically removes expired items.
func (c *MemoryCache) gc() {
	ticker := time.NewTicker(c.gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep(time.Now())
		case <-c.stop:
			return
		}
	}
}

func (c *MemoryCache) sweep(now time.Time) {
	var expired []evicted

	c.mu.Lock()
	for key, it := range c.items {
		if it.expired(now) {
			delete(c.items, key)
			expired = append(expired, evicted{key: key, value: it.value})
		}
	}
	c.mu.Unlock()

	c.evict(expired)
}
