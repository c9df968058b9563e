package cache

import (
	"context"
	"time"
)

// Cache defines the methods required for a caching backend.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Len returns the number of live entries.
	Len() int
	Close() error
}

// EvictionFunc is called with every item that leaves a cache, whether it expired,
// was deleted, was replaced or was dropped by Close.
type EvictionFunc func(key string, value interface{})
