package cache

import (
	"context"
	"time"
)

// ScopedCache wraps a Cache with a key prefix so multiple tools (or
// multiple users of a shared Redis/Mongo instance) can share a backend
// without colliding.
//
// Example usage:
//
//	shared, _ := NewRedisCache(ctx, addr)
//	mine := NewScopedCache(shared, "bvg:")
type ScopedCache struct {
	inner  Cache
	prefix string
}

// NewScopedCache wraps inner so every key is prefixed.
func NewScopedCache(inner Cache, prefix string) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &ScopedCache{inner: inner, prefix: prefix}
}

// Get retrieves the payload for the prefixed key.
func (c *ScopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

// Set stores the payload under the prefixed key.
func (c *ScopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

// Delete removes the entry for the prefixed key.
func (c *ScopedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

// Close closes the wrapped backend.
func (c *ScopedCache) Close() error {
	return c.inner.Close()
}

// Ensure ScopedCache implements Cache.
var _ Cache = (*ScopedCache)(nil)
