// Package cache provides pluggable result caching for the genealogy
// pipeline.
//
// Inferring a tree is O(N²) in relations plus a sort of that collection,
// so re-running the pipeline over an unchanged population is pure waste.
// Keys are derived from a SHA-256 content hash of the population plus the
// run parameters, so a cache entry can never serve stale results for
// different input.
//
// Backends:
//   - [NewNullCache]: disabled caching (always a miss)
//   - [NewFileCache]: local files under an XDG-style directory (CLI default)
//   - [NewRedisCache]: shared Redis instance
//   - [NewMongoCache]: MongoDB collection with TTL expiry
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores opaque byte payloads under string keys with optional TTL.
// Implementations must treat a missing key as a miss, not an error.
type Cache interface {
	// Get retrieves the payload for key. The boolean reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores the payload under key. A non-positive ttl means the
	// entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes the entry for key. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// ResultKey builds the cache key for an inferred parent array.
// popHash is the content hash of the population input (see [Hash]).
func ResultKey(popHash string, percent int) string {
	return fmt.Sprintf("result:%s:%d", popHash, percent)
}

// ArtifactKey builds the cache key for a rendered artifact (dot, svg,
// png) derived from an inferred tree.
func ArtifactKey(popHash string, percent int, format string) string {
	return fmt.Sprintf("artifact:%s:%d:%s", popHash, percent, format)
}
