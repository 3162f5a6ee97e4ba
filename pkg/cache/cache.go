// Package cache provides pluggable caching for pipeline stages.
//
// Three backends are available:
//
//   - FileCache: persistent, file-based, used by the CLI
//   - RedisCache: shared, used by the server
//   - NullCache: no-op, used in tests and when caching is disabled
//
// Keys are generated by a Keyer so that every component that caches the
// same stage produces the same key. All key inputs are hashed, so keys
// stay fixed-length no matter how large the underlying dataset is.
package cache

import (
	"context"
	"time"
)

// TTL constants for the different pipeline stages.
//
// Matrices are cheap to rebuild but datasets may be loaded remotely, so
// they get a moderate TTL. Layouts and artifacts are pure functions of
// their inputs and effectively never go stale; the TTL just bounds disk
// usage.
const (
	// TTLMatrix is the TTL for built weight matrices.
	TTLMatrix = 24 * time.Hour

	// TTLLayout is the TTL for computed angular layouts.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is the TTL for rendered artifacts (SVG, PNG, JSON).
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the interface all cache backends implement.
//
// Get returns (data, found, error). A miss is not an error: callers
// should treat any error as a miss and recompute.
type Cache interface {
	// Get retrieves a value. Returns found=false on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// NullCache is a no-op cache that never stores anything.
// Useful for testing or when caching should be disabled.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always returns a cache miss.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set does nothing.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (c *NullCache) Close() error {
	return nil
}

// Ensure NullCache implements Cache.
var _ Cache = (*NullCache)(nil)
