package cache

import (
	"context"
	"time"
)

// Cache defines the contract for the cache layer.
// Implementations can be swapped (Redis, in-memory for tests).
type Cache interface {
	// Get reads a key and unmarshals the value into dest.
	// Returns (found, error):
	// - found = true: cache hit, value unmarshaled into dest
	// - found = false: cache miss, dest untouched
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// Ping checks the connection.
	Ping(ctx context.Context) error

	DeletePattern(ctx context.Context, pattern string) error

	// Counter operations backing the fixed-window rate limiter.
	Increment(ctx context.Context, key string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}
