package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key does not exist or has expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines the caching operations interface following hexagonal architecture.
// This is a port that can be implemented by different cache providers (Redis, Memcached, etc.).
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns ErrCacheMiss (wrapped) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the specified key and TTL.
	// TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetNX stores the value only when the key does not exist yet.
	// It reports whether the value was stored.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// CompareAndDelete removes the key only while it still holds value.
	CompareAndDelete(ctx context.Context, key string, value []byte) (bool, error)

	// Delete removes values from the cache by key.
	Delete(ctx context.Context, keys ...string) error

	// Ping checks if the cache service is reachable.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}
