package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// GetJSON reads key and decodes it into a T.
// The bool result is false on a cache miss.
func GetJSON[T any](ctx context.Context, c Cache, key string) (*T, bool, error) {
	data, err := c.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return &out, true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s for cache: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}
