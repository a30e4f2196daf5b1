// Package cache provides the TTL key-value store that memoizes search
// responses and spam likelihood scores. Two backends share one interface:
// an in-process LRU for a single instance and Redis for instances that
// must agree on invalidation.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Cache stores opaque values with a time-to-live. Get reports a miss with
// found=false and a nil error; an error means the backend itself failed.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key derives a fixed-length key from prefix and parts. Parts are joined
// with "|" before hashing, so callers must not rely on parts containing it.
func Key(prefix string, parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return prefix + hex.EncodeToString(sum[:])
}

// GetJSON reads key and decodes it into a new T
func GetJSON[T any](ctx context.Context, c Cache, key string) (*T, bool, error) {
	raw, found, err := c.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached value %s: %w", key, err)
	}
	return &v, true, nil
}

// SetJSON encodes v and stores it under key
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache value %s: %w", key, err)
	}
	return c.Set(ctx, key, raw, ttl)
}
