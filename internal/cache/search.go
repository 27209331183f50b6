// Package cache stores catalog search results in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	versionKey = "catalog:search:version"
	keyPrefix  = "catalog:search"
)

// SearchCache is a versioned JSON cache. Bump makes every existing entry
// unreachable; stale entries expire with their TTL. A nil *SearchCache is a
// valid cache that never hits.
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSearchCache(client *redis.Client, ttl time.Duration) *SearchCache {
	return &SearchCache{client: client, ttl: ttl}
}

// Version returns the current cache generation, initialising it when missing.
func (c *SearchCache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		// SETNX so concurrent initialisers agree on the first version.
		if err := c.client.SetNX(ctx, versionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, versionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

func buildKey(version int64, key string) string {
	return fmt.Sprintf("%s:%d:%s", keyPrefix, version, key)
}

// Get decodes the entry stored under key in the given generation into dest
// and reports whether it was found.
func (c *SearchCache) Get(ctx context.Context, version int64, key string, dest any) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}
	payload, err := c.client.Get(ctx, buildKey(version, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode cached search: %w", err)
	}
	return true, nil
}

// Set stores value under key in the given generation. A result computed
// before a Bump is written to the old generation and never served.
func (c *SearchCache) Set(ctx context.Context, version int64, key string, value any) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode search: %w", err)
	}
	return c.client.Set(ctx, buildKey(version, key), raw, c.ttl).Err()
}

// Bump starts a new cache generation.
func (c *SearchCache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey).Err()
}
