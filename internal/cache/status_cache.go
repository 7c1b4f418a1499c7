// Package cache holds the Redis-backed cache for resolved open-state
// payloads. Clients poll the status endpoint aggressively, so serving the
// last resolution for a few seconds keeps the hot path off the resolver.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const statusKey = "trattoria:open_status"

// StatusCache caches the serialized open-state response.
type StatusCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStatusCache creates a cache with the given TTL.
func NewStatusCache(rdb *redis.Client, ttl time.Duration) *StatusCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatusCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached payload, or nil on miss or Redis error. Cache
// failures are not surfaced: callers fall back to resolving.
func (c *StatusCache) Get(ctx context.Context) []byte {
	if c == nil || c.rdb == nil {
		return nil
	}
	data, err := c.rdb.Get(ctx, statusKey).Bytes()
	if err != nil {
		return nil
	}
	return data
}

// Set stores the payload for the configured TTL, best effort.
func (c *StatusCache) Set(ctx context.Context, payload []byte) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Set(ctx, statusKey, payload, c.ttl).Err()
}

// Invalidate drops the cached payload, e.g. after a schedule reload.
func (c *StatusCache) Invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, statusKey).Err()
}
