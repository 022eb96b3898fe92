// Package cache stores user context snapshots in Redis between requests.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"alcyxob/fitcoach/internal/domain"

	"github.com/redis/go-redis/v9"
)

// ContextCache keeps snapshots per (owner, kind). Every owner has a version that
// Invalidate bumps; snapshots are stored under the version they were built against, so a
// Set that races an Invalidate lands on a key no later Get reads.
type ContextCache interface {
	// Get returns the cached snapshot, if any, and the owner's current version. Pass the
	// version back to Set after a miss.
	Get(ctx context.Context, ownerID, kind string) (uc *domain.UserContext, version int64, hit bool, err error)
	Set(ctx context.Context, ownerID, kind string, version int64, uc *domain.UserContext) error
	// Invalidate retires every snapshot of the owner.
	Invalidate(ctx context.Context, ownerID string) error
}

const keyPrefix = "fitcoach:ctx"

func snapshotKey(ownerID string, version int64, kind string) string {
	return fmt.Sprintf("%s:%s:v%d:%s", keyPrefix, ownerID, version, kind)
}

func versionKey(ownerID string) string {
	return fmt.Sprintf("%s:%s:version", keyPrefix, ownerID)
}

type redisContextCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisContextCache returns a cache whose entries expire after ttl.
func NewRedisContextCache(rdb *redis.Client, ttl time.Duration) ContextCache {
	return &redisContextCache{redis: rdb, ttl: ttl}
}

func (c *redisContextCache) version(ctx context.Context, ownerID string) (int64, error) {
	v, err := c.redis.Get(ctx, versionKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *redisContextCache) Get(ctx context.Context, ownerID, kind string) (*domain.UserContext, int64, bool, error) {
	version, err := c.version(ctx, ownerID)
	if err != nil {
		return nil, 0, false, err
	}
	data, err := c.redis.Get(ctx, snapshotKey(ownerID, version, kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, version, false, err
	}

	var uc domain.UserContext
	if err := json.Unmarshal(data, &uc); err != nil {
		return nil, version, false, fmt.Errorf("decode cached context: %w", err)
	}
	return &uc, version, true, nil
}

func (c *redisContextCache) Set(ctx context.Context, ownerID, kind string, version int64, uc *domain.UserContext) error {
	data, err := json.Marshal(uc)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, snapshotKey(ownerID, version, kind), data, c.ttl).Err()
}

// Invalidate bumps the version. Older snapshots are left to expire.
func (c *redisContextCache) Invalidate(ctx context.Context, ownerID string) error {
	return c.redis.Incr(ctx, versionKey(ownerID)).Err()
}

// Noop is used when no Redis is configured. Every lookup misses.
type Noop struct{}

func (Noop) Get(context.Context, string, string) (*domain.UserContext, int64, bool, error) {
	return nil, 0, false, nil
}

func (Noop) Set(context.Context, string, string, int64, *domain.UserContext) error { return nil }

func (Noop) Invalidate(context.Context, string) error { return nil }
