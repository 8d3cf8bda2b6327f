package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultCountKeyPrefix = "payroll:dashboard:count:"

// RedisCountCache stores tenant counts in Redis with a TTL so every
// instance sees the same value
type RedisCountCache struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCountCache creates a count cache on an existing client
func NewRedisCountCache(client redis.UniversalClient, keyPrefix string, ttl time.Duration) *RedisCountCache {
	if keyPrefix == "" {
		keyPrefix = defaultCountKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultCountTTL
	}
	return &RedisCountCache{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (c *RedisCountCache) key(tenantID uuid.UUID) string {
	return c.keyPrefix + tenantID.String()
}

// Get returns the cached count of the tenant
func (c *RedisCountCache) Get(ctx context.Context, tenantID uuid.UUID) (int64, bool, error) {
	v, err := c.client.Get(ctx, c.key(tenantID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read cached count: %w", err)
	}
	return v, true, nil
}

// Set stores the count of the tenant
func (c *RedisCountCache) Set(ctx context.Context, tenantID uuid.UUID, count int64) error {
	if err := c.client.Set(ctx, c.key(tenantID), count, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache count: %w", err)
	}
	return nil
}

// Invalidate drops the cached count of the tenant
func (c *RedisCountCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(tenantID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached count: %w", err)
	}
	return nil
}
