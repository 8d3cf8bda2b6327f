package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/payroll/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CountCache is implemented by both count caches
type CountCache interface {
	Get(ctx context.Context, tenantID uuid.UUID) (int64, bool, error)
	Set(ctx context.Context, tenantID uuid.UUID, count int64) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

// CountCacheFactory creates count caches based on configuration
type CountCacheFactory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
	pingTimeout           time.Duration
}

// CountCacheFactoryOption is a functional option for configuring the factory
type CountCacheFactoryOption func(*CountCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) CountCacheFactoryOption {
	return func(f *CountCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory cache. Default is true.
func WithInMemoryFallback(allow bool) CountCacheFactoryOption {
	return func(f *CountCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCountCacheFactory creates a new factory
func NewCountCacheFactory(cfg config.RedisConfig, ttl time.Duration, opts ...CountCacheFactoryOption) *CountCacheFactory {
	f := &CountCacheFactory{
		redisConfig:           cfg,
		ttl:                   ttl,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		pingTimeout:           5 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisCache connects to Redis and returns a Redis count cache
// together with the client, which the caller closes
func (f *CountCacheFactory) CreateRedisCache(ctx context.Context) (*RedisCountCache, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, f.pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCountCache(client, "", f.ttl), client, nil
}

// CreateCache returns a Redis cache when Redis is enabled and reachable,
// otherwise an in-memory cache. The Redis client is returned so other
// components can share the connection; it is nil for the in-memory cache
// and the caller closes it otherwise.
func (f *CountCacheFactory) CreateCache(ctx context.Context) (CountCache, *redis.Client, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory count cache")
		return NewInMemoryCountCache(f.ttl), nil, nil
	}

	c, client, err := f.CreateRedisCache(ctx)
	if err == nil {
		f.logger.Info("using Redis count cache", zap.String("addr", f.redisConfig.Addr()))
		return c, client, nil
	}

	if !f.allowInMemoryFallback {
		return nil, nil, fmt.Errorf("Redis required for count cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory count cache. "+
		"Dashboard counts may differ between instances until their TTL expires.",
		zap.Error(err),
	)
	return NewInMemoryCountCache(f.ttl), nil, nil
}
