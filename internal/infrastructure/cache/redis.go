package cache

import (
	"context"
	"fmt"

	"usermgmt/internal/config"

	"github.com/go-redis/redis/v8"
)

// RedisCache wraps the Redis client used for idempotency records and health
// checks.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis client from the cache configuration
func NewRedisCache(cfg *config.CacheConfig) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisCache{
		client: rdb,
	}
}

// GetClient exposes the underlying client for repositories
func (r *RedisCache) GetClient() redis.UniversalClient {
	return r.client
}

// Ping checks connectivity
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client's resources
func (r *RedisCache) Close() error {
	return r.client.Close()
}
