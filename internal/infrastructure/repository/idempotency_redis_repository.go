package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"usermgmt/internal/domain/idempotency"

	"github.com/go-redis/redis/v8"
)

var _ idempotency.Repository = (*RedisIdempotencyRepository)(nil)

// RedisIdempotencyRepository stores idempotency records in Redis with a TTL,
// so expiry is handled by the store itself.
type RedisIdempotencyRepository struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisIdempotencyRepository creates a new Redis-backed idempotency
// repository
func NewRedisIdempotencyRepository(client redis.UniversalClient) *RedisIdempotencyRepository {
	return &RedisIdempotencyRepository{
		client: client,
		prefix: "idempotency_key:",
		ttl:    24 * time.Hour,
	}
}

// Create stores a record under its key with the repository TTL
func (r *RedisIdempotencyRepository) Create(ctx context.Context, record *idempotency.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal idempotency record: %w", err)
	}

	if err := r.client.Set(ctx, r.redisKey(record.Key), string(data), r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency record in Redis: %w", err)
	}

	return nil
}

// GetByKey retrieves a record; unknown keys yield (nil, nil)
func (r *RedisIdempotencyRepository) GetByKey(ctx context.Context, key string) (*idempotency.Record, error) {
	val, err := r.client.Get(ctx, r.redisKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get idempotency record from Redis: %w", err)
	}

	var record idempotency.Record
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal idempotency record: %w", err)
	}

	return &record, nil
}

// Delete removes a record by key
func (r *RedisIdempotencyRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete idempotency record from Redis: %w", err)
	}
	return nil
}

func (r *RedisIdempotencyRepository) redisKey(key string) string {
	return r.prefix + key
}
