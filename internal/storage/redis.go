package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// RedisStore persists cart blobs in Redis without expiration. The cart
// outlives individual sessions, so no TTL is set.
type RedisStore struct {
	client *redis.Client
}

func (r *RedisStore) Read(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

func (r *RedisStore) Write(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
