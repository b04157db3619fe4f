package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "cache:v1:"
	tagPrefix = "cache:v1:tag:"
)

// RedisStore implements Store on top of Redis. Tag membership is tracked in
// one set per tag so a single write can evict every payload of an entity type.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds a Redis-backed cache store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// GetOrCompute returns the cached payload for key, computing and storing it on a miss.
func (s *RedisStore) GetOrCompute(ctx context.Context, key string, ttl time.Duration, tags []string, compute ComputeFn) ([]byte, error) {
	payload, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err == nil {
		return payload, nil
	}
	if err != redis.Nil {
		return nil, fmt.Errorf("cache lookup %q: %w", key, err)
	}

	payload, err = compute(ctx)
	if err != nil {
		return nil, err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, keyPrefix+key, payload, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, tagPrefix+tag, keyPrefix+key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("cache store %q: %w", key, err)
	}

	return payload, nil
}

// Invalidate evicts every payload registered under the given tags.
func (s *RedisStore) Invalidate(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		keys, err := s.client.SMembers(ctx, tagPrefix+tag).Result()
		if err != nil {
			return fmt.Errorf("cache tag lookup %q: %w", tag, err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache evict tag %q: %w", tag, err)
			}
		}
		if err := s.client.Del(ctx, tagPrefix+tag).Err(); err != nil {
			return fmt.Errorf("cache drop tag %q: %w", tag, err)
		}
	}
	return nil
}
