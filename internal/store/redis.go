package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV keeps the profile's state in Redis under
// storefront:{profileID}:{key}. A profile id scopes the namespace the way a
// browser profile scopes localStorage: shared across users on the same
// device until cleared.
type RedisKV struct {
	client    *redis.Client
	profileID string
}

func NewRedisKV(client *redis.Client, profileID string) *RedisKV {
	return &RedisKV{client: client, profileID: profileID}
}

func (s *RedisKV) key(key string) string {
	return fmt.Sprintf("storefront:%s:%s", s.profileID, key)
}

func (s *RedisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisKV) Put(ctx context.Context, key string, value []byte) error {
	// No TTL: localStorage semantics, the entry lives until deleted.
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisKV) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
