// storage/redis.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CreativeUnicorns/themeprefs"
)

// redisClient is the subset of *redis.Client used by RedisStorage.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisStorage implements the Store interface on Redis strings. Keys never expire.
type RedisStorage struct {
	client redisClient
	prefix string
}

// NewRedisStorage connects to addr and verifies the connection with PING.
// prefix, if not empty, is prepended to every key as "<prefix>:".
func NewRedisStorage(addr, password string, db int, prefix string) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: failed to connect: %w", err)
	}

	return &RedisStorage{client: client, prefix: prefix}, nil
}

func (s *RedisStorage) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

// Get retrieves the value stored under key.
// It returns themeprefs.ErrNotFound if the key does not exist.
func (s *RedisStorage) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", themeprefs.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis: failed to get key '%s': %w", key, err)
	}
	return value, nil
}

// Set stores value under key without expiry.
func (s *RedisStorage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis: failed to set key '%s': %w", key, err)
	}
	return nil
}

// Close closes the Redis client.
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
