package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Vodeneev/footballhub/internal/pkg/config"
)

// RedisCache keeps raw backend responses in Redis with a fixed TTL.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisCache(cfg *config.CacheConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisCache(client, cfg.KeyPrefix, cfg.TTL), nil
}

func newRedisCache(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisCache) key(path string) string {
	return r.prefix + path
}

// Get returns the cached body for path. A missing key is not an error.
func (r *RedisCache) Get(ctx context.Context, path string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.key(path)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", path, err)
	}
	return data, true, nil
}

func (r *RedisCache) Set(ctx context.Context, path string, body []byte) error {
	if err := r.client.Set(ctx, r.key(path), body, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", path, err)
	}
	return nil
}

// Purge drops every key under the cache prefix.
func (r *RedisCache) Purge(ctx context.Context) (int, error) {
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			n, err := r.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("redis del: %w", err)
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// Close closes the connection with Redis
func (r *RedisCache) Close() error {
	return r.client.Close()
}
