package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/krema-build/krema/internal/errors"
)

// RedisCache is the optional write-through cache in front of the
// document store, backed by github.com/redis/go-redis/v9. A cache miss
// or a Redis error both fall through to the file store silently — the
// cache is a latency optimization, never a second source of truth.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to addr (host:port) and namespaces every key
// under prefix so multiple Krema apps can share one Redis instance.
func NewRedisCache(addr, prefix string, ttl time.Duration) *RedisCache {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) namespaced(key string) string {
	return c.prefix + ":" + key
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	raw, err := c.client.Get(ctx, c.namespaced(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(errors.TransientSystem, "redis get", err)
	}
	return raw, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, raw string) error {
	if err := c.client.Set(ctx, c.namespaced(key), raw, c.ttl).Err(); err != nil {
		return errors.Wrap(errors.TransientSystem, "redis set", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.namespaced(key)).Err(); err != nil {
		return errors.Wrap(errors.TransientSystem, "redis delete", err)
	}
	return nil
}

var _ Cache = (*RedisCache)(nil)
