package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCache implementa Store sobre Redis, para compartir sesiones entre réplicas.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Store = (*RedisCache)(nil)

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrMiss
	}
	return val, err
}

func (c *RedisCache) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	return c.client.Set(ctx, key, val, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
