package rediscache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"petstore-api/internal/platform/logger"
	"petstore-api/internal/ports/cache"
)

// Cache implementa ports/cache.Cache sobre Redis.
// Best effort: cualquier error se loguea en debug y se trata como miss.
type Cache struct {
	client *redis.Client
	log    logger.Logger
}

func New(redisURL string, log logger.Logger) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Cache{client: client, log: log}, nil
}

var _ cache.Cache = (*Cache)(nil)

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Debug("redis get failed", "key", key, "error", err)
		return nil, false
	}
	return b, true
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Debug("redis set failed", "key", key, "error", err)
	}
}

func (c *Cache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Debug("redis del failed", "key", key, "error", err)
	}
}
