package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("catalog cache miss")

// Cache holds resolved product summaries. Misses are signalled with
// ErrCacheMiss; any other error means the cache itself is unhealthy and the
// resolver falls through to the database.
type Cache interface {
	Get(ctx context.Context, productID uint) (Summary, error)
	Set(ctx context.Context, summary Summary) error
	Delete(ctx context.Context, productID uint) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr string) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    5 * time.Minute,
	}
}

func cacheKey(productID uint) string { return fmt.Sprintf("product:%d", productID) }

func (c *RedisCache) Get(ctx context.Context, productID uint) (Summary, error) {
	data, err := c.client.Get(ctx, cacheKey(productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Summary{}, ErrCacheMiss
	}
	if err != nil {
		return Summary{}, err
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return Summary{}, err
	}
	return s, nil
}

func (c *RedisCache) Set(ctx context.Context, summary Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(summary.ID), data, c.ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, productID uint) error {
	return c.client.Del(ctx, cacheKey(productID)).Err()
}
