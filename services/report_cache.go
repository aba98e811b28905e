package services

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReportCache stores rendered report results for a short time
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisReportCache keeps report results in Redis under a key prefix
type RedisReportCache struct {
	client *redis.Client
	prefix string
}

// NewRedisReportCache wraps a connected Redis client
func NewRedisReportCache(client *redis.Client) *RedisReportCache {
	return &RedisReportCache{client: client, prefix: "repair-service:"}
}

// Get returns the cached value, or ok=false on a miss
func (c *RedisReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set stores a value that expires after ttl
func (c *RedisReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// noopReportCache is used when Redis is not configured; every read misses
type noopReportCache struct{}

func (noopReportCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (noopReportCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
