package services

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// SummaryCache caches serialized analytics payloads keyed by scope
type SummaryCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// NoopSummaryCache is used when no Redis address is configured
type NoopSummaryCache struct{}

func (NoopSummaryCache) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopSummaryCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}

func (NoopSummaryCache) Invalidate(_ context.Context, _ string) error {
	return nil
}

// RedisSummaryCache backs the summary cache with Redis
type RedisSummaryCache struct {
	client *redis.Client
}

// NewRedisSummaryCache connects a summary cache to the given Redis instance
func NewRedisSummaryCache(addr, password string, db int) *RedisSummaryCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisSummaryCache{client: client}
}

func (c *RedisSummaryCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisSummaryCache) Close() error {
	return c.client.Close()
}

func (c *RedisSummaryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisSummaryCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if len(payload) == 0 {
		return nil
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func (c *RedisSummaryCache) Invalidate(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

var summaryCache SummaryCache = NoopSummaryCache{}

// GetSummaryCache returns the active summary cache
func GetSummaryCache() SummaryCache {
	return summaryCache
}

// SetSummaryCache sets the summary cache instance (Redis in main, Noop or a
// fake in tests)
func SetSummaryCache(c SummaryCache) {
	if c == nil {
		summaryCache = NoopSummaryCache{}
		return
	}
	summaryCache = c
}
