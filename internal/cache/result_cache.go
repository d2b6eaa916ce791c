package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pharmaretail/dss-go/internal/config"
)

const resultKeyPrefix = "dss:result"

// ResultCache stores the JSON payload of a finished analytics job under its
// job name. The jobs recompute everything from the facts, so a short TTL only
// shields the database from bursts of identical requests.
type ResultCache interface {
	Get(ctx context.Context, job string) ([]byte, bool, error)
	Set(ctx context.Context, job string, payload any) error
	Invalidate(ctx context.Context, job string) error
}

type redisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopResultCache struct{}

func NewResultCache(cfg config.CacheConfig) (ResultCache, error) {
	if !cfg.Enabled {
		return &noopResultCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisResultCache{client: client, ttl: ttl}, nil
}

func NewNoopResultCache() ResultCache {
	return &noopResultCache{}
}

func (c *redisResultCache) Get(ctx context.Context, job string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, resultKey(job)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	return payload, true, nil
}

func (c *redisResultCache) Set(ctx context.Context, job string, payload any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s result cache: %w", job, err)
	}
	if err := c.client.Set(ctx, resultKey(job), encoded, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisResultCache) Invalidate(ctx context.Context, job string) error {
	return c.client.Del(ctx, resultKey(job)).Err()
}

func (n *noopResultCache) Get(ctx context.Context, job string) ([]byte, bool, error) {
	return nil, false, nil
}

func (n *noopResultCache) Set(ctx context.Context, job string, payload any) error {
	return nil
}

func (n *noopResultCache) Invalidate(ctx context.Context, job string) error {
	return nil
}

func resultKey(job string) string {
	return fmt.Sprintf("%s:%s", resultKeyPrefix, job)
}
