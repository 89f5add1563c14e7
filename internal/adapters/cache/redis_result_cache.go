package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fleet-route-optimizer/internal/domain"
	"fleet-route-optimizer/internal/platform/obs"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisResultCache stores finished runs by fingerprint.
// Entries expire after TTL; zero means no expiry.
type RedisResultCache struct {
	rdb    *redis.Client
	prefix string
	TTL    time.Duration
}

func NewRedisResultCache(rdb *redis.Client, ttl time.Duration) *RedisResultCache {
	return &RedisResultCache{rdb: rdb, prefix: "fro:run:", TTL: ttl}
}

// NewRedisResultCacheFromURL parses a redis:// URL.
func NewRedisResultCacheFromURL(url string, ttl time.Duration) (*RedisResultCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("result cache: parse redis url: %w", err)
	}
	return NewRedisResultCache(redis.NewClient(opt), ttl), nil
}

func (c *RedisResultCache) Get(ctx context.Context, fingerprint string) (_ *domain.OptimizationRun, _ bool, err error) {
	defer obs.Time(ctx, "result.cache.Get")(&err)

	if strings.TrimSpace(fingerprint) == "" {
		return nil, false, errors.New("get result cache: fingerprint must not be empty")
	}

	data, err := c.rdb.Get(ctx, c.prefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get result cache: %w", err)
	}

	var run domain.OptimizationRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, false, fmt.Errorf("get result cache: decode: %w", err)
	}
	return &run, true, nil
}

func (c *RedisResultCache) Put(ctx context.Context, fingerprint string, run *domain.OptimizationRun) error {
	if strings.TrimSpace(fingerprint) == "" {
		return errors.New("put result cache: fingerprint must not be empty")
	}
	if run == nil {
		return errors.New("put result cache: run must be non-nil")
	}

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("put result cache: encode: %w", err)
	}
	if err := c.rdb.Set(ctx, c.prefix+fingerprint, data, c.TTL).Err(); err != nil {
		return fmt.Errorf("put result cache: %w", err)
	}
	return nil
}

func (c *RedisResultCache) Close() error { return c.rdb.Close() }
