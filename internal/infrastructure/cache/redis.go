package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/force3dev/Forc3-sub001/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces search entries in a shared Redis
const DefaultKeyPrefix = "foodsearch:"

// RedisCache stores search results as JSON CacheEntry values with a native TTL
type RedisCache struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

// NewRedisCache wraps an existing client
func NewRedisCache(client redis.Cmdable, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisCache{client: client, prefix: prefix, now: time.Now}
}

// NewRedisClient parses a redis:// URL into a client
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Get returns the stored results, ErrCacheMiss when absent or expired,
// and ErrCacheUnavailable when Redis cannot be reached
func (c *RedisCache) Get(ctx context.Context, key string) ([]domain.FoodResult, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: corrupt entry: %v", domain.ErrCacheMiss, err)
	}
	if entry.Expired(c.now()) {
		return nil, domain.ErrCacheMiss
	}
	if entry.Results == nil {
		entry.Results = []domain.FoodResult{}
	}

	return entry.Results, nil
}

// Set stores results under key for ttl
func (c *RedisCache) Set(ctx context.Context, key string, results []domain.FoodResult, ttl time.Duration) error {
	entry := domain.CacheEntry{
		Query:     key,
		Results:   results,
		ExpiresAt: c.now().Add(ttl),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	return nil
}

// Ping checks connectivity
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return nil
}
