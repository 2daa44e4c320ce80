package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/force3dev/Forc3-sub001/internal/domain"
)

const defaultCleanupInterval = 10 * time.Minute

// MemoryCache is a thread-safe in-process CacheStore with TTL support
type MemoryCache struct {
	data  map[string]domain.CacheEntry
	mutex sync.RWMutex
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryCache creates a new in-memory cache and starts its cleanup loop
func NewMemoryCache() *MemoryCache {
	return newMemoryCache(time.Now, defaultCleanupInterval)
}

func newMemoryCache(now func() time.Time, cleanupInterval time.Duration) *MemoryCache {
	cache := &MemoryCache{
		data: make(map[string]domain.CacheEntry),
		now:  now,
		stop: make(chan struct{}),
	}

	go cache.cleanupExpired(cleanupInterval)

	return cache
}

// Get returns the results stored under key, or ErrCacheMiss when absent or expired
func (c *MemoryCache) Get(ctx context.Context, key string) ([]domain.FoodResult, error) {
	c.mutex.RLock()
	entry, exists := c.data[key]
	c.mutex.RUnlock()

	if !exists || entry.Expired(c.now()) {
		return nil, domain.ErrCacheMiss
	}

	return cloneResults(entry.Results)
}

// Set stores results under key for ttl
func (c *MemoryCache) Set(ctx context.Context, key string, results []domain.FoodResult, ttl time.Duration) error {
	// Round-trip through JSON so callers never share slices or pointers with the cache,
	// matching what the networked stores return
	stored, err := cloneResults(results)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = domain.CacheEntry{
		Query:     key,
		Results:   stored,
		ExpiresAt: c.now().Add(ttl),
	}

	return nil
}

// Size returns the number of stored entries, expired ones included until the next cleanup
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Close stops the cleanup goroutine
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

// cleanupExpired removes expired entries periodically
func (c *MemoryCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *MemoryCache) removeExpired() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	for key, entry := range c.data {
		if entry.Expired(now) {
			delete(c.data, key)
		}
	}
}

func cloneResults(results []domain.FoodResult) ([]domain.FoodResult, error) {
	data, err := json.Marshal(results)
	if err != nil {
		return nil, err
	}

	var out []domain.FoodResult
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.FoodResult{}
	}

	return out, nil
}
