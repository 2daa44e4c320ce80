//go:build integration

package cache

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/force3dev/Forc3-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with: go test -tags integration ./internal/infrastructure/cache/...
// FORC3_TEST_REDIS_URL and FORC3_TEST_POSTGRES_HOST select the live servers.

func TestRedisCache_Live(t *testing.T) {
	url := os.Getenv("FORC3_TEST_REDIS_URL")
	if url == "" {
		t.Skip("FORC3_TEST_REDIS_URL not set")
	}

	client, err := NewRedisClient(url)
	require.NoError(t, err)
	defer client.Close()

	cache := NewRedisCache(client, "forc3-test:")
	ctx := context.Background()
	require.NoError(t, cache.Ping(ctx))

	key := "live " + strconv.FormatInt(time.Now().UnixNano(), 10)
	require.NoError(t, cache.Set(ctx, key, sampleResults(), time.Minute))

	got, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, sampleResults(), got)

	client.Del(ctx, "forc3-test:"+key)
}

func TestPostgresCache_Live(t *testing.T) {
	host := os.Getenv("FORC3_TEST_POSTGRES_HOST")
	if host == "" {
		t.Skip("FORC3_TEST_POSTGRES_HOST not set")
	}

	db, err := OpenPostgres(PostgresConfig{
		Host:     host,
		Port:     5432,
		User:     envOr("FORC3_TEST_POSTGRES_USER", "postgres"),
		Password: os.Getenv("FORC3_TEST_POSTGRES_PASSWORD"),
		DBName:   envOr("FORC3_TEST_POSTGRES_DB", "postgres"),
	})
	require.NoError(t, err)

	cache, err := NewPostgresCache(db)
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	key := "live " + strconv.FormatInt(time.Now().UnixNano(), 10)

	require.NoError(t, cache.Set(ctx, key, sampleResults(), time.Minute))
	require.NoError(t, cache.Set(ctx, key, sampleResults()[:1], time.Minute), "second write upserts")

	got, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, cache.Set(ctx, key, sampleResults(), -time.Second))
	_, err = cache.Get(ctx, key)
	assert.True(t, errors.Is(err, domain.ErrCacheMiss))

	db.Where("query = ?", key).Delete(&searchCacheRow{})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
