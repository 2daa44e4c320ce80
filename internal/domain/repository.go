package domain

import (
	"context"
	"time"
)

// CacheStore defines the interface for the search result cache.
// Get returns ErrCacheMiss for absent or expired keys.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]FoodResult, error)
	Set(ctx context.Context, key string, results []FoodResult, ttl time.Duration) error
}

// FoodProvider defines the interface for a third-party nutrition search source.
// Errors are informational: callers treat any error as "no results".
type FoodProvider interface {
	Name() string
	Search(ctx context.Context, query string) ([]FoodResult, error)
}

// BarcodeProvider defines the interface for exact product code lookups.
// An unknown code yields ErrProductNotFound.
type BarcodeProvider interface {
	Name() string
	LookupByCode(ctx context.Context, code string) (*FoodResult, error)
}
