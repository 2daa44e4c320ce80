package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/force3dev/Forc3-sub001/internal/domain"
)

// fakeProvider is an instrumented domain.FoodProvider
type fakeProvider struct {
	name     string
	results  []domain.FoodResult
	err      error
	delay    time.Duration
	panicMsg string
	disabled bool

	// gate, when set, blocks Search until closed
	gate    chan struct{}
	started chan struct{}

	// maxCalls > 0 fails the test when exceeded
	maxCalls int32
	t        *testing.T

	calls     atomic.Int32
	lastQuery atomic.Value
	startOnce sync.Once
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Enabled() bool { return !f.disabled }

func (f *fakeProvider) Search(ctx context.Context, query string) ([]domain.FoodResult, error) {
	n := f.calls.Add(1)
	f.lastQuery.Store(query)
	if f.maxCalls > 0 && n > f.maxCalls && f.t != nil {
		f.t.Errorf("provider %s called %d times, allowed %d", f.name, n, f.maxCalls)
	}
	if f.started != nil {
		f.startOnce.Do(func() { close(f.started) })
	}

	if f.disabled {
		return nil, domain.ErrProviderDisabled
	}
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}

	out := make([]domain.FoodResult, len(f.results))
	copy(out, f.results)
	return out, nil
}

func (f *fakeProvider) Calls() int {
	return int(f.calls.Load())
}

// fakeCache is an instrumented domain.CacheStore with a controllable clock
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]domain.CacheEntry
	now     time.Time
	getErr  error
	setErr  error
	gets    int
	sets    int
	lastTTL time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]domain.CacheEntry{}, now: time.Now()}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]domain.FoodResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	entry, ok := c.entries[key]
	if !ok || entry.Expired(c.now) {
		return nil, domain.ErrCacheMiss
	}
	out := make([]domain.FoodResult, len(entry.Results))
	copy(out, entry.Results)
	return out, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, results []domain.FoodResult, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.lastTTL = ttl
	if c.setErr != nil {
		return c.setErr
	}
	stored := make([]domain.FoodResult, len(results))
	copy(stored, results)
	c.entries[key] = domain.CacheEntry{Query: key, Results: stored, ExpiresAt: c.now.Add(ttl)}
	return nil
}

func (c *fakeCache) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeCache) counts() (gets, sets int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gets, c.sets
}

func (c *fakeCache) entry(key string) (domain.CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e, ok
}

// fakeBarcode is an instrumented domain.BarcodeProvider
type fakeBarcode struct {
	products map[string]domain.FoodResult
	err      error
	calls    atomic.Int32
}

func (f *fakeBarcode) Name() string { return "openfoodfacts" }

func (f *fakeBarcode) LookupByCode(ctx context.Context, code string) (*domain.FoodResult, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[code]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p.Barcode = code
	return &p, nil
}

// foods builds n distinctly named verified results for a provider
func foods(source, stem string, n int) []domain.FoodResult {
	out := make([]domain.FoodResult, n)
	for i := range out {
		out[i] = domain.FoodResult{
			ID:          fmt.Sprintf("%s_%s_%d", source, stem, i),
			Name:        fmt.Sprintf("%s %s %d", stem, source, i),
			Calories:    float64(100 + i),
			ServingSize: 100,
			ServingUnit: "g",
			Source:      source,
			Verified:    true,
		}
	}
	return out
}
