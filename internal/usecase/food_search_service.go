package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/force3dev/Forc3-sub001/internal/domain"
	"github.com/force3dev/Forc3-sub001/internal/metrics"
	"github.com/force3dev/Forc3-sub001/internal/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long a merged result list is served from cache
const DefaultCacheTTL = 7 * 24 * time.Hour

// FoodSearchConfig holds configuration for the food search service
type FoodSearchConfig struct {
	CacheTTL        time.Duration
	MaxResults      int
	ProviderTimeout time.Duration

	// CoalesceRequests makes concurrent identical queries share one fan-out
	CoalesceRequests bool

	// CacheEmptyResults also caches merges that produced nothing
	CacheEmptyResults bool
}

// SearchOutcome is a search result plus the per-provider telemetry behind it
type SearchOutcome struct {
	Query     string
	Results   []domain.FoodResult
	Reports   []domain.ProviderReport
	CacheHit  bool
	Coalesced bool
}

// FoodSearchService is the nutrition lookup engine: read-through cache,
// provider fan-out, merge and rank, and the direct barcode path.
// None of its entry points return errors; "no data" is an empty list or nil.
type FoodSearchService struct {
	gatherer *Gatherer
	barcode  domain.BarcodeProvider
	cache    domain.CacheStore
	config   FoodSearchConfig
	group    singleflight.Group
	logger   *zap.Logger
}

// NewFoodSearchService creates the engine. cache and barcode may be nil.
func NewFoodSearchService(
	providers []domain.FoodProvider,
	barcode domain.BarcodeProvider,
	cache domain.CacheStore,
	config FoodSearchConfig,
	log *zap.Logger,
) *FoodSearchService {
	if log == nil {
		log = zap.NewNop()
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	if config.MaxResults <= 0 {
		config.MaxResults = DefaultMaxResults
	}

	return &FoodSearchService{
		gatherer: NewGatherer(providers, config.ProviderTimeout, log),
		barcode:  barcode,
		cache:    cache,
		config:   config,
		logger:   log,
	}
}

// EnabledProviders lists the providers that currently have credentials, in merge order
func (s *FoodSearchService) EnabledProviders() []string {
	names := make([]string, 0, len(s.gatherer.Providers()))
	for _, p := range s.gatherer.Providers() {
		if e, ok := p.(interface{ Enabled() bool }); ok && !e.Enabled() {
			continue
		}
		names = append(names, p.Name())
	}
	return names
}

// SearchFoods returns the ranked results for a free-text query.
// Queries shorter than two characters yield an empty list without touching
// providers or the cache.
func (s *FoodSearchService) SearchFoods(ctx context.Context, raw string) []domain.FoodResult {
	return s.SearchFoodsDetailed(ctx, raw).Results
}

// SearchFoodsDetailed behaves like SearchFoods and also reports how the answer was produced
func (s *FoodSearchService) SearchFoodsDetailed(ctx context.Context, raw string) SearchOutcome {
	query, ok := NormalizeQuery(raw)
	if !ok {
		return SearchOutcome{Results: []domain.FoodResult{}}
	}

	if cached, hit := s.readCache(ctx, query); hit {
		return SearchOutcome{Query: query, Results: cached, CacheHit: true}
	}

	if !s.config.CoalesceRequests {
		results, reports := s.compute(ctx, query)
		return SearchOutcome{Query: query, Results: results, Reports: reports}
	}

	// The shared fan-out must outlive any single caller giving up
	ch := s.group.DoChan(query, func() (interface{}, error) {
		results, reports := s.compute(context.WithoutCancel(ctx), query)
		return computed{results: results, reports: reports}, nil
	})

	select {
	case res := <-ch:
		out := res.Val.(computed)
		if res.Shared {
			metrics.SearchCoalescedTotal.Inc()
			logger.ForContext(ctx, s.logger).Debug("search coalesced", zap.String("query", query))
		}
		return SearchOutcome{
			Query:     query,
			Results:   slices.Clone(out.results),
			Reports:   out.reports,
			Coalesced: res.Shared,
		}
	case <-ctx.Done():
		return SearchOutcome{Query: query, Results: []domain.FoodResult{}}
	}
}

type computed struct {
	results []domain.FoodResult
	reports []domain.ProviderReport
}

// compute runs the fan-out, ranks the merge and writes it back to the cache
func (s *FoodSearchService) compute(ctx context.Context, query string) ([]domain.FoodResult, []domain.ProviderReport) {
	start := time.Now()

	items, reports := s.gatherer.FanOut(ctx, query)
	results := MergeAndRank(items, query, s.config.MaxResults)

	if len(results) > 0 || s.config.CacheEmptyResults {
		s.writeCache(ctx, query, results)
	}

	failed := 0
	for _, r := range reports {
		if r.Status == domain.StatusTimeout || r.Status == domain.StatusError {
			failed++
		}
	}

	logger.ForContext(ctx, s.logger).Info("food search completed",
		zap.String("query", query),
		zap.Int("candidates", len(items)),
		zap.Int("results", len(results)),
		zap.Int("providers", len(reports)),
		zap.Int("providers_failed", failed),
		zap.Duration("duration", time.Since(start)),
	)

	return results, reports
}

func (s *FoodSearchService) readCache(ctx context.Context, query string) ([]domain.FoodResult, bool) {
	if s.cache == nil {
		return nil, false
	}

	cached, err := s.cache.Get(ctx, query)
	switch {
	case err == nil:
		metrics.ObserveCacheLookup("hit")
		if cached == nil {
			cached = []domain.FoodResult{}
		}
		return cached, true
	case errors.Is(err, domain.ErrCacheMiss):
		metrics.ObserveCacheLookup("miss")
	default:
		metrics.ObserveCacheLookup("error")
		logger.ForContext(ctx, s.logger).Warn("cache read failed, searching providers",
			zap.String("query", query),
			zap.Error(err),
		)
	}

	return nil, false
}

func (s *FoodSearchService) writeCache(ctx context.Context, query string, results []domain.FoodResult) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Set(ctx, query, results, s.config.CacheTTL); err != nil {
		metrics.CacheWriteErrorsTotal.Inc()
		logger.ForContext(ctx, s.logger).Warn("cache write failed",
			zap.String("query", query),
			zap.Error(err),
		)
	}
}

// GetFoodByBarcode looks a product code up directly, bypassing fan-out,
// ranking and the cache. Unknown or malformed codes yield nil.
func (s *FoodSearchService) GetFoodByBarcode(ctx context.Context, raw string) *domain.FoodResult {
	code, ok := NormalizeBarcode(raw)
	if !ok {
		metrics.ObserveBarcode("invalid")
		return nil
	}
	if s.barcode == nil {
		return nil
	}

	log := logger.ForContext(ctx, s.logger).With(
		zap.String("provider", s.barcode.Name()),
		zap.String("barcode", code),
	)

	result, err := safeLookup(ctx, s.barcode, code)
	switch {
	case err == nil && result != nil:
		metrics.ObserveBarcode("found")
		return result
	case err == nil, errors.Is(err, domain.ErrProductNotFound):
		metrics.ObserveBarcode("not_found")
		log.Debug("barcode not found")
	default:
		metrics.ObserveBarcode("error")
		log.Warn("barcode lookup failed", zap.Error(err))
	}

	return nil
}

func safeLookup(ctx context.Context, p domain.BarcodeProvider, code string) (result *domain.FoodResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: panic: %v", domain.ErrProviderUnavailable, r)
		}
	}()
	return p.LookupByCode(ctx, code)
}
