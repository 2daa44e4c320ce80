package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/force3dev/Forc3-sub001/internal/domain"
	"github.com/force3dev/Forc3-sub001/internal/metrics"
	"github.com/force3dev/Forc3-sub001/internal/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/force3dev/Forc3-sub001/internal/usecase"

// Gatherer fans a query out to every provider and joins on all of them
type Gatherer struct {
	providers []domain.FoodProvider
	timeout   time.Duration
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewGatherer creates a Gatherer. Provider order is the merge order.
// A positive timeout bounds each provider call in addition to the adapter's own limit.
func NewGatherer(providers []domain.FoodProvider, timeout time.Duration, logger *zap.Logger) *Gatherer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gatherer{
		providers: providers,
		timeout:   timeout,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
	}
}

// Providers returns the configured providers in merge order
func (g *Gatherer) Providers() []domain.FoodProvider {
	return g.providers
}

// FanOut calls every provider concurrently and waits for all of them.
// Failed, disabled and timed-out providers contribute nothing; the report
// slice has one entry per provider in merge order.
func (g *Gatherer) FanOut(ctx context.Context, query string) ([]domain.FoodResult, []domain.ProviderReport) {
	outputs := make([][]domain.FoodResult, len(g.providers))
	reports := make([]domain.ProviderReport, len(g.providers))

	// A plain Group: one provider failing must not cancel the others
	var eg errgroup.Group
	for i, p := range g.providers {
		eg.Go(func() error {
			outputs[i], reports[i] = g.call(ctx, p, query)
			return nil
		})
	}
	_ = eg.Wait()

	total := 0
	for _, out := range outputs {
		total += len(out)
	}

	merged := make([]domain.FoodResult, 0, total)
	for _, out := range outputs {
		merged = append(merged, out...)
	}

	return merged, reports
}

func (g *Gatherer) call(ctx context.Context, p domain.FoodProvider, query string) ([]domain.FoodResult, domain.ProviderReport) {
	name := p.Name()

	ctx, span := g.tracer.Start(ctx, "provider.search",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("provider", name)),
	)
	defer span.End()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	results, err := g.await(ctx, p, query)
	if err != nil {
		results = nil
	}

	report := domain.ProviderReport{
		Provider: name,
		Status:   domain.ClassifyOutcome(len(results), err),
		Count:    len(results),
		Duration: time.Since(start),
		Err:      err,
	}

	span.SetAttributes(
		attribute.String("status", string(report.Status)),
		attribute.Int("results", report.Count),
	)
	if err != nil && report.Status != domain.StatusDisabled {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(report.Status))
	}

	metrics.ObserveProvider(report)
	g.logReport(ctx, query, report)

	return results, report
}

func (g *Gatherer) logReport(ctx context.Context, query string, report domain.ProviderReport) {
	fields := []zap.Field{
		zap.String("provider", report.Provider),
		zap.String("query", query),
		zap.String("status", string(report.Status)),
		zap.Int("count", report.Count),
		zap.Duration("duration", report.Duration),
	}

	log := logger.ForContext(ctx, g.logger)
	switch report.Status {
	case domain.StatusTimeout, domain.StatusError:
		log.Warn("provider search failed", append(fields, zap.Error(report.Err))...)
	default:
		log.Debug("provider search finished", fields...)
	}
}

type searchReply struct {
	results []domain.FoodResult
	err     error
}

// await runs the adapter on its own goroutine so an adapter that ignores ctx
// cannot hold the join past the deadline. A late reply is discarded.
func (g *Gatherer) await(ctx context.Context, p domain.FoodProvider, query string) ([]domain.FoodResult, error) {
	done := make(chan searchReply, 1)
	go func() {
		results, err := safeSearch(ctx, p, query)
		done <- searchReply{results: results, err: err}
	}()

	select {
	case reply := <-done:
		return reply.results, reply.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", domain.ErrProviderTimeout, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, ctx.Err())
	}
}

// safeSearch converts a panicking adapter into an ordinary failure
func safeSearch(ctx context.Context, p domain.FoodProvider, query string) (results []domain.FoodResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("%w: panic: %v", domain.ErrProviderUnavailable, r)
		}
	}()
	return p.Search(ctx, query)
}
