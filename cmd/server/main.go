package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/force3dev/Forc3-sub001/config"
	httpDelivery "github.com/force3dev/Forc3-sub001/internal/delivery/http"
	"github.com/force3dev/Forc3-sub001/internal/domain"
	"github.com/force3dev/Forc3-sub001/internal/infrastructure/cache"
	"github.com/force3dev/Forc3-sub001/internal/infrastructure/edamam"
	"github.com/force3dev/Forc3-sub001/internal/infrastructure/ninjas"
	"github.com/force3dev/Forc3-sub001/internal/infrastructure/nutritionix"
	"github.com/force3dev/Forc3-sub001/internal/infrastructure/openfoodfacts"
	"github.com/force3dev/Forc3-sub001/internal/infrastructure/provider"
	"github.com/force3dev/Forc3-sub001/internal/infrastructure/usda"
	"github.com/force3dev/Forc3-sub001/internal/metrics"
	"github.com/force3dev/Forc3-sub001/internal/pkg/logger"
	"github.com/force3dev/Forc3-sub001/internal/usecase"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting forc3 nutrition service",
		zap.String("version", httpDelivery.Version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache_type", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
	)

	providers, barcode := buildProviders(cfg, zapLogger)

	store, closer, err := buildCache(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to initialize cache", zap.Error(err))
	}
	defer closer.Close()

	metrics.Register()

	service := usecase.NewFoodSearchService(providers, barcode, store, usecase.FoodSearchConfig{
		CacheTTL:          cfg.Cache.TTL,
		MaxResults:        cfg.Search.MaxResults,
		ProviderTimeout:   cfg.Search.ProviderTimeout,
		CoalesceRequests:  cfg.Search.CoalesceRequests,
		CacheEmptyResults: cfg.Search.CacheEmptyResults,
	}, zapLogger)

	enabled := service.EnabledProviders()
	if len(enabled) == 0 {
		zapLogger.Warn("no search provider has credentials; text search will return empty results")
	}
	zapLogger.Info("providers configured", zap.Strings("enabled", enabled))

	router := httpDelivery.SetupRouter(cfg, httpDelivery.NewHandler(service), zapLogger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("server exited")
}

// buildProviders creates the search adapters in merge order plus the barcode adapter
func buildProviders(cfg *config.Config, zapLogger *zap.Logger) ([]domain.FoodProvider, domain.BarcodeProvider) {
	base := func(p config.ProviderConfig) provider.Config {
		return provider.Config{
			BaseURL:   p.BaseURL,
			APIKey:    p.APIKey,
			Timeout:   cfg.Search.ProviderTimeout,
			Limit:     cfg.Search.ProviderLimit,
			UserAgent: p.UserAgent,
		}
	}

	usdaCfg := base(cfg.Providers.USDA)
	usdaCfg.RequestsPerHour = cfg.RateLimit.USDA

	off := openfoodfacts.NewClient(base(cfg.Providers.OpenFoodFacts), zapLogger)

	providers := []domain.FoodProvider{
		usda.NewClient(usdaCfg, zapLogger),
		nutritionix.NewClient(cfg.Providers.Nutritionix.AppID, base(cfg.Providers.Nutritionix), zapLogger),
		edamam.NewClient(cfg.Providers.Edamam.AppID, base(cfg.Providers.Edamam), zapLogger),
		ninjas.NewClient(base(cfg.Providers.Ninjas), zapLogger),
		off,
	}

	return providers, off
}

// buildCache selects the cache store named by cache.type.
// An unreachable Redis or Postgres degrades to cache misses, not a startup failure.
func buildCache(cfg *config.Config, zapLogger *zap.Logger) (domain.CacheStore, io.Closer, error) {
	switch cfg.Cache.Type {
	case "redis":
		client, err := cache.NewRedisClient(cfg.Cache.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		store := cache.NewRedisCache(client, cfg.Cache.KeyPrefix)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			// Searches still work without the cache
			zapLogger.Warn("redis unreachable at startup", zap.Error(err))
		}
		return store, client, nil

	case "postgres":
		pg := cfg.Cache.Postgres
		db, err := cache.OpenPostgres(cache.PostgresConfig{
			Host:     pg.Host,
			Port:     pg.Port,
			User:     pg.User,
			Password: pg.Password,
			DBName:   pg.DBName,
			SSLMode:  pg.SSLMode,
		})
		if err != nil {
			zapLogger.Warn("postgres unreachable, falling back to memory cache", zap.Error(err))
			memory := cache.NewMemoryCache()
			return memory, memory, nil
		}
		store, err := cache.NewPostgresCache(db)
		if err != nil {
			zapLogger.Warn("postgres cache unavailable, falling back to memory cache", zap.Error(err))
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				sqlDB.Close()
			}
			memory := cache.NewMemoryCache()
			return memory, memory, nil
		}
		return store, store, nil

	default:
		store := cache.NewMemoryCache()
		return store, store, nil
	}
}
