// Package app builds the price comparison object graph from configuration.
package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pricelens/backend/config"
	httpDelivery "github.com/pricelens/backend/internal/delivery/http"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/cache"
	"github.com/pricelens/backend/internal/infrastructure/marketplace"
	"github.com/pricelens/backend/internal/infrastructure/rates"
	"github.com/pricelens/backend/internal/infrastructure/store"
	"github.com/pricelens/backend/internal/usecase"
)

// App owns every long-lived dependency
type App struct {
	Config     *config.Config
	Comparison *usecase.ComparisonService
	Store      store.Store

	rateCache *cache.MemoryCache
}

// New opens the record store and wires the lookup pipeline
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	st, err := store.Open(ctx, store.Config{
		Driver:      cfg.Store.Driver,
		SQLitePath:  cfg.Store.SQLitePath,
		PostgresURL: cfg.Store.PostgresURL,
		Pool: store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		},
	})
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Store: st}

	var rateProvider domain.RateProvider = rates.NewClient(cfg.Rates.BaseURL, cfg.Rates.Timeout)
	if cfg.Rates.CacheTTL > 0 {
		a.rateCache = cache.NewMemoryCache()
		rateProvider = rates.WithCache(rateProvider, a.rateCache, cfg.Rates.CacheTTL)
		zap.L().Info("app: rate cache enabled", zap.Duration("ttl", cfg.Rates.CacheTTL))
	}

	fetcher := marketplace.NewFetcher(
		marketplace.Endpoints(cfg.Marketplace.EbayBaseURL, cfg.Marketplace.FlipkartBaseURL),
		marketplace.FetcherConfig{
			UserAgent:         cfg.Marketplace.UserAgent,
			Timeout:           cfg.Marketplace.Timeout,
			MaxBodyBytes:      cfg.Marketplace.MaxBodyBytes,
			MaxAttempts:       cfg.Marketplace.MaxAttempts,
			RequestsPerSecond: cfg.Marketplace.RequestsPerSecond,
			Burst:             cfg.Marketplace.Burst,
		},
	)

	lookup := usecase.NewLookupService(
		fetcher,
		marketplace.NewParsers(cfg.Marketplace.EbaySkipLeading),
		usecase.NewCurrencyConverter(rateProvider),
	)

	currencies := make([]domain.Currency, 0, len(cfg.Currencies.Supported))
	for _, code := range cfg.Currencies.Supported {
		c, err := domain.ParseCurrency(code)
		if err != nil {
			st.Close() //nolint:errcheck
			return nil, err
		}
		currencies = append(currencies, c)
	}

	a.Comparison = usecase.NewComparisonService(lookup, st, usecase.ComparisonServiceConfig{
		Concurrency: cfg.Session.Concurrency,
		Currencies:  currencies,
	})

	return a, nil
}

// Router returns the HTTP router serving the comparison API
func (a *App) Router() *gin.Engine {
	handler := httpDelivery.NewHandler(a.Comparison, httpDelivery.HandlerConfig{
		DefaultCurrency: a.Config.Currencies.Default,
		RequestTimeout:  a.Config.Server.RequestTimeout,
	})
	return httpDelivery.SetupRouter(a.Config, handler)
}

// Close releases the store and stops the rate cache sweeper
func (a *App) Close() error {
	if a.rateCache != nil {
		a.rateCache.Close()
	}
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}
