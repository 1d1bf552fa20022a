package rates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pricelens/backend/internal/domain"
)

// CachedProvider memoizes rates from another provider for a fixed TTL
type CachedProvider struct {
	next  domain.RateProvider
	cache domain.CacheRepository
	ttl   time.Duration
}

// WithCache wraps next with a TTL cache. A non-positive ttl returns next unchanged.
func WithCache(next domain.RateProvider, cache domain.CacheRepository, ttl time.Duration) domain.RateProvider {
	if ttl <= 0 || cache == nil {
		return next
	}
	return &CachedProvider{next: next, cache: cache, ttl: ttl}
}

// GetRate serves from cache when possible and stores fresh rates otherwise
func (p *CachedProvider) GetRate(ctx context.Context, from, to domain.Currency) (decimal.Decimal, error) {
	key := cacheKey(from, to)

	if raw, err := p.cache.Get(ctx, key); err == nil {
		if rate, err := decimal.NewFromString(string(raw)); err == nil {
			return rate, nil
		}
		_ = p.cache.Delete(ctx, key)
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		zap.L().Warn("rates: cache read failed", zap.String("key", key), zap.Error(err))
	}

	rate, err := p.next.GetRate(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}

	if err := p.cache.Set(ctx, key, []byte(rate.String()), p.ttl); err != nil {
		zap.L().Warn("rates: cache write failed", zap.String("key", key), zap.Error(err))
	}
	return rate, nil
}

func cacheKey(from, to domain.Currency) string {
	return fmt.Sprintf("rate:%s:%s", from, to)
}
