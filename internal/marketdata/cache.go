package marketdata

import (
	"context"

	"github.com/wonny/fundlens/backend/internal/benchmark"
	"github.com/wonny/fundlens/backend/pkg/logger"
	"github.com/wonny/fundlens/backend/pkg/redis"
)

// CachedPrices wraps a PriceProvider with a Redis day-line cache.
// 缓存键沿用 "{start}_{end}" 区间约定；Redis 关闭时直接透传。
type CachedPrices struct {
	inner  PriceProvider
	cache  *redis.Cache
	logger *logger.Logger
}

// NewCachedPrices creates a caching price provider
func NewCachedPrices(inner PriceProvider, cache *redis.Cache, log *logger.Logger) *CachedPrices {
	return &CachedPrices{
		inner:  inner,
		cache:  cache,
		logger: log,
	}
}

// DailyCloses serves the close series from cache when possible,
// falling back to the inner provider and repopulating on miss.
func (p *CachedPrices) DailyCloses(ctx context.Context, code, startDate, endDate string) ([]benchmark.PricePoint, error) {
	key := redis.PriceRangeKey(code, startDate, endDate)

	var cached []benchmark.PricePoint
	found, err := p.cache.Get(ctx, key, &cached)
	if err != nil {
		// 缓存故障不阻断取数，降级为直连
		p.logger.WithError(err).Warn("Price cache read failed")
	}
	if found {
		return cached, nil
	}

	prices, err := p.inner.DailyCloses(ctx, code, startDate, endDate)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, prices, redis.TTLDaily); err != nil {
		p.logger.WithError(err).Warn("Price cache write failed")
	}
	return prices, nil
}
