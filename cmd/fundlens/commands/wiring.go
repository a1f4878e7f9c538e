package commands

import (
	"fmt"

	"github.com/wonny/fundlens/backend/internal/analytics"
	"github.com/wonny/fundlens/backend/internal/marketdata"
	"github.com/wonny/fundlens/backend/pkg/config"
	"github.com/wonny/fundlens/backend/pkg/database"
	"github.com/wonny/fundlens/backend/pkg/httputil"
	"github.com/wonny/fundlens/backend/pkg/logger"
	"github.com/wonny/fundlens/backend/pkg/redis"
)

// buildService wires the report service from config.
// ⭐ 协作方装配只在这里：交割单来源、行情来源、指数行业数据
func buildService(cfg *config.Config, log *logger.Logger, db *database.DB, cache *redis.Client) *analytics.Service {
	// Ledger source: CSV file takes priority over the database table
	var source analytics.LedgerSource
	if cfg.Fund.LedgerCSV != "" {
		source = analytics.NewCSVLedger(cfg.Fund.LedgerCSV)
	} else {
		source = analytics.NewTradeRepository(db.Pool)
	}

	priceRepo := marketdata.NewPriceRepository(db.Pool)
	industryRepo := marketdata.NewIndustryRepository(db.Pool)

	// Benchmark quotes: HTTP kline service if configured, database otherwise
	var indexQuote marketdata.PriceProvider = priceRepo
	if cfg.Fund.IndexDataURL != "" {
		httpClient := httputil.New(cfg, log).
			WithRateLimiter(redis.NewRateLimiter(cache, "fundlens"), redis.IndexDataRateLimit)
		indexQuote = marketdata.NewIndexClient(httpClient, log, cfg.Fund.IndexDataURL)
	}
	indexQuote = marketdata.NewCachedPrices(indexQuote, redis.NewCache(cache, "fundlens"), log)

	return analytics.NewService(cfg, log, source, priceRepo, indexQuote, industryRepo, industryRepo)
}

// initDeps loads config and opens the shared connections
func initDeps() (*config.Config, *logger.Logger, *database.DB, *redis.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	cache, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, nil, nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	return cfg, log, db, cache, nil
}
