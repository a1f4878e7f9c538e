package analytics

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fundlens/backend/internal/ledger"
	"github.com/wonny/fundlens/backend/pkg/config"
	"github.com/wonny/fundlens/backend/pkg/logger"
)

type stubLedger struct {
	pairs []ledger.TradePair
	err   error
}

func (s *stubLedger) TradePairs(_ context.Context) ([]ledger.TradePair, error) {
	return s.pairs, s.err
}

func testConfig() *config.Config {
	return &config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
		Fund: config.FundConfig{
			Name:           "示例私募证券投资基金",
			InitialCapital: 10000.0,
			RiskFreeRate:   0.03,
			BenchmarkIndex: "000300.SH",
		},
	}
}

func TestBuildFullReportWithoutMarketData(t *testing.T) {
	pairs, _, _ := ledgerFixture()
	cfg := testConfig()
	svc := NewService(cfg, logger.New(cfg), &stubLedger{pairs: pairs}, nil, nil, nil, nil)

	full, err := svc.BuildFullReport(context.Background())
	require.NoError(t, err)

	// 无行情时估值回退用成交价
	require.Len(t, full.AssetDistribution, 3)
	assert.Equal(t, 10000.0, full.AssetDistribution[0].TotalAssets)
	assert.Equal(t, 10050.0, full.AssetDistribution[2].TotalAssets)

	assert.Equal(t, cfg.Fund.Name, full.Overview.ProductName)
	assert.Equal(t, "2024-01-01", full.Overview.EstablishmentDate)
	assert.InDelta(t, 1.005, full.Overview.UnitNav, 1e-9)
	assert.InDelta(t, 0.5, full.Overview.TotalReturn, 1e-9)

	require.Len(t, full.NavPerformance.NavSeries, 3)
	assert.NotEmpty(t, full.MetricsTable)
	assert.NotEmpty(t, full.NavPerformance.PeriodMetricsTable)

	// 无指数成分数据：跳过 Brinson，个股与行业口径仍然可用
	assert.Empty(t, full.Brinson.Daily)
	require.Len(t, full.StockPerformance, 2)
	require.Len(t, full.PositionNodes, 7)
	assert.NotEmpty(t, full.IndustryAttribution)

	assert.Contains(t, full.TurnoverRates, "股票")
	assert.NotEmpty(t, full.TurnoverTable)
	assert.NotEmpty(t, full.TradingStatsTable)
	assert.NotEmpty(t, full.GeneratedAt)
}

func TestBuildFullReportEstablishDateOverride(t *testing.T) {
	pairs, _, _ := ledgerFixture()
	cfg := testConfig()
	cfg.Fund.EstablishDate = "2023-12-01"
	svc := NewService(cfg, logger.New(cfg), &stubLedger{pairs: pairs}, nil, nil, nil, nil)

	full, err := svc.BuildFullReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2023-12-01", full.Overview.EstablishmentDate)
}

func TestBuildFullReportEmptyLedger(t *testing.T) {
	cfg := testConfig()
	svc := NewService(cfg, logger.New(cfg), &stubLedger{}, nil, nil, nil, nil)

	_, err := svc.BuildFullReport(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestBuildFullReportSourceError(t *testing.T) {
	cfg := testConfig()
	svc := NewService(cfg, logger.New(cfg), &stubLedger{err: fmt.Errorf("boom")}, nil, nil, nil, nil)

	_, err := svc.BuildFullReport(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load trade ledger")
}
