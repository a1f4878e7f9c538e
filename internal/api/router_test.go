package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fundlens/backend/internal/analytics"
	"github.com/wonny/fundlens/backend/internal/api/handlers"
	"github.com/wonny/fundlens/backend/internal/ledger"
	"github.com/wonny/fundlens/backend/pkg/config"
	"github.com/wonny/fundlens/backend/pkg/logger"
)

type stubLedger struct {
	pairs []ledger.TradePair
}

func (s *stubLedger) TradePairs(_ context.Context) ([]ledger.TradePair, error) {
	return s.pairs, nil
}

func testRouter() http.Handler {
	cfg := &config.Config{
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
	log := logger.New(cfg)

	source := &stubLedger{pairs: []ledger.TradePair{
		{
			Code: "600000", Name: "浦发银行",
			BuyDate: "2024-01-01", SellDate: "2024-01-03",
			BuyPrice: 10.0, SellPrice: 10.5,
			BuyShares: 100, SellShares: 100,
			BuyAmount: 1000.0, SellAmount: 1050.0,
		},
	}}
	service := analytics.NewService(cfg, log, source, nil, nil, nil, nil)
	return NewRouter(handlers.NewReportHandler(service, nil, log), log)
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "fundlens-api", body["service"])
}

func TestReportOverviewEndpoint(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/report/overview", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "示例私募证券投资基金", body["product_name"])
	assert.Equal(t, "2024-01-01", body["establishment_date"])
}

func TestReportMetricsEndpoint(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/report/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "metrics")
	assert.Contains(t, body, "metrics_table")
}

func TestMethodNotAllowed(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/report/overview", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
