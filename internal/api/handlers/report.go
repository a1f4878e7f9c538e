package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/wonny/fundlens/backend/internal/analytics"
	"github.com/wonny/fundlens/backend/pkg/logger"
)

// ReportHandler handles performance report API endpoints
// ⭐ SSOT: 报告类 API 处理器只在这个结构体
type ReportHandler struct {
	service *analytics.Service
	cache   *analytics.ReportCache
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler. The cache may be nil.
func NewReportHandler(service *analytics.Service, cache *analytics.ReportCache, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		cache:   cache,
		logger:  log,
	}
}

// fullReport serves from the cache when possible, rebuilding otherwise
func (h *ReportHandler) fullReport(ctx context.Context) (*analytics.FullReport, error) {
	if h.cache != nil {
		if full, ok := h.cache.Get(); ok {
			return full, nil
		}
	}

	full, err := h.service.BuildFullReport(ctx)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		h.cache.Set(full)
	}
	return full, nil
}

// GetOverview returns the performance overview section
// GET /api/report/overview
func (h *ReportHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	full, err := h.fullReport(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build report")
		respondError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	respondJSON(w, http.StatusOK, full.Overview)
}

// GetMetrics returns the full metric bundle with its table rendition
// GET /api/report/metrics
func (h *ReportHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	full, err := h.fullReport(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build report")
		respondError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"metrics":            full.Metrics,
		"metrics_table":      full.MetricsTable,
		"nav_performance":    full.NavPerformance,
		"drawdown":           full.Drawdown,
		"asset_distribution": full.AssetDistribution,
	})
}

// GetAttribution returns attribution and trading statistics
// GET /api/report/attribution
func (h *ReportHandler) GetAttribution(w http.ResponseWriter, r *http.Request) {
	full, err := h.fullReport(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build report")
		respondError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"brinson":              full.Brinson,
		"industry_attribution": full.IndustryAttribution,
		"stock_performance":    full.StockPerformance,
		"position_nodes":       full.PositionNodes,
		"turnover_rates":       full.TurnoverRates,
		"trading_stats":        full.TradingStats,
	})
}

// GetFullReport returns the complete report payload
// GET /api/report/full
func (h *ReportHandler) GetFullReport(w http.ResponseWriter, r *http.Request) {
	full, err := h.fullReport(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build report")
		respondError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	respondJSON(w, http.StatusOK, full)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
