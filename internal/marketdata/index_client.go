package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/wonny/fundlens/backend/internal/benchmark"
	"github.com/wonny/fundlens/backend/pkg/httputil"
	"github.com/wonny/fundlens/backend/pkg/logger"
)

// IndexClient fetches benchmark index daily closes over HTTP.
// ⭐ SSOT: 指数行情的外部拉取只在这个客户端
type IndexClient struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewIndexClient creates a new index quote client
func NewIndexClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *IndexClient {
	return &IndexClient{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
	}
}

// klineResponse is the upstream daily kline payload.
// 每个 kline 形如 "2025-04-01,3990.50,..."，首列日期、次列收盘。
type klineResponse struct {
	Code   string   `json:"code"`
	Name   string   `json:"name"`
	Klines []string `json:"klines"`
}

// DailyCloses fetches the index close series for a date range,
// implementing PriceProvider.
func (c *IndexClient) DailyCloses(ctx context.Context, code, startDate, endDate string) ([]benchmark.PricePoint, error) {
	params := url.Values{}
	params.Set("code", code)
	params.Set("start", startDate)
	params.Set("end", endDate)

	fullURL := fmt.Sprintf("%s/api/index/kline?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("fetch index kline %s: %w", code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("index kline %s: unexpected status code %d", code, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read index kline body: %w", err)
	}

	var payload klineResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode index kline %s: %w", code, err)
	}

	prices, skipped := parseKlines(payload.Klines)
	if skipped > 0 {
		c.logger.WithFields(map[string]interface{}{
			"code":    code,
			"skipped": skipped,
		}).Warn("Skipped malformed kline rows")
	}
	return prices, nil
}

// parseKlines converts raw kline rows into price points, counting rows
// it had to skip. 行格式异常不是致命错误，跳过即可。
func parseKlines(klines []string) ([]benchmark.PricePoint, int) {
	prices := make([]benchmark.PricePoint, 0, len(klines))
	skipped := 0
	for _, line := range klines {
		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			skipped++
			continue
		}
		date := strings.TrimSpace(parts[0])
		close, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || len(date) != 10 {
			skipped++
			continue
		}
		prices = append(prices, benchmark.PricePoint{Date: date, Close: close})
	}
	return prices, skipped
}
