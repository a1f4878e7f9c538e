// Package marketdata 行情协作方边界：核心引擎只依赖这里的接口，
// 由 pgx 仓库、Redis 缓存等实现向上提供已物化的类型化序列。
package marketdata

import (
	"context"
	"math"

	"github.com/wonny/fundlens/backend/internal/benchmark"
	"github.com/wonny/fundlens/backend/internal/ledger"
)

// PriceProvider supplies daily close series for a single security or index.
type PriceProvider interface {
	// DailyCloses 返回 [startDate, endDate] 内按日期升序的收盘价序列
	DailyCloses(ctx context.Context, code, startDate, endDate string) ([]benchmark.PricePoint, error)
}

// MatrixProvider supplies closes for many codes at once, shaped for the
// ledger's daily valuation (code -> date -> close).
type MatrixProvider interface {
	CloseMatrix(ctx context.Context, codes []string, startDate, endDate string) (ledger.PriceTable, error)
}

// IndexProvider supplies benchmark index composition data for attribution.
type IndexProvider interface {
	// IndustryWeights 指定日期的指数行业权重（小数形式，行业名 -> 权重）
	IndustryWeights(ctx context.Context, indexCode, date string) (map[string]float64, error)
	// IndustryReturns 区间内逐日行业收益（date -> 行业名 -> 当日收益，小数形式）
	IndustryReturns(ctx context.Context, indexCode, startDate, endDate string) (map[string]map[string]float64, error)
}

// IndustryMapper maps security codes to industry names.
type IndustryMapper interface {
	IndustryOf(ctx context.Context, codes []string) (map[string]string, error)
}

// BenchmarkReturns converts a close series into daily simple returns with
// their dates. Non-finite ratios and non-positive previous closes are
// skipped so a suspended session cannot poison beta or tracking error.
func BenchmarkReturns(prices []benchmark.PricePoint) ([]float64, []string) {
	if len(prices) < 2 {
		return nil, nil
	}
	returns := make([]float64, 0, len(prices)-1)
	dates := make([]string, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1].Close
		if prev <= 0 {
			continue
		}
		r := (prices[i].Close - prev) / prev
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		returns = append(returns, r)
		dates = append(dates, prices[i].Date)
	}
	return returns, dates
}

// BenchmarkReturnsByDate is BenchmarkReturns reshaped as date -> return,
// the form the metric bundle's alignment expects.
func BenchmarkReturnsByDate(prices []benchmark.PricePoint) map[string]float64 {
	returns, dates := BenchmarkReturns(prices)
	if len(returns) == 0 {
		return nil
	}
	byDate := make(map[string]float64, len(returns))
	for i, d := range dates {
		byDate[d] = returns[i]
	}
	return byDate
}
