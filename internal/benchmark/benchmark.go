// Package benchmark 基准指数序列处理（纯计算器）。
// 收盘价序列按日期升序输入，所有结果以百分数输出。
package benchmark

import (
	"github.com/wonny/fundlens/backend/internal/nav"
	"github.com/wonny/fundlens/backend/pkg/formulas"
)

// PricePoint is one day of a benchmark close-price series
type PricePoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// CumulativePoint is one day of the benchmark cumulative-return series
type CumulativePoint struct {
	Date             string  `json:"date"`
	CumulativeReturn float64 `json:"cumulative_return"`
}

// ExcessPoint 单日累计超额收益（产品 - 基准）
type ExcessPoint struct {
	Date         string  `json:"date"`
	ExcessReturn float64 `json:"excess_return"`
}

// CalculateCumulativeReturns 累计收益率 = (close[t] - close[0]) / close[0] × 100。
// 首日收盘价为 0 时整条序列返回 0，保留日期轴。
func CalculateCumulativeReturns(prices []PricePoint) []CumulativePoint {
	if len(prices) == 0 {
		return nil
	}

	initial := prices[0].Close
	result := make([]CumulativePoint, 0, len(prices))
	for _, p := range prices {
		value := 0.0
		if initial != 0 {
			value = (p.Close - initial) / initial * 100
		}
		result = append(result, CumulativePoint{
			Date:             p.Date,
			CumulativeReturn: formulas.Round(value, 2),
		})
	}
	return result
}

// CalculateDrawdowns 基准回撤序列，与净值回撤共用同一个移动峰值算法
func CalculateDrawdowns(prices []PricePoint) []nav.DailyDrawdown {
	series := make([]nav.DatedValue, 0, len(prices))
	for _, p := range prices {
		series = append(series, nav.DatedValue{Date: p.Date, Value: p.Close})
	}
	return nav.RunningPeakDrawdowns(series)
}

// CalculatePeriodReturn 基准期间收益率（%）。
// startDate/endDate 为空串表示该侧不设界；过滤后为空或首价为 0 返回 0。
func CalculatePeriodReturn(prices []PricePoint, startDate, endDate string) float64 {
	var filtered []PricePoint
	for _, p := range prices {
		if startDate != "" && p.Date < startDate {
			continue
		}
		if endDate != "" && p.Date > endDate {
			continue
		}
		filtered = append(filtered, p)
	}

	if len(filtered) == 0 {
		return 0
	}

	initial := filtered[0].Close
	final := filtered[len(filtered)-1].Close
	if initial == 0 {
		return 0
	}
	return formulas.Round((final-initial)/initial*100, 2)
}

// CalculateCumulativeExcessReturns 按日期对齐产品与基准的累计收益，
// 基准缺某日时按 0 处理，产品日期轴不缩减。
func CalculateCumulativeExcessReturns(product []nav.CumulativePoint, benchmark []CumulativePoint) []ExcessPoint {
	benchmarkByDate := make(map[string]float64, len(benchmark))
	for _, b := range benchmark {
		benchmarkByDate[b.Date] = b.CumulativeReturn
	}

	result := make([]ExcessPoint, 0, len(product))
	for _, p := range product {
		result = append(result, ExcessPoint{
			Date:         p.Date,
			ExcessReturn: formulas.Round(p.CumulativeReturn-benchmarkByDate[p.Date], 2),
		})
	}
	return result
}

// DailyReturns 基准日收益率序列及对应日期（小数形式），
// 供 β 和跟踪误差的日期对齐使用。前一日收盘价非正时回退为 0。
func DailyReturns(prices []PricePoint) ([]float64, []string) {
	if len(prices) < 2 {
		return nil, nil
	}

	returns := make([]float64, 0, len(prices)-1)
	dates := make([]string, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1].Close
		ret := 0.0
		if prev > 0 {
			ret = (prices[i].Close - prev) / prev
		}
		returns = append(returns, ret)
		dates = append(dates, prices[i].Date)
	}
	return returns, dates
}
