// Package trading 交易统计：分资产类别的买卖金额与年化换手率。
// 成交金额与持仓市值必须同单位（本仓库统一为万元），换手率才是无量纲百分比。
package trading

import (
	"github.com/wonny/fundlens/backend/internal/calendar"
	"github.com/wonny/fundlens/backend/pkg/formulas"
)

// Asset class labels. 与交割单的资产分类口径一致。
const (
	AssetStock = "股票"
	AssetFund  = "基金"
	AssetRepo  = "逆回购"
)

// Trade directions
const (
	DirectionBuy  = "买入"
	DirectionSell = "卖出"
)

// DefaultAssetClasses 默认统计的资产类别及输出顺序
var DefaultAssetClasses = []string{AssetStock, AssetFund, AssetRepo}

// Transaction is one trade record
type Transaction struct {
	Date       string  `json:"date"`
	AssetClass string  `json:"asset_class"`
	Direction  string  `json:"direction"`
	Amount     float64 `json:"amount"`
}

// DailyPosition is one day's per-class market value snapshot（万元）
type DailyPosition struct {
	Date       string  `json:"date"`
	StockValue float64 `json:"stock_value"`
	FundValue  float64 `json:"fund_value"`
	RepoValue  float64 `json:"repo_value"`
}

// TradingStats 单个资产类别的买卖金额合计（万元）
type TradingStats struct {
	BuyAmount  float64 `json:"buy_amount"`
	SellAmount float64 `json:"sell_amount"`
}

// Window is an inclusive [Start, End] period
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// classValue picks the market value field for an asset class
func classValue(p DailyPosition, assetClass string) float64 {
	switch assetClass {
	case AssetStock:
		return p.StockValue
	case AssetFund:
		return p.FundValue
	case AssetRepo:
		return p.RepoValue
	default:
		return 0
	}
}

// CalculateAvgMarketValue 期间内该资产类别的日均持仓市值（与输入同单位）。
// 区间内无快照时返回 0。
func CalculateAvgMarketValue(assetClass, periodStart, periodEnd string, positions []DailyPosition) float64 {
	total, count := 0.0, 0
	for _, p := range positions {
		if p.Date < periodStart || p.Date > periodEnd {
			continue
		}
		total += classValue(p, assetClass)
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// sumAmounts 区间内按方向汇总成交金额，保持输入单位
func sumAmounts(transactions []Transaction, assetClass, periodStart, periodEnd string) (float64, float64) {
	var buy, sell float64
	for _, txn := range transactions {
		if txn.AssetClass != assetClass {
			continue
		}
		if periodStart != "" && (txn.Date < periodStart || txn.Date > periodEnd) {
			continue
		}
		switch txn.Direction {
		case DirectionBuy:
			buy += txn.Amount
		case DirectionSell:
			sell += txn.Amount
		}
	}
	return buy, sell
}

// CalculateTurnoverRate 年化换手率（%）：
// (期间买入+卖出金额) / 日均市值 × (365/天数) × 100。
// 日均市值非正、天数非正或日期解析失败时返回 0。
func CalculateTurnoverRate(
	assetClass, periodStart, periodEnd string,
	transactions []Transaction,
	positions []DailyPosition,
) float64 {
	buy, sell := sumAmounts(transactions, assetClass, periodStart, periodEnd)
	totalTurnover := buy + sell

	avgValue := CalculateAvgMarketValue(assetClass, periodStart, periodEnd, positions)
	days, err := calendar.DaysBetween(periodStart, periodEnd)
	if err != nil {
		return 0
	}
	if avgValue <= 0 || days <= 0 {
		return 0
	}

	return formulas.Round(totalTurnover/avgValue*(365/float64(days))*100, 2)
}

// CalculateTurnoverRates 批量计算各资产类别在各时间段的换手率
func CalculateTurnoverRates(
	transactions []Transaction,
	positions []DailyPosition,
	periods map[string]Window,
	assetClasses []string,
) map[string]map[string]float64 {
	if assetClasses == nil {
		assetClasses = DefaultAssetClasses
	}

	result := make(map[string]map[string]float64, len(assetClasses))
	for _, assetClass := range assetClasses {
		byPeriod := make(map[string]float64, len(periods))
		for name, window := range periods {
			byPeriod[name] = CalculateTurnoverRate(
				assetClass, window.Start, window.End, transactions, positions,
			)
		}
		result[assetClass] = byPeriod
	}
	return result
}

// CalculateTradingStatistics 全期各资产类别的买卖金额合计（与输入同单位，2 位小数）
func CalculateTradingStatistics(transactions []Transaction, assetClasses []string) map[string]TradingStats {
	if assetClasses == nil {
		assetClasses = DefaultAssetClasses
	}

	stats := make(map[string]TradingStats, len(assetClasses))
	for _, assetClass := range assetClasses {
		buy, sell := sumAmounts(transactions, assetClass, "", "")
		stats[assetClass] = TradingStats{
			BuyAmount:  formulas.Round(buy, 2),
			SellAmount: formulas.Round(sell, 2),
		}
	}
	return stats
}
