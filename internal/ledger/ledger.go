// Package ledger 交割单估值：由成对的买卖记录重建每日持仓与资产分布。
//
// 口径说明：
//   - 持仓股数按日终（EOD）计：当日卖出立即离仓。
//   - 现金 = 初始资金 - 累计买入金额 + 累计卖出金额。
//   - 收盘价缺失时向前填充，仍缺失者回退用成交价，最后向后填充。
//
// 价格数据由调用方预先取好传入，本包不做任何 I/O。
package ledger

import (
	"fmt"
	"sort"

	"github.com/wonny/fundlens/backend/internal/calendar"
	"github.com/wonny/fundlens/backend/pkg/formulas"
)

// TradePair is one reconciled buy/sell row of the trade ledger.
// 卖出字段可以为空（未平仓）：SellDate 为空串、数量金额为 0。
type TradePair struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	BuyDate    string  `json:"buy_date"`
	SellDate   string  `json:"sell_date"`
	BuyPrice   float64 `json:"buy_price"`
	SellPrice  float64 `json:"sell_price"`
	BuyShares  float64 `json:"buy_shares"`
	SellShares float64 `json:"sell_shares"`
	BuyAmount  float64 `json:"buy_amount"`
	SellAmount float64 `json:"sell_amount"`
}

// DailyAssetRow is one day of the asset distribution series
type DailyAssetRow struct {
	Date        string  `json:"date"`
	TotalAssets float64 `json:"total_assets"`
	StockValue  float64 `json:"stock_value"`
	CashValue   float64 `json:"cash_value"`
	StockPct    float64 `json:"stock_pct"`
	CashPct     float64 `json:"cash_pct"`
}

// PriceTable maps code -> date -> close price
type PriceTable map[string]map[string]float64

// DateBounds returns the min buy date and max event date across the ledger
func DateBounds(pairs []TradePair) (string, string) {
	var minDate, maxDate string
	consider := func(date string) {
		if date == "" {
			return
		}
		if minDate == "" || date < minDate {
			minDate = date
		}
		if maxDate == "" || date > maxDate {
			maxDate = date
		}
	}
	for _, pair := range pairs {
		consider(pair.BuyDate)
		consider(pair.SellDate)
	}
	return minDate, maxDate
}

// DailyHoldings 每日日终持仓股数（date -> code -> shares），
// 累计买入 - 累计卖出，钳制非负。
func DailyHoldings(pairs []TradePair, dates []string) map[string]map[string]float64 {
	buyByDay := make(map[string]map[string]float64)
	sellByDay := make(map[string]map[string]float64)
	add := func(m map[string]map[string]float64, date, code string, qty float64) {
		if date == "" || qty == 0 {
			return
		}
		if m[date] == nil {
			m[date] = make(map[string]float64)
		}
		m[date][code] += qty
	}
	for _, pair := range pairs {
		add(buyByDay, pair.BuyDate, pair.Code, pair.BuyShares)
		add(sellByDay, pair.SellDate, pair.Code, pair.SellShares)
	}

	cumulative := make(map[string]float64)
	holdings := make(map[string]map[string]float64, len(dates))
	for _, date := range dates {
		for code, qty := range buyByDay[date] {
			cumulative[code] += qty
		}
		for code, qty := range sellByDay[date] {
			cumulative[code] -= qty
		}

		snapshot := make(map[string]float64)
		for code, qty := range cumulative {
			if qty > 0 {
				snapshot[code] = qty
			}
		}
		holdings[date] = snapshot
	}
	return holdings
}

// Codes lists every stock code appearing in the ledger, sorted
func Codes(pairs []TradePair) []string {
	seen := make(map[string]struct{})
	for _, pair := range pairs {
		if pair.Code != "" {
			seen[pair.Code] = struct{}{}
		}
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// FallbackTradePrices builds a per-day price table from the trades themselves,
// 取当日最后一笔成交价，卖出价覆盖买入价（更接近收盘）。
// 高频策略下实际成交价比行情复权价更贴近真实市值。
func FallbackTradePrices(pairs []TradePair, codes []string, dates []string) PriceTable {
	wanted := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		wanted[code] = struct{}{}
	}

	table := make(PriceTable, len(codes))
	set := func(code, date string, price float64) {
		if date == "" || price <= 0 {
			return
		}
		if _, ok := wanted[code]; !ok {
			return
		}
		if table[code] == nil {
			table[code] = make(map[string]float64)
		}
		table[code][date] = price
	}
	// 先写买入价再写卖出价，同日时卖出价胜出
	for _, pair := range pairs {
		set(pair.Code, pair.BuyDate, pair.BuyPrice)
	}
	for _, pair := range pairs {
		set(pair.Code, pair.SellDate, pair.SellPrice)
	}

	for _, code := range codes {
		if table[code] == nil {
			table[code] = make(map[string]float64)
		}
		fillPriceSeries(table[code], dates)
	}
	return table
}

// fillPriceSeries forward-fills then back-fills a sparse date->price map
// in place over the full date axis. 仍缺失的日期填 0。
func fillPriceSeries(series map[string]float64, dates []string) {
	last := 0.0
	for _, date := range dates {
		if p, ok := series[date]; ok && p > 0 {
			last = p
		} else {
			series[date] = last
		}
	}
	// back fill：找到首个正价格，回填前缀
	first := 0.0
	for _, date := range dates {
		if series[date] > 0 {
			first = series[date]
			break
		}
	}
	for _, date := range dates {
		if series[date] > 0 {
			break
		}
		series[date] = first
	}
}

// CalculateDailyAssetDistribution rebuilds the daily asset split from the
// trade ledger and a pre-fetched close-price table.
// prices 缺某只股票时自动回退为该股票的成交价序列。
func CalculateDailyAssetDistribution(pairs []TradePair, initialCapital float64, prices PriceTable) ([]DailyAssetRow, error) {
	if initialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be positive, got %f", initialCapital)
	}
	if len(pairs) == 0 {
		return nil, nil
	}

	minDate, maxDate := DateBounds(pairs)
	if minDate == "" {
		return nil, nil
	}
	dates, err := calendar.GenerateDateRange(minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("generate date range: %w", err)
	}

	codes := Codes(pairs)

	// 补齐价格表：行情缺失的股票用成交价兜底
	filled := make(PriceTable, len(codes))
	var missing []string
	for _, code := range codes {
		if len(prices[code]) > 0 {
			series := make(map[string]float64, len(prices[code]))
			for date, p := range prices[code] {
				series[date] = p
			}
			fillPriceSeries(series, dates)
			filled[code] = series
		} else {
			missing = append(missing, code)
		}
	}
	if len(missing) > 0 {
		fallback := FallbackTradePrices(pairs, missing, dates)
		for code, series := range fallback {
			filled[code] = series
		}
	}

	holdings := DailyHoldings(pairs, dates)

	buyMoney := make(map[string]float64)
	sellMoney := make(map[string]float64)
	for _, pair := range pairs {
		if pair.BuyDate != "" {
			buyMoney[pair.BuyDate] += pair.BuyAmount
		}
		if pair.SellDate != "" {
			sellMoney[pair.SellDate] += pair.SellAmount
		}
	}

	rows := make([]DailyAssetRow, 0, len(dates))
	cumBuy, cumSell := 0.0, 0.0
	for _, date := range dates {
		cumBuy += buyMoney[date]
		cumSell += sellMoney[date]

		stockValue := 0.0
		for code, qty := range holdings[date] {
			stockValue += qty * filled[code][date]
		}
		cashValue := initialCapital - cumBuy + cumSell
		totalAssets := stockValue + cashValue

		stockPct, cashPct := 0.0, 0.0
		if totalAssets != 0 {
			stockPct = stockValue / totalAssets * 100
			cashPct = cashValue / totalAssets * 100
		}

		rows = append(rows, DailyAssetRow{
			Date:        date,
			TotalAssets: formulas.Round(totalAssets, 2),
			StockValue:  formulas.Round(stockValue, 2),
			CashValue:   formulas.Round(cashValue, 2),
			StockPct:    formulas.Round(stockPct, 4),
			CashPct:     formulas.Round(cashPct, 4),
		})
	}
	return rows, nil
}
