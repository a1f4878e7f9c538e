package analytics

import (
	"github.com/wonny/fundlens/backend/internal/attribution"
	"github.com/wonny/fundlens/backend/internal/ledger"
	"github.com/wonny/fundlens/backend/internal/nav"
	"github.com/wonny/fundlens/backend/internal/trading"
)

// BuildAssetSnapshots reshapes the valuation series for the NAV engine.
func BuildAssetSnapshots(rows []ledger.DailyAssetRow) []nav.AssetSnapshot {
	snapshots := make([]nav.AssetSnapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, nav.AssetSnapshot{
			Date:        row.Date,
			TotalAssets: row.TotalAssets,
		})
	}
	return snapshots
}

// BuildDailySnapshots rebuilds per-day position snapshots for attribution.
// 期初市值取前一日市值，当日净现金流 = 买入金额 - 卖出金额，
// 盈亏 = 期末 - 期初 - 净现金流。首日期初市值为 0（建仓日全部算现金流）。
func BuildDailySnapshots(
	pairs []ledger.TradePair,
	prices ledger.PriceTable,
	rows []ledger.DailyAssetRow,
) []attribution.DailySnapshot {
	if len(pairs) == 0 || len(rows) == 0 {
		return nil
	}

	dates := make([]string, 0, len(rows))
	totalAssets := make(map[string]float64, len(rows))
	for _, row := range rows {
		dates = append(dates, row.Date)
		totalAssets[row.Date] = row.TotalAssets
	}

	holdings := ledger.DailyHoldings(pairs, dates)
	names := codeNames(pairs)
	buyFlow, sellFlow := dailyFlows(pairs)

	priceAt := func(code, date string) float64 {
		series, ok := prices[code]
		if !ok {
			return 0
		}
		return series[date]
	}

	snapshots := make([]attribution.DailySnapshot, 0, len(dates))
	prevValue := make(map[string]float64)
	for _, date := range dates {
		snapshot := attribution.DailySnapshot{
			Date:        date,
			TotalAssets: totalAssets[date],
		}

		value := make(map[string]float64)
		for code, qty := range holdings[date] {
			value[code] = qty * priceAt(code, date)
		}
		// 当日清仓的股票也要出现在快照里，否则平仓盈亏丢失
		for code := range prevValue {
			if _, ok := value[code]; !ok {
				value[code] = 0
			}
		}

		for code, mv := range value {
			begin := prevValue[code]
			ncf := buyFlow[date][code] - sellFlow[date][code]
			if mv == 0 && begin == 0 && ncf == 0 {
				continue
			}
			snapshot.Positions = append(snapshot.Positions, attribution.Position{
				Code:             code,
				Name:             names[code],
				MarketValue:      mv,
				BeginMarketValue: begin,
				NetCashFlow:      ncf,
				ProfitLoss:       mv - begin - ncf,
			})
		}

		prevValue = make(map[string]float64, len(value))
		for code, mv := range value {
			if mv > 0 {
				prevValue[code] = mv
			}
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots
}

// BuildTransactions flattens trade pairs into dated buy/sell records.
// 台账里只有股票交易；基金、逆回购类别留空由上层扩展。
func BuildTransactions(pairs []ledger.TradePair) []trading.Transaction {
	transactions := make([]trading.Transaction, 0, len(pairs)*2)
	for _, pair := range pairs {
		if pair.BuyDate != "" && pair.BuyAmount > 0 {
			transactions = append(transactions, trading.Transaction{
				Date:       pair.BuyDate,
				AssetClass: trading.AssetStock,
				Direction:  trading.DirectionBuy,
				Amount:     pair.BuyAmount,
			})
		}
		if pair.SellDate != "" && pair.SellAmount > 0 {
			transactions = append(transactions, trading.Transaction{
				Date:       pair.SellDate,
				AssetClass: trading.AssetStock,
				Direction:  trading.DirectionSell,
				Amount:     pair.SellAmount,
			})
		}
	}
	return transactions
}

// BuildDailyPositions reshapes the valuation series for turnover stats.
func BuildDailyPositions(rows []ledger.DailyAssetRow) []trading.DailyPosition {
	positions := make([]trading.DailyPosition, 0, len(rows))
	for _, row := range rows {
		positions = append(positions, trading.DailyPosition{
			Date:       row.Date,
			StockValue: row.StockValue,
		})
	}
	return positions
}

// BuildPerformancePositions aggregates the ledger per stock for the
// performance and TOP-N views. 盈亏 = 累计卖出 + 期末市值 - 累计买入。
func BuildPerformancePositions(
	pairs []ledger.TradePair,
	prices ledger.PriceTable,
	endDate string,
) []attribution.Position {
	if len(pairs) == 0 {
		return nil
	}

	type agg struct {
		name       string
		buyAmount  float64
		sellAmount float64
		shares     float64
	}
	byCode := make(map[string]*agg)
	for _, pair := range pairs {
		a, ok := byCode[pair.Code]
		if !ok {
			a = &agg{}
			byCode[pair.Code] = a
		}
		if pair.Name != "" {
			a.name = pair.Name
		}
		a.buyAmount += pair.BuyAmount
		a.sellAmount += pair.SellAmount
		a.shares += pair.BuyShares - pair.SellShares
	}

	positions := make([]attribution.Position, 0, len(byCode))
	for code, a := range byCode {
		endValue := 0.0
		if a.shares > 0 {
			if series, ok := prices[code]; ok {
				endValue = a.shares * series[endDate]
			}
		}
		positions = append(positions, attribution.Position{
			Code:        code,
			Name:        a.name,
			MarketValue: endValue,
			ProfitLoss:  a.sellAmount + endValue - a.buyAmount,
		})
	}
	return positions
}

func codeNames(pairs []ledger.TradePair) map[string]string {
	names := make(map[string]string)
	for _, pair := range pairs {
		if pair.Name != "" {
			names[pair.Code] = pair.Name
		}
	}
	return names
}

// dailyFlows sums buy and sell amounts per day per code.
func dailyFlows(pairs []ledger.TradePair) (buy, sell map[string]map[string]float64) {
	buy = make(map[string]map[string]float64)
	sell = make(map[string]map[string]float64)
	add := func(m map[string]map[string]float64, date, code string, amount float64) {
		if date == "" || amount == 0 {
			return
		}
		if m[date] == nil {
			m[date] = make(map[string]float64)
		}
		m[date][code] += amount
	}
	for _, pair := range pairs {
		add(buy, pair.BuyDate, pair.Code, pair.BuyAmount)
		add(sell, pair.SellDate, pair.Code, pair.SellAmount)
	}
	return buy, sell
}
