package trading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tradingFixture() ([]Transaction, []DailyPosition) {
	// 金额与市值同单位（万元）
	transactions := []Transaction{
		{Date: "2024-01-02", AssetClass: AssetStock, Direction: DirectionBuy, Amount: 100},
		{Date: "2024-01-05", AssetClass: AssetStock, Direction: DirectionSell, Amount: 50},
		{Date: "2024-01-03", AssetClass: AssetFund, Direction: DirectionBuy, Amount: 20},
		{Date: "2024-02-01", AssetClass: AssetStock, Direction: DirectionBuy, Amount: 30},
	}
	positions := []DailyPosition{
		{Date: "2024-01-01", StockValue: 100, FundValue: 20},
		{Date: "2024-01-05", StockValue: 120, FundValue: 20},
		{Date: "2024-01-10", StockValue: 80, FundValue: 20},
	}
	return transactions, positions
}

func TestCalculateAvgMarketValue(t *testing.T) {
	_, positions := tradingFixture()

	avg := CalculateAvgMarketValue(AssetStock, "2024-01-01", "2024-01-10", positions)
	assert.Equal(t, 100.0, avg)

	// 区间外快照不计入
	avg = CalculateAvgMarketValue(AssetStock, "2024-01-05", "2024-01-10", positions)
	assert.Equal(t, 100.0, avg)

	assert.Equal(t, 20.0, CalculateAvgMarketValue(AssetFund, "2024-01-01", "2024-01-10", positions))
	assert.Equal(t, 0.0, CalculateAvgMarketValue(AssetRepo, "2024-01-01", "2024-01-10", positions))
	assert.Equal(t, 0.0, CalculateAvgMarketValue(AssetStock, "2024-03-01", "2024-03-31", positions))
}

func TestCalculateTurnoverRate(t *testing.T) {
	transactions, positions := tradingFixture()

	// 区间内股票买卖 (100+50) 万元，日均市值 100 万元，10 天
	// (150/100) × (365/10) × 100 = 5475
	rate := CalculateTurnoverRate(AssetStock, "2024-01-01", "2024-01-10", transactions, positions)
	assert.Equal(t, 5475.0, rate)
}

func TestCalculateTurnoverRate_Dimensionless(t *testing.T) {
	// 全年买入 50 + 卖出 50，日均市值 100，同单位输入 → 年化换手率 ≈ 100%
	transactions := []Transaction{
		{Date: "2024-03-01", AssetClass: AssetStock, Direction: DirectionBuy, Amount: 50},
		{Date: "2024-09-01", AssetClass: AssetStock, Direction: DirectionSell, Amount: 50},
	}
	positions := []DailyPosition{
		{Date: "2024-01-01", StockValue: 100},
		{Date: "2024-06-30", StockValue: 100},
		{Date: "2024-12-30", StockValue: 100},
	}

	// 2024-01-01..2024-12-30 含头尾共 365 天
	rate := CalculateTurnoverRate(AssetStock, "2024-01-01", "2024-12-30", transactions, positions)
	assert.InDelta(t, 100.0, rate, 1e-9)
}

func TestCalculateTurnoverRate_Degenerate(t *testing.T) {
	transactions, positions := tradingFixture()

	// 日均市值为 0
	assert.Equal(t, 0.0, CalculateTurnoverRate(AssetRepo, "2024-01-01", "2024-01-10", transactions, positions))
	// 日期非法
	assert.Equal(t, 0.0, CalculateTurnoverRate(AssetStock, "bad", "2024-01-10", transactions, positions))
}

func TestCalculateTurnoverRates(t *testing.T) {
	transactions, positions := tradingFixture()
	periods := map[string]Window{
		"近一月": {Start: "2024-01-01", End: "2024-01-10"},
	}

	rates := CalculateTurnoverRates(transactions, positions, periods, nil)
	require.Len(t, rates, 3, "默认覆盖股票/基金/逆回购")
	assert.Equal(t, 5475.0, rates[AssetStock]["近一月"])
	assert.Equal(t, 0.0, rates[AssetRepo]["近一月"])
}

func TestCalculateTradingStatistics(t *testing.T) {
	transactions, _ := tradingFixture()

	stats := CalculateTradingStatistics(transactions, nil)
	require.Len(t, stats, 3)

	// 全期股票买入 (100+30) 万元，卖出 50 万元
	assert.Equal(t, 130.0, stats[AssetStock].BuyAmount)
	assert.Equal(t, 50.0, stats[AssetStock].SellAmount)
	assert.Equal(t, 20.0, stats[AssetFund].BuyAmount)
	assert.Equal(t, TradingStats{}, stats[AssetRepo])
}
