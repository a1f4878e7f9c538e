package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateNav(t *testing.T) {
	snapshots := []AssetSnapshot{
		{Date: "2024-01-01", TotalAssets: 1000.0},
		{Date: "2024-01-02", TotalAssets: 1010.0},
		{Date: "2024-01-03", TotalAssets: 985.55},
	}

	points := CalculateNav(snapshots, DefaultInitialCapital)
	require.Len(t, points, 3)

	assert.Equal(t, 1.0, points[0].Nav)
	assert.Equal(t, 1.01, points[1].Nav)
	assert.Equal(t, 0.9856, points[2].Nav, "保留 4 位小数")
	assert.Equal(t, "2024-01-01", points[0].Date)
}

func TestCalculateNav_InvalidCapital(t *testing.T) {
	snapshots := []AssetSnapshot{{Date: "2024-01-01", TotalAssets: 1000.0}}
	assert.Nil(t, CalculateNav(snapshots, 0))
	assert.Nil(t, CalculateNav(nil, DefaultInitialCapital))
}

func TestValidateNavData(t *testing.T) {
	valid := []Point{
		{Date: "2024-01-01", Nav: 1.0},
		{Date: "2024-01-02", Nav: 1.01},
	}
	assert.True(t, ValidateNavData(valid))

	// 日期格式错误
	malformed := []Point{{Date: "2024/01/02", Nav: 1.01}}
	assert.False(t, ValidateNavData(malformed))

	// 净值非正
	assert.False(t, ValidateNavData([]Point{{Date: "2024-01-01", Nav: 0}}))
	assert.False(t, ValidateNavData(nil))
}

func TestCalculateReturns_TwoPoints(t *testing.T) {
	// 10 天涨 2%，年化 = ((1.02)^(365/10) - 1) * 100
	points := []Point{
		{Date: "2024-01-01", Nav: 1.0},
		{Date: "2024-01-10", Nav: 1.02},
	}

	info := CalculateReturns(points)
	assert.Equal(t, 2.0, info.PeriodReturn)
	assert.Equal(t, 10, info.Days)
	assert.Equal(t, "2024-01-01", info.StartDate)
	assert.Equal(t, "2024-01-10", info.EndDate)
	assert.InDelta(t, 106.02, info.AnnualizedReturn, 0.01)
}

func TestCalculateReturns_Insufficient(t *testing.T) {
	info := CalculateReturns([]Point{{Date: "2024-01-01", Nav: 1.0}})
	assert.Equal(t, 0.0, info.PeriodReturn)
	assert.Equal(t, 0.0, info.AnnualizedReturn)
	assert.Equal(t, 0, info.Days)
}

func TestCalculatePeriodProfit(t *testing.T) {
	points := []Point{
		{Date: "2024-01-01", Nav: 1.0, TotalAssets: 1000.0},
		{Date: "2024-12-31", Nav: 1.1, TotalAssets: 1100.0},
	}

	profit := CalculatePeriodProfit(points)
	assert.Equal(t, 100.0, profit.PeriodProfit)
	// 2024 年为闰年，首尾含两端共 366 天
	assert.InDelta(t, 99.73, profit.AnnualizedProfit, 0.01)
}

func TestDailyReturns(t *testing.T) {
	points := []Point{
		{Date: "2024-01-01", Nav: 1.0},
		{Date: "2024-01-02", Nav: 1.01},
		{Date: "2024-01-03", Nav: 0.999},
	}

	returns := DailyReturns(points)
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.01, returns[0], 1e-9)
	assert.InDelta(t, -0.010891, returns[1], 1e-6)
}

func TestDailyReturns_NonPositivePrevious(t *testing.T) {
	// 前一日净值非正时按 0 处理，不中断序列
	points := []Point{
		{Date: "2024-01-01", Nav: 0},
		{Date: "2024-01-02", Nav: 1.0},
		{Date: "2024-01-03", Nav: 1.02},
	}

	returns := DailyReturns(points)
	require.Len(t, returns, 2)
	assert.Equal(t, 0.0, returns[0])
	assert.InDelta(t, 0.02, returns[1], 1e-9)
}

func TestCalculateCumulativeReturns(t *testing.T) {
	points := []Point{
		{Date: "2024-01-01", Nav: 1.0},
		{Date: "2024-01-02", Nav: 1.05},
		{Date: "2024-01-03", Nav: 0.98},
	}

	cumulative := CalculateCumulativeReturns(points)
	require.Len(t, cumulative, 3)
	assert.Equal(t, 0.0, cumulative[0].CumulativeReturn)
	assert.InDelta(t, 5.0, cumulative[1].CumulativeReturn, 1e-9)
	assert.InDelta(t, -2.0, cumulative[2].CumulativeReturn, 1e-9)
}

func TestCalculateMonthlyReturns(t *testing.T) {
	points := []Point{
		{Date: "2024-01-02", Nav: 1.0},
		{Date: "2024-01-31", Nav: 1.03},
		{Date: "2024-02-01", Nav: 1.03},
		{Date: "2024-02-29", Nav: 1.01},
		// 三月只有一个点，应被跳过
		{Date: "2024-03-01", Nav: 1.02},
	}

	monthly := CalculateMonthlyReturns(points)
	require.Len(t, monthly, 2)
	assert.Equal(t, "2024-01", monthly[0].Month)
	assert.InDelta(t, 3.0, monthly[0].MonthlyReturn, 0.01)
	assert.Equal(t, "2024-02", monthly[1].Month)
	assert.InDelta(t, -1.94, monthly[1].MonthlyReturn, 0.01)
}

func TestCalculateDailyReturnStats_FirstOccurrenceWins(t *testing.T) {
	// 两天涨幅相同时取先出现的日期
	points := []Point{
		{Date: "2024-01-01", Nav: 1.0},
		{Date: "2024-01-02", Nav: 1.02},
		{Date: "2024-01-03", Nav: 1.0},
		{Date: "2024-01-04", Nav: 1.02},
	}

	stats := CalculateDailyReturnStats(points)
	assert.Equal(t, "2024-01-02", stats.MaxReturnDate)
	assert.InDelta(t, 2.0, stats.MaxDailyReturn, 0.01)
	assert.Equal(t, "2024-01-03", stats.MaxLossDate)
}
