package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func periodFixture() []Point {
	return []Point{
		{Date: "2024-01-01", Nav: 1.0},
		{Date: "2024-01-02", Nav: 1.01},
		{Date: "2024-01-03", Nav: 0.99},
		{Date: "2024-01-04", Nav: 1.02},
		{Date: "2024-01-05", Nav: 1.05},
		{Date: "2024-01-08", Nav: 1.03},
		{Date: "2024-01-09", Nav: 1.06},
		{Date: "2024-01-10", Nav: 1.08},
	}
}

func TestCalculatePeriodMetrics(t *testing.T) {
	points := periodFixture()
	periods := Periods{
		"成立以来": {Start: "2024-01-01", End: "2024-01-10"},
		"近一周":  {Start: "2024-01-04", End: "2024-01-10"},
	}

	metrics := CalculatePeriodMetrics(points, periods, DefaultRiskFreeRate, nil, nil, nil)
	require.Len(t, metrics, 2)

	full := metrics["成立以来"]
	assert.Equal(t, 8.0, full.PeriodReturn)
	assert.Greater(t, full.Volatility, 0.0)
	assert.Greater(t, full.MaxDrawdown, 0.0)
	// 无基准输入时取中性值
	assert.Equal(t, NeutralBeta, full.Beta)
	assert.Equal(t, 0.0, full.TrackingError)
	assert.Equal(t, 0.0, full.ActiveReturn)

	week := metrics["近一周"]
	assert.InDelta(t, 5.88, week.PeriodReturn, 0.01, "(1.08/1.02-1)*100")
}

func TestCalculatePeriodMetrics_EmptyWindow(t *testing.T) {
	points := periodFixture()
	periods := Periods{"近一月": {Start: "2024-02-01", End: "2024-02-29"}}

	metrics := CalculatePeriodMetrics(points, periods, DefaultRiskFreeRate, nil, nil, nil)
	bundle := metrics["近一月"]

	// 数据不足：全中性包
	assert.Equal(t, NeutralBeta, bundle.Beta)
	assert.Equal(t, 0.0, bundle.PeriodReturn)
	assert.Equal(t, 0.0, bundle.Volatility)
	assert.Nil(t, bundle.RecoveryPeriod)
	assert.Nil(t, bundle.RecoveryDate)
	assert.False(t, bundle.IsRecovered)
}

func TestCalculateAllMetrics(t *testing.T) {
	points := periodFixture()
	benchmarkReturn := 3.0

	all := CalculateAllMetrics(points, DefaultRiskFreeRate, nil, &benchmarkReturn, nil)

	assert.Equal(t, 8.0, all.PeriodReturn)
	assert.Equal(t, "2024-01-01", all.StartDate)
	assert.Equal(t, "2024-01-10", all.EndDate)
	assert.Equal(t, 10, all.Days)
	assert.Equal(t, NeutralBeta, all.Beta)
	assert.Equal(t, 5.0, all.ActiveReturn)
	assert.NotEmpty(t, all.RiskCharacteristic)
	assert.NotEmpty(t, all.RiskClassification.RiskLevel)
	assert.Greater(t, all.MaxDailyReturn, 0.0)
	assert.Less(t, all.MaxDailyLoss, 0.0)
}

func TestCalculatePeriodReturns(t *testing.T) {
	points := []Point{
		{Date: "2024-01-01", Nav: 1.0},
		{Date: "2024-01-05", Nav: 1.02},
		{Date: "2024-01-10", Nav: 1.05},
	}
	// 基准净值缺少部分产品日期，验证向前填充
	benchmarkNav := []Point{
		{Date: "2024-01-01", Nav: 100},
		{Date: "2024-01-09", Nav: 102},
	}
	periods := Periods{"近一月": {Start: "2024-01-01", End: "2024-01-10"}}

	rows := CalculatePeriodReturns(points, periods, benchmarkNav)
	row := rows["近一月"]

	assert.Equal(t, 5.0, row.ProductReturn)
	assert.Equal(t, 2.0, row.BenchmarkReturn)
	assert.Equal(t, 3.0, row.ExcessReturn)
	assert.Greater(t, row.AnnualizedReturn, row.ProductReturn)
}

func TestCalculatePeriodReturns_NoData(t *testing.T) {
	periods := Periods{"近一年": {Start: "2023-01-01", End: "2023-12-31"}}
	rows := CalculatePeriodReturns(periodFixture(), periods, nil)

	row := rows["近一年"]
	assert.Equal(t, 0.0, row.ProductReturn)
	assert.Equal(t, 0.0, row.BenchmarkReturn)
}
