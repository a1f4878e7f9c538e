package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func betaFixture() ([]Point, []float64, []string) {
	// 产品日收益率与基准完全一致：+1%、-1%、+2%
	points := []Point{
		{Date: "2024-01-01", Nav: 1.0},
		{Date: "2024-01-02", Nav: 1.01},
		{Date: "2024-01-03", Nav: 0.9999},
		{Date: "2024-01-04", Nav: 1.019898},
	}
	benchmarkReturns := []float64{0.01, -0.01, 0.02}
	benchmarkDates := []string{"2024-01-02", "2024-01-03", "2024-01-04"}
	return points, benchmarkReturns, benchmarkDates
}

func TestCalculateBeta_IdenticalSeries(t *testing.T) {
	points, benchmarkReturns, benchmarkDates := betaFixture()

	// 分子为样本协方差、分母为总体方差，n=3 时比值为 n/(n-1)=1.5，
	// 即使两条序列完全一致 β 也不是 1
	beta := CalculateBeta(points, benchmarkReturns, benchmarkDates, nil)
	assert.InDelta(t, 1.5, beta, 1e-9)
}

func TestCalculateBeta_Insufficient(t *testing.T) {
	points := []Point{
		{Date: "2024-01-01", Nav: 1.0},
		{Date: "2024-01-02", Nav: 1.01},
		{Date: "2024-01-03", Nav: 1.02},
	}
	// 只对齐出一个点
	beta := CalculateBeta(points, []float64{0.01}, []string{"2024-01-02"}, nil)
	assert.Equal(t, NeutralBeta, beta)

	assert.Equal(t, NeutralBeta, CalculateBeta(points, nil, nil, nil))
}

func TestCalculateBeta_ZeroBenchmarkVariance(t *testing.T) {
	points, _, benchmarkDates := betaFixture()
	flat := []float64{0.01, 0.01, 0.01}
	assert.Equal(t, NeutralBeta, CalculateBeta(points, flat, benchmarkDates, nil))
}

func TestCalculateTrackingError_IdenticalSeries(t *testing.T) {
	points, benchmarkReturns, benchmarkDates := betaFixture()
	// 超额收益恒为 0，跟踪误差为 0
	assert.Equal(t, 0.0, CalculateTrackingError(points, benchmarkReturns, benchmarkDates, nil))
}

func TestCalculateTrackingError_DateRange(t *testing.T) {
	points, benchmarkReturns, benchmarkDates := betaFixture()
	dateRange := &DateRange{Start: "2024-01-03", End: "2024-01-04"}
	te := CalculateTrackingError(points, benchmarkReturns, benchmarkDates, dateRange)
	assert.Equal(t, 0.0, te)
}

func TestCalculateActiveReturn(t *testing.T) {
	benchmark := 4.0
	info := CalculateActiveReturn(10.0, &benchmark, 365)
	assert.Equal(t, 6.0, info.ActiveReturn)
	// days=365 时年化即原值
	assert.Equal(t, 6.0, info.AnnualizedActiveReturn)
}

func TestCalculateActiveReturn_NoBenchmark(t *testing.T) {
	info := CalculateActiveReturn(10.0, nil, 365)
	assert.Equal(t, 0.0, info.ActiveReturn)
	assert.Equal(t, 0.0, info.AnnualizedActiveReturn)
}
