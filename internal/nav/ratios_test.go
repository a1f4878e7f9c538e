package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateVolatility(t *testing.T) {
	// 日收益率 +2%、-1.9608%，总体标准差 0.0198039
	points := []Point{
		{Date: "2024-01-01", Nav: 1.0},
		{Date: "2024-01-02", Nav: 1.02},
		{Date: "2024-01-03", Nav: 1.0},
	}

	volatility := CalculateVolatility(points)
	assert.InDelta(t, 31.44, volatility, 0.01)
}

func TestCalculateVolatility_Insufficient(t *testing.T) {
	points := []Point{
		{Date: "2024-01-01", Nav: 1.0},
		{Date: "2024-01-02", Nav: 1.02},
	}
	assert.Equal(t, 0.0, CalculateVolatility(points))
}

func TestCalculateDownsideVolatility_AllAboveTarget(t *testing.T) {
	// 没有任何日收益率低于目标时下行波动率为 0
	points := []Point{
		{Date: "2024-01-01", Nav: 1.0},
		{Date: "2024-01-02", Nav: 1.01},
		{Date: "2024-01-03", Nav: 1.02},
	}
	assert.Equal(t, 0.0, CalculateDownsideVolatility(points, 0))
}

func TestCalculateDownsideVolatility(t *testing.T) {
	points := []Point{
		{Date: "2024-01-01", Nav: 1.0},
		{Date: "2024-01-02", Nav: 0.98},
		{Date: "2024-01-03", Nav: 1.0},
	}
	downside := CalculateDownsideVolatility(points, 0)
	assert.Greater(t, downside, 0.0)
}

func TestCalculateSharpeRatio(t *testing.T) {
	assert.Equal(t, 0.35, CalculateSharpeRatio(10, 20, 0.03))
	assert.Equal(t, ZeroRatioFallback, CalculateSharpeRatio(10, 0, 0.03))
}

func TestCalculateCalmarRatio(t *testing.T) {
	assert.Equal(t, 2.0, CalculateCalmarRatio(10, 5))
	assert.Equal(t, 2.0, CalculateCalmarRatio(10, -5), "回撤符号不影响结果")
	assert.Equal(t, ZeroRatioFallback, CalculateCalmarRatio(10, 0))
}

func TestCalculateSortinoRatio(t *testing.T) {
	assert.Equal(t, 0.7, CalculateSortinoRatio(10, 10, 0.03))
	assert.Equal(t, ZeroRatioFallback, CalculateSortinoRatio(10, 0, 0.03))
}

func TestCalculateInformationRatio(t *testing.T) {
	assert.Equal(t, 0.5, CalculateInformationRatio(5, 10))
	assert.Equal(t, ZeroRatioFallback, CalculateInformationRatio(5, 0))
}
