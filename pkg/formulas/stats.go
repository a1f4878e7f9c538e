package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear A股年化交易日数
const TradingDaysPerYear = 252

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the population standard deviation (ddof=0).
// 波动率、跟踪误差等指标统一使用总体标准差口径。
func StdDev(data []float64) float64 {
	return math.Sqrt(Variance(data))
}

// Variance calculates the population variance (ddof=0)
func Variance(data []float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	mean := stat.Mean(data, nil)
	var sum float64
	for _, v := range data {
		diff := v - mean
		sum += diff * diff
	}
	return sum / float64(n)
}

// SampleCovariance calculates the sample covariance (ddof=1) between two
// equal-length series. Beta 的分子使用样本协方差口径。
func SampleCovariance(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	return stat.Covariance(x, y, nil)
}

// Correlation calculates the Pearson correlation coefficient
func Correlation(x, y []float64) float64 {
	if len(x) == 0 || len(x) != len(y) {
		return 0
	}
	return stat.Correlation(x, y, nil)
}

// Annualize scales a daily-return standard deviation to a yearly horizon
func Annualize(dailyStd float64) float64 {
	return dailyStd * math.Sqrt(TradingDaysPerYear)
}

// Round rounds a value to the given number of decimal places
func Round(value float64, digits int) float64 {
	pow := math.Pow(10, float64(digits))
	return math.Round(value*pow) / pow
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
