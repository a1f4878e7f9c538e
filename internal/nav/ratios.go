package nav

import (
	"math"

	"github.com/wonny/fundlens/backend/pkg/formulas"
)

// CalculateVolatility 年化波动率 = 日收益率总体标准差 × √252 × 100。
// 少于 2 个日收益率（3 个净值点）返回 0。
func CalculateVolatility(points []Point) float64 {
	returns := DailyReturns(points)
	if len(returns) < 2 {
		return 0
	}
	return formulas.Round(formulas.Annualize(formulas.StdDev(returns))*100, 2)
}

// CalculateDownsideVolatility 下行波动率（年化，%）：
// sqrt(mean(min(0, r - target)²)) × √252 × 100。
func CalculateDownsideVolatility(points []Point, target float64) float64 {
	returns := DailyReturns(points)
	if len(returns) < 2 {
		return 0
	}

	var sumSquares float64
	for _, r := range returns {
		if dev := math.Min(0, r-target); dev != 0 {
			sumSquares += dev * dev
		}
	}
	downside := math.Sqrt(sumSquares / float64(len(returns)))

	return formulas.Round(formulas.Annualize(downside)*100, 2)
}

// CalculateSharpeRatio 夏普比率 = (年化收益 - 无风险收益) / 波动率。
// 输入为百分数，内部折算为小数；波动率为 0 时返回中性回退值。
func CalculateSharpeRatio(annualizedReturn, volatility, riskFreeRate float64) float64 {
	if volatility == 0 {
		return ZeroRatioFallback
	}
	return formulas.Round((annualizedReturn/100-riskFreeRate)/(volatility/100), 2)
}

// CalculateCalmarRatio 卡玛比率 = 年化收益 / |最大回撤|
func CalculateCalmarRatio(annualizedReturn, maxDrawdown float64) float64 {
	if maxDrawdown == 0 {
		return ZeroRatioFallback
	}
	return formulas.Round((annualizedReturn / 100) / (math.Abs(maxDrawdown) / 100), 2)
}

// CalculateSortinoRatio 索提诺比率 = (年化收益 - 无风险收益) / 下行波动率
func CalculateSortinoRatio(annualizedReturn, downsideVolatility, riskFreeRate float64) float64 {
	if downsideVolatility == 0 {
		return ZeroRatioFallback
	}
	return formulas.Round((annualizedReturn/100-riskFreeRate)/(downsideVolatility/100), 2)
}

// CalculateInformationRatio 信息比率 = 年化主动收益 / 跟踪误差
func CalculateInformationRatio(annualizedActiveReturn, trackingError float64) float64 {
	if trackingError == 0 {
		return ZeroRatioFallback
	}
	return formulas.Round((annualizedActiveReturn / 100) / (trackingError / 100), 2)
}
