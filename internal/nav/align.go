package nav

import (
	"github.com/wonny/fundlens/backend/pkg/formulas"
)

// DateRange bounds a computation to an inclusive ISO date window
type DateRange struct {
	Start string
	End   string
}

func (r *DateRange) contains(date string) bool {
	if r == nil {
		return true
	}
	if r.Start != "" && date < r.Start {
		return false
	}
	if r.End != "" && date > r.End {
		return false
	}
	return true
}

// ActiveReturnInfo 主动收益与年化主动收益（均为百分数）
type ActiveReturnInfo struct {
	ActiveReturn           float64 `json:"active_return"`
	AnnualizedActiveReturn float64 `json:"annualized_active_return"`
}

// alignReturnSeries pairs product and benchmark daily returns by date.
//
// 有基准日期且长度匹配时按日期做内连接，剔除任一侧的非有限值；
// 否则回退为按位置截断到较短长度——该回退假设两条序列本就按日期同步，
// 不同步时会悄悄给出错误配对，保留它只为兼容历史行为。
func alignReturnSeries(product []datedReturn, benchmarkReturns []float64, benchmarkDates []string, dateRange *DateRange) ([]float64, []float64) {
	if len(product) == 0 || len(benchmarkReturns) == 0 {
		return nil, nil
	}

	filtered := make([]datedReturn, 0, len(product))
	for _, d := range product {
		if dateRange.contains(d.date) {
			filtered = append(filtered, d)
		}
	}

	if len(benchmarkDates) > 0 && len(benchmarkDates) == len(benchmarkReturns) {
		benchMap := make(map[string]float64, len(benchmarkDates))
		for i, date := range benchmarkDates {
			if !dateRange.contains(date) || !formulas.IsFinite(benchmarkReturns[i]) {
				continue
			}
			benchMap[date] = benchmarkReturns[i]
		}

		var alignedProduct, alignedBenchmark []float64
		for _, d := range filtered {
			benchRet, ok := benchMap[d.date]
			if !ok || !formulas.IsFinite(d.ret) {
				continue
			}
			alignedProduct = append(alignedProduct, d.ret)
			alignedBenchmark = append(alignedBenchmark, benchRet)
		}

		if len(alignedProduct) >= 1 {
			return alignedProduct, alignedBenchmark
		}
	}

	// 位置截断回退
	minLen := len(filtered)
	if len(benchmarkReturns) < minLen {
		minLen = len(benchmarkReturns)
	}
	if minLen == 0 {
		return nil, nil
	}

	productValues := make([]float64, minLen)
	for i := 0; i < minLen; i++ {
		productValues[i] = filtered[i].ret
	}
	return productValues, benchmarkReturns[:minLen]
}

// CalculateBeta β = Cov(产品, 基准) / Var(基准)。
// 对齐后不足 2 个点或基准方差为 0 时返回 NeutralBeta。
func CalculateBeta(points []Point, benchmarkReturns []float64, benchmarkDates []string, dateRange *DateRange) float64 {
	product := dailyReturnsWithDates(points)
	if dateRange != nil {
		inRange := product[:0]
		for _, d := range product {
			if dateRange.contains(d.date) {
				inRange = append(inRange, d)
			}
		}
		product = inRange
	}

	alignedProduct, alignedBenchmark := alignReturnSeries(product, benchmarkReturns, benchmarkDates, dateRange)
	if len(alignedProduct) < 2 {
		return NeutralBeta
	}

	cov := formulas.SampleCovariance(alignedProduct, alignedBenchmark)
	variance := formulas.Variance(alignedBenchmark)
	if variance <= 0 {
		return NeutralBeta
	}
	return formulas.Round(cov/variance, 4)
}

// CalculateTrackingError 跟踪误差 = std(产品收益 - 基准收益) × √252 × 100
func CalculateTrackingError(points []Point, benchmarkReturns []float64, benchmarkDates []string, dateRange *DateRange) float64 {
	product := dailyReturnsWithDates(points)
	if dateRange != nil {
		inRange := product[:0]
		for _, d := range product {
			if dateRange.contains(d.date) {
				inRange = append(inRange, d)
			}
		}
		product = inRange
	}

	alignedProduct, alignedBenchmark := alignReturnSeries(product, benchmarkReturns, benchmarkDates, dateRange)
	if len(alignedProduct) < 2 {
		return 0
	}

	excess := make([]float64, len(alignedProduct))
	for i := range alignedProduct {
		excess[i] = alignedProduct[i] - alignedBenchmark[i]
	}
	return formulas.Round(formulas.Annualize(formulas.StdDev(excess))*100, 2)
}

// CalculateActiveReturn 主动收益 = 产品期间收益 - 基准期间收益。
// 年化主动收益是"分别年化后相减"，不是对差值直接年化——
// 两种口径在 days != 365 时结果不同，这里固定采用前者。
func CalculateActiveReturn(productPeriodReturn float64, benchmarkPeriodReturn *float64, days int) ActiveReturnInfo {
	if benchmarkPeriodReturn == nil {
		return ActiveReturnInfo{}
	}

	active := productPeriodReturn - *benchmarkPeriodReturn

	annualizedActive := 0.0
	if days > 0 {
		exp := 365 / float64(days)
		productAnnualized := (pow(1+productPeriodReturn/100, exp) - 1) * 100
		benchmarkAnnualized := (pow(1+*benchmarkPeriodReturn/100, exp) - 1) * 100
		annualizedActive = productAnnualized - benchmarkAnnualized
	}

	return ActiveReturnInfo{
		ActiveReturn:           formulas.Round(active, 2),
		AnnualizedActiveReturn: formulas.Round(annualizedActive, 2),
	}
}
