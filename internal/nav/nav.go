// Package nav 净值引擎：将每日资产序列折算为单位净值，
// 并在其上派生收益、回撤、波动与风险调整比率。
//
// 所有函数均为纯计算：输入已物化的序列，输出类型化结果，
// 数据不足或分母退化时返回文档化的中性值而不是 error。
package nav

import (
	"github.com/wonny/fundlens/backend/internal/calendar"
	"github.com/wonny/fundlens/backend/pkg/formulas"
)

// Fallback policy constants. 下游测试直接断言这些值。
const (
	// NeutralBeta 数据不足或基准零方差时返回的 Beta 中性值，
	// 含义是"视同与市场同步"，而不是 0 或未定义。
	NeutralBeta = 1.0

	// ZeroRatioFallback 比率类指标分母为 0 时的统一回退值
	ZeroRatioFallback = 0.0

	// DefaultRiskFreeRate 默认无风险收益率（小数形式）
	DefaultRiskFreeRate = 0.03

	// DefaultInitialCapital 默认初始资金（万元）
	DefaultInitialCapital = 1000.0
)

// AssetSnapshot is one day of the externally supplied asset-value series
type AssetSnapshot struct {
	Date        string  `json:"date"`
	TotalAssets float64 `json:"total_assets"`
}

// Point is one day of the unit-NAV series. Dates strictly increasing and
// unique; Nav = TotalAssets / initial capital, rounded to 4 decimals.
// 构造之后不可变，下游只读。
type Point struct {
	Date        string  `json:"date"`
	Nav         float64 `json:"nav"`
	TotalAssets float64 `json:"total_assets"`
}

// ReturnsInfo is the period/annualized return pair for a NAV slice
type ReturnsInfo struct {
	PeriodReturn     float64 `json:"period_return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	Days             int     `json:"days"`
}

// PeriodProfit 期间收益额与年化收益额（万元）
type PeriodProfit struct {
	PeriodProfit     float64 `json:"period_profit"`
	AnnualizedProfit float64 `json:"annualized_profit"`
}

// CumulativePoint is one day of the cumulative-return series
type CumulativePoint struct {
	Date             string  `json:"date"`
	Nav              float64 `json:"nav"`
	CumulativeReturn float64 `json:"cumulative_return"`
}

// MonthlyReturn 月度收益率与月度累计收益率
type MonthlyReturn struct {
	Month            string  `json:"month"`
	StartNav         float64 `json:"start_nav"`
	EndNav           float64 `json:"end_nav"`
	MonthlyReturn    float64 `json:"monthly_return"`
	CumulativeReturn float64 `json:"cumulative_return"`
}

// DailyReturnStats 单日最大收益/亏损及对应日期
type DailyReturnStats struct {
	MaxDailyReturn float64 `json:"max_daily_return"`
	MaxDailyLoss   float64 `json:"max_daily_loss"`
	MaxReturnDate  string  `json:"max_return_date"`
	MaxLossDate    string  `json:"max_loss_date"`
}

// datedReturn pairs a daily simple return with the date it belongs to.
// 临时量，按需重算，不持久化。
type datedReturn struct {
	date string
	ret  float64
}

// CalculateNav converts the daily asset series into a unit-NAV series.
// 空输入返回空结果；不去重，调用方保证每个日期一条记录。
func CalculateNav(snapshots []AssetSnapshot, initialCapital float64) []Point {
	points := make([]Point, 0, len(snapshots))
	for _, s := range snapshots {
		points = append(points, Point{
			Date:        s.Date,
			Nav:         formulas.Round(s.TotalAssets/initialCapital, 4),
			TotalAssets: s.TotalAssets,
		})
	}
	return points
}

// ValidateNavData reports whether every point has a positive NAV and a
// parseable ISO date. 空序列视为无效。
func ValidateNavData(points []Point) bool {
	if len(points) == 0 {
		return false
	}
	for _, p := range points {
		if p.Nav <= 0 {
			return false
		}
		if _, err := calendar.ParseDate(p.Date); err != nil {
			return false
		}
	}
	return true
}

// NavOnDate returns the NAV on the exact date, or (0, false) when absent
func NavOnDate(points []Point, date string) (float64, bool) {
	for _, p := range points {
		if p.Date == date {
			return p.Nav, true
		}
	}
	return 0, false
}

// CalculatePeriodProfit 期间收益额 = 期末总资产 - 期初总资产，
// 年化收益额按 365/实际天数 线性放大。
func CalculatePeriodProfit(points []Point) PeriodProfit {
	if len(points) == 0 {
		return PeriodProfit{}
	}

	periodProfit := points[len(points)-1].TotalAssets - points[0].TotalAssets

	days, err := calendar.DaysBetween(points[0].Date, points[len(points)-1].Date)
	if err != nil {
		days = 0
	}

	annualized := 0.0
	if days > 0 {
		annualized = periodProfit * 365 / float64(days)
	}

	return PeriodProfit{
		PeriodProfit:     formulas.Round(periodProfit, 2),
		AnnualizedProfit: formulas.Round(annualized, 2),
	}
}

// CalculateReturns computes the period and annualized return of a NAV slice.
// 少于 2 个点返回显式零值记录。天数为首尾日期差 +1（含两端）。
func CalculateReturns(points []Point) ReturnsInfo {
	if len(points) < 2 {
		return ReturnsInfo{}
	}

	start := points[0]
	end := points[len(points)-1]

	days, err := calendar.DaysBetween(start.Date, end.Date)
	if err != nil {
		days = 0
	}

	periodReturn := (end.Nav - start.Nav) / start.Nav * 100

	annualized := 0.0
	if days > 0 {
		annualized = (pow(1+periodReturn/100, 365/float64(days)) - 1) * 100
	}

	return ReturnsInfo{
		PeriodReturn:     formulas.Round(periodReturn, 2),
		AnnualizedReturn: formulas.Round(annualized, 2),
		StartDate:        start.Date,
		EndDate:          end.Date,
		Days:             days,
	}
}

// DailyReturns returns the simple daily return series (decimal form)
func DailyReturns(points []Point) []float64 {
	dated := dailyReturnsWithDates(points)
	returns := make([]float64, 0, len(dated))
	for _, d := range dated {
		returns = append(returns, d.ret)
	}
	return returns
}

// dailyReturnsWithDates derives (date, return) pairs for t >= 1.
// 前一日净值非正时回退为 0（兜底占位，不是真实零收益）。
func dailyReturnsWithDates(points []Point) []datedReturn {
	if len(points) < 2 {
		return nil
	}

	dated := make([]datedReturn, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		prev := points[i-1].Nav
		ret := 0.0
		if prev > 0 {
			ret = (points[i].Nav - prev) / prev
		}
		dated = append(dated, datedReturn{date: points[i].Date, ret: ret})
	}
	return dated
}

// CalculateCumulativeReturns 累计收益率 = (nav - 1) × 100，
// 首日恒为 0.00（与初始资金无关）。
func CalculateCumulativeReturns(points []Point) []CumulativePoint {
	result := make([]CumulativePoint, 0, len(points))
	for _, p := range points {
		result = append(result, CumulativePoint{
			Date:             p.Date,
			Nav:              p.Nav,
			CumulativeReturn: formulas.Round((p.Nav-1.0)*100, 2),
		})
	}
	return result
}

// CalculateMonthlyReturns buckets the NAV series by calendar month and
// reports per-month and running cumulative returns. 单点月份跳过。
func CalculateMonthlyReturns(points []Point) []MonthlyReturn {
	if len(points) == 0 {
		return nil
	}

	initialNav := points[0].Nav
	months := bucketByMonth(points)

	var result []MonthlyReturn
	for _, key := range sortedKeys(months) {
		bucket := months[key]
		if len(bucket) < 2 {
			continue
		}

		startNav := bucket[0].Nav
		endNav := bucket[len(bucket)-1].Nav

		monthlyReturn := 0.0
		if startNav > 0 {
			monthlyReturn = (endNav - startNav) / startNav * 100
		}
		cumulative := 0.0
		if initialNav > 0 {
			cumulative = (endNav - initialNav) / initialNav * 100
		}

		result = append(result, MonthlyReturn{
			Month:            key,
			StartNav:         startNav,
			EndNav:           endNav,
			MonthlyReturn:    formulas.Round(monthlyReturn, 2),
			CumulativeReturn: formulas.Round(cumulative, 2),
		})
	}
	return result
}

// CalculateDailyReturnStats finds the single best and worst daily return.
// 日期索引偏移 +1：首个交易日没有日收益率。
func CalculateDailyReturnStats(points []Point) DailyReturnStats {
	dated := dailyReturnsWithDates(points)
	if len(dated) == 0 {
		return DailyReturnStats{}
	}

	best, worst := dated[0], dated[0]
	for _, d := range dated[1:] {
		if d.ret > best.ret {
			best = d
		}
		if d.ret < worst.ret {
			worst = d
		}
	}

	return DailyReturnStats{
		MaxDailyReturn: formulas.Round(best.ret*100, 2),
		MaxDailyLoss:   formulas.Round(worst.ret*100, 2),
		MaxReturnDate:  best.date,
		MaxLossDate:    worst.date,
	}
}
