package nav

import (
	"github.com/wonny/fundlens/backend/internal/calendar"
	"github.com/wonny/fundlens/backend/internal/risk"
	"github.com/wonny/fundlens/backend/pkg/formulas"
)

// PeriodWindow is an inclusive [Start, End] statistical window
type PeriodWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Periods maps a human label (如"近一年") to its window
type Periods map[string]PeriodWindow

// MetricBundle is the full per-period metric set.
// 数据不足时每个字段落到各自的中性值：Beta=1.0，修复期字段缺席，其余 0。
type MetricBundle struct {
	PeriodReturn           float64 `json:"period_return"`
	AnnualizedReturn       float64 `json:"annualized_return"`
	Volatility             float64 `json:"volatility"`
	MaxDrawdown            float64 `json:"max_drawdown"`
	MaxDDStartDate         string  `json:"max_dd_start_date"`
	MaxDDEndDate           string  `json:"max_dd_end_date"`
	PeakDate               string  `json:"peak_date"`
	PeakNav                float64 `json:"peak_nav"`
	RecoveryPeriod         *int    `json:"recovery_period"`
	RecoveryDate           *string `json:"recovery_date"`
	IsRecovered            bool    `json:"is_recovered"`
	SharpeRatio            float64 `json:"sharpe_ratio"`
	CalmarRatio            float64 `json:"calmar_ratio"`
	TrackingError          float64 `json:"tracking_error"`
	DownsideVolatility     float64 `json:"downside_volatility"`
	SortinoRatio           float64 `json:"sortino_ratio"`
	InformationRatio       float64 `json:"information_ratio"`
	Beta                   float64 `json:"beta"`
	ActiveReturn           float64 `json:"active_return"`
	AnnualizedActiveReturn float64 `json:"annualized_active_return"`
}

// neutralBundle is the documented all-neutral result for thin periods
func neutralBundle() MetricBundle {
	return MetricBundle{Beta: NeutralBeta}
}

// PeriodReturnsRow 多时间段收益率对比
type PeriodReturnsRow struct {
	ProductReturn    float64 `json:"product_return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	BenchmarkReturn  float64 `json:"benchmark_return"`
	ExcessReturn     float64 `json:"excess_return"`
}

// AllMetrics is the whole-horizon metric set plus risk classification
type AllMetrics struct {
	MetricBundle

	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`

	MaxDailyReturn float64 `json:"max_daily_return"`
	MaxDailyLoss   float64 `json:"max_daily_loss"`
	MaxReturnDate  string  `json:"max_return_date"`
	MaxLossDate    string  `json:"max_loss_date"`
	WeeklyWinRate  float64 `json:"weekly_win_rate"`
	MonthlyWinRate float64 `json:"monthly_win_rate"`

	RiskCharacteristic string              `json:"risk_characteristic"`
	RiskClassification risk.Classification `json:"risk_classification"`
}

// slicePeriod 按 ISO 字符串字典序做闭区间切片
func slicePeriod(points []Point, window PeriodWindow) []Point {
	var sliced []Point
	for _, p := range points {
		if window.Start <= p.Date && p.Date <= window.End {
			sliced = append(sliced, p)
		}
	}
	return sliced
}

// CalculatePeriodMetrics recomputes the full metric bundle for every period
// window. 每个区间独立重算，没有跨区间的增量复用。少于 2 个点的区间得到全中性包。
func CalculatePeriodMetrics(
	points []Point,
	periods Periods,
	riskFreeRate float64,
	benchmarkReturns []float64,
	benchmarkPeriodReturns map[string]float64,
	benchmarkReturnDates []string,
) map[string]MetricBundle {
	result := make(map[string]MetricBundle, len(periods))

	for name, window := range periods {
		periodPoints := slicePeriod(points, window)
		if len(periodPoints) < 2 {
			result[name] = neutralBundle()
			continue
		}

		returns := CalculateReturns(periodPoints)
		drawdown := CalculateMaxDrawdown(periodPoints)
		recovery := CalculateDrawdownRecoveryPeriod(periodPoints, drawdown.StartDate, drawdown.EndDate)
		volatility := CalculateVolatility(periodPoints)
		sharpe := CalculateSharpeRatio(returns.AnnualizedReturn, volatility, riskFreeRate)
		calmar := CalculateCalmarRatio(returns.AnnualizedReturn, drawdown.MaxDrawdown)
		downside := CalculateDownsideVolatility(periodPoints, 0)
		sortino := CalculateSortinoRatio(returns.AnnualizedReturn, downside, riskFreeRate)

		trackingError := 0.0
		beta := NeutralBeta
		activeReturn := ActiveReturnInfo{}

		if len(benchmarkReturns) > 0 {
			dateRange := &DateRange{Start: window.Start, End: window.End}
			trackingError = CalculateTrackingError(periodPoints, benchmarkReturns, benchmarkReturnDates, dateRange)
			beta = CalculateBeta(periodPoints, benchmarkReturns, benchmarkReturnDates, dateRange)
		}

		if benchRet, ok := benchmarkPeriodReturns[name]; ok {
			activeReturn = CalculateActiveReturn(returns.PeriodReturn, &benchRet, returns.Days)
		}

		informationRatio := 0.0
		if trackingError > 0 {
			informationRatio = CalculateInformationRatio(activeReturn.AnnualizedActiveReturn, trackingError)
		}

		result[name] = MetricBundle{
			PeriodReturn:           returns.PeriodReturn,
			AnnualizedReturn:       returns.AnnualizedReturn,
			Volatility:             volatility,
			MaxDrawdown:            drawdown.MaxDrawdown,
			MaxDDStartDate:         drawdown.StartDate,
			MaxDDEndDate:           drawdown.EndDate,
			PeakDate:               drawdown.PeakDate,
			PeakNav:                drawdown.PeakNav,
			RecoveryPeriod:         recovery.RecoveryPeriod,
			RecoveryDate:           recovery.RecoveryDate,
			IsRecovered:            recovery.IsRecovered,
			SharpeRatio:            sharpe,
			CalmarRatio:            calmar,
			TrackingError:          trackingError,
			DownsideVolatility:     downside,
			SortinoRatio:           sortino,
			InformationRatio:       informationRatio,
			Beta:                   beta,
			ActiveReturn:           activeReturn.ActiveReturn,
			AnnualizedActiveReturn: activeReturn.AnnualizedActiveReturn,
		}
	}

	return result
}

// CalculateAllMetrics computes every metric over the whole NAV horizon
func CalculateAllMetrics(
	points []Point,
	riskFreeRate float64,
	benchmarkReturns []float64,
	benchmarkPeriodReturn *float64,
	benchmarkReturnDates []string,
) AllMetrics {
	returns := CalculateReturns(points)
	drawdown := CalculateMaxDrawdown(points)
	volatility := CalculateVolatility(points)
	sharpe := CalculateSharpeRatio(returns.AnnualizedReturn, volatility, riskFreeRate)
	calmar := CalculateCalmarRatio(returns.AnnualizedReturn, drawdown.MaxDrawdown)
	dailyStats := CalculateDailyReturnStats(points)

	beta := NeutralBeta
	trackingError := 0.0
	if len(benchmarkReturns) > 0 {
		beta = CalculateBeta(points, benchmarkReturns, benchmarkReturnDates, nil)
		trackingError = CalculateTrackingError(points, benchmarkReturns, benchmarkReturnDates, nil)
	}

	activeReturn := CalculateActiveReturn(returns.PeriodReturn, benchmarkPeriodReturn, returns.Days)

	downside := CalculateDownsideVolatility(points, 0)
	sortino := CalculateSortinoRatio(returns.AnnualizedReturn, downside, riskFreeRate)

	informationRatio := 0.0
	if trackingError > 0 {
		informationRatio = CalculateInformationRatio(activeReturn.AnnualizedActiveReturn, trackingError)
	}

	recovery := CalculateDrawdownRecoveryPeriod(points, drawdown.StartDate, drawdown.EndDate)

	classification := risk.ClassifyRiskCharacteristic(risk.Inputs{
		AnnualizedReturn:   &returns.AnnualizedReturn,
		Volatility:         &volatility,
		MaxDrawdown:        &drawdown.MaxDrawdown,
		DownsideVolatility: &downside,
		Beta:               &beta,
		TrackingError:      &trackingError,
		SharpeRatio:        &sharpe,
		SortinoRatio:       &sortino,
		CalmarRatio:        &calmar,
	})

	return AllMetrics{
		MetricBundle: MetricBundle{
			PeriodReturn:           returns.PeriodReturn,
			AnnualizedReturn:       returns.AnnualizedReturn,
			Volatility:             volatility,
			MaxDrawdown:            drawdown.MaxDrawdown,
			MaxDDStartDate:         drawdown.StartDate,
			MaxDDEndDate:           drawdown.EndDate,
			PeakDate:               drawdown.PeakDate,
			PeakNav:                drawdown.PeakNav,
			RecoveryPeriod:         recovery.RecoveryPeriod,
			RecoveryDate:           recovery.RecoveryDate,
			IsRecovered:            recovery.IsRecovered,
			SharpeRatio:            sharpe,
			CalmarRatio:            calmar,
			TrackingError:          trackingError,
			DownsideVolatility:     downside,
			SortinoRatio:           sortino,
			InformationRatio:       informationRatio,
			Beta:                   beta,
			ActiveReturn:           activeReturn.ActiveReturn,
			AnnualizedActiveReturn: activeReturn.AnnualizedActiveReturn,
		},
		StartDate:          returns.StartDate,
		EndDate:            returns.EndDate,
		Days:               returns.Days,
		MaxDailyReturn:     dailyStats.MaxDailyReturn,
		MaxDailyLoss:       dailyStats.MaxDailyLoss,
		MaxReturnDate:      dailyStats.MaxReturnDate,
		MaxLossDate:        dailyStats.MaxLossDate,
		WeeklyWinRate:      CalculateWeeklyWinRate(points),
		MonthlyWinRate:     CalculateMonthlyWinRate(points),
		RiskCharacteristic: classification.Level,
		RiskClassification: classification,
	}
}

// CalculatePeriodReturns 多时间段产品/基准收益率对比。
// 基准净值先限制在区间内，再对齐到产品日期轴（向前填充、再向后填充）。
func CalculatePeriodReturns(points []Point, periods Periods, benchmarkNav []Point) map[string]PeriodReturnsRow {
	result := make(map[string]PeriodReturnsRow, len(periods))

	for name, window := range periods {
		periodPoints := slicePeriod(points, window)
		if len(periodPoints) == 0 {
			result[name] = PeriodReturnsRow{}
			continue
		}

		productReturn := returnFromNavSeries(periodPoints)

		days, err := calendar.DaysBetween(window.Start, window.End)
		if err != nil {
			days = 0
		}
		annualized := 0.0
		if days > 0 {
			annualized = (pow(1+productReturn/100, 365/float64(days)) - 1) * 100
		}

		benchmarkReturn := 0.0
		if len(benchmarkNav) > 0 {
			aligned := alignBenchmarkNav(benchmarkNav, periodPoints, window)
			if len(aligned) > 0 {
				benchmarkReturn = returnFromValues(aligned)
			}
		}

		result[name] = PeriodReturnsRow{
			ProductReturn:    formulas.Round(productReturn, 2),
			AnnualizedReturn: formulas.Round(annualized, 2),
			BenchmarkReturn:  formulas.Round(benchmarkReturn, 2),
			ExcessReturn:     formulas.Round(productReturn-benchmarkReturn, 2),
		}
	}

	return result
}

// returnFromNavSeries 区间收益率（%），首点非正时返回 0
func returnFromNavSeries(points []Point) float64 {
	values := make([]float64, 0, len(points))
	for _, p := range points {
		values = append(values, p.Nav)
	}
	return returnFromValues(values)
}

func returnFromValues(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	start, end := values[0], values[len(values)-1]
	if !formulas.IsFinite(start) || start <= 0 || !formulas.IsFinite(end) {
		return 0
	}
	return (end/start - 1) * 100
}

// alignBenchmarkNav reindexes the benchmark NAV onto the product date axis
// within the window, forward-filling then back-filling gaps.
func alignBenchmarkNav(benchmarkNav, productPoints []Point, window PeriodWindow) []float64 {
	inWindow := slicePeriod(benchmarkNav, window)
	if len(inWindow) == 0 {
		return nil
	}

	values := make([]float64, len(productPoints))
	present := make([]bool, len(productPoints))
	for i, p := range productPoints {
		// forward fill: 取不晚于产品日期的最后一个基准净值
		for j := len(inWindow) - 1; j >= 0; j-- {
			if inWindow[j].Date <= p.Date {
				values[i] = inWindow[j].Nav
				present[i] = true
				break
			}
		}
	}

	// back fill leading gaps
	firstKnown := -1
	for i, ok := range present {
		if ok {
			firstKnown = i
			break
		}
	}
	if firstKnown == -1 {
		return nil
	}
	for i := 0; i < firstKnown; i++ {
		values[i] = values[firstKnown]
	}
	return values
}
