// Package report 报表桥接层：把各计算器的原始结果拼装成
// 报表渲染端需要的数据结构和字符串表格。只做整形，不做计算。
package report

import (
	"math"

	"github.com/wonny/fundlens/backend/internal/attribution"
	"github.com/wonny/fundlens/backend/internal/benchmark"
	"github.com/wonny/fundlens/backend/internal/nav"
	"github.com/wonny/fundlens/backend/pkg/formulas"
)

// ProductInfo is the static product metadata merged into the overview.
// CurrentScale 为 0 时取最新一日的总资产。
type ProductInfo struct {
	Name               string  `json:"product_name"`
	EstablishmentDate  string  `json:"establishment_date"`
	CurrentScale       float64 `json:"current_scale"`
	InvestmentStrategy string  `json:"investment_strategy"`
}

// PerformanceOverview chart1_1 产品表现总览
type PerformanceOverview struct {
	ProductName           string  `json:"product_name"`
	EstablishmentDate     string  `json:"establishment_date"`
	CurrentScale          float64 `json:"current_scale"`
	InvestmentStrategy    string  `json:"investment_strategy"`
	LatestNavDate         string  `json:"latest_nav_date"`
	UnitNav               float64 `json:"unit_nav"`
	TotalReturn           float64 `json:"total_return"`
	TotalReturnAnnualized float64 `json:"total_return_annualized"`
	ActiveReturn          float64 `json:"active_return"`
	ActiveAnnualized      float64 `json:"active_return_annualized"`
	MaxDrawdown           float64 `json:"max_drawdown"`
	SharpeRatio           float64 `json:"sharpe_ratio"`
	Beta                  float64 `json:"beta"`
	RiskCharacteristic    string  `json:"absolute_return_risk_type"`
}

// NavSeriesPoint is one day of the accumulated-return chart
type NavSeriesPoint struct {
	Date              string  `json:"date"`
	AccumulatedReturn float64 `json:"accumulated_return"`
	BenchmarkReturn   float64 `json:"benchmark_return"`
	ExcessReturn      float64 `json:"excess_return"`
}

// DailyReturnPoint is one day of the daily-return chart（百分数）
type DailyReturnPoint struct {
	Date             string  `json:"date"`
	DailyReturn      float64 `json:"daily_return"`
	CumulativeReturn float64 `json:"cumulative_return"`
}

// NavPerformance chart1_3~1_6 净值表现数据包
type NavPerformance struct {
	NavSeries          []NavSeriesPoint                `json:"nav_series"`
	DailyReturns       []DailyReturnPoint              `json:"daily_returns"`
	PeriodReturns      map[string]nav.PeriodReturnsRow `json:"period_returns"`
	PeriodReturnsTable [][]string                      `json:"period_returns_table"`
	PeriodMetrics      map[string]nav.MetricBundle     `json:"period_metrics"`
	PeriodMetricsTable [][]string                      `json:"period_metrics_table"`
}

// DrawdownPoint is one day of the underwater chart, 回撤以负值呈现
type DrawdownPoint struct {
	Date              string  `json:"date"`
	ProductDrawdown   float64 `json:"product_drawdown"`
	BenchmarkDrawdown float64 `json:"benchmark_drawdown"`
}

// DrawdownTable chart2_1 的表格部分
type DrawdownTable struct {
	ProductMaxDrawdown      float64 `json:"product_max_drawdown"`
	BenchmarkMaxDrawdown    float64 `json:"benchmark_max_drawdown"`
	ProductDDStart          string  `json:"product_dd_start"`
	ProductDDEnd            string  `json:"product_dd_end"`
	BenchmarkDDStart        string  `json:"benchmark_dd_start"`
	BenchmarkDDEnd          string  `json:"benchmark_dd_end"`
	ProductRecoveryPeriod   string  `json:"product_recovery_period"`
	BenchmarkRecoveryPeriod string  `json:"benchmark_recovery_period"`
}

// DrawdownData chart2_1 动态回撤
type DrawdownData struct {
	Series []DrawdownPoint `json:"series"`
	Table  DrawdownTable   `json:"table"`
}

// BrinsonData chart4_1 Brinson 归因数据包
type BrinsonData struct {
	Daily      []attribution.DailyBrinsonRow      `json:"daily"`
	Cumulative []attribution.CumulativeBrinsonRow `json:"cumulative"`
	Latest     attribution.CumulativeBrinsonRow   `json:"latest"`
}

// BuildPerformanceOverview 组装产品表现总览
func BuildPerformanceOverview(
	points []nav.Point,
	info ProductInfo,
	riskFreeRate float64,
	benchmarkReturns []float64,
	benchmarkPeriodReturn *float64,
	benchmarkReturnDates []string,
) PerformanceOverview {
	if len(points) == 0 {
		return PerformanceOverview{}
	}

	all := nav.CalculateAllMetrics(points, riskFreeRate, benchmarkReturns, benchmarkPeriodReturn, benchmarkReturnDates)

	latest := points[len(points)-1]
	scale := info.CurrentScale
	if scale == 0 {
		scale = latest.TotalAssets
	}

	return PerformanceOverview{
		ProductName:           info.Name,
		EstablishmentDate:     info.EstablishmentDate,
		CurrentScale:          formulas.Round(scale, 2),
		InvestmentStrategy:    info.InvestmentStrategy,
		LatestNavDate:         latest.Date,
		UnitNav:               formulas.Round(latest.Nav, 4),
		TotalReturn:           all.PeriodReturn,
		TotalReturnAnnualized: all.AnnualizedReturn,
		ActiveReturn:          all.ActiveReturn,
		ActiveAnnualized:      all.AnnualizedActiveReturn,
		MaxDrawdown:           -math.Abs(all.MaxDrawdown),
		SharpeRatio:           all.SharpeRatio,
		Beta:                  all.Beta,
		RiskCharacteristic:    all.RiskCharacteristic,
	}
}

// buildPeriodReturnsTable 期间收益对照表，periodOrder 决定行序
func buildPeriodReturnsTable(periodOrder []string, rows map[string]nav.PeriodReturnsRow) [][]string {
	table := [][]string{{"时间段", "组合收益率(%)", "基准收益率(%)", "超额收益率(%)"}}
	for _, period := range periodOrder {
		row := rows[period]
		table = append(table, []string{
			period,
			fmt2(row.ProductReturn),
			fmt2(row.BenchmarkReturn),
			fmt2(row.ExcessReturn),
		})
	}
	return table
}

// BuildNavPerformance 净值表现数据包：累计收益曲线、日收益序列、
// 期间收益与期间指标及其表格形式。
func BuildNavPerformance(
	points []nav.Point,
	periods nav.Periods,
	periodOrder []string,
	riskFreeRate float64,
	benchmarkNav []nav.Point,
	benchmarkReturns []float64,
	benchmarkPeriodReturns map[string]float64,
	benchmarkReturnDates []string,
) NavPerformance {
	if len(points) == 0 {
		return NavPerformance{}
	}

	productCumulative := nav.CalculateCumulativeReturns(points)

	var benchmarkCumulative []benchmark.CumulativePoint
	if len(benchmarkNav) > 0 {
		for _, c := range nav.CalculateCumulativeReturns(benchmarkNav) {
			benchmarkCumulative = append(benchmarkCumulative, benchmark.CumulativePoint{
				Date:             c.Date,
				CumulativeReturn: c.CumulativeReturn,
			})
		}
	}

	benchmarkByDate := make(map[string]float64, len(benchmarkCumulative))
	for _, b := range benchmarkCumulative {
		benchmarkByDate[b.Date] = b.CumulativeReturn
	}
	excessByDate := make(map[string]float64)
	for _, e := range benchmark.CalculateCumulativeExcessReturns(productCumulative, benchmarkCumulative) {
		excessByDate[e.Date] = e.ExcessReturn
	}

	navSeries := make([]NavSeriesPoint, 0, len(productCumulative))
	for _, c := range productCumulative {
		navSeries = append(navSeries, NavSeriesPoint{
			Date:              c.Date,
			AccumulatedReturn: c.CumulativeReturn,
			BenchmarkReturn:   benchmarkByDate[c.Date],
			ExcessReturn:      excessByDate[c.Date],
		})
	}

	dailyReturns := nav.DailyReturns(points)
	dailySeries := make([]DailyReturnPoint, 0, len(dailyReturns))
	for i, ret := range dailyReturns {
		dailySeries = append(dailySeries, DailyReturnPoint{
			Date:             points[i+1].Date,
			DailyReturn:      formulas.Round(ret*100, 2),
			CumulativeReturn: productCumulative[i+1].CumulativeReturn,
		})
	}

	periodReturns := nav.CalculatePeriodReturns(points, periods, benchmarkNav)
	periodMetrics := nav.CalculatePeriodMetrics(
		points, periods, riskFreeRate, benchmarkReturns, benchmarkPeriodReturns, benchmarkReturnDates,
	)

	return NavPerformance{
		NavSeries:          navSeries,
		DailyReturns:       dailySeries,
		PeriodReturns:      periodReturns,
		PeriodReturnsTable: buildPeriodReturnsTable(periodOrder, periodReturns),
		PeriodMetrics:      periodMetrics,
		PeriodMetricsTable: FormatPeriodMetricsTable(periodOrder, periodMetrics),
	}
}

// BuildDrawdownData 动态回撤曲线与表格，产品和基准共用一套算法
func BuildDrawdownData(points []nav.Point, benchmarkNav []nav.Point) DrawdownData {
	if len(points) == 0 {
		return DrawdownData{}
	}

	productDrawdowns := nav.CalculateDailyDrawdowns(points)

	benchmarkByDate := make(map[string]float64)
	if len(benchmarkNav) > 0 {
		for _, d := range nav.CalculateDailyDrawdowns(benchmarkNav) {
			benchmarkByDate[d.Date] = -math.Abs(d.Drawdown)
		}
	}

	series := make([]DrawdownPoint, 0, len(productDrawdowns))
	for _, d := range productDrawdowns {
		series = append(series, DrawdownPoint{
			Date:              d.Date,
			ProductDrawdown:   -math.Abs(d.Drawdown),
			BenchmarkDrawdown: benchmarkByDate[d.Date],
		})
	}

	productMax := nav.CalculateMaxDrawdown(points)
	productRecovery := nav.CalculateDrawdownRecoveryPeriod(points, productMax.StartDate, productMax.EndDate)

	table := DrawdownTable{
		ProductMaxDrawdown:      -math.Abs(productMax.MaxDrawdown),
		ProductDDStart:          productMax.StartDate,
		ProductDDEnd:            productMax.EndDate,
		ProductRecoveryPeriod:   formatRecovery(productRecovery.RecoveryPeriod, productRecovery.RecoveryDate),
		BenchmarkRecoveryPeriod: "-",
	}

	if len(benchmarkNav) > 0 {
		benchmarkMax := nav.CalculateMaxDrawdown(benchmarkNav)
		benchmarkRecovery := nav.CalculateDrawdownRecoveryPeriod(benchmarkNav, benchmarkMax.StartDate, benchmarkMax.EndDate)
		table.BenchmarkMaxDrawdown = -math.Abs(benchmarkMax.MaxDrawdown)
		table.BenchmarkDDStart = benchmarkMax.StartDate
		table.BenchmarkDDEnd = benchmarkMax.EndDate
		table.BenchmarkRecoveryPeriod = formatRecovery(benchmarkRecovery.RecoveryPeriod, benchmarkRecovery.RecoveryDate)
	}

	return DrawdownData{Series: series, Table: table}
}

// BuildBrinsonData 逐日 Brinson 归因及其累计序列
func BuildBrinsonData(
	snapshots []attribution.DailySnapshot,
	industryMapping map[string]string,
	benchmarkWeightsByDate map[string]map[string]float64,
	benchmarkReturnsByDate map[string]map[string]float64,
	defaultBenchmarkWeights map[string]float64,
	defaultBenchmarkReturns map[string]float64,
) BrinsonData {
	daily := attribution.CalculateDailyBrinson(
		snapshots, industryMapping,
		benchmarkWeightsByDate, benchmarkReturnsByDate,
		defaultBenchmarkWeights, defaultBenchmarkReturns,
	)
	cumulative := attribution.CalculateCumulativeBrinson(daily)

	data := BrinsonData{Daily: daily, Cumulative: cumulative}
	if len(cumulative) > 0 {
		data.Latest = cumulative[len(cumulative)-1]
	}
	return data
}
