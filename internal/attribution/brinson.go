// Package attribution Brinson 业绩归因与持仓归因（纯计算器）。
//
// 两因子 Brinson 模型：
//
//	选股效应 = Σ wp_i × (rp_i - rb_i)
//	配置效应 = Σ (wp_i - wb_i) × rb_i
//	超额收益 = 选股 + 配置（恒等式在舍入前精确成立）
//
// 权重与收益率输入兼容百分数和小数两种量纲，内部统一归一为小数。
package attribution

import (
	"sort"

	"github.com/wonny/fundlens/backend/pkg/formulas"
)

// UnknownIndustry 行业映射缺失时的兜底分组
const UnknownIndustry = "未知行业"

// Position is one holding row of a position snapshot. 市值单位万元。
// BeginMarketValue 缺失（<=0）时该行业的期间收益率退化为 0。
type Position struct {
	Code             string  `json:"code"`
	Name             string  `json:"name"`
	MarketValue      float64 `json:"market_value"`
	BeginMarketValue float64 `json:"begin_market_value"`
	NetCashFlow      float64 `json:"net_cash_flow"`
	ProfitLoss       float64 `json:"profit_loss"`
}

// BrinsonResult holds the two-factor decomposition in decimal form, 6 dp
type BrinsonResult struct {
	SelectionEffect   float64 `json:"selection_effect"`
	AllocationEffect  float64 `json:"allocation_effect"`
	TotalExcessReturn float64 `json:"total_excess_return"`
}

// DailyBrinsonRow is one day of the daily attribution series (percent, 2 dp)
type DailyBrinsonRow struct {
	Date              string  `json:"date"`
	SelectionEffect   float64 `json:"selection_effect"`
	AllocationEffect  float64 `json:"allocation_effect"`
	TotalExcessReturn float64 `json:"total_excess_return"`
}

// CumulativeBrinsonRow 累计归因：逐日加总，不做复利
type CumulativeBrinsonRow struct {
	Date                   string  `json:"date"`
	CumulativeSelection    float64 `json:"cumulative_selection"`
	CumulativeAllocation   float64 `json:"cumulative_allocation"`
	CumulativeExcessReturn float64 `json:"cumulative_excess_return"`
}

// DailySnapshot is one day's positions with the day's total assets
type DailySnapshot struct {
	Date        string     `json:"date"`
	Positions   []Position `json:"positions"`
	TotalAssets float64    `json:"total_assets"`
}

// normalizeWeights 权重统一为 0-1 小数，>1 视作百分数
func normalizeWeights(weights map[string]float64) map[string]float64 {
	if len(weights) == 0 {
		return nil
	}
	normalized := make(map[string]float64, len(weights))
	for industry, w := range weights {
		if w > 1.0 {
			w = w / 100.0
		}
		normalized[industry] = w
	}
	return normalized
}

// normalizeReturns 收益率统一为小数，绝对值 >1 视作百分数
func normalizeReturns(returns map[string]float64) map[string]float64 {
	if len(returns) == 0 {
		return nil
	}
	normalized := make(map[string]float64, len(returns))
	for industry, r := range returns {
		if r > 1.0 || r < -1.0 {
			r = r / 100.0
		}
		normalized[industry] = r
	}
	return normalized
}

// industryUnion collects every industry key appearing in any input mapping
func industryUnion(mappings ...map[string]float64) []string {
	seen := make(map[string]struct{})
	for _, m := range mappings {
		for industry := range m {
			seen[industry] = struct{}{}
		}
	}
	union := make([]string, 0, len(seen))
	for industry := range seen {
		union = append(union, industry)
	}
	sort.Strings(union)
	return union
}

// BrinsonAttribution decomposes excess return over the union of industry keys.
// 缺失的键按权重/收益率 0 处理。
func BrinsonAttribution(productWeights, benchmarkWeights, productReturns, benchmarkReturns map[string]float64) BrinsonResult {
	wp := normalizeWeights(productWeights)
	wb := normalizeWeights(benchmarkWeights)
	rp := normalizeReturns(productReturns)
	rb := normalizeReturns(benchmarkReturns)

	selection := 0.0
	allocation := 0.0
	for _, industry := range industryUnion(wp, wb, rp, rb) {
		selection += wp[industry] * (rp[industry] - rb[industry])
		allocation += (wp[industry] - wb[industry]) * rb[industry]
	}

	return BrinsonResult{
		SelectionEffect:   formulas.Round(selection, 6),
		AllocationEffect:  formulas.Round(allocation, 6),
		TotalExcessReturn: formulas.Round(selection+allocation, 6),
	}
}

// industryBucket 按行业聚合的期初/期末市值与净流入
type industryBucket struct {
	beginValue  float64
	endValue    float64
	netCashFlow float64
	profitLoss  float64
}

// aggregateByIndustry groups position rows by mapped industry
func aggregateByIndustry(positions []Position, industryMapping map[string]string) map[string]*industryBucket {
	buckets := make(map[string]*industryBucket)
	for _, pos := range positions {
		industry, ok := industryMapping[pos.Code]
		if !ok {
			industry = UnknownIndustry
		}
		bucket, ok := buckets[industry]
		if !ok {
			bucket = &industryBucket{}
			buckets[industry] = bucket
		}
		bucket.beginValue += pos.BeginMarketValue
		bucket.endValue += pos.MarketValue
		bucket.netCashFlow += pos.NetCashFlow
		bucket.profitLoss += pos.ProfitLoss
	}
	return buckets
}

// industryReturn 行业期间收益率 = (期末 - 期初 - 净流入) / 期初。
// 期初市值缺失（<=0）时退化为 0——占位值，不是真实收益，上游补齐
// begin_market_value/net_cash_flow 字段后才能得到准确结果。
func industryReturn(bucket *industryBucket) float64 {
	if bucket.beginValue <= 0 {
		return 0
	}
	return (bucket.endValue - bucket.beginValue - bucket.netCashFlow) / bucket.beginValue
}

// CalculateBrinsonOnDate runs the two-factor model on one day's snapshot.
// 返回百分数（×100，2 位小数）。空持仓或总资产非正返回全零行。
func CalculateBrinsonOnDate(
	date string,
	positions []Position,
	totalAssets float64,
	industryMapping map[string]string,
	benchmarkWeights map[string]float64,
	benchmarkReturns map[string]float64,
) DailyBrinsonRow {
	if len(positions) == 0 || totalAssets <= 0 {
		return DailyBrinsonRow{Date: date}
	}

	buckets := aggregateByIndustry(positions, industryMapping)

	productWeights := make(map[string]float64, len(buckets))
	productReturns := make(map[string]float64, len(buckets))
	for industry, bucket := range buckets {
		productWeights[industry] = bucket.endValue / totalAssets
		productReturns[industry] = industryReturn(bucket)
	}

	result := BrinsonAttribution(productWeights, benchmarkWeights, productReturns, benchmarkReturns)
	return DailyBrinsonRow{
		Date:              date,
		SelectionEffect:   formulas.Round(result.SelectionEffect*100, 2),
		AllocationEffect:  formulas.Round(result.AllocationEffect*100, 2),
		TotalExcessReturn: formulas.Round(result.TotalExcessReturn*100, 2),
	}
}

// CalculateDailyBrinson 逐日归因。每个日期优先取按日期键控的基准快照，
// 缺失时回退到全期默认值。总资产非正时尝试用持仓市值合计兜底。
func CalculateDailyBrinson(
	snapshots []DailySnapshot,
	industryMapping map[string]string,
	benchmarkWeightsByDate map[string]map[string]float64,
	benchmarkReturnsByDate map[string]map[string]float64,
	defaultBenchmarkWeights map[string]float64,
	defaultBenchmarkReturns map[string]float64,
) []DailyBrinsonRow {
	if len(snapshots) == 0 {
		return nil
	}

	rows := make([]DailyBrinsonRow, 0, len(snapshots))
	for _, snapshot := range snapshots {
		totalAssets := snapshot.TotalAssets
		if totalAssets <= 0 {
			for _, pos := range snapshot.Positions {
				totalAssets += pos.MarketValue
			}
		}

		if len(snapshot.Positions) == 0 || totalAssets <= 0 {
			rows = append(rows, DailyBrinsonRow{Date: snapshot.Date})
			continue
		}

		weights := defaultBenchmarkWeights
		if byDate, ok := benchmarkWeightsByDate[snapshot.Date]; ok {
			weights = byDate
		}
		returns := defaultBenchmarkReturns
		if byDate, ok := benchmarkReturnsByDate[snapshot.Date]; ok {
			returns = byDate
		}

		rows = append(rows, CalculateBrinsonOnDate(
			snapshot.Date, snapshot.Positions, totalAssets, industryMapping, weights, returns,
		))
	}
	return rows
}

// CalculateCumulativeBrinson 对每个效应做加法累计，每步四舍五入到 2 位
func CalculateCumulativeBrinson(daily []DailyBrinsonRow) []CumulativeBrinsonRow {
	if len(daily) == 0 {
		return nil
	}

	var selection, allocation, total float64
	rows := make([]CumulativeBrinsonRow, 0, len(daily))
	for _, d := range daily {
		selection += d.SelectionEffect
		allocation += d.AllocationEffect
		total += d.TotalExcessReturn

		rows = append(rows, CumulativeBrinsonRow{
			Date:                   d.Date,
			CumulativeSelection:    formulas.Round(selection, 2),
			CumulativeAllocation:   formulas.Round(allocation, 2),
			CumulativeExcessReturn: formulas.Round(total, 2),
		})
	}
	return rows
}
