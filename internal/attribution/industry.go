package attribution

import (
	"sort"

	"github.com/wonny/fundlens/backend/pkg/formulas"
)

// IndustryAttributionRow is one industry's weight, contribution and effects.
// Weight/Contribution 为百分数（4 位小数），效应为百分数（2 位小数）。
type IndustryAttributionRow struct {
	Industry         string  `json:"industry"`
	Weight           float64 `json:"weight"`
	Contribution     float64 `json:"contribution"`
	Profit           float64 `json:"profit"`
	SelectionReturn  float64 `json:"selection_return"`
	AllocationReturn float64 `json:"allocation_return"`
}

// CalculateIndustryAttribution 行业层面归因。
// 权重 = 行业期末市值/总资产；贡献度 = 行业盈亏/总盈亏（总盈亏为 0 时取 0）。
// 结果按盈亏降序排列——下游"盈利前 N/亏损前 N"直接取同一列表的首尾。
func CalculateIndustryAttribution(
	positions []Position,
	totalAssets float64,
	totalProfit float64,
	industryMapping map[string]string,
	benchmarkWeights map[string]float64,
	benchmarkReturns map[string]float64,
) []IndustryAttributionRow {
	if len(positions) == 0 || totalAssets <= 0 {
		return nil
	}

	buckets := aggregateByIndustry(positions, industryMapping)
	wb := normalizeWeights(benchmarkWeights)
	rb := normalizeReturns(benchmarkReturns)

	rows := make([]IndustryAttributionRow, 0, len(buckets))
	for industry, bucket := range buckets {
		weight := bucket.endValue / totalAssets

		contribution := 0.0
		if totalProfit != 0 {
			contribution = bucket.profitLoss / totalProfit * 100
		}

		ret := industryReturn(bucket)
		benchmarkWeight := wb[industry]
		benchmarkReturn := rb[industry]

		selection := weight * (ret - benchmarkReturn)
		allocation := (weight - benchmarkWeight) * benchmarkReturn

		rows = append(rows, IndustryAttributionRow{
			Industry:         industry,
			Weight:           formulas.Round(weight*100, 4),
			Contribution:     formulas.Round(contribution, 4),
			Profit:           formulas.Round(bucket.profitLoss, 2),
			SelectionReturn:  formulas.Round(selection*100, 2),
			AllocationReturn: formulas.Round(allocation*100, 2),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Profit > rows[j].Profit
	})
	return rows
}
