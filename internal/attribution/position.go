package attribution

import (
	"sort"

	"github.com/wonny/fundlens/backend/pkg/formulas"
)

// StockPerformanceRow 个股绩效：权重、贡献度、盈亏
type StockPerformanceRow struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
	Profit       float64 `json:"profit"`
}

// PositionNode is one row of the fixed TOPN concentration table
type PositionNode struct {
	Node        string  `json:"node"`
	MarketValue float64 `json:"market_value"`
	Percentage  float64 `json:"percentage"`
}

// positionNodeLabels 固定 7 档集中度节点，顺序即输出顺序
var positionNodeLabels = []struct {
	label string
	count int
}{
	{"TOP1", 1},
	{"TOP2", 2},
	{"TOP3", 3},
	{"TOP5", 5},
	{"TOP10", 10},
	{"TOP50", 50},
	{"TOP100", 100},
}

// CalculateStockPerformance 个股权重与盈亏贡献，按盈亏降序。
// 总盈亏为 0 时贡献度取 0，总资产非正时返回空。
func CalculateStockPerformance(positions []Position, totalAssets, totalProfit float64) []StockPerformanceRow {
	if len(positions) == 0 || totalAssets <= 0 {
		return nil
	}

	rows := make([]StockPerformanceRow, 0, len(positions))
	for _, pos := range positions {
		contribution := 0.0
		if totalProfit != 0 {
			contribution = pos.ProfitLoss / totalProfit * 100
		}
		rows = append(rows, StockPerformanceRow{
			Code:         pos.Code,
			Name:         pos.Name,
			Weight:       formulas.Round(pos.MarketValue/totalAssets*100, 4),
			Contribution: formulas.Round(contribution, 4),
			Profit:       formulas.Round(pos.ProfitLoss, 2),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Profit > rows[j].Profit
	})
	return rows
}

// CalculatePositionNodes 持仓集中度：按市值降序取前 N 合计市值占总资产比例。
// 无持仓或总资产非正时仍返回固定 7 行零值——调用方依赖这个形状。
func CalculatePositionNodes(positions []Position, totalAssets float64) []PositionNode {
	active := make([]Position, 0, len(positions))
	for _, pos := range positions {
		if pos.MarketValue > 0 {
			active = append(active, pos)
		}
	}

	if len(active) == 0 || totalAssets <= 0 {
		rows := make([]PositionNode, 0, len(positionNodeLabels))
		for _, node := range positionNodeLabels {
			rows = append(rows, PositionNode{Node: node.label})
		}
		return rows
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].MarketValue > active[j].MarketValue
	})

	rows := make([]PositionNode, 0, len(positionNodeLabels))
	for _, node := range positionNodeLabels {
		count := node.count
		if count > len(active) {
			count = len(active)
		}
		var sum float64
		for _, pos := range active[:count] {
			sum += pos.MarketValue
		}
		rows = append(rows, PositionNode{
			Node:        node.label,
			MarketValue: formulas.Round(sum, 2),
			Percentage:  formulas.Round(sum/totalAssets*100, 2),
		})
	}
	return rows
}
