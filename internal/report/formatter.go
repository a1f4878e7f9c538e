package report

import (
	"fmt"

	"github.com/wonny/fundlens/backend/internal/attribution"
	"github.com/wonny/fundlens/backend/internal/nav"
	"github.com/wonny/fundlens/backend/internal/trading"
)

// fmt2 渲染为两位小数字符串
func fmt2(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

// formatRecovery renders a recovery cell, "-" when the drawdown never healed
func formatRecovery(period *int, date *string) string {
	if period == nil {
		return "-"
	}
	recoveryDate := ""
	if date != nil {
		recoveryDate = *date
	}
	return fmt.Sprintf("%d天 (%s)", *period, recoveryDate)
}

// FormatMetricsTable 全量指标表，首行为表头
func FormatMetricsTable(m nav.AllMetrics) [][]string {
	return [][]string{
		{"指标名称", "数值"},
		{"期间产品收益率", fmt.Sprintf("%s%% (年化 %s%%)", fmt2(m.PeriodReturn), fmt2(m.AnnualizedReturn))},
		{"最大回撤", fmt2(m.MaxDrawdown) + "%"},
		{"波动率", fmt2(m.Volatility) + "%"},
		{"夏普比率", fmt2(m.SharpeRatio)},
		{"卡玛比率", fmt2(m.CalmarRatio)},
		{"主动收益", fmt.Sprintf("%s%% (年化 %s%%)", fmt2(m.ActiveReturn), fmt2(m.AnnualizedActiveReturn))},
		{"β值", fmt2(m.Beta)},
		{"跟踪误差", fmt2(m.TrackingError) + "%"},
		{"下行波动率", fmt2(m.DownsideVolatility) + "%"},
		{"索提诺比率", fmt2(m.SortinoRatio)},
		{"信息比率", fmt2(m.InformationRatio)},
		{"单日最大收益", fmt.Sprintf("%s%% (%s)", fmt2(m.MaxDailyReturn), m.MaxReturnDate)},
		{"单日最大亏损", fmt.Sprintf("%s%% (%s)", fmt2(m.MaxDailyLoss), m.MaxLossDate)},
		{"周胜率", fmt2(m.WeeklyWinRate) + "%"},
		{"月胜率", fmt2(m.MonthlyWinRate) + "%"},
		{"最大回撤修复期", formatRecovery(m.RecoveryPeriod, m.RecoveryDate)},
		{"收益风险特征", m.RiskCharacteristic},
	}
}

// periodMetricsRows 指标行定义：标题、取值函数、是否带百分号
var periodMetricsRows = []struct {
	title   string
	value   func(nav.MetricBundle) float64
	percent bool
}{
	{"年化收益率", func(b nav.MetricBundle) float64 { return b.AnnualizedReturn }, true},
	{"年化波动率", func(b nav.MetricBundle) float64 { return b.Volatility }, true},
	{"跟踪误差", func(b nav.MetricBundle) float64 { return b.TrackingError }, true},
	{"下行波动率", func(b nav.MetricBundle) float64 { return b.DownsideVolatility }, true},
	{"夏普比率", func(b nav.MetricBundle) float64 { return b.SharpeRatio }, false},
	{"索提诺比率", func(b nav.MetricBundle) float64 { return b.SortinoRatio }, false},
	{"信息比率", func(b nav.MetricBundle) float64 { return b.InformationRatio }, false},
	{"最大回撤", func(b nav.MetricBundle) float64 { return b.MaxDrawdown }, true},
	{"卡玛比率", func(b nav.MetricBundle) float64 { return b.CalmarRatio }, false},
}

// FormatPeriodMetricsTable 多时间段指标对比表。
// periodOrder 决定列顺序；不在 metrics 里的时间段输出 "-"。
func FormatPeriodMetricsTable(periodOrder []string, metrics map[string]nav.MetricBundle) [][]string {
	header := append([]string{"指标"}, periodOrder...)
	rows := [][]string{header}

	for _, def := range periodMetricsRows {
		row := []string{def.title}
		for _, period := range periodOrder {
			bundle, ok := metrics[period]
			if !ok {
				row = append(row, "-")
				continue
			}
			cell := fmt2(def.value(bundle))
			if def.percent {
				cell += "%"
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	return rows
}

var industryTableHeader = []string{
	"行业", "权重占净值比(%)", "贡献度(%)", "收益额(万元)", "选择收益(%)", "配置收益(%)",
}

// FormatIndustryTables 行业归因的盈利表与亏损表。
// 输入已按盈亏降序，盈利表取前 topN，亏损表取按盈亏升序的前 topN。
func FormatIndustryTables(rows []attribution.IndustryAttributionRow, topN int) (profit, loss [][]string) {
	render := func(row attribution.IndustryAttributionRow) []string {
		return []string{
			row.Industry,
			fmt2(row.Weight),
			fmt2(row.Contribution),
			fmt2(row.Profit),
			fmt2(row.SelectionReturn),
			fmt2(row.AllocationReturn),
		}
	}

	profit = [][]string{industryTableHeader}
	for i := 0; i < len(rows) && i < topN; i++ {
		profit = append(profit, render(rows[i]))
	}

	loss = [][]string{industryTableHeader}
	for i := len(rows) - 1; i >= 0 && len(loss) <= topN; i-- {
		loss = append(loss, render(rows[i]))
	}
	return profit, loss
}

var stockTableHeader = []string{"股票代码", "股票名称", "权重占净值比(%)", "贡献度(%)", "收益额(万元)"}

// FormatStockTables 个股绩效的盈利表（前 topN）与亏损表（按盈亏升序的前 topN，亏最多在前）
func FormatStockTables(rows []attribution.StockPerformanceRow, topN int) (profit, loss [][]string) {
	render := func(row attribution.StockPerformanceRow) []string {
		return []string{row.Code, row.Name, fmt2(row.Weight), fmt2(row.Contribution), fmt2(row.Profit)}
	}

	profit = [][]string{stockTableHeader}
	for i := 0; i < len(rows) && i < topN; i++ {
		profit = append(profit, render(rows[i]))
	}

	loss = [][]string{stockTableHeader}
	for i := len(rows) - 1; i >= 0 && len(loss) <= topN; i-- {
		loss = append(loss, render(rows[i]))
	}
	return profit, loss
}

// FormatPositionNodesTable 持仓集中度表
func FormatPositionNodesTable(nodes []attribution.PositionNode) [][]string {
	table := [][]string{{"持仓节点", "市值(万元)", "占比(%)"}}
	for _, node := range nodes {
		table = append(table, []string{node.Node, fmt2(node.MarketValue), fmt2(node.Percentage)})
	}
	return table
}

// FormatTurnoverTable 各资产类别分时间段换手率。
// assetClasses/periodOrder 决定行列顺序。
func FormatTurnoverTable(assetClasses, periodOrder []string, rates map[string]map[string]float64) [][]string {
	header := []string{"资产分类"}
	for _, period := range periodOrder {
		header = append(header, period+"(%)")
	}

	table := [][]string{header}
	for _, assetClass := range assetClasses {
		row := []string{assetClass}
		for _, period := range periodOrder {
			row = append(row, fmt2(rates[assetClass][period]))
		}
		table = append(table, row)
	}
	return table
}

// FormatTradingStatsTable 各资产类别买卖金额表
func FormatTradingStatsTable(assetClasses []string, stats map[string]trading.TradingStats) [][]string {
	table := [][]string{{"资产分类", "买入金额(万元)", "卖出金额(万元)"}}
	for _, assetClass := range assetClasses {
		s := stats[assetClass]
		table = append(table, []string{assetClass, fmt2(s.BuyAmount), fmt2(s.SellAmount)})
	}
	return table
}
