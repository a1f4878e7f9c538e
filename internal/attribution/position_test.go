package attribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateStockPerformance(t *testing.T) {
	positions := []Position{
		{Code: "600000", Name: "浦发银行", MarketValue: 300, ProfitLoss: 20},
		{Code: "600519", Name: "贵州茅台", MarketValue: 500, ProfitLoss: -20},
		{Code: "000999", Name: "华润三九", MarketValue: 200, ProfitLoss: 50},
	}

	rows := CalculateStockPerformance(positions, 1000, 50)
	require.Len(t, rows, 3)

	// 按盈亏降序
	assert.Equal(t, "000999", rows[0].Code)
	assert.Equal(t, "600000", rows[1].Code)
	assert.Equal(t, "600519", rows[2].Code)

	assert.Equal(t, 20.0, rows[0].Weight)
	assert.Equal(t, 100.0, rows[0].Contribution)
	assert.Equal(t, 50.0, rows[0].Profit)
	assert.Equal(t, -40.0, rows[2].Contribution)
}

func TestCalculateStockPerformance_ZeroGuards(t *testing.T) {
	positions := []Position{{Code: "600000", MarketValue: 300, ProfitLoss: 20}}

	assert.Nil(t, CalculateStockPerformance(nil, 1000, 50))
	assert.Nil(t, CalculateStockPerformance(positions, 0, 50))

	rows := CalculateStockPerformance(positions, 1000, 0)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].Contribution)
}

func TestCalculatePositionNodes(t *testing.T) {
	positions := []Position{
		{Code: "A", MarketValue: 400},
		{Code: "B", MarketValue: 300},
		{Code: "C", MarketValue: 200},
		{Code: "D", MarketValue: 100},
		{Code: "E", MarketValue: 0}, // 已清仓，不参与
	}

	nodes := CalculatePositionNodes(positions, 1000)
	require.Len(t, nodes, 7)

	assert.Equal(t, "TOP1", nodes[0].Node)
	assert.Equal(t, 400.0, nodes[0].MarketValue)
	assert.Equal(t, 40.0, nodes[0].Percentage)

	assert.Equal(t, "TOP3", nodes[2].Node)
	assert.Equal(t, 900.0, nodes[2].MarketValue)

	// 持仓数不足 N 时取全部
	assert.Equal(t, "TOP100", nodes[6].Node)
	assert.Equal(t, 1000.0, nodes[6].MarketValue)
	assert.Equal(t, 100.0, nodes[6].Percentage)
}

func TestCalculatePositionNodes_FixedShape(t *testing.T) {
	// 空输入仍返回固定 7 行零值
	nodes := CalculatePositionNodes(nil, 0)
	require.Len(t, nodes, 7)

	labels := []string{"TOP1", "TOP2", "TOP3", "TOP5", "TOP10", "TOP50", "TOP100"}
	for i, node := range nodes {
		assert.Equal(t, labels[i], node.Node)
		assert.Equal(t, 0.0, node.MarketValue)
		assert.Equal(t, 0.0, node.Percentage)
	}
}
