package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRiskCharacteristic_LowRisk(t *testing.T) {
	c := ClassifyRiskCharacteristic(Inputs{
		AnnualizedReturn:   f(6.0),
		Volatility:         f(8.0),
		MaxDrawdown:        f(5.0),
		DownsideVolatility: f(4.0),
		Beta:               f(0.7),
		TrackingError:      f(3.0),
		SharpeRatio:        f(1.5),
		SortinoRatio:       f(1.5),
		CalmarRatio:        f(1.2),
	})

	assert.Equal(t, LevelLowRisk, c.RiskLevel)
	assert.Equal(t, "低风险", c.RiskLevelShort)
	assert.Equal(t, "低风险低收益", c.Level)
	assert.Equal(t, 0, c.BaseScore)
	assert.Equal(t, -3, c.Adjustments)
	// 调整后为负，钳制到 0
	assert.Equal(t, 0, c.Score)
	assert.Empty(t, c.OverrideReasons)
	require.NotNil(t, c.ReturnLevelCode)
	assert.Equal(t, 1, *c.ReturnLevelCode)
}

func TestClassifyRiskCharacteristic_MediumRisk(t *testing.T) {
	c := ClassifyRiskCharacteristic(Inputs{
		AnnualizedReturn:   f(12.0),
		Volatility:         f(15.0), // 1
		MaxDrawdown:        f(15.0), // 1
		DownsideVolatility: f(10.0), // 1
		Beta:               f(1.0),  // 1
		TrackingError:      f(8.0),  // 1
		SharpeRatio:        f(0.8),  // 0
		SortinoRatio:       f(1.0),  // 0
		CalmarRatio:        f(0.8),  // 0
	})

	assert.Equal(t, 5, c.BaseScore)
	assert.Equal(t, 0, c.Adjustments)
	assert.Equal(t, 5, c.Score)
	assert.Equal(t, LevelMediumRisk, c.RiskLevel)
	assert.Equal(t, "中风险中收益", c.Level)
}

func TestClassifyRiskCharacteristic_DrawdownOverride(t *testing.T) {
	// 最大回撤 32% 触发强制升级，无论其余指标多温和
	c := ClassifyRiskCharacteristic(Inputs{
		AnnualizedReturn:   f(10.0),
		Volatility:         f(8.0),
		MaxDrawdown:        f(32.0),
		DownsideVolatility: f(4.0),
		Beta:               f(0.7),
		TrackingError:      f(3.0),
		SharpeRatio:        f(1.5),
		SortinoRatio:       f(1.5),
		CalmarRatio:        f(1.2),
	})

	assert.Equal(t, LevelHighRisk, c.RiskLevel)
	assert.Equal(t, "高风险高风险预警", c.Level)
	require.Len(t, c.OverrideReasons, 1)
	assert.Equal(t, "最大回撤≥30%", c.OverrideReasons[0])
}

func TestClassifyRiskCharacteristic_OverrideOrder(t *testing.T) {
	c := ClassifyRiskCharacteristic(Inputs{
		MaxDrawdown:        f(35.0),
		Volatility:         f(40.0),
		DownsideVolatility: f(25.0),
	})

	require.Len(t, c.OverrideReasons, 3)
	assert.Equal(t, []string{"最大回撤≥30%", "年化波动率≥35%", "下行波动率≥20%"}, c.OverrideReasons)
}

func TestClassifyRiskCharacteristic_MissingInputs(t *testing.T) {
	// 全部缺失：0 分，低风险，收益待评估
	c := ClassifyRiskCharacteristic(Inputs{})

	assert.Equal(t, 0, c.Score)
	assert.Equal(t, LevelLowRisk, c.RiskLevel)
	assert.Nil(t, c.ReturnLevelCode)
	assert.Equal(t, "收益待评估", c.ReturnLevel)
	assert.Equal(t, "低风险", c.Level, "收益等级缺失时只保留风险档")

	for _, item := range c.ScoreBreakdown {
		assert.Equal(t, 0, item.Score)
		assert.Equal(t, MissingDataBand, item.Band)
	}
}

func TestClassifyRiskCharacteristic_NaN(t *testing.T) {
	nan := math.NaN()
	c := ClassifyRiskCharacteristic(Inputs{
		Volatility:  &nan,
		MaxDrawdown: f(12.0),
	})

	assert.Equal(t, 1, c.BaseScore)
	for _, item := range c.ScoreBreakdown {
		if item.Metric == "volatility" {
			assert.Equal(t, MissingDataBand, item.Band)
		}
	}
}

func TestClassifyReturnLevel_Bands(t *testing.T) {
	cases := []struct {
		ret   float64
		label string
		code  int
	}{
		{-2.0, "亏损型", 0},
		{5.0, "低收益", 1},
		{12.0, "中收益", 2},
		{20.0, "高收益", 3},
	}
	for _, tc := range cases {
		label, code := classifyReturnLevel(&tc.ret)
		require.NotNil(t, code)
		assert.Equal(t, tc.label, label)
		assert.Equal(t, tc.code, *code)
	}
}

func TestJudgeRiskCharacteristic(t *testing.T) {
	result := JudgeRiskCharacteristic(10.0, 8.0)
	assert.Equal(t, "绝对收益风险类型属于 低风险中收益", result)
}
