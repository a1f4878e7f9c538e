// Package risk 基于多维指标的实盘风险分级模型（纯计算器）。
//
// 模型思路：
//  1. 波动率、最大回撤、下行波动率、Beta、跟踪误差为基础风险因子，各 0/1/2 分。
//  2. 夏普、索提诺、卡玛等风险调整收益指标作为加减项（-1/0/+1，比率越高分越低）。
//  3. 极端阈值触发强制升级，保证合规视角下不会被加分项拉低。
package risk

import (
	"fmt"

	"github.com/wonny/fundlens/backend/pkg/formulas"
)

// Band labels
const (
	MissingDataBand = "数据缺失或无效"

	LevelLowRisk    = "低风险（稳健型）"
	LevelMediumRisk = "中风险（平衡型）"
	LevelHighRisk   = "高风险（进取型）"
)

// band is one scoring interval: value <= Upper (nil = unbounded) earns Score
type band struct {
	upper *float64
	score int
	label string
}

// ScoreItem is one scored metric in the breakdown
type ScoreItem struct {
	Metric      string   `json:"metric"`
	Value       *float64 `json:"value"`
	Score       int      `json:"score"`
	Band        string   `json:"band"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
}

// Classification is the full risk-characteristic result
type Classification struct {
	Level            string      `json:"level"`
	RiskLevel        string      `json:"risk_level"`
	RiskLevelShort   string      `json:"risk_level_short"`
	ReturnLevel      string      `json:"return_level"`
	ReturnLevelCode  *int        `json:"return_level_code"`
	Score            int         `json:"score"`
	BaseScore        int         `json:"base_score"`
	Adjustments      int         `json:"adjustments"`
	ScoreBreakdown   []ScoreItem `json:"score_breakdown"`
	OverrideReasons  []string    `json:"override_reasons"`
	AnnualizedReturn *float64    `json:"annualized_return"`
}

// Inputs are the nine scored metrics. nil 表示指标缺失。
type Inputs struct {
	AnnualizedReturn   *float64
	Volatility         *float64
	MaxDrawdown        *float64
	DownsideVolatility *float64
	Beta               *float64
	TrackingError      *float64
	SharpeRatio        *float64
	SortinoRatio       *float64
	CalmarRatio        *float64
}

func f(v float64) *float64 { return &v }

// safeValue filters nil, NaN and infinities. 任何无效值一律按缺失处理，不报错。
func safeValue(v *float64) *float64 {
	if v == nil || !formulas.IsFinite(*v) {
		return nil
	}
	return v
}

// scoreMetric assigns the first band whose upper bound covers the value
func scoreMetric(value float64, bands []band) (int, string) {
	for _, b := range bands {
		if b.upper == nil || value <= *b.upper {
			return b.score, b.label
		}
	}
	last := bands[len(bands)-1]
	return last.score, last.label
}

// ClassifyRiskCharacteristic scores the metric vector into a composite label.
// 缺失/非有限的指标短路为 0 分、分组"数据缺失或无效"，从不 panic。
func ClassifyRiskCharacteristic(in Inputs) Classification {
	var breakdown []ScoreItem
	baseScore := 0
	adjustments := 0

	addBase := func(name string, value *float64, bands []band, description string) {
		val := safeValue(value)
		score, bandLabel := 0, MissingDataBand
		if val != nil {
			score, bandLabel = scoreMetric(*val, bands)
			baseScore += score
		}
		breakdown = append(breakdown, ScoreItem{
			Metric: name, Value: value, Score: score, Band: bandLabel,
			Type: "base", Description: description,
		})
	}

	addAdjustment := func(name string, value *float64, bands []band, description string) {
		val := safeValue(value)
		score, bandLabel := 0, MissingDataBand
		if val != nil {
			score, bandLabel = scoreMetric(*val, bands)
			adjustments += score
		}
		breakdown = append(breakdown, ScoreItem{
			Metric: name, Value: value, Score: score, Band: bandLabel,
			Type: "adjustment", Description: description,
		})
	}

	addBase("volatility", in.Volatility,
		[]band{{f(10), 0, "≤10%"}, {f(20), 1, "10%-20%"}, {nil, 2, ">20%"}}, "年化波动率")
	addBase("max_drawdown", in.MaxDrawdown,
		[]band{{f(10), 0, "≤10%"}, {f(20), 1, "10%-20%"}, {nil, 2, ">20%"}}, "最大回撤")
	addBase("downside_volatility", in.DownsideVolatility,
		[]band{{f(7), 0, "≤7%"}, {f(14), 1, "7%-14%"}, {nil, 2, ">14%"}}, "下行年化波动率")
	addBase("beta", in.Beta,
		[]band{{f(0.8), 0, "≤0.8"}, {f(1.2), 1, "0.8-1.2"}, {nil, 2, ">1.2"}}, "相对市场Beta")
	addBase("tracking_error", in.TrackingError,
		[]band{{f(6), 0, "≤6%"}, {f(12), 1, "6%-12%"}, {nil, 2, ">12%"}}, "年化跟踪误差")

	// 风险调整收益：高值降低风险评分，低值增加风险评分
	addAdjustment("sharpe_ratio", in.SharpeRatio,
		[]band{{f(0.5), 1, "<=0.5"}, {f(1.0), 0, "0.5-1.0"}, {nil, -1, ">1.0"}}, "夏普比率")
	addAdjustment("sortino_ratio", in.SortinoRatio,
		[]band{{f(0.7), 1, "<=0.7"}, {f(1.2), 0, "0.7-1.2"}, {nil, -1, ">1.2"}}, "索提诺比率")
	addAdjustment("calmar_ratio", in.CalmarRatio,
		[]band{{f(0.5), 1, "<=0.5"}, {f(1.0), 0, "0.5-1.0"}, {nil, -1, ">1.0"}}, "卡玛比率")

	// 调整项可能为负，总分钳制在 0 以上
	riskScore := baseScore + adjustments
	if riskScore < 0 {
		riskScore = 0
	}

	overrideReasons := collectOverrides(in)

	var riskLevel string
	switch {
	case len(overrideReasons) > 0:
		riskLevel = LevelHighRisk
	case riskScore <= 3:
		riskLevel = LevelLowRisk
	case riskScore <= 6:
		riskLevel = LevelMediumRisk
	default:
		riskLevel = LevelHighRisk
	}

	returnLevel, returnLevelCode := classifyReturnLevel(in.AnnualizedReturn)

	short := map[string]string{
		LevelLowRisk:    "低风险",
		LevelMediumRisk: "中风险",
		LevelHighRisk:   "高风险",
	}[riskLevel]

	var combined string
	switch {
	case len(overrideReasons) > 0:
		combined = short + "高风险预警"
	case returnLevelCode == nil:
		combined = short
	default:
		combined = short + returnLevel
	}

	return Classification{
		Level:            combined,
		RiskLevel:        riskLevel,
		RiskLevelShort:   short,
		ReturnLevel:      returnLevel,
		ReturnLevelCode:  returnLevelCode,
		Score:            riskScore,
		BaseScore:        baseScore,
		Adjustments:      adjustments,
		ScoreBreakdown:   breakdown,
		OverrideReasons:  overrideReasons,
		AnnualizedReturn: in.AnnualizedReturn,
	}
}

// collectOverrides 极端风险触发强制升级
func collectOverrides(in Inputs) []string {
	rules := []struct {
		value     *float64
		threshold float64
		reason    string
	}{
		{in.MaxDrawdown, 30.0, "最大回撤≥30%"},
		{in.Volatility, 35.0, "年化波动率≥35%"},
		{in.DownsideVolatility, 20.0, "下行波动率≥20%"},
	}

	var reasons []string
	for _, rule := range rules {
		if v := safeValue(rule.value); v != nil && *v >= rule.threshold {
			reasons = append(reasons, rule.reason)
		}
	}
	return reasons
}

// classifyReturnLevel 收益等级，独立于风险打分，用于组合标签
func classifyReturnLevel(annualizedReturn *float64) (string, *int) {
	val := safeValue(annualizedReturn)
	if val == nil {
		return "收益待评估", nil
	}

	returnBands := []band{
		{f(0.0), 0, "亏损型"},
		{f(8.0), 1, "低收益"},
		{f(15.0), 2, "中收益"},
		{nil, 3, "高收益"},
	}
	code, label := 0, ""
	for _, b := range returnBands {
		if b.upper == nil || *val <= *b.upper {
			code, label = b.score, b.label
			break
		}
	}
	return label, &code
}

// JudgeRiskCharacteristic 保留旧接口以兼容历史调用，只用两项基础指标
func JudgeRiskCharacteristic(annualizedReturn, volatility float64) string {
	classification := ClassifyRiskCharacteristic(Inputs{
		AnnualizedReturn: &annualizedReturn,
		Volatility:       &volatility,
	})
	return fmt.Sprintf("绝对收益风险类型属于 %s", classification.Level)
}
