package nav

import (
	"github.com/wonny/fundlens/backend/internal/calendar"
	"github.com/wonny/fundlens/backend/pkg/formulas"
)

// DrawdownInfo describes the deepest peak-to-trough decline of a series.
// StartDate 是创纪录谷底之前的峰值日期，不是回撤首次转正的日期。
type DrawdownInfo struct {
	MaxDrawdown float64 `json:"max_drawdown"`
	StartDate   string  `json:"max_dd_start_date"`
	EndDate     string  `json:"max_dd_end_date"`
	PeakDate    string  `json:"peak_date"`
	PeakNav     float64 `json:"peak_nav"`
}

// RecoveryInfo describes whether and when NAV regained the pre-drawdown peak.
// 未恢复时 RecoveryPeriod/RecoveryDate 为 nil——缺席不同于"当日恢复"。
type RecoveryInfo struct {
	RecoveryPeriod *int    `json:"recovery_period"`
	RecoveryDate   *string `json:"recovery_date"`
	IsRecovered    bool    `json:"is_recovered"`
	PeakBeforeDD   float64 `json:"peak_before_dd"`
}

// DatedValue is a (date, value) pair for the generic running-peak scan.
// 净值序列与基准价格序列共用同一套回撤算法。
type DatedValue struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// DailyDrawdown is one day of a drawdown series (percent, positive = underwater)
type DailyDrawdown struct {
	Date     string  `json:"date"`
	Drawdown float64 `json:"drawdown"`
	Peak     float64 `json:"peak_nav"`
}

// RunningPeakDrawdowns computes the per-day drawdown of any positive series
// with a single forward pass tracking the running peak.
func RunningPeakDrawdowns(series []DatedValue) []DailyDrawdown {
	if len(series) == 0 {
		return nil
	}

	peak := series[0].Value
	result := make([]DailyDrawdown, 0, len(series))
	for _, dv := range series {
		if dv.Value > peak {
			peak = dv.Value
		}
		drawdown := 0.0
		if peak > 0 {
			drawdown = (peak - dv.Value) / peak * 100
		}
		result = append(result, DailyDrawdown{
			Date:     dv.Date,
			Drawdown: formulas.Round(drawdown, 2),
			Peak:     peak,
		})
	}
	return result
}

// CalculateMaxDrawdown finds the maximum drawdown of the NAV series.
// 平局时保留先出现的回撤；只有严格更深的回撤才会替换起止日期。
func CalculateMaxDrawdown(points []Point) DrawdownInfo {
	if len(points) < 2 {
		return DrawdownInfo{}
	}

	maxDrawdown := 0.0
	peakNav := points[0].Nav
	peakDate := points[0].Date
	var maxStart, maxEnd, ddStart string

	for _, p := range points {
		if p.Nav > peakNav {
			peakNav = p.Nav
			peakDate = p.Date
			ddStart = "" // 新高重置回撤起点
		}

		if peakNav <= 0 {
			continue
		}

		drawdown := (peakNav - p.Nav) / peakNav * 100
		if drawdown > 0 && ddStart == "" {
			ddStart = peakDate
		}
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
			if ddStart != "" {
				maxStart = ddStart
			} else {
				maxStart = peakDate
			}
			maxEnd = p.Date
		}
	}

	return DrawdownInfo{
		MaxDrawdown: formulas.Round(maxDrawdown, 2),
		StartDate:   maxStart,
		EndDate:     maxEnd,
		PeakDate:    peakDate,
		PeakNav:     peakNav,
	}
}

// CalculateDailyDrawdowns returns the per-day drawdown series of the NAV curve
func CalculateDailyDrawdowns(points []Point) []DailyDrawdown {
	series := make([]DatedValue, 0, len(points))
	for _, p := range points {
		series = append(series, DatedValue{Date: p.Date, Value: p.Nav})
	}
	return RunningPeakDrawdowns(series)
}

// CalculateDrawdownRecoveryPeriod 两段扫描：先找回撤开始前的峰值，
// 再从谷底次日起找首个净值 ≥ 峰值的日期。
func CalculateDrawdownRecoveryPeriod(points []Point, ddStartDate, ddEndDate string) RecoveryInfo {
	peakBeforeDD := 0.0
	for _, p := range points {
		if p.Date >= ddStartDate {
			break
		}
		if p.Nav > peakBeforeDD {
			peakBeforeDD = p.Nav
		}
	}

	var ddEndNav *float64
	for _, p := range points {
		if p.Date == ddEndDate {
			v := p.Nav
			ddEndNav = &v
			break
		}
	}

	if ddEndNav == nil || peakBeforeDD == 0 {
		return RecoveryInfo{PeakBeforeDD: peakBeforeDD}
	}

	for _, p := range points {
		if p.Date > ddEndDate && p.Nav >= peakBeforeDD {
			days, err := daysBetweenExclusive(ddEndDate, p.Date)
			if err != nil {
				return RecoveryInfo{PeakBeforeDD: peakBeforeDD}
			}
			date := p.Date
			return RecoveryInfo{
				RecoveryPeriod: &days,
				RecoveryDate:   &date,
				IsRecovered:    true,
				PeakBeforeDD:   peakBeforeDD,
			}
		}
	}

	return RecoveryInfo{PeakBeforeDD: peakBeforeDD}
}

// daysBetweenExclusive 修复期按纯日期差计，不含两端的 +1
func daysBetweenExclusive(startDate, endDate string) (int, error) {
	days, err := calendar.DaysBetween(startDate, endDate)
	if err != nil {
		return 0, err
	}
	return days - 1, nil
}
