// Package analytics 业绩分析编排层：把台账、行情与各计算引擎
// 组装成完整的业绩报告数据包。引擎本身保持纯函数，取数、降级
// 与日志都集中在这里。
package analytics

import (
	"fmt"
	"time"

	"github.com/wonny/fundlens/backend/internal/calendar"
	"github.com/wonny/fundlens/backend/internal/nav"
	"github.com/wonny/fundlens/backend/internal/trading"
)

// Period names, in report display order.
const (
	PeriodSinceInception = "成立以来"
	PeriodOneYear        = "近一年"
	PeriodSixMonths      = "近六个月"
	PeriodThreeMonths    = "近三个月"
	PeriodOneMonth       = "近一个月"
)

// PeriodOrder 报告中时间段的展示顺序
var PeriodOrder = []string{
	PeriodSinceInception,
	PeriodOneYear,
	PeriodSixMonths,
	PeriodThreeMonths,
	PeriodOneMonth,
}

// BuildPeriods derives the report windows from the product's date range.
// 各滚动窗口起点按自然月回推，早于成立日时截断到成立日。
func BuildPeriods(establishDate, endDate string) (nav.Periods, error) {
	if establishDate == "" || endDate == "" {
		return nil, fmt.Errorf("period range incomplete: establish=%q end=%q", establishDate, endDate)
	}
	end, err := calendar.ParseDate(endDate)
	if err != nil {
		return nil, fmt.Errorf("parse period end: %w", err)
	}

	clamp := func(t time.Time) string {
		start := calendar.FormatDate(t)
		if start < establishDate {
			return establishDate
		}
		return start
	}

	return nav.Periods{
		PeriodSinceInception: {Start: establishDate, End: endDate},
		PeriodOneYear:        {Start: clamp(end.AddDate(-1, 0, 0)), End: endDate},
		PeriodSixMonths:      {Start: clamp(end.AddDate(0, -6, 0)), End: endDate},
		PeriodThreeMonths:    {Start: clamp(end.AddDate(0, -3, 0)), End: endDate},
		PeriodOneMonth:       {Start: clamp(end.AddDate(0, -1, 0)), End: endDate},
	}, nil
}

// TradingWindows reshapes report periods for the turnover calculator.
func TradingWindows(periods nav.Periods) map[string]trading.Window {
	windows := make(map[string]trading.Window, len(periods))
	for name, w := range periods {
		windows[name] = trading.Window{Start: w.Start, End: w.End}
	}
	return windows
}
