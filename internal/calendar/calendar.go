package calendar

import (
	"fmt"
	"time"
)

// DateLayout 全系统统一的日期格式。零填充的 ISO 日期保证
// 字符串字典序与时间先后序一致，这是所有区间切片逻辑依赖的不变量。
const DateLayout = "2006-01-02"

// Direction controls which way NearestTradingDay searches
type Direction string

const (
	Backward Direction = "backward"
	Forward  Direction = "forward"
)

// Calendar answers trading-day questions for one exchange.
// 显式构造、按引用传递，替代隐式的全局单例。
type Calendar struct {
	holidays map[string]struct{}
}

// NewSSE returns a calendar for the Shanghai Stock Exchange.
// 周末恒为休市，节假日来自内置表（可用 extraHolidays 增补）。
func NewSSE(extraHolidays ...string) *Calendar {
	holidays := make(map[string]struct{}, len(sseHolidays)+len(extraHolidays))
	for _, d := range sseHolidays {
		holidays[d] = struct{}{}
	}
	for _, d := range extraHolidays {
		holidays[d] = struct{}{}
	}
	return &Calendar{holidays: holidays}
}

// ParseDate parses a zero-padded ISO date string.
// 格式不合法属于输入形状错误，直接返回 error，不做兜底。
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// FormatDate renders t in the canonical layout
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns the inclusive day count between two ISO dates
func DaysBetween(startDate, endDate string) (int, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return 0, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return 0, err
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// IsTradingDay reports whether date is an SSE trading day
func (c *Calendar) IsTradingDay(date string) (bool, error) {
	t, err := ParseDate(date)
	if err != nil {
		return false, err
	}
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false, nil
	}
	_, holiday := c.holidays[date]
	return !holiday, nil
}

// GenerateDateRange returns every calendar date in [start, end], weekends included
func GenerateDateRange(startDate, endDate string) ([]string, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return nil, err
	}

	var dates []string
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		dates = append(dates, FormatDate(cur))
	}
	return dates, nil
}

// GenerateTradingDateRange returns only the trading days in [start, end]
func (c *Calendar) GenerateTradingDateRange(startDate, endDate string) ([]string, error) {
	all, err := GenerateDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	var trading []string
	for _, date := range all {
		ok, err := c.IsTradingDay(date)
		if err != nil {
			return nil, err
		}
		if ok {
			trading = append(trading, date)
		}
	}
	return trading, nil
}

// NearestTradingDay returns date itself when it trades, otherwise the closest
// trading day in the requested direction.
func (c *Calendar) NearestTradingDay(date string, direction Direction) (string, error) {
	ok, err := c.IsTradingDay(date)
	if err != nil {
		return "", err
	}
	if ok {
		return date, nil
	}

	t, _ := ParseDate(date)
	step := -1
	if direction == Forward {
		step = 1
	}
	for i := 0; i < 370; i++ {
		t = t.AddDate(0, 0, step)
		candidate := FormatDate(t)
		ok, err := c.IsTradingDay(candidate)
		if err != nil {
			return "", err
		}
		if ok {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no trading day near %s", date)
}
