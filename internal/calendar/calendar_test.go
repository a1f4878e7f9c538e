package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", FormatDate(parsed))

	// 非零填充与错误分隔符都不接受
	_, err = ParseDate("2024-3-15")
	assert.Error(t, err)
	_, err = ParseDate("2024/03/15")
	assert.Error(t, err)
	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestDaysBetween(t *testing.T) {
	days, err := DaysBetween("2024-01-01", "2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, 10, days, "含两端")

	days, err = DaysBetween("2024-01-01", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 1, days)

	_, err = DaysBetween("bad", "2024-01-01")
	assert.Error(t, err)
}

func TestIsTradingDay(t *testing.T) {
	cal := NewSSE()

	cases := []struct {
		date    string
		trading bool
	}{
		{"2024-03-15", true},  // 周五
		{"2024-03-16", false}, // 周六
		{"2024-03-17", false}, // 周日
		{"2024-10-01", false}, // 国庆
		{"2024-02-13", false}, // 春节
		{"2024-02-19", true},  // 节后首个交易日
	}
	for _, tc := range cases {
		ok, err := cal.IsTradingDay(tc.date)
		require.NoError(t, err, tc.date)
		assert.Equal(t, tc.trading, ok, tc.date)
	}
}

func TestNewSSE_ExtraHolidays(t *testing.T) {
	cal := NewSSE("2024-03-15")
	ok, err := cal.IsTradingDay("2024-03-15")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenerateDateRange(t *testing.T) {
	dates, err := GenerateDateRange("2024-01-01", "2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05",
	}, dates)
}

func TestGenerateTradingDateRange(t *testing.T) {
	cal := NewSSE()
	// 2024-01-01 元旦休市，01-06/07 为周末
	dates, err := cal.GenerateTradingDateRange("2024-01-01", "2024-01-08")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-08",
	}, dates)
}

func TestNearestTradingDay(t *testing.T) {
	cal := NewSSE()

	// 交易日返回自身
	date, err := cal.NearestTradingDay("2024-03-15", Backward)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", date)

	// 周六向前回退到周五
	date, err = cal.NearestTradingDay("2024-03-16", Backward)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", date)

	// 周六向后推进到周一
	date, err = cal.NearestTradingDay("2024-03-16", Forward)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-18", date)

	// 长假向后跨过整个假期
	date, err = cal.NearestTradingDay("2024-10-01", Forward)
	require.NoError(t, err)
	assert.Equal(t, "2024-10-08", date)
}
