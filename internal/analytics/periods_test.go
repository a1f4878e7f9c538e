package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPeriods(t *testing.T) {
	periods, err := BuildPeriods("2024-01-15", "2025-07-10")
	require.NoError(t, err)
	require.Len(t, periods, 5)

	assert.Equal(t, "2024-01-15", periods[PeriodSinceInception].Start)
	assert.Equal(t, "2025-07-10", periods[PeriodSinceInception].End)
	assert.Equal(t, "2024-07-10", periods[PeriodOneYear].Start)
	assert.Equal(t, "2025-01-10", periods[PeriodSixMonths].Start)
	assert.Equal(t, "2025-04-10", periods[PeriodThreeMonths].Start)
	assert.Equal(t, "2025-06-10", periods[PeriodOneMonth].Start)

	for _, name := range PeriodOrder {
		assert.Equal(t, "2025-07-10", periods[name].End)
	}
}

func TestBuildPeriodsClampsToInception(t *testing.T) {
	// 成立不足一年：滚动窗口起点全部截断到成立日
	periods, err := BuildPeriods("2025-05-01", "2025-07-10")
	require.NoError(t, err)

	assert.Equal(t, "2025-05-01", periods[PeriodOneYear].Start)
	assert.Equal(t, "2025-05-01", periods[PeriodSixMonths].Start)
	assert.Equal(t, "2025-05-01", periods[PeriodThreeMonths].Start)
	assert.Equal(t, "2025-06-10", periods[PeriodOneMonth].Start)
}

func TestBuildPeriodsInvalidInput(t *testing.T) {
	_, err := BuildPeriods("", "2025-07-10")
	require.Error(t, err)

	_, err = BuildPeriods("2025-05-01", "bad-date")
	require.Error(t, err)
}

func TestTradingWindows(t *testing.T) {
	periods, err := BuildPeriods("2024-01-15", "2025-07-10")
	require.NoError(t, err)

	windows := TradingWindows(periods)
	require.Len(t, windows, len(periods))
	assert.Equal(t, periods[PeriodOneYear].Start, windows[PeriodOneYear].Start)
	assert.Equal(t, periods[PeriodOneYear].End, windows[PeriodOneYear].End)
}
