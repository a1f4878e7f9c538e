package nav

import (
	"github.com/wonny/fundlens/backend/pkg/formulas"
)

// CalculateWeeklyWinRate 周胜率（%）：按周一锚定的自然周聚桶，
// 周收益 = (周末净值 - 周首净值) / 周首净值。
// 单个交易日的周收益恒为 0，计入分母但不计为胜。
func CalculateWeeklyWinRate(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	weeks := bucketByWeek(points)
	winning, total := 0, 0
	for _, key := range sortedKeys(weeks) {
		bucket := weeks[key]
		startNav := bucket[0].Nav
		endNav := bucket[len(bucket)-1].Nav
		if startNav <= 0 {
			continue
		}
		if (endNav-startNav)/startNav > 0 {
			winning++
		}
		total++
	}

	if total == 0 {
		return 0
	}
	return formulas.Round(float64(winning)/float64(total)*100, 2)
}

// CalculateMonthlyWinRate 月胜率（%）：按自然月聚桶。
// 与周胜率不对称：不足 2 个点的月份整体跳过，不计入分母。
func CalculateMonthlyWinRate(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	months := bucketByMonth(points)
	winning, total := 0, 0
	for _, key := range sortedKeys(months) {
		bucket := months[key]
		if len(bucket) < 2 {
			continue
		}
		startNav := bucket[0].Nav
		endNav := bucket[len(bucket)-1].Nav
		if startNav <= 0 {
			continue
		}
		if (endNav-startNav)/startNav > 0 {
			winning++
		}
		total++
	}

	if total == 0 {
		return 0
	}
	return formulas.Round(float64(winning)/float64(total)*100, 2)
}
