package nav

import (
	"math"
	"sort"

	"github.com/wonny/fundlens/backend/internal/calendar"
)

func pow(base, exp float64) float64 {
	return math.Pow(base, exp)
}

// bucketByMonth groups points by their YYYY-MM prefix.
// 输入按日期有序，桶内顺序随之保持。
func bucketByMonth(points []Point) map[string][]Point {
	buckets := make(map[string][]Point)
	for _, p := range points {
		if len(p.Date) < 7 {
			continue
		}
		key := p.Date[:7]
		buckets[key] = append(buckets[key], p)
	}
	return buckets
}

// bucketByWeek groups points by the Monday that starts their ISO week
func bucketByWeek(points []Point) map[string][]Point {
	buckets := make(map[string][]Point)
	for _, p := range points {
		t, err := calendar.ParseDate(p.Date)
		if err != nil {
			continue
		}
		// Monday 锚定：周日回退 6 天
		offset := int(t.Weekday()) - 1
		if offset < 0 {
			offset = 6
		}
		key := calendar.FormatDate(t.AddDate(0, 0, -offset))
		buckets[key] = append(buckets[key], p)
	}
	return buckets
}

func sortedKeys(m map[string][]Point) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
