package progress

import (
	"time"

	"alcyxob/fitcoach/internal/domain"
)

// maxStreakDays bounds the backward walk of the streak.
const maxStreakDays = 365

// CalculateConsistency filters records to window and derives the weekly and monthly
// averages and the current daily streak ending today.
func CalculateConsistency(records []domain.WorkoutTrackingRecord, window Window, now time.Time) domain.ConsistencyMetrics {
	filtered := window.Filter(records)
	m := domain.ConsistencyMetrics{Count: len(filtered)}
	if len(filtered) == 0 {
		return m
	}

	if days := window.Days(); days > 0 {
		n := float64(len(filtered))
		m.WeeklyAverage = n / (days / 7)
		m.MonthlyAverage = n / (days / 30)
	}
	m.Streak = streak(filtered, now)
	return m
}

func streak(records []domain.WorkoutTrackingRecord, now time.Time) int {
	loc := now.Location()
	days := make(map[time.Time]struct{}, len(records))
	for _, r := range records {
		days[midnight(r.Date.In(loc))] = struct{}{}
	}

	count := 0
	day := midnight(now)
	for i := 0; i < maxStreakDays; i++ {
		if _, ok := days[day]; !ok {
			break
		}
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
