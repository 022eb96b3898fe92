package progress

import (
	"testing"
	"time"

	"alcyxob/fitcoach/internal/domain"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func rec(date time.Time, activity string, minutes int, intensity *int) domain.WorkoutTrackingRecord {
	r := domain.WorkoutTrackingRecord{ActivityType: activity, Date: date, Intensity: intensity}
	if minutes > 0 {
		r.Duration = &domain.TrackedDuration{Hours: minutes / 60, Minutes: minutes % 60}
	}
	return r
}

func intensity(v int) *int { return &v }

func TestCalculateConsistencyStreakStopsAtGap(t *testing.T) {
	records := []domain.WorkoutTrackingRecord{
		rec(now.Add(-7*time.Hour), "run", 30, nil),
		rec(now.Add(-19*time.Hour), "swim", 45, nil),
		rec(now.AddDate(0, 0, -3), "walk", 20, nil),
	}

	got := CalculateConsistency(records, DefaultWindow(now), now)

	assert.Equal(t, 2, got.Streak)
	assert.Equal(t, 3, got.Count)
	assert.InDelta(t, 0.7, got.WeeklyAverage, 1e-9)
	assert.InDelta(t, 3.0, got.MonthlyAverage, 1e-9)
}

func TestCalculateConsistencyEmpty(t *testing.T) {
	got := CalculateConsistency(nil, DefaultWindow(now), now)
	assert.Equal(t, domain.ConsistencyMetrics{}, got)
}

func TestCalculateConsistencyNoRecordToday(t *testing.T) {
	records := []domain.WorkoutTrackingRecord{
		rec(now.AddDate(0, 0, -1), "run", 30, nil),
		rec(now.AddDate(0, 0, -2), "run", 30, nil),
	}
	got := CalculateConsistency(records, DefaultWindow(now), now)
	assert.Zero(t, got.Streak)
	assert.Equal(t, 2, got.Count)
}

func TestCalculateConsistencyIgnoresRecordsOutsideWindow(t *testing.T) {
	records := []domain.WorkoutTrackingRecord{
		rec(now, "run", 30, nil),
		rec(now.AddDate(0, 0, -45), "run", 30, nil),
		rec(now.Add(time.Hour), "run", 30, nil),
	}
	got := CalculateConsistency(records, DefaultWindow(now), now)
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, 1, got.Streak)
}

func TestStreakIsCappedAtOneYear(t *testing.T) {
	records := make([]domain.WorkoutTrackingRecord, 0, 400)
	for i := 0; i < 400; i++ {
		records = append(records, rec(now.AddDate(0, 0, -i), "walk", 10, nil))
	}
	got := CalculateConsistency(records, LastDays(now, 400), now)
	assert.Equal(t, maxStreakDays, got.Streak)
}

func TestStreakUsesCallerLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	local := time.Date(2026, 3, 10, 21, 0, 0, 0, loc) // 02:00 UTC on the 11th
	records := []domain.WorkoutTrackingRecord{
		rec(time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC), "run", 30, nil),
		rec(time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC), "run", 30, nil), // 22:00 on the 9th locally
	}
	got := CalculateConsistency(records, DefaultWindow(local), local)
	assert.Equal(t, 2, got.Streak)
}

func TestWindow(t *testing.T) {
	w := DefaultWindow(now)
	assert.InDelta(t, 30.0, w.Days(), 1e-9)
	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.End))
	assert.False(t, w.Contains(w.End.Add(time.Nanosecond)))
	assert.Equal(t, domain.TimeRange{Start: w.Start, End: w.End}, w.Range())
	assert.Zero(t, Window{}.Days())
}
