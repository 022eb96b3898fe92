package progress

import (
	"time"

	"alcyxob/fitcoach/internal/domain"
)

// Snapshot computes the metrics persisted with a ProgressTrackingRecord. planned and
// completed count the active plan's items; CompletionRate is 0 without a plan.
func Snapshot(records []domain.WorkoutTrackingRecord, window Window, now time.Time, planned, completed int) domain.ProgressMetrics {
	filtered := window.Filter(records)
	c := CalculateConsistency(filtered, window, now)
	m := domain.ProgressMetrics{
		Duration:     TotalMinutes(filtered),
		Intensity:    AverageIntensity(filtered),
		Consistency:  c.WeeklyAverage,
		WorkoutCount: len(filtered),
	}
	if planned > 0 {
		m.CompletionRate = float64(completed) / float64(planned)
	}
	return m
}

// Live is the on-demand progress view. It is not persisted.
type Live struct {
	Window       domain.TimeRange          `json:"window"`
	Consistency  domain.ConsistencyMetrics `json:"consistency"`
	GoalProgress map[string]float64        `json:"goalProgress"`
	Improvements []string                  `json:"improvements"`
	Challenges   []string                  `json:"challenges"`
}

// Compute builds the Live view for records and goals over window.
func Compute(records []domain.WorkoutTrackingRecord, goals []string, window Window, now time.Time) Live {
	filtered := window.Filter(records)
	c := CalculateConsistency(filtered, window, now)
	gp := GoalProgress(filtered, goals, window, now)
	imp, chal := Insights(c, gp, filtered)
	return Live{
		Window:       window.Range(),
		Consistency:  c,
		GoalProgress: gp,
		Improvements: imp,
		Challenges:   chal,
	}
}
