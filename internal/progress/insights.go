package progress

import (
	"fmt"
	"sort"

	"alcyxob/fitcoach/internal/domain"
)

// Insight thresholds.
const (
	streakWorth   = 3
	weeklyTarget  = 3.0
	weeklyFloor   = 2.0
	goalOnTrack   = 75.0
	goalBehind    = 25.0
	highIntensity = 8.0
)

// Insights is a light heuristic pass producing improvement and challenge statements from
// the live numbers. Both slices are non-nil and ordered deterministically.
func Insights(c domain.ConsistencyMetrics, goals map[string]float64, records []domain.WorkoutTrackingRecord) (improvements, challenges []string) {
	improvements, challenges = []string{}, []string{}

	if c.Count == 0 {
		challenges = append(challenges, "No activity logged in this period")
		return improvements, challenges
	}

	if c.Streak >= streakWorth {
		improvements = append(improvements, fmt.Sprintf("Active %d days in a row", c.Streak))
	}
	if c.WeeklyAverage >= weeklyTarget {
		improvements = append(improvements, fmt.Sprintf("Averaging %.1f workouts per week", c.WeeklyAverage))
	} else if c.WeeklyAverage < weeklyFloor {
		challenges = append(challenges, "Fewer than two workouts per week")
	}
	if AverageIntensity(records) >= highIntensity {
		challenges = append(challenges, "Average intensity is high, plan recovery days")
	}

	names := make([]string, 0, len(goals))
	for name := range goals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		switch score := goals[name]; {
		case score >= goalOnTrack:
			improvements = append(improvements, fmt.Sprintf("On track for %s (%.0f%%)", name, score))
		case score < goalBehind:
			challenges = append(challenges, fmt.Sprintf("Little progress toward %s (%.0f%%)", name, score))
		}
	}
	return improvements, challenges
}
