package schedule

import "alcyxob/fitcoach/internal/domain"

// WeekSummary is the display view of one materialized week.
type WeekSummary struct {
	WeekNumber     int     `json:"weekNumber"`
	ClassCount     int     `json:"classCount"`
	WorkoutCount   int     `json:"workoutCount"`
	CompletedCount int     `json:"completedCount"`
	CompletionRate float64 `json:"completionRate"` // 0..1
}

// Summarize counts classes, workouts and completed items per week.
func Summarize(weeks []domain.PlanWeek) []WeekSummary {
	out := make([]WeekSummary, 0, len(weeks))
	for _, wk := range weeks {
		s := WeekSummary{WeekNumber: wk.WeekNumber}
		for i := range wk.Items {
			item := &wk.Items[i]
			switch item.Kind {
			case domain.KindClass:
				s.ClassCount++
			case domain.KindWorkout:
				s.WorkoutCount++
			}
			if item.IsCompleted() {
				s.CompletedCount++
			}
		}
		if n := len(wk.Items); n > 0 {
			s.CompletionRate = float64(s.CompletedCount) / float64(n)
		}
		out = append(out, s)
	}
	return out
}

// Totals returns the number of planned items and how many of them are completed.
func Totals(weeks []domain.PlanWeek) (planned, completed int) {
	for _, wk := range weeks {
		for i := range wk.Items {
			planned++
			if wk.Items[i].IsCompleted() {
				completed++
			}
		}
	}
	return planned, completed
}

// Upcoming lists items that are not completed, starting at fromWeek. A fromWeek below 1
// starts at the first week. limit <= 0 means no limit.
func Upcoming(weeks []domain.PlanWeek, fromWeek, limit int) []domain.Workout {
	out := []domain.Workout{}
	for _, wk := range weeks {
		if wk.WeekNumber < fromWeek {
			continue
		}
		for _, item := range wk.Items {
			if item.IsCompleted() {
				continue
			}
			out = append(out, item)
			if limit > 0 && len(out) == limit {
				return out
			}
		}
	}
	return out
}
