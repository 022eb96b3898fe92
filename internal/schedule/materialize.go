// Package schedule turns the flat schedule rows of a plan into a per-week view.
package schedule

import (
	"alcyxob/fitcoach/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Materialize returns exactly max(weeks, 0) weeks numbered from 1. Entries are resolved
// against workouts by id in the order given; entries that point at a workout not in the
// set are dropped. Entries with a week number outside 1..weeks are ignored.
func Materialize(weeks int, entries []domain.WeeklyScheduleEntry, workouts []domain.Workout) []domain.PlanWeek {
	if weeks < 0 {
		weeks = 0
	}

	byID := make(map[primitive.ObjectID]domain.Workout, len(workouts))
	for _, w := range workouts {
		byID[w.ID] = w
	}

	out := make([]domain.PlanWeek, weeks)
	for i := range out {
		out[i] = domain.PlanWeek{WeekNumber: i + 1, Items: []domain.Workout{}}
	}
	for _, e := range entries {
		if e.WeekNumber < 1 || e.WeekNumber > weeks {
			continue
		}
		w, ok := byID[e.WorkoutID]
		if !ok {
			continue
		}
		out[e.WeekNumber-1].Items = append(out[e.WeekNumber-1].Items, w)
	}
	return out
}

// WorkoutIDs returns the distinct workout ids referenced by entries, in first-seen order.
func WorkoutIDs(entries []domain.WeeklyScheduleEntry) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(entries))
	ids := make([]primitive.ObjectID, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.WorkoutID]; ok {
			continue
		}
		seen[e.WorkoutID] = struct{}{}
		ids = append(ids, e.WorkoutID)
	}
	return ids
}
