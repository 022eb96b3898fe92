package schedule

import (
	"testing"

	"alcyxob/fitcoach/internal/domain"

	"github.com/stretchr/testify/assert"
)

func withStatus(w domain.Workout, s domain.WorkoutStatus) domain.Workout {
	w.Status = &s
	return w
}

func TestSummarize(t *testing.T) {
	weeks := []domain.PlanWeek{
		{WeekNumber: 1, Items: []domain.Workout{
			withStatus(workout("Spin", domain.KindClass), domain.StatusCompleted),
			withStatus(workout("Run", domain.KindWorkout), domain.StatusNotCompleted),
			workout("Row", domain.KindWorkout),
			withStatus(workout("Yoga", domain.KindClass), domain.StatusCompleted),
		}},
		{WeekNumber: 2, Items: []domain.Workout{}},
	}

	got := Summarize(weeks)

	assert.Equal(t, []WeekSummary{
		{WeekNumber: 1, ClassCount: 2, WorkoutCount: 2, CompletedCount: 2, CompletionRate: 0.5},
		{WeekNumber: 2},
	}, got)

	planned, completed := Totals(weeks)
	assert.Equal(t, 4, planned)
	assert.Equal(t, 2, completed)
}

func TestUpcoming(t *testing.T) {
	done := withStatus(workout("Done", domain.KindWorkout), domain.StatusCompleted)
	w1 := workout("W1", domain.KindWorkout)
	w2 := workout("W2", domain.KindClass)
	w3 := workout("W3", domain.KindWorkout)
	weeks := []domain.PlanWeek{
		{WeekNumber: 1, Items: []domain.Workout{done, w1}},
		{WeekNumber: 2, Items: []domain.Workout{w2, w3}},
	}

	assert.Equal(t, []domain.Workout{w1, w2, w3}, Upcoming(weeks, 0, 0))
	assert.Equal(t, []domain.Workout{w2, w3}, Upcoming(weeks, 2, 0))
	assert.Equal(t, []domain.Workout{w1}, Upcoming(weeks, 1, 1))
	assert.Equal(t, []domain.Workout{}, Upcoming(nil, 1, 5))
}
