package schedule

import (
	"testing"

	"alcyxob/fitcoach/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func workout(name string, kind domain.WorkoutKind) domain.Workout {
	return domain.Workout{ID: primitive.NewObjectID(), Name: name, Kind: kind}
}

func entry(week int, w domain.Workout) domain.WeeklyScheduleEntry {
	return domain.WeeklyScheduleEntry{ID: primitive.NewObjectID(), WeekNumber: week, WorkoutID: w.ID}
}

func TestMaterializeLength(t *testing.T) {
	w := workout("Tempo run", domain.KindWorkout)
	for weeks := 0; weeks <= 6; weeks++ {
		got := Materialize(weeks, []domain.WeeklyScheduleEntry{entry(1, w)}, []domain.Workout{w})
		require.Len(t, got, weeks)
		for i, wk := range got {
			assert.Equal(t, i+1, wk.WeekNumber)
			assert.NotNil(t, wk.Items)
		}
	}
	assert.Empty(t, Materialize(-3, nil, nil))
}

func TestMaterializeTwoWeeks(t *testing.T) {
	w1 := workout("W1", domain.KindClass)

	got := Materialize(2, []domain.WeeklyScheduleEntry{entry(1, w1)}, []domain.Workout{w1})

	assert.Equal(t, []domain.PlanWeek{
		{WeekNumber: 1, Items: []domain.Workout{w1}},
		{WeekNumber: 2, Items: []domain.Workout{}},
	}, got)
}

func TestMaterializeDropsMissingWorkouts(t *testing.T) {
	kept := workout("Pilates", domain.KindClass)
	deleted := workout("Deleted", domain.KindWorkout)

	got := Materialize(1, []domain.WeeklyScheduleEntry{entry(1, deleted), entry(1, kept)}, []domain.Workout{kept})

	require.Len(t, got[0].Items, 1)
	assert.Equal(t, kept.ID, got[0].Items[0].ID)
}

func TestMaterializeKeepsEntryOrder(t *testing.T) {
	a := workout("A", domain.KindWorkout)
	b := workout("B", domain.KindWorkout)
	c := workout("C", domain.KindClass)
	entries := []domain.WeeklyScheduleEntry{entry(1, c), entry(2, a), entry(1, a), entry(1, b), entry(1, c)}

	got := Materialize(3, entries, []domain.Workout{a, b, c})

	names := func(items []domain.Workout) []string {
		out := make([]string, 0, len(items))
		for _, w := range items {
			out = append(out, w.Name)
		}
		return out
	}
	assert.Equal(t, []string{"C", "A", "B", "C"}, names(got[0].Items), "duplicates are kept")
	assert.Equal(t, []string{"A"}, names(got[1].Items))
	assert.Empty(t, got[2].Items)
}

func TestMaterializeIgnoresOutOfRangeWeeks(t *testing.T) {
	w := workout("Swim", domain.KindWorkout)
	got := Materialize(2, []domain.WeeklyScheduleEntry{entry(0, w), entry(3, w)}, []domain.Workout{w})
	assert.Empty(t, got[0].Items)
	assert.Empty(t, got[1].Items)
}

func TestWorkoutIDs(t *testing.T) {
	a := workout("A", domain.KindWorkout)
	b := workout("B", domain.KindWorkout)
	ids := WorkoutIDs([]domain.WeeklyScheduleEntry{entry(1, a), entry(2, b), entry(3, a)})
	assert.Equal(t, []primitive.ObjectID{a.ID, b.ID}, ids)
}
