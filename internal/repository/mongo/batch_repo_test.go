package mongo

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPrepareBatchLinksIDs(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	owner := primitive.NewObjectID()
	batch := &repository.PlanBatch{
		Plan:     &domain.WorkoutPlan{OwnerID: owner, Name: "Generated", Weeks: 2, IsActive: true},
		Workouts: []domain.Workout{{Name: "W1", Kind: domain.KindWorkout}, {Name: "C1", Kind: domain.KindClass}},
		Schedule: []repository.BatchEntry{{WeekNumber: 1, WorkoutIndex: 1}, {WeekNumber: 1, WorkoutIndex: 0}, {WeekNumber: 2, WorkoutIndex: 1}},
	}

	entries, err := prepareBatch(batch, now)

	require.NoError(t, err)
	plan := batch.Plan
	assert.False(t, plan.ID.IsZero())
	assert.Equal(t, now, plan.CreatedAt)
	for _, w := range batch.Workouts {
		assert.False(t, w.ID.IsZero())
		assert.Equal(t, plan.ID, w.PlanID)
		assert.Equal(t, owner, w.OwnerID)
	}
	require.Len(t, entries, 3)
	assert.Equal(t, batch.Workouts[1].ID, entries[0].WorkoutID)
	assert.Equal(t, batch.Workouts[0].ID, entries[1].WorkoutID)
	assert.Equal(t, 2, entries[2].WeekNumber)
	for i, e := range entries {
		assert.Equal(t, plan.ID, e.PlanID)
		assert.Equal(t, i, e.Sequence)
	}
}

func TestPrepareBatchRejectsBadInput(t *testing.T) {
	_, err := prepareBatch(nil, time.Now())
	assert.Error(t, err)

	_, err = prepareBatch(&repository.PlanBatch{Plan: &domain.WorkoutPlan{Name: "No owner"}}, time.Now())
	assert.Error(t, err)

	_, err = prepareBatch(&repository.PlanBatch{
		Plan:     &domain.WorkoutPlan{OwnerID: primitive.NewObjectID(), Name: "Dangling"},
		Workouts: []domain.Workout{{Name: "W1"}},
		Schedule: []repository.BatchEntry{{WeekNumber: 1, WorkoutIndex: 3}},
	}, time.Now())
	assert.ErrorContains(t, err, "references workout 3")
}
