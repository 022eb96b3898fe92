package mongo

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMock(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func toD(t require.TestingT, v interface{}) bson.D {
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var d bson.D
	require.NoError(t, bson.Unmarshal(raw, &d))
	return d
}

func ns(collection string) string { return "fitcoach." + collection }

func TestPlanRepositoryGetByID(t *testing.T) {
	mt := newMock(t)
	start := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	mt.Run("found", func(mt *mtest.T) {
		want := domain.WorkoutPlan{ID: primitive.NewObjectID(), OwnerID: primitive.NewObjectID(), Name: "Base", Weeks: 6, IsActive: true, StartDate: &start, TotalPausedDuration: 42}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(planCollectionName), mtest.FirstBatch, toD(mt, want)))

		got, err := NewMongoPlanRepository(mt.DB).GetByID(context.Background(), want.ID)

		require.NoError(mt, err)
		assert.Equal(mt, want.ID, got.ID)
		assert.Equal(mt, "Base", got.Name)
		assert.Equal(mt, int64(42), got.TotalPausedDuration)
		require.NotNil(mt, got.StartDate)
		assert.True(mt, start.Equal(*got.StartDate))
		assert.Nil(mt, got.PausedAt)
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(planCollectionName), mtest.FirstBatch))

		_, err := NewMongoPlanRepository(mt.DB).GetActiveByOwner(context.Background(), primitive.NewObjectID())

		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestPlanRepositoryGetPreviousByOwner(t *testing.T) {
	mt := newMock(t)

	mt.Run("returns all batches", func(mt *mtest.T) {
		owner := primitive.NewObjectID()
		a := domain.WorkoutPlan{ID: primitive.NewObjectID(), OwnerID: owner, Name: "A", Archived: true}
		b := domain.WorkoutPlan{ID: primitive.NewObjectID(), OwnerID: owner, Name: "B"}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns(planCollectionName), mtest.FirstBatch, toD(mt, a)),
			mtest.CreateCursorResponse(0, ns(planCollectionName), mtest.NextBatch, toD(mt, b)),
		)

		got, err := NewMongoPlanRepository(mt.DB).GetPreviousByOwner(context.Background(), owner)

		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "A", got[0].Name)
		assert.Equal(mt, "B", got[1].Name)
	})

	mt.Run("empty is not nil", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(planCollectionName), mtest.FirstBatch))

		got, err := NewMongoPlanRepository(mt.DB).GetPreviousByOwner(context.Background(), primitive.NewObjectID())

		require.NoError(mt, err)
		assert.NotNil(mt, got)
		assert.Empty(mt, got)
	})
}

func TestPlanRepositoryUpdate(t *testing.T) {
	mt := newMock(t)

	mt.Run("matched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		plan := &domain.WorkoutPlan{ID: primitive.NewObjectID(), Name: "Base"}

		require.NoError(mt, NewMongoPlanRepository(mt.DB).Update(context.Background(), plan))
		assert.False(mt, plan.UpdatedAt.IsZero())
	})

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := NewMongoPlanRepository(mt.DB).Update(context.Background(), &domain.WorkoutPlan{ID: primitive.NewObjectID()})
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("requires id", func(mt *mtest.T) {
		assert.Error(mt, NewMongoPlanRepository(mt.DB).Update(context.Background(), &domain.WorkoutPlan{}))
	})
}

func TestPlanRepositoryDelete(t *testing.T) {
	mt := newMock(t)

	mt.Run("deleted", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		assert.NoError(mt, NewMongoPlanRepository(mt.DB).Delete(context.Background(), primitive.NewObjectID()))
	})

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		err := NewMongoPlanRepository(mt.DB).Delete(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestWorkoutRepositoryGetByIDsEmpty(t *testing.T) {
	mt := newMock(t)

	mt.Run("no query for no ids", func(mt *mtest.T) {
		got, err := NewMongoWorkoutRepository(mt.DB).GetByIDs(context.Background(), nil)
		require.NoError(mt, err)
		assert.Empty(mt, got)
	})
}

func TestScheduleRepositoryDeleteByPlanID(t *testing.T) {
	mt := newMock(t)

	mt.Run("reports count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}))
		n, err := NewMongoScheduleRepository(mt.DB).DeleteByPlanID(context.Background(), primitive.NewObjectID())
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)
	})
}

func TestTrackingRepositoryGetByOwnerInRange(t *testing.T) {
	mt := newMock(t)

	mt.Run("decodes records", func(mt *mtest.T) {
		owner := primitive.NewObjectID()
		intensity := 7
		rec := domain.WorkoutTrackingRecord{
			ID: primitive.NewObjectID(), OwnerID: owner, ActivityType: "run",
			Date:      time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC),
			Duration:  &domain.TrackedDuration{Hours: 1, Minutes: 5},
			Intensity: &intensity,
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(trackingCollectionName), mtest.FirstBatch, toD(mt, rec)))

		got, err := NewMongoTrackingRepository(mt.DB).GetByOwnerInRange(context.Background(), owner, domain.TimeRange{})

		require.NoError(mt, err)
		require.Len(mt, got, 1)
		assert.Equal(mt, 65, got[0].Minutes())
		assert.Equal(mt, 7, *got[0].Intensity)
	})

	mt.Run("create defaults date", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		rec := &domain.WorkoutTrackingRecord{OwnerID: primitive.NewObjectID(), ActivityType: "swim"}

		id, err := NewMongoTrackingRepository(mt.DB).Create(context.Background(), rec)

		require.NoError(mt, err)
		assert.Equal(mt, rec.ID, id)
		assert.False(mt, rec.Date.IsZero())
	})
}

func TestGenerationRepositoryCreateDuplicate(t *testing.T) {
	mt := newMock(t)

	mt.Run("duplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key error"}))

		_, err := NewMongoGenerationRepository(mt.DB).Create(context.Background(), &domain.GenerationRecord{
			OwnerID: primitive.NewObjectID(), GenerationID: "gen-1",
		})
		assert.ErrorIs(mt, err, repository.ErrDuplicate)
	})

	mt.Run("defaults to pending", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		rec := &domain.GenerationRecord{OwnerID: primitive.NewObjectID(), GenerationID: "gen-2"}

		_, err := NewMongoGenerationRepository(mt.DB).Create(context.Background(), rec)
		require.NoError(mt, err)
		assert.Equal(mt, domain.GenerationPending, rec.Status)
	})
}

func TestProgressRepositoryGetLatest(t *testing.T) {
	mt := newMock(t)

	mt.Run("latest of category", func(mt *mtest.T) {
		owner := primitive.NewObjectID()
		cat := domain.CategoryCardio
		want := domain.ProgressTrackingRecord{ID: primitive.NewObjectID(), OwnerID: owner, Category: cat,
			Metrics: domain.ProgressMetrics{Duration: 120, WorkoutCount: 3}}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(progressCollectionName), mtest.FirstBatch, toD(mt, want)))

		got, err := NewMongoProgressRepository(mt.DB).GetLatest(context.Background(), owner, &cat)

		require.NoError(mt, err)
		assert.Equal(mt, want.Metrics, got.Metrics)
	})

	mt.Run("create rejects unknown category", func(mt *mtest.T) {
		_, err := NewMongoProgressRepository(mt.DB).Create(context.Background(), &domain.ProgressTrackingRecord{
			OwnerID: primitive.NewObjectID(), Category: "strength",
		})
		assert.Error(mt, err)
	})
}

func TestEnsureIndexesCombinesErrors(t *testing.T) {
	mt := newMock(t)

	mt.Run("all collections attempted", func(mt *mtest.T) {
		fail := mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 85, Name: "IndexOptionsConflict", Message: "conflict"})
		ok := mtest.CreateSuccessResponse()
		mt.AddMockResponses(ok, fail, ok, ok, ok, ok, fail, ok)

		err := EnsureIndexes(context.Background(), mt.DB)

		require.Error(mt, err)
		assert.Contains(mt, err.Error(), planCollectionName)
		assert.Contains(mt, err.Error(), onboardingCollectionName)
		assert.NotContains(mt, err.Error(), "indexes for "+userCollectionName)
	})
}

func TestUserRepository(t *testing.T) {
	mt := newMock(t)

	mt.Run("create normalizes email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		user := &domain.User{Name: "Sam", Email: "  Sam@Example.COM ", PasswordHash: "x"}

		id, err := NewMongoUserRepository(mt.DB).Create(context.Background(), user)

		require.NoError(mt, err)
		assert.Equal(mt, user.ID, id)
		assert.Equal(mt, "sam@example.com", user.Email)
		assert.False(mt, user.CreatedAt.IsZero())
	})

	mt.Run("taken email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key error"}))

		_, err := NewMongoUserRepository(mt.DB).Create(context.Background(), &domain.User{Email: "a@b.c", PasswordHash: "x"})

		assert.ErrorIs(mt, err, repository.ErrDuplicate)
	})

	mt.Run("record login", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		err := NewMongoUserRepository(mt.DB).RecordLogin(context.Background(), primitive.NewObjectID(), time.Now())

		assert.NoError(mt, err)
	})

	mt.Run("record login for unknown account", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := NewMongoUserRepository(mt.DB).RecordLogin(context.Background(), primitive.NewObjectID(), time.Now())

		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}
