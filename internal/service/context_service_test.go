package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"alcyxob/fitcoach/internal/apperr"
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/metrics"
	"alcyxob/fitcoach/internal/progress"
	"alcyxob/fitcoach/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
)

type contextFixture struct {
	onboarding *MockOnboardingRepo
	tracking   *MockTrackingRepo
	plans      *MockPlanRepo
	workouts   *MockWorkoutRepo
	schedules  *MockScheduleRepo
	cache      *MockCache
	metrics    *metrics.Manager
	svc        *contextService
	owner      primitive.ObjectID
}

func newContextFixture() *contextFixture {
	f := &contextFixture{
		onboarding: new(MockOnboardingRepo),
		tracking:   new(MockTrackingRepo),
		plans:      new(MockPlanRepo),
		workouts:   new(MockWorkoutRepo),
		schedules:  new(MockScheduleRepo),
		cache:      new(MockCache),
		metrics:    metrics.NewTestManager(),
		owner:      primitive.NewObjectID(),
	}
	f.svc = NewContextService(f.onboarding, f.tracking, f.plans, f.workouts, f.schedules, f.cache, f.metrics, 2, 0).(*contextService)
	f.svc.now = fixedNow
	return f
}

func intPtr(i int) *int { return &i }

func TestBuildUserContext(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newContextFixture()
	gofakeit.Seed(7)

	profile := &domain.OnboardingProfile{
		OwnerID:      f.owner,
		Age:          intPtr(34),
		FitnessLevel: "intermediate",
		Goals:        []string{"Lose Weight"},
		Injuries:     gofakeit.Sentence(6),
	}

	done := domain.StatusCompleted
	run := domain.Workout{ID: primitive.NewObjectID(), OwnerID: f.owner, Name: "Tempo Run", Kind: domain.KindWorkout, Status: &done}
	yoga := domain.Workout{ID: primitive.NewObjectID(), OwnerID: f.owner, Name: "Flow", Kind: domain.KindClass}
	plan := &domain.WorkoutPlan{ID: primitive.NewObjectID(), OwnerID: f.owner, Name: "Base", Weeks: 2, IsActive: true, StartDate: timePtr(t0.Add(-24 * time.Hour))}
	entries := []domain.WeeklyScheduleEntry{
		{PlanID: plan.ID, WeekNumber: 1, WorkoutID: run.ID},
		{PlanID: plan.ID, WeekNumber: 1, WorkoutID: yoga.ID},
		{PlanID: plan.ID, WeekNumber: 2, WorkoutID: yoga.ID},
	}

	records := []domain.WorkoutTrackingRecord{
		{ActivityType: "yoga", Date: t0.Add(-3 * 24 * time.Hour), Notes: gofakeit.Sentence(4)},
		{ActivityType: "run", Date: t0.Add(-time.Hour), WorkoutID: &run.ID, Intensity: intPtr(6), Duration: &domain.TrackedDuration{Minutes: 40}},
		{ActivityType: "walk", Date: t0.Add(-25 * time.Hour)},
	}

	window := progress.LastDays(t0, 30)
	f.onboarding.On("GetByOwner", mock.Anything, f.owner).Return(profile, nil)
	f.tracking.On("GetByOwnerInRange", mock.Anything, f.owner, window.Range()).Return(records, nil)
	f.workouts.On("GetByIDs", mock.Anything, []primitive.ObjectID{run.ID}).Return([]domain.Workout{run}, nil)
	f.plans.On("GetActiveByOwner", mock.Anything, f.owner).Return(plan, nil)
	f.schedules.On("GetByPlanID", mock.Anything, plan.ID).Return(entries, nil)
	f.workouts.On("GetByIDs", mock.Anything, []primitive.ObjectID{run.ID, yoga.ID}).Return([]domain.Workout{run, yoga}, nil)

	uc, err := f.svc.BuildUserContext(context.Background(), f.owner, nil)
	require.NoError(t, err)

	assert.Equal(t, f.owner.Hex(), uc.OwnerID)
	assert.Equal(t, window.Range(), uc.Range)
	assert.Equal(t, 34, *uc.Profile.Age)
	assert.Equal(t, profile.Injuries, uc.Profile.Health.Injuries)
	assert.Equal(t, []string{}, uc.Profile.ExerciseTypes)

	// Newest first, bounded by the recent limit
	require.Len(t, uc.RecentActivity.Workouts, 2)
	assert.Equal(t, "run", uc.RecentActivity.Workouts[0].Tracking.ActivityType)
	require.NotNil(t, uc.RecentActivity.Workouts[0].Workout)
	assert.Equal(t, "Tempo Run", uc.RecentActivity.Workouts[0].Workout.Name)
	assert.Nil(t, uc.RecentActivity.Workouts[1].Workout)
	assert.Equal(t, 3, uc.RecentActivity.Consistency.Count)
	assert.Equal(t, 2, uc.RecentActivity.Consistency.Streak)

	assert.Contains(t, uc.Progress.GoalProgress, "Lose Weight")
	assert.NotNil(t, uc.Progress.Improvements)

	assert.Equal(t, plan.ID.Hex(), uc.WorkoutPlan.PlanID)
	assert.Equal(t, "active", uc.WorkoutPlan.State)
	assert.Equal(t, 1, uc.WorkoutPlan.CurrentWeek)
	assert.Equal(t, 2, uc.WorkoutPlan.TotalWeeks)
	require.Len(t, uc.WorkoutPlan.Weeks, 2)
	require.Len(t, uc.WorkoutPlan.Upcoming, 2)
	assert.Equal(t, "Flow", uc.WorkoutPlan.Upcoming[0].Name)
}

func TestBuildUserContextEmpty(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newContextFixture()
	f.onboarding.On("GetByOwner", mock.Anything, f.owner).Return(nil, repository.ErrNotFound)
	f.tracking.On("GetByOwnerInRange", mock.Anything, f.owner, mock.Anything).Return([]domain.WorkoutTrackingRecord{}, nil)
	f.plans.On("GetActiveByOwner", mock.Anything, f.owner).Return(nil, repository.ErrNotFound)

	uc, err := f.svc.BuildUserContext(context.Background(), f.owner, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{}, uc.Profile.Goals)
	assert.Equal(t, []domain.ActivityPair{}, uc.RecentActivity.Workouts)
	assert.Zero(t, uc.RecentActivity.Consistency)
	assert.Equal(t, map[string]float64{}, uc.Progress.GoalProgress)
	assert.Equal(t, []string{"No activity logged in this period"}, uc.Progress.Challenges)
	assert.Equal(t, []domain.PlanWeek{}, uc.WorkoutPlan.Weeks)
	assert.Equal(t, []domain.Workout{}, uc.WorkoutPlan.Upcoming)
	f.workouts.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)

	raw, err := json.Marshal(uc.WorkoutPlan)
	require.NoError(t, err)
	assert.JSONEq(t, `{"planId":"","name":"","state":"","currentWeek":0,"totalWeeks":0,"weeks":[],"upcoming":[]}`, string(raw))
}

func TestBuildUserContextFailsWhole(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newContextFixture()
	f.onboarding.On("GetByOwner", mock.Anything, f.owner).Return(&domain.OnboardingProfile{}, nil)
	f.tracking.On("GetByOwnerInRange", mock.Anything, f.owner, mock.Anything).Return(nil, errors.New("socket closed"))
	f.plans.On("GetActiveByOwner", mock.Anything, f.owner).Return(nil, repository.ErrNotFound)

	uc, err := f.svc.BuildUserContext(context.Background(), f.owner, nil)

	assert.Nil(t, uc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "socket closed")
}

func TestBuildUserContextRejectsInvertedWindow(t *testing.T) {
	f := newContextFixture()
	_, err := f.svc.BuildUserContext(context.Background(), f.owner, &progress.Window{Start: t0, End: t0.Add(-time.Hour)})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
}

func TestGetContextForInteractionCacheHit(t *testing.T) {
	f := newContextFixture()
	cached := domain.NewUserContext(f.owner.Hex(), t0, progress.LastDays(t0, 14).Range())
	f.cache.On("Get", mock.Anything, f.owner.Hex(), "trainer_question").Return(cached, int64(3), true, nil)

	uc, err := f.svc.GetContextForInteraction(context.Background(), f.owner, InteractionTrainerQuestion)

	require.NoError(t, err)
	assert.Same(t, cached, uc)
	f.tracking.AssertNotCalled(t, "GetByOwnerInRange", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CounterContextCache.WithLabelValues(metrics.ResultHit)))
}

func TestGetContextForInteractionBuildsAndCaches(t *testing.T) {
	defer goleak.VerifyNone(t)
	f := newContextFixture()
	window := progress.LastDays(t0, 90)
	f.cache.On("Get", mock.Anything, f.owner.Hex(), "progress_review").Return(nil, int64(0), false, errors.New("redis down"))
	f.onboarding.On("GetByOwner", mock.Anything, f.owner).Return(nil, repository.ErrNotFound)
	f.tracking.On("GetByOwnerInRange", mock.Anything, f.owner, window.Range()).Return([]domain.WorkoutTrackingRecord{}, nil)
	f.plans.On("GetActiveByOwner", mock.Anything, f.owner).Return(nil, repository.ErrNotFound)
	f.cache.On("Set", mock.Anything, f.owner.Hex(), "progress_review", int64(0), mock.AnythingOfType("*domain.UserContext")).Return(nil)

	uc, err := f.svc.GetContextForInteraction(context.Background(), f.owner, InteractionProgressReview)

	require.NoError(t, err)
	assert.Equal(t, window.Range(), uc.Range)
	f.cache.AssertExpectations(t)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CounterContextCache.WithLabelValues(metrics.ResultMiss)))
}

func TestGetContextForInteractionWritesUnderReadVersion(t *testing.T) {
	f := newContextFixture()
	window := progress.LastDays(t0, 14)
	f.cache.On("Get", mock.Anything, f.owner.Hex(), "trainer_question").Return(nil, int64(5), false, nil)
	f.onboarding.On("GetByOwner", mock.Anything, f.owner).Return(nil, repository.ErrNotFound)
	f.tracking.On("GetByOwnerInRange", mock.Anything, f.owner, window.Range()).Return([]domain.WorkoutTrackingRecord{}, nil)
	f.plans.On("GetActiveByOwner", mock.Anything, f.owner).Return(nil, repository.ErrNotFound)
	f.cache.On("Set", mock.Anything, f.owner.Hex(), "trainer_question", int64(5), mock.Anything).Return(nil)

	_, err := f.svc.GetContextForInteraction(context.Background(), f.owner, InteractionTrainerQuestion)

	require.NoError(t, err)
	f.cache.AssertExpectations(t)
}

func TestGetContextForInteractionUnknownKind(t *testing.T) {
	f := newContextFixture()
	_, err := f.svc.GetContextForInteraction(context.Background(), f.owner, InteractionKind("small_talk"))
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	f.cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestInteractionLookback(t *testing.T) {
	for kind, want := range map[InteractionKind]int{
		InteractionPlanGeneration:  30,
		InteractionTrainerQuestion: 14,
		InteractionProgressReview:  90,
	} {
		days, ok := kind.Lookback()
		assert.True(t, ok)
		assert.Equal(t, want, days, kind)
	}
}
