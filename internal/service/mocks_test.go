package service

import (
	"context"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/generator"
	"alcyxob/fitcoach/internal/progress"
	"alcyxob/fitcoach/internal/repository"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mock repositories
type MockUserRepo struct{ mock.Mock }
type MockPlanRepo struct{ mock.Mock }
type MockWorkoutRepo struct{ mock.Mock }
type MockScheduleRepo struct{ mock.Mock }
type MockTrackingRepo struct{ mock.Mock }
type MockProgressRepo struct{ mock.Mock }
type MockOnboardingRepo struct{ mock.Mock }
type MockGenerationRepo struct{ mock.Mock }
type MockBatchRepo struct{ mock.Mock }

// Mock collaborators
type MockCache struct{ mock.Mock }
type MockStorage struct{ mock.Mock }
type MockGenerator struct{ mock.Mock }
type MockContextService struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) RecordLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockPlanRepo) Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	args := m.Called(ctx, plan)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockPlanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkoutPlan), args.Error(1)
}

func (m *MockPlanRepo) GetActiveByOwner(ctx context.Context, ownerID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkoutPlan), args.Error(1)
}

func (m *MockPlanRepo) GetPreviousByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkoutPlan), args.Error(1)
}

func (m *MockPlanRepo) GetByGenerationID(ctx context.Context, ownerID primitive.ObjectID, generationID string) (*domain.WorkoutPlan, error) {
	args := m.Called(ctx, ownerID, generationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkoutPlan), args.Error(1)
}

func (m *MockPlanRepo) Update(ctx context.Context, plan *domain.WorkoutPlan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *MockPlanRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockWorkoutRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workout), args.Error(1)
}

func (m *MockWorkoutRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Workout, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Workout), args.Error(1)
}

func (m *MockWorkoutRepo) Update(ctx context.Context, workout *domain.Workout) error {
	return m.Called(ctx, workout).Error(0)
}

func (m *MockWorkoutRepo) DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, planID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockScheduleRepo) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.WeeklyScheduleEntry, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WeeklyScheduleEntry), args.Error(1)
}

func (m *MockScheduleRepo) DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, planID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTrackingRepo) Create(ctx context.Context, record *domain.WorkoutTrackingRecord) (primitive.ObjectID, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockTrackingRepo) GetByOwnerInRange(ctx context.Context, ownerID primitive.ObjectID, r domain.TimeRange) ([]domain.WorkoutTrackingRecord, error) {
	args := m.Called(ctx, ownerID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkoutTrackingRecord), args.Error(1)
}

func (m *MockProgressRepo) Create(ctx context.Context, record *domain.ProgressTrackingRecord) (primitive.ObjectID, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockProgressRepo) GetByOwner(ctx context.Context, ownerID primitive.ObjectID, category *domain.ProgressCategory, r domain.TimeRange) ([]domain.ProgressTrackingRecord, error) {
	args := m.Called(ctx, ownerID, category, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProgressTrackingRecord), args.Error(1)
}

func (m *MockProgressRepo) GetLatest(ctx context.Context, ownerID primitive.ObjectID, category *domain.ProgressCategory) (*domain.ProgressTrackingRecord, error) {
	args := m.Called(ctx, ownerID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgressTrackingRecord), args.Error(1)
}

func (m *MockOnboardingRepo) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) (*domain.OnboardingProfile, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OnboardingProfile), args.Error(1)
}

func (m *MockOnboardingRepo) Upsert(ctx context.Context, profile *domain.OnboardingProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockGenerationRepo) Create(ctx context.Context, record *domain.GenerationRecord) (primitive.ObjectID, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockGenerationRepo) GetByGenerationID(ctx context.Context, ownerID primitive.ObjectID, generationID string) (*domain.GenerationRecord, error) {
	args := m.Called(ctx, ownerID, generationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationRecord), args.Error(1)
}

func (m *MockGenerationRepo) Update(ctx context.Context, record *domain.GenerationRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockBatchRepo) CreatePlanBatch(ctx context.Context, batch *repository.PlanBatch) error {
	return m.Called(ctx, batch).Error(0)
}

func (m *MockCache) Get(ctx context.Context, ownerID, kind string) (*domain.UserContext, int64, bool, error) {
	args := m.Called(ctx, ownerID, kind)
	version := args.Get(1).(int64)
	if args.Get(0) == nil {
		return nil, version, args.Bool(2), args.Error(3)
	}
	return args.Get(0).(*domain.UserContext), version, args.Bool(2), args.Error(3)
}

func (m *MockCache) Set(ctx context.Context, ownerID, kind string, version int64, uc *domain.UserContext) error {
	return m.Called(ctx, ownerID, kind, version, uc).Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, ownerID string) error {
	return m.Called(ctx, ownerID).Error(0)
}

func (m *MockStorage) PutObject(ctx context.Context, objectKey, contentType string, body []byte) error {
	return m.Called(ctx, objectKey, contentType, body).Error(0)
}

func (m *MockStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expires)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) DeleteObject(ctx context.Context, objectKey string) error {
	return m.Called(ctx, objectKey).Error(0)
}

func (m *MockGenerator) Generate(ctx context.Context, uc *domain.UserContext, input string) (*generator.Candidate, error) {
	args := m.Called(ctx, uc, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*generator.Candidate), args.Error(1)
}

func (m *MockContextService) BuildUserContext(ctx context.Context, ownerID primitive.ObjectID, window *progress.Window) (*domain.UserContext, error) {
	args := m.Called(ctx, ownerID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserContext), args.Error(1)
}

func (m *MockContextService) GetContextForInteraction(ctx context.Context, ownerID primitive.ObjectID, kind InteractionKind) (*domain.UserContext, error) {
	args := m.Called(ctx, ownerID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserContext), args.Error(1)
}

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return t0 }

func timePtr(t time.Time) *time.Time { return &t }
