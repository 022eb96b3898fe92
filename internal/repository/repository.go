package repository

import (
	"alcyxob/fitcoach/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository stores accounts. Emails are matched case-insensitively.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// RecordLogin stamps lastLoginAt. ErrNotFound when no account has id.
	RecordLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// PlanRepository defines the interface for interacting with workout plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	// GetActiveByOwner returns the owner's active, non-archived plan or ErrNotFound.
	GetActiveByOwner(ctx context.Context, ownerID primitive.ObjectID) (*domain.WorkoutPlan, error)
	// GetPreviousByOwner returns inactive or archived plans, newest first.
	GetPreviousByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	GetByGenerationID(ctx context.Context, ownerID primitive.ObjectID, generationID string) (*domain.WorkoutPlan, error)
	Update(ctx context.Context, plan *domain.WorkoutPlan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) (int64, error)
}

// ScheduleRepository reads and removes the weekly schedule rows of a plan.
type ScheduleRepository interface {
	// GetByPlanID returns entries in insertion order.
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.WeeklyScheduleEntry, error)
	DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) (int64, error)
}

// TrackingRepository stores logged activities.
type TrackingRepository interface {
	Create(ctx context.Context, record *domain.WorkoutTrackingRecord) (primitive.ObjectID, error)
	// GetByOwnerInRange returns records dated within r, newest first.
	GetByOwnerInRange(ctx context.Context, ownerID primitive.ObjectID, r domain.TimeRange) ([]domain.WorkoutTrackingRecord, error)
}

// ProgressRepository stores progress snapshots.
type ProgressRepository interface {
	Create(ctx context.Context, record *domain.ProgressTrackingRecord) (primitive.ObjectID, error)
	// GetByOwner returns records within r, newest first. A nil category matches all.
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID, category *domain.ProgressCategory, r domain.TimeRange) ([]domain.ProgressTrackingRecord, error)
	GetLatest(ctx context.Context, ownerID primitive.ObjectID, category *domain.ProgressCategory) (*domain.ProgressTrackingRecord, error)
}

// OnboardingRepository stores one onboarding profile per owner.
type OnboardingRepository interface {
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID) (*domain.OnboardingProfile, error)
	Upsert(ctx context.Context, profile *domain.OnboardingProfile) error
}

// GenerationRepository stores plan generation attempts, keyed by (owner, generationId).
type GenerationRepository interface {
	Create(ctx context.Context, record *domain.GenerationRecord) (primitive.ObjectID, error)
	GetByGenerationID(ctx context.Context, ownerID primitive.ObjectID, generationID string) (*domain.GenerationRecord, error)
	Update(ctx context.Context, record *domain.GenerationRecord) error
}

// BatchEntry places Workouts[WorkoutIndex] of a PlanBatch in a week.
type BatchEntry struct {
	WeekNumber   int
	WorkoutIndex int
}

// PlanBatch is everything a generated plan consists of. Supersede, when set, is the
// owner's previous active plan, already cancelled by the caller.
type PlanBatch struct {
	Plan      *domain.WorkoutPlan
	Workouts  []domain.Workout
	Schedule  []BatchEntry
	Supersede *domain.WorkoutPlan
}

// PlanBatchRepository writes a PlanBatch atomically: plan, then workouts, then schedule
// entries that reference the generated workout ids.
type PlanBatchRepository interface {
	CreatePlanBatch(ctx context.Context, batch *PlanBatch) error
}
