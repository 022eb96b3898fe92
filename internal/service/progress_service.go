package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/progress"
	"alcyxob/fitcoach/internal/repository"
	"alcyxob/fitcoach/internal/schedule"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressService serves stored progress snapshots and the live calculation.
type ProgressService interface {
	// GetProgressData lists stored records in window, newest first. A nil category matches all.
	GetProgressData(ctx context.Context, ownerID primitive.ObjectID, category *domain.ProgressCategory, window progress.Window) ([]domain.ProgressTrackingRecord, error)
	GetLatestProgress(ctx context.Context, ownerID primitive.ObjectID, category *domain.ProgressCategory) (*domain.ProgressTrackingRecord, error)
	RecordProgress(ctx context.Context, ownerID primitive.ObjectID, record *domain.ProgressTrackingRecord) (*domain.ProgressTrackingRecord, error)
	// SnapshotProgress computes and stores the metrics of the last 30 days for category.
	SnapshotProgress(ctx context.Context, ownerID primitive.ObjectID, category domain.ProgressCategory) (*domain.ProgressTrackingRecord, error)
	GetLiveProgress(ctx context.Context, ownerID primitive.ObjectID, window progress.Window) (*progress.Live, error)
}

type progressService struct {
	progressRepo   repository.ProgressRepository
	trackingRepo   repository.TrackingRepository
	onboardingRepo repository.OnboardingRepository
	planRepo       repository.PlanRepository
	materializer   planMaterializer
	now            func() time.Time
}

// NewProgressService creates a new instance of progressService.
func NewProgressService(
	progressRepo repository.ProgressRepository,
	trackingRepo repository.TrackingRepository,
	onboardingRepo repository.OnboardingRepository,
	planRepo repository.PlanRepository,
	workoutRepo repository.WorkoutRepository,
	scheduleRepo repository.ScheduleRepository,
) ProgressService {
	return &progressService{
		progressRepo:   progressRepo,
		trackingRepo:   trackingRepo,
		onboardingRepo: onboardingRepo,
		planRepo:       planRepo,
		materializer:   planMaterializer{scheduleRepo: scheduleRepo, workoutRepo: workoutRepo},
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func checkCategory(op string, c *domain.ProgressCategory) error {
	if c != nil && !c.Valid() {
		return invalidInput(op, "category must be cardio, pilates or overall")
	}
	return nil
}

func (s *progressService) GetProgressData(ctx context.Context, ownerID primitive.ObjectID, category *domain.ProgressCategory, window progress.Window) ([]domain.ProgressTrackingRecord, error) {
	const op = "progress.list"
	if err := checkCategory(op, category); err != nil {
		return nil, err
	}
	if window.End.Before(window.Start) {
		return nil, invalidInput(op, "range end is before range start")
	}
	records, err := s.progressRepo.GetByOwner(ctx, ownerID, category, window.Range())
	if err != nil {
		return nil, internal(op, err)
	}
	if records == nil {
		records = []domain.ProgressTrackingRecord{}
	}
	return records, nil
}

func (s *progressService) GetLatestProgress(ctx context.Context, ownerID primitive.ObjectID, category *domain.ProgressCategory) (*domain.ProgressTrackingRecord, error) {
	const op = "progress.latest"
	if err := checkCategory(op, category); err != nil {
		return nil, err
	}
	record, err := s.progressRepo.GetLatest(ctx, ownerID, category)
	if err != nil {
		return nil, notFoundOr(err, op, "no progress recorded")
	}
	return record, nil
}

func (s *progressService) RecordProgress(ctx context.Context, ownerID primitive.ObjectID, record *domain.ProgressTrackingRecord) (*domain.ProgressTrackingRecord, error) {
	const op = "progress.record"
	if err := checkCategory(op, &record.Category); err != nil {
		return nil, err
	}
	m := record.Metrics
	if m.Duration < 0 || m.Consistency < 0 || m.WorkoutCount < 0 {
		return nil, invalidInput(op, "metrics cannot be negative")
	}
	if m.Intensity < 0 || m.Intensity > 10 {
		return nil, invalidInput(op, "intensity must be between 0 and 10")
	}
	if m.CompletionRate < 0 || m.CompletionRate > 1 {
		return nil, invalidInput(op, "completion rate must be between 0 and 1")
	}

	record.OwnerID = ownerID
	record.Notes = strings.TrimSpace(record.Notes)
	if record.Date.IsZero() {
		record.Date = s.now()
	}
	return s.create(ctx, op, record)
}

func (s *progressService) create(ctx context.Context, op string, record *domain.ProgressTrackingRecord) (*domain.ProgressTrackingRecord, error) {
	if record.Achievements == nil {
		record.Achievements = []string{}
	}
	if record.Challenges == nil {
		record.Challenges = []string{}
	}
	id, err := s.progressRepo.Create(ctx, record)
	if err != nil {
		return nil, internal(op, err)
	}
	record.ID = id
	return record, nil
}

func (s *progressService) SnapshotProgress(ctx context.Context, ownerID primitive.ObjectID, category domain.ProgressCategory) (*domain.ProgressTrackingRecord, error) {
	const op = "progress.snapshot"
	if err := checkCategory(op, &category); err != nil {
		return nil, err
	}

	now := s.now()
	window := progress.DefaultWindow(now)
	records, goals, err := s.inputs(ctx, ownerID, window)
	if err != nil {
		return nil, internal(op, err)
	}
	records = progress.FilterCategory(records, category)

	planned, completed, err := s.planTotals(ctx, ownerID)
	if err != nil {
		return nil, internal(op, err)
	}

	live := progress.Compute(records, goals, window, now)
	record := &domain.ProgressTrackingRecord{
		OwnerID:      ownerID,
		Date:         now,
		Category:     category,
		Metrics:      progress.Snapshot(records, window, now, planned, completed),
		Achievements: live.Improvements,
		Challenges:   live.Challenges,
	}
	record, err = s.create(ctx, op, record)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"owner":    ownerID.Hex(),
		"category": category,
		"workouts": record.Metrics.WorkoutCount,
	}).Info("progress snapshot stored")
	return record, nil
}

func (s *progressService) GetLiveProgress(ctx context.Context, ownerID primitive.ObjectID, window progress.Window) (*progress.Live, error) {
	const op = "progress.live"
	if window.End.Before(window.Start) {
		return nil, invalidInput(op, "range end is before range start")
	}
	records, goals, err := s.inputs(ctx, ownerID, window)
	if err != nil {
		return nil, internal(op, err)
	}
	live := progress.Compute(records, goals, window, s.now())
	return &live, nil
}

// inputs loads the tracking records in window and the owner's goals.
func (s *progressService) inputs(ctx context.Context, ownerID primitive.ObjectID, window progress.Window) ([]domain.WorkoutTrackingRecord, []string, error) {
	records, err := s.trackingRepo.GetByOwnerInRange(ctx, ownerID, window.Range())
	if err != nil {
		return nil, nil, err
	}
	profile, err := s.onboardingRepo.GetByOwner(ctx, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return records, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return records, profile.Goals, nil
}

// planTotals counts the active plan's items, zero without a plan.
func (s *progressService) planTotals(ctx context.Context, ownerID primitive.ObjectID) (planned, completed int, err error) {
	plan, err := s.planRepo.GetActiveByOwner(ctx, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}
	weeks, err := s.materializer.weeks(ctx, plan)
	if err != nil {
		return 0, 0, err
	}
	planned, completed = schedule.Totals(weeks)
	return planned, completed, nil
}
