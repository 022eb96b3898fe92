package service

import (
	"context"
	"strings"
	"time"

	"alcyxob/fitcoach/internal/cache"
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/metrics"
	"alcyxob/fitcoach/internal/progress"
	"alcyxob/fitcoach/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var distanceUnits = map[string]struct{}{"km": {}, "mi": {}, "m": {}}

// ActivityService records what the owner actually did.
type ActivityService interface {
	// LogTracking stores a tracking record. A record linked to a planned workout marks
	// that workout completed unless a status was already recorded.
	LogTracking(ctx context.Context, ownerID primitive.ObjectID, record *domain.WorkoutTrackingRecord) (*domain.WorkoutTrackingRecord, error)
	ListTracking(ctx context.Context, ownerID primitive.ObjectID, window progress.Window) ([]domain.WorkoutTrackingRecord, error)
	SetWorkoutStatus(ctx context.Context, ownerID, workoutID primitive.ObjectID, status domain.WorkoutStatus) (*domain.Workout, error)
	// SetBooking books or unbooks a class. Self-guided workouts cannot be booked.
	SetBooking(ctx context.Context, ownerID, workoutID primitive.ObjectID, booked bool, date *time.Time) (*domain.Workout, error)
}

type activityService struct {
	trackingRepo repository.TrackingRepository
	workoutRepo  repository.WorkoutRepository
	cache        cache.ContextCache
	metrics      *metrics.Manager
	now          func() time.Time
}

// NewActivityService creates a new instance of activityService.
func NewActivityService(
	trackingRepo repository.TrackingRepository,
	workoutRepo repository.WorkoutRepository,
	contextCache cache.ContextCache,
	metricsManager *metrics.Manager,
) ActivityService {
	return &activityService{
		trackingRepo: trackingRepo,
		workoutRepo:  workoutRepo,
		cache:        contextCache,
		metrics:      metricsManager,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func validateTracking(r *domain.WorkoutTrackingRecord) error {
	const op = "tracking.log"
	r.ActivityType = strings.TrimSpace(r.ActivityType)
	if r.ActivityType == "" {
		return invalidInput(op, "activity type is required")
	}
	if r.Intensity != nil && (*r.Intensity < 1 || *r.Intensity > 10) {
		return invalidInput(op, "intensity must be between 1 and 10")
	}
	if d := r.Duration; d != nil && (d.Hours < 0 || d.Minutes < 0 || d.Minutes > 59) {
		return invalidInput(op, "duration must be non-negative hours and 0-59 minutes")
	}
	if r.Distance != nil {
		if *r.Distance < 0 {
			return invalidInput(op, "distance cannot be negative")
		}
		r.DistanceUnit = strings.ToLower(strings.TrimSpace(r.DistanceUnit))
		if _, ok := distanceUnits[r.DistanceUnit]; !ok {
			return invalidInput(op, "distance unit must be km, mi or m")
		}
	}
	for _, ex := range r.Exercises {
		for _, set := range ex.Sets {
			if set.Reps < 0 || set.Weight < 0 {
				return invalidInput(op, "sets cannot have negative reps or weight")
			}
		}
	}
	return nil
}

func (s *activityService) LogTracking(ctx context.Context, ownerID primitive.ObjectID, record *domain.WorkoutTrackingRecord) (*domain.WorkoutTrackingRecord, error) {
	const op = "tracking.log"
	if err := validateTracking(record); err != nil {
		return nil, err
	}
	record.OwnerID = ownerID
	if record.Date.IsZero() {
		record.Date = s.now()
	}

	var linked *domain.Workout
	if record.WorkoutID != nil {
		w, err := s.loadWorkout(ctx, op, ownerID, *record.WorkoutID)
		if err != nil {
			return nil, err
		}
		linked = w
	}

	id, err := s.trackingRepo.Create(ctx, record)
	if err != nil {
		return nil, internal(op, err)
	}
	record.ID = id
	s.metrics.CounterTrackingRecorded.Inc()

	if linked != nil && (linked.Status == nil || *linked.Status == domain.StatusNotRecorded) {
		completed := domain.StatusCompleted
		linked.Status = &completed
		linked.UpdatedAt = s.now()
		if err := s.workoutRepo.Update(ctx, linked); err != nil {
			log.WithError(err).WithField("workout", linked.ID.Hex()).Warn("failed to mark linked workout completed")
		}
	}

	s.invalidate(ctx, ownerID)
	return record, nil
}

func (s *activityService) ListTracking(ctx context.Context, ownerID primitive.ObjectID, window progress.Window) ([]domain.WorkoutTrackingRecord, error) {
	if window.End.Before(window.Start) {
		return nil, invalidInput("tracking.list", "range end is before range start")
	}
	records, err := s.trackingRepo.GetByOwnerInRange(ctx, ownerID, window.Range())
	if err != nil {
		return nil, internal("tracking.list", err)
	}
	if records == nil {
		records = []domain.WorkoutTrackingRecord{}
	}
	return records, nil
}

func (s *activityService) SetWorkoutStatus(ctx context.Context, ownerID, workoutID primitive.ObjectID, status domain.WorkoutStatus) (*domain.Workout, error) {
	const op = "workout.status"
	if !status.Valid() {
		return nil, invalidInput(op, "status must be completed, not_completed or not_recorded")
	}
	w, err := s.loadWorkout(ctx, op, ownerID, workoutID)
	if err != nil {
		return nil, err
	}
	w.Status = &status
	return s.save(ctx, op, w)
}

func (s *activityService) SetBooking(ctx context.Context, ownerID, workoutID primitive.ObjectID, booked bool, date *time.Time) (*domain.Workout, error) {
	const op = "workout.booking"
	if booked && date == nil {
		return nil, invalidInput(op, "booking date is required")
	}
	w, err := s.loadWorkout(ctx, op, ownerID, workoutID)
	if err != nil {
		return nil, err
	}
	if w.Kind != domain.KindClass {
		return nil, invalidState(op, "only classes can be booked")
	}

	w.IsBooked = booked
	w.BookedDate = nil
	if booked {
		d := date.UTC()
		w.BookedDate = &d
	}
	return s.save(ctx, op, w)
}

func (s *activityService) loadWorkout(ctx context.Context, op string, ownerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	w, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return nil, notFoundOr(err, op, "workout not found")
	}
	if w.OwnerID != ownerID {
		return nil, forbidden(op, "workout belongs to another user")
	}
	return w, nil
}

func (s *activityService) save(ctx context.Context, op string, w *domain.Workout) (*domain.Workout, error) {
	w.UpdatedAt = s.now()
	if err := s.workoutRepo.Update(ctx, w); err != nil {
		return nil, notFoundOr(err, op, "workout not found")
	}
	s.invalidate(ctx, w.OwnerID)
	return w, nil
}

func (s *activityService) invalidate(ctx context.Context, ownerID primitive.ObjectID) {
	if err := s.cache.Invalidate(ctx, ownerID.Hex()); err != nil {
		log.WithError(err).WithField("owner", ownerID.Hex()).Warn("failed to invalidate context cache")
	}
}
