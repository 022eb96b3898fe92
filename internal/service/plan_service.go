package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alcyxob/fitcoach/internal/cache"
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/metrics"
	"alcyxob/fitcoach/internal/planstate"
	"alcyxob/fitcoach/internal/repository"
	"alcyxob/fitcoach/internal/storage"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/multierr"
)

// PlanService exposes the plan lifecycle to the transport layer. Every operation checks
// that the plan belongs to ownerID before touching it.
type PlanService interface {
	Start(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	Pause(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	Resume(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	Cancel(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	Restart(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	// Reinstate cancels the owner's current active plan, if any, then restarts planID.
	Reinstate(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)
	Rename(ctx context.Context, ownerID, planID primitive.ObjectID, name string) (*domain.WorkoutPlan, error)
	UpdateDates(ctx context.Context, ownerID, planID primitive.ObjectID, dates planstate.Dates) (*domain.WorkoutPlan, error)
	DeletePlan(ctx context.Context, ownerID, planID primitive.ObjectID) error

	GetActivePlan(ctx context.Context, ownerID primitive.ObjectID) (*MaterializedPlan, error)
	GetPreviousPlans(ctx context.Context, ownerID primitive.ObjectID) ([]MaterializedPlan, error)
}

type planService struct {
	planRepo       repository.PlanRepository
	workoutRepo    repository.WorkoutRepository
	scheduleRepo   repository.ScheduleRepository
	generationRepo repository.GenerationRepository
	snapshots      storage.ObjectStorage
	cache          cache.ContextCache
	metrics        *metrics.Manager
	materializer   planMaterializer
	now            func() time.Time
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	planRepo repository.PlanRepository,
	workoutRepo repository.WorkoutRepository,
	scheduleRepo repository.ScheduleRepository,
	generationRepo repository.GenerationRepository,
	snapshots storage.ObjectStorage,
	contextCache cache.ContextCache,
	metricsManager *metrics.Manager,
) PlanService {
	return &planService{
		planRepo:       planRepo,
		workoutRepo:    workoutRepo,
		scheduleRepo:   scheduleRepo,
		generationRepo: generationRepo,
		snapshots:      snapshots,
		cache:          contextCache,
		metrics:        metricsManager,
		materializer:   planMaterializer{scheduleRepo: scheduleRepo, workoutRepo: workoutRepo},
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// loadOwned fetches a plan and checks ownership.
func (s *planService) loadOwned(ctx context.Context, op string, ownerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, notFoundOr(err, op, "plan not found")
	}
	if !plan.OwnedBy(ownerID) {
		return nil, forbidden(op, "plan belongs to another user")
	}
	return plan, nil
}

// ensureNoOtherActive enforces a single running plan per owner.
func (s *planService) ensureNoOtherActive(ctx context.Context, op string, plan *domain.WorkoutPlan) error {
	active, err := s.planRepo.GetActiveByOwner(ctx, plan.OwnerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return internal(op, err)
	}
	if active.ID != plan.ID {
		return invalidState(op, "another plan is already active")
	}
	return nil
}

// apply runs a lifecycle change against a loaded plan, persists it and records the outcome.
func (s *planService) apply(ctx context.Context, transition string, ownerID, planID primitive.ObjectID, change func(plan *domain.WorkoutPlan, now time.Time) error) (plan *domain.WorkoutPlan, err error) {
	op := "plan." + transition
	defer func() { s.metrics.RecordTransition(transition, err) }()

	plan, err = s.loadOwned(ctx, op, ownerID, planID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err = change(plan, now); err != nil {
		return nil, err
	}
	plan.UpdatedAt = now
	if err = s.planRepo.Update(ctx, plan); err != nil {
		return nil, notFoundOr(err, op, "plan not found")
	}

	s.invalidate(ctx, ownerID)
	log.WithFields(log.Fields{
		"owner":      ownerID.Hex(),
		"plan":       planID.Hex(),
		"transition": transition,
		"state":      planstate.Derive(plan),
	}).Info("plan transition applied")
	return plan, nil
}

func (s *planService) invalidate(ctx context.Context, ownerID primitive.ObjectID) {
	if err := s.cache.Invalidate(ctx, ownerID.Hex()); err != nil {
		log.WithError(err).WithField("owner", ownerID.Hex()).Warn("failed to invalidate context cache")
	}
}

func (s *planService) Start(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return s.apply(ctx, planstate.TransitionStart, ownerID, planID, func(plan *domain.WorkoutPlan, now time.Time) error {
		if planstate.Derive(plan) != planstate.Archived {
			if err := s.ensureNoOtherActive(ctx, "plan."+planstate.TransitionStart, plan); err != nil {
				return err
			}
		}
		return planstate.Start(plan, now)
	})
}

func (s *planService) Pause(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return s.apply(ctx, planstate.TransitionPause, ownerID, planID, planstate.Pause)
}

func (s *planService) Resume(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return s.apply(ctx, planstate.TransitionResume, ownerID, planID, planstate.Resume)
}

func (s *planService) Cancel(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return s.apply(ctx, planstate.TransitionCancel, ownerID, planID, planstate.Cancel)
}

func (s *planService) Restart(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return s.apply(ctx, planstate.TransitionRestart, ownerID, planID, func(plan *domain.WorkoutPlan, now time.Time) error {
		if err := s.ensureNoOtherActive(ctx, "plan."+planstate.TransitionRestart, plan); err != nil {
			return err
		}
		return planstate.Restart(plan, now)
	})
}

func (s *planService) Reinstate(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	const op = "plan." + planstate.TransitionReinstate

	// Validate the target before cancelling anything
	if _, err := s.loadOwned(ctx, op, ownerID, planID); err != nil {
		s.metrics.RecordTransition(planstate.TransitionReinstate, err)
		return nil, err
	}

	var previous *domain.WorkoutPlan
	active, err := s.planRepo.GetActiveByOwner(ctx, ownerID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		err = internal(op, err)
		s.metrics.RecordTransition(planstate.TransitionReinstate, err)
		return nil, err
	case active.ID != planID:
		snapshot := *active
		if _, err := s.Cancel(ctx, ownerID, active.ID); err != nil {
			s.metrics.RecordTransition(planstate.TransitionReinstate, err)
			return nil, err
		}
		previous = &snapshot
	}

	plan, err := s.apply(ctx, planstate.TransitionReinstate, ownerID, planID, planstate.Restart)
	if err != nil && previous != nil {
		s.undoCancel(ctx, previous)
	}
	return plan, err
}

// undoCancel writes back the plan as it was before Reinstate cancelled it.
func (s *planService) undoCancel(ctx context.Context, previous *domain.WorkoutPlan) {
	previous.UpdatedAt = s.now()
	fields := log.Fields{"owner": previous.OwnerID.Hex(), "plan": previous.ID.Hex()}
	if err := s.planRepo.Update(ctx, previous); err != nil {
		log.WithError(err).WithFields(fields).Error("failed to restore plan after reinstate failure")
		return
	}
	s.invalidate(ctx, previous.OwnerID)
	log.WithFields(fields).Warn("reinstate failed, previous plan restored")
}

func (s *planService) Rename(ctx context.Context, ownerID, planID primitive.ObjectID, name string) (*domain.WorkoutPlan, error) {
	return s.apply(ctx, planstate.TransitionRename, ownerID, planID, func(plan *domain.WorkoutPlan, _ time.Time) error {
		return planstate.Rename(plan, name)
	})
}

func (s *planService) UpdateDates(ctx context.Context, ownerID, planID primitive.ObjectID, dates planstate.Dates) (*domain.WorkoutPlan, error) {
	return s.apply(ctx, planstate.TransitionDates, ownerID, planID, func(plan *domain.WorkoutPlan, _ time.Time) error {
		return planstate.UpdateDates(plan, dates)
	})
}

// DeletePlan removes the schedule rows, the generated workouts, the plan and the archived
// generation snapshot. Every step is attempted; failures are combined.
func (s *planService) DeletePlan(ctx context.Context, ownerID, planID primitive.ObjectID) (err error) {
	const op = "plan." + planstate.TransitionDelete
	defer func() { s.metrics.RecordTransition(planstate.TransitionDelete, err) }()

	plan, err := s.loadOwned(ctx, op, ownerID, planID)
	if err != nil {
		return err
	}

	var errs error
	entries, delErr := s.scheduleRepo.DeleteByPlanID(ctx, planID)
	errs = multierr.Append(errs, wrapStep("schedule", delErr))
	workouts, delErr := s.workoutRepo.DeleteByPlanID(ctx, planID)
	errs = multierr.Append(errs, wrapStep("workouts", delErr))
	errs = multierr.Append(errs, wrapStep("plan", s.planRepo.Delete(ctx, planID)))
	s.deleteSnapshot(ctx, plan)

	s.invalidate(ctx, ownerID)
	if errs != nil {
		return internal(op, errs)
	}

	log.WithFields(log.Fields{
		"owner":    ownerID.Hex(),
		"plan":     planID.Hex(),
		"entries":  entries,
		"workouts": workouts,
	}).Info("plan deleted")
	return nil
}

func wrapStep(step string, err error) error {
	if err == nil || errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("delete %s: %w", step, err)
}

// deleteSnapshot removes the archived context of the generation that produced plan.
// Failures are logged only.
func (s *planService) deleteSnapshot(ctx context.Context, plan *domain.WorkoutPlan) {
	if plan.GenerationID == "" {
		return
	}
	rec, err := s.generationRepo.GetByGenerationID(ctx, plan.OwnerID, plan.GenerationID)
	if err != nil || rec.SnapshotKey == "" {
		return
	}
	if err := s.snapshots.DeleteObject(ctx, rec.SnapshotKey); err != nil {
		log.WithError(err).WithField("key", rec.SnapshotKey).Warn("failed to delete generation snapshot")
	}
}

func (s *planService) GetActivePlan(ctx context.Context, ownerID primitive.ObjectID) (*MaterializedPlan, error) {
	const op = "plan.get_active"
	plan, err := s.planRepo.GetActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, notFoundOr(err, op, "no active plan")
	}
	mp, err := s.materializer.materialize(ctx, plan, s.now())
	if err != nil {
		return nil, internal(op, err)
	}
	return mp, nil
}

func (s *planService) GetPreviousPlans(ctx context.Context, ownerID primitive.ObjectID) ([]MaterializedPlan, error) {
	const op = "plan.get_previous"
	plans, err := s.planRepo.GetPreviousByOwner(ctx, ownerID)
	if err != nil {
		return nil, internal(op, err)
	}

	now := s.now()
	result := make([]MaterializedPlan, 0, len(plans))
	for i := range plans {
		mp, err := s.materializer.materialize(ctx, &plans[i], now)
		if err != nil {
			return nil, internal(op, err)
		}
		result = append(result, *mp)
	}
	return result, nil
}
