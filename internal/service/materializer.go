package service

import (
	"context"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/planstate"
	"alcyxob/fitcoach/internal/repository"
	"alcyxob/fitcoach/internal/schedule"
)

// MaterializedPlan is a plan with its weekly schedule resolved.
type MaterializedPlan struct {
	Plan          *domain.WorkoutPlan    `json:"plan"`
	State         planstate.State        `json:"state"`
	CurrentWeek   int                    `json:"currentWeek"`
	ActiveSeconds int64                  `json:"activeSeconds"`
	Weeks         []domain.PlanWeek      `json:"weeks"`
	Summary       []schedule.WeekSummary `json:"summary"`
	Planned       int                    `json:"planned"`
	Completed     int                    `json:"completed"`
}

// planMaterializer loads the schedule rows and workouts of a plan.
type planMaterializer struct {
	scheduleRepo repository.ScheduleRepository
	workoutRepo  repository.WorkoutRepository
}

func (m planMaterializer) weeks(ctx context.Context, plan *domain.WorkoutPlan) ([]domain.PlanWeek, error) {
	entries, err := m.scheduleRepo.GetByPlanID(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	var workouts []domain.Workout
	if ids := schedule.WorkoutIDs(entries); len(ids) > 0 {
		if workouts, err = m.workoutRepo.GetByIDs(ctx, ids); err != nil {
			return nil, err
		}
	}
	return schedule.Materialize(plan.Weeks, entries, workouts), nil
}

func (m planMaterializer) materialize(ctx context.Context, plan *domain.WorkoutPlan, now time.Time) (*MaterializedPlan, error) {
	weeks, err := m.weeks(ctx, plan)
	if err != nil {
		return nil, err
	}
	planned, completed := schedule.Totals(weeks)
	return &MaterializedPlan{
		Plan:          plan,
		State:         planstate.Derive(plan),
		CurrentWeek:   planstate.CurrentWeek(plan, now),
		ActiveSeconds: int64(planstate.ActiveDuration(plan, now).Seconds()),
		Weeks:         weeks,
		Summary:       schedule.Summarize(weeks),
		Planned:       planned,
		Completed:     completed,
	}, nil
}
