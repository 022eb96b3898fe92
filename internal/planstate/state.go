// Package planstate holds the workout plan lifecycle: the derived state of a plan and the
// transitions that are allowed to mutate its timestamps.
package planstate

import "alcyxob/fitcoach/internal/domain"

// State is the lifecycle state of a plan, derived from its stored fields.
type State string

const (
	NotStarted State = "not_started"
	Active     State = "active"
	Paused     State = "paused"
	Archived   State = "archived"
)

// Derive computes the state of plan. Archived wins over everything else, so a cancelled
// plan keeps its timestamps for history without being treated as running.
func Derive(plan *domain.WorkoutPlan) State {
	switch {
	case !plan.IsActive || plan.Archived:
		return Archived
	case plan.StartDate == nil:
		return NotStarted
	case plan.PausedAt != nil:
		return Paused
	default:
		return Active
	}
}

// neverPaused reports whether an active plan has no pause history at all.
func neverPaused(plan *domain.WorkoutPlan) bool {
	return plan.PausedAt == nil && plan.ResumedAt == nil && plan.TotalPausedDuration == 0
}
