package planstate

import (
	"strings"
	"time"

	"alcyxob/fitcoach/internal/apperr"
	"alcyxob/fitcoach/internal/domain"
)

// MaxNameLength bounds plan names set through Rename.
const MaxNameLength = 120

// Transition names, also used as metric labels.
const (
	TransitionStart   = "start"
	TransitionPause   = "pause"
	TransitionResume  = "resume"
	TransitionCancel  = "cancel"
	TransitionRestart = "restart"
	TransitionRename  = "rename"
	TransitionDates   = "update_dates"

	// TransitionReinstate is Cancel of the current plan followed by Restart of an archived one.
	TransitionReinstate = "reinstate"
	TransitionDelete    = "delete"
)

func invalidState(transition, msg string) error {
	return apperr.New(apperr.KindInvalidState, "plan."+transition, msg)
}

func invalidInput(transition, msg string) error {
	return apperr.New(apperr.KindInvalidInput, "plan."+transition, msg)
}

// Start begins the plan. It is allowed from NotStarted and, to re-stamp the start date,
// from Active as long as the plan has never been paused.
func Start(plan *domain.WorkoutPlan, now time.Time) error {
	switch Derive(plan) {
	case NotStarted:
	case Active:
		if !neverPaused(plan) {
			return invalidState(TransitionStart, "plan has already been started")
		}
	case Paused:
		return invalidState(TransitionStart, "plan is paused")
	case Archived:
		return invalidState(TransitionStart, "plan is archived")
	}

	start := now
	plan.StartDate = &start
	plan.PausedAt = nil
	plan.ResumedAt = nil
	plan.TotalPausedDuration = 0
	return nil
}

// Pause stops the clock. Paused time is accounted for on Resume.
func Pause(plan *domain.WorkoutPlan, now time.Time) error {
	switch Derive(plan) {
	case Active:
	case NotStarted:
		return invalidState(TransitionPause, "plan is not started")
	case Paused:
		return invalidState(TransitionPause, "plan is already paused")
	case Archived:
		return invalidState(TransitionPause, "plan is archived")
	}

	paused := now
	plan.PausedAt = &paused
	return nil
}

// Resume adds the elapsed pause to TotalPausedDuration. It never mutates the plan when
// the precondition fails.
func Resume(plan *domain.WorkoutPlan, now time.Time) error {
	if Derive(plan) == Archived {
		return invalidState(TransitionResume, "plan is archived")
	}
	if plan.PausedAt == nil {
		return invalidState(TransitionResume, "plan is not paused")
	}

	plan.TotalPausedDuration += ElapsedSeconds(*plan.PausedAt, now)
	resumed := now
	plan.ResumedAt = &resumed
	plan.PausedAt = nil
	return nil
}

// Cancel soft-archives the plan from any state. Lifecycle timestamps are kept for history.
func Cancel(plan *domain.WorkoutPlan, now time.Time) error {
	plan.IsActive = false
	if !plan.Archived {
		archived := now
		plan.Archived = true
		plan.ArchivedAt = &archived
	}
	return nil
}

// Restart returns the plan to NotStarted from any state. It is also how an archived plan
// is reinstated.
func Restart(plan *domain.WorkoutPlan, _ time.Time) error {
	plan.IsActive = true
	plan.Archived = false
	plan.ArchivedAt = nil
	plan.StartDate = nil
	plan.PausedAt = nil
	plan.ResumedAt = nil
	plan.TotalPausedDuration = 0
	return nil
}

// Rename sets a new plan name. Lifecycle state is untouched.
func Rename(plan *domain.WorkoutPlan, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalidInput(TransitionRename, "plan name cannot be empty")
	}
	if len([]rune(name)) > MaxNameLength {
		return invalidInput(TransitionRename, "plan name is too long")
	}
	plan.Name = name
	return nil
}

// Dates is an administrative overwrite of the lifecycle timestamps.
type Dates struct {
	StartDate *time.Time
	PausedAt  *time.Time
	ResumedAt *time.Time
}

// UpdateDates overwrites the timestamps after checking they are coherent. It does not
// count as a transition: IsActive and TotalPausedDuration are left alone, and input that
// would move the plan to another state is rejected.
func UpdateDates(plan *domain.WorkoutPlan, d Dates) error {
	if d.StartDate == nil && (d.PausedAt != nil || d.ResumedAt != nil) {
		return invalidInput(TransitionDates, "pause dates require a start date")
	}
	if d.StartDate != nil {
		if d.PausedAt != nil && d.PausedAt.Before(*d.StartDate) {
			return invalidInput(TransitionDates, "paused date is before start date")
		}
		if d.ResumedAt != nil && d.ResumedAt.Before(*d.StartDate) {
			return invalidInput(TransitionDates, "resumed date is before start date")
		}
	}

	updated := *plan
	updated.StartDate = d.StartDate
	updated.PausedAt = d.PausedAt
	updated.ResumedAt = d.ResumedAt
	if Derive(&updated) != Derive(plan) {
		return invalidState(TransitionDates, "dates would change the plan state")
	}

	plan.StartDate = d.StartDate
	plan.PausedAt = d.PausedAt
	plan.ResumedAt = d.ResumedAt
	return nil
}
