package planstate

import (
	"time"

	"alcyxob/fitcoach/internal/domain"
)

// ElapsedSeconds returns whole seconds between from and to, floored.
// A negative interval yields 0 so accumulated pause time never shrinks.
func ElapsedSeconds(from, to time.Time) int64 {
	d := to.Sub(from)
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}

// ActiveDuration is how long the plan has actually been running at now: time since
// start minus all accumulated pauses, including a pause still in progress.
func ActiveDuration(plan *domain.WorkoutPlan, now time.Time) time.Duration {
	if plan == nil || plan.StartDate == nil {
		return 0
	}
	paused := plan.TotalPausedDuration
	if plan.PausedAt != nil {
		paused += ElapsedSeconds(*plan.PausedAt, now)
	}
	active := time.Duration(ElapsedSeconds(*plan.StartDate, now)-paused) * time.Second
	if active < 0 {
		return 0
	}
	return active
}

// CurrentWeek returns the 1-based week the owner is in, clamped to the plan length.
// A plan that has not started, or has no weeks, is in week 0.
func CurrentWeek(plan *domain.WorkoutPlan, now time.Time) int {
	if plan == nil || plan.StartDate == nil || plan.Weeks <= 0 {
		return 0
	}
	week := 1 + int(ActiveDuration(plan, now)/(7*24*time.Hour))
	if week > plan.Weeks {
		return plan.Weeks
	}
	return week
}
