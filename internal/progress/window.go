// Package progress computes consistency, per-goal scores and progress snapshots from an
// owner's tracking history. Everything here is pure; callers load the records.
package progress

import (
	"time"

	"alcyxob/fitcoach/internal/domain"
)

// DefaultLookback is the window used when the caller does not supply one.
const DefaultLookback = 30 * 24 * time.Hour

// Window is an inclusive [Start, End] range of record dates.
type Window struct {
	Start time.Time
	End   time.Time
}

// DefaultWindow returns the last 30 days ending at now.
func DefaultWindow(now time.Time) Window {
	return LastDays(now, 30)
}

// LastDays returns the window of the given number of days ending at now.
func LastDays(now time.Time, days int) Window {
	return Window{Start: now.AddDate(0, 0, -days), End: now}
}

// Days is the length of the window in (fractional) days.
func (w Window) Days() float64 {
	return w.End.Sub(w.Start).Hours() / 24
}

// Contains reports whether t lies within the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Range converts the window to the storage query range.
func (w Window) Range() domain.TimeRange {
	return domain.TimeRange{Start: w.Start, End: w.End}
}

// Filter returns the records dated within w, preserving order.
func (w Window) Filter(records []domain.WorkoutTrackingRecord) []domain.WorkoutTrackingRecord {
	out := make([]domain.WorkoutTrackingRecord, 0, len(records))
	for _, r := range records {
		if w.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out
}
