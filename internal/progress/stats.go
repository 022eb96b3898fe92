package progress

import (
	"strings"

	"alcyxob/fitcoach/internal/domain"
)

// TotalMinutes sums the logged duration of records.
func TotalMinutes(records []domain.WorkoutTrackingRecord) float64 {
	total := 0
	for i := range records {
		total += records[i].Minutes()
	}
	return float64(total)
}

// AverageIntensity is the mean intensity over records that report one, 0 when none do.
func AverageIntensity(records []domain.WorkoutTrackingRecord) float64 {
	sum, n := 0, 0
	for _, r := range records {
		if r.Intensity == nil {
			continue
		}
		sum += *r.Intensity
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// DistinctActivityTypes counts activity types, case-insensitively. Blank types are skipped.
func DistinctActivityTypes(records []domain.WorkoutTrackingRecord) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		t := normalize(r.ActivityType)
		if t == "" {
			continue
		}
		seen[t] = struct{}{}
	}
	return len(seen)
}

var enduranceTypes = map[string]struct{}{
	domain.ActivityRun:        {},
	domain.ActivityCycle:      {},
	domain.ActivitySwim:       {},
	domain.ActivityWalk:       {},
	domain.ActivityHike:       {},
	domain.ActivityRowing:     {},
	domain.ActivityElliptical: {},
}

var flexibilityMarkers = []string{"pilates", "yoga", "stretch"}

// IsEndurance reports whether the record is a cardio activity.
func IsEndurance(r domain.WorkoutTrackingRecord) bool {
	_, ok := enduranceTypes[normalize(r.ActivityType)]
	return ok
}

// IsFlexibility reports whether the record is pilates-like or names a stretch.
func IsFlexibility(r domain.WorkoutTrackingRecord) bool {
	t := normalize(r.ActivityType)
	for _, m := range flexibilityMarkers {
		if strings.Contains(t, m) {
			return true
		}
	}
	for _, ex := range r.Exercises {
		if strings.Contains(strings.ToLower(ex.Name), "stretch") {
			return true
		}
	}
	return false
}

// IsStrength reports whether the record is a workout session or a hard effort.
func IsStrength(r domain.WorkoutTrackingRecord) bool {
	return normalize(r.ActivityType) == domain.ActivityWorkout || (r.Intensity != nil && *r.Intensity > 7)
}

// FilterCategory returns the records that count toward a progress category.
func FilterCategory(records []domain.WorkoutTrackingRecord, c domain.ProgressCategory) []domain.WorkoutTrackingRecord {
	switch c {
	case domain.CategoryCardio:
		return filter(records, IsEndurance)
	case domain.CategoryPilates:
		return filter(records, IsFlexibility)
	default:
		return records
	}
}

func filter(records []domain.WorkoutTrackingRecord, keep func(domain.WorkoutTrackingRecord) bool) []domain.WorkoutTrackingRecord {
	out := make([]domain.WorkoutTrackingRecord, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
