package progress

import (
	"math"
	"strings"
	"time"

	"alcyxob/fitcoach/internal/domain"
)

// Goal is a recognized training goal. Free-text goals that match nothing are GoalGeneral.
type Goal string

const (
	GoalStrength    Goal = "strength"
	GoalFlexibility Goal = "flexibility"
	GoalEndurance   Goal = "endurance"
	GoalWeightLoss  Goal = "weight_loss"
	GoalMaintenance Goal = "maintenance"
	GoalGeneral     Goal = "general"
)

// goalLabels are the exact labels offered by onboarding, after normalization.
var goalLabels = map[string]Goal{
	"strength":            GoalStrength,
	"build strength":      GoalStrength,
	"build muscle":        GoalStrength,
	"flexibility":         GoalFlexibility,
	"improve flexibility": GoalFlexibility,
	"mobility":            GoalFlexibility,
	"endurance":           GoalEndurance,
	"improve endurance":   GoalEndurance,
	"cardio":              GoalEndurance,
	"weight loss":         GoalWeightLoss,
	"lose weight":         GoalWeightLoss,
	"fat loss":            GoalWeightLoss,
	"maintenance":         GoalMaintenance,
	"maintain fitness":    GoalMaintenance,
	"stay active":         GoalMaintenance,
	"general":             GoalGeneral,
	"general fitness":     GoalGeneral,
}

// goalKeywords catch custom goal text. Checked in order.
var goalKeywords = []struct {
	keyword string
	goal    Goal
}{
	{"weight", GoalWeightLoss},
	{"fat", GoalWeightLoss},
	{"strength", GoalStrength},
	{"strong", GoalStrength},
	{"muscle", GoalStrength},
	{"flexib", GoalFlexibility},
	{"stretch", GoalFlexibility},
	{"mobility", GoalFlexibility},
	{"endurance", GoalEndurance},
	{"stamina", GoalEndurance},
	{"maintain", GoalMaintenance},
	{"maintenance", GoalMaintenance},
}

// ParseGoal maps goal text to a Goal, case-insensitively.
func ParseGoal(text string) Goal {
	t := strings.Join(strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(text))), " ")
	if g, ok := goalLabels[t]; ok {
		return g
	}
	for _, k := range goalKeywords {
		if strings.Contains(t, k.keyword) {
			return k.goal
		}
	}
	return GoalGeneral
}

// Scorer returns a 0..100 score for a goal from records already filtered to the window.
type Scorer func(records []domain.WorkoutTrackingRecord, c domain.ConsistencyMetrics) float64

var scorers = map[Goal]Scorer{
	GoalStrength:    scoreStrength,
	GoalFlexibility: scoreFlexibility,
	GoalEndurance:   scoreEndurance,
	GoalWeightLoss:  scoreWeightLoss,
	GoalMaintenance: scoreMaintenance,
	GoalGeneral:     scoreGeneral,
}

// Score runs the scorer for g, falling back to the general scorer.
func Score(g Goal, records []domain.WorkoutTrackingRecord, c domain.ConsistencyMetrics) float64 {
	s, ok := scorers[g]
	if !ok {
		s = scoreGeneral
	}
	return clamp(s(records, c))
}

// GoalProgress scores every goal of the profile over the window. The result is keyed by
// the original goal text and is never nil.
func GoalProgress(records []domain.WorkoutTrackingRecord, goals []string, window Window, now time.Time) map[string]float64 {
	out := make(map[string]float64, len(goals))
	if len(goals) == 0 {
		return out
	}
	filtered := window.Filter(records)
	c := CalculateConsistency(filtered, window, now)
	for _, text := range goals {
		if strings.TrimSpace(text) == "" {
			continue
		}
		out[text] = Score(ParseGoal(text), filtered, c)
	}
	return out
}

func scoreStrength(records []domain.WorkoutTrackingRecord, _ domain.ConsistencyMetrics) float64 {
	return AverageIntensity(filter(records, IsStrength)) / 10 * 100
}

// 30 minutes a week over the window.
func scoreFlexibility(records []domain.WorkoutTrackingRecord, _ domain.ConsistencyMetrics) float64 {
	return TotalMinutes(filter(records, IsFlexibility)) / 1800 * 100
}

// 150 minutes a week.
func scoreEndurance(records []domain.WorkoutTrackingRecord, _ domain.ConsistencyMetrics) float64 {
	return TotalMinutes(filter(records, IsEndurance)) / 9000 * 100
}

func scoreWeightLoss(records []domain.WorkoutTrackingRecord, _ domain.ConsistencyMetrics) float64 {
	if len(records) == 0 {
		return 0
	}
	return (TotalMinutes(records)/18000 + AverageIntensity(records)/10) * 50
}

func scoreMaintenance(records []domain.WorkoutTrackingRecord, c domain.ConsistencyMetrics) float64 {
	if len(records) == 0 {
		return 0
	}
	return c.WeeklyAverage/3*50 + float64(DistinctActivityTypes(records))/5*50
}

// 120 minutes a week.
func scoreGeneral(records []domain.WorkoutTrackingRecord, c domain.ConsistencyMetrics) float64 {
	if len(records) == 0 {
		return 0
	}
	return (TotalMinutes(records)/7200 + c.WeeklyAverage/3) * 50
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(100, v)
}
