package domain

import "time"

// PlanWeek is one materialized week of a plan.
type PlanWeek struct {
	WeekNumber int       `json:"weekNumber"`
	Items      []Workout `json:"items"`
}

// ConsistencyMetrics summarizes how regularly an owner trains.
type ConsistencyMetrics struct {
	WeeklyAverage  float64 `json:"weeklyAverage"`
	MonthlyAverage float64 `json:"monthlyAverage"`
	Streak         int     `json:"streak"`
	Count          int     `json:"count"`
}

// UserContext is the snapshot handed to the plan generator and the trainer Q&A feature.
// Every sub-object is always present; absent data is represented by empty collections.
type UserContext struct {
	OwnerID        string          `json:"ownerId"`
	GeneratedAt    time.Time       `json:"generatedAt"`
	Range          TimeRange       `json:"range"`
	Profile        ContextProfile  `json:"profile"`
	RecentActivity RecentActivity  `json:"recentActivity"`
	Progress       ContextProgress `json:"progress"`
	WorkoutPlan    ContextPlan     `json:"workoutPlan"`
}

type ContextProfile struct {
	Age               *int          `json:"age"`
	Height            *float64      `json:"height"`
	Weight            *float64      `json:"weight"`
	Gender            string        `json:"gender"`
	FitnessLevel      string        `json:"fitnessLevel"`
	ExerciseFrequency string        `json:"exerciseFrequency"`
	SessionLength     string        `json:"sessionLength"`
	ExerciseTypes     []string      `json:"exerciseTypes"`
	Goals             []string      `json:"goals"`
	GoalTimeline      string        `json:"goalTimeline"`
	GoalDetails       string        `json:"goalDetails"`
	Health            ContextHealth `json:"health"`
	Motivation        string        `json:"motivation"`
	TrackingMode      string        `json:"progressTrackingMode"`
}

type ContextHealth struct {
	Injuries          string `json:"injuries"`
	RecentSurgery     string `json:"recentSurgery"`
	ChronicConditions string `json:"chronicConditions"`
	PregnancyStatus   string `json:"pregnancyStatus"`
}

// ActivityPair joins a tracking record with the planned workout it refers to, if any.
type ActivityPair struct {
	Workout  *Workout              `json:"workout"`
	Tracking WorkoutTrackingRecord `json:"tracking"`
}

type RecentActivity struct {
	Workouts    []ActivityPair     `json:"workouts"`
	Consistency ConsistencyMetrics `json:"consistency"`
}

type ContextProgress struct {
	GoalProgress map[string]float64 `json:"goalProgress"`
	Improvements []string           `json:"improvements"`
	Challenges   []string           `json:"challenges"`
}

type ContextPlan struct {
	PlanID      string     `json:"planId"`
	Name        string     `json:"name"`
	State       string     `json:"state"`
	CurrentWeek int        `json:"currentWeek"`
	TotalWeeks  int        `json:"totalWeeks"`
	Weeks       []PlanWeek `json:"weeks"`
	Upcoming    []Workout  `json:"upcoming"`
}

// NewUserContext returns a snapshot with every collection initialized.
func NewUserContext(ownerID string, now time.Time, r TimeRange) *UserContext {
	return &UserContext{
		OwnerID:     ownerID,
		GeneratedAt: now,
		Range:       r,
		Profile: ContextProfile{
			ExerciseTypes: []string{},
			Goals:         []string{},
		},
		RecentActivity: RecentActivity{
			Workouts: []ActivityPair{},
		},
		Progress: ContextProgress{
			GoalProgress: map[string]float64{},
			Improvements: []string{},
			Challenges:   []string{},
		},
		WorkoutPlan: ContextPlan{
			Weeks:    []PlanWeek{},
			Upcoming: []Workout{},
		},
	}
}
