package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutTrackingRecord is one logged real-world activity. It may or may not refer to a
// planned Workout.
type WorkoutTrackingRecord struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OwnerID      primitive.ObjectID  `bson:"ownerId" json:"ownerId"`
	WorkoutID    *primitive.ObjectID `bson:"workoutId,omitempty" json:"workoutId,omitempty"`
	ActivityType string              `bson:"activityType" json:"activityType"`
	Date         time.Time           `bson:"date" json:"date"`
	Duration     *TrackedDuration    `bson:"duration,omitempty" json:"duration,omitempty"`
	Distance     *float64            `bson:"distance,omitempty" json:"distance,omitempty"`
	DistanceUnit string              `bson:"distanceUnit,omitempty" json:"distanceUnit,omitempty"`
	Intensity    *int                `bson:"intensity,omitempty" json:"intensity,omitempty"` // 1-10
	Notes        string              `bson:"notes,omitempty" json:"notes,omitempty"`
	WouldDoAgain *bool               `bson:"wouldDoAgain,omitempty" json:"wouldDoAgain,omitempty"`
	Exercises    []TrackedExercise   `bson:"exercises,omitempty" json:"exercises,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
}

// TrackedDuration is hours plus minutes as entered by the user.
type TrackedDuration struct {
	Hours   int `bson:"hours" json:"hours"`
	Minutes int `bson:"minutes" json:"minutes"`
}

// TotalMinutes returns the duration in minutes.
func (d TrackedDuration) TotalMinutes() int {
	return d.Hours*60 + d.Minutes
}

// TrackedExercise is the per-exercise breakdown of a strength session.
type TrackedExercise struct {
	ExerciseID string       `bson:"exerciseId,omitempty" json:"exerciseId,omitempty"`
	Name       string       `bson:"name" json:"name"`
	Sets       []TrackedSet `bson:"sets" json:"sets"`
}

type TrackedSet struct {
	Reps   int     `bson:"reps" json:"reps"`
	Weight float64 `bson:"weight" json:"weight"`
}

// Minutes returns the logged duration in minutes, 0 when absent.
func (r *WorkoutTrackingRecord) Minutes() int {
	if r.Duration == nil {
		return 0
	}
	return r.Duration.TotalMinutes()
}

// TimeRange is an inclusive [Start, End] query range.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls within the range, bounds included.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}
