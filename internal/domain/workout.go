package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutKind distinguishes bookable classes from self-guided workouts.
type WorkoutKind string

const (
	KindClass   WorkoutKind = "class"
	KindWorkout WorkoutKind = "workout"
)

// WorkoutStatus records whether a planned workout was done.
type WorkoutStatus string

const (
	StatusCompleted    WorkoutStatus = "completed"
	StatusNotCompleted WorkoutStatus = "not_completed"
	StatusNotRecorded  WorkoutStatus = "not_recorded"
)

// Valid reports whether s is one of the known statuses.
func (s WorkoutStatus) Valid() bool {
	switch s {
	case StatusCompleted, StatusNotCompleted, StatusNotRecorded:
		return true
	}
	return false
}

// Activity type tags
const (
	ActivityRun        = "run"
	ActivityCycle      = "cycle"
	ActivitySwim       = "swim"
	ActivityWalk       = "walk"
	ActivityHike       = "hike"
	ActivityRowing     = "rowing"
	ActivityElliptical = "elliptical"
	ActivityWorkout    = "workout"
)

// Workout is a single class or workout session referenced by a plan's weekly schedule.
type Workout struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID      primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	PlanID       primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"` // Plan that generated it, used for cascade delete
	Name         string             `bson:"name" json:"name"`
	Instructor   string             `bson:"instructor,omitempty" json:"instructor,omitempty"`
	Duration     int                `bson:"duration" json:"duration"` // Minutes
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Difficulty   string             `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Kind         WorkoutKind        `bson:"kind" json:"kind"`
	Status       *WorkoutStatus     `bson:"status,omitempty" json:"status"`
	IsBooked     bool               `bson:"isBooked" json:"isBooked"`
	BookedDate   *time.Time         `bson:"bookedDate,omitempty" json:"bookedDate,omitempty"`
	ClassID      *int               `bson:"classId,omitempty" json:"classId,omitempty"`
	ActivityType string             `bson:"activityType,omitempty" json:"activityType,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsCompleted reports whether the workout has been marked completed.
func (w *Workout) IsCompleted() bool {
	return w.Status != nil && *w.Status == StatusCompleted
}
