package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressCategory groups progress records.
type ProgressCategory string

const (
	CategoryCardio  ProgressCategory = "cardio"
	CategoryPilates ProgressCategory = "pilates"
	CategoryOverall ProgressCategory = "overall"
)

// Valid reports whether c is a known category.
func (c ProgressCategory) Valid() bool {
	switch c {
	case CategoryCardio, CategoryPilates, CategoryOverall:
		return true
	}
	return false
}

// ProgressMetrics are the numeric measurements stored with a progress record.
type ProgressMetrics struct {
	Duration       float64 `bson:"duration" json:"duration"`             // Total minutes in the window
	Intensity      float64 `bson:"intensity" json:"intensity"`           // Average 1-10
	Consistency    float64 `bson:"consistency" json:"consistency"`       // Weekly average sessions
	CompletionRate float64 `bson:"completionRate" json:"completionRate"` // 0..1 of planned workouts completed
	WorkoutCount   int     `bson:"workoutCount" json:"workoutCount"`
}

// ProgressTrackingRecord is a persisted progress snapshot for one category.
type ProgressTrackingRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID      primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Date         time.Time          `bson:"date" json:"date"`
	Category     ProgressCategory   `bson:"category" json:"category"`
	Metrics      ProgressMetrics    `bson:"metrics" json:"metrics"`
	Achievements []string           `bson:"achievements" json:"achievements"`
	Challenges   []string           `bson:"challenges" json:"challenges"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
