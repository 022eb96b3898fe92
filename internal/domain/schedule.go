package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeeklyScheduleEntry places one workout in a 1-based week of a plan.
// Duplicates of (plan, week, workout) are tolerated.
type WeeklyScheduleEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID     primitive.ObjectID `bson:"planId" json:"planId"`
	WeekNumber int                `bson:"weekNumber" json:"weekNumber"`
	WorkoutID  primitive.ObjectID `bson:"workoutId" json:"workoutId"`
	Sequence   int                `bson:"sequence" json:"-"` // Insertion order within the plan
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
