package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OnboardingProfile is the result of the onboarding wizard, one per owner.
type OnboardingProfile struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID primitive.ObjectID `bson:"ownerId" json:"ownerId"`

	// Demographics
	Age    *int     `bson:"age,omitempty" json:"age,omitempty"`
	Height *float64 `bson:"height,omitempty" json:"height,omitempty"`
	Weight *float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	Gender string   `bson:"gender,omitempty" json:"gender,omitempty"`

	// Fitness background
	FitnessLevel      string   `bson:"fitnessLevel,omitempty" json:"fitnessLevel,omitempty"`
	ExerciseFrequency string   `bson:"exerciseFrequency,omitempty" json:"exerciseFrequency,omitempty"`
	SessionLength     string   `bson:"sessionLength,omitempty" json:"sessionLength,omitempty"`
	ExerciseTypes     []string `bson:"exerciseTypes,omitempty" json:"exerciseTypes,omitempty"`

	// Goals
	Goals        []string `bson:"goals,omitempty" json:"goals,omitempty"`
	GoalTimeline string   `bson:"goalTimeline,omitempty" json:"goalTimeline,omitempty"`
	GoalDetails  string   `bson:"goalDetails,omitempty" json:"goalDetails,omitempty"`

	// Health
	Injuries          string `bson:"injuries,omitempty" json:"injuries,omitempty"`
	RecentSurgery     string `bson:"recentSurgery,omitempty" json:"recentSurgery,omitempty"`
	ChronicConditions string `bson:"chronicConditions,omitempty" json:"chronicConditions,omitempty"`
	PregnancyStatus   string `bson:"pregnancyStatus,omitempty" json:"pregnancyStatus,omitempty"`

	// Preferences
	Motivation           string `bson:"motivation,omitempty" json:"motivation,omitempty"`
	ProgressTrackingMode string `bson:"progressTrackingMode,omitempty" json:"progressTrackingMode,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
