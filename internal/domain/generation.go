package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerationStatus tracks a plan generation attempt.
type GenerationStatus string

const (
	GenerationPending   GenerationStatus = "pending"
	GenerationCompleted GenerationStatus = "completed"
	GenerationFailed    GenerationStatus = "failed"
)

// GenerationRecord stores metadata about one generatePlan call. The context snapshot sent
// to the generator lives in object storage under SnapshotKey.
type GenerationRecord struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OwnerID      primitive.ObjectID  `bson:"ownerId" json:"ownerId"`
	GenerationID string              `bson:"generationId" json:"generationId"` // Unique per owner
	PlanID       *primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"`
	SnapshotKey  string              `bson:"snapshotKey,omitempty" json:"-"`
	Status       GenerationStatus    `bson:"status" json:"status"`
	Error        string              `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}
