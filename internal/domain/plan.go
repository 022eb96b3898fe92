// internal/domain/plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutPlan is a multi-week program generated for one owner.
// Lifecycle fields (StartDate, PausedAt, ResumedAt, TotalPausedDuration, IsActive) are only
// mutated through the planstate package.
type WorkoutPlan struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID             primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Name                string             `bson:"name" json:"name"`
	Weeks               int                `bson:"weeks" json:"weeks"`
	GenerationID        string             `bson:"generationId,omitempty" json:"generationId,omitempty"` // Client-supplied id of the generate call that produced it
	IsActive            bool               `bson:"isActive" json:"isActive"`
	Archived            bool               `bson:"archived" json:"archived"`
	ArchivedAt          *time.Time         `bson:"archivedAt,omitempty" json:"archivedAt,omitempty"`
	StartDate           *time.Time         `bson:"startDate" json:"startDate"`
	PausedAt            *time.Time         `bson:"pausedAt" json:"pausedAt"`
	ResumedAt           *time.Time         `bson:"resumedAt" json:"resumedAt"`
	TotalPausedDuration int64              `bson:"totalPausedDuration" json:"totalPausedDuration"` // Seconds
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OwnedBy reports whether the plan belongs to ownerID.
func (p *WorkoutPlan) OwnedBy(ownerID primitive.ObjectID) bool {
	return p.OwnerID == ownerID
}
