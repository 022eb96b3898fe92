package mongo

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const generationCollectionName = "plan_generations"

// mongoGenerationRepository implements repository.GenerationRepository
type mongoGenerationRepository struct {
	collection *mongo.Collection
}

// NewMongoGenerationRepository creates a new generation repository backed by MongoDB.
func NewMongoGenerationRepository(db *mongo.Database) repository.GenerationRepository {
	return &mongoGenerationRepository{
		collection: db.Collection(generationCollectionName),
	}
}

// Create inserts a generation record. A second record for the same (owner, generationId)
// fails with ErrDuplicate.
func (r *mongoGenerationRepository) Create(ctx context.Context, record *domain.GenerationRecord) (primitive.ObjectID, error) {
	if record.OwnerID == primitive.NilObjectID || record.GenerationID == "" {
		return primitive.NilObjectID, errors.New("generation record requires ownerId and generationId")
	}

	record.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	if record.Status == "" {
		record.Status = domain.GenerationPending
	}

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByGenerationID retrieves the record of a generate call.
func (r *mongoGenerationRepository) GetByGenerationID(ctx context.Context, ownerID primitive.ObjectID, generationID string) (*domain.GenerationRecord, error) {
	var record domain.GenerationRecord
	filter := bson.M{"ownerId": ownerID, "generationId": generationID}

	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Update stores the outcome of a generation.
func (r *mongoGenerationRepository) Update(ctx context.Context, record *domain.GenerationRecord) error {
	if record.ID == primitive.NilObjectID {
		return errors.New("generation record ID is required for update")
	}
	record.UpdatedAt = time.Now().UTC()
	updateDoc := bson.M{
		"$set": bson.M{
			"planId":      record.PlanID,
			"snapshotKey": record.SnapshotKey,
			"status":      record.Status,
			"error":       record.Error,
			"updatedAt":   record.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": record.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureGenerationIndexes creates necessary indexes for the generations collection.
func EnsureGenerationIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "generationId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
