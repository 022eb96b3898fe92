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

const trackingCollectionName = "workout_tracking"

type mongoTrackingRepository struct {
	collection *mongo.Collection
}

// NewMongoTrackingRepository creates a new tracking repository backed by MongoDB.
func NewMongoTrackingRepository(db *mongo.Database) repository.TrackingRepository {
	return &mongoTrackingRepository{
		collection: db.Collection(trackingCollectionName),
	}
}

// Create inserts a tracking record. A zero Date defaults to now.
func (r *mongoTrackingRepository) Create(ctx context.Context, record *domain.WorkoutTrackingRecord) (primitive.ObjectID, error) {
	if record.OwnerID == primitive.NilObjectID || record.ActivityType == "" {
		return primitive.NilObjectID, errors.New("tracking record requires ownerId and activityType")
	}
	record.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	record.CreatedAt = now
	if record.Date.IsZero() {
		record.Date = now
	}

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted tracking ID")
	}
	return insertedID, nil
}

// GetByOwnerInRange retrieves records dated within tr (inclusive), newest first.
func (r *mongoTrackingRepository) GetByOwnerInRange(ctx context.Context, ownerID primitive.ObjectID, tr domain.TimeRange) ([]domain.WorkoutTrackingRecord, error) {
	records := []domain.WorkoutTrackingRecord{}
	filter := bson.M{
		"ownerId": ownerID,
		"date":    bson.M{"$gte": tr.Start, "$lte": tr.End},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureTrackingIndexes creates necessary indexes for the tracking collection.
func EnsureTrackingIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "date", Value: -1}},
		Options: options.Index(),
	})
	return err
}
