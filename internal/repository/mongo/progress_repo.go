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

const progressCollectionName = "progress_tracking"

type mongoProgressRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressRepository creates a new progress repository backed by MongoDB.
func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{
		collection: db.Collection(progressCollectionName),
	}
}

// Create inserts a progress record. A zero Date defaults to now.
func (r *mongoProgressRepository) Create(ctx context.Context, record *domain.ProgressTrackingRecord) (primitive.ObjectID, error) {
	if record.OwnerID == primitive.NilObjectID || !record.Category.Valid() {
		return primitive.NilObjectID, errors.New("progress record requires ownerId and a valid category")
	}
	record.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	record.CreatedAt = now
	if record.Date.IsZero() {
		record.Date = now
	}
	if record.Achievements == nil {
		record.Achievements = []string{}
	}
	if record.Challenges == nil {
		record.Challenges = []string{}
	}

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted progress ID")
	}
	return insertedID, nil
}

func ownerCategoryFilter(ownerID primitive.ObjectID, category *domain.ProgressCategory) bson.M {
	filter := bson.M{"ownerId": ownerID}
	if category != nil {
		filter["category"] = *category
	}
	return filter
}

// GetByOwner retrieves records within tr, newest first.
func (r *mongoProgressRepository) GetByOwner(ctx context.Context, ownerID primitive.ObjectID, category *domain.ProgressCategory, tr domain.TimeRange) ([]domain.ProgressTrackingRecord, error) {
	records := []domain.ProgressTrackingRecord{}
	filter := ownerCategoryFilter(ownerID, category)
	filter["date"] = bson.M{"$gte": tr.Start, "$lte": tr.End}
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

// GetLatest retrieves the newest record, optionally of one category.
func (r *mongoProgressRepository) GetLatest(ctx context.Context, ownerID primitive.ObjectID, category *domain.ProgressCategory) (*domain.ProgressTrackingRecord, error) {
	var record domain.ProgressTrackingRecord
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})
	err := r.collection.FindOne(ctx, ownerCategoryFilter(ownerID, category), opts).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// EnsureProgressIndexes creates necessary indexes for the progress collection.
func EnsureProgressIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "category", Value: 1}, {Key: "date", Value: -1}},
		Options: options.Index(),
	})
	return err
}
