package mongo

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const scheduleCollectionName = "weekly_schedules"

// mongoScheduleRepository implements repository.ScheduleRepository
type mongoScheduleRepository struct {
	collection *mongo.Collection
}

// NewMongoScheduleRepository creates a new schedule repository backed by MongoDB.
func NewMongoScheduleRepository(db *mongo.Database) repository.ScheduleRepository {
	return &mongoScheduleRepository{
		collection: db.Collection(scheduleCollectionName),
	}
}

// GetByPlanID retrieves the schedule rows of a plan in insertion order.
func (r *mongoScheduleRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.WeeklyScheduleEntry, error) {
	entries := []domain.WeeklyScheduleEntry{}
	filter := bson.M{"planId": planID}
	findOptions := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteByPlanID removes all schedule rows of a plan.
func (r *mongoScheduleRepository) DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) (int64, error) {
	if planID == primitive.NilObjectID {
		return 0, errors.New("plan ID is required for deletion")
	}
	result, err := r.collection.DeleteMany(ctx, bson.M{"planId": planID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureScheduleIndexes creates necessary indexes for the schedule collection.
func EnsureScheduleIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Not unique: duplicate (plan, week, workout) rows are tolerated
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "sequence", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
