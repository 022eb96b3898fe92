// internal/repository/mongo/plan_repo.go
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

const planCollectionName = "workout_plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new WorkoutPlan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new workout plan.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	if plan.OwnerID == primitive.NilObjectID || plan.Name == "" {
		return primitive.NilObjectID, errors.New("plan requires ownerId and name")
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single plan by its ID.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetActiveByOwner retrieves the owner's running plan. If more than one is flagged active
// the newest wins.
func (r *mongoPlanRepository) GetActiveByOwner(ctx context.Context, ownerID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	filter := bson.M{"ownerId": ownerID, "isActive": true, "archived": bson.M{"$ne": true}}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findOne(ctx, filter, opts)
}

// GetByGenerationID looks up the plan produced by a generate call.
func (r *mongoPlanRepository) GetByGenerationID(ctx context.Context, ownerID primitive.ObjectID, generationID string) (*domain.WorkoutPlan, error) {
	return r.findOne(ctx, bson.M{"ownerId": ownerID, "generationId": generationID})
}

func (r *mongoPlanRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	err := r.collection.FindOne(ctx, filter, opts...).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetPreviousByOwner retrieves cancelled and archived plans, newest first.
func (r *mongoPlanRepository) GetPreviousByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	plans := []domain.WorkoutPlan{}
	filter := bson.M{
		"ownerId": ownerID,
		"$or": bson.A{
			bson.M{"isActive": false},
			bson.M{"archived": true},
		},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

// Update persists the name and lifecycle fields. OwnerID, weeks and CreatedAt are immutable.
func (r *mongoPlanRepository) Update(ctx context.Context, plan *domain.WorkoutPlan) error {
	if plan.ID == primitive.NilObjectID {
		return errors.New("plan ID is required for update")
	}

	plan.UpdatedAt = time.Now().UTC()
	filter := bson.M{"_id": plan.ID}
	updateDoc := bson.M{"$set": planUpdateFields(plan)}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func planUpdateFields(plan *domain.WorkoutPlan) bson.M {
	return bson.M{
		"name":                plan.Name,
		"isActive":            plan.IsActive,
		"archived":            plan.Archived,
		"archivedAt":          plan.ArchivedAt,
		"startDate":           plan.StartDate,
		"pausedAt":            plan.PausedAt,
		"resumedAt":           plan.ResumedAt,
		"totalPausedDuration": plan.TotalPausedDuration,
		"updatedAt":           plan.UpdatedAt,
	}
}

// Delete removes the plan document only. Workouts and schedule rows are removed by their
// own repositories.
func (r *mongoPlanRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if id == primitive.NilObjectID {
		return errors.New("plan ID is required for deletion")
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Finding the owner's active plan
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			// Idempotent generation
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "generationId", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"generationId": bson.M{"$type": "string"}}),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
