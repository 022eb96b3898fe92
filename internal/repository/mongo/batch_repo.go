package mongo

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoPlanBatchRepository writes generated plans inside one multi-document transaction.
// It needs a replica set or sharded deployment.
type mongoPlanBatchRepository struct {
	client    *mongo.Client
	plans     *mongo.Collection
	workouts  *mongo.Collection
	schedules *mongo.Collection
}

// NewMongoPlanBatchRepository creates a new batch writer.
func NewMongoPlanBatchRepository(client *mongo.Client, db *mongo.Database) repository.PlanBatchRepository {
	return &mongoPlanBatchRepository{
		client:    client,
		plans:     db.Collection(planCollectionName),
		workouts:  db.Collection(workoutCollectionName),
		schedules: db.Collection(scheduleCollectionName),
	}
}

// CreatePlanBatch assigns ids, links workouts and schedule rows to the new plan and
// inserts everything atomically. On error nothing is written and the batch ids must be
// discarded.
func (r *mongoPlanBatchRepository) CreatePlanBatch(ctx context.Context, batch *repository.PlanBatch) error {
	entries, err := prepareBatch(batch, time.Now().UTC())
	if err != nil {
		return err
	}

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if s := batch.Supersede; s != nil {
			s.UpdatedAt = batch.Plan.CreatedAt
			res, err := r.plans.UpdateOne(sc, bson.M{"_id": s.ID}, bson.M{"$set": planUpdateFields(s)})
			if err != nil {
				return nil, fmt.Errorf("supersede plan: %w", err)
			}
			if res.MatchedCount == 0 {
				return nil, repository.ErrNotFound
			}
		}
		if _, err := r.plans.InsertOne(sc, batch.Plan); err != nil {
			return nil, fmt.Errorf("insert plan: %w", err)
		}
		if len(batch.Workouts) > 0 {
			docs := make([]interface{}, len(batch.Workouts))
			for i := range batch.Workouts {
				docs[i] = batch.Workouts[i]
			}
			if _, err := r.workouts.InsertMany(sc, docs); err != nil {
				return nil, fmt.Errorf("insert workouts: %w", err)
			}
		}
		if len(entries) > 0 {
			docs := make([]interface{}, len(entries))
			for i := range entries {
				docs[i] = entries[i]
			}
			if _, err := r.schedules.InsertMany(sc, docs); err != nil {
				return nil, fmt.Errorf("insert schedule: %w", err)
			}
		}
		return nil, nil
	})
	return err
}

// prepareBatch stamps ids and timestamps and resolves schedule rows to workout ids.
func prepareBatch(batch *repository.PlanBatch, now time.Time) ([]domain.WeeklyScheduleEntry, error) {
	if batch == nil || batch.Plan == nil {
		return nil, errors.New("batch requires a plan")
	}
	plan := batch.Plan
	if plan.OwnerID == primitive.NilObjectID || plan.Name == "" {
		return nil, errors.New("plan requires ownerId and name")
	}
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	for i := range batch.Workouts {
		w := &batch.Workouts[i]
		w.ID = primitive.NewObjectID()
		w.OwnerID = plan.OwnerID
		w.PlanID = plan.ID
		w.CreatedAt = now
		w.UpdatedAt = now
	}

	entries := make([]domain.WeeklyScheduleEntry, 0, len(batch.Schedule))
	for i, e := range batch.Schedule {
		if e.WorkoutIndex < 0 || e.WorkoutIndex >= len(batch.Workouts) {
			return nil, fmt.Errorf("schedule entry %d references workout %d of %d", i, e.WorkoutIndex, len(batch.Workouts))
		}
		entries = append(entries, domain.WeeklyScheduleEntry{
			ID:         primitive.NewObjectID(),
			PlanID:     plan.ID,
			WeekNumber: e.WeekNumber,
			WorkoutID:  batch.Workouts[e.WorkoutIndex].ID,
			Sequence:   i,
			CreatedAt:  now,
		})
	}
	return entries, nil
}
