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

const onboardingCollectionName = "onboarding"

type mongoOnboardingRepository struct {
	collection *mongo.Collection
}

// NewMongoOnboardingRepository creates a new onboarding repository backed by MongoDB.
func NewMongoOnboardingRepository(db *mongo.Database) repository.OnboardingRepository {
	return &mongoOnboardingRepository{
		collection: db.Collection(onboardingCollectionName),
	}
}

// GetByOwner retrieves the owner's profile.
func (r *mongoOnboardingRepository) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) (*domain.OnboardingProfile, error) {
	var profile domain.OnboardingProfile
	err := r.collection.FindOne(ctx, bson.M{"ownerId": ownerID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Upsert replaces the owner's profile, creating it on first save. Callers that update an
// existing profile should carry over its ID and CreatedAt.
func (r *mongoOnboardingRepository) Upsert(ctx context.Context, profile *domain.OnboardingProfile) error {
	if profile.OwnerID == primitive.NilObjectID {
		return errors.New("onboarding profile requires ownerId")
	}
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	result, err := r.collection.ReplaceOne(ctx, bson.M{"ownerId": profile.OwnerID}, profile, opts)
	if err != nil {
		return err
	}
	if id, ok := result.UpsertedID.(primitive.ObjectID); ok {
		profile.ID = id
	}
	return nil
}

// EnsureOnboardingIndexes creates necessary indexes for the onboarding collection.
func EnsureOnboardingIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "ownerId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
