package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/fitcoach/internal/cache"
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OnboardingService stores the result of the onboarding wizard.
type OnboardingService interface {
	Get(ctx context.Context, ownerID primitive.ObjectID) (*domain.OnboardingProfile, error)
	Upsert(ctx context.Context, ownerID primitive.ObjectID, profile *domain.OnboardingProfile) (*domain.OnboardingProfile, error)
}

type onboardingService struct {
	onboardingRepo repository.OnboardingRepository
	cache          cache.ContextCache
	now            func() time.Time
}

// NewOnboardingService creates a new instance of onboardingService.
func NewOnboardingService(onboardingRepo repository.OnboardingRepository, contextCache cache.ContextCache) OnboardingService {
	return &onboardingService{
		onboardingRepo: onboardingRepo,
		cache:          contextCache,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *onboardingService) Get(ctx context.Context, ownerID primitive.ObjectID) (*domain.OnboardingProfile, error) {
	profile, err := s.onboardingRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, notFoundOr(err, "onboarding.get", "onboarding profile not found")
	}
	return profile, nil
}

func (s *onboardingService) Upsert(ctx context.Context, ownerID primitive.ObjectID, profile *domain.OnboardingProfile) (*domain.OnboardingProfile, error) {
	const op = "onboarding.upsert"
	if a := profile.Age; a != nil && (*a < 13 || *a > 120) {
		return nil, invalidInput(op, "age must be between 13 and 120")
	}
	if h := profile.Height; h != nil && *h <= 0 {
		return nil, invalidInput(op, "height must be positive")
	}
	if w := profile.Weight; w != nil && *w <= 0 {
		return nil, invalidInput(op, "weight must be positive")
	}
	profile.Goals = cleanList(profile.Goals)
	profile.ExerciseTypes = cleanList(profile.ExerciseTypes)

	existing, err := s.onboardingRepo.GetByOwner(ctx, ownerID)
	switch {
	case err == nil:
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
	case errors.Is(err, repository.ErrNotFound):
		profile.ID = primitive.NilObjectID
		profile.CreatedAt = time.Time{}
	default:
		return nil, internal(op, err)
	}

	profile.OwnerID = ownerID
	profile.UpdatedAt = s.now()
	if err := s.onboardingRepo.Upsert(ctx, profile); err != nil {
		return nil, internal(op, err)
	}

	if err := s.cache.Invalidate(ctx, ownerID.Hex()); err != nil {
		log.WithError(err).WithField("owner", ownerID.Hex()).Warn("failed to invalidate context cache")
	}
	return profile, nil
}

// cleanList trims entries and drops blanks and duplicates, keeping order.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
