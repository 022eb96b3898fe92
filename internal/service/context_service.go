package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"alcyxob/fitcoach/internal/cache"
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/metrics"
	"alcyxob/fitcoach/internal/planstate"
	"alcyxob/fitcoach/internal/progress"
	"alcyxob/fitcoach/internal/repository"
	"alcyxob/fitcoach/internal/schedule"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// InteractionKind selects the lookback of a context snapshot.
type InteractionKind string

const (
	InteractionPlanGeneration  InteractionKind = "plan_generation"
	InteractionTrainerQuestion InteractionKind = "trainer_question"
	InteractionProgressReview  InteractionKind = "progress_review"
)

// interactionLookback is the window length in days per interaction.
var interactionLookback = map[InteractionKind]int{
	InteractionPlanGeneration:  30,
	InteractionTrainerQuestion: 14,
	InteractionProgressReview:  90,
}

// Lookback returns the window length of kind in days.
func (k InteractionKind) Lookback() (int, bool) {
	days, ok := interactionLookback[k]
	return days, ok
}

// Default snapshot limits
const (
	DefaultRecentLimit   = 10
	DefaultUpcomingLimit = 10
)

// ContextService assembles the UserContext snapshot.
type ContextService interface {
	// BuildUserContext reads everything fresh. A nil window means the last 30 days.
	BuildUserContext(ctx context.Context, ownerID primitive.ObjectID, window *progress.Window) (*domain.UserContext, error)
	// GetContextForInteraction serves a cached snapshot sized for kind.
	GetContextForInteraction(ctx context.Context, ownerID primitive.ObjectID, kind InteractionKind) (*domain.UserContext, error)
}

type contextService struct {
	onboardingRepo repository.OnboardingRepository
	trackingRepo   repository.TrackingRepository
	planRepo       repository.PlanRepository
	workoutRepo    repository.WorkoutRepository
	materializer   planMaterializer
	cache          cache.ContextCache
	metrics        *metrics.Manager
	recentLimit    int
	upcomingLimit  int
	now            func() time.Time
}

// NewContextService creates a new instance of contextService. Non-positive limits fall
// back to the defaults.
func NewContextService(
	onboardingRepo repository.OnboardingRepository,
	trackingRepo repository.TrackingRepository,
	planRepo repository.PlanRepository,
	workoutRepo repository.WorkoutRepository,
	scheduleRepo repository.ScheduleRepository,
	contextCache cache.ContextCache,
	metricsManager *metrics.Manager,
	recentLimit, upcomingLimit int,
) ContextService {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	if upcomingLimit <= 0 {
		upcomingLimit = DefaultUpcomingLimit
	}
	return &contextService{
		onboardingRepo: onboardingRepo,
		trackingRepo:   trackingRepo,
		planRepo:       planRepo,
		workoutRepo:    workoutRepo,
		materializer:   planMaterializer{scheduleRepo: scheduleRepo, workoutRepo: workoutRepo},
		cache:          contextCache,
		metrics:        metricsManager,
		recentLimit:    recentLimit,
		upcomingLimit:  upcomingLimit,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *contextService) GetContextForInteraction(ctx context.Context, ownerID primitive.ObjectID, kind InteractionKind) (*domain.UserContext, error) {
	days, ok := kind.Lookback()
	if !ok {
		return nil, invalidInput("context.interaction", "unknown interaction kind")
	}

	owner := ownerID.Hex()
	uc, version, hit, err := s.cache.Get(ctx, owner, string(kind))
	if err != nil {
		log.WithError(err).WithField("owner", owner).Warn("context cache read failed")
	}
	s.metrics.RecordCache(hit)
	if hit {
		return uc, nil
	}

	window := progress.LastDays(s.now(), days)
	start := time.Now()
	uc, err = s.build(ctx, ownerID, window)
	if err != nil {
		return nil, err
	}
	s.metrics.HistContextBuildDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	if err := s.cache.Set(ctx, owner, string(kind), version, uc); err != nil {
		log.WithError(err).WithField("owner", owner).Warn("context cache write failed")
	}
	return uc, nil
}

func (s *contextService) BuildUserContext(ctx context.Context, ownerID primitive.ObjectID, window *progress.Window) (*domain.UserContext, error) {
	w := progress.DefaultWindow(s.now())
	if window != nil {
		w = *window
	}
	if w.End.Before(w.Start) {
		return nil, invalidInput("context.build", "range end is before range start")
	}

	start := time.Now()
	uc, err := s.build(ctx, ownerID, w)
	if err != nil {
		return nil, err
	}
	s.metrics.HistContextBuildDuration.WithLabelValues("custom").Observe(time.Since(start).Seconds())
	return uc, nil
}

// build fetches the three sources concurrently. Any failure discards the snapshot.
func (s *contextService) build(ctx context.Context, ownerID primitive.ObjectID, window progress.Window) (*domain.UserContext, error) {
	const op = "context.build"
	now := s.now()

	var (
		profile *domain.OnboardingProfile
		records []domain.WorkoutTrackingRecord
		linked  map[primitive.ObjectID]domain.Workout
		plan    *domain.WorkoutPlan
		weeks   []domain.PlanWeek
	)
	rangeArg := window.Range()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.onboardingRepo.GetByOwner(gctx, ownerID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		profile = p
		return nil
	})

	g.Go(func() error {
		recs, err := s.trackingRepo.GetByOwnerInRange(gctx, ownerID, rangeArg)
		if err != nil {
			return err
		}
		records = recs
		linked, err = s.linkedWorkouts(gctx, recs)
		return err
	})

	g.Go(func() error {
		p, err := s.planRepo.GetActiveByOwner(gctx, ownerID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if weeks, err = s.materializer.weeks(gctx, p); err != nil {
			return err
		}
		plan = p
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, internal(op, err)
	}

	uc := domain.NewUserContext(ownerID.Hex(), now, rangeArg)
	var goals []string
	if profile != nil {
		uc.Profile = contextProfile(profile)
		goals = profile.Goals
	}

	records = window.Filter(records)
	live := progress.Compute(records, goals, window, now)
	uc.RecentActivity = domain.RecentActivity{
		Workouts:    recentPairs(records, linked, s.recentLimit),
		Consistency: live.Consistency,
	}
	uc.Progress = domain.ContextProgress{
		GoalProgress: live.GoalProgress,
		Improvements: live.Improvements,
		Challenges:   live.Challenges,
	}

	if plan != nil {
		week := planstate.CurrentWeek(plan, now)
		uc.WorkoutPlan = domain.ContextPlan{
			PlanID:      plan.ID.Hex(),
			Name:        plan.Name,
			State:       string(planstate.Derive(plan)),
			CurrentWeek: week,
			TotalWeeks:  plan.Weeks,
			Weeks:       weeks,
			Upcoming:    schedule.Upcoming(weeks, max(week, 1), s.upcomingLimit),
		}
	}
	return uc, nil
}

// linkedWorkouts loads the workouts referenced by tracking records.
func (s *contextService) linkedWorkouts(ctx context.Context, records []domain.WorkoutTrackingRecord) (map[primitive.ObjectID]domain.Workout, error) {
	seen := make(map[primitive.ObjectID]struct{})
	ids := make([]primitive.ObjectID, 0)
	for _, r := range records {
		if r.WorkoutID == nil {
			continue
		}
		if _, ok := seen[*r.WorkoutID]; !ok {
			seen[*r.WorkoutID] = struct{}{}
			ids = append(ids, *r.WorkoutID)
		}
	}

	byID := make(map[primitive.ObjectID]domain.Workout, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	workouts, err := s.workoutRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, w := range workouts {
		byID[w.ID] = w
	}
	return byID, nil
}

// recentPairs joins records with their workouts, newest first, at most limit pairs.
func recentPairs(records []domain.WorkoutTrackingRecord, workouts map[primitive.ObjectID]domain.Workout, limit int) []domain.ActivityPair {
	sorted := make([]domain.WorkoutTrackingRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	pairs := make([]domain.ActivityPair, 0, len(sorted))
	for _, r := range sorted {
		pair := domain.ActivityPair{Tracking: r}
		if r.WorkoutID != nil {
			if w, ok := workouts[*r.WorkoutID]; ok {
				pair.Workout = &w
			}
		}
		pairs = append(pairs, pair)
	}
	return pairs
}

func contextProfile(p *domain.OnboardingProfile) domain.ContextProfile {
	cp := domain.ContextProfile{
		Age:               p.Age,
		Height:            p.Height,
		Weight:            p.Weight,
		Gender:            p.Gender,
		FitnessLevel:      p.FitnessLevel,
		ExerciseFrequency: p.ExerciseFrequency,
		SessionLength:     p.SessionLength,
		ExerciseTypes:     p.ExerciseTypes,
		Goals:             p.Goals,
		GoalTimeline:      p.GoalTimeline,
		GoalDetails:       p.GoalDetails,
		Health: domain.ContextHealth{
			Injuries:          p.Injuries,
			RecentSurgery:     p.RecentSurgery,
			ChronicConditions: p.ChronicConditions,
			PregnancyStatus:   p.PregnancyStatus,
		},
		Motivation:   p.Motivation,
		TrackingMode: p.ProgressTrackingMode,
	}
	if cp.ExerciseTypes == nil {
		cp.ExerciseTypes = []string{}
	}
	if cp.Goals == nil {
		cp.Goals = []string{}
	}
	return cp
}
