package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"alcyxob/fitcoach/internal/apperr"
	"alcyxob/fitcoach/internal/cache"
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/generator"
	"alcyxob/fitcoach/internal/metrics"
	"alcyxob/fitcoach/internal/planstate"
	"alcyxob/fitcoach/internal/repository"
	"alcyxob/fitcoach/internal/storage"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const opGeneratePlan = "plan.generate"

// MaxGenerationInputLength bounds the free-text input forwarded to the generator.
const MaxGenerationInputLength = 4000

// GenerateRequest asks for a new plan. GenerationID makes the call idempotent per owner;
// an empty id gets a fresh one.
type GenerateRequest struct {
	GenerationID string
	Input        string
}

// GenerationResult is the plan produced by a generation. Replayed is set when the plan
// comes from an earlier completed call with the same GenerationID.
type GenerationResult struct {
	Generation *domain.GenerationRecord `json:"generation"`
	Plan       *MaterializedPlan        `json:"plan"`
	Replayed   bool                     `json:"replayed"`
}

// GenerationView is a stored generation with a temporary link to its context snapshot.
type GenerationView struct {
	Generation  *domain.GenerationRecord `json:"generation"`
	SnapshotURL string                   `json:"snapshotUrl,omitempty"`
}

type GenerationService interface {
	GeneratePlan(ctx context.Context, ownerID primitive.ObjectID, req GenerateRequest) (*GenerationResult, error)
	GetGeneration(ctx context.Context, ownerID primitive.ObjectID, generationID string) (*GenerationView, error)
}

type generationService struct {
	generationRepo repository.GenerationRepository
	planRepo       repository.PlanRepository
	batchRepo      repository.PlanBatchRepository
	contexts       ContextService
	client         generator.Client
	snapshots      storage.ObjectStorage
	cache          cache.ContextCache
	metrics        *metrics.Manager
	materializer   planMaterializer
	now            func() time.Time
}

// NewGenerationService creates a new instance of generationService.
func NewGenerationService(
	generationRepo repository.GenerationRepository,
	planRepo repository.PlanRepository,
	workoutRepo repository.WorkoutRepository,
	scheduleRepo repository.ScheduleRepository,
	batchRepo repository.PlanBatchRepository,
	contexts ContextService,
	client generator.Client,
	snapshots storage.ObjectStorage,
	contextCache cache.ContextCache,
	metricsManager *metrics.Manager,
) GenerationService {
	return &generationService{
		generationRepo: generationRepo,
		planRepo:       planRepo,
		batchRepo:      batchRepo,
		contexts:       contexts,
		client:         client,
		snapshots:      snapshots,
		cache:          contextCache,
		metrics:        metricsManager,
		materializer:   planMaterializer{scheduleRepo: scheduleRepo, workoutRepo: workoutRepo},
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// GeneratePlan builds the owner's context, asks the generator for a plan and persists it
// as the owner's new active plan, cancelling the previous one in the same transaction.
func (s *generationService) GeneratePlan(ctx context.Context, ownerID primitive.ObjectID, req GenerateRequest) (result *GenerationResult, err error) {
	started := time.Now()
	defer func() {
		if result != nil && result.Replayed {
			return
		}
		s.metrics.RecordGeneration(err)
		s.metrics.HistGenerationDuration.Observe(time.Since(started).Seconds())
	}()

	req.GenerationID = strings.TrimSpace(req.GenerationID)
	if req.GenerationID == "" {
		req.GenerationID = uuid.NewString()
	}
	if len(req.Input) > MaxGenerationInputLength {
		return nil, invalidInput(opGeneratePlan, "input is too long")
	}

	record, replay, err := s.claim(ctx, ownerID, req.GenerationID)
	if err != nil || replay != nil {
		return replay, err
	}

	logger := log.WithFields(log.Fields{"owner": ownerID.Hex(), "generation": req.GenerationID})
	result, err = s.generate(ctx, ownerID, req, record, logger)
	if err != nil {
		s.fail(ctx, record, err, logger)
		return nil, err
	}
	logger.WithField("plan", result.Plan.Plan.ID.Hex()).Info("plan generated")
	return result, nil
}

// claim registers the generation as pending. It returns the stored result when the same
// generation already completed.
func (s *generationService) claim(ctx context.Context, ownerID primitive.ObjectID, generationID string) (*domain.GenerationRecord, *GenerationResult, error) {
	existing, err := s.generationRepo.GetByGenerationID(ctx, ownerID, generationID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		record := &domain.GenerationRecord{
			OwnerID:      ownerID,
			GenerationID: generationID,
			Status:       domain.GenerationPending,
		}
		id, err := s.generationRepo.Create(ctx, record)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, invalidState(opGeneratePlan, "generation is already in progress")
		}
		if err != nil {
			return nil, nil, internal(opGeneratePlan, err)
		}
		record.ID = id
		return record, nil, nil
	case err != nil:
		return nil, nil, internal(opGeneratePlan, err)
	}

	switch existing.Status {
	case domain.GenerationCompleted:
		replay, err := s.replay(ctx, existing)
		return nil, replay, err
	case domain.GenerationPending:
		return nil, nil, invalidState(opGeneratePlan, "generation is already in progress")
	}

	// A failed generation may be retried with the same id
	existing.Status = domain.GenerationPending
	existing.Error = ""
	if err := s.generationRepo.Update(ctx, existing); err != nil {
		return nil, nil, internal(opGeneratePlan, err)
	}
	return existing, nil, nil
}

func (s *generationService) replay(ctx context.Context, record *domain.GenerationRecord) (*GenerationResult, error) {
	if record.PlanID == nil {
		return nil, apperr.New(apperr.KindInternal, opGeneratePlan, "completed generation has no plan")
	}
	plan, err := s.planRepo.GetByID(ctx, *record.PlanID)
	if err != nil {
		return nil, notFoundOr(err, opGeneratePlan, "generated plan no longer exists")
	}
	mp, err := s.materializer.materialize(ctx, plan, s.now())
	if err != nil {
		return nil, internal(opGeneratePlan, err)
	}
	return &GenerationResult{Generation: record, Plan: mp, Replayed: true}, nil
}

func (s *generationService) generate(ctx context.Context, ownerID primitive.ObjectID, req GenerateRequest, record *domain.GenerationRecord, logger *log.Entry) (*GenerationResult, error) {
	uc, err := s.contexts.GetContextForInteraction(ctx, ownerID, InteractionPlanGeneration)
	if err != nil {
		return nil, err
	}
	record.SnapshotKey = s.archive(ctx, ownerID, req.GenerationID, uc, logger)

	cand, err := s.client.Generate(ctx, uc, req.Input)
	if err != nil {
		return nil, err
	}
	batch, err := cand.ToBatch(ownerID, req.GenerationID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	active, err := s.planRepo.GetActiveByOwner(ctx, ownerID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return nil, internal(opGeneratePlan, err)
	default:
		if err := planstate.Cancel(active, now); err != nil {
			return nil, err
		}
		batch.Supersede = active
	}

	if err := s.batchRepo.CreatePlanBatch(ctx, batch); err != nil {
		return nil, internal(opGeneratePlan, err)
	}

	planID := batch.Plan.ID
	record.PlanID = &planID
	record.Status = domain.GenerationCompleted
	if err := s.generationRepo.Update(ctx, record); err != nil {
		// The plan exists; only idempotent replay of this id is lost
		logger.WithError(err).Error("failed to record completed generation")
	}

	if err := s.cache.Invalidate(ctx, ownerID.Hex()); err != nil {
		logger.WithError(err).Warn("failed to invalidate context cache")
	}

	mp, err := s.materializer.materialize(ctx, batch.Plan, now)
	if err != nil {
		return nil, internal(opGeneratePlan, err)
	}
	return &GenerationResult{Generation: record, Plan: mp}, nil
}

// archive stores the context snapshot and returns its key, or "" when it was not stored.
func (s *generationService) archive(ctx context.Context, ownerID primitive.ObjectID, generationID string, uc *domain.UserContext, logger *log.Entry) string {
	body, err := json.Marshal(uc)
	if err != nil {
		logger.WithError(err).Warn("failed to encode context snapshot")
		return ""
	}
	key := storage.SnapshotKey(ownerID.Hex(), generationID, s.now())
	if err := s.snapshots.PutObject(ctx, key, "application/json", body); err != nil {
		if !errors.Is(err, storage.ErrDisabled) {
			logger.WithError(err).Warn("failed to archive context snapshot")
		}
		return ""
	}
	return key
}

func (s *generationService) fail(ctx context.Context, record *domain.GenerationRecord, cause error, logger *log.Entry) {
	record.Status = domain.GenerationFailed
	record.Error = apperr.MessageOf(cause)
	if err := s.generationRepo.Update(ctx, record); err != nil {
		logger.WithError(err).Error("failed to record failed generation")
	}
	logger.WithError(cause).Warn("plan generation failed")
}

func (s *generationService) GetGeneration(ctx context.Context, ownerID primitive.ObjectID, generationID string) (*GenerationView, error) {
	const op = "plan.get_generation"
	record, err := s.generationRepo.GetByGenerationID(ctx, ownerID, generationID)
	if err != nil {
		return nil, notFoundOr(err, op, "generation not found")
	}

	view := &GenerationView{Generation: record}
	if record.SnapshotKey != "" {
		url, err := s.snapshots.GeneratePresignedDownloadURL(ctx, record.SnapshotKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			log.WithError(err).WithField("key", record.SnapshotKey).Warn("failed to presign snapshot URL")
		} else {
			view.SnapshotURL = url
		}
	}
	return view, nil
}
