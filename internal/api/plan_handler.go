package api

import (
	"context"
	"net/http"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/planstate"
	"alcyxob/fitcoach/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlanHandler struct {
	planService       service.PlanService
	generationService service.GenerationService
}

func NewPlanHandler(planService service.PlanService, generationService service.GenerationService) *PlanHandler {
	return &PlanHandler{planService: planService, generationService: generationService}
}

// --- Request/Response Structs ---

type GeneratePlanRequest struct {
	GenerationID string `json:"generationId" binding:"omitempty,max=128"`
	Input        string `json:"input"`
}

type RenamePlanRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateDatesRequest replaces all three lifecycle timestamps; omitted fields are cleared.
type UpdateDatesRequest struct {
	StartDate *time.Time `json:"startDate"`
	PausedAt  *time.Time `json:"pausedAt"`
	ResumedAt *time.Time `json:"resumedAt"`
}

// transitionFunc is any lifecycle operation addressed by owner and plan.
type transitionFunc func(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error)

// --- Handler Methods ---

// GetActivePlan godoc
// @Summary Get my active plan
// @Description Returns the non-archived plan with its weeks materialized.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.MaterializedPlan
// @Failure 404 {object} gin.H "No active plan"
// @Router /plans/active [get]
func (h *PlanHandler) GetActivePlan(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	plan, err := h.planService.GetActivePlan(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetPreviousPlans godoc
// @Summary List my archived plans
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.MaterializedPlan
// @Router /plans/previous [get]
func (h *PlanHandler) GetPreviousPlans(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	plans, err := h.planService.GetPreviousPlans(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}
	if plans == nil {
		plans = []service.MaterializedPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

// GeneratePlan godoc
// @Summary Generate a new plan
// @Description Builds my context, asks the plan generator for a plan and makes it my active
// @Description plan. Repeating a completed generationId returns the same plan.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GeneratePlanRequest true "Generation request"
// @Success 201 {object} service.GenerationResult "Plan generated"
// @Success 200 {object} service.GenerationResult "Replay of an earlier generation"
// @Failure 409 {object} gin.H "Generation already in progress"
// @Failure 422 {object} gin.H "Generator returned an invalid plan"
// @Failure 429 {object} gin.H "Rate limit exceeded"
// @Failure 502 {object} gin.H "Generator unavailable"
// @Router /plans/generate [post]
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.generationService.GeneratePlan(c.Request.Context(), owner, service.GenerateRequest{
		GenerationID: req.GenerationID,
		Input:        req.Input,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

func (h *PlanHandler) GetGeneration(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	view, err := h.generationService.GetGeneration(c.Request.Context(), owner, c.Param("generationId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Transition returns a handler that runs fn against the :planId path parameter and
// responds with the updated plan.
func (h *PlanHandler) Transition(fn transitionFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, planID, ok := planParams(c)
		if !ok {
			return
		}
		plan, err := fn(c.Request.Context(), owner, planID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, plan)
	}
}

func (h *PlanHandler) Rename(c *gin.Context) {
	owner, planID, ok := planParams(c)
	if !ok {
		return
	}
	var req RenamePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	plan, err := h.planService.Rename(c.Request.Context(), owner, planID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) UpdateDates(c *gin.Context) {
	owner, planID, ok := planParams(c)
	if !ok {
		return
	}
	var req UpdateDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	plan, err := h.planService.UpdateDates(c.Request.Context(), owner, planID, planstate.Dates{
		StartDate: req.StartDate,
		PausedAt:  req.PausedAt,
		ResumedAt: req.ResumedAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeletePlan godoc
// @Summary Delete a plan
// @Description Removes the plan, its workouts and its weekly schedule.
// @Tags Plans
// @Security BearerAuth
// @Param planId path string true "Plan's ObjectID Hex"
// @Success 204
// @Failure 403 {object} gin.H "Plan belongs to another user"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{planId} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	owner, planID, ok := planParams(c)
	if !ok {
		return
	}
	if err := h.planService.DeletePlan(c.Request.Context(), owner, planID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// planParams resolves the caller and the :planId path parameter.
func planParams(c *gin.Context) (primitive.ObjectID, primitive.ObjectID, bool) {
	owner, ok := ownerID(c)
	if !ok {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	planID, err := service.ParseObjectID("plan.params", "plan", c.Param("planId"))
	if err != nil {
		respondError(c, err)
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return owner, planID, true
}
