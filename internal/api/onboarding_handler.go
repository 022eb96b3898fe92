package api

import (
	"net/http"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"

	"github.com/gin-gonic/gin"
)

type OnboardingHandler struct {
	onboardingService service.OnboardingService
}

func NewOnboardingHandler(onboardingService service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboardingService: onboardingService}
}

type OnboardingRequest struct {
	Age                  *int     `json:"age"`
	Height               *float64 `json:"height"`
	Weight               *float64 `json:"weight"`
	Gender               string   `json:"gender"`
	FitnessLevel         string   `json:"fitnessLevel"`
	ExerciseFrequency    string   `json:"exerciseFrequency"`
	SessionLength        string   `json:"sessionLength"`
	ExerciseTypes        []string `json:"exerciseTypes"`
	Goals                []string `json:"goals"`
	GoalTimeline         string   `json:"goalTimeline"`
	GoalDetails          string   `json:"goalDetails" binding:"max=2000"`
	Injuries             string   `json:"injuries" binding:"max=2000"`
	RecentSurgery        string   `json:"recentSurgery"`
	ChronicConditions    string   `json:"chronicConditions"`
	PregnancyStatus      string   `json:"pregnancyStatus"`
	Motivation           string   `json:"motivation"`
	ProgressTrackingMode string   `json:"progressTrackingMode"`
}

func (r OnboardingRequest) toProfile() *domain.OnboardingProfile {
	return &domain.OnboardingProfile{
		Age:                  r.Age,
		Height:               r.Height,
		Weight:               r.Weight,
		Gender:               r.Gender,
		FitnessLevel:         r.FitnessLevel,
		ExerciseFrequency:    r.ExerciseFrequency,
		SessionLength:        r.SessionLength,
		ExerciseTypes:        r.ExerciseTypes,
		Goals:                r.Goals,
		GoalTimeline:         r.GoalTimeline,
		GoalDetails:          r.GoalDetails,
		Injuries:             r.Injuries,
		RecentSurgery:        r.RecentSurgery,
		ChronicConditions:    r.ChronicConditions,
		PregnancyStatus:      r.PregnancyStatus,
		Motivation:           r.Motivation,
		ProgressTrackingMode: r.ProgressTrackingMode,
	}
}

func (h *OnboardingHandler) Get(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	profile, err := h.onboardingService.Get(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Upsert godoc
// @Summary Save my onboarding answers
// @Description Creates or replaces the onboarding profile of the authenticated user.
// @Tags Onboarding
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body OnboardingRequest true "Onboarding answers"
// @Success 200 {object} domain.OnboardingProfile
// @Failure 400 {object} gin.H "Invalid input"
// @Router /onboarding [put]
func (h *OnboardingHandler) Upsert(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	profile, err := h.onboardingService.Upsert(c.Request.Context(), owner, req.toProfile())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
