package api

import (
	"net/http"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityHandler serves workout status, class booking and tracking records.
type ActivityHandler struct {
	activityService service.ActivityService
	now             func() time.Time
}

func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, now: time.Now}
}

// --- DTOs ---

type WorkoutStatusRequest struct {
	Status domain.WorkoutStatus `json:"status" binding:"required"`
}

type BookingRequest struct {
	IsBooked   *bool      `json:"isBooked" binding:"required"`
	BookedDate *time.Time `json:"bookedDate"`
}

type TrackingRequest struct {
	WorkoutID    string                   `json:"workoutId"`
	ActivityType string                   `json:"activityType" binding:"required"`
	Date         *time.Time               `json:"date"`
	Duration     *domain.TrackedDuration  `json:"duration"`
	Distance     *float64                 `json:"distance"`
	DistanceUnit string                   `json:"distanceUnit"`
	Intensity    *int                     `json:"intensity"`
	Notes        string                   `json:"notes" binding:"max=2000"`
	WouldDoAgain *bool                    `json:"wouldDoAgain"`
	Exercises    []domain.TrackedExercise `json:"exercises"`
}

// --- Handler Methods ---

// SetWorkoutStatus godoc
// @Summary Record whether a planned workout was done
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout's ObjectID Hex"
// @Param status body WorkoutStatusRequest true "New status"
// @Success 200 {object} domain.Workout
// @Failure 400 {object} gin.H "Invalid status"
// @Failure 403 {object} gin.H "Workout belongs to another user"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{workoutId}/status [patch]
func (h *ActivityHandler) SetWorkoutStatus(c *gin.Context) {
	owner, workoutID, ok := workoutParams(c)
	if !ok {
		return
	}
	var req WorkoutStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	w, err := h.activityService.SetWorkoutStatus(c.Request.Context(), owner, workoutID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// SetBooking books or unbooks a class.
func (h *ActivityHandler) SetBooking(c *gin.Context) {
	owner, workoutID, ok := workoutParams(c)
	if !ok {
		return
	}
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	w, err := h.activityService.SetBooking(c.Request.Context(), owner, workoutID, *req.IsBooked, req.BookedDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// LogTracking godoc
// @Summary Log an activity
// @Description Stores a tracking record. Linking a planned workout marks it completed.
// @Tags Tracking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param record body TrackingRequest true "Activity"
// @Success 201 {object} domain.WorkoutTrackingRecord
// @Failure 400 {object} gin.H "Invalid input"
// @Router /tracking [post]
func (h *ActivityHandler) LogTracking(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req TrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	record := &domain.WorkoutTrackingRecord{
		ActivityType: req.ActivityType,
		Duration:     req.Duration,
		Distance:     req.Distance,
		DistanceUnit: req.DistanceUnit,
		Intensity:    req.Intensity,
		Notes:        req.Notes,
		WouldDoAgain: req.WouldDoAgain,
		Exercises:    req.Exercises,
	}
	if req.Date != nil {
		record.Date = req.Date.UTC()
	}
	if req.WorkoutID != "" {
		id, err := service.ParseObjectID("tracking.log", "workout", req.WorkoutID)
		if err != nil {
			respondError(c, err)
			return
		}
		record.WorkoutID = &id
	}

	saved, err := h.activityService.LogTracking(c.Request.Context(), owner, record)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *ActivityHandler) ListTracking(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	window, ok := windowFromQuery(c, h.now())
	if !ok {
		return
	}
	records, err := h.activityService.ListTracking(c.Request.Context(), owner, window)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func workoutParams(c *gin.Context) (primitive.ObjectID, primitive.ObjectID, bool) {
	owner, ok := ownerID(c)
	if !ok {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	workoutID, err := service.ParseObjectID("workout.params", "workout", c.Param("workoutId"))
	if err != nil {
		respondError(c, err)
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return owner, workoutID, true
}
