package api

import (
	"net/http"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService service.ProgressService
	now             func() time.Time
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService, now: time.Now}
}

type RecordProgressRequest struct {
	Date         *time.Time              `json:"date"`
	Category     domain.ProgressCategory `json:"category" binding:"required"`
	Metrics      domain.ProgressMetrics  `json:"metrics"`
	Achievements []string                `json:"achievements"`
	Challenges   []string                `json:"challenges"`
	Notes        string                  `json:"notes" binding:"max=2000"`
}

type SnapshotRequest struct {
	Category domain.ProgressCategory `json:"category" binding:"required"`
}

// categoryQuery returns the ?category= filter, nil when absent.
func categoryQuery(c *gin.Context) *domain.ProgressCategory {
	raw := c.Query("category")
	if raw == "" {
		return nil
	}
	category := domain.ProgressCategory(raw)
	return &category
}

// GetProgressData godoc
// @Summary List stored progress records
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param category query string false "cardio, pilates or overall"
// @Param from query string false "Start of range"
// @Param to query string false "End of range"
// @Success 200 {array} domain.ProgressTrackingRecord
// @Router /progress [get]
func (h *ProgressHandler) GetProgressData(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	window, ok := windowFromQuery(c, h.now())
	if !ok {
		return
	}
	records, err := h.progressService.GetProgressData(c.Request.Context(), owner, categoryQuery(c), window)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *ProgressHandler) GetLatestProgress(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	record, err := h.progressService.GetLatestProgress(c.Request.Context(), owner, categoryQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *ProgressHandler) RecordProgress(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req RecordProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	record := &domain.ProgressTrackingRecord{
		Category:     req.Category,
		Metrics:      req.Metrics,
		Achievements: req.Achievements,
		Challenges:   req.Challenges,
		Notes:        req.Notes,
	}
	if req.Date != nil {
		record.Date = req.Date.UTC()
	}
	saved, err := h.progressService.RecordProgress(c.Request.Context(), owner, record)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// SnapshotProgress computes the last 30 days for a category and stores the result.
func (h *ProgressHandler) SnapshotProgress(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req SnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	record, err := h.progressService.SnapshotProgress(c.Request.Context(), owner, req.Category)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *ProgressHandler) GetLiveProgress(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	window, ok := windowFromQuery(c, h.now())
	if !ok {
		return
	}
	live, err := h.progressService.GetLiveProgress(c.Request.Context(), owner, window)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, live)
}
