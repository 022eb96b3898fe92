package api

import (
	"net/http"
	"time"

	"alcyxob/fitcoach/internal/service"

	"github.com/gin-gonic/gin"
)

// ContextHandler exposes the user context snapshot handed to AI features.
type ContextHandler struct {
	contextService service.ContextService
	now            func() time.Time
}

func NewContextHandler(contextService service.ContextService) *ContextHandler {
	return &ContextHandler{contextService: contextService, now: time.Now}
}

// BuildUserContext godoc
// @Summary Build my context snapshot
// @Description Reads profile, recent activity, progress and the active plan fresh.
// @Tags Context
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start of range, default 30 days ago"
// @Param to query string false "End of range, default now"
// @Success 200 {object} domain.UserContext
// @Router /context [get]
func (h *ContextHandler) BuildUserContext(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	window, ok := windowFromQuery(c, h.now())
	if !ok {
		return
	}
	uc, err := h.contextService.BuildUserContext(c.Request.Context(), owner, &window)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, uc)
}

// GetContextForInteraction serves the cached snapshot sized for :kind.
func (h *ContextHandler) GetContextForInteraction(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	uc, err := h.contextService.GetContextForInteraction(c.Request.Context(), owner, service.InteractionKind(c.Param("kind")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, uc)
}
