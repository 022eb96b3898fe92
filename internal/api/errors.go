package api

import (
	"net/http"

	"alcyxob/fitcoach/internal/apperr"
	"alcyxob/fitcoach/internal/generator"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// statusFor maps an error kind to the HTTP status returned to the caller.
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindInvalidState:
		return http.StatusConflict
	case apperr.KindInvalidInput:
		if generator.IsInvalidCandidate(err) {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadRequest
	case apperr.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError aborts the request with the status and message of err. Internal failures
// are logged and answered with a generic message.
func respondError(c *gin.Context, err error) {
	code := statusFor(err)
	_ = c.Error(err)
	if code == http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		abortWithError(c, code, "An unexpected error occurred.")
		return
	}
	body := gin.H{"error": apperr.MessageOf(err), "kind": apperr.KindOf(err).String()}
	c.AbortWithStatusJSON(code, body)
}
