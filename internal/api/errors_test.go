package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"alcyxob/fitcoach/internal/apperr"
	"alcyxob/fitcoach/internal/generator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	invalidCandidate := (&generator.Candidate{}).Validate()
	require.Error(t, invalidCandidate)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", apperr.New(apperr.KindNotFound, "plan.get", "plan not found"), http.StatusNotFound},
		{"forbidden", apperr.New(apperr.KindForbidden, "plan.get", "plan belongs to another user"), http.StatusForbidden},
		{"invalid state", apperr.New(apperr.KindInvalidState, "plan.pause", "plan is not active"), http.StatusConflict},
		{"invalid input", apperr.New(apperr.KindInvalidInput, "tracking.log", "activity type is required"), http.StatusBadRequest},
		{"invalid candidate", invalidCandidate, http.StatusUnprocessableEntity},
		{"wrapped candidate", fmt.Errorf("generate: %w", invalidCandidate), http.StatusUnprocessableEntity},
		{"upstream", apperr.New(apperr.KindUpstream, "generator.generate", "plan generator unavailable"), http.StatusBadGateway},
		{"internal", apperr.Wrap(apperr.KindInternal, "plan.get", errors.New("socket closed")), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	serve := func(err error) *httptest.ResponseRecorder {
		router := gin.New()
		router.GET("/x", func(c *gin.Context) { respondError(c, err) })
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		return w
	}

	t.Run("client error carries message and kind", func(t *testing.T) {
		w := serve(apperr.New(apperr.KindInvalidState, "plan.resume", "plan is not paused"))

		assert.Equal(t, http.StatusConflict, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "plan is not paused", body["error"])
		assert.Equal(t, "invalid_state", body["kind"])
	})

	t.Run("internal error is hidden", func(t *testing.T) {
		w := serve(apperr.Wrap(apperr.KindInternal, "plan.get", errors.New("mongo: connection refused")))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "An unexpected error occurred.", body["error"])
		assert.NotContains(t, w.Body.String(), "mongo")
	})
}
