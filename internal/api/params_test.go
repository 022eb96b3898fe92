package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alcyxob/fitcoach/internal/progress"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestWindowFromQuery(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		query    string
		want     progress.Window
		wantCode int
	}{
		{
			name:     "defaults to the last 30 days",
			want:     progress.DefaultWindow(now),
			wantCode: http.StatusOK,
		},
		{
			name:  "plain dates",
			query: "?from=2026-02-01&to=2026-02-15",
			want: progress.Window{
				Start: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
			},
			wantCode: http.StatusOK,
		},
		{
			name:  "timestamps are normalized to UTC",
			query: "?from=2026-02-20T10:00:00%2B01:00",
			want: progress.Window{
				Start: time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC),
				End:   now,
			},
			wantCode: http.StatusOK,
		},
		{name: "malformed bound", query: "?to=yesterday", wantCode: http.StatusBadRequest},
		{name: "inverted range", query: "?from=2026-03-01&to=2026-02-01", wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			var got progress.Window
			router := gin.New()
			router.GET("/w", func(c *gin.Context) {
				w, ok := windowFromQuery(c, now)
				if !ok {
					return
				}
				got = w
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/w"+tt.query, nil))

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				assert.True(t, tt.want.Start.Equal(got.Start), "start %s", got.Start)
				assert.True(t, tt.want.End.Equal(got.End), "end %s", got.End)
			}
		})
	}
}
