package api

import (
	"net/http"
	"time"

	"alcyxob/fitcoach/internal/progress"

	"github.com/gin-gonic/gin"
)

var queryDateLayouts = []string{time.RFC3339, "2006-01-02"}

// windowFromQuery reads the optional from/to query parameters. A missing bound defaults
// to the last 30 days ending now. It aborts the request on a malformed value.
func windowFromQuery(c *gin.Context, now time.Time) (progress.Window, bool) {
	w := progress.DefaultWindow(now)
	for _, p := range []struct {
		name   string
		target *time.Time
	}{{"from", &w.Start}, {"to", &w.End}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		t, ok := parseQueryDate(raw)
		if !ok {
			abortWithError(c, http.StatusBadRequest, "Invalid '"+p.name+"' date, use RFC 3339 or YYYY-MM-DD.")
			return progress.Window{}, false
		}
		*p.target = t
	}
	if w.End.Before(w.Start) {
		abortWithError(c, http.StatusBadRequest, "'to' must not be before 'from'.")
		return progress.Window{}, false
	}
	return w, true
}

func parseQueryDate(s string) (time.Time, bool) {
	for _, layout := range queryDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
