package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
	Library *LibraryHealth    `json:"library,omitempty"`
}

// LibraryHealth is DOWN while the catalog holds no books. It does not
// affect the HTTP status.
type LibraryHealth struct {
	Status    string `json:"status"`
	BookCount int64  `json:"bookCount,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type HealthController struct {
	db      HealthChecker
	stats   StatsProvider
	version string
}

func NewHealthController(db HealthChecker, stats StatsProvider, version string) *HealthController {
	return &HealthController{
		db:      db,
		stats:   stats,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	ctx := c.Request.Context()
	checks := make(map[string]string)
	status := "healthy"

	// Check database connectivity
	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	if status == "healthy" && h.stats != nil {
		if stats, err := h.stats.Stats(ctx); err != nil {
			checks["library"] = "error: " + err.Error()
		} else if stats.TotalBooks > 0 {
			health.Library = &LibraryHealth{Status: StatusUp, BookCount: stats.TotalBooks}
		} else {
			health.Library = &LibraryHealth{Status: StatusDown, Reason: "No books in the library"}
		}
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
