package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// healthCheck probes one dependency. A nil probe is reported as not configured.
type healthCheck struct {
	name  string
	probe func(ctx context.Context) error
}

type HealthController struct {
	checks  []healthCheck
	version string
}

func NewHealthController(db Pinger, version string) *HealthController {
	database := healthCheck{name: "database"}
	if db != nil {
		database.probe = db.Ping
	}
	return &HealthController{
		checks:  []healthCheck{database},
		version: version,
	}
}

// Status runs every check and answers 503 if any of them fails.
// GET /health
func (h *HealthController) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().UTC().Format(time.RFC3339),
		Version: h.version,
		Checks:  make(map[string]string, len(h.checks)),
	}
	code := http.StatusOK

	for _, check := range h.checks {
		switch {
		case check.probe == nil:
			resp.Checks[check.name] = "not configured"
		default:
			if err := check.probe(ctx); err != nil {
				resp.Checks[check.name] = "error: " + err.Error()
				resp.Status = "unhealthy"
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[check.name] = "ok"
		}
	}

	c.IndentedJSON(code, resp)
}

// GET /ping
func (h *HealthController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
