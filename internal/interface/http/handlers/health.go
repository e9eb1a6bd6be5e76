package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/learnloop/learnloop-hub/pkg/logger"
)

// HealthChecker reports the health of a named backing dependency.
type HealthChecker interface {
	Check(ctx context.Context) map[string]error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checker HealthChecker
	log     *logger.Logger
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(checker HealthChecker, log *logger.Logger) *HealthHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &HealthHandler{checker: checker, log: log.With("component", "health")}
}

// Liveness handles GET /healthz. It answers as long as the process runs.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz and pings the backing stores.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.checker == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := gin.H{}
	for name, err := range h.checker.Check(ctx) {
		if err != nil {
			status = http.StatusServiceUnavailable
			deps[name] = err.Error()
			h.log.Warn("dependency unhealthy", "dependency", name, "error", err)
		} else {
			deps[name] = "ok"
		}
	}

	body := gin.H{"status": "ok", "dependencies": deps}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}
