package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]HealthCheck
}

func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) GetHealth(c *gin.Context) {
	res := gin.H{"status": "healthy"}
	status := http.StatusOK

	for name, check := range h.checks {
		if err := check(c.Request.Context()); err != nil {
			res[name] = "disconnected"
			res["status"] = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		res[name] = "connected"
	}

	c.JSON(status, res)
}
