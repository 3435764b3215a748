package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderservice/internal/server/http/dto"
)

const serviceName = "Order Service"

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	probe ReadinessProbe
	now   func() time.Time
}

func NewHealthHandler(probe ReadinessProbe) *HealthHandler {
	return &HealthHandler{probe: probe, now: time.Now}
}

// Live handles GET /health.
func (h *HealthHandler) Live(*gin.Context) dto.Result {
	return dto.OK(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   serviceName,
		"timestamp": h.now().UTC(),
	})
}

// Ready handles GET /health/ready.
func (h *HealthHandler) Ready(c *gin.Context) dto.Result {
	if err := h.probe.Ready(c.Request.Context()); err != nil {
		return dto.OK(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  err.Error(),
		})
	}
	return dto.OK(http.StatusOK, gin.H{"status": "OK"})
}
