package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Readiness reports startup progress
type Readiness interface {
	Ready() bool
	DatasetsLoaded() bool
	ClassifierLoaded() bool
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	redis     *redis.Client
	readiness Readiness
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(redis *redis.Client, readiness Readiness) *HealthHandler {
	return &HealthHandler{
		redis:     redis,
		readiness: readiness,
	}
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// Health handles GET /health. A model that is still loading does not make the
// service unhealthy; only a failing configured dependency does.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]string)
	healthy := true

	// Check Redis
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			components["redis"] = "error: " + err.Error()
			healthy = false
		} else {
			components["redis"] = "ok"
		}
	} else {
		components["redis"] = "not configured"
	}

	if h.readiness.ClassifierLoaded() {
		components["classifier"] = "ok"
	} else {
		components["classifier"] = "loading"
	}

	if h.readiness.DatasetsLoaded() {
		components["datasets"] = "ok"
	} else {
		components["datasets"] = "loading"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !healthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthStatus{
		Status:     status,
		Components: components,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if !h.readiness.Ready() {
		c.Header("Retry-After", RetryAfterSeconds)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "model loading"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
