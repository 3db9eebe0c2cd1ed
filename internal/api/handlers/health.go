package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fpltools/squad-optimizer/internal/store"
	"github.com/fpltools/squad-optimizer/pkg/cache"
)

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	store  *store.Store
	cache  *cache.SelectionCache
	logger *logrus.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(
	st *store.Store,
	ca *cache.SelectionCache,
	logger *logrus.Logger,
) *HealthHandler {
	return &HealthHandler{
		store:  st,
		cache:  ca,
		logger: logger,
	}
}

// GetHealth returns the basic health status
func (h *HealthHandler) GetHealth(c *gin.Context) {
	response := HealthStatus{
		Status:    "ok",
		Service:   "squad-optimizer",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	// Database is optional; selections run from request pools without it.
	if h.store != nil {
		if err := h.store.HealthCheck(); err != nil {
			response.Status = "degraded"
			response.Checks["database"] = "failed: " + err.Error()
		} else {
			response.Checks["database"] = "ok"
		}
	} else {
		response.Checks["database"] = "not_configured"
	}

	if err := h.cache.HealthCheck(c.Request.Context()); err != nil {
		response.Status = "unhealthy"
		response.Checks["redis"] = "failed: " + err.Error()
	} else {
		response.Checks["redis"] = "ok"
	}

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

// GetReady returns the readiness status
func (h *HealthHandler) GetReady(c *gin.Context) {
	response := HealthStatus{
		Status:    "ready",
		Service:   "squad-optimizer",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	if err := h.cache.HealthCheck(c.Request.Context()); err != nil {
		response.Status = "not_ready"
		response.Checks["redis"] = "failed: " + err.Error()
	} else {
		response.Checks["redis"] = "ok"
	}

	if h.store != nil {
		if err := h.store.HealthCheck(); err != nil {
			response.Checks["database"] = "failed: " + err.Error()
		} else {
			response.Checks["database"] = "ok"
		}
	}

	statusCode := http.StatusOK
	if response.Status != "ready" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

// GetMetrics returns cache and database statistics
func (h *HealthHandler) GetMetrics(c *gin.Context) {
	metrics := map[string]interface{}{
		"service":   "squad-optimizer",
		"timestamp": time.Now(),
		"cache":     h.cache.Status(c.Request.Context()),
	}
	c.JSON(http.StatusOK, metrics)
}
