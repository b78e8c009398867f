package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jaydenshimshi/LineUp-sub000/internal/providers"
	"github.com/jaydenshimshi/LineUp-sub000/internal/websocket"
	"github.com/jaydenshimshi/LineUp-sub000/pkg/cache"
)

// HealthStatus is the body of the health and readiness endpoints.
type HealthStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

const serviceName = "team-solver"

// HealthHandler handles health check endpoints
type HealthHandler struct {
	redis     *redis.Client
	cache     *cache.SolveCacheService
	provider  *providers.ExactSolverClient
	wsHub     *websocket.Hub
	logger    *logrus.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(
	redisClient *redis.Client,
	solveCache *cache.SolveCacheService,
	provider *providers.ExactSolverClient,
	wsHub *websocket.Hub,
	logger *logrus.Logger,
) *HealthHandler {
	return &HealthHandler{
		redis:     redisClient,
		cache:     solveCache,
		provider:  provider,
		wsHub:     wsHub,
		logger:    logger,
		startTime: time.Now(),
	}
}

// GetHealth returns the basic health status. The solver runs in-process, so
// a missing Redis or sidecar degrades the service instead of killing it.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	response := HealthStatus{
		Status:    "ok",
		Service:   serviceName,
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			response.Status = "degraded"
			response.Checks["redis"] = "failed: " + err.Error()
		} else {
			response.Checks["redis"] = "ok"
		}
	} else {
		response.Checks["redis"] = "not_configured"
	}

	if h.provider != nil && h.provider.Enabled() {
		if h.provider.Healthy() {
			response.Checks["exact_solver"] = "ok"
		} else {
			response.Checks["exact_solver"] = "unavailable: " + h.provider.State()
		}
	} else {
		response.Checks["exact_solver"] = "not_configured"
	}

	statusCode := http.StatusOK
	if response.Status == "degraded" {
		statusCode = http.StatusPartialContent
	}

	c.JSON(statusCode, response)
}

// GetReady returns the readiness status
func (h *HealthHandler) GetReady(c *gin.Context) {
	response := HealthStatus{
		Status:    "ready",
		Service:   serviceName,
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	// The heuristic solver needs no external dependency, report Redis
	// state without blocking readiness on it.
	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			response.Checks["redis"] = "failed: " + err.Error()
		} else {
			response.Checks["redis"] = "ok"
		}
	} else {
		response.Checks["redis"] = "not_configured"
	}

	c.JSON(http.StatusOK, response)
}

// GetMetrics returns service metrics
func (h *HealthHandler) GetMetrics(c *gin.Context) {
	metrics := map[string]interface{}{
		"service":        serviceName,
		"timestamp":      time.Now(),
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	}

	if h.wsHub != nil {
		metrics["websocket"] = map[string]interface{}{
			"connections":      h.wsHub.GetConnectionCount(),
			"watched_requests": len(h.wsHub.GetWatchedRequests()),
		}
	}

	if h.cache != nil {
		metrics["cache"] = h.cache.GetStatus(c.Request.Context())
	}

	if h.provider != nil && h.provider.Enabled() {
		metrics["exact_solver"] = map[string]interface{}{
			"healthy":       h.provider.Healthy(),
			"breaker_state": h.provider.State(),
		}
	}

	c.JSON(http.StatusOK, metrics)
}
