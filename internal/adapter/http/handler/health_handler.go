package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/HarshdeepAthawale/Deepfake-Detection-Authenticity-Verification-System/internal/adapter/client"
)

// RunnerProber reports the model runner's health and readiness
type RunnerProber interface {
	Health(ctx context.Context) (*client.RunnerHealthResponse, error)
	Ready(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db     *gorm.DB
	redis  *redis.Client
	runner RunnerProber
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB, redis *redis.Client, runner RunnerProber) *HealthHandler {
	return &HealthHandler{
		db:     db,
		redis:  redis,
		runner: runner,
	}
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
	Model      *client.ModelInfo `json:"model,omitempty"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]string)
	healthy := true
	var model *client.ModelInfo

	// Check database
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil {
			components["database"] = "error: " + err.Error()
			healthy = false
		} else if err := sqlDB.PingContext(ctx); err != nil {
			components["database"] = "error: " + err.Error()
			healthy = false
		} else {
			components["database"] = "ok"
		}
	} else {
		components["database"] = "not configured"
	}

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

	// Check model runner. A runner that answers but has no model loaded is
	// reported separately so operators can tell a crash from a cold start.
	if h.runner != nil {
		resp, err := h.runner.Health(ctx)
		switch {
		case err != nil:
			components["model_runner"] = "error: " + err.Error()
			healthy = false
		case !resp.ModelLoaded:
			components["model_runner"] = "loading"
			healthy = false
		default:
			components["model_runner"] = "ok"
			model = resp.Model
		}
	} else {
		components["model_runner"] = "not configured"
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
		Model:      model,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// Check database connection
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "database error"})
			return
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "database unreachable"})
			return
		}
	}

	// Check that models are loaded
	if h.runner != nil {
		if err := h.runner.Ready(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "model runner not ready"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
