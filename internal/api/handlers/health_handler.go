package handlers

import (
	"net/http"
	"time"

	"usermgmt/internal/config"
	"usermgmt/internal/infrastructure/cache"
	"usermgmt/internal/infrastructure/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db    *gorm.DB
	redis *cache.RedisCache
}

// NewHealthHandler creates a new health handler. Either dependency may be
// nil when the corresponding backend is not configured.
func NewHealthHandler(db *gorm.DB, redis *cache.RedisCache) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redis,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	cfg := config.Get()

	status := "healthy"
	services := make(map[string]string)

	switch {
	case h.db == nil:
		services["database"] = "in-memory"
	case database.HealthCheck(h.db) != nil:
		services["database"] = "unhealthy"
		status = "degraded"
	default:
		services["database"] = "healthy"
	}

	switch {
	case h.redis == nil:
		services["cache"] = "disabled"
	case h.redis.Ping(c.Request.Context()) != nil:
		services["cache"] = "unhealthy"
		status = "degraded"
	default:
		services["cache"] = "healthy"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		Services:  services,
	})
}

// ReadinessCheck handles GET /ready
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ready := true
	if h.db != nil && database.HealthCheck(h.db) != nil {
		ready = false
	}

	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"ready":     ready,
		"timestamp": time.Now(),
	})
}

// LivenessCheck handles GET /live
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"alive":     true,
		"timestamp": time.Now(),
	})
}
