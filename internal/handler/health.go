package handler

import (
	"net/http"

	"github.com/gestortareas/api/internal/constants"
	"github.com/gestortareas/api/pkg/database"
	"github.com/gestortareas/api/pkg/redis"
	"github.com/gin-gonic/gin"
)

// HealthHandler reports service liveness and dependency status
type HealthHandler struct {
	cache *redis.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cache *redis.Client) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "ok"
	cacheStatus := "ok"

	if err := database.HealthCheck(); err != nil {
		dbStatus = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if !h.cache.Enabled() {
		cacheStatus = "disabled"
	} else if err := h.cache.Ping(c.Request.Context()); err != nil {
		cacheStatus = "unavailable"
	}

	c.JSON(status, gin.H{
		"service":  constants.AppName,
		"version":  constants.AppVersion,
		"database": dbStatus,
		"cache":    cacheStatus,
	})
}
