package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Aditya-Vasipalli/buymechai/cache"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	cache *cache.RedisCache
}

func NewHealthHandler(db *gorm.DB, redisCache *cache.RedisCache) *HealthHandler {
	return &HealthHandler{db: db, cache: redisCache}
}

func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if sqlDB, err := h.db.DB(); err != nil {
		checks["database"] = "error: " + err.Error()
		healthy = false
	} else if err := sqlDB.PingContext(ctx); err != nil {
		checks["database"] = "error: " + err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			// Cache is optional; degraded, not down.
			checks["redis"] = "error: " + err.Error()
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	state := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "unhealthy"
	}

	writeJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": checks,
	})
}
