package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cablestock-service/internal/events"
	"cablestock-service/internal/repository"
)

// HealthCheck returns service health status (basic)
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cablestock-service",
	})
}

type HealthHandler struct {
	thresholds *repository.ThresholdRepository
	publisher  *events.StockEventPublisher
}

func NewHealthHandler(thresholds *repository.ThresholdRepository, publisher *events.StockEventPublisher) *HealthHandler {
	return &HealthHandler{thresholds: thresholds, publisher: publisher}
}

// ExtendedHealthCheck returns detailed health status including Redis and NATS
func (h *HealthHandler) ExtendedHealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	health := gin.H{
		"status":  "healthy",
		"service": "cablestock-service",
		"checks":  gin.H{},
	}
	checks := health["checks"].(gin.H)

	if !h.thresholds.RedisEnabled() {
		checks["redis"] = gin.H{"status": "disabled"}
	} else if err := h.thresholds.RedisHealth(ctx); err != nil {
		checks["redis"] = gin.H{"status": "unhealthy", "error": err.Error()}
	} else {
		checks["redis"] = gin.H{"status": "healthy"}
	}

	if h.publisher == nil {
		checks["nats"] = gin.H{"status": "disabled"}
	} else if h.publisher.IsConnected() {
		checks["nats"] = gin.H{"status": "healthy"}
	} else {
		checks["nats"] = gin.H{"status": "unhealthy", "error": "not connected"}
	}

	for _, check := range checks {
		if checkMap, ok := check.(gin.H); ok {
			if status, ok := checkMap["status"]; ok && status == "unhealthy" {
				health["status"] = "degraded"
				break
			}
		}
	}

	c.JSON(http.StatusOK, health)
}
