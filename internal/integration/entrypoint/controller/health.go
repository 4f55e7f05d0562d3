package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/budget-api/internal/application/adapter"
)

// HealthController handles health check endpoints.
type HealthController struct {
	store  adapter.HealthChecker
	driver string
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Storage   string `json:"storage"`
	Driver    string `json:"driver"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
func NewHealthController(store adapter.HealthChecker, driver string) *HealthController {
	return &HealthController{
		store:  store,
		driver: driver,
	}
}

// Check handles GET /health requests.
// It returns the current health status of the API and its store. The endpoint
// always answers 200 so that the body can be inspected.
func (h *HealthController) Check(c *gin.Context) {
	storageStatus := "disconnected"
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.HealthCheck(ctx); err == nil {
			storageStatus = "connected"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Storage:   storageStatus,
		Driver:    h.driver,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
