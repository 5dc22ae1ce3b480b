package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/educare-ngo/educare-api/pkg/response"
)

// HealthHandler reports service and database liveness.
type HealthHandler struct {
	db *sqlx.DB
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health godoc
// @Summary Service health check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	payload := gin.H{
		"status":    "ok",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		payload["status"] = "degraded"
		payload["database"] = "disconnected"
		c.JSON(http.StatusServiceUnavailable, response.Envelope{Success: false, Data: payload})
		return
	}
	response.JSON(c, http.StatusOK, payload)
}

// Root godoc
// @Summary Service info
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope
// @Router / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"service":   "educare-api",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
