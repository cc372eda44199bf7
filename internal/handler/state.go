package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sahaty/medtrack/internal/profile"
)

// StateHandler implements the whole-profile and day lifecycle endpoints
type StateHandler struct {
	profile *profile.Service
	logger  *zap.Logger
}

// NewStateHandler creates a new StateHandler
func NewStateHandler(profile *profile.Service, logger *zap.Logger) *StateHandler {
	return &StateHandler{
		profile: profile,
		logger:  logger,
	}
}

// GetState returns the full patient state snapshot
func (h *StateHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.profile.Snapshot())
}

// ResetDay reloads the stored profile and re-runs the day rollover
func (h *StateHandler) ResetDay(c *gin.Context) {
	st := h.profile.ResetDay(c.Request.Context())

	h.logger.Info("day reset", zap.String("date", st.CurrentReport.Date))

	c.JSON(http.StatusOK, st)
}

// GetHealth implements the health check endpoint
func (h *StateHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "medtrack",
		"version": "1.0.0",
	})
}
