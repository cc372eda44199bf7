package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sahaty/medtrack/internal/profile"
	"github.com/sahaty/medtrack/pkg/api"
)

// Refresher re-evaluates remote subscriptions after the caregiver settings
// change. Satisfied by profile.Mirror; nil when sync is disabled.
type Refresher interface {
	Refresh()
}

// TokenRegistrar registers a device token when notifications are enabled.
// Satisfied by notify.Registrar.
type TokenRegistrar interface {
	Enable(ctx context.Context, patientID string) (string, error)
}

// CaregiverHandler implements the caregiver mode and settings endpoints
type CaregiverHandler struct {
	profile   *profile.Service
	mirror    Refresher
	registrar TokenRegistrar
	logger    *zap.Logger
}

// NewCaregiverHandler creates a new CaregiverHandler
func NewCaregiverHandler(profile *profile.Service, mirror Refresher, registrar TokenRegistrar, logger *zap.Logger) *CaregiverHandler {
	return &CaregiverHandler{
		profile:   profile,
		mirror:    mirror,
		registrar: registrar,
		logger:    logger,
	}
}

// SetMode switches caregiver mode on or off and refreshes the remote mirror
func (h *CaregiverHandler) SetMode(c *gin.Context) {
	var req api.CaregiverModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	st := h.profile.SetCaregiverMode(c.Request.Context(), *req.Enabled)
	if h.mirror != nil {
		h.mirror.Refresh()
	}

	h.logger.Info("caregiver mode updated", zap.Bool("enabled", st.CaregiverMode))

	c.JSON(http.StatusOK, st)
}

// SetTarget sets the patient ID a caregiver session mirrors
func (h *CaregiverHandler) SetTarget(c *gin.Context) {
	var req api.CaregiverTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	st := h.profile.SetCaregiverTarget(c.Request.Context(), req.PatientID)
	if h.mirror != nil {
		h.mirror.Refresh()
	}

	h.logger.Info("caregiver target updated", zap.String("target_id", st.CaregiverTargetID))

	c.JSON(http.StatusOK, st)
}

// SetNotifications switches medication reminders on or off
func (h *CaregiverHandler) SetNotifications(c *gin.Context) {
	var req api.NotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	st := h.profile.SetNotificationsEnabled(c.Request.Context(), *req.Enabled)

	if st.NotificationsEnabled && h.registrar != nil {
		if _, err := h.registrar.Enable(c.Request.Context(), st.PatientID); err != nil {
			h.logger.Warn("device token registration failed", zap.Error(err))
		}
	}

	h.logger.Info("notifications setting updated", zap.Bool("enabled", st.NotificationsEnabled))

	c.JSON(http.StatusOK, st)
}

// SetPatientInfo updates the patient's display name and age
func (h *CaregiverHandler) SetPatientInfo(c *gin.Context) {
	var req api.PatientInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if req.Age != nil && (*req.Age < 0 || *req.Age > 150) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "age must be between 0 and 150",
		})
		return
	}

	st := h.profile.SetPatientInfo(c.Request.Context(), req.Name, req.Age)

	c.JSON(http.StatusOK, st)
}
