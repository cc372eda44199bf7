package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sahaty/medtrack/internal/profile"
	"github.com/sahaty/medtrack/pkg/api"
)

// ReportHandler implements the daily health report endpoints
type ReportHandler struct {
	profile *profile.Service
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(profile *profile.Service, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		profile: profile,
		logger:  logger,
	}
}

// GetReport returns the current day's health report
func (h *ReportHandler) GetReport(c *gin.Context) {
	st := h.profile.Snapshot()
	c.JSON(http.StatusOK, st.CurrentReport)
}

// UpdateReport merges a partial update into the current report
func (h *ReportHandler) UpdateReport(c *gin.Context) {
	var req api.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if req.HealthRating != nil && (*req.HealthRating < 0 || *req.HealthRating > 5) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "health_rating must be between 0 and 5",
		})
		return
	}
	if req.PainLevel != nil && (*req.PainLevel < 0 || *req.PainLevel > 10) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "pain_level must be between 0 and 10",
		})
		return
	}

	st := h.profile.UpdateReport(c.Request.Context(), profile.ReportPatch{
		HealthRating: req.HealthRating,
		PainLevel:    req.PainLevel,
		PainLocation: req.PainLocation,
		SleepQuality: req.SleepQuality,
		Appetite:     req.Appetite,
		Symptoms:     req.Symptoms,
		Notes:        req.Notes,
	})

	h.logger.Info("health report updated", zap.String("date", st.CurrentReport.Date))

	c.JSON(http.StatusOK, st.CurrentReport)
}

// ToggleSymptom adds or removes a symptom tag on the current report
func (h *ReportHandler) ToggleSymptom(c *gin.Context) {
	var req api.ToggleSymptomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	st := h.profile.ToggleSymptom(c.Request.Context(), req.Symptom)

	h.logger.Info("symptom toggled", zap.String("symptom", req.Symptom))

	c.JSON(http.StatusOK, st.CurrentReport)
}

// AddCustomSymptom adds a new label to the selectable symptom vocabulary
func (h *ReportHandler) AddCustomSymptom(c *gin.Context) {
	var req api.CustomSymptomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	h.profile.AddCustomSymptom(c.Request.Context(), req.Label)

	c.JSON(http.StatusOK, api.SymptomsResponse{Symptoms: h.profile.SymptomVocabulary()})
}

// GetSymptoms lists the selectable symptom vocabulary
func (h *ReportHandler) GetSymptoms(c *gin.Context) {
	c.JSON(http.StatusOK, api.SymptomsResponse{Symptoms: h.profile.SymptomVocabulary()})
}

// GetHistory returns the adherence activity log, newest first
func (h *ReportHandler) GetHistory(c *gin.Context) {
	st := h.profile.Snapshot()
	c.JSON(http.StatusOK, st.History)
}

// GetArchive returns the archived daily reports keyed by date
func (h *ReportHandler) GetArchive(c *gin.Context) {
	st := h.profile.Snapshot()
	c.JSON(http.StatusOK, st.DailyReports)
}
