package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sahaty/medtrack/internal/analysis"
	"github.com/sahaty/medtrack/internal/profile"
	"github.com/sahaty/medtrack/pkg/api"
)

// Speaker reads text aloud and can be interrupted. Satisfied by
// azure.SpeechClient; nil when speech is not configured.
type Speaker interface {
	Speak(text string)
	Stop()
}

// AnalysisHandler implements the AI analysis and speech endpoints
type AnalysisHandler struct {
	profile  *profile.Service
	analyzer *analysis.Analyzer
	speaker  Speaker
	logger   *zap.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(profile *profile.Service, analyzer *analysis.Analyzer, speaker Speaker, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		profile:  profile,
		analyzer: analyzer,
		speaker:  speaker,
		logger:   logger,
	}
}

// Analyze runs an AI analysis of the current state and reads the summary
// aloud on success
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	if h.analyzer.Busy() {
		c.JSON(http.StatusConflict, api.ErrorResponse{
			Code:    "ANALYSIS_IN_PROGRESS",
			Message: "An analysis is already running",
		})
		return
	}

	st := h.profile.Snapshot()

	result, err := h.analyzer.Analyze(c.Request.Context(), st)
	if err != nil {
		h.logger.Error("analysis request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, api.ErrorResponse{
			Code:    "ANALYSIS_FAILED",
			Message: err.Error(),
		})
		return
	}

	if h.speaker != nil {
		h.speaker.Speak(result.Summary)
	}

	c.JSON(http.StatusOK, result)
}

// Speak reads arbitrary text aloud, interrupting any ongoing synthesis
func (h *AnalysisHandler) Speak(c *gin.Context) {
	if h.speaker == nil {
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{
			Code:    "SPEECH_UNAVAILABLE",
			Message: "Speech synthesis is not configured",
		})
		return
	}

	var req api.SpeakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	h.speaker.Speak(req.Text)

	c.JSON(http.StatusAccepted, gin.H{"status": "speaking"})
}

// StopSpeech interrupts any ongoing speech synthesis
func (h *AnalysisHandler) StopSpeech(c *gin.Context) {
	if h.speaker != nil {
		h.speaker.Stop()
	}
	c.JSON(http.StatusOK, gin.H{"status": "stopped"})
}
