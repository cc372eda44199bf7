package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sahaty/medtrack/internal/catalog"
	"github.com/sahaty/medtrack/internal/profile"
	"github.com/sahaty/medtrack/pkg/api"
)

// ScheduleHandler implements the daily schedule and medication endpoints
type ScheduleHandler struct {
	profile *profile.Service
	logger  *zap.Logger
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(profile *profile.Service, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		profile: profile,
		logger:  logger,
	}
}

// GetSchedule returns the full daily schedule grouped by time slot, joined
// with today's adherence state and icon customizations
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	st := h.profile.Snapshot()

	response := api.ScheduleResponse{
		Date:  st.CurrentReport.Date,
		Slots: make([]api.SlotGroup, 0, len(catalog.Slots)),
	}
	for _, slot := range catalog.Slots {
		group := api.SlotGroup{
			Slot:  slot,
			Label: catalog.SlotLabels[slot],
			Hour:  catalog.SlotHours[slot],
		}
		for _, med := range catalog.BySlot(slot) {
			entry := api.ScheduleEntry{
				Medication:   med,
				Taken:        st.TakenMedications[med.ID],
				ReminderTime: st.CustomReminderTimes[med.ID],
			}
			if custom, ok := st.MedicationCustomizations[med.ID]; ok {
				entry.Icon = custom.Icon
			}
			group.Medications = append(group.Medications, entry)
		}
		response.Slots = append(response.Slots, group)
	}

	c.JSON(http.StatusOK, response)
}

// ToggleMedication flips a medication's taken state for today
func (h *ScheduleHandler) ToggleMedication(c *gin.Context) {
	medID := c.Param("id")
	if _, ok := catalog.ByID(medID); !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Unknown medication",
			Details: stringPtr(medID),
		})
		return
	}

	st := h.profile.ToggleMedication(c.Request.Context(), medID)

	h.logger.Info("medication toggled",
		zap.String("medication_id", medID),
		zap.Bool("taken", st.TakenMedications[medID]),
	)

	c.JSON(http.StatusOK, st)
}

// SetIcon assigns a preset icon or inline image payload to a medication
func (h *ScheduleHandler) SetIcon(c *gin.Context) {
	medID := c.Param("id")
	if _, ok := catalog.ByID(medID); !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Unknown medication",
			Details: stringPtr(medID),
		})
		return
	}

	var req api.SetIconRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	st := h.profile.SetMedicationIcon(c.Request.Context(), medID, req.Icon)

	h.logger.Info("medication icon updated", zap.String("medication_id", medID))

	c.JSON(http.StatusOK, st)
}

// SetReminderTime overrides a medication's reminder time
func (h *ScheduleHandler) SetReminderTime(c *gin.Context) {
	medID := c.Param("id")
	if _, ok := catalog.ByID(medID); !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Unknown medication",
			Details: stringPtr(medID),
		})
		return
	}

	var req api.ReminderTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	st := h.profile.SetReminderTime(c.Request.Context(), medID, req.Time)

	h.logger.Info("reminder time updated",
		zap.String("medication_id", medID),
		zap.String("time", req.Time),
	)

	c.JSON(http.StatusOK, st)
}

// GetProgress reports today's adherence counts
func (h *ScheduleHandler) GetProgress(c *gin.Context) {
	taken, total, percent := h.profile.Completion()

	c.JSON(http.StatusOK, api.ProgressResponse{
		Taken:   taken,
		Total:   total,
		Percent: percent,
	})
}
