package handler

import "github.com/gin-gonic/gin"

// Handlers bundles every endpoint group for route registration.
type Handlers struct {
	Schedule  *ScheduleHandler
	Report    *ReportHandler
	Caregiver *CaregiverHandler
	Analysis  *AnalysisHandler
	State     *StateHandler
}

// RegisterRoutes wires all endpoints onto the router.
func RegisterRoutes(r *gin.Engine, h *Handlers) {
	r.GET("/health", h.State.GetHealth)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/state", h.State.GetState)
		v1.POST("/day/reset", h.State.ResetDay)

		v1.GET("/schedule", h.Schedule.GetSchedule)
		v1.GET("/progress", h.Schedule.GetProgress)
		v1.POST("/medications/:id/toggle", h.Schedule.ToggleMedication)
		v1.PUT("/medications/:id/icon", h.Schedule.SetIcon)
		v1.PUT("/medications/:id/reminder", h.Schedule.SetReminderTime)

		v1.GET("/report", h.Report.GetReport)
		v1.PATCH("/report", h.Report.UpdateReport)
		v1.POST("/report/symptoms/toggle", h.Report.ToggleSymptom)
		v1.GET("/symptoms", h.Report.GetSymptoms)
		v1.POST("/symptoms/custom", h.Report.AddCustomSymptom)
		v1.GET("/history", h.Report.GetHistory)
		v1.GET("/reports/archive", h.Report.GetArchive)

		v1.PUT("/caregiver/mode", h.Caregiver.SetMode)
		v1.PUT("/caregiver/target", h.Caregiver.SetTarget)
		v1.PUT("/notifications", h.Caregiver.SetNotifications)
		v1.PUT("/patient", h.Caregiver.SetPatientInfo)

		v1.POST("/analysis", h.Analysis.Analyze)
		v1.POST("/speech", h.Analysis.Speak)
		v1.POST("/speech/stop", h.Analysis.StopSpeech)
	}
}
