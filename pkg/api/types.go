// Package api defines the request and response payloads of the HTTP surface.
package api

import "github.com/sahaty/medtrack/pkg/model"

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details,omitempty"`
}

// UpdateReportRequest is a shallow partial update of the current health
// report. Absent fields are left unchanged.
type UpdateReportRequest struct {
	HealthRating *int                `json:"health_rating,omitempty"`
	PainLevel    *int                `json:"pain_level,omitempty"`
	PainLocation *string             `json:"pain_location,omitempty"`
	SleepQuality *model.QualityLevel `json:"sleep_quality,omitempty"`
	Appetite     *model.QualityLevel `json:"appetite,omitempty"`
	Symptoms     *[]string           `json:"symptoms,omitempty"`
	Notes        *string             `json:"notes,omitempty"`
}

// ToggleSymptomRequest names the symptom tag to toggle on the current report.
type ToggleSymptomRequest struct {
	Symptom string `json:"symptom" binding:"required"`
}

// CustomSymptomRequest carries a new custom symptom label.
type CustomSymptomRequest struct {
	Label string `json:"label" binding:"required"`
}

// SetIconRequest assigns an icon to a medication. Icon is a preset name or an
// inline data-URI payload.
type SetIconRequest struct {
	Icon string `json:"icon" binding:"required"`
}

// CaregiverModeRequest switches caregiver mode on or off.
type CaregiverModeRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// CaregiverTargetRequest sets the patient ID a caregiver session mirrors.
type CaregiverTargetRequest struct {
	PatientID string `json:"patient_id" binding:"required"`
}

// NotificationsRequest switches medication reminders on or off.
type NotificationsRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// PatientInfoRequest updates the patient's display name and age. Absent
// fields are left unchanged.
type PatientInfoRequest struct {
	Name *string `json:"name,omitempty"`
	Age  *int    `json:"age,omitempty"`
}

// ReminderTimeRequest overrides a medication's reminder time. An empty Time
// removes the override.
type ReminderTimeRequest struct {
	Time string `json:"time"`
}

// SpeakRequest carries text for speech synthesis.
type SpeakRequest struct {
	Text string `json:"text" binding:"required"`
}

// ProgressResponse reports today's adherence.
type ProgressResponse struct {
	Taken   int     `json:"taken"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// SlotGroup is one time slot of the daily schedule.
type SlotGroup struct {
	Slot        model.TimeSlot  `json:"slot"`
	Label       string          `json:"label"`
	Hour        int             `json:"hour"`
	Medications []ScheduleEntry `json:"medications"`
}

// ScheduleEntry is a catalog medication joined with today's patient state.
type ScheduleEntry struct {
	Medication   model.Medication `json:"medication"`
	Taken        bool             `json:"taken"`
	Icon         string           `json:"icon,omitempty"`
	ReminderTime string           `json:"reminder_time,omitempty"`
}

// ScheduleResponse is the full daily schedule grouped by slot.
type ScheduleResponse struct {
	Date  string      `json:"date"`
	Slots []SlotGroup `json:"slots"`
}

// SymptomsResponse lists the selectable symptom vocabulary.
type SymptomsResponse struct {
	Symptoms []string `json:"symptoms"`
}

// TokenResponse returns a registered device token.
type TokenResponse struct {
	Token string `json:"token"`
}
