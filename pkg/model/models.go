package model

import "time"

// TimeSlot identifies one of the eight fixed daily periods used to group
// medications for display and reminder timing.
type TimeSlot string

const (
	SlotMorningFasting TimeSlot = "morning-fasting"
	SlotAfterBreakfast TimeSlot = "after-breakfast"
	SlotBeforeLunch    TimeSlot = "before-lunch"
	SlotAfterLunch     TimeSlot = "after-lunch"
	SlotAfternoon      TimeSlot = "afternoon"
	SlotSixPM          TimeSlot = "6pm"
	SlotAfterDinner    TimeSlot = "after-dinner"
	SlotBeforeBed      TimeSlot = "before-bed"
)

// MedicationCategory classifies a catalog entry for display grouping.
type MedicationCategory string

const (
	CategoryPressure     MedicationCategory = "pressure"
	CategoryDiabetes     MedicationCategory = "diabetes"
	CategoryBloodThinner MedicationCategory = "blood-thinner"
	CategoryAntibiotic   MedicationCategory = "antibiotic"
	CategoryStomach      MedicationCategory = "stomach"
	CategoryOther        MedicationCategory = "other"
)

// Medication is a compiled-in schedule catalog entry. Entries are defined once
// at build time and never mutated.
type Medication struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Dosage         string             `json:"dosage"`
	TimeSlot       TimeSlot           `json:"time_slot"`
	Notes          string             `json:"notes"`
	IsCritical     bool               `json:"is_critical"`
	FrequencyLabel string             `json:"frequency_label"`
	Category       MedicationCategory `json:"category,omitempty"`
}

// QualityLevel rates sleep quality and appetite. The empty value means unset.
type QualityLevel string

const (
	QualityGood  QualityLevel = "good"
	QualityFair  QualityLevel = "fair"
	QualityPoor  QualityLevel = "poor"
	QualityUnset QualityLevel = ""
)

// HealthReport is the subjective daily report. Exactly one current report
// exists at a time, keyed implicitly to today.
type HealthReport struct {
	Date         string       `json:"date"`
	HealthRating int          `json:"health_rating"`
	PainLevel    int          `json:"pain_level"`
	PainLocation string       `json:"pain_location"`
	SleepQuality QualityLevel `json:"sleep_quality"`
	Appetite     QualityLevel `json:"appetite"`
	Symptoms     []string     `json:"symptoms"`
	Notes        string       `json:"notes"`
}

// Activity history action labels.
const (
	ActionTaken    = "taken"
	ActionReverted = "reverted"
)

// ActivityEvent is one adherence-ledger history entry. Events are produced
// only by toggling adherence and are stored newest first.
type ActivityEvent struct {
	Date      string `json:"date"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	Timestamp string `json:"timestamp"`
}

// IconCustomization holds a per-medication icon override: either one of the
// preset icon names or an inline data-URI image payload.
type IconCustomization struct {
	Icon string `json:"icon,omitempty"`
}

// PatientState is the process-wide profile aggregate. It has a single writer
// at a time: the local user's actions, or the remote feed while caregiver
// mode is on.
type PatientState struct {
	PatientName              string                       `json:"patient_name"`
	PatientAge               int                          `json:"patient_age"`
	PatientID                string                       `json:"patient_id"`
	CaregiverMode            bool                         `json:"caregiver_mode"`
	CaregiverTargetID        string                       `json:"caregiver_target_id,omitempty"`
	TakenMedications         map[string]bool              `json:"taken_medications"`
	NotificationsEnabled     bool                         `json:"notifications_enabled"`
	SentNotifications        []string                     `json:"sent_notifications"`
	CustomReminderTimes      map[string]string            `json:"custom_reminder_times"`
	MedicationCustomizations map[string]IconCustomization `json:"medication_customizations"`
	CustomSymptoms           []string                     `json:"custom_symptoms"`
	History                  []ActivityEvent              `json:"history"`
	DailyReports             map[string]HealthReport      `json:"daily_reports"`
	CurrentReport            HealthReport                 `json:"current_report"`
}

// AnalysisResult is the structured outcome of an AI health analysis.
type AnalysisResult struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
	Warnings        []string `json:"warnings"`
	PositivePoints  []string `json:"positive_points"`
}

// Notification is a reminder record delivered through the sync bridge.
type Notification struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
