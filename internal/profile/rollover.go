package profile

import (
	"crypto/rand"
	"math/big"

	"github.com/sahaty/medtrack/pkg/model"
)

// DateLayout is the calendar-date format used for report keys and rollover
// comparisons.
const DateLayout = "2006-01-02"

const idCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GeneratePatientID returns a short opaque identifier used as the
// synchronization key. It is generated once per profile and stable after that.
func GeneratePatientID() string {
	b := make([]byte, 6)
	max := big.NewInt(int64(len(idCharset)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform is broken; an
			// all-A identifier still keeps the profile usable.
			b[i] = idCharset[0]
			continue
		}
		b[i] = idCharset[n.Int64()]
	}
	return string(b)
}

// NewHealthReport returns a report for the given date with every field at its
// default value.
func NewHealthReport(date string) model.HealthReport {
	return model.HealthReport{
		Date:     date,
		Symptoms: []string{},
	}
}

// NewPatientState returns a fresh profile for today: empty ledger and
// history, a zeroed report, a newly generated identity, caregiver mode off.
func NewPatientState(today string) model.PatientState {
	return model.PatientState{
		PatientName:              "Dear Parent",
		PatientAge:               65,
		PatientID:                GeneratePatientID(),
		TakenMedications:         map[string]bool{},
		SentNotifications:        []string{},
		CustomReminderTimes:      map[string]string{},
		MedicationCustomizations: map[string]model.IconCustomization{},
		CustomSymptoms:           []string{},
		History:                  []model.ActivityEvent{},
		DailyReports:             map[string]model.HealthReport{},
		CurrentReport:            NewHealthReport(today),
	}
}

// Rollover normalizes a persisted snapshot to today. It is the once-per-load
// entry point and must be idempotent: re-running it on an already-normalized
// state for the same date returns an identical result.
//
//   - nil snapshot: a fresh profile is created.
//   - snapshot dated today: returned unchanged apart from schema backfill.
//   - snapshot dated earlier: the prior report is archived under its own date
//     (last write wins), the ledger and sent-notifications record are reset,
//     and a zeroed report is started for today. History, customizations and
//     identity survive.
func Rollover(prev *model.PatientState, today string) model.PatientState {
	if prev == nil {
		return NewPatientState(today)
	}

	st := *prev
	backfill(&st)

	if st.CurrentReport.Date == today {
		return st
	}

	archived := make(map[string]model.HealthReport, len(st.DailyReports)+1)
	for date, report := range st.DailyReports {
		archived[date] = report
	}
	archived[st.CurrentReport.Date] = st.CurrentReport

	st.DailyReports = archived
	st.TakenMedications = map[string]bool{}
	st.SentNotifications = []string{}
	st.CurrentReport = NewHealthReport(today)
	return st
}

// backfill fills fields that older persisted schemas may lack, so downstream
// code never sees an absent map or identity.
func backfill(st *model.PatientState) {
	if st.PatientID == "" {
		st.PatientID = GeneratePatientID()
	}
	if st.TakenMedications == nil {
		st.TakenMedications = map[string]bool{}
	}
	if st.SentNotifications == nil {
		st.SentNotifications = []string{}
	}
	if st.CustomReminderTimes == nil {
		st.CustomReminderTimes = map[string]string{}
	}
	if st.MedicationCustomizations == nil {
		st.MedicationCustomizations = map[string]model.IconCustomization{}
	}
	if st.CustomSymptoms == nil {
		st.CustomSymptoms = []string{}
	}
	if st.History == nil {
		st.History = []model.ActivityEvent{}
	}
	if st.DailyReports == nil {
		st.DailyReports = map[string]model.HealthReport{}
	}
	if st.CurrentReport.Symptoms == nil {
		st.CurrentReport.Symptoms = []string{}
	}
}
