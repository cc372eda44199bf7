package profile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sahaty/medtrack/pkg/model"
)

func TestGeneratePatientID_Format(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := GeneratePatientID()
		assert.Len(t, id, 6)
		for _, r := range id {
			assert.Contains(t, idCharset, string(r))
		}
		seen[id] = true
	}
	// 100 draws from a 36^6 space colliding down to a handful would mean a
	// broken generator
	assert.Greater(t, len(seen), 90)
}

func TestRollover_NilSnapshotCreatesFreshProfile(t *testing.T) {
	st := Rollover(nil, "2025-03-10")

	assert.Equal(t, "2025-03-10", st.CurrentReport.Date)
	assert.NotEmpty(t, st.PatientID)
	assert.False(t, st.CaregiverMode)
	assert.Empty(t, st.TakenMedications)
	assert.Empty(t, st.History)
	assert.Empty(t, st.DailyReports)
	assert.NotNil(t, st.CurrentReport.Symptoms)
}

func TestRollover_SameDateIsIdentity(t *testing.T) {
	prev := NewPatientState("2025-03-10")
	prev.TakenMedications["examide"] = true
	prev.CurrentReport.PainLevel = 4
	prev.SentNotifications = []string{"2025-03-10/examide"}

	st := Rollover(&prev, "2025-03-10")

	prevJSON, err := json.Marshal(prev)
	assert.NoError(t, err)
	stJSON, err := json.Marshal(st)
	assert.NoError(t, err)
	assert.JSONEq(t, string(prevJSON), string(stJSON))
}

func TestRollover_PriorDateArchivesAndResets(t *testing.T) {
	prev := NewPatientState("2025-03-09")
	prev.TakenMedications["examide"] = true
	prev.CurrentReport.PainLevel = 7
	prev.CurrentReport.Symptoms = []string{"Headache"}
	prev.SentNotifications = []string{"2025-03-09/examide"}
	prev.CustomSymptoms = []string{"Dizzy spells"}
	prev.History = []model.ActivityEvent{{Date: "2025-03-09", Action: model.ActionTaken, Details: "Examide", Timestamp: "08:01"}}
	prev.MedicationCustomizations["examide"] = model.IconCustomization{Icon: "pill"}

	st := Rollover(&prev, "2025-03-10")

	// prior report archived under its own date
	archived, ok := st.DailyReports["2025-03-09"]
	assert.True(t, ok)
	assert.Equal(t, 7, archived.PainLevel)
	assert.Equal(t, []string{"Headache"}, archived.Symptoms)

	// ledger and sent notifications reset, fresh report for today
	assert.Empty(t, st.TakenMedications)
	assert.Empty(t, st.SentNotifications)
	assert.Equal(t, "2025-03-10", st.CurrentReport.Date)
	assert.Zero(t, st.CurrentReport.PainLevel)
	assert.Empty(t, st.CurrentReport.Symptoms)

	// history, customizations and identity survive
	assert.Len(t, st.History, 1)
	assert.Equal(t, []string{"Dizzy spells"}, st.CustomSymptoms)
	assert.Equal(t, "pill", st.MedicationCustomizations["examide"].Icon)
	assert.Equal(t, prev.PatientID, st.PatientID)
}

func TestRollover_ArchiveLastWriteWins(t *testing.T) {
	prev := NewPatientState("2025-03-09")
	prev.DailyReports["2025-03-09"] = model.HealthReport{Date: "2025-03-09", PainLevel: 1}
	prev.CurrentReport.PainLevel = 9

	st := Rollover(&prev, "2025-03-10")

	assert.Equal(t, 9, st.DailyReports["2025-03-09"].PainLevel)
}

func TestRollover_IsIdempotent(t *testing.T) {
	prev := NewPatientState("2025-03-08")
	prev.TakenMedications["examide"] = true

	first := Rollover(&prev, "2025-03-10")
	second := Rollover(&first, "2025-03-10")

	firstJSON, err := json.Marshal(first)
	assert.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	assert.NoError(t, err)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
}

func TestRollover_BackfillsMissingFields(t *testing.T) {
	prev := model.PatientState{
		CurrentReport: model.HealthReport{Date: "2025-03-10"},
	}

	st := Rollover(&prev, "2025-03-10")

	assert.NotEmpty(t, st.PatientID)
	assert.NotNil(t, st.TakenMedications)
	assert.NotNil(t, st.SentNotifications)
	assert.NotNil(t, st.CustomReminderTimes)
	assert.NotNil(t, st.MedicationCustomizations)
	assert.NotNil(t, st.CustomSymptoms)
	assert.NotNil(t, st.History)
	assert.NotNil(t, st.DailyReports)
}
