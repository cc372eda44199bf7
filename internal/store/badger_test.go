package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sahaty/medtrack/pkg/model"
)

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := NewBadgerStore(t.TempDir(), zap.NewNop())
	assert.NoError(t, err)
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestBadgerStore_LoadAbsentReturnsNil(t *testing.T) {
	s := newTestStore(t)

	st, err := s.Load(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, st)
}

func TestBadgerStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := model.PatientState{
		PatientID:        "ABC123",
		PatientName:      "Mona",
		PatientAge:       70,
		TakenMedications: map[string]bool{"examide": true},
		History: []model.ActivityEvent{
			{Date: "2025-03-10", Action: model.ActionTaken, Details: "Examide", Timestamp: "08:01"},
		},
		DailyReports: map[string]model.HealthReport{
			"2025-03-09": {Date: "2025-03-09", PainLevel: 3, Symptoms: []string{"Headache"}},
		},
		CurrentReport: model.HealthReport{Date: "2025-03-10", Symptoms: []string{}},
	}

	assert.NoError(t, s.Save(ctx, in))

	out, err := s.Load(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, out)
	assert.Equal(t, in.PatientID, out.PatientID)
	assert.Equal(t, in.TakenMedications, out.TakenMedications)
	assert.Equal(t, in.History, out.History)
	assert.Equal(t, in.DailyReports, out.DailyReports)
}

func TestBadgerStore_SaveOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := model.PatientState{PatientID: "AAA111"}
	second := model.PatientState{PatientID: "BBB222"}

	assert.NoError(t, s.Save(ctx, first))
	assert.NoError(t, s.Save(ctx, second))

	out, err := s.Load(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "BBB222", out.PatientID)
}

func TestBadgerStore_CorruptBlobReturnsErrCorrupt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.NoError(t, s.SetRaw([]byte("{not json")))

	st, err := s.Load(ctx)
	assert.Nil(t, st)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestMemoryStore_MatchesStoreContract(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	st, err := s.Load(ctx)
	assert.NoError(t, err)
	assert.Nil(t, st)

	in := model.PatientState{PatientID: "ABC123"}
	assert.NoError(t, s.Save(ctx, in))

	out, err := s.Load(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "ABC123", out.PatientID)
}
