package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sahaty/medtrack/internal/catalog"
	"github.com/sahaty/medtrack/pkg/model"
)

// fakeProfile implements ProfileSource over a fixed state.
type fakeProfile struct {
	state model.PatientState
	sent  map[string]bool
}

func newFakeProfile(st model.PatientState) *fakeProfile {
	return &fakeProfile{state: st, sent: map[string]bool{}}
}

func (p *fakeProfile) Snapshot() model.PatientState {
	return p.state
}

func (p *fakeProfile) RecordSentNotification(_ context.Context, key string) bool {
	if p.state.CaregiverMode || !p.state.NotificationsEnabled || p.sent[key] {
		return false
	}
	p.sent[key] = true
	return true
}

// recordingSender captures published notifications.
type recordingSender struct {
	published []model.Notification
	err       error
}

func (s *recordingSender) PublishNotification(_ context.Context, n model.Notification) error {
	s.published = append(s.published, n)
	return s.err
}

func enabledState() model.PatientState {
	return model.PatientState{
		PatientID:            "ABC123",
		NotificationsEnabled: true,
		TakenMedications:     map[string]bool{},
		CustomReminderTimes:  map[string]string{},
		CurrentReport:        model.HealthReport{Date: "2025-03-10"},
	}
}

func TestDueMedications_MatchesSlotHour(t *testing.T) {
	st := enabledState()

	morning := catalog.BySlot(model.SlotMorningFasting)
	assert.NotEmpty(t, morning)

	clock := fmt.Sprintf("%02d:00", catalog.SlotHours[model.SlotMorningFasting])
	due := dueMedications(st, clock)
	assert.Len(t, due, len(morning))
	for _, med := range due {
		assert.Equal(t, model.SlotMorningFasting, med.TimeSlot)
	}
}

func TestDueMedications_SkipsTaken(t *testing.T) {
	st := enabledState()
	morning := catalog.BySlot(model.SlotMorningFasting)
	st.TakenMedications[morning[0].ID] = true

	clock := fmt.Sprintf("%02d:00", catalog.SlotHours[model.SlotMorningFasting])
	due := dueMedications(st, clock)
	assert.Len(t, due, len(morning)-1)
}

func TestDueMedications_CustomOverrideWins(t *testing.T) {
	st := enabledState()
	morning := catalog.BySlot(model.SlotMorningFasting)
	st.CustomReminderTimes[morning[0].ID] = "11:45"

	due := dueMedications(st, "11:45")
	assert.Len(t, due, 1)
	assert.Equal(t, morning[0].ID, due[0].ID)

	// the overridden medication no longer fires at the slot default
	clock := fmt.Sprintf("%02d:00", catalog.SlotHours[model.SlotMorningFasting])
	due = dueMedications(st, clock)
	assert.Len(t, due, len(morning)-1)
}

func TestDueMedications_SuppressedWhenDisabled(t *testing.T) {
	st := enabledState()
	st.NotificationsEnabled = false

	clock := fmt.Sprintf("%02d:00", catalog.SlotHours[model.SlotMorningFasting])
	assert.Empty(t, dueMedications(st, clock))
}

func TestDueMedications_SuppressedInCaregiverMode(t *testing.T) {
	st := enabledState()
	st.CaregiverMode = true

	clock := fmt.Sprintf("%02d:00", catalog.SlotHours[model.SlotMorningFasting])
	assert.Empty(t, dueMedications(st, clock))
}

func TestTick_PublishesOncePerMedication(t *testing.T) {
	st := enabledState()
	profile := newFakeProfile(st)
	sender := &recordingSender{}

	s := NewScheduler(profile, sender, zap.NewNop())
	slotHour := catalog.SlotHours[model.SlotMorningFasting]
	s.now = func() time.Time {
		return time.Date(2025, 3, 10, slotHour, 0, 0, 0, time.UTC)
	}

	s.tick(context.Background())
	first := len(sender.published)
	assert.Equal(t, len(catalog.BySlot(model.SlotMorningFasting)), first)
	for _, n := range sender.published {
		assert.Equal(t, "ABC123", n.PatientID)
		assert.NotEmpty(t, n.ID)
		assert.Contains(t, n.Title, "reminder")
	}

	// a second tick at the same time republishes nothing
	s.tick(context.Background())
	assert.Len(t, sender.published, first)
}

func TestTick_NilSenderOnlyRecords(t *testing.T) {
	st := enabledState()
	profile := newFakeProfile(st)

	s := NewScheduler(profile, nil, zap.NewNop())
	slotHour := catalog.SlotHours[model.SlotMorningFasting]
	s.now = func() time.Time {
		return time.Date(2025, 3, 10, slotHour, 0, 0, 0, time.UTC)
	}

	s.tick(context.Background())
	assert.NotEmpty(t, profile.sent)
}
