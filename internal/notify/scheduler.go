// Package notify drives medication reminders. A cron-backed scheduler wakes
// every minute, compares the wall clock against each time slot's reminder
// time, and publishes one notification per still-due medication. Duplicate
// suppression lives in the patient profile so it survives restarts and resets
// at day rollover.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sahaty/medtrack/internal/catalog"
	"github.com/sahaty/medtrack/pkg/model"
)

// Sender publishes a notification record to the remote feed. Satisfied by
// syncbridge.Bridge.
type Sender interface {
	PublishNotification(ctx context.Context, n model.Notification) error
}

// ProfileSource exposes the profile operations the scheduler needs.
type ProfileSource interface {
	Snapshot() model.PatientState
	RecordSentNotification(ctx context.Context, key string) bool
}

// Scheduler fires medication reminders at slot times.
type Scheduler struct {
	profile ProfileSource
	sender  Sender
	logger  *zap.Logger
	cron    *cron.Cron
	now     func() time.Time
}

// NewScheduler creates a reminder scheduler. A nil sender disables remote
// publishing; reminders are then only logged and recorded locally.
func NewScheduler(profile ProfileSource, sender Sender, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		profile: profile,
		sender:  sender,
		logger:  logger,
		cron:    cron.New(),
		now:     time.Now,
	}
}

// Start begins the minute tick. Call Stop to shut down.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("* * * * *", func() {
		s.tick(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder tick: %w", err)
	}
	s.cron.Start()
	s.logger.Info("reminder scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("reminder scheduler stopped")
}

// tick fires reminders for every medication due at the current minute.
func (s *Scheduler) tick(ctx context.Context) {
	st := s.profile.Snapshot()
	clock := s.now().Format("15:04")

	for _, med := range dueMedications(st, clock) {
		key := st.CurrentReport.Date + "/" + med.ID
		if !s.profile.RecordSentNotification(ctx, key) {
			continue
		}

		s.logger.Info("medication reminder due",
			zap.String("medication_id", med.ID),
			zap.String("slot", string(med.TimeSlot)),
		)

		if s.sender == nil {
			continue
		}
		n := model.Notification{
			ID:        uuid.New().String(),
			PatientID: st.PatientID,
			Title:     "Medication reminder",
			Body:      fmt.Sprintf("Time to take %s (%s)", med.Name, med.Dosage),
			CreatedAt: s.now().UTC(),
		}
		if err := s.sender.PublishNotification(ctx, n); err != nil {
			s.logger.Warn("failed to publish reminder", zap.String("medication_id", med.ID), zap.Error(err))
		}
	}
}

// dueMedications returns the medications whose reminder time matches the
// given HH:MM clock and which have not been taken today. Reminders are
// suppressed entirely in caregiver mode and when notifications are disabled.
func dueMedications(st model.PatientState, clock string) []model.Medication {
	if st.CaregiverMode || !st.NotificationsEnabled {
		return nil
	}

	var due []model.Medication
	for _, med := range catalog.Medications {
		if st.TakenMedications[med.ID] {
			continue
		}
		if reminderTime(st, med) != clock {
			continue
		}
		due = append(due, med)
	}
	return due
}

// reminderTime resolves a medication's reminder time, preferring the
// patient's per-medication override over the built-in slot hour.
func reminderTime(st model.PatientState, med model.Medication) string {
	if custom, ok := st.CustomReminderTimes[med.ID]; ok && custom != "" {
		return custom
	}
	return fmt.Sprintf("%02d:00", catalog.SlotHours[med.TimeSlot])
}
