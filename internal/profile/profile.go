// Package profile owns the patient profile aggregate: the adherence ledger,
// the daily health report, the activity history, identity and caregiver mode.
// All mutation goes through Service, which checks the caregiver-mode guard at
// the moment of each attempt, persists synchronously, and only then lets the
// outward push happen.
package profile

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sahaty/medtrack/internal/catalog"
	"github.com/sahaty/medtrack/internal/store"
	"github.com/sahaty/medtrack/pkg/model"
)

// historyLimit bounds the activity history; toggles beyond it silently drop
// the oldest entries.
const historyLimit = 50

// timestampLayout is the time-of-day format recorded on activity events.
const timestampLayout = "15:04"

// Pusher sends the full aggregate to the remote document store. Push failures
// are logged and never retried here.
type Pusher interface {
	Push(ctx context.Context, patientID string, st model.PatientState) error
}

// Service is the single writer of the profile aggregate.
type Service struct {
	mu     sync.Mutex
	state  model.PatientState
	local  store.Store
	pusher Pusher
	logger *zap.Logger
	now    func() time.Time
}

// NewService loads the persisted snapshot, normalizes it to today via the
// rollover engine, and persists the normalized result. An unreadable or
// corrupt snapshot falls back to a fresh profile and is never fatal.
func NewService(ctx context.Context, local store.Store, pusher Pusher, logger *zap.Logger) (*Service, error) {
	s := &Service{
		local:  local,
		pusher: pusher,
		logger: logger,
		now:    time.Now,
	}

	prev, err := local.Load(ctx)
	if err != nil {
		if errors.Is(err, store.ErrCorrupt) {
			logger.Warn("persisted state corrupt, starting fresh profile", zap.Error(err))
		} else {
			logger.Warn("failed to load persisted state, starting fresh profile", zap.Error(err))
		}
		prev = nil
	}

	today := s.now().Format(DateLayout)
	s.state = Rollover(prev, today)

	snap := cloneState(s.state)
	if err := local.Save(ctx, snap); err != nil {
		// The session still runs; the next successful save catches up.
		logger.Error("failed to persist normalized state", zap.Error(err))
	}

	logger.Info("profile loaded",
		zap.String("patient_id", s.state.PatientID),
		zap.String("report_date", s.state.CurrentReport.Date),
		zap.Bool("caregiver_mode", s.state.CaregiverMode),
	)

	s.pushAsync(snap)
	return s, nil
}

// Snapshot returns a deep copy of the aggregate.
func (s *Service) Snapshot() model.PatientState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// ToggleMedication flips the taken flag for a medication and prepends one
// activity event. It is a silent no-op in caregiver mode. Every toggle is
// logged to history, including reversions.
func (s *Service) ToggleMedication(ctx context.Context, medID string) model.PatientState {
	s.mu.Lock()
	if s.state.CaregiverMode {
		snap := cloneState(s.state)
		s.mu.Unlock()
		return snap
	}

	taken := !s.state.TakenMedications[medID]
	s.state.TakenMedications[medID] = taken

	details := medID
	if med, ok := catalog.ByID(medID); ok {
		details = med.Name
	}
	action := model.ActionTaken
	if !taken {
		action = model.ActionReverted
	}

	now := s.now()
	event := model.ActivityEvent{
		Date:      now.Format(DateLayout),
		Action:    action,
		Details:   details,
		Timestamp: now.Format(timestampLayout),
	}
	s.state.History = append([]model.ActivityEvent{event}, s.state.History...)
	if len(s.state.History) > historyLimit {
		s.state.History = s.state.History[:historyLimit]
	}

	snap := s.persistLocked(ctx)
	s.mu.Unlock()

	s.pushAsync(snap)
	return snap
}

// ReportPatch is a shallow partial update of the current health report.
// Nil fields are left unchanged.
type ReportPatch struct {
	HealthRating *int
	PainLevel    *int
	PainLocation *string
	SleepQuality *model.QualityLevel
	Appetite     *model.QualityLevel
	Symptoms     *[]string
	Notes        *string
}

// UpdateReport merges the patch into the current report. Silent no-op in
// caregiver mode.
func (s *Service) UpdateReport(ctx context.Context, patch ReportPatch) model.PatientState {
	s.mu.Lock()
	if s.state.CaregiverMode {
		snap := cloneState(s.state)
		s.mu.Unlock()
		return snap
	}

	s.applyPatchLocked(patch)

	snap := s.persistLocked(ctx)
	s.mu.Unlock()

	s.pushAsync(snap)
	return snap
}

// ToggleSymptom adds the tag to the current report's symptom set if absent,
// or removes it if present. It goes through the same merge path as
// UpdateReport and is therefore suppressed in caregiver mode too.
func (s *Service) ToggleSymptom(ctx context.Context, symptom string) model.PatientState {
	s.mu.Lock()
	if s.state.CaregiverMode {
		snap := cloneState(s.state)
		s.mu.Unlock()
		return snap
	}

	current := s.state.CurrentReport.Symptoms
	next := make([]string, 0, len(current)+1)
	found := false
	for _, sym := range current {
		if sym == symptom {
			found = true
			continue
		}
		next = append(next, sym)
	}
	if !found {
		next = append(next, symptom)
	}
	s.applyPatchLocked(ReportPatch{Symptoms: &next})

	snap := s.persistLocked(ctx)
	s.mu.Unlock()

	s.pushAsync(snap)
	return snap
}

// AddCustomSymptom appends a trimmed label to the custom symptom list.
// Whitespace-only input is rejected; duplicates are not rejected.
func (s *Service) AddCustomSymptom(ctx context.Context, label string) model.PatientState {
	trimmed := strings.TrimSpace(label)

	s.mu.Lock()
	if s.state.CaregiverMode || trimmed == "" {
		snap := cloneState(s.state)
		s.mu.Unlock()
		return snap
	}

	s.state.CustomSymptoms = append(s.state.CustomSymptoms, trimmed)

	snap := s.persistLocked(ctx)
	s.mu.Unlock()

	s.pushAsync(snap)
	return snap
}

// SetMedicationIcon sets a preset icon name or inline image payload for a
// medication. Icons are cosmetic and not gated by caregiver mode.
func (s *Service) SetMedicationIcon(ctx context.Context, medID, icon string) model.PatientState {
	s.mu.Lock()
	s.state.MedicationCustomizations[medID] = model.IconCustomization{Icon: icon}

	snap := s.persistLocked(ctx)
	s.mu.Unlock()

	s.pushAsync(snap)
	return snap
}

// SetCaregiverMode toggles caregiver mode. Turning it off clears the target
// identifier and resumes local authorship.
func (s *Service) SetCaregiverMode(ctx context.Context, enabled bool) model.PatientState {
	s.mu.Lock()
	s.state.CaregiverMode = enabled
	if !enabled {
		s.state.CaregiverTargetID = ""
	}

	snap := s.persistLocked(ctx)
	s.mu.Unlock()

	s.pushAsync(snap)
	return snap
}

// SetCaregiverTarget records the identifier of the patient being observed.
func (s *Service) SetCaregiverTarget(ctx context.Context, targetID string) model.PatientState {
	s.mu.Lock()
	s.state.CaregiverTargetID = strings.ToUpper(strings.TrimSpace(targetID))

	snap := s.persistLocked(ctx)
	s.mu.Unlock()

	s.pushAsync(snap)
	return snap
}

// SetNotificationsEnabled flips the reminder-notifications flag.
func (s *Service) SetNotificationsEnabled(ctx context.Context, enabled bool) model.PatientState {
	s.mu.Lock()
	s.state.NotificationsEnabled = enabled

	snap := s.persistLocked(ctx)
	s.mu.Unlock()

	s.pushAsync(snap)
	return snap
}

// SetPatientInfo updates the display name and age. Nil fields are unchanged.
func (s *Service) SetPatientInfo(ctx context.Context, name *string, age *int) model.PatientState {
	s.mu.Lock()
	if name != nil {
		s.state.PatientName = *name
	}
	if age != nil {
		s.state.PatientAge = *age
	}

	snap := s.persistLocked(ctx)
	s.mu.Unlock()

	s.pushAsync(snap)
	return snap
}

// SetReminderTime records a custom reminder time ("HH:MM") for a medication,
// overriding its slot's default hour. An empty value removes the override.
func (s *Service) SetReminderTime(ctx context.Context, medID, hhmm string) model.PatientState {
	s.mu.Lock()
	if s.state.CaregiverMode {
		snap := cloneState(s.state)
		s.mu.Unlock()
		return snap
	}

	if hhmm == "" {
		delete(s.state.CustomReminderTimes, medID)
	} else {
		s.state.CustomReminderTimes[medID] = hhmm
	}

	snap := s.persistLocked(ctx)
	s.mu.Unlock()

	s.pushAsync(snap)
	return snap
}

// RecordSentNotification marks a reminder key as sent for the current day.
// It returns true when the key was newly recorded, false when it was already
// present or the profile is not accepting reminders.
func (s *Service) RecordSentNotification(ctx context.Context, key string) bool {
	s.mu.Lock()
	if s.state.CaregiverMode || !s.state.NotificationsEnabled {
		s.mu.Unlock()
		return false
	}
	for _, sent := range s.state.SentNotifications {
		if sent == key {
			s.mu.Unlock()
			return false
		}
	}
	s.state.SentNotifications = append(s.state.SentNotifications, key)

	snap := s.persistLocked(ctx)
	s.mu.Unlock()

	s.pushAsync(snap)
	return true
}

// ApplyRemote merges a remote snapshot received for the caregiver target.
// Every field is overwritten except the local caregiver-mode flag and target
// identifier, which are preserved so the viewer keeps its subscription
// pointer. The merge is discarded if caregiver mode has been turned off in
// the meantime, and a mirrored copy is never pushed back out.
func (s *Service) ApplyRemote(ctx context.Context, remote model.PatientState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.CaregiverMode {
		s.logger.Debug("remote snapshot discarded, caregiver mode off")
		return
	}

	mode := s.state.CaregiverMode
	target := s.state.CaregiverTargetID

	backfill(&remote)
	s.state = remote
	s.state.CaregiverMode = mode
	s.state.CaregiverTargetID = target

	s.persistLocked(ctx)
}

// ResetDay reloads the persisted snapshot and re-runs the rollover engine.
// On an unchanged date this is a no-op by rollover idempotence.
func (s *Service) ResetDay(ctx context.Context) model.PatientState {
	prev, err := s.local.Load(ctx)
	if err != nil {
		s.logger.Warn("day reset could not reload persisted state", zap.Error(err))
		prev = nil
	}

	today := s.now().Format(DateLayout)
	normalized := Rollover(prev, today)

	s.mu.Lock()
	s.state = normalized
	snap := s.persistLocked(ctx)
	s.mu.Unlock()

	s.pushAsync(snap)
	return snap
}

// Completion returns the taken count, catalog size, and completion
// percentage of today's ledger.
func (s *Service) Completion() (taken, total int, percent float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, isTaken := range s.state.TakenMedications {
		if isTaken {
			taken++
		}
	}
	total = catalog.Count()
	if total > 0 {
		percent = float64(taken) / float64(total) * 100
	}
	return taken, total, percent
}

// SymptomVocabulary returns the built-in symptom list followed by the custom
// symptoms, in insertion order.
func (s *Service) SymptomVocabulary() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	vocab := make([]string, 0, len(catalog.BuiltinSymptoms)+len(s.state.CustomSymptoms))
	vocab = append(vocab, catalog.BuiltinSymptoms...)
	vocab = append(vocab, s.state.CustomSymptoms...)
	return vocab
}

// applyPatchLocked shallow-merges a report patch. Caller holds the lock.
func (s *Service) applyPatchLocked(patch ReportPatch) {
	report := &s.state.CurrentReport
	if patch.HealthRating != nil {
		report.HealthRating = *patch.HealthRating
	}
	if patch.PainLevel != nil {
		report.PainLevel = *patch.PainLevel
	}
	if patch.PainLocation != nil {
		report.PainLocation = *patch.PainLocation
	}
	if patch.SleepQuality != nil {
		report.SleepQuality = *patch.SleepQuality
	}
	if patch.Appetite != nil {
		report.Appetite = *patch.Appetite
	}
	if patch.Symptoms != nil {
		report.Symptoms = append([]string(nil), (*patch.Symptoms)...)
	}
	if patch.Notes != nil {
		report.Notes = *patch.Notes
	}
}

// persistLocked writes the aggregate to the local store synchronously,
// strictly before any outward push, and returns a deep-copied snapshot.
// Caller holds the lock.
func (s *Service) persistLocked(ctx context.Context) model.PatientState {
	snap := cloneState(s.state)
	if err := s.local.Save(ctx, snap); err != nil {
		s.logger.Error("failed to persist state", zap.Error(err))
	}
	return snap
}

// pushAsync dispatches the outward sync as a separately-sequenced task. A
// device in caregiver mode never pushes: it would overwrite the observed
// patient's document with the mirrored copy it just received.
func (s *Service) pushAsync(snap model.PatientState) {
	if s.pusher == nil || snap.CaregiverMode {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.pusher.Push(ctx, snap.PatientID, snap); err != nil {
			s.logger.Warn("state push failed",
				zap.Error(err),
				zap.String("patient_id", snap.PatientID),
			)
		}
	}()
}

// cloneState deep-copies the aggregate so snapshots never alias live maps.
func cloneState(st model.PatientState) model.PatientState {
	out := st
	out.TakenMedications = make(map[string]bool, len(st.TakenMedications))
	for k, v := range st.TakenMedications {
		out.TakenMedications[k] = v
	}
	out.SentNotifications = append([]string(nil), st.SentNotifications...)
	if out.SentNotifications == nil {
		out.SentNotifications = []string{}
	}
	out.CustomReminderTimes = make(map[string]string, len(st.CustomReminderTimes))
	for k, v := range st.CustomReminderTimes {
		out.CustomReminderTimes[k] = v
	}
	out.MedicationCustomizations = make(map[string]model.IconCustomization, len(st.MedicationCustomizations))
	for k, v := range st.MedicationCustomizations {
		out.MedicationCustomizations[k] = v
	}
	out.CustomSymptoms = append([]string(nil), st.CustomSymptoms...)
	if out.CustomSymptoms == nil {
		out.CustomSymptoms = []string{}
	}
	out.History = append([]model.ActivityEvent(nil), st.History...)
	if out.History == nil {
		out.History = []model.ActivityEvent{}
	}
	out.DailyReports = make(map[string]model.HealthReport, len(st.DailyReports))
	for date, report := range st.DailyReports {
		report.Symptoms = append([]string(nil), report.Symptoms...)
		out.DailyReports[date] = report
	}
	out.CurrentReport.Symptoms = append([]string(nil), st.CurrentReport.Symptoms...)
	if out.CurrentReport.Symptoms == nil {
		out.CurrentReport.Symptoms = []string{}
	}
	return out
}
