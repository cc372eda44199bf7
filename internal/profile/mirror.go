package profile

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sahaty/medtrack/pkg/model"
)

// Subscription is a cancellable handle on a standing remote feed.
type Subscription interface {
	Unsubscribe()
}

// Watcher delivers discrete remote updates until unsubscribed.
type Watcher interface {
	// WatchPatient delivers the target's document every time it changes.
	WatchPatient(patientID string, fn func(model.PatientState)) (Subscription, error)
	// WatchNotifications delivers newly-added notification records for the
	// given patient, most recent first, one at a time.
	WatchNotifications(patientID string, fn func(model.Notification)) (Subscription, error)
}

// Mirror manages the caregiver-mode subscriptions: the observed patient's
// document feed and the local patient's own notification feed. At most one
// of each is ever active; the previous subscription is always torn down
// before a new one is established, so there are never two merge sources.
type Mirror struct {
	svc      *Service
	watcher  Watcher
	logger   *zap.Logger
	onNotify func(model.Notification)

	mu         sync.Mutex
	patientSub Subscription
	notifSub   Subscription
}

// NewMirror wires a mirror over the aggregate service. onNotify receives
// incoming notification records; nil means they are only logged.
func NewMirror(svc *Service, watcher Watcher, onNotify func(model.Notification), logger *zap.Logger) *Mirror {
	return &Mirror{
		svc:      svc,
		watcher:  watcher,
		logger:   logger,
		onNotify: onNotify,
	}
}

// Refresh reconciles subscriptions with the current mode state. It must be
// called after every caregiver-mode or target change. Subscription failures
// are logged and degrade silently to local-only operation.
func (m *Mirror) Refresh() {
	snap := m.svc.Snapshot()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()

	if !snap.CaregiverMode || snap.CaregiverTargetID == "" {
		return
	}

	patientSub, err := m.watcher.WatchPatient(snap.CaregiverTargetID, func(remote model.PatientState) {
		m.svc.ApplyRemote(context.Background(), remote)
	})
	if err != nil {
		m.logger.Warn("failed to subscribe to patient document",
			zap.Error(err),
			zap.String("target_id", snap.CaregiverTargetID),
		)
	} else {
		m.patientSub = patientSub
	}

	notifSub, err := m.watcher.WatchNotifications(snap.PatientID, func(n model.Notification) {
		m.logger.Info("notification received",
			zap.String("notification_id", n.ID),
			zap.String("title", n.Title),
		)
		if m.onNotify != nil {
			m.onNotify(n)
		}
	})
	if err != nil {
		m.logger.Warn("failed to subscribe to notification feed",
			zap.Error(err),
			zap.String("patient_id", snap.PatientID),
		)
	} else {
		m.notifSub = notifSub
	}

	m.logger.Info("caregiver subscriptions established",
		zap.String("target_id", snap.CaregiverTargetID),
	)
}

// Close tears down any active subscriptions.
func (m *Mirror) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()
}

func (m *Mirror) teardownLocked() {
	if m.patientSub != nil {
		m.patientSub.Unsubscribe()
		m.patientSub = nil
	}
	if m.notifSub != nil {
		m.notifSub.Unsubscribe()
		m.notifSub = nil
	}
}
