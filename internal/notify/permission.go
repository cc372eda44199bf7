package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenStore persists a device token for push delivery. Satisfied by
// syncbridge.Bridge.
type TokenStore interface {
	RegisterDeviceToken(ctx context.Context, patientID, token string) error
}

// Registrar handles the notification opt-in flow: when the patient enables
// notifications, a device token is generated and registered remotely so
// caregiver sessions can receive the patient's reminder feed.
type Registrar struct {
	tokens TokenStore
	logger *zap.Logger
}

// NewRegistrar creates a Registrar. A nil token store makes Enable a no-op
// beyond the local flag (no remote sync configured).
func NewRegistrar(tokens TokenStore, logger *zap.Logger) *Registrar {
	return &Registrar{tokens: tokens, logger: logger}
}

// Enable registers a fresh device token for the patient and returns it.
func (r *Registrar) Enable(ctx context.Context, patientID string) (string, error) {
	token := uuid.New().String()
	if r.tokens == nil {
		r.logger.Debug("notification token not registered, sync disabled")
		return token, nil
	}
	if err := r.tokens.RegisterDeviceToken(ctx, patientID, token); err != nil {
		return "", fmt.Errorf("failed to register device token: %w", err)
	}
	r.logger.Info("device token registered", zap.String("patient_id", patientID))
	return token, nil
}
