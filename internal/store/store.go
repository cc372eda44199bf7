// Package store persists the patient profile aggregate as a single
// serialized blob under a fixed, versioned key. It is read once at startup
// and written after every state change.
package store

import (
	"context"
	"errors"

	"github.com/sahaty/medtrack/pkg/model"
)

// StateKey is the versioned key the profile blob lives under. Bump the suffix
// when the persisted schema changes incompatibly.
const StateKey = "medtrack/state/v12"

// ErrCorrupt reports that the persisted blob exists but cannot be decoded.
// Callers recover by falling back to a fresh profile; the error is never
// surfaced to the user.
var ErrCorrupt = errors.New("persisted state is corrupt")

// Store is the local durable store for the profile aggregate. Load returns
// (nil, nil) when no snapshot has been persisted yet.
type Store interface {
	Load(ctx context.Context) (*model.PatientState, error)
	Save(ctx context.Context, st model.PatientState) error
	Close() error
}
