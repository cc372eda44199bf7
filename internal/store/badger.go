package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/sahaty/medtrack/pkg/model"
)

// BadgerStore keeps the profile blob in an embedded BadgerDB at the
// configured data directory.
type BadgerStore struct {
	db     *badger.DB
	logger *zap.Logger
}

// NewBadgerStore opens (or creates) the database at path.
func NewBadgerStore(path string, logger *zap.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1).
		WithCompactL0OnClose(true).
		WithValueLogFileSize(16 << 20).
		WithMemTableSize(16 << 20)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	return &BadgerStore{db: db, logger: logger}, nil
}

// Load reads the profile blob. A missing key is not an error; an undecodable
// blob is reported as ErrCorrupt.
func (s *BadgerStore) Load(_ context.Context) (*model.PatientState, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(StateKey))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var st model.PatientState
	if err := json.Unmarshal(raw, &st); err != nil {
		s.logger.Warn("persisted state failed to decode",
			zap.Error(err),
			zap.Int("blob_size", len(raw)),
		)
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	return &st, nil
}

// Save serializes the aggregate and writes it under the versioned key.
func (s *BadgerStore) Save(_ context.Context, st model.PatientState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(StateKey), raw)
	})
	if err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}

	return nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// SetRaw writes an arbitrary payload under the versioned key. It exists for
// tests that need to simulate a corrupt or legacy blob.
func (s *BadgerStore) SetRaw(raw []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(StateKey), raw)
	})
}
