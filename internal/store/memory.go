package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sahaty/medtrack/pkg/model"
)

// MemoryStore is an in-process Store used by tests. It round-trips through
// JSON so it surfaces the same serialization behavior as the durable store.
type MemoryStore struct {
	mu   sync.Mutex
	blob []byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (*model.PatientState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blob == nil {
		return nil, nil
	}
	var st model.PatientState
	if err := json.Unmarshal(s.blob, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &st, nil
}

func (s *MemoryStore) Save(_ context.Context, st model.PatientState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	s.mu.Lock()
	s.blob = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
