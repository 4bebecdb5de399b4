package calibration

import (
	"context"
	"sync"
)

// Store persists the calibration state between runs.
// Load returns ErrNoState when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, s *State) error
}

// MemoryStore keeps state in process. It backs tests and the "memory" backend.
type MemoryStore struct {
	mu    sync.RWMutex
	state *State
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the saved state.
func (m *MemoryStore) Load(ctx context.Context) (*State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return nil, ErrNoState
	}
	return m.state.Clone(), nil
}

// Save replaces the saved state with a copy of s.
func (m *MemoryStore) Save(ctx context.Context, s *State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s.Clone()
	return nil
}
