package memory

import (
	"context"
	"sync"

	"metalwatch/internal/metals"
)

// Store keeps the snapshot in process memory. It also records every save,
// which tests use to check that a run persisted exactly once.
type Store struct {
	mu    sync.Mutex
	snap  metals.Snapshot
	ok    bool
	saves []metals.Snapshot
}

func NewStore() *Store {
	return &Store{}
}

// NewStoreWith returns a store that already holds snap.
func NewStoreWith(snap metals.Snapshot) *Store {
	return &Store{snap: snap, ok: true}
}

func (m *Store) Load(_ context.Context) (metals.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, m.ok, nil
}

func (m *Store) Save(_ context.Context, snap metals.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap, m.ok = snap, true
	m.saves = append(m.saves, snap)
	return nil
}

// Saves returns a copy of every snapshot saved so far.
func (m *Store) Saves() []metals.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]metals.Snapshot, len(m.saves))
	copy(out, m.saves)
	return out
}
