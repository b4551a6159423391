// Package memory provides an in-process SnapshotStore, mainly for tests
// and single-process hosts.
package memory

import (
	"context"
	"sync"

	"github.com/espalierhq/espalier/pkg/domain"
)

// Store implements ports.SnapshotStore in memory. Safe for concurrent
// use; snapshots are deep-copied on both write and read so callers and
// the store never alias maps.
type Store struct {
	mu   sync.RWMutex
	data map[string]domain.Snapshot
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string]domain.Snapshot)}
}

// Save persists the snapshot in memory.
func (s *Store) Save(ctx context.Context, machineID string, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[machineID] = snap.Clone()
	return nil
}

// Load retrieves a copy of the stored snapshot.
func (s *Store) Load(ctx context.Context, machineID string) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[machineID]
	if !ok {
		return domain.Snapshot{}, domain.ErrSnapshotNotFound
	}
	return snap.Clone(), nil
}

// Delete removes the stored snapshot.
func (s *Store) Delete(ctx context.Context, machineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, machineID)
	return nil
}

// List returns the machine IDs with a stored snapshot.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
