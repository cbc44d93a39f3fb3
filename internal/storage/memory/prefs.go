package memory

import (
	"context"
	"sync"

	"github.com/kamga/mokolo/internal/prefs"
)

var _ prefs.Store = (*PrefsStore)(nil)

// PrefsStore is an in-memory prefs.Store.
type PrefsStore struct {
	mu        sync.RWMutex
	snapshots map[string]prefs.Snapshot
}

// NewPrefsStore returns an empty in-memory snapshot store.
func NewPrefsStore() *PrefsStore {
	return &PrefsStore{snapshots: make(map[string]prefs.Snapshot)}
}

// Get returns the stored snapshot for the user.
func (s *PrefsStore) Get(_ context.Context, userID string) (*prefs.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[userID]
	if !ok {
		return nil, prefs.ErrNotFound
	}
	return &snap, nil
}

// Put stores the snapshot, replacing any previous one.
func (s *PrefsStore) Put(_ context.Context, userID string, snap prefs.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[userID] = snap
	return nil
}
