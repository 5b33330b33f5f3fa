// Package memory is an in-memory BackupWriter used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"sync"

	"subtracker/internal/core"
	ports "subtracker/internal/sheets"
)

type Store struct {
	mu        sync.Mutex
	snapshots []core.Snapshot
}

var _ ports.BackupWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) WriteBackup(_ context.Context, snap core.Snapshot) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snap)
	return len(snap.Subscriptions), nil
}

// Backups returns a copy of every snapshot written so far.
func (s *Store) Backups() []core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Snapshot(nil), s.snapshots...)
}
