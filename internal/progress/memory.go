package progress

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/tryon-service/internal/domain"
)

// MemoryStore is a process-local Store for single-instance deployments.
// Entries are lost on restart; clients observe that as "not found".
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]domain.ProgressEntry
}

// NewMemoryStore initializes an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]domain.ProgressEntry)}
}

// Record overwrites the entry for the task id (last write wins).
func (s *MemoryStore) Record(_ context.Context, entry domain.ProgressEntry) error {
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}
	s.mu.Lock()
	s.entries[entry.TaskID] = entry
	s.mu.Unlock()
	return nil
}

// Get returns the last-recorded entry or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, taskID string) (*domain.ProgressEntry, error) {
	s.mu.RLock()
	entry, ok := s.entries[taskID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return &entry, nil
}
