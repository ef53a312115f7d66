package out

import (
	"context"
	"sync"

	"gear/internal/modules/timer/domain"
	timerout "gear/internal/modules/timer/port/out"
)

// MemoryHistoryStore keeps history for the lifetime of the process only.
type MemoryHistoryStore struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry
}

func NewMemoryHistoryStore() timerout.HistoryStore {
	return &MemoryHistoryStore{}
}

func (s *MemoryHistoryStore) Append(_ context.Context, entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryHistoryStore) List(_ context.Context) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.HistoryEntry(nil), s.entries...), nil
}
