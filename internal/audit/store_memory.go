package audit

import (
	"context"
	"sync"
)

// MemoryStore keeps audit events in process memory, ordered by arrival.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryStore) ListByInvestigation(_ context.Context, investigationID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, event := range s.events {
		if event.InvestigationID == investigationID {
			out = append(out, event)
		}
	}
	return out, nil
}
