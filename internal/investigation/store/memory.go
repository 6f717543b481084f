package store

import (
	"context"
	"sort"
	"sync"

	"argus/pkg/platform/sentinel"
)

// MemoryStore keeps investigations in process memory. Used in tests and as
// the default when no database is configured.
type MemoryStore struct {
	mu             sync.RWMutex
	investigations map[string]*Investigation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{investigations: make(map[string]*Investigation)}
}

func (s *MemoryStore) Save(_ context.Context, inv *Investigation) error {
	if inv == nil || inv.ID == "" {
		return sentinel.ErrInvalidState
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.investigations[inv.ID] = inv
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Investigation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.investigations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return inv, nil
}

func (s *MemoryStore) ListByEntity(_ context.Context, entityID string) ([]*Investigation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Investigation
	for _, inv := range s.investigations {
		if inv.EntityID == entityID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
