package cart

import (
	"context"
	"sync"
)

// MemoryStore keeps carts in process memory. Carts are lost on restart; use
// the Redis store when that matters.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]Line
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string][]Line),
	}
}

func (s *MemoryStore) Get(ctx context.Context, shopper string) ([]Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines, exists := s.carts[shopper]
	if !exists {
		return nil, nil
	}

	// Callers get an independent copy so held slices never observe later
	// mutations.
	out := make([]Line, len(lines))
	copy(out, lines)
	return out, nil
}

func (s *MemoryStore) Put(ctx context.Context, shopper string, lines []Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]Line, len(lines))
	copy(stored, lines)
	s.carts[shopper] = stored
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, shopper string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, shopper)
	return nil
}
