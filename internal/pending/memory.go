package pending

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stockbridge/stockbridge/internal/integrations/inventory"
)

// MemoryStore is the in-process Store implementation. A mutex serializes all
// access, which makes Take trivially atomic; expired entries are swept on
// every operation.
type MemoryStore struct {
	mu      sync.Mutex
	moves   map[string]memoryEntry
	nowFunc func() time.Time
}

type memoryEntry struct {
	move      Move
	expiresAt time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{moves: make(map[string]memoryEntry), nowFunc: time.Now}
}

// Put stores the move, overwriting any existing draft for the same ID.
func (s *MemoryStore) Put(_ context.Context, id string, req inventory.Adjustment, ttl time.Duration) error {
	if id == "" {
		return errors.New("pending: correlation id required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.nowFunc()
	s.sweep(now)
	s.moves[id] = memoryEntry{
		move:      Move{CorrelationID: id, Request: req, StoredAt: now.UTC()},
		expiresAt: now.Add(ttl),
	}
	return nil
}

// Get returns the move without consuming it.
func (s *MemoryStore) Get(_ context.Context, id string) (Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(s.nowFunc())
	entry, ok := s.moves[id]
	if !ok {
		return Move{}, ErrNotFound
	}
	return entry.move, nil
}

// Take returns and removes the move under the store lock.
func (s *MemoryStore) Take(_ context.Context, id string) (Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(s.nowFunc())
	entry, ok := s.moves[id]
	if !ok {
		return Move{}, ErrNotFound
	}
	delete(s.moves, id)
	return entry.move, nil
}

// Exists reports whether a move is held for the ID.
func (s *MemoryStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(s.nowFunc())
	_, ok := s.moves[id]
	return ok, nil
}

// ListIDs returns the held correlation IDs.
func (s *MemoryStore) ListIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(s.nowFunc())
	ids := make([]string, 0, len(s.moves))
	for id := range s.moves {
		ids = append(ids, id)
	}
	return ids, nil
}

// sweep drops expired entries. Callers must hold the lock.
func (s *MemoryStore) sweep(now time.Time) {
	for id, entry := range s.moves {
		if now.After(entry.expiresAt) {
			delete(s.moves, id)
		}
	}
}

var _ Store = (*MemoryStore)(nil)
