package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumabay/storechat/internal/model/chat"
)

// MemoryStore keeps sessions in a process-local map. Safe for concurrent
// access; best suited for tests and single-instance deployments. Sessions
// are never evicted, so memory grows with the number of distinct visitors
// until restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]chat.Session
	turns    map[string][]chat.Turn
}

// NewMemoryStore bootstraps an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]chat.Session),
		turns:    make(map[string][]chat.Turn),
	}
}

// GetOrCreate returns an existing session or lazily creates one.
func (s *MemoryStore) GetOrCreate(_ context.Context, id string) (chat.Session, error) {
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[id]; ok {
		return session, nil
	}

	session := chat.Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
	}
	s.sessions[id] = session
	s.turns[id] = make([]chat.Turn, 0, 16)
	return session, nil
}

// Turns returns a copy of the stored history so callers cannot mutate
// internal state.
func (s *MemoryStore) Turns(_ context.Context, sessionID string) ([]chat.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns, ok := s.turns[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Turn, len(turns))
	copy(copied, turns)
	return copied, nil
}

// AppendTurn appends a turn to the session history.
func (s *MemoryStore) AppendTurn(_ context.Context, sessionID string, turn chat.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}

	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	s.turns[sessionID] = append(s.turns[sessionID], turn)
	return nil
}

var _ Store = (*MemoryStore)(nil)
