package session

import (
	"sync"

	"compostbot/internal/domain"
)

// MemoryStore holds conversation history in process memory, keyed by
// session id. History does not survive a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]domain.ChatTurn
}

// NewMemoryStore creates an empty session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]domain.ChatTurn)}
}

// History returns a copy of the session's turns, oldest first.
func (s *MemoryStore) History(sessionID string) []domain.ChatTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := s.sessions[sessionID]
	out := make([]domain.ChatTurn, len(turns))
	copy(out, turns)
	return out
}

// Append records a completed turn for the session.
func (s *MemoryStore) Append(sessionID string, turn domain.ChatTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], turn)
}

var _ domain.SessionStore = (*MemoryStore)(nil)
