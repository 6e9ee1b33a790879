package memory

import (
	"context"
	"sync"

	"flag-quiz-service/internal/domain"
)

type storedState struct {
	payload []byte
	seq     uint64
}

// SessionStore is an in-memory implementation of game.SessionStore.
type SessionStore struct {
	mu     sync.RWMutex
	states map[string]storedState
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		states: make(map[string]storedState),
	}
}

func (s *SessionStore) Save(_ context.Context, playerID string, state []byte, seq uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.states[playerID]; ok && seq <= existing.seq {
		return domain.ErrStaleWrite
	}
	payload := make([]byte, len(state))
	copy(payload, state)
	s.states[playerID] = storedState{payload: payload, seq: seq}
	return nil
}

func (s *SessionStore) Load(_ context.Context, playerID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.states[playerID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	payload := make([]byte, len(stored.payload))
	copy(payload, stored.payload)
	return payload, nil
}

func (s *SessionStore) Delete(_ context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, playerID)
	return nil
}
