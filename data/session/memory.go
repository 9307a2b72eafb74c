package session

import (
	"context"
	"sync"

	"github.com/amanmoon/my-stocks/internal/model"
)

// MemorySession keeps chat sessions in process memory. Sessions are
// deliberately not persisted: the terminal resets on every restart.
type MemorySession struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
}

func NewMemorySession() *MemorySession {
	return &MemorySession{sessions: make(map[string]model.Session)}
}

func (s *MemorySession) GetSession(ctx context.Context, key string) (model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[key]
	if !ok {
		return model.Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *MemorySession) SetSession(ctx context.Context, key string, sess model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[key] = sess
	return nil
}
