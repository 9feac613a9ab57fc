package session

import (
	"context"
	"sync"

	"github.com/bibliotech/library-service/internal/core/domain"
	"github.com/bibliotech/library-service/internal/core/ports"
)

// MemoryStore keeps sessions in a mutex-guarded map. Sessions never
// expire and a process restart logs everyone out.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Identity
}

var _ ports.SessionStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]domain.Identity),
	}
}

func (s *MemoryStore) Create(ctx context.Context, identity domain.Identity) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.sessions[token] = identity
	s.mu.Unlock()

	return token, nil
}

func (s *MemoryStore) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	s.mu.RLock()
	identity, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &identity, nil
}

func (s *MemoryStore) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}
