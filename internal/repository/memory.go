package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

type memorySession struct {
	mu       sync.RWMutex
	sessions map[string]entity.Session
}

// NewMemorySessionRepository keeps sessions in process memory. They are gone on restart.
func NewMemorySessionRepository() SessionRepository {
	return &memorySession{
		sessions: make(map[string]entity.Session),
	}
}

func (that *memorySession) Save(_ context.Context, session *entity.Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[session.ID] = *session

	return nil
}

func (that *memorySession) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	session, ok := that.sessions[id]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return &session, nil
}

func (that *memorySession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.sessions, id)

	return nil
}
