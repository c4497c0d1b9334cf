package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nikhilbhutani/chatbot-backend/internal/models"
)

// MemStore is an in-memory session store for tests.
type MemStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.ChatSession
}

func NewMemStore() *MemStore {
	return &MemStore{sessions: make(map[string]*models.ChatSession)}
}

func (s *MemStore) Create(_ context.Context, sess *models.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.SessionID]; exists {
		return fmt.Errorf("session %s already exists", sess.SessionID)
	}
	now := time.Now()
	sess.CreatedAt = now
	sess.LastActivity = now
	cp := *sess
	s.sessions[sess.SessionID] = &cp
	return nil
}

func (s *MemStore) Get(_ context.Context, sessionID string) (*models.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	cp := *sess
	return &cp, nil
}

func (s *MemStore) Touch(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	sess.MessageCount++
	sess.LastActivity = time.Now()
	return nil
}
