package session

import (
	"context"
	"errors"

	"github.com/nikhilbhutani/chatbot-backend/internal/models"
)

var ErrNotFound = errors.New("session not found")

// Store tracks chat sessions for analytics and thread reuse. Postgres is
// authoritative; a redis cache layer can be stacked on top with NewCached.
type Store interface {
	Create(ctx context.Context, sess *models.ChatSession) error
	Get(ctx context.Context, sessionID string) (*models.ChatSession, error)
	// Touch increments the message count and refreshes last_activity.
	Touch(ctx context.Context, sessionID string) error
}
