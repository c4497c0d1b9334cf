package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession maps an external session identifier to a hosted conversation
// thread. Created lazily on the first chat turn; purely analytics, the chat
// path stays correct without it.
type ChatSession struct {
	ID           uuid.UUID `json:"id" db:"id"`
	SessionID    string    `json:"session_id" db:"session_id"`
	SiteID       string    `json:"site_id" db:"site_id"`
	ThreadID     string    `json:"thread_id" db:"thread_id"`
	MessageCount int       `json:"message_count" db:"message_count"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	LastActivity time.Time `json:"last_activity" db:"last_activity"`
}
