package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikhilbhutani/chatbot-backend/internal/models"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, sess *models.ChatSession) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO chat_sessions (id, session_id, site_id, thread_id, message_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, last_activity`,
		sess.ID, sess.SessionID, sess.SiteID, sess.ThreadID, sess.MessageCount,
	).Scan(&sess.CreatedAt, &sess.LastActivity)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	var sess models.ChatSession
	err := s.db.QueryRow(ctx, `
		SELECT id, session_id, site_id, thread_id, message_count, created_at, last_activity
		FROM chat_sessions WHERE session_id = $1`, sessionID,
	).Scan(&sess.ID, &sess.SessionID, &sess.SiteID, &sess.ThreadID,
		&sess.MessageCount, &sess.CreatedAt, &sess.LastActivity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &sess, nil
}

func (s *PGStore) Touch(ctx context.Context, sessionID string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE chat_sessions
		SET message_count = message_count + 1, last_activity = now()
		WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	return nil
}
