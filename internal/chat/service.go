package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/nikhilbhutani/chatbot-backend/internal/assistant"
	"github.com/nikhilbhutani/chatbot-backend/internal/company"
	"github.com/nikhilbhutani/chatbot-backend/internal/models"
	"github.com/nikhilbhutani/chatbot-backend/internal/session"
)

// MaxMessageLength bounds a single chat message, counted in characters.
const MaxMessageLength = 2000

var ErrInvalidMessage = errors.New("invalid message")

// Request is one chat turn from the widget.
type Request struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	Site      string `json:"site"`
}

// Response is the assistant's reply. SessionID echoes the client's
// identifier, or the hosted thread id when the client supplied none.
type Response struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	Timestamp string `json:"timestamp"`
}

// Service orchestrates a chat turn: tenant resolution, thread reuse, the
// hosted assistant run, and reply post-processing. Session bookkeeping is
// best-effort; its failures are logged, never surfaced.
type Service struct {
	companies company.Store
	sessions  session.Store
	runner    assistant.Runner
}

func NewService(companies company.Store, sessions session.Store, runner assistant.Runner) *Service {
	return &Service{companies: companies, sessions: sessions, runner: runner}
}

func (s *Service) Handle(ctx context.Context, req Request) (*Response, error) {
	if req.Message == "" {
		return nil, fmt.Errorf("%w: message required", ErrInvalidMessage)
	}
	if utf8.RuneCountInString(req.Message) > MaxMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", ErrInvalidMessage, MaxMessageLength)
	}
	if req.Site == "" {
		return nil, fmt.Errorf("%w: site required", ErrInvalidMessage)
	}

	c, err := s.companies.GetActive(ctx, req.Site)
	if err != nil {
		return nil, err
	}
	if c.AssistantID == nil || *c.AssistantID == "" {
		return nil, fmt.Errorf("%w: %s", company.ErrNotConfigured, req.Site)
	}

	threadID := ""
	sessionID := req.SessionID
	var known *models.ChatSession
	if sessionID != "" {
		known, err = s.sessions.Get(ctx, sessionID)
		switch {
		case err == nil:
			if known.SiteID != c.SiteID {
				// session belongs to another tenant; never reuse its thread
				slog.Warn("session site mismatch, starting fresh thread",
					"session_id", sessionID, "session_site", known.SiteID, "site", c.SiteID)
				known = nil
				sessionID = ""
			} else {
				threadID = known.ThreadID
			}
		case errors.Is(err, session.ErrNotFound):
		default:
			slog.Warn("session lookup failed", "session_id", sessionID, "error", err)
		}
	}

	reply, threadID, err := s.runner.RunMessage(ctx, *c.AssistantID, threadID, req.Message)
	if err != nil {
		return nil, err
	}
	reply = assistant.StripCitations(reply)

	if sessionID == "" {
		sessionID = threadID
	}
	s.recordTurn(ctx, known, sessionID, c.SiteID, threadID)

	return &Response{
		Response:  reply,
		SessionID: sessionID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (s *Service) recordTurn(ctx context.Context, known *models.ChatSession, sessionID, siteID, threadID string) {
	if known != nil {
		if err := s.sessions.Touch(ctx, sessionID); err != nil {
			slog.Warn("session touch failed", "session_id", sessionID, "error", err)
		}
		return
	}

	err := s.sessions.Create(ctx, &models.ChatSession{
		ID:           uuid.New(),
		SessionID:    sessionID,
		SiteID:       siteID,
		ThreadID:     threadID,
		MessageCount: 1,
	})
	if err != nil {
		slog.Warn("session create failed", "session_id", sessionID, "error", err)
	}
}
