package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/nikhilbhutani/chatbot-backend/internal/assistant"
	"github.com/nikhilbhutani/chatbot-backend/internal/company"
	"github.com/nikhilbhutani/chatbot-backend/internal/queue"
)

// AssistantSyncWorker rebuilds a tenant's hosted assistant instructions from
// its current system prompt and knowledge base.
type AssistantSyncWorker struct {
	companies company.Store
	syncer    assistant.Syncer
}

func NewAssistantSyncWorker(companies company.Store, syncer assistant.Syncer) *AssistantSyncWorker {
	return &AssistantSyncWorker{companies: companies, syncer: syncer}
}

func (w *AssistantSyncWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.AssistantSyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	c, err := w.companies.Get(ctx, payload.SiteID)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			// deleted between enqueue and processing; nothing to sync
			slog.Warn("assistant sync skipped, company gone", "site_id", payload.SiteID)
			return nil
		}
		return fmt.Errorf("load company %s: %w", payload.SiteID, err)
	}

	assistantID, err := w.syncer.Sync(ctx, c)
	if err != nil {
		return fmt.Errorf("sync assistant for %s: %w", payload.SiteID, err)
	}

	if c.AssistantID == nil || *c.AssistantID != assistantID {
		if err := w.companies.SetAssistantID(ctx, payload.SiteID, assistantID); err != nil {
			return fmt.Errorf("persist assistant id for %s: %w", payload.SiteID, err)
		}
	}

	slog.Info("assistant synced", "site_id", payload.SiteID, "assistant_id", assistantID)
	return nil
}
