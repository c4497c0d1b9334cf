package company

import (
	"context"

	"github.com/nikhilbhutani/chatbot-backend/internal/models"
)

// Store owns all persistence of Company rows. PGStore is the production
// implementation; MemStore backs tests.
type Store interface {
	Create(ctx context.Context, params CreateParams) (*models.Company, error)
	Get(ctx context.Context, siteID string) (*models.Company, error)
	// GetActive is the tenant-facing lookup: inactive rows are invisible.
	GetActive(ctx context.Context, siteID string) (*models.Company, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Company, error)
	Count(ctx context.Context, activeOnly bool) (int, error)
	Update(ctx context.Context, siteID string, patch *Patch) (*models.Company, error)
	Activate(ctx context.Context, siteID string) (*models.Company, error)
	Deactivate(ctx context.Context, siteID string) (*models.Company, error)
	Delete(ctx context.Context, siteID string, permanent bool) error
	UpdateKnowledge(ctx context.Context, siteID, text string) (*models.Company, error)
	SetAssistantID(ctx context.Context, siteID, assistantID string) error
}

// CreateParams carries a new tenant's configuration. SiteID and Name are
// required; everything else falls back to the documented defaults.
type CreateParams struct {
	SiteID        string           `json:"site_id"`
	Name          string           `json:"name"`
	Domain        string           `json:"domain"`
	Description   string           `json:"description"`
	PrimaryColor  string           `json:"primary_color"`
	Greeting      string           `json:"greeting"`
	AssistantID   *string          `json:"assistant_id"`
	Model         string           `json:"model"`
	Temperature   string           `json:"temperature"`
	MaxTokens     int              `json:"max_tokens"`
	SystemPrompt  string           `json:"system_prompt"`
	ContactInfo   map[string]any   `json:"contact_info"`
	KnowledgeBase string           `json:"knowledge_base"`
	FAQs          []map[string]any `json:"faqs"`
	SMSEnabled    bool             `json:"sms_enabled"`
	SMSPhone      string           `json:"sms_phone_number"`
}

func (p *CreateParams) setDefaults() {
	if p.PrimaryColor == "" {
		p.PrimaryColor = "#0066cc"
	}
	if p.Greeting == "" {
		p.Greeting = "Hello! How can I help you today?"
	}
	if p.Model == "" {
		p.Model = "gpt-4o-mini"
	}
	if p.Temperature == "" {
		p.Temperature = "0.4"
	}
	if p.MaxTokens == 0 {
		p.MaxTokens = 500
	}
	if p.ContactInfo == nil {
		p.ContactInfo = map[string]any{}
	}
	if p.FAQs == nil {
		p.FAQs = []map[string]any{}
	}
}
