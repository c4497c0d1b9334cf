package models

import (
	"time"
)

// Company is one tenant's chatbot deployment: branding, AI configuration,
// and knowledge base, keyed by its stable site_id.
type Company struct {
	ID            int64            `json:"id" db:"id"`
	SiteID        string           `json:"site_id" db:"site_id"`
	Name          string           `json:"name" db:"name"`
	Domain        string           `json:"domain" db:"domain"`
	Description   string           `json:"description" db:"description"`
	PrimaryColor  string           `json:"primary_color" db:"primary_color"`
	Greeting      string           `json:"greeting" db:"greeting"`
	AssistantID   *string          `json:"assistant_id" db:"assistant_id"`
	Model         string           `json:"model" db:"model"`
	Temperature   string           `json:"temperature" db:"temperature"`
	MaxTokens     int              `json:"max_tokens" db:"max_tokens"`
	SystemPrompt  string           `json:"system_prompt" db:"system_prompt"`
	ContactInfo   map[string]any   `json:"contact_info" db:"contact_info"`
	KnowledgeBase string           `json:"knowledge_base" db:"knowledge_base"`
	FAQs          []map[string]any `json:"faqs" db:"faqs"`
	SMSEnabled    bool             `json:"sms_enabled" db:"sms_enabled"`
	SMSPhone      string           `json:"sms_phone_number" db:"sms_phone_number"`
	Active        bool             `json:"active" db:"active"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

// CompanyDoc is the stable nested document returned by the admin API.
// Columns are never exposed flat; branding, ai, and sms are sub-objects.
type CompanyDoc struct {
	ID            int64            `json:"id"`
	SiteID        string           `json:"site_id"`
	Name          string           `json:"name"`
	Domain        string           `json:"domain"`
	Description   string           `json:"description"`
	Branding      BrandingDoc      `json:"branding"`
	AI            AIDoc            `json:"ai"`
	ContactInfo   map[string]any   `json:"contact_info"`
	KnowledgeBase string           `json:"knowledge_base"`
	FAQs          []map[string]any `json:"faqs"`
	SMS           SMSDoc           `json:"sms"`
	Active        bool             `json:"active"`
	CreatedAt     string           `json:"created_at"`
	UpdatedAt     string           `json:"updated_at"`
}

type BrandingDoc struct {
	PrimaryColor string `json:"primary_color"`
	Greeting     string `json:"greeting"`
}

type AIDoc struct {
	AssistantID  *string `json:"assistant_id"`
	Model        string  `json:"model"`
	Temperature  string  `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
	SystemPrompt string  `json:"system_prompt"`
}

type SMSDoc struct {
	Enabled     bool   `json:"enabled"`
	PhoneNumber string `json:"phone_number"`
}

// Doc converts a Company row into its API document shape.
func (c *Company) Doc() *CompanyDoc {
	return &CompanyDoc{
		ID:          c.ID,
		SiteID:      c.SiteID,
		Name:        c.Name,
		Domain:      c.Domain,
		Description: c.Description,
		Branding: BrandingDoc{
			PrimaryColor: c.PrimaryColor,
			Greeting:     c.Greeting,
		},
		AI: AIDoc{
			AssistantID:  c.AssistantID,
			Model:        c.Model,
			Temperature:  c.Temperature,
			MaxTokens:    c.MaxTokens,
			SystemPrompt: c.SystemPrompt,
		},
		ContactInfo:   c.ContactInfo,
		KnowledgeBase: c.KnowledgeBase,
		FAQs:          c.FAQs,
		SMS: SMSDoc{
			Enabled:     c.SMSEnabled,
			PhoneNumber: c.SMSPhone,
		},
		Active:    c.Active,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
