package company

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nikhilbhutani/chatbot-backend/internal/models"
)

// MemStore is an in-memory Store used in tests and local development.
// It mirrors PGStore semantics, including insertion-order listing.
type MemStore struct {
	mu        sync.RWMutex
	companies map[string]*models.Company
	order     []string
	nextID    int64
}

func NewMemStore() *MemStore {
	return &MemStore{
		companies: make(map[string]*models.Company),
		nextID:    1,
	}
}

func cloneCompany(c *models.Company) *models.Company {
	out := *c
	if c.AssistantID != nil {
		id := *c.AssistantID
		out.AssistantID = &id
	}
	if c.ContactInfo != nil {
		out.ContactInfo = make(map[string]any, len(c.ContactInfo))
		for k, v := range c.ContactInfo {
			out.ContactInfo[k] = v
		}
	}
	if c.FAQs != nil {
		out.FAQs = append([]map[string]any(nil), c.FAQs...)
	}
	return &out
}

func (s *MemStore) Create(_ context.Context, params CreateParams) (*models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.companies[params.SiteID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrConflict, params.SiteID)
	}

	params.setDefaults()
	now := time.Now()
	c := &models.Company{
		ID:            s.nextID,
		SiteID:        params.SiteID,
		Name:          params.Name,
		Domain:        params.Domain,
		Description:   params.Description,
		PrimaryColor:  params.PrimaryColor,
		Greeting:      params.Greeting,
		AssistantID:   params.AssistantID,
		Model:         params.Model,
		Temperature:   params.Temperature,
		MaxTokens:     params.MaxTokens,
		SystemPrompt:  params.SystemPrompt,
		ContactInfo:   params.ContactInfo,
		KnowledgeBase: params.KnowledgeBase,
		FAQs:          params.FAQs,
		SMSEnabled:    params.SMSEnabled,
		SMSPhone:      params.SMSPhone,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.nextID++
	s.companies[c.SiteID] = c
	s.order = append(s.order, c.SiteID)
	return cloneCompany(c), nil
}

func (s *MemStore) Get(_ context.Context, siteID string) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.companies[siteID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, siteID)
	}
	return cloneCompany(c), nil
}

func (s *MemStore) GetActive(_ context.Context, siteID string) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.companies[siteID]
	if !ok || !c.Active {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, siteID)
	}
	return cloneCompany(c), nil
}

func (s *MemStore) List(_ context.Context, activeOnly bool) ([]*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Company
	for _, siteID := range s.order {
		c := s.companies[siteID]
		if activeOnly && !c.Active {
			continue
		}
		out = append(out, cloneCompany(c))
	}
	return out, nil
}

func (s *MemStore) Count(ctx context.Context, activeOnly bool) (int, error) {
	list, err := s.List(ctx, activeOnly)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

func (s *MemStore) Update(_ context.Context, siteID string, patch *Patch) (*models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.companies[siteID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, siteID)
	}

	applyPatch(c, patch)
	c.UpdatedAt = time.Now()
	return cloneCompany(c), nil
}

func applyPatch(c *models.Company, p *Patch) {
	if p.Name.Set {
		c.Name = textArg(p.Name)
	}
	if p.Domain.Set {
		c.Domain = textArg(p.Domain)
	}
	if p.Description.Set {
		c.Description = textArg(p.Description)
	}
	if p.PrimaryColor.Set {
		c.PrimaryColor = textArg(p.PrimaryColor)
	}
	if p.Greeting.Set {
		c.Greeting = textArg(p.Greeting)
	}
	if p.AssistantID.Set {
		if p.AssistantID.Null {
			c.AssistantID = nil
		} else {
			id := p.AssistantID.Value
			c.AssistantID = &id
		}
	}
	if p.Model.Set {
		c.Model = textArg(p.Model)
	}
	if p.Temperature.Set {
		c.Temperature = textArg(p.Temperature)
	}
	if p.MaxTokens.Set {
		if p.MaxTokens.Null {
			c.MaxTokens = 0
		} else {
			c.MaxTokens = p.MaxTokens.Value
		}
	}
	if p.SystemPrompt.Set {
		c.SystemPrompt = textArg(p.SystemPrompt)
	}
	if p.ContactInfo.Set {
		if p.ContactInfo.Null || p.ContactInfo.Value == nil {
			c.ContactInfo = map[string]any{}
		} else {
			c.ContactInfo = p.ContactInfo.Value
		}
	}
	if p.KnowledgeBase.Set {
		c.KnowledgeBase = textArg(p.KnowledgeBase)
	}
	if p.FAQs.Set {
		if p.FAQs.Null || p.FAQs.Value == nil {
			c.FAQs = []map[string]any{}
		} else {
			c.FAQs = p.FAQs.Value
		}
	}
	if p.SMSEnabled.Set {
		c.SMSEnabled = p.SMSEnabled.Value && !p.SMSEnabled.Null
	}
	if p.SMSPhone.Set {
		c.SMSPhone = textArg(p.SMSPhone)
	}
	if p.Active.Set {
		c.Active = p.Active.Value && !p.Active.Null
	}
}

func (s *MemStore) Activate(ctx context.Context, siteID string) (*models.Company, error) {
	return s.setActive(siteID, true)
}

func (s *MemStore) Deactivate(ctx context.Context, siteID string) (*models.Company, error) {
	return s.setActive(siteID, false)
}

func (s *MemStore) setActive(siteID string, active bool) (*models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.companies[siteID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, siteID)
	}
	c.Active = active
	c.UpdatedAt = time.Now()
	return cloneCompany(c), nil
}

func (s *MemStore) Delete(_ context.Context, siteID string, permanent bool) error {
	if !permanent {
		_, err := s.setActive(siteID, false)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies[siteID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, siteID)
	}
	delete(s.companies, siteID)
	for i, id := range s.order {
		if id == siteID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemStore) UpdateKnowledge(_ context.Context, siteID, text string) (*models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.companies[siteID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, siteID)
	}
	c.KnowledgeBase = text
	c.UpdatedAt = time.Now()
	return cloneCompany(c), nil
}

func (s *MemStore) SetAssistantID(_ context.Context, siteID, assistantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.companies[siteID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, siteID)
	}
	c.AssistantID = &assistantID
	c.UpdatedAt = time.Now()
	return nil
}
