package company

import "encoding/json"

// Opt is an optional patch field that distinguishes an omitted key from one
// explicitly set to null. UnmarshalJSON only runs for keys present in the
// request body, so Set=false means the key was absent.
type Opt[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Patch is a sparse update document. site_id is immutable and has no slot.
// Nested JSON values (contact_info, faqs) are replaced whole, never merged.
type Patch struct {
	Name          Opt[string]           `json:"name"`
	Domain        Opt[string]           `json:"domain"`
	Description   Opt[string]           `json:"description"`
	PrimaryColor  Opt[string]           `json:"primary_color"`
	Greeting      Opt[string]           `json:"greeting"`
	AssistantID   Opt[string]           `json:"assistant_id"`
	Model         Opt[string]           `json:"model"`
	Temperature   Opt[string]           `json:"temperature"`
	MaxTokens     Opt[int]              `json:"max_tokens"`
	SystemPrompt  Opt[string]           `json:"system_prompt"`
	ContactInfo   Opt[map[string]any]   `json:"contact_info"`
	KnowledgeBase Opt[string]           `json:"knowledge_base"`
	FAQs          Opt[[]map[string]any] `json:"faqs"`
	SMSEnabled    Opt[bool]             `json:"sms_enabled"`
	SMSPhone      Opt[string]           `json:"sms_phone_number"`
	Active        Opt[bool]             `json:"active"`
}

// Empty reports whether no field was provided.
func (p *Patch) Empty() bool {
	return !(p.Name.Set || p.Domain.Set || p.Description.Set ||
		p.PrimaryColor.Set || p.Greeting.Set || p.AssistantID.Set ||
		p.Model.Set || p.Temperature.Set || p.MaxTokens.Set ||
		p.SystemPrompt.Set || p.ContactInfo.Set || p.KnowledgeBase.Set ||
		p.FAQs.Set || p.SMSEnabled.Set || p.SMSPhone.Set || p.Active.Set)
}

// TouchesAssistant reports whether the patch changes anything baked into the
// hosted assistant's instructions.
func (p *Patch) TouchesAssistant() bool {
	return p.SystemPrompt.Set || p.KnowledgeBase.Set
}
