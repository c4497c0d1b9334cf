package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nikhilbhutani/chatbot-backend/internal/chat"
	"github.com/nikhilbhutani/chatbot-backend/internal/company"
)

// ChatHandler serves the widget-facing endpoints: chat turns, branding
// config, and the SMS webhook.
type ChatHandler struct {
	svc   *chat.Service
	store company.Store
}

func NewChatHandler(svc *chat.Service, store company.Store) *ChatHandler {
	return &ChatHandler{svc: svc, store: store}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	resp, err := h.svc.Handle(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type widgetConfig struct {
	SiteName        string `json:"site_name"`
	PrimaryColor    string `json:"primary_color"`
	GreetingMessage string `json:"greeting_message"`
}

// WidgetConfig returns the public branding for one site. Inactive tenants
// are invisible here.
func (h *ChatHandler) WidgetConfig(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetActive(r.Context(), chi.URLParam(r, "site"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, widgetConfig{
		SiteName:        c.Name,
		PrimaryColor:    c.PrimaryColor,
		GreetingMessage: c.Greeting,
	})
}

type smsMessage struct {
	FromNumber string `json:"from_number"`
	Body       string `json:"body"`
	Site       string `json:"site"`
}

// SMSWebhook acknowledges inbound SMS delivery. Reply handling is not
// implemented yet.
func (h *ChatHandler) SMSWebhook(w http.ResponseWriter, r *http.Request) {
	var msg smsMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "received",
		"message": "SMS handling coming soon",
	})
}
