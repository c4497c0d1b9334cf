package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/nikhilbhutani/chatbot-backend/internal/assistant"
	"github.com/nikhilbhutani/chatbot-backend/internal/chat"
	"github.com/nikhilbhutani/chatbot-backend/internal/company"
	"github.com/nikhilbhutani/chatbot-backend/internal/session"
)

type stubRunner struct {
	reply    string
	threadID string
	err      error
}

func (s *stubRunner) RunMessage(_ context.Context, _, threadID, _ string) (string, string, error) {
	if s.err != nil {
		return "", "", s.err
	}
	if threadID == "" {
		threadID = s.threadID
	}
	return s.reply, threadID, nil
}

func newChatRouter(t *testing.T, store company.Store, runner *stubRunner) chi.Router {
	t.Helper()
	svc := chat.NewService(store, session.NewMemStore(), runner)
	h := NewChatHandler(svc, store)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", h.Chat)
		r.Get("/config/{site}", h.WidgetConfig)
		r.Post("/sms/webhook", h.SMSWebhook)
	})
	return r
}

func seedCompany(t *testing.T, store company.Store, siteID string, assistantID string) {
	t.Helper()
	params := company.CreateParams{SiteID: siteID, Name: "Acme Corp"}
	if assistantID != "" {
		params.AssistantID = &assistantID
	}
	if _, err := store.Create(context.Background(), params); err != nil {
		t.Fatalf("seed company: %v", err)
	}
}

func TestChat_Success(t *testing.T) {
	store := company.NewMemStore()
	seedCompany(t, store, "acme", "asst_1")
	r := newChatRouter(t, store, &stubRunner{reply: "Hi there!【1:2†faq.md】", threadID: "thread_1"})

	rec := doJSON(t, r, http.MethodPost, "/api/chat", `{"message":"hello","site":"acme"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\nbody: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["response"] != "Hi there!" {
		t.Errorf("response = %v, want citations stripped", body["response"])
	}
	if body["session_id"] != "thread_1" {
		t.Errorf("session_id = %v, want thread_1", body["session_id"])
	}
}

func TestChat_ErrorStatusCodes(t *testing.T) {
	store := company.NewMemStore()
	seedCompany(t, store, "acme", "asst_1")
	seedCompany(t, store, "bare", "")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty message", `{"message":"","site":"acme"}`, http.StatusBadRequest},
		{"missing site", `{"message":"hi"}`, http.StatusBadRequest},
		{"unknown site", `{"message":"hi","site":"ghost"}`, http.StatusNotFound},
		{"no assistant", `{"message":"hi","site":"bare"}`, http.StatusUnprocessableEntity},
		{"malformed body", `{not json`, http.StatusBadRequest},
	}

	r := newChatRouter(t, store, &stubRunner{reply: "ok", threadID: "t"})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPost, "/api/chat", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestChat_UpstreamError(t *testing.T) {
	store := company.NewMemStore()
	seedCompany(t, store, "acme", "asst_1")
	r := newChatRouter(t, store, &stubRunner{err: fmt.Errorf("%w: run failed", assistant.ErrUpstream)})

	rec := doJSON(t, r, http.MethodPost, "/api/chat", `{"message":"hi","site":"acme"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestWidgetConfig(t *testing.T) {
	store := company.NewMemStore()
	seedCompany(t, store, "acme", "")
	r := newChatRouter(t, store, &stubRunner{})

	rec := doJSON(t, r, http.MethodGet, "/api/config/acme", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["site_name"] != "Acme Corp" {
		t.Errorf("site_name = %v", body["site_name"])
	}
	if body["primary_color"] != "#0066cc" {
		t.Errorf("primary_color = %v", body["primary_color"])
	}
	if body["greeting_message"] != "Hello! How can I help you today?" {
		t.Errorf("greeting_message = %v", body["greeting_message"])
	}
}

func TestWidgetConfig_InactiveHidden(t *testing.T) {
	store := company.NewMemStore()
	seedCompany(t, store, "acme", "")
	if _, err := store.Deactivate(context.Background(), "acme"); err != nil {
		t.Fatal(err)
	}
	r := newChatRouter(t, store, &stubRunner{})

	rec := doJSON(t, r, http.MethodGet, "/api/config/acme", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSMSWebhook(t *testing.T) {
	r := newChatRouter(t, company.NewMemStore(), &stubRunner{})

	rec := doJSON(t, r, http.MethodPost, "/api/sms/webhook", `{"from_number":"+15551234567","body":"hours?","site":"acme"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "received" {
		t.Errorf("status field = %v, want received", body["status"])
	}
}

func TestRootStatus(t *testing.T) {
	store := company.NewMemStore()
	seedCompany(t, store, "a", "")
	seedCompany(t, store, "b", "")
	if _, err := store.Deactivate(context.Background(), "b"); err != nil {
		t.Fatal(err)
	}

	h := NewHealthHandler(store, nil, nil)
	r := chi.NewRouter()
	r.Get("/", h.Root)

	rec := doJSON(t, r, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "online" {
		t.Errorf("status = %v", body["status"])
	}
	if body["version"] != "3.0.0" {
		t.Errorf("version = %v", body["version"])
	}
	if body["active_companies"] != float64(1) {
		t.Errorf("active_companies = %v, want 1", body["active_companies"])
	}
}
