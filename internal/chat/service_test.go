package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nikhilbhutani/chatbot-backend/internal/assistant"
	"github.com/nikhilbhutani/chatbot-backend/internal/company"
	"github.com/nikhilbhutani/chatbot-backend/internal/session"
)

// fakeRunner replays a canned reply and records what it was asked to run.
type fakeRunner struct {
	reply       string
	threadID    string
	err         error
	gotThreadID string
	gotMessage  string
}

func (f *fakeRunner) RunMessage(_ context.Context, assistantID, threadID, message string) (string, string, error) {
	f.gotThreadID = threadID
	f.gotMessage = message
	if f.err != nil {
		return "", "", f.err
	}
	out := threadID
	if out == "" {
		out = f.threadID
	}
	return f.reply, out, nil
}

func newTestService(t *testing.T, runner assistant.Runner) (*Service, *company.MemStore, *session.MemStore) {
	t.Helper()
	companies := company.NewMemStore()
	sessions := session.NewMemStore()
	return NewService(companies, sessions, runner), companies, sessions
}

func createTenant(t *testing.T, companies *company.MemStore, siteID string, assistantID string) {
	t.Helper()
	params := company.CreateParams{SiteID: siteID, Name: siteID}
	if assistantID != "" {
		params.AssistantID = &assistantID
	}
	if _, err := companies.Create(context.Background(), params); err != nil {
		t.Fatalf("create tenant: %v", err)
	}
}

func TestHandle_EmptyMessage(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeRunner{})
	_, err := svc.Handle(context.Background(), Request{Message: "", Site: "acme"})
	if !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("Handle(empty) error = %v, want ErrInvalidMessage", err)
	}
}

func TestHandle_MessageTooLong(t *testing.T) {
	svc, companies, _ := newTestService(t, &fakeRunner{reply: "ok", threadID: "t1"})
	createTenant(t, companies, "acme", "asst_1")

	long := strings.Repeat("a", MaxMessageLength+1)
	_, err := svc.Handle(context.Background(), Request{Message: long, Site: "acme"})
	if !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("Handle(too long) error = %v, want ErrInvalidMessage", err)
	}

	// the bound is characters, not bytes; 1500 CJK runes are within it
	cjk := strings.Repeat("界", 1500)
	if _, err := svc.Handle(context.Background(), Request{Message: cjk, Site: "acme"}); err != nil {
		t.Errorf("Handle(1500 CJK runes) error = %v, want nil", err)
	}

	if _, err := svc.Handle(context.Background(), Request{Message: strings.Repeat("界", MaxMessageLength+1), Site: "acme"}); !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("Handle(too many runes) error = %v, want ErrInvalidMessage", err)
	}
}

func TestHandle_UnknownSite(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeRunner{})
	_, err := svc.Handle(context.Background(), Request{Message: "hi", Site: "nope"})
	if !errors.Is(err, company.ErrNotFound) {
		t.Errorf("Handle(unknown site) error = %v, want ErrNotFound", err)
	}
}

func TestHandle_InactiveSite(t *testing.T) {
	svc, companies, _ := newTestService(t, &fakeRunner{})
	createTenant(t, companies, "acme", "asst_1")
	if _, err := companies.Deactivate(context.Background(), "acme"); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Handle(context.Background(), Request{Message: "hi", Site: "acme"})
	if !errors.Is(err, company.ErrNotFound) {
		t.Errorf("Handle(inactive site) error = %v, want ErrNotFound", err)
	}
}

func TestHandle_NoAssistantConfigured(t *testing.T) {
	svc, companies, _ := newTestService(t, &fakeRunner{})
	createTenant(t, companies, "acme", "")

	_, err := svc.Handle(context.Background(), Request{Message: "hi", Site: "acme"})
	if !errors.Is(err, company.ErrNotConfigured) {
		t.Errorf("Handle(no assistant) error = %v, want ErrNotConfigured", err)
	}
}

func TestHandle_StripsCitations(t *testing.T) {
	runner := &fakeRunner{reply: "We open at 9am.【4:0†source】", threadID: "thread_1"}
	svc, companies, _ := newTestService(t, runner)
	createTenant(t, companies, "acme", "asst_1")

	resp, err := svc.Handle(context.Background(), Request{Message: "when do you open?", Site: "acme"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if resp.Response != "We open at 9am." {
		t.Errorf("Response = %q, want citation stripped", resp.Response)
	}
	if resp.Timestamp == "" {
		t.Errorf("Timestamp empty")
	}
}

func TestHandle_SessionIDDefaultsToThread(t *testing.T) {
	runner := &fakeRunner{reply: "hello", threadID: "thread_9"}
	svc, companies, sessions := newTestService(t, runner)
	createTenant(t, companies, "acme", "asst_1")

	resp, err := svc.Handle(context.Background(), Request{Message: "hi", Site: "acme"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if resp.SessionID != "thread_9" {
		t.Errorf("SessionID = %q, want thread_9", resp.SessionID)
	}

	// session row created lazily
	sess, err := sessions.Get(context.Background(), "thread_9")
	if err != nil {
		t.Fatalf("session not recorded: %v", err)
	}
	if sess.MessageCount != 1 {
		t.Errorf("MessageCount = %d, want 1", sess.MessageCount)
	}
	if sess.SiteID != "acme" {
		t.Errorf("SiteID = %q, want acme", sess.SiteID)
	}
}

func TestHandle_ReusesKnownThread(t *testing.T) {
	runner := &fakeRunner{reply: "again", threadID: "thread_new"}
	svc, companies, sessions := newTestService(t, runner)
	createTenant(t, companies, "acme", "asst_1")

	// first turn establishes the session
	first, err := svc.Handle(context.Background(), Request{Message: "hi", SessionID: "sess-1", Site: "acme"})
	if err != nil {
		t.Fatalf("first Handle() error = %v", err)
	}
	if first.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want client-supplied sess-1", first.SessionID)
	}

	// second turn must run on the recorded thread
	if _, err := svc.Handle(context.Background(), Request{Message: "more", SessionID: "sess-1", Site: "acme"}); err != nil {
		t.Fatalf("second Handle() error = %v", err)
	}
	if runner.gotThreadID != "thread_new" {
		t.Errorf("second turn thread = %q, want thread_new reused", runner.gotThreadID)
	}

	sess, err := sessions.Get(context.Background(), "sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if sess.MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", sess.MessageCount)
	}
}

func TestHandle_ForeignSessionNotReused(t *testing.T) {
	runner := &fakeRunner{reply: "hi acme", threadID: "thread_acme"}
	svc, companies, sessions := newTestService(t, runner)
	createTenant(t, companies, "acme", "asst_acme")
	createTenant(t, companies, "globex", "asst_globex")

	// acme establishes a session
	first, err := svc.Handle(context.Background(), Request{Message: "hi", SessionID: "sess-acme", Site: "acme"})
	if err != nil {
		t.Fatalf("acme Handle() error = %v", err)
	}
	if first.SessionID != "sess-acme" {
		t.Fatalf("SessionID = %q, want sess-acme", first.SessionID)
	}

	// globex replays acme's session id; the turn must not touch acme's thread
	runner.reply, runner.threadID = "hi globex", "thread_globex"
	resp, err := svc.Handle(context.Background(), Request{Message: "hello", SessionID: "sess-acme", Site: "globex"})
	if err != nil {
		t.Fatalf("globex Handle() error = %v", err)
	}
	if runner.gotThreadID != "" {
		t.Errorf("globex turn ran on thread %q, want a fresh thread", runner.gotThreadID)
	}
	if resp.SessionID == "sess-acme" {
		t.Errorf("SessionID = %q, want a new session for globex", resp.SessionID)
	}

	// acme's session is untouched
	sess, err := sessions.Get(context.Background(), "sess-acme")
	if err != nil {
		t.Fatal(err)
	}
	if sess.SiteID != "acme" || sess.ThreadID != "thread_acme" || sess.MessageCount != 1 {
		t.Errorf("acme session mutated: site=%q thread=%q count=%d", sess.SiteID, sess.ThreadID, sess.MessageCount)
	}
}

func TestHandle_UpstreamFailure(t *testing.T) {
	runner := &fakeRunner{err: assistant.ErrUpstream}
	svc, companies, _ := newTestService(t, runner)
	createTenant(t, companies, "acme", "asst_1")

	_, err := svc.Handle(context.Background(), Request{Message: "hi", Site: "acme"})
	if !errors.Is(err, assistant.ErrUpstream) {
		t.Errorf("Handle(upstream down) error = %v, want ErrUpstream", err)
	}
}
