package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nikhilbhutani/chatbot-backend/internal/models"
)

// ErrUpstream marks failures of the hosted assistant service, including
// runs that end in a non-completed terminal state.
var ErrUpstream = errors.New("assistant service error")

// Runner executes one chat turn against a hosted assistant: submit the
// message, poll the run to a terminal state, return the raw reply text and
// the thread it ran on.
type Runner interface {
	RunMessage(ctx context.Context, assistantID, threadID, message string) (reply, thread string, err error)
}

// Syncer creates or updates the hosted assistant resource for a tenant and
// returns its identifier.
type Syncer interface {
	Sync(ctx context.Context, c *models.Company) (string, error)
}

// Client talks to the OpenAI Assistants API.
type Client struct {
	api          *openai.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
}

func NewClient(apiKey string, pollInterval, pollTimeout time.Duration) *Client {
	return &Client{
		api:          openai.NewClient(apiKey),
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
	}
}

func (c *Client) RunMessage(ctx context.Context, assistantID, threadID, message string) (string, string, error) {
	if threadID == "" {
		thread, err := c.api.CreateThread(ctx, openai.ThreadRequest{
			Messages: []openai.ThreadMessage{
				{Role: openai.ThreadMessageRoleUser, Content: message},
			},
		})
		if err != nil {
			return "", "", fmt.Errorf("%w: create thread: %v", ErrUpstream, err)
		}
		threadID = thread.ID
	} else {
		_, err := c.api.CreateMessage(ctx, threadID, openai.MessageRequest{
			Role:    string(openai.ThreadMessageRoleUser),
			Content: message,
		})
		if err != nil {
			return "", "", fmt.Errorf("%w: add message: %v", ErrUpstream, err)
		}
	}

	run, err := c.api.CreateRun(ctx, threadID, openai.RunRequest{AssistantID: assistantID})
	if err != nil {
		return "", "", fmt.Errorf("%w: create run: %v", ErrUpstream, err)
	}

	run, err = c.pollRun(ctx, threadID, run)
	if err != nil {
		return "", "", err
	}

	reply, err := c.latestReply(ctx, threadID)
	if err != nil {
		return "", "", err
	}
	return reply, threadID, nil
}

// pollRun waits for the run to reach a terminal state. Only queued and
// in_progress keep it waiting; anything other than completed is an upstream
// failure.
func (c *Client) pollRun(ctx context.Context, threadID string, run openai.Run) (openai.Run, error) {
	deadline := time.Now().Add(c.pollTimeout)
	for {
		switch run.Status {
		case openai.RunStatusCompleted:
			return run, nil
		case openai.RunStatusQueued, openai.RunStatusInProgress:
		default:
			return run, fmt.Errorf("%w: run ended with status %s", ErrUpstream, run.Status)
		}

		if time.Now().After(deadline) {
			return run, fmt.Errorf("%w: run %s timed out after %s", ErrUpstream, run.ID, c.pollTimeout)
		}

		select {
		case <-ctx.Done():
			return run, ctx.Err()
		case <-time.After(c.pollInterval):
		}

		var err error
		run, err = c.api.RetrieveRun(ctx, threadID, run.ID)
		if err != nil {
			return run, fmt.Errorf("%w: retrieve run: %v", ErrUpstream, err)
		}
	}
}

func (c *Client) latestReply(ctx context.Context, threadID string) (string, error) {
	msgs, err := c.api.ListMessage(ctx, threadID, nil, nil, nil, nil, nil)
	if err != nil {
		return "", fmt.Errorf("%w: list messages: %v", ErrUpstream, err)
	}
	if len(msgs.Messages) == 0 || len(msgs.Messages[0].Content) == 0 {
		return "", fmt.Errorf("%w: run produced no reply", ErrUpstream)
	}
	content := msgs.Messages[0].Content[0]
	if content.Text == nil {
		return "", fmt.Errorf("%w: reply has no text content", ErrUpstream)
	}
	return content.Text.Value, nil
}

// Sync writes the tenant's current prompt and knowledge into its hosted
// assistant, creating the assistant when the tenant has none yet.
func (c *Client) Sync(ctx context.Context, company *models.Company) (string, error) {
	name := company.Name + " Support Assistant"
	instructions := Instructions(company.SystemPrompt, company.KnowledgeBase)

	req := openai.AssistantRequest{
		Model:        company.Model,
		Name:         &name,
		Instructions: &instructions,
	}

	if company.AssistantID != nil && *company.AssistantID != "" {
		a, err := c.api.ModifyAssistant(ctx, *company.AssistantID, req)
		if err != nil {
			return "", fmt.Errorf("%w: modify assistant: %v", ErrUpstream, err)
		}
		return a.ID, nil
	}

	a, err := c.api.CreateAssistant(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: create assistant: %v", ErrUpstream, err)
	}
	return a.ID, nil
}

// Instructions builds the full assistant instructions from a tenant's
// system prompt and knowledge base text.
func Instructions(systemPrompt, knowledge string) string {
	return fmt.Sprintf(`%s

KNOWLEDGE BASE:
%s

Use the knowledge base above to answer questions accurately. Provide responses in a natural, conversational tone without excessive markdown formatting (avoid bullet points and bold text unless specifically needed for clarity).`,
		systemPrompt, knowledge)
}
