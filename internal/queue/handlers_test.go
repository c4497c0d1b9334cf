package queue

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
)

func TestNewMux_RoutesAssistantSync(t *testing.T) {
	var gotType string
	mux := NewMux(asynq.HandlerFunc(func(_ context.Context, task *asynq.Task) error {
		gotType = task.Type()
		return nil
	}))

	task := asynq.NewTask(TypeAssistantSync, nil)
	if err := mux.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("ProcessTask() error = %v", err)
	}
	if gotType != TypeAssistantSync {
		t.Errorf("dispatched type = %q, want %q", gotType, TypeAssistantSync)
	}
}

func TestNewMux_UnknownTaskRejected(t *testing.T) {
	mux := NewMux(asynq.HandlerFunc(func(context.Context, *asynq.Task) error { return nil }))

	task := asynq.NewTask("unknown:task", nil)
	if err := mux.ProcessTask(context.Background(), task); err == nil {
		t.Error("ProcessTask(unknown type) error = nil, want error")
	}
}
