package queue

import (
	"github.com/hibiken/asynq"
)

// NewMux binds every task type this service processes to its handler. New
// task types get a parameter here so cmd/worker cannot forget one.
func NewMux(assistantSync asynq.Handler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(TypeAssistantSync, assistantSync)
	return mux
}
