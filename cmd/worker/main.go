package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/nikhilbhutani/chatbot-backend/internal/assistant"
	"github.com/nikhilbhutani/chatbot-backend/internal/company"
	"github.com/nikhilbhutani/chatbot-backend/internal/config"
	"github.com/nikhilbhutani/chatbot-backend/internal/database"
	"github.com/nikhilbhutani/chatbot-backend/internal/queue"
	"github.com/nikhilbhutani/chatbot-backend/internal/queue/workers"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPool(context.Background(), cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 5,
		},
	)

	store := company.NewPGStore(db)
	syncer := assistant.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.PollInterval, cfg.OpenAI.PollTimeout)

	syncWorker := workers.NewAssistantSyncWorker(store, syncer)
	mux := queue.NewMux(asynq.HandlerFunc(syncWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", 5)
	if err := srv.Run(mux); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
