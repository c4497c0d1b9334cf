package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/nikhilbhutani/chatbot-backend/internal/assistant"
	"github.com/nikhilbhutani/chatbot-backend/internal/company"
	"github.com/nikhilbhutani/chatbot-backend/internal/config"
	"github.com/nikhilbhutani/chatbot-backend/internal/database"
	"github.com/nikhilbhutani/chatbot-backend/pkg/textextract"
)

// seed migrates legacy per-tenant YAML configuration into the companies
// table. Existing site_ids are skipped, never overwritten, so reruns are
// safe. With -sync it also creates or updates each site's hosted assistant.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	configDir := flag.String("config-dir", "config", "directory of per-site YAML files")
	contentDir := flag.String("content-dir", "content", "directory of per-site knowledge files")
	sync := flag.Bool("sync", false, "create or update hosted assistants after seeding")
	flag.Parse()

	sites := flag.Args()
	if len(sites) == 0 {
		fmt.Fprintln(os.Stderr, "usage: seed [-config-dir dir] [-content-dir dir] [-sync] site_id...")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsPath); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	store := company.NewPGStore(db)

	for _, site := range sites {
		if err := seedSite(ctx, store, *configDir, *contentDir, site); err != nil {
			slog.Error("seeding failed", "site_id", site, "error", err)
			os.Exit(1)
		}
	}

	if *sync {
		syncer := assistant.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.PollInterval, cfg.OpenAI.PollTimeout)
		for _, site := range sites {
			if err := syncSite(ctx, store, syncer, site); err != nil {
				slog.Error("assistant sync failed", "site_id", site, "error", err)
				os.Exit(1)
			}
		}
	}

	total, err := store.Count(ctx, false)
	if err == nil {
		slog.Info("seeding complete", "total_companies", total)
	}
}

func seedSite(ctx context.Context, store company.Store, configDir, contentDir, site string) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(filepath.Join(configDir, site+".yaml")), kyaml.Parser()); err != nil {
		return fmt.Errorf("load config for %s: %w", site, err)
	}

	knowledge, err := loadKnowledge(contentDir, site)
	if err != nil {
		return err
	}

	params := company.CreateParams{
		SiteID:        site,
		Name:          k.String("site.name"),
		Domain:        k.String("site.domain"),
		Description:   k.String("site.description"),
		PrimaryColor:  k.String("branding.primary_color"),
		Greeting:      k.String("branding.greeting"),
		AssistantID:   assistantIDFromEnv(site),
		Model:         k.String("ai.model"),
		Temperature:   k.String("ai.temperature"),
		MaxTokens:     k.Int("ai.max_tokens"),
		SystemPrompt:  k.String("ai.system_prompt"),
		ContactInfo:   asMap(k.Get("business.contact")),
		KnowledgeBase: knowledge,
		FAQs:          asMapSlice(k.Get("faqs")),
		SMSEnabled:    k.Bool("sms.enabled"),
		SMSPhone:      k.String("sms.phone_number"),
	}
	if params.Name == "" {
		return fmt.Errorf("config for %s has no site.name", site)
	}

	c, err := store.Create(ctx, params)
	if err != nil {
		if errors.Is(err, company.ErrConflict) {
			slog.Warn("company already exists, skipping", "site_id", site)
			return nil
		}
		return fmt.Errorf("create %s: %w", site, err)
	}

	slog.Info("company created", "site_id", c.SiteID, "name", c.Name, "id", c.ID)
	return nil
}

func syncSite(ctx context.Context, store company.Store, syncer assistant.Syncer, site string) error {
	c, err := store.Get(ctx, site)
	if err != nil {
		return err
	}

	assistantID, err := syncer.Sync(ctx, c)
	if err != nil {
		return err
	}
	if err := store.SetAssistantID(ctx, site, assistantID); err != nil {
		return err
	}

	slog.Info("assistant synced", "site_id", site, "assistant_id", assistantID)
	return nil
}

// loadKnowledge finds content/<site>/knowledge.{md,txt,pdf}, preferring
// markdown. A site with no knowledge file seeds with empty knowledge.
func loadKnowledge(contentDir, site string) (string, error) {
	for _, ext := range textextract.SupportedExtensions() {
		path := filepath.Join(contentDir, site, "knowledge"+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return textextract.File(path)
	}
	slog.Warn("no knowledge file found", "site_id", site)
	return "", nil
}

// assistantIDFromEnv reads ASSISTANT_ID_<SITE> so sites with an existing
// hosted assistant keep it across the migration.
func assistantIDFromEnv(site string) *string {
	key := "ASSISTANT_ID_" + strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(site))
	if v := os.Getenv(key); v != "" {
		return &v
	}
	return nil
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asMapSlice(v any) []map[string]any {
	items, _ := v.([]any)
	if items == nil {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
