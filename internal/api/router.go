package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nikhilbhutani/chatbot-backend/internal/api/handlers"
	"github.com/nikhilbhutani/chatbot-backend/internal/api/middleware"
	"github.com/nikhilbhutani/chatbot-backend/internal/assistant"
	"github.com/nikhilbhutani/chatbot-backend/internal/auth"
	"github.com/nikhilbhutani/chatbot-backend/internal/chat"
	"github.com/nikhilbhutani/chatbot-backend/internal/company"
	"github.com/nikhilbhutani/chatbot-backend/internal/config"
	"github.com/nikhilbhutani/chatbot-backend/internal/queue"
	"github.com/nikhilbhutani/chatbot-backend/internal/session"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	queue *queue.Client
	cfg   *config.Config
	store company.Store
}

// NewRouter wires the serving path. rdb and queueClient may be nil; the
// service then runs without the session cache and background sync.
func NewRouter(db *pgxpool.Pool, rdb *redis.Client, queueClient *queue.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		queue: queueClient,
		cfg:   cfg,
		store: company.NewPGStore(db),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.CORS.AllowedOrigins))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	var sessions session.Store = session.NewPGStore(rt.db)
	if rt.redis != nil {
		sessions = session.NewCached(sessions, rt.redis, rt.cfg.Redis.SessionTTL)
	}

	runner := assistant.NewClient(rt.cfg.OpenAI.APIKey, rt.cfg.OpenAI.PollInterval, rt.cfg.OpenAI.PollTimeout)
	chatSvc := chat.NewService(rt.store, sessions, runner)

	health := handlers.NewHealthHandler(rt.store, rt.db, rt.redis)
	r.Get("/", health.Root)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	chatH := handlers.NewChatHandler(chatSvc, rt.store)

	var enqueuer handlers.Enqueuer
	if rt.queue != nil {
		enqueuer = rt.queue
	}
	adminH := handlers.NewAdminHandler(rt.store, enqueuer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", chatH.Chat)
		r.Get("/config/{site}", chatH.WidgetConfig)
		r.Post("/sms/webhook", chatH.SMSWebhook)

		r.Route("/admin", func(r chi.Router) {
			if rt.cfg.Auth.AdminJWTSecret != "" {
				adminAuth := auth.NewAdminAuth(rt.cfg.Auth.AdminJWTSecret)
				r.Use(adminAuth.Require)
			}

			r.Route("/companies", func(r chi.Router) {
				r.Get("/", adminH.List)
				r.Post("/", adminH.Create)
				r.Get("/{site_id}", adminH.Get)
				r.Patch("/{site_id}", adminH.Update)
				r.Delete("/{site_id}", adminH.Delete)
				r.Post("/{site_id}/activate", adminH.Activate)
				r.Patch("/{site_id}/knowledge", adminH.UpdateKnowledge)
			})
		})
	})

	return r
}
