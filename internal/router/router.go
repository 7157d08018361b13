package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/votethebeat/backend/internal/broker"
	"github.com/votethebeat/backend/internal/config"
	"github.com/votethebeat/backend/internal/db"
	"github.com/votethebeat/backend/internal/handlers"
	"github.com/votethebeat/backend/internal/middleware"
	"github.com/votethebeat/backend/internal/services"
)

// New assembles the HTTP surface. The broker is constructed by the caller so
// request handlers and the SSE stream share the one hub.
func New(cfg *config.Config, sqlDB *sql.DB, queries *db.Queries, hub *broker.Broker) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewRealIPMiddleware(cfg.TrustedProxies).Handler)
	r.Use(middleware.RequestContextMiddleware)
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	// Services
	shareCodeService := services.NewShareCodeService(queries)
	queueService := services.NewQueueService(sqlDB, queries, hub, shareCodeService)
	searchService := services.NewSearchService(cfg.SearchUpstreams, cfg.SearchTimeout)

	// Handlers
	configHandler := handlers.NewConfigHandler(cfg)
	sessionHandler := handlers.NewSessionHandler(queueService)
	songHandler := handlers.NewSongHandler(queueService)
	searchHandler := handlers.NewSearchHandler(searchService)
	sseHandler := handlers.NewSSEHandler(hub)
	sentryTunnelHandler := handlers.NewSentryTunnelHandler(cfg)

	// Rate limiter for search
	searchRateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)

	// Routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Public configuration for the frontend
	r.Get("/config", configHandler.PublicConfig)

	// Session management
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", sessionHandler.Create)
		r.Get("/", sessionHandler.List)
		r.Get("/code/{code}", sessionHandler.GetByCode)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", sessionHandler.Get)
			r.Get("/events", sseHandler.Stream)
			r.Post("/songs", songHandler.Add)
			r.Get("/songs", songHandler.ListBySession)
		})
	})

	// Voting and removal address songs directly
	r.Route("/songs/{id}", func(r chi.Router) {
		r.Post("/vote", songHandler.Vote)
		r.Delete("/", songHandler.Remove)
	})

	// Track search (rate limited)
	r.With(searchRateLimiter.Middleware).Get("/search", searchHandler.Search)

	// Sentry envelope relay for the frontend
	r.Post("/sentry-tunnel", sentryTunnelHandler.Tunnel)

	return r
}
