package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	sentrygo "github.com/getsentry/sentry-go"

	"github.com/votethebeat/backend/internal/broker"
	"github.com/votethebeat/backend/internal/config"
	"github.com/votethebeat/backend/internal/database"
	"github.com/votethebeat/backend/internal/db"
	"github.com/votethebeat/backend/internal/logging"
	"github.com/votethebeat/backend/internal/router"
	"github.com/votethebeat/backend/internal/sentry"
)

func main() {
	// Initialize structured logging (reads LOGGING_LEVEL env var)
	logging.Initialize()

	// Load configuration
	cfg := config.Load()

	// Initialize error reporting if a DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentrygo.Init(sentrygo.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.SentryEnvironment,
			BeforeSend:  sentry.ScrubEvent,
		}); err != nil {
			slog.Error("failed to initialize sentry", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer sentrygo.Flush(2 * time.Second)
	}

	// Initialize database
	sqlDB, err := database.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer sqlDB.Close()

	// Run migrations
	if err := database.RunMigrations(sqlDB); err != nil {
		slog.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize queries
	queries := db.New(sqlDB)

	// The broadcast hub is constructed once here and handed to everything
	// that publishes or subscribes; nothing else creates one.
	hub := broker.New()

	// Create router
	r := router.New(cfg, sqlDB, queries, hub)

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting server", slog.String("addr", addr))

	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
