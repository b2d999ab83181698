// Copyright (c) 2026 Mirrordex. All rights reserved.

// Command syncd is the entry point for the Mirrordex catalog sync daemon.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis (optional; absent means in-memory tag vocabulary).
//  5. Run database migrations (idempotent).
//  6. Wire the upstream client, stores, and sync engine.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mirrordex/mirrordex/internal/api"
	"github.com/mirrordex/mirrordex/internal/catalog"
	"github.com/mirrordex/mirrordex/internal/mangadex"
	"github.com/mirrordex/mirrordex/internal/platform/config"
	"github.com/mirrordex/mirrordex/internal/platform/constants"
	"github.com/mirrordex/mirrordex/internal/platform/migration"
	pgstore "github.com/mirrordex/mirrordex/internal/platform/postgres"
	redisstore "github.com/mirrordex/mirrordex/internal/platform/redis"
	"github.com/mirrordex/mirrordex/internal/sync"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "mirrordex"))
	slog.SetDefault(log)

	log.Info("[Mirrordex] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "mirrordex"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("upstream", cfg.MangaDexBaseURL),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Application context for background work (the cover crawl). It outlives
	// individual HTTP requests and is cancelled on shutdown.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var vocabulary sync.VocabularyCache
	var checkCache func() error

	if cfg.RedisURL == "" {
		log.Info("redis_disabled", slog.String("fallback", "in-memory tag vocabulary"))
		vocabulary = sync.NewMemoryVocabulary()
	} else {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
		vocabulary = sync.NewRedisVocabulary(rdb)
		checkCache = func() error {
			return redisstore.Ping(context.Background(), rdb)
		}
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: checkCache,
	}, log)

	// ── 7. Sync Engine Wiring ─────────────────────────────────────────────
	client := mangadex.NewClient(cfg.MangaDexBaseURL, cfg.UploadsBaseURL, cfg.UserAgent, log)

	stores := sync.Stores{
		Entries:    catalog.NewEntryStore(pool),
		Chapters:   catalog.NewChapterStore(pool),
		Covers:     catalog.NewCoverStore(pool),
		Creators:   catalog.NewCreatorStore(pool),
		Tags:       catalog.NewTagStore(pool),
		Statistics: catalog.NewStatisticStore(pool),
	}

	service := sync.NewService(client, stores, vocabulary, cfg.LanguageList(), log)
	crawler := sync.NewCoverCrawler(client, stores.Covers, sync.NewCheckpoint(cfg.CoverCheckpointPath), log)
	syncHandler := sync.NewHandler(appCtx, service, crawler)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Sync:      syncHandler,
	}

	server := api.NewServer(appCtx, cfg, log, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Stop background work first so the crawler checkpoints and exits.
	appCancel()

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
