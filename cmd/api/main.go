// Package main is the entry point for the RV Planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pkordes/rv-planner/internal/catalog"
	"github.com/pkordes/rv-planner/internal/config"
	"github.com/pkordes/rv-planner/internal/events"
	"github.com/pkordes/rv-planner/internal/handler"
	"github.com/pkordes/rv-planner/internal/middleware"
	"github.com/pkordes/rv-planner/internal/repo"
	"github.com/pkordes/rv-planner/internal/service"
	"github.com/pkordes/rv-planner/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ----------------------------------------------------------
	// SQLite is always there. A configured remote store becomes primary and
	// SQLite catches every read or write the remote cannot serve.
	local, err := repo.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		slog.Error("failed to open local store", "path", cfg.SQLitePath, "error", err)
		os.Exit(1)
	}
	defer local.Close()

	var docs repo.DocumentStore = local
	rdb := repo.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword)
	if rdb != nil {
		defer rdb.Close()
	}

	switch {
	case cfg.DatabaseURL != "":
		pool, err := repo.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		sqlDB := stdlib.OpenDBFromPool(pool)
		applied, err := migrations.Up(ctx, sqlDB)
		_ = sqlDB.Close()
		if err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		slog.Info("database connection established", "migrations_applied", applied)
		docs = repo.NewMirror(repo.NewDocumentStore(pool), local, logger)
	case rdb != nil:
		docs = repo.NewMirror(repo.NewRedisDocumentStore(rdb, "rvplanner:"), local, logger)
		slog.Info("using redis document store", "addr", cfg.RedisAddr)
	default:
		slog.Info("using local document store only", "path", cfg.SQLitePath)
	}
	docs = repo.NewQuota(docs, int(cfg.DocumentMaxBytes))

	// --- Catalog ----------------------------------------------------------
	// A catalog that fails to load leaves the app usable with no reference
	// destinations.
	var cat *catalog.Provider
	if cfg.CatalogPath != "" {
		cat, err = catalog.LoadFile(cfg.CatalogPath)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		slog.Warn("catalog unavailable", "path", cfg.CatalogPath, "error", err)
	}

	// --- Services ---------------------------------------------------------
	hub := events.NewHub(rdb, logger)
	go func() {
		if err := hub.Run(ctx); err != nil {
			slog.Error("event relay stopped", "error", err)
		}
	}()

	store := service.NewCollectionStore(docs, hub, logger)
	srv := handler.NewServer(
		service.NewDestinationService(store, cat),
		service.NewFolderService(store),
		service.NewExportService(store),
		cat,
	)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Handle("/events", hub.Handler(middleware.OwnerFromRequest, cfg.CORSOrigins))
	r.Mount("/", handler.Handler(srv))

	// --- HTTP Server ------------------------------------------------------
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
