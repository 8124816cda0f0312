// Package main is the terminal client of the RV Planner. It runs the same
// services as the API against the local SQLite store and answers dialogs
// with interactive forms.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/pkordes/rv-planner/internal/catalog"
	"github.com/pkordes/rv-planner/internal/config"
	"github.com/pkordes/rv-planner/internal/repo"
	"github.com/pkordes/rv-planner/internal/service"
	"github.com/pkordes/rv-planner/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	var (
		user       string
		dbPath     string
		accessible bool
	)
	flag.StringVar(&user, "user", os.Getenv("PLANNER_USER"), "owner id (UUID); defaults to the local profile")
	flag.StringVar(&dbPath, "db", cfg.SQLitePath, "path to the local SQLite store")
	flag.BoolVar(&accessible, "accessible", false, "ask questions as plain line prompts")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	// --- Logger -----------------------------------------------------------
	// Text on stderr keeps stdout free for rendered views and exports.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	owner, err := ownerID(user)
	if err != nil {
		slog.Error("invalid user id", "user", user, "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ----------------------------------------------------------
	local, err := repo.OpenSQLite(dbPath)
	if err != nil {
		slog.Error("failed to open local store", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer local.Close()
	docs := repo.NewQuota(local, int(cfg.DocumentMaxBytes))

	// --- Catalog ----------------------------------------------------------
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
	var opts []tui.DialogOption
	if accessible {
		opts = append(opts, tui.WithAccessible(os.Stdin, os.Stdout))
	}
	store := service.NewCollectionStore(docs, nil, logger)
	a := &app{
		owner:        owner,
		destinations: service.NewDestinationService(store, cat),
		folders:      service.NewFolderService(store),
		export:       service.NewExportService(store),
		catalog:      cat,
		dialog:       tui.NewDialog(opts...),
		in:           os.Stdin,
		out:          os.Stdout,
	}

	if err := a.run(ctx, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// ownerID validates a user-supplied owner id. The local profile, used
// when none is given, is the nil UUID.
func ownerID(s string) (string, error) {
	if s == "" {
		return uuid.Nil.String(), nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
