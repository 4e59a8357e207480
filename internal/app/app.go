// Package app builds the long-lived services shared by the server and the tools.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/baxromumarov/job-extractor/internal/config"
	"github.com/baxromumarov/job-extractor/internal/core"
	"github.com/baxromumarov/job-extractor/internal/httpx"
	"github.com/baxromumarov/job-extractor/internal/learning"
	"github.com/baxromumarov/job-extractor/internal/scraper"
	"github.com/baxromumarov/job-extractor/internal/store"
)

// App holds the configured extraction service and its learning backend.
type App struct {
	Config   config.Config
	Service  *core.Service
	Learning *learning.Store

	db *store.Store
}

// NewApp wires the fetcher, extractor registry and learning store from cfg. A corrupt or
// unreadable learning document is logged and the store starts empty.
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	persister, db, err := newPersister(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ls, err := learning.Open(ctx, persister)
	switch {
	case errors.Is(err, learning.ErrCorrupt):
		slog.Warn("learning document was corrupt; backed up and starting empty", "backend", cfg.Learning.Backend, "error", err)
	case err != nil:
		slog.Error("failed to load learning document; starting empty", "backend", cfg.Learning.Backend, "error", err)
	}

	fetcher := httpx.NewFetcher(cfg.FetcherConfig())
	svc := core.NewService(fetcher, scraper.DefaultRegistry(), ls, cfg.Scrape.Timeout)

	slog.Info("application services initialized",
		"learning_backend", cfg.Learning.Backend,
		"scrape_timeout", cfg.Scrape.Timeout,
		"respect_robots", cfg.Fetch.RespectRobots)

	return &App{Config: cfg, Service: svc, Learning: ls, db: db}, nil
}

// DB returns the Postgres store when the postgres backend is configured.
func (a *App) DB() (*store.Store, bool) {
	return a.db, a.db != nil
}

// Close releases the database connection, if any.
func (a *App) Close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		slog.Warn("error closing database connection", "error", err)
	}
}

func newPersister(ctx context.Context, cfg config.Config) (learning.Persister, *store.Store, error) {
	switch cfg.Learning.Backend {
	case config.BackendFile:
		slog.Info("using file learning backend", "path", cfg.Learning.Path)
		return learning.NewFilePersister(cfg.Learning.Path), nil, nil
	case config.BackendPostgres:
		db, err := store.NewStore(cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.RunMigrations(ctx, ""); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		slog.Info("using postgres learning backend")
		return db, db, nil
	case config.BackendMemory:
		slog.Info("using in-memory learning backend; outcomes are not persisted")
		return &learning.MemoryPersister{}, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown learning backend: %s", cfg.Learning.Backend)
	}
}
