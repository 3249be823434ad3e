package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nvqpham/tally/internal/agent"
	"github.com/nvqpham/tally/internal/config"
	"github.com/nvqpham/tally/internal/executor"
	"github.com/nvqpham/tally/internal/planner"
	"github.com/nvqpham/tally/internal/safety"
	"github.com/nvqpham/tally/internal/service"
	"github.com/nvqpham/tally/internal/storage"
)

// app bundles the wired components a command needs, plus their cleanup.
type app struct {
	cfg     config.Config
	store   *storage.SQLiteStorage
	planner *planner.Planner
	exec    *executor.Executor
	audit   *safety.AuditLog
	logger  *slog.Logger
}

// newApp loads configuration and wires storage, planner, executor, and
// audit log. The caller owns the returned app and must close it.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := slog.Default()

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	p, err := planner.New(planner.Config{
		Provider:          cfg.Planner.Provider,
		APIKey:            cfg.Planner.APIKey,
		Model:             cfg.Planner.Model,
		MaxRetries:        cfg.Planner.MaxRetries,
		RetryDelay:        cfg.Planner.RetryDelay,
		RequestsPerMinute: cfg.Planner.RateLimit,
	}, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create planner: %w", err)
	}

	exec := executor.New(store, executor.Config{
		DefaultCurrency: cfg.DefaultCurrency,
		DefaultPeriod:   cfg.DefaultPeriod,
		DefaultLimit:    cfg.DefaultLimit,
		ReportsDir:      cfg.ReportsDir,
	}, logger)

	return &app{
		cfg:     cfg,
		store:   store,
		planner: p,
		exec:    exec,
		audit:   safety.NewAuditLog(cfg.AuditLogPath),
		logger:  logger,
	}, nil
}

// agent builds the orchestrator around the given confirmation prompter.
func (a *app) agent(prompter service.ConfirmationPrompter) *agent.Agent {
	return agent.New(a.planner, a.exec, a.audit, prompter, a.logger)
}

func (a *app) close() {
	a.planner.Close()
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close database", "error", err)
	}
}
