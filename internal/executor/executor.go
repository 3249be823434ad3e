// Package executor maps each permitted action to a deterministic effect
// on the ledger and produces a human-readable result per action.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nvqpham/tally/internal/model"
	"github.com/nvqpham/tally/internal/service"
)

// Config carries the executor's defaults. They are explicit configuration
// rather than ambient constants so the executor is reusable with
// alternate defaults.
type Config struct {
	DefaultCurrency string
	DefaultPeriod   string
	ReportsDir      string
	DefaultLimit    int
}

// Executor executes validated actions against the ledger store.
type Executor struct {
	store  service.Storage
	logger *slog.Logger
	now    func() time.Time
	cfg    Config
}

// New creates an executor backed by the given store.
func New(store service.Storage, cfg Config, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "VND"
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.DefaultPeriod == "" {
		cfg.DefaultPeriod = string(model.PeriodThisMonth)
	}

	return &Executor{
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Execute runs every action in order and returns one result string per
// action. A failing or unrecognized action never prevents its siblings
// from executing; there is no cross-action transaction and no rollback.
func (e *Executor) Execute(ctx context.Context, actions []model.Action) []string {
	results := make([]string, 0, len(actions))

	for _, action := range actions {
		var result string

		switch action.Type {
		case model.ActionAddExpense:
			result = e.handleAddExpense(ctx, action)
		case model.ActionListExpenses:
			result = e.handleListExpenses(ctx, action)
		case model.ActionSummarizeExpenses:
			result = e.handleSummarizeExpenses(ctx, action)
		case model.ActionAddBill:
			result = e.handleAddBill(ctx, action)
		case model.ActionListBills:
			result = e.handleListBills(ctx, action)
		case model.ActionSummarizeBills:
			result = e.handleSummarizeBills(ctx, action)
		case model.ActionGenerateReportFile:
			result = e.handleGenerateReportFile(ctx, action)
		case model.ActionDeleteExpense:
			result = e.handleDeleteExpense(ctx, action)
		case model.ActionMarkBillPaid:
			result = e.handleMarkBillPaid(ctx, action)
		case model.ActionPlanSavingsGoal:
			result = e.handlePlanSavingsGoal(action)
		case model.ActionSpendingHealthCheck:
			result = e.handleSpendingHealthCheck(ctx, action)
		default:
			// Validation should have caught this; handle it anyway so one
			// stray entry cannot poison the batch.
			e.logger.Warn("skipping unsupported action", "type", action.Type)
			result = fmt.Sprintf("Skipping unsupported action type: %s", action.Type)
		}

		results = append(results, result)
	}

	return results
}

// period resolves the action's period parameter against the configured
// default.
func (e *Executor) period(action model.Action) model.Period {
	return model.Period(action.String("period", e.cfg.DefaultPeriod))
}

// money renders an amount in whole currency units.
func money(amount float64, currency string) string {
	return fmt.Sprintf("%.0f %s", amount, currency)
}

// titleCase normalizes a category the way spending classification expects:
// trimmed, lowercased, then each word capitalized.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
