// Package service defines the interfaces between the agent's components.
package service

import (
	"context"
	"time"

	"github.com/nvqpham/tally/internal/model"
)

// Storage defines the contract for the ledger store.
type Storage interface {
	// Expense operations
	AddExpense(ctx context.Context, expense model.Expense) (int64, error)
	ListExpenses(ctx context.Context, limit int) ([]model.Expense, error)
	GetExpensesByPeriod(ctx context.Context, period model.Period, now time.Time) ([]model.Expense, error)
	GetExpensesInRange(ctx context.Context, start, end time.Time) ([]model.Expense, error)
	CountExpenses(ctx context.Context) (int, error)
	DeleteExpense(ctx context.Context, id int64) (bool, error)

	// Bill operations
	AddBill(ctx context.Context, bill model.Bill) (int64, error)
	ListBills(ctx context.Context, includePaid bool) ([]model.Bill, error)
	MarkBillPaid(ctx context.Context, id int64) (bool, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// PlanResult is the typed output of the external planner boundary.
type PlanResult struct {
	Plan    string
	Actions []model.Action
}

// Planner turns a natural-language request into a plan and an action list.
type Planner interface {
	Plan(ctx context.Context, userText string, today time.Time) (PlanResult, error)
}

// ConfirmationPrompter gates destructive action batches behind an explicit
// human decision. Implementations differ between interactive and
// programmatic callers.
type ConfirmationPrompter interface {
	ConfirmDestructive(ctx context.Context, actions []model.Action) (bool, error)
}

// AuditLog durably records each orchestrated request before execution.
type AuditLog interface {
	Append(userText string, actions []model.Action) error
}

// RetryOptions configures retry behavior for operations against
// unreliable boundaries.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
