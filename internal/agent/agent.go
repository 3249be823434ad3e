// Package agent orchestrates one user request end to end: plan,
// validate, confirm, log, execute. The stages always run in that order;
// nothing reaches the ledger before the audit record is durable.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nvqpham/tally/internal/model"
	"github.com/nvqpham/tally/internal/safety"
	"github.com/nvqpham/tally/internal/service"
)

// cancelledSuffix annotates the plan when the user declines a
// destructive batch.
const cancelledSuffix = " (CANCELLED because the user did not confirm)."

// cancelledResult is the single result returned for a declined batch.
const cancelledResult = "Execution cancelled by user."

// Response is the outcome of one orchestrated request: the planner's
// stated plan and one result string per executed action.
type Response struct {
	Plan    string
	Results []string
}

// actionExecutor runs a validated batch and reports per-action results.
type actionExecutor interface {
	Execute(ctx context.Context, actions []model.Action) []string
}

// Agent wires the planner, safety gate, audit log, and executor into a
// single request pipeline.
type Agent struct {
	planner  service.Planner
	executor actionExecutor
	audit    service.AuditLog
	prompter service.ConfirmationPrompter
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an agent. The prompter decides destructive batches; pass
// an auto-approving prompter for non-interactive callers.
func New(
	planner service.Planner,
	exec actionExecutor,
	audit service.AuditLog,
	prompter service.ConfirmationPrompter,
	logger *slog.Logger,
) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		planner:  planner,
		executor: exec,
		audit:    audit,
		prompter: prompter,
		logger:   logger,
		now:      time.Now,
	}
}

// HandleRequest runs the full pipeline for one natural-language request.
//
// A declined confirmation is not an error: the response carries the
// annotated plan and a single cancellation result, and neither the audit
// log nor the ledger is touched. Planner, validation, audit, and
// prompter failures abort before any action executes.
func (a *Agent) HandleRequest(ctx context.Context, userText string) (Response, error) {
	result, err := a.planner.Plan(ctx, userText, a.now())
	if err != nil {
		return Response{}, fmt.Errorf("planning failed: %w", err)
	}

	if err := safety.ValidateActions(result.Actions); err != nil {
		a.logger.Warn("rejected plan with disallowed action",
			"plan", result.Plan,
			"error", err)
		return Response{}, fmt.Errorf("plan validation failed: %w", err)
	}

	if safety.RequiresConfirmation(result.Actions) {
		confirmed, err := a.prompter.ConfirmDestructive(ctx, result.Actions)
		if err != nil {
			return Response{}, fmt.Errorf("confirmation failed: %w", err)
		}
		if !confirmed {
			a.logger.Info("destructive batch declined", "actions", len(result.Actions))
			return Response{
				Plan:    result.Plan + cancelledSuffix,
				Results: []string{cancelledResult},
			}, nil
		}
	}

	// The audit record precedes execution so a crash mid-batch still
	// leaves evidence of what was attempted.
	if err := a.audit.Append(userText, result.Actions); err != nil {
		return Response{}, fmt.Errorf("audit log write failed: %w", err)
	}

	a.logger.Info("executing plan", "plan", result.Plan, "actions", len(result.Actions))
	return Response{
		Plan:    result.Plan,
		Results: a.executor.Execute(ctx, result.Actions),
	}, nil
}
