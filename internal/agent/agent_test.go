package agent

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvqpham/tally/internal/model"
	"github.com/nvqpham/tally/internal/service"
)

type stubPlanner struct {
	result service.PlanResult
	err    error
	calls  int
}

func (s *stubPlanner) Plan(_ context.Context, _ string, _ time.Time) (service.PlanResult, error) {
	s.calls++
	return s.result, s.err
}

type stubExecutor struct {
	executed [][]model.Action
}

func (s *stubExecutor) Execute(_ context.Context, actions []model.Action) []string {
	s.executed = append(s.executed, actions)
	results := make([]string, len(actions))
	for i, a := range actions {
		results[i] = fmt.Sprintf("done: %s", a.Type)
	}
	return results
}

type stubAudit struct {
	entries []string
	err     error
}

func (s *stubAudit) Append(userText string, _ []model.Action) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, userText)
	return nil
}

type stubPrompter struct {
	confirm bool
	err     error
	asked   int
}

func (s *stubPrompter) ConfirmDestructive(_ context.Context, _ []model.Action) (bool, error) {
	s.asked++
	return s.confirm, s.err
}

func newTestAgent(p service.Planner, e actionExecutor, audit service.AuditLog, prompter service.ConfirmationPrompter) *Agent {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(p, e, audit, prompter, logger)
}

func TestHandleRequestExecutesNonDestructiveWithoutPrompting(t *testing.T) {
	planner := &stubPlanner{result: service.PlanResult{
		Plan: "List recent expenses.",
		Actions: []model.Action{
			{Type: model.ActionListExpenses, Params: map[string]any{}},
		},
	}}
	exec := &stubExecutor{}
	audit := &stubAudit{}
	prompter := &stubPrompter{confirm: false}

	a := newTestAgent(planner, exec, audit, prompter)
	resp, err := a.HandleRequest(context.Background(), "show my expenses")
	require.NoError(t, err)

	assert.Equal(t, "List recent expenses.", resp.Plan)
	assert.Equal(t, []string{"done: list_expenses"}, resp.Results)
	assert.Equal(t, 0, prompter.asked, "non-destructive batches never prompt")
	assert.Equal(t, []string{"show my expenses"}, audit.entries)
	require.Len(t, exec.executed, 1)
}

func TestHandleRequestDeclinedConfirmationCancelsEverything(t *testing.T) {
	planner := &stubPlanner{result: service.PlanResult{
		Plan: "Delete expense 3.",
		Actions: []model.Action{
			{Type: model.ActionDeleteExpense, Params: map[string]any{"expense_id": 3.0}},
		},
	}}
	exec := &stubExecutor{}
	audit := &stubAudit{}
	prompter := &stubPrompter{confirm: false}

	a := newTestAgent(planner, exec, audit, prompter)
	resp, err := a.HandleRequest(context.Background(), "delete expense 3")
	require.NoError(t, err, "a declined confirmation is a refusal, not a failure")

	assert.Equal(t, "Delete expense 3. (CANCELLED because the user did not confirm).", resp.Plan)
	assert.Equal(t, []string{"Execution cancelled by user."}, resp.Results)
	assert.Empty(t, exec.executed, "nothing executes after a decline")
	assert.Empty(t, audit.entries, "nothing is logged after a decline")
}

func TestHandleRequestConfirmedDestructiveBatchExecutes(t *testing.T) {
	planner := &stubPlanner{result: service.PlanResult{
		Plan: "Mark bill 2 paid.",
		Actions: []model.Action{
			{Type: model.ActionMarkBillPaid, Params: map[string]any{"bill_id": 2.0}},
		},
	}}
	exec := &stubExecutor{}
	audit := &stubAudit{}
	prompter := &stubPrompter{confirm: true}

	a := newTestAgent(planner, exec, audit, prompter)
	resp, err := a.HandleRequest(context.Background(), "pay bill 2")
	require.NoError(t, err)

	assert.Equal(t, 1, prompter.asked)
	assert.Equal(t, []string{"done: mark_bill_paid"}, resp.Results)
	assert.Equal(t, []string{"pay bill 2"}, audit.entries)
}

func TestHandleRequestMixedBatchPromptsOnce(t *testing.T) {
	planner := &stubPlanner{result: service.PlanResult{
		Plan: "Add then delete.",
		Actions: []model.Action{
			{Type: model.ActionAddExpense, Params: map[string]any{"amount": 100.0}},
			{Type: model.ActionDeleteExpense, Params: map[string]any{"expense_id": 1.0}},
		},
	}}
	exec := &stubExecutor{}
	prompter := &stubPrompter{confirm: true}

	a := newTestAgent(planner, exec, &stubAudit{}, prompter)
	_, err := a.HandleRequest(context.Background(), "add and delete")
	require.NoError(t, err)

	assert.Equal(t, 1, prompter.asked, "one prompt covers the whole batch")
	require.Len(t, exec.executed, 1)
	assert.Len(t, exec.executed[0], 2)
}

func TestHandleRequestRejectsDisallowedActionType(t *testing.T) {
	planner := &stubPlanner{result: service.PlanResult{
		Plan: "Do something creative.",
		Actions: []model.Action{
			{Type: model.ActionType("drop_all_tables"), Params: map[string]any{}},
		},
	}}
	exec := &stubExecutor{}
	audit := &stubAudit{}

	a := newTestAgent(planner, exec, audit, &stubPrompter{})
	_, err := a.HandleRequest(context.Background(), "be creative")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "action type not allowed: drop_all_tables")
	assert.Empty(t, exec.executed)
	assert.Empty(t, audit.entries)
}

func TestHandleRequestPlannerFailureAborts(t *testing.T) {
	planner := &stubPlanner{err: fmt.Errorf("model offline")}
	exec := &stubExecutor{}

	a := newTestAgent(planner, exec, &stubAudit{}, &stubPrompter{})
	_, err := a.HandleRequest(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "planning failed")
	assert.Empty(t, exec.executed)
}

func TestHandleRequestAuditFailureBlocksExecution(t *testing.T) {
	planner := &stubPlanner{result: service.PlanResult{
		Plan: "Add expense.",
		Actions: []model.Action{
			{Type: model.ActionAddExpense, Params: map[string]any{"amount": 5.0}},
		},
	}}
	exec := &stubExecutor{}
	audit := &stubAudit{err: fmt.Errorf("disk full")}

	a := newTestAgent(planner, exec, audit, &stubPrompter{})
	_, err := a.HandleRequest(context.Background(), "add expense")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit log write failed")
	assert.Empty(t, exec.executed, "no audit record, no execution")
}

func TestHandleRequestPrompterErrorAborts(t *testing.T) {
	planner := &stubPlanner{result: service.PlanResult{
		Plan: "Delete expense 1.",
		Actions: []model.Action{
			{Type: model.ActionDeleteExpense, Params: map[string]any{"expense_id": 1.0}},
		},
	}}
	exec := &stubExecutor{}

	a := newTestAgent(planner, exec, &stubAudit{}, &stubPrompter{err: fmt.Errorf("stdin closed")})
	_, err := a.HandleRequest(context.Background(), "delete expense 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confirmation failed")
	assert.Empty(t, exec.executed)
}

func TestHandleRequestEmptyActionListStillLogsAndReturnsPlan(t *testing.T) {
	planner := &stubPlanner{result: service.PlanResult{
		Plan:    "This request is unrelated to expenses; no actions will be executed.",
		Actions: []model.Action{},
	}}
	exec := &stubExecutor{}
	audit := &stubAudit{}

	a := newTestAgent(planner, exec, audit, &stubPrompter{})
	resp, err := a.HandleRequest(context.Background(), "tell me a joke")
	require.NoError(t, err)

	assert.Empty(t, resp.Results)
	assert.Equal(t, []string{"tell me a joke"}, audit.entries)
}
