// Package safety gates planner output before anything is executed: it
// enforces the closed action vocabulary, flags destructive batches, and
// records every confirmed request in an append-only audit log.
package safety

import (
	"fmt"

	"github.com/nvqpham/tally/internal/model"
)

// allowedActions is the closed vocabulary. Anything else fails validation
// before execution.
var allowedActions = map[model.ActionType]struct{}{
	model.ActionAddExpense:          {},
	model.ActionListExpenses:        {},
	model.ActionSummarizeExpenses:   {},
	model.ActionAddBill:             {},
	model.ActionListBills:           {},
	model.ActionSummarizeBills:      {},
	model.ActionGenerateReportFile:  {},
	model.ActionDeleteExpense:       {},
	model.ActionMarkBillPaid:        {},
	model.ActionPlanSavingsGoal:     {},
	model.ActionSpendingHealthCheck: {},
}

// destructiveActions mutate existing records in ways that are not easily
// reversible; batches containing any of them require confirmation.
var destructiveActions = map[model.ActionType]struct{}{
	model.ActionDeleteExpense: {},
	model.ActionMarkBillPaid:  {},
}

// ValidateActions confirms every action type is in the vocabulary.
// Validation is all-or-nothing: the first violation aborts the batch.
func ValidateActions(actions []model.Action) error {
	for _, action := range actions {
		if _, ok := allowedActions[action.Type]; !ok {
			return fmt.Errorf("action type not allowed: %s", action.Type)
		}
	}
	return nil
}

// RequiresConfirmation reports whether the batch contains at least one
// destructive action, independent of position.
func RequiresConfirmation(actions []model.Action) bool {
	for _, action := range actions {
		if _, ok := destructiveActions[action.Type]; ok {
			return true
		}
	}
	return false
}
