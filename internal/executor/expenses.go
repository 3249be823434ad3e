package executor

import (
	"context"
	"fmt"
	"strings"

	"github.com/nvqpham/tally/internal/model"
)

func (e *Executor) handleAddExpense(ctx context.Context, action model.Action) string {
	amount := action.Float("amount", 0)
	if amount < 0 {
		amount = 0
	}
	currency := action.String("currency", e.cfg.DefaultCurrency)
	category := action.String("category", "")
	description := action.String("description", "")
	date := action.String("date", e.now().Format(model.DateLayout))

	id, err := e.store.AddExpense(ctx, model.Expense{
		Date:        date,
		Amount:      amount,
		Currency:    currency,
		Category:    category,
		Description: description,
	})
	if err != nil {
		e.logger.Error("failed to add expense", "error", err)
		return fmt.Sprintf("Could not add the expense: %v.", err)
	}

	e.logger.Info("expense added",
		"id", id,
		"amount", amount,
		"currency", currency,
		"category", category)

	return fmt.Sprintf("Added expense #%d: %s, category='%s', description='%s'.",
		id, money(amount, currency), category, description)
}

func (e *Executor) handleListExpenses(ctx context.Context, action model.Action) string {
	limit := action.Int("limit", e.cfg.DefaultLimit)

	expenses, err := e.store.ListExpenses(ctx, limit)
	if err != nil {
		e.logger.Error("failed to list expenses", "error", err)
		return fmt.Sprintf("Could not list expenses: %v.", err)
	}

	if len(expenses) == 0 {
		return "There are currently no recorded expenses."
	}

	lines := []string{"Recent expenses:"}
	for _, expense := range expenses {
		category := expense.Category
		if category == "" {
			category = "N/A"
		}
		lines = append(lines, fmt.Sprintf("- #%d | %s | %s | %s | %s",
			expense.ID,
			expense.Date,
			money(expense.Amount, expense.Currency),
			category,
			expense.Description))
	}
	return strings.Join(lines, "\n")
}

func (e *Executor) handleSummarizeExpenses(ctx context.Context, action model.Action) string {
	period := e.period(action)

	expenses, err := e.store.GetExpensesByPeriod(ctx, period, e.now())
	if err != nil {
		e.logger.Error("failed to summarize expenses", "error", err)
		return fmt.Sprintf("Could not summarize expenses: %v.", err)
	}

	if len(expenses) == 0 {
		return fmt.Sprintf("No expenses found for period '%s'.", period)
	}

	var total float64
	byCategory := make(map[string]float64)
	var categoryOrder []string

	for _, expense := range expenses {
		total += expense.Amount
		category := expense.Category
		if category == "" {
			category = "Other"
		}
		if _, seen := byCategory[category]; !seen {
			categoryOrder = append(categoryOrder, category)
		}
		byCategory[category] += expense.Amount
	}

	lines := []string{
		fmt.Sprintf("Expense summary (period='%s'):", period),
		fmt.Sprintf("- Number of expenses: %d", len(expenses)),
		fmt.Sprintf("- Total amount: %s", money(total, e.cfg.DefaultCurrency)),
		"- By category:",
	}
	// First-occurrence order, not sorted
	for _, category := range categoryOrder {
		lines = append(lines, fmt.Sprintf("  * %s: %s",
			category, money(byCategory[category], e.cfg.DefaultCurrency)))
	}
	return strings.Join(lines, "\n")
}

func (e *Executor) handleDeleteExpense(ctx context.Context, action model.Action) string {
	id := int64(action.Int("expense_id", 0))
	if id <= 0 {
		return "Cannot delete expense: invalid or missing expense_id."
	}

	deleted, err := e.store.DeleteExpense(ctx, id)
	if err != nil {
		e.logger.Error("failed to delete expense", "id", id, "error", err)
		return fmt.Sprintf("Could not delete expense #%d: %v.", id, err)
	}
	if !deleted {
		return fmt.Sprintf("Expense #%d does not exist. Nothing was deleted.", id)
	}

	e.logger.Info("expense deleted", "id", id)
	return fmt.Sprintf("Deleted expense #%d.", id)
}
