package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nvqpham/tally/internal/model"
)

func (e *Executor) handleGenerateReportFile(ctx context.Context, action model.Action) string {
	period := e.period(action).Normalize()

	expenses, err := e.store.GetExpensesByPeriod(ctx, period, e.now())
	if err != nil {
		e.logger.Error("failed to generate report", "error", err)
		return fmt.Sprintf("Could not generate the report: %v.", err)
	}

	if err := os.MkdirAll(e.cfg.ReportsDir, 0750); err != nil {
		e.logger.Error("failed to create reports directory", "error", err)
		return fmt.Sprintf("Could not generate the report: %v.", err)
	}

	// One overwritable artifact per period key
	path := filepath.Join(e.cfg.ReportsDir, fmt.Sprintf("expense_report_%s.md", period))
	if err := os.WriteFile(path, []byte(e.renderReport(period, expenses)), 0640); err != nil {
		e.logger.Error("failed to write report", "path", path, "error", err)
		return fmt.Sprintf("Could not generate the report: %v.", err)
	}

	e.logger.Info("report generated", "path", path, "expenses", len(expenses))
	return fmt.Sprintf("Created report at: %s", path)
}

func (e *Executor) renderReport(period model.Period, expenses []model.Expense) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Expense Report - %s\n\n", period)

	if len(expenses) == 0 {
		b.WriteString("_No expenses found for this period._\n")
		return b.String()
	}

	var total float64
	for _, expense := range expenses {
		total += expense.Amount
	}

	fmt.Fprintf(&b, "- Number of expenses: %d\n", len(expenses))
	fmt.Fprintf(&b, "- Total amount: %s\n\n", money(total, e.cfg.DefaultCurrency))
	b.WriteString("## Details\n\n")
	for _, expense := range expenses {
		category := expense.Category
		if category == "" {
			category = "N/A"
		}
		fmt.Fprintf(&b, "- %s: %s | %s | %s\n",
			expense.Date,
			money(expense.Amount, expense.Currency),
			category,
			expense.Description)
	}
	return b.String()
}
