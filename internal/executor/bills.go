package executor

import (
	"context"
	"fmt"
	"strings"

	"github.com/nvqpham/tally/internal/model"
)

func (e *Executor) handleAddBill(ctx context.Context, action model.Action) string {
	name := action.String("name", "Bill")
	amount := action.Float("amount", 0)
	if amount < 0 {
		amount = 0
	}
	currency := action.String("currency", e.cfg.DefaultCurrency)
	dueDate := action.String("due_date", "")
	notes := action.String("notes", "")

	id, err := e.store.AddBill(ctx, model.Bill{
		Name:     name,
		Amount:   amount,
		Currency: currency,
		DueDate:  dueDate,
		Notes:    notes,
	})
	if err != nil {
		e.logger.Error("failed to add bill", "error", err)
		return fmt.Sprintf("Could not add the bill: %v.", err)
	}

	e.logger.Info("bill added", "id", id, "name", name, "due_date", dueDate)
	return fmt.Sprintf("Added bill #%d: %s, %s, due %s.",
		id, name, money(amount, currency), dueDate)
}

func (e *Executor) handleListBills(ctx context.Context, action model.Action) string {
	includePaid := action.Bool("include_paid", false)

	bills, err := e.store.ListBills(ctx, includePaid)
	if err != nil {
		e.logger.Error("failed to list bills", "error", err)
		return fmt.Sprintf("Could not list bills: %v.", err)
	}

	if len(bills) == 0 {
		if includePaid {
			return "There are no bills in the system."
		}
		return "There are no unpaid bills."
	}

	lines := []string{"Bills:"}
	for _, bill := range bills {
		status := "Unpaid"
		if bill.IsPaid {
			status = "Paid"
		}
		lines = append(lines, fmt.Sprintf("- #%d | %s | %s | Due: %s | %s",
			bill.ID,
			bill.Name,
			money(bill.Amount, bill.Currency),
			bill.DueDate,
			status))
	}
	return strings.Join(lines, "\n")
}

func (e *Executor) handleSummarizeBills(ctx context.Context, action model.Action) string {
	includePaid := action.Bool("include_paid", false)

	bills, err := e.store.ListBills(ctx, includePaid)
	if err != nil {
		e.logger.Error("failed to summarize bills", "error", err)
		return fmt.Sprintf("Could not summarize bills: %v.", err)
	}

	if len(bills) == 0 {
		return "There are no bills to summarize."
	}

	var total float64
	unpaid := 0
	for _, bill := range bills {
		total += bill.Amount
		if !bill.IsPaid {
			unpaid++
		}
	}

	lines := []string{
		"Bill summary:",
		fmt.Sprintf("- Total bills (include_paid=%t): %d", includePaid, len(bills)),
		fmt.Sprintf("- Total amount (all bills): %s", money(total, e.cfg.DefaultCurrency)),
		fmt.Sprintf("- Number of unpaid bills: %d", unpaid),
	}
	return strings.Join(lines, "\n")
}

func (e *Executor) handleMarkBillPaid(ctx context.Context, action model.Action) string {
	id := int64(action.Int("bill_id", 0))
	if id <= 0 {
		return "Cannot mark bill as paid: invalid or missing bill_id."
	}

	updated, err := e.store.MarkBillPaid(ctx, id)
	if err != nil {
		e.logger.Error("failed to mark bill paid", "id", id, "error", err)
		return fmt.Sprintf("Could not mark bill #%d as paid: %v.", id, err)
	}
	if !updated {
		return fmt.Sprintf("Bill #%d either does not exist or is already marked as paid.", id)
	}

	e.logger.Info("bill marked paid", "id", id)
	return fmt.Sprintf("Marked bill #%d as paid.", id)
}
