package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nvqpham/tally/internal/model"
)

// AddBill inserts a new bill and returns its assigned identity. Bills
// start unpaid.
func (s *SQLiteStorage) AddBill(ctx context.Context, bill model.Bill) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateBill(bill); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO bills (name, amount, currency, due_date, is_paid, notes)
		VALUES (?, ?, ?, ?, 0, ?)`,
		bill.Name,
		bill.Amount,
		bill.Currency,
		bill.DueDate,
		nullableString(bill.Notes),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert bill: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get bill id: %w", err)
	}
	return id, nil
}

// ListBills returns bills ordered by due date ascending. Unless
// includePaid is set, bills already marked paid are filtered out.
func (s *SQLiteStorage) ListBills(ctx context.Context, includePaid bool) ([]model.Bill, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, amount, currency, due_date, is_paid, notes
		FROM bills
		WHERE is_paid = 0
		ORDER BY due_date ASC, id ASC`
	if includePaid {
		query = `
		SELECT id, name, amount, currency, due_date, is_paid, notes
		FROM bills
		ORDER BY due_date ASC, id ASC`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var bills []model.Bill
	for rows.Next() {
		var (
			bill   model.Bill
			isPaid int
			notes  sql.NullString
		)
		if err := rows.Scan(
			&bill.ID,
			&bill.Name,
			&bill.Amount,
			&bill.Currency,
			&bill.DueDate,
			&isPaid,
			&notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bill.IsPaid = isPaid != 0
		bill.Notes = notes.String
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	return bills, nil
}

// MarkBillPaid flips the paid flag from false to true. It returns false
// when the bill does not exist or is already paid; the transition is
// strictly one-directional.
func (s *SQLiteStorage) MarkBillPaid(ctx context.Context, id int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateID(id, "id"); err != nil {
		return false, err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE bills SET is_paid = 1 WHERE id = ? AND is_paid = 0`, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark bill paid: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check update result: %w", err)
	}
	return affected > 0, nil
}
