package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nvqpham/tally/internal/model"
)

// AddExpense inserts a new expense and returns its assigned identity.
// CreatedAt is set here, once, and never updated.
func (s *SQLiteStorage) AddExpense(ctx context.Context, expense model.Expense) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateExpense(expense); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (date, amount, currency, category, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		expense.Date,
		expense.Amount,
		expense.Currency,
		nullableString(expense.Category),
		nullableString(expense.Description),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get expense id: %w", err)
	}
	return id, nil
}

// ListExpenses returns up to limit expenses, most recent first. Ties on
// date break toward the most recently inserted row.
func (s *SQLiteStorage) ListExpenses(ctx context.Context, limit int) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, amount, currency, category, description, created_at
		FROM expenses
		ORDER BY date DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanExpenses(rows)
}

// GetExpensesByPeriod returns the expenses whose date falls inside the
// period resolved against now, ordered by date ascending. PeriodAll (and
// any unrecognized keyword) returns everything.
func (s *SQLiteStorage) GetExpensesByPeriod(ctx context.Context, period model.Period, now time.Time) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	start, end, bounded := period.Range(now)
	if !bounded {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, date, amount, currency, category, description, created_at
			FROM expenses
			ORDER BY date ASC, id ASC`)
		if err != nil {
			return nil, fmt.Errorf("failed to query expenses: %w", err)
		}
		defer func() { _ = rows.Close() }()
		return scanExpenses(rows)
	}

	return s.GetExpensesInRange(ctx, start, end)
}

// GetExpensesInRange returns expenses with start <= date <= end, ordered
// by date ascending.
func (s *SQLiteStorage) GetExpensesInRange(ctx context.Context, start, end time.Time) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %v after %v", ErrInvalidDateRange, start, end)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, amount, currency, category, description, created_at
		FROM expenses
		WHERE date BETWEEN ? AND ?
		ORDER BY date ASC, id ASC`,
		start.Format(model.DateLayout),
		end.Format(model.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanExpenses(rows)
}

// CountExpenses returns the total number of recorded expenses.
func (s *SQLiteStorage) CountExpenses(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return count, nil
}

// DeleteExpense removes the expense with the given identity. It returns
// false when no such expense exists; identities are never reused.
func (s *SQLiteStorage) DeleteExpense(ctx context.Context, id int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateID(id, "id"); err != nil {
		return false, err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}
	return affected > 0, nil
}

func scanExpenses(rows *sql.Rows) ([]model.Expense, error) {
	var expenses []model.Expense
	for rows.Next() {
		var (
			expense     model.Expense
			category    sql.NullString
			description sql.NullString
			createdAt   string
		)
		if err := rows.Scan(
			&expense.ID,
			&expense.Date,
			&expense.Amount,
			&expense.Currency,
			&category,
			&description,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.Category = category.String
		expense.Description = description.String
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			expense.CreatedAt = ts
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
