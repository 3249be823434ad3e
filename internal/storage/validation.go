package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nvqpham/tally/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrInvalidID        = errors.New("id must be positive")
	ErrInvalidExpense   = errors.New("invalid expense")
	ErrInvalidBill      = errors.New("invalid bill")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateID ensures a record identity is positive.
func validateID(id int64, paramName string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidID, paramName)
	}
	return nil
}

// validateExpense checks the fields the schema requires. Amount sign is a
// policy decision made upstream; the store only rejects structurally
// unusable records.
func validateExpense(expense model.Expense) error {
	if expense.Date == "" {
		return fmt.Errorf("%w: missing date", ErrInvalidExpense)
	}
	if expense.Currency == "" {
		return fmt.Errorf("%w: missing currency", ErrInvalidExpense)
	}
	return nil
}

// validateBill checks the fields the schema requires. DueDate may be any
// string, including empty; it is stored as given.
func validateBill(bill model.Bill) error {
	if bill.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidBill)
	}
	if bill.Currency == "" {
		return fmt.Errorf("%w: missing currency", ErrInvalidBill)
	}
	return nil
}
