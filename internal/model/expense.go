// Package model defines the core domain types for the expense agent.
package model

import "time"

// DateLayout is the calendar-day format used throughout the ledger.
const DateLayout = "2006-01-02"

// Expense represents a single recorded expense. Date is a calendar day in
// DateLayout form; it is stored as given and compared lexicographically,
// which is equivalent to chronological order for ISO dates.
type Expense struct {
	CreatedAt   time.Time `json:"created_at"`
	Date        string    `json:"date"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	ID          int64     `json:"id"`
	Amount      float64   `json:"amount"`
}

// Bill represents a bill that should be paid in the future. DueDate is
// accepted as given; the planner is asked for DateLayout but the value is
// not validated here.
type Bill struct {
	Name     string  `json:"name"`
	Currency string  `json:"currency"`
	DueDate  string  `json:"due_date"`
	Notes    string  `json:"notes"`
	ID       int64   `json:"id"`
	Amount   float64 `json:"amount"`
	IsPaid   bool    `json:"is_paid"`
}
