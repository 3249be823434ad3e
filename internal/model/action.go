package model

import (
	"encoding/json"
	"strconv"
)

// ActionType identifies one unit of work in the closed action vocabulary.
type ActionType string

// The complete action vocabulary. The planner may only emit these types.
const (
	ActionAddExpense          ActionType = "add_expense"
	ActionListExpenses        ActionType = "list_expenses"
	ActionSummarizeExpenses   ActionType = "summarize_expenses"
	ActionAddBill             ActionType = "add_bill"
	ActionListBills           ActionType = "list_bills"
	ActionSummarizeBills      ActionType = "summarize_bills"
	ActionGenerateReportFile  ActionType = "generate_report_file"
	ActionDeleteExpense       ActionType = "delete_expense"
	ActionMarkBillPaid        ActionType = "mark_bill_paid"
	ActionPlanSavingsGoal     ActionType = "plan_savings_goal"
	ActionSpendingHealthCheck ActionType = "spending_health_check"
)

// Action is a typed, parameterized request produced by the planner.
// Actions are transient: only their effects and their audit record persist.
type Action struct {
	Params map[string]any `json:"params"`
	Type   ActionType     `json:"type"`
}

// Float returns the named parameter coerced to a float64. Missing,
// non-numeric, or null values fall back to def. The permissive coercion
// is deliberate: planner output is untyped and amounts arrive as JSON
// numbers, strings, or garbage depending on the model's mood.
func (a Action) Float(name string, def float64) float64 {
	v, ok := a.Params[name]
	if !ok || v == nil {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return def
		}
		return f
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return def
		}
		return f
	default:
		return def
	}
}

// Int returns the named parameter coerced to an int.
func (a Action) Int(name string, def int) int {
	v, ok := a.Params[name]
	if !ok || v == nil {
		return def
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return def
			}
			return int(f)
		}
		return int(i)
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return def
		}
		return i
	default:
		return def
	}
}

// String returns the named parameter as a string, or def when missing,
// null, or not a string.
func (a Action) String(name, def string) string {
	v, ok := a.Params[name]
	if !ok || v == nil {
		return def
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return def
	}
	return s
}

// Bool returns the named parameter as a bool, or def when missing or not
// a bool.
func (a Action) Bool(name string, def bool) bool {
	v, ok := a.Params[name]
	if !ok || v == nil {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}
