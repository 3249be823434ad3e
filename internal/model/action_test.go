package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionFloat(t *testing.T) {
	tests := []struct {
		value any
		name  string
		want  float64
	}{
		{name: "missing", value: nil, want: 0},
		{name: "float", value: 120000.0, want: 120000},
		{name: "int", value: 42, want: 42},
		{name: "json number", value: json.Number("99.5"), want: 99.5},
		{name: "numeric string", value: "150000", want: 150000},
		{name: "garbage string", value: "a lot", want: 0},
		{name: "bool is not a number", value: true, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Action{Type: ActionAddExpense, Params: map[string]any{}}
			if tt.value != nil {
				a.Params["amount"] = tt.value
			}
			assert.Equal(t, tt.want, a.Float("amount", 0))
		})
	}
}

func TestActionInt(t *testing.T) {
	a := Action{Type: ActionListExpenses, Params: map[string]any{
		"limit":  5.0, // JSON numbers decode as float64
		"offset": "7",
	}}

	assert.Equal(t, 5, a.Int("limit", 10))
	assert.Equal(t, 7, a.Int("offset", 0))
	assert.Equal(t, 10, a.Int("missing", 10))
}

func TestActionString(t *testing.T) {
	a := Action{Type: ActionAddExpense, Params: map[string]any{
		"category": "Food",
		"notes":    nil,
		"amount":   3.0,
	}}

	assert.Equal(t, "Food", a.String("category", ""))
	assert.Equal(t, "fallback", a.String("notes", "fallback"))
	assert.Equal(t, "fallback", a.String("amount", "fallback"))
	assert.Equal(t, "fallback", a.String("missing", "fallback"))
}

func TestActionBool(t *testing.T) {
	a := Action{Type: ActionListBills, Params: map[string]any{
		"include_paid": true,
		"flag":         "yes",
	}}

	assert.True(t, a.Bool("include_paid", false))
	assert.False(t, a.Bool("flag", false))
	assert.True(t, a.Bool("missing", true))
}
