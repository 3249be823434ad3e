package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nvqpham/tally/internal/model"
)

// needsCategories and wantsCategories are the fixed classification sets
// for the 50/30/20 spending check. Categories are normalized with
// titleCase before lookup; anything outside both sets counts as "other".
var needsCategories = map[string]struct{}{
	"Food": {}, "Groceries": {}, "Rent": {}, "Housing": {},
	"Utilities": {}, "Electricity": {}, "Water": {}, "Internet": {},
	"Transport": {}, "Transportation": {}, "Healthcare": {},
	"Medicine": {}, "Insurance": {},
}

var wantsCategories = map[string]struct{}{
	"Entertainment": {}, "Shopping": {}, "Travel": {}, "Games": {},
	"Dining Out": {}, "Coffee": {}, "Movies": {},
}

func (e *Executor) handlePlanSavingsGoal(action model.Action) string {
	target := action.Float("target_amount", 0)
	current := action.Float("current_savings", 0)
	deadlineStr := action.String("deadline", "")

	if deadlineStr == "" {
		return "Savings goal plan: missing deadline date (YYYY-MM-DD)."
	}

	deadline, err := time.Parse(model.DateLayout, deadlineStr)
	if err != nil {
		return "Savings goal plan: invalid deadline format, expected YYYY-MM-DD."
	}

	now := e.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	deadline = time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 0, 0, 0, 0, time.UTC)

	if !deadline.After(today) {
		return "Savings goal plan: deadline is in the past or today; cannot compute a forward-looking plan."
	}

	remaining := target - current
	if remaining < 0 {
		remaining = 0
	}

	daysLeft := int(deadline.Sub(today).Hours() / 24)
	// Floor months at 0.1 so near-term deadlines don't blow up the division
	monthsLeft := float64(daysLeft) / 30.0
	if monthsLeft < 0.1 {
		monthsLeft = 0.1
	}
	weeksLeft := float64(daysLeft) / 7.0

	perMonth := remaining / monthsLeft
	perWeek := remaining
	if weeksLeft > 0 {
		perWeek = remaining / weeksLeft
	}
	perDay := remaining
	if daysLeft > 0 {
		perDay = remaining / float64(daysLeft)
	}

	currency := e.cfg.DefaultCurrency
	lines := []string{
		"Savings goal plan:",
		fmt.Sprintf("- Target amount: %s", money(target, currency)),
		fmt.Sprintf("- Current savings: %s", money(current, currency)),
		fmt.Sprintf("- Remaining amount: %s", money(remaining, currency)),
		fmt.Sprintf("- Deadline: %s (in %d days)", deadlineStr, daysLeft),
		fmt.Sprintf("- Suggested saving per month: %s", money(perMonth, currency)),
		fmt.Sprintf("- Suggested saving per week: %s", money(perWeek, currency)),
		fmt.Sprintf("- Suggested saving per day: %s", money(perDay, currency)),
	}

	if perMonth <= 0 {
		lines = append(lines, "- You already reached or exceeded the target amount!")
	} else if perMonth > target*0.5 {
		lines = append(lines,
			"- Warning: required monthly saving is very high compared to the target; "+
				"you may need to extend the deadline or lower the goal.")
	}
	return strings.Join(lines, "\n")
}

func (e *Executor) handleSpendingHealthCheck(ctx context.Context, action model.Action) string {
	period := e.period(action)

	expenses, err := e.store.GetExpensesByPeriod(ctx, period, e.now())
	if err != nil {
		e.logger.Error("failed to run spending health check", "error", err)
		return fmt.Sprintf("Could not run the spending health check: %v.", err)
	}

	if len(expenses) == 0 {
		return fmt.Sprintf("Spending health check: no expenses found for period '%s'.", period)
	}

	var total, needs, wants float64
	for _, expense := range expenses {
		total += expense.Amount
		category := titleCase(expense.Category)
		if _, ok := needsCategories[category]; ok {
			needs += expense.Amount
		} else if _, ok := wantsCategories[category]; ok {
			wants += expense.Amount
		}
	}

	// Floor at 0 to avoid negative drift from rounding
	other := total - needs - wants
	if other < 0 {
		other = 0
	}

	pct := func(x float64) float64 {
		if total <= 0 {
			return 0
		}
		return x / total * 100.0
	}
	needsPct := pct(needs)
	wantsPct := pct(wants)
	otherPct := pct(other)

	currency := e.cfg.DefaultCurrency
	lines := []string{
		fmt.Sprintf("Spending health check (period='%s')", period),
		fmt.Sprintf("- Total spending: %s", money(total, currency)),
		fmt.Sprintf("- Needs: %s (%.1f%%)", money(needs, currency), needsPct),
		fmt.Sprintf("- Wants: %s (%.1f%%)", money(wants, currency), wantsPct),
		fmt.Sprintf("- Other: %s (%.1f%%)", money(other, currency), otherPct),
		"",
		"Guideline (50/30/20 rule):",
		"- Needs ~ 50% of income, Wants ~ 30%, Savings/Debt repayment ~ 20%.",
	}

	if needsPct > 55 {
		lines = append(lines, "- Your Needs spending is above 50%. Consider optimising fixed costs if possible.")
	} else if needsPct < 40 {
		lines = append(lines, "- Your Needs spending is relatively low; this may allow more room for savings.")
	}

	if wantsPct > 35 {
		lines = append(lines, "- Your Wants spending is quite high. You may want to reduce optional purchases.")
	} else if wantsPct < 20 {
		lines = append(lines, "- Your Wants spending is modest; good job keeping lifestyle expenses under control.")
	}

	lines = append(lines,
		"- Note: this is a rough check based only on recorded expenses; "+
			"it does not include your savings or income information.")
	return strings.Join(lines, "\n")
}
