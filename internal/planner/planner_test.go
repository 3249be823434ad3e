package planner

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvqpham/tally/internal/common"
	"github.com/nvqpham/tally/internal/model"
	"github.com/nvqpham/tally/internal/service"
)

type fakeClient struct {
	responses []string
	errs      []error
	prompts   []string
	calls     int
}

func (f *fakeClient) generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", fmt.Errorf("unexpected call %d", i)
}

func newTestPlanner(c client) *Planner {
	return &Planner{
		client:  c,
		limiter: newRateLimiter(100),
		logger:  nil,
		retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Millisecond,
			MaxDelay:     5 * time.Millisecond,
			Multiplier:   2.0,
		},
	}
}

var planTestToday = time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC)

func TestPlanParsesActionsAndPlan(t *testing.T) {
	fake := &fakeClient{responses: []string{
		`{"plan": "Record the coffee purchase.", "actions": [
			{"type": "add_expense", "params": {"amount": 45000, "category": "Coffee"}}
		]}`,
	}}
	p := newTestPlanner(fake)
	p.logger = testLogger()
	defer p.Close()

	result, err := p.Plan(context.Background(), "I bought coffee for 45k", planTestToday)
	require.NoError(t, err)
	assert.Equal(t, "Record the coffee purchase.", result.Plan)
	require.Len(t, result.Actions, 1)
	assert.Equal(t, model.ActionAddExpense, result.Actions[0].Type)
	assert.Equal(t, 45000.0, result.Actions[0].Float("amount", 0))
}

func TestPlanInjectsTodayIntoPrompt(t *testing.T) {
	fake := &fakeClient{responses: []string{`{"plan": "ok", "actions": []}`}}
	p := newTestPlanner(fake)
	p.logger = testLogger()
	defer p.Close()

	_, err := p.Plan(context.Background(), "what did I spend today?", planTestToday)
	require.NoError(t, err)
	require.Len(t, fake.prompts, 1)
	assert.Contains(t, fake.prompts[0], "Today's date is 2025-06-18.")
	assert.True(t, strings.HasSuffix(fake.prompts[0], "User request:\nwhat did I spend today?"))
}

func TestPlanRetriesTransientFailures(t *testing.T) {
	fake := &fakeClient{
		errs: []error{
			&common.RetryableError{Err: fmt.Errorf("status 503"), Retryable: true},
			nil,
		},
		responses: []string{
			"",
			`{"plan": "second try", "actions": []}`,
		},
	}
	p := newTestPlanner(fake)
	p.logger = testLogger()
	defer p.Close()

	result, err := p.Plan(context.Background(), "list my bills", planTestToday)
	require.NoError(t, err)
	assert.Equal(t, "second try", result.Plan)
	assert.Equal(t, 2, fake.calls)
}

func TestPlanDoesNotRetryNonRetryableFailures(t *testing.T) {
	fake := &fakeClient{
		errs: []error{
			&common.RetryableError{Err: fmt.Errorf("status 400"), Retryable: false},
		},
	}
	p := newTestPlanner(fake)
	p.logger = testLogger()
	defer p.Close()

	_, err := p.Plan(context.Background(), "list my bills", planTestToday)
	require.ErrorIs(t, err, common.ErrPlannerFailure)
	assert.Equal(t, 1, fake.calls)
}

func TestPlanSurfacesExhaustedRetries(t *testing.T) {
	rateLimited := fmt.Errorf("%w: quota exhausted", common.ErrRateLimit)
	fake := &fakeClient{errs: []error{rateLimited, rateLimited, rateLimited}}
	p := newTestPlanner(fake)
	p.logger = testLogger()
	defer p.Close()

	_, err := p.Plan(context.Background(), "add an expense", planTestToday)
	require.ErrorIs(t, err, common.ErrPlannerFailure)
	assert.Equal(t, 3, fake.calls)
}

func TestPlanDoesNotRetryUnparseableOutput(t *testing.T) {
	fake := &fakeClient{responses: []string{"I cannot produce JSON today."}}
	p := newTestPlanner(fake)
	p.logger = testLogger()
	defer p.Close()

	_, err := p.Plan(context.Background(), "add an expense", planTestToday)
	require.ErrorIs(t, err, common.ErrUnparseable)
	assert.Equal(t, 1, fake.calls, "parse failures are terminal, not retried")
}

func TestPlanRejectsEmptyRequest(t *testing.T) {
	p := newTestPlanner(&fakeClient{})
	p.logger = testLogger()
	defer p.Close()

	_, err := p.Plan(context.Background(), "   ", planTestToday)
	assert.ErrorIs(t, err, common.ErrPlannerFailure)
}

func TestPlanDefaultsNilParams(t *testing.T) {
	fake := &fakeClient{responses: []string{
		`{"plan": "ok", "actions": [{"type": "list_expenses"}]}`,
	}}
	p := newTestPlanner(fake)
	p.logger = testLogger()
	defer p.Close()

	result, err := p.Plan(context.Background(), "show expenses", planTestToday)
	require.NoError(t, err)
	require.Len(t, result.Actions, 1)
	assert.NotNil(t, result.Actions[0].Params)
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "palmtop", APIKey: "x"}, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported planner provider")
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Config{Provider: "gemini"}, testLogger())
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	_, err = New(Config{Provider: "openai"}, testLogger())
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}
