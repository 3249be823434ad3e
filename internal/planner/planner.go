// Package planner turns natural-language requests into typed action
// plans by calling an external LLM provider. The planner proposes;
// validation and execution happen elsewhere.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nvqpham/tally/internal/common"
	"github.com/nvqpham/tally/internal/model"
	"github.com/nvqpham/tally/internal/service"
)

// client is the provider-level contract: one prompt in, raw model text
// out. Providers report transient failures as *common.RetryableError.
type client interface {
	generate(ctx context.Context, prompt string) (string, error)
}

// Config configures the planner boundary.
type Config struct {
	Provider          string
	APIKey            string
	Model             string
	MaxRetries        int
	RetryDelay        time.Duration
	RequestsPerMinute int
}

// Planner implements service.Planner on top of a provider client with
// client-side rate limiting and retries.
type Planner struct {
	client  client
	limiter *rateLimiter
	logger  *slog.Logger
	retry   service.RetryOptions
}

// New creates a planner for the configured provider.
func New(cfg Config, logger *slog.Logger) (*Planner, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		c   client
		err error
	)
	switch strings.ToLower(cfg.Provider) {
	case "gemini", "":
		c, err = newGeminiClient(cfg)
	case "openai":
		c, err = newOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported planner provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 2 * time.Second
	}

	return &Planner{
		client:  c,
		limiter: newRateLimiter(cfg.RequestsPerMinute),
		logger:  logger,
		retry: service.RetryOptions{
			MaxAttempts:  maxRetries,
			InitialDelay: retryDelay,
			MaxDelay:     retryDelay * 4,
			Multiplier:   2.0,
		},
	}, nil
}

// Plan sends the request to the provider and parses the returned JSON
// plan. Provider failures are retried; parse failures are not, since
// re-sending an identical prompt rarely fixes malformed output.
func (p *Planner) Plan(ctx context.Context, userText string, today time.Time) (service.PlanResult, error) {
	if strings.TrimSpace(userText) == "" {
		return service.PlanResult{}, fmt.Errorf("%w: empty request", common.ErrPlannerFailure)
	}

	if err := p.limiter.wait(ctx); err != nil {
		return service.PlanResult{}, err
	}

	prompt := buildPrompt(userText, today)

	var raw string
	err := common.WithRetry(ctx, func() error {
		var genErr error
		raw, genErr = p.client.generate(ctx, prompt)
		return genErr
	}, p.retry)
	if err != nil {
		return service.PlanResult{}, fmt.Errorf("%w: %v", common.ErrPlannerFailure, err)
	}

	parsed, err := extractPlan(raw)
	if err != nil {
		p.logger.Error("planner returned unparseable output", "error", err)
		return service.PlanResult{}, err
	}

	actions := make([]model.Action, 0, len(parsed.Actions))
	for _, a := range parsed.Actions {
		params := a.Params
		if params == nil {
			params = map[string]any{}
		}
		actions = append(actions, model.Action{
			Type:   model.ActionType(a.Type),
			Params: params,
		})
	}

	p.logger.Debug("plan received", "plan", parsed.Plan, "actions", len(actions))
	return service.PlanResult{Plan: parsed.Plan, Actions: actions}, nil
}

// Close releases the rate limiter's refill goroutine.
func (p *Planner) Close() {
	p.limiter.Close()
}
