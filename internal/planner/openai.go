package planner

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nvqpham/tally/internal/common"
)

const defaultOpenAIModel = "gpt-4o-mini"

// openAIClient is the alternate provider for deployments without a
// Gemini key.
type openAIClient struct {
	api   *openai.Client
	model string
}

func newOpenAIClient(cfg Config) (client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", common.ErrMissingConfig)
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &openAIClient{
		api:   openai.NewClient(cfg.APIKey),
		model: model,
	}, nil
}

func (c *openAIClient) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You MUST respond with ONLY a valid JSON object. Do not include any " +
					"explanatory text, markdown formatting, or commentary before or after the JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			switch {
			case apiErr.HTTPStatusCode == 429:
				return "", fmt.Errorf("%w: OpenAI quota exhausted", common.ErrRateLimit)
			case apiErr.HTTPStatusCode >= 500:
				return "", &common.RetryableError{
					Err:       fmt.Errorf("OpenAI API error: %w", err),
					Retryable: true,
				}
			default:
				return "", &common.RetryableError{
					Err:       fmt.Errorf("OpenAI API error: %w", err),
					Retryable: false,
				}
			}
		}
		return "", &common.RetryableError{
			Err:       fmt.Errorf("request failed: %w", err),
			Retryable: true,
		}
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
