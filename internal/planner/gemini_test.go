package planner

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvqpham/tally/internal/common"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newGeminiTestServer(t *testing.T, status int, text string) (*httptest.Server, *geminiClient) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		w.WriteHeader(status)
		if status == http.StatusOK {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"candidates": []map[string]any{
					{
						"content": map[string]any{
							"parts": []map[string]string{{"text": text}},
							"role":  "model",
						},
						"finishReason": "STOP",
					},
				},
			})
		}
	}))
	t.Cleanup(server.Close)

	c, err := newGeminiClient(Config{Provider: "gemini", APIKey: "test-key"})
	require.NoError(t, err)
	gc, ok := c.(*geminiClient)
	require.True(t, ok)
	gc.baseURL = server.URL

	return server, gc
}

func TestGeminiGenerateReturnsCandidateText(t *testing.T) {
	_, gc := newGeminiTestServer(t, http.StatusOK, `{"plan": "x", "actions": []}`)

	text, err := gc.generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"plan": "x", "actions": []}`, text)
}

func TestGeminiGenerateRateLimit(t *testing.T) {
	_, gc := newGeminiTestServer(t, http.StatusTooManyRequests, "")

	_, err := gc.generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, common.ErrRateLimit)
}

func TestGeminiGenerateServerErrorIsRetryable(t *testing.T) {
	_, gc := newGeminiTestServer(t, http.StatusServiceUnavailable, "")

	_, err := gc.generate(context.Background(), "prompt")
	require.Error(t, err)

	var retryable *common.RetryableError
	require.ErrorAs(t, err, &retryable)
	assert.True(t, retryable.Retryable)
}

func TestGeminiGenerateClientErrorIsNotRetryable(t *testing.T) {
	_, gc := newGeminiTestServer(t, http.StatusBadRequest, "")

	_, err := gc.generate(context.Background(), "prompt")
	require.Error(t, err)

	var retryable *common.RetryableError
	require.ErrorAs(t, err, &retryable)
	assert.False(t, retryable.Retryable)
}

func TestGeminiDefaultsModel(t *testing.T) {
	c, err := newGeminiClient(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, defaultGeminiModel, c.(*geminiClient).model)
}
