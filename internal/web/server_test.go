package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvqpham/tally/internal/agent"
	"github.com/nvqpham/tally/internal/common"
	"github.com/nvqpham/tally/internal/model"
	"github.com/nvqpham/tally/internal/safety"
	"github.com/nvqpham/tally/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAgent struct {
	resp agent.Response
	err  error
	seen []string
}

func (f *fakeAgent) HandleRequest(_ context.Context, userText string) (agent.Response, error) {
	f.seen = append(f.seen, userText)
	return f.resp, f.err
}

func newTestServer(t *testing.T, confirming, declining RequestAgent) (*Server, *storage.SQLiteStorage) {
	t.Helper()
	tmpDir := t.TempDir()

	store, err := storage.NewSQLiteStorage(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	audit := safety.NewAuditLog(filepath.Join(tmpDir, "agent.log"))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	return New(confirming, declining, store, audit, 10, logger), store
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t, &fakeAgent{}, &fakeAgent{})

	w := doRequest(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestPostRequestRoutesToDecliningAgentByDefault(t *testing.T) {
	confirming := &fakeAgent{resp: agent.Response{Plan: "confirmed path"}}
	declining := &fakeAgent{resp: agent.Response{Plan: "declined path"}}
	s, _ := newTestServer(t, confirming, declining)

	w := doRequest(t, s, http.MethodPost, "/v1/requests", `{"text": "delete expense 3"}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Empty(t, confirming.seen)
	assert.Equal(t, []string{"delete expense 3"}, declining.seen)
}

func TestPostRequestConfirmRoutesToConfirmingAgent(t *testing.T) {
	confirming := &fakeAgent{resp: agent.Response{
		Plan:    "Delete expense 3.",
		Results: []string{"Deleted expense #3."},
	}}
	declining := &fakeAgent{}
	s, _ := newTestServer(t, confirming, declining)

	w := doRequest(t, s, http.MethodPost, "/v1/requests", `{"text": "delete expense 3", "confirm": true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var reply struct {
		Plan    string   `json:"plan"`
		Results []string `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, "Delete expense 3.", reply.Plan)
	assert.Equal(t, []string{"Deleted expense #3."}, reply.Results)
	assert.Empty(t, declining.seen)
}

func TestPostRequestRejectsMissingText(t *testing.T) {
	s, _ := newTestServer(t, &fakeAgent{}, &fakeAgent{})

	for _, body := range []string{``, `{}`, `{"text": ""}`, `not json`} {
		w := doRequest(t, s, http.MethodPost, "/v1/requests", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %q", body)
	}
}

func TestPostRequestMapsPlannerFailuresToBadGateway(t *testing.T) {
	declining := &fakeAgent{err: fmt.Errorf("planning failed: %w", common.ErrPlannerFailure)}
	s, _ := newTestServer(t, &fakeAgent{}, declining)

	w := doRequest(t, s, http.MethodPost, "/v1/requests", `{"text": "hello"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestPostRequestMapsValidationFailuresToUnprocessable(t *testing.T) {
	declining := &fakeAgent{err: fmt.Errorf("plan validation failed: action type not allowed: explode")}
	s, _ := newTestServer(t, &fakeAgent{}, declining)

	w := doRequest(t, s, http.MethodPost, "/v1/requests", `{"text": "explode"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListExpensesEndpoint(t *testing.T) {
	s, store := newTestServer(t, &fakeAgent{}, &fakeAgent{})

	_, err := store.AddExpense(context.Background(), model.Expense{
		Date: "2025-06-18", Amount: 50000, Currency: "VND", Category: "Food",
	})
	require.NoError(t, err)

	w := doRequest(t, s, http.MethodGet, "/v1/expenses?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)

	var reply struct {
		Expenses []model.Expense `json:"expenses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	require.Len(t, reply.Expenses, 1)
	assert.Equal(t, "Food", reply.Expenses[0].Category)
}

func TestListExpensesEmptyIsArrayNotNull(t *testing.T) {
	s, _ := newTestServer(t, &fakeAgent{}, &fakeAgent{})

	w := doRequest(t, s, http.MethodGet, "/v1/expenses", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"expenses": []}`, w.Body.String())
}

func TestListBillsEndpointFiltersPaid(t *testing.T) {
	s, store := newTestServer(t, &fakeAgent{}, &fakeAgent{})

	id, err := store.AddBill(context.Background(), model.Bill{
		Name: "Rent", Amount: 5000000, Currency: "VND", DueDate: "2025-07-01",
	})
	require.NoError(t, err)
	_, err = store.AddBill(context.Background(), model.Bill{
		Name: "Internet", Amount: 300000, Currency: "VND", DueDate: "2025-07-05",
	})
	require.NoError(t, err)

	updated, err := store.MarkBillPaid(context.Background(), id)
	require.NoError(t, err)
	require.True(t, updated)

	var reply struct {
		Bills []model.Bill `json:"bills"`
	}

	w := doRequest(t, s, http.MethodGet, "/v1/bills", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	require.Len(t, reply.Bills, 1)
	assert.Equal(t, "Internet", reply.Bills[0].Name)

	w = doRequest(t, s, http.MethodGet, "/v1/bills?include_paid=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Len(t, reply.Bills, 2)
}

func TestAuditEndpoint(t *testing.T) {
	s, _ := newTestServer(t, &fakeAgent{}, &fakeAgent{})

	require.NoError(t, s.audit.Append("add coffee expense", []model.Action{
		{Type: model.ActionAddExpense, Params: map[string]any{"amount": 45000.0}},
	}))

	w := doRequest(t, s, http.MethodGet, "/v1/audit", "")
	require.Equal(t, http.StatusOK, w.Code)

	var reply struct {
		Entries []safety.AuditEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	require.Len(t, reply.Entries, 1)
	assert.Equal(t, "add coffee expense", reply.Entries[0].UserText)
}

func TestAuditEndpointEmptyIsArrayNotNull(t *testing.T) {
	s, _ := newTestServer(t, &fakeAgent{}, &fakeAgent{})

	w := doRequest(t, s, http.MethodGet, "/v1/audit", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"entries": []}`, w.Body.String())
}

func TestDeclineAllPrompter(t *testing.T) {
	confirmed, err := DeclineAll{}.ConfirmDestructive(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, confirmed)
}
