// Package web exposes the agent over HTTP for programmatic callers.
// There is no interactive confirmation here: destructive batches run
// only when the request opts in with "confirm": true.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nvqpham/tally/internal/agent"
	"github.com/nvqpham/tally/internal/common"
	"github.com/nvqpham/tally/internal/model"
	"github.com/nvqpham/tally/internal/safety"
	"github.com/nvqpham/tally/internal/service"
)

// RequestAgent is the slice of the agent the HTTP layer needs.
type RequestAgent interface {
	HandleRequest(ctx context.Context, userText string) (agent.Response, error)
}

// Server serves the JSON API.
type Server struct {
	confirming RequestAgent
	declining  RequestAgent
	store      service.Storage
	audit      *safety.AuditLog
	logger     *slog.Logger
	limit      int
}

// New creates a server. The confirming agent auto-approves destructive
// batches; the declining agent refuses them. Which one handles a request
// depends on the request's confirm field.
func New(confirming, declining RequestAgent, store service.Storage, audit *safety.AuditLog, defaultLimit int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &Server{
		confirming: confirming,
		declining:  declining,
		store:      store,
		audit:      audit,
		logger:     logger,
		limit:      defaultLimit,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/health", s.handleHealth)

	v1 := router.Group("/v1")
	{
		v1.POST("/requests", s.handleRequest)
		v1.GET("/expenses", s.handleListExpenses)
		v1.GET("/bills", s.handleListBills)
		v1.GET("/audit", s.handleAudit)
	}

	return router
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("http server listening", "addr", addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type requestBody struct {
	Text    string `json:"text" binding:"required"`
	Confirm bool   `json:"confirm"`
}

type requestReply struct {
	Plan    string   `json:"plan"`
	Results []string `json:"results"`
}

func (s *Server) handleRequest(c *gin.Context) {
	var body requestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must include a non-empty \"text\" field"})
		return
	}

	handler := s.declining
	if body.Confirm {
		handler = s.confirming
	}

	resp, err := handler.HandleRequest(c.Request.Context(), body.Text)
	if err != nil {
		s.logger.Error("request handling failed", "error", err)
		switch {
		case errors.Is(err, common.ErrPlannerFailure), errors.Is(err, common.ErrUnparseable):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, requestReply{Plan: resp.Plan, Results: resp.Results})
}

func (s *Server) handleListExpenses(c *gin.Context) {
	limit := s.queryInt(c, "limit", s.limit)

	expenses, err := s.store.ListExpenses(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list expenses"})
		return
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

func (s *Server) handleListBills(c *gin.Context) {
	includePaid := c.Query("include_paid") == "true"

	bills, err := s.store.ListBills(c.Request.Context(), includePaid)
	if err != nil {
		s.logger.Error("failed to list bills", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bills"})
		return
	}
	if bills == nil {
		bills = []model.Bill{}
	}
	c.JSON(http.StatusOK, gin.H{"bills": bills})
}

func (s *Server) handleAudit(c *gin.Context) {
	limit := s.queryInt(c, "limit", s.limit)

	entries, err := s.audit.Recent(limit)
	if err != nil {
		s.logger.Error("failed to read audit log", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read audit log"})
		return
	}
	if entries == nil {
		entries = []safety.AuditEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *Server) queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
