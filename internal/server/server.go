// Package server provides the HTTP API for the applicant intake service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/applicant-intake/internal/extraction"
	"github.com/jonathan/applicant-intake/internal/server/ratelimit"
	"github.com/jonathan/applicant-intake/internal/storage"
	"github.com/jonathan/applicant-intake/internal/types"
)

// LedgerAppender appends a processed record to the applications workbook.
type LedgerAppender interface {
	Append(record types.ApplicationRecord) error
}

// WebhookSender forwards a processed record to the downstream consumer.
type WebhookSender interface {
	Send(ctx context.Context, record types.ApplicationRecord) error
}

// FollowUpScheduler queues the next-day follow-up email.
type FollowUpScheduler interface {
	ScheduleFollowUp(ctx context.Context, email, name string) error
}

// RecordStore persists processed records for later lookup.
type RecordStore interface {
	SaveApplication(ctx context.Context, reference string, record types.ApplicationRecord) error
	GetApplication(ctx context.Context, reference string) (*types.ApplicationRecord, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	logger      *zap.Logger
	validate    *validator.Validate
	rateLimiter *ratelimit.Limiter

	store      storage.Store
	storageDir string
	extractor  StructuredExtractor
	ledger     LedgerAppender
	webhook    WebhookSender
	scheduler  FollowUpScheduler
	records    RecordStore
}

// StructuredExtractor mirrors extraction.Extractor for test stubbing.
type StructuredExtractor interface {
	Extract(ctx context.Context, text string) types.StructuredExtraction
}

var _ StructuredExtractor = (*extraction.Extractor)(nil)

// Config holds server configuration
type Config struct {
	Port       int
	StorageDir string

	Store     storage.Store
	Extractor StructuredExtractor
	Ledger    LedgerAppender
	Webhook   WebhookSender
	Scheduler FollowUpScheduler
	Records   RecordStore

	Logger *zap.Logger
}

// New creates a new server instance. Webhook, Scheduler and Records are
// optional; the submit flow skips whatever is nil.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if cfg.Ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		logger:      logger,
		validate:    validator.New(),
		rateLimiter: ratelimit.New(ratelimit.FromEnv()),
		store:       cfg.Store,
		storageDir:  cfg.StorageDir,
		extractor:   cfg.Extractor,
		ledger:      cfg.Ledger,
		webhook:     cfg.Webhook,
		scheduler:   cfg.Scheduler,
		records:     cfg.Records,
	}

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/applications/submit", s.handleSubmit)
	mux.HandleFunc("GET /api/applications/{reference}", s.handleGetApplication)
	mux.HandleFunc("GET /files/{name}", s.handleGetFile)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // submissions wait on the model
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the root handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		decision := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, decision)
		if !decision.Allowed {
			s.rateLimitResponse(w, decision)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For would only
// be trustworthy behind a known proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, d ratelimit.Decision) {
	if d.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", d.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", d.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", d.Reset.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, d ratelimit.Decision) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     d.Limit,
		"remaining": d.Remaining,
		"reset_at":  d.Reset.Format(time.RFC3339),
	}

	if d.RetryAfter > 0 {
		response["retry_after"] = int(d.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(d.RetryAfter.Seconds())))
	}

	s.logger.Warn("rate limit exceeded",
		zap.Int("limit", d.Limit),
		zap.Time("reset", d.Reset))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
