// Package server provides the HTTP API that streams analysis runs to the console.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/jonathan/memo-analyzer/internal/db"
	"github.com/jonathan/memo-analyzer/internal/logging"
	"github.com/jonathan/memo-analyzer/internal/server/ratelimit"
	"github.com/jonathan/memo-analyzer/internal/session"
	"github.com/jonathan/memo-analyzer/internal/types"
)

// RunHistory reads recorded runs. *db.DB implements it.
type RunHistory interface {
	GetRun(ctx context.Context, id uuid.UUID) (*db.AnalysisRun, error)
	ListRuns(ctx context.Context, target types.Target, limit int) ([]db.AnalysisRun, error)
}

var _ RunHistory = (*db.DB)(nil)

// Options configures a Server
type Options struct {
	Port     int
	Runner   session.Runner
	Guard    *session.Guard
	Recorder session.Recorder
	Runs     RunHistory
	// Deadline bounds how long a request waits for its run. Zero waits indefinitely.
	Deadline       time.Duration
	AllowedOrigins []string
	RateLimit      *ratelimit.Config
	Logger         *slog.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	runner      session.Runner
	guard       *session.Guard
	recorder    session.Recorder
	runs        RunHistory
	deadline    time.Duration
	rateLimiter *ratelimit.Limiter
	logger      *slog.Logger
}

// New creates a new server instance
func New(opts Options) (*Server, error) {
	if opts.Runner == nil {
		return nil, errors.New("server requires an analysis runner")
	}
	guard := opts.Guard
	if guard == nil {
		guard = session.NewGuard()
	}
	rateCfg := opts.RateLimit
	if rateCfg == nil {
		rateCfg = ratelimit.LoadConfig()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		runner:      opts.Runner,
		guard:       guard,
		recorder:    opts.Recorder,
		runs:        opts.Runs,
		deadline:    opts.Deadline,
		rateLimiter: ratelimit.NewLimiter(rateCfg),
		logger:      logging.OrDiscard(opts.Logger),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyses/{kind}/{id}", s.handleRunAnalysis)
	mux.HandleFunc("GET /analyses/{kind}/{id}/runs", s.handleListRuns)
	mux.HandleFunc("GET /runs/{id}", s.handleGetRun)
	mux.HandleFunc("POST /normalize", s.handleNormalize)
	mux.HandleFunc("GET /health", s.handleHealth)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         600,
	})
	s.handler = s.withRateLimit(s.withLogging(corsHandler.Handler(mux)))

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// No WriteTimeout: event streams stay open for the whole run
		IdleTimeout: 60 * time.Second,
	}

	return s, nil
}

// Handler returns the root handler with all middleware applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources without serving
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// statusRecorder captures the response status while keeping streaming support
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", r.RemoteAddr)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
		}
		if !allowed {
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(info.RetryAfter.Seconds())+1))
			}
			s.logger.Warn("rate limit exceeded", "path", r.URL.Path, "limit", info.Limit)
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID extracts the client identifier (IP address) from the request
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"in_flight": s.guard.Len(),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorFor writes err with its mapped status
func (s *Server) errorFor(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}
