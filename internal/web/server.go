// Package web provides the HTTP server and handlers for the picklist
// export UI. It starts export runs on background goroutines, relays the
// engine's log and progress events over SSE, and serves the finished
// report for download.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nahidhasan/picklist-export/internal/config"
	"github.com/nahidhasan/picklist-export/internal/history"
	"github.com/nahidhasan/picklist-export/internal/logging"
	"github.com/nahidhasan/picklist-export/internal/salesforce"
)

//go:embed static
var staticFiles embed.FS

// runRetention is how long a finished run stays queryable before it is
// dropped from the in-memory registry.
var runRetention = 10 * time.Minute

// Server is the HTTP server for the export application.
type Server struct {
	cfg    *config.Config
	client *salesforce.Client
	store  *history.Store // nil when history is disabled
	router *chi.Mux
	server *http.Server

	mu   sync.RWMutex
	runs map[string]*exportRun
}

// NewServer creates a new Server instance. store may be nil.
func NewServer(cfg *config.Config, client *salesforce.Client, store *history.Store) *Server {
	s := &Server{
		cfg:    cfg,
		client: client,
		store:  store,
		router: chi.NewRouter(),
		runs:   make(map[string]*exportRun),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.router.Get("/", s.handleIndex)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/objects", s.handleListObjects)
		r.Get("/runs", s.handleRunHistory)

		r.Post("/export", s.handleStartExport)
		r.Get("/export/{runID}", s.handleRunStatus)
		r.Get("/export/{runID}/events", s.handleRunEvents)
		r.Post("/export/{runID}/cancel", s.handleCancelRun)
		r.Get("/export/{runID}/download", s.handleDownload)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout, // 0 for SSE
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and cancels in-flight runs.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	for _, run := range s.runs {
		run.cancel()
	}
	s.mu.RUnlock()

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// getRun looks up a registered run by id.
func (s *Server) getRun(runID string) (*exportRun, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	return run, ok
}

// cleanup drops a finished run from the registry after the retention
// window.
func (s *Server) cleanup(runID string, after time.Duration) {
	time.AfterFunc(after, func() {
		s.mu.Lock()
		delete(s.runs, runID)
		s.mu.Unlock()
	})
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// writeError writes a JSON error response and logs it server-side with the
// request id attached.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	logging.FromContext(r.Context()).Error("request error", "status", status, "error", message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q}`, message)
}

// writeJSON encodes v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
