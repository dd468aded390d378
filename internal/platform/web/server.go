// Package web serves the HTTP surface of a served process: health, metrics,
// the list of live sessions, save export and websocket spectating.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/cosmic-clicker/internal/metrics"
	"github.com/vovakirdan/cosmic-clicker/internal/registry"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// SpectatorRate caps state messages per second on each websocket.
	SpectatorRate float64
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:       ":8080",
		SpectatorRate: 4,
	}
}

// Server is the HTTP server of a served process.
type Server struct {
	config     Config
	registry   *registry.Registry
	logger     *log.Logger
	httpServer *http.Server
}

// NewServer creates a server exposing the sessions in reg.
func NewServer(cfg Config, reg *registry.Registry, logger *log.Logger) *Server {
	if cfg.SpectatorRate <= 0 {
		cfg.SpectatorRate = DefaultConfig().SpectatorRate
	}
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		config:   cfg,
		registry: reg,
		logger:   logger.WithPrefix("http"),
	}

	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Use(s.loggingMiddleware)

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/sessions", func(r chi.Router) {
		r.Get("/", s.handleListSessions)
		r.Get("/{id}", s.handleGetSession)
		r.Get("/{id}/export", s.handleExport)
	})
	r.Get("/ws/sessions/{id}", s.handleSpectate)

	s.httpServer = &http.Server{
		Addr:              cfg.Address,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Serve runs the server until ctx is cancelled, then shuts it down.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting HTTP server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// HealthResponse represents the response for the health endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// ExportResponse carries an exported save string.
type ExportResponse struct {
	ID   string `json:"id"`
	Slot string `json:"slot"`
	Save string `json:"save"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Sessions: s.registry.Count()})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.registry.List())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, info := range s.registry.List() {
		if info.ID == id {
			s.writeJSON(w, http.StatusOK, info)
			return
		}
	}
	s.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "session not found"})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		s.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "session not found"})
		return
	}

	save, err := sess.Export()
	if err != nil {
		s.logger.Error("export failed", "id", sess.ID(), "error", err)
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "export failed"})
		return
	}
	s.writeJSON(w, http.StatusOK, ExportResponse{ID: sess.ID(), Slot: sess.Slot(), Save: save})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("could not write response", "error", err)
	}
}

// loggingMiddleware logs every request except health checks and scrapes.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/healthz") || strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		logger := s.logger.With("request_id", uuid.NewString())
		logger.Debug("request started", "method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr)

		next.ServeHTTP(w, r)

		logger.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}
