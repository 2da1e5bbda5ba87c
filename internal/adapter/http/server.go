package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/marine-card/internal/domain"
	"github.com/couchcryptid/marine-card/internal/render"
)

// defaultRunsLimit caps /runs responses unless the query says otherwise.
const defaultRunsLimit = 20

// ReadinessChecker reports whether the generator has produced a card yet.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// CardSource hands out the latest composed card document.
type CardSource interface {
	LatestHTML() string
}

// RunHistory lists past generation runs, newest first.
type RunHistory interface {
	RecentRuns(ctx context.Context, limit int) ([]domain.RunRecord, error)
}

// Deps wires the server's collaborators. History may be nil when the
// archive is disabled.
type Deps struct {
	OutputDir string
	Ready     ReadinessChecker
	Cards     CardSource
	History   RunHistory
}

// Server exposes health, readiness, metrics, and card HTTP endpoints.
type Server struct {
	httpServer *http.Server
	outputDir  string
	cards      CardSource
	history    RunHistory
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /card.jpg, /card.html, and /runs routes.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		outputDir: deps.OutputDir,
		cards:     deps.Cards,
		history:   deps.History,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(deps.Ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /card.jpg", s.handleCardJPEG)
	mux.HandleFunc("GET /card.html", s.handleCardHTML)
	mux.HandleFunc("GET /runs", s.handleRuns)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleCardJPEG(w http.ResponseWriter, _ *http.Request) {
	b, err := os.ReadFile(filepath.Join(s.outputDir, render.FixedName))
	if os.IsNotExist(err) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no card rendered yet"})
		return
	}
	if err != nil {
		s.logger.Error("read card file", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "card unavailable"})
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(b) //nolint:errcheck // client went away, nothing to do
}

func (s *Server) handleCardHTML(w http.ResponseWriter, _ *http.Request) {
	html := s.cards.LatestHTML()
	if html == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no card composed yet"})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html)) //nolint:errcheck // client went away, nothing to do
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "archive disabled"})
		return
	}

	limit := defaultRunsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	runs, err := s.history.RecentRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("list runs", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "archive query failed"})
		return
	}
	if runs == nil {
		runs = []domain.RunRecord{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}
