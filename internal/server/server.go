package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/dyphira-git/dyfusion-explorer/internal/config"
	"github.com/dyphira-git/dyfusion-explorer/internal/metrics"
	"github.com/dyphira-git/dyfusion-explorer/internal/models"
	"github.com/dyphira-git/dyfusion-explorer/internal/render"
)

// DashboardLoader produces a validated dashboard snapshot.
type DashboardLoader interface {
	Load(ctx context.Context) (*models.Dashboard, error)
}

// Server serves the explorer dashboard over HTTP.
type Server struct {
	cfg      config.ServeConfig
	loader   DashboardLoader
	renderer *render.Renderer
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	router   *mux.Router
}

func New(cfg config.ServeConfig, loader DashboardLoader, renderer *render.Renderer, m *metrics.Metrics, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		cfg:      cfg,
		loader:   loader,
		renderer: renderer,
		metrics:  m,
		gatherer: gatherer,
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/", s.handleDashboard).Methods(http.MethodGet, http.MethodHead)
	s.router.HandleFunc("/api/dashboard", s.handleDashboardJSON).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

// Handler returns the router wrapped with CORS handling.
func (s *Server) Handler() http.Handler {
	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
	}).Handler(s.router)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Explorer server started", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down explorer server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (*models.Dashboard, bool) {
	dash, err := s.loader.Load(r.Context())
	if err != nil {
		slog.Error("Failed to load dashboard", "path", r.URL.Path, "error", err)
		http.Error(w, "dashboard data is unavailable", http.StatusServiceUnavailable)
		return nil, false
	}
	return dash, true
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, ok := s.load(w, r)
	if !ok {
		return
	}

	// Buffered: a render error must still be able to set the status code.
	var buf bytes.Buffer
	if err := s.renderer.RenderDashboard(&buf, dash); err != nil {
		slog.Error("Failed to render dashboard", "error", err)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}
	s.countRender("html")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("Failed to write dashboard", "error", err)
	}
}

func (s *Server) handleDashboardJSON(w http.ResponseWriter, r *http.Request) {
	dash, ok := s.load(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.RenderJSON(&buf, dash); err != nil {
		slog.Error("Failed to encode dashboard", "error", err)
		http.Error(w, "failed to encode dashboard", http.StatusInternalServerError)
		return
	}
	s.countRender("json")
	w.Header().Set("Content-Type", "application/json")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("Failed to write dashboard", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "ok %s\n", time.Now().UTC().Format(time.RFC3339))
}

func (s *Server) countRender(format string) {
	if s.metrics != nil {
		s.metrics.Renders.WithLabelValues(format).Inc()
	}
}
