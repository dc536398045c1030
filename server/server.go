package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"

	"netflix-dashboard/models"
	"netflix-dashboard/services"
	"netflix-dashboard/utils"
)

//go:embed web/index.html
var indexHTML []byte

// Options configures the HTTP presenter.
type Options struct {
	DefaultRange models.YearRange
	// RateLimit is the per-IP request budget per minute on /api; 0 disables it.
	RateLimit int
}

// Server presents the dashboard over HTTP. It holds the enriched base
// table read-only and rebuilds the dashboard on every request.
type Server struct {
	base      models.Table
	skipped   int
	dashboard *services.DashboardService
	logger    *utils.Logger
	opts      Options
}

func New(load *models.LoadResult, dashboard *services.DashboardService, logger *utils.Logger, opts Options) *Server {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Server{
		base:      load.Titles,
		skipped:   load.Skipped,
		dashboard: dashboard,
		logger:    logger,
		opts:      opts,
	}
}

// Routes returns the HTTP handler for the dashboard.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)

	r.Route("/api", func(r chi.Router) {
		if s.opts.RateLimit > 0 {
			r.Use(httprate.LimitByIP(s.opts.RateLimit, time.Minute))
		}
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/health", s.handleHealth)
	})

	return r
}

// Run serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[server] Dashboard listening on http://%s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("[server] Shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(indexHTML); err != nil {
		s.logger.Error("[server] Write index: %v", err)
	}
}

// handleDashboard treats every request as one range-change event.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	rng, err := s.parseRange(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "INVALID_RANGE", err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, s.dashboard.Build(s.base, rng))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]int{
		"titles":  len(s.base),
		"skipped": s.skipped,
	})
}

// parseRange reads from/to query parameters, falling back to the default
// range for whichever is missing.
func (s *Server) parseRange(r *http.Request) (models.YearRange, error) {
	rng := s.opts.DefaultRange
	q := r.URL.Query()

	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"from", &rng.From},
		{"to", &rng.To},
	} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return models.YearRange{}, fmt.Errorf("%s must be an integer year, got %q", p.name, raw)
		}
		*p.dst = n
	}
	return rng.Normalize(), nil
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiResponse struct {
	Status string    `json:"status"`
	Data   any       `json:"data,omitempty"`
	Error  *apiError `json:"error,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	s.write(w, status, &apiResponse{Status: "success", Data: data})
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.write(w, status, &apiResponse{Status: "error", Error: &apiError{Code: code, Message: message}})
}

func (s *Server) write(w http.ResponseWriter, status int, resp *apiResponse) {
	body, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("[server] Marshal response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Error("[server] Write response: %v", err)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("[server] %s %s %d %v", r.Method, r.URL.RequestURI(), ww.Status(), time.Since(start).Round(time.Microsecond))
	})
}
