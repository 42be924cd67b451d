package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/speedwagon-io/stationfeed/internal/config"
	"github.com/speedwagon-io/stationfeed/internal/lib/logger/sl"
	"github.com/speedwagon-io/stationfeed/internal/model"
	"github.com/speedwagon-io/stationfeed/internal/report"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

type ComponentHealth struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status     Status            `json:"status"`
	Components []ComponentHealth `json:"components"`
	Timestamp  time.Time         `json:"timestamp"`
}

type HealthChecker interface {
	Name() string
	Check(ctx context.Context) (Status, string)
}

// Source runs one fetch-and-reshape pass. A nil or empty map means no data.
type Source interface {
	Collect(ctx context.Context) *model.SensorMap
}

type Server struct {
	log      *slog.Logger
	address  string
	source   Source
	lastRun  *LastRunChecker
	server   *http.Server
	checkers []HealthChecker
	mu       sync.RWMutex
}

func NewServer(log *slog.Logger, address string, source Source) *Server {
	lastRun := NewLastRunChecker()
	return &Server{
		log:      log,
		address:  address,
		source:   source,
		lastRun:  lastRun,
		checkers: []HealthChecker{lastRun},
	}
}

func (s *Server) AddChecker(checker HealthChecker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers = append(s.checkers, checker)
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/sensors", s.handleSensors)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Get("/live", s.handleLive)

	return r
}

// Serve blocks until ctx is cancelled or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	s.server = &http.Server{
		Addr:        s.address,
		Handler:     s.Router(),
		ReadTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting http server", slog.String("address", s.address))
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.log.Info("http server shutting down")
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleSensors(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sensors := s.source.Collect(r.Context())
	ok := sensors != nil && sensors.Len() > 0
	s.lastRun.Record(ok)
	if !ok {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": report.FailedMessage})
		return
	}

	data, err := report.Render(sensors, format)
	if err != nil {
		s.log.Error("failed to render sensors", sl.Err(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", report.ContentType(format))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.log.Error("failed to write sensors response", sl.Err(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	checkers := make([]HealthChecker, len(s.checkers))
	copy(checkers, s.checkers)
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:     StatusHealthy,
		Components: make([]ComponentHealth, 0, len(checkers)),
		Timestamp:  time.Now().UTC(),
	}

	for _, checker := range checkers {
		status, message := checker.Check(ctx)
		response.Components = append(response.Components, ComponentHealth{
			Name:    checker.Name(),
			Status:  status,
			Message: message,
		})

		if status == StatusUnhealthy {
			response.Status = StatusUnhealthy
		} else if status == StatusDegraded && response.Status == StatusHealthy {
			response.Status = StatusDegraded
		}
	}

	statusCode := http.StatusOK
	if response.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, response)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON", sl.Err(err))
	}
}

// LastRunChecker reports degraded while the most recent /sensors request
// came back without data.
type LastRunChecker struct {
	mu       sync.Mutex
	ran      bool
	ok       bool
	lastTime time.Time
}

func NewLastRunChecker() *LastRunChecker {
	return &LastRunChecker{}
}

func (c *LastRunChecker) Record(ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ran = true
	c.ok = ok
	c.lastTime = time.Now().UTC()
}

func (c *LastRunChecker) Name() string {
	return "last_run"
}

func (c *LastRunChecker) Check(ctx context.Context) (Status, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case !c.ran:
		return StatusHealthy, "no runs yet"
	case !c.ok:
		return StatusDegraded, "last run at " + c.lastTime.Format(time.RFC3339) + " returned no data"
	default:
		return StatusHealthy, ""
	}
}

// SecretsChecker re-reads the secrets file on every check and is unhealthy
// once the file is gone or no longer holds both credentials.
type SecretsChecker struct {
	path string
}

func NewSecretsChecker(path string) *SecretsChecker {
	return &SecretsChecker{path: path}
}

func (c *SecretsChecker) Name() string {
	return "secrets"
}

func (c *SecretsChecker) Check(ctx context.Context) (Status, string) {
	if _, err := config.LoadCredentials(c.path); err != nil {
		return StatusUnhealthy, err.Error()
	}
	return StatusHealthy, ""
}
