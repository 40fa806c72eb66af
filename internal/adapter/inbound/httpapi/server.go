package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/json-agents/jsonagents-go/internal/domain/policy"
	"github.com/json-agents/jsonagents-go/internal/domain/uri"
	"github.com/json-agents/jsonagents-go/internal/service"
)

// Server serves validation requests over HTTP. All endpoints are
// stateless; the server owns no mutable state beyond metrics counters.
type Server struct {
	manifests *service.ManifestService
	policy    *policy.Validator
	uri       *uri.Validator
	metrics   *Metrics
	logger    *slog.Logger
	version   string

	httpServer *http.Server
}

// NewServer creates a Server listening on addr once Start is called.
// The registry receives both the service metrics and is served at
// /metrics.
func NewServer(addr string, manifests *service.ManifestService, reg *prometheus.Registry, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		manifests: manifests,
		policy:    policy.NewValidator(),
		uri:       uri.NewValidator(),
		metrics:   NewMetrics(reg),
		logger:    logger,
		version:   version,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/manifest", s.handleManifest)
	mux.HandleFunc("POST /v1/policy", s.handlePolicy)
	mux.HandleFunc("POST /v1/uri", s.handleURI)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start runs the server until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("validation service listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the underlying HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		s.metrics.RequestDuration.WithLabelValues("manifest").Observe(time.Since(start).Seconds())
	}()

	var doc map[string]any
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON manifest")
		return
	}

	strict := r.URL.Query().Get("strict") == "true"
	report := s.manifests.ValidateManifest(r.Context(), doc, strict)

	s.metrics.ManifestValidations.WithLabelValues(resultLabel(report.Valid)).Inc()
	writeJSON(w, http.StatusOK, report)
}

type expressionRequest struct {
	Expression string `json:"expression"`
}

func (s *Server) handlePolicy(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		s.metrics.RequestDuration.WithLabelValues("policy").Observe(time.Since(start).Seconds())
	}()

	var req expressionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be {\"expression\": ...}")
		return
	}

	result := s.policy.Validate(req.Expression)
	s.metrics.ExpressionValidations.WithLabelValues("policy", resultLabel(result.Valid)).Inc()
	writeJSON(w, http.StatusOK, result)
}

type uriRequest struct {
	URI string `json:"uri"`
}

// uriResponse augments the validation result with the well-known HTTPS
// form when the URI is valid.
type uriResponse struct {
	uri.ValidationResult
	HTTPS string `json:"https,omitempty"`
}

func (s *Server) handleURI(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		s.metrics.RequestDuration.WithLabelValues("uri").Observe(time.Since(start).Seconds())
	}()

	var req uriRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be {\"uri\": ...}")
		return
	}

	result := s.uri.Validate(req.URI)
	s.metrics.ExpressionValidations.WithLabelValues("uri", resultLabel(result.Valid)).Inc()

	resp := uriResponse{ValidationResult: result}
	if result.Valid {
		if https, err := s.uri.ToHTTPS(req.URI); err == nil {
			resp.HTTPS = https
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// healthResponse is the JSON response from the /health endpoint.
type healthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version,omitempty"`
	Goroutines int    `json:"goroutines"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	// The service is stateless; if we can answer, we are healthy.
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "healthy",
		Version:    s.version,
		Goroutines: runtime.NumGoroutine(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
