// Package api provides the HTTP endpoints for the price server.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Junman140/oracle/pkg/logging"
	"github.com/Junman140/oracle/pkg/metrics"
	"github.com/Junman140/oracle/pkg/server/aggregator"
)

// Server represents the HTTP API server.
type Server struct {
	addr       string
	aggregator *aggregator.Aggregator
	server     *http.Server
	logger     *logging.Logger
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, agg *aggregator.Aggregator, logger *logging.Logger) *Server {
	return &Server{
		addr:       addr,
		aggregator: agg,
		logger:     logger,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/v1/price", s.handlePrice)
	mux.HandleFunc("/v1/sources", s.handleSources)

	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("Starting HTTP server", "addr", s.addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		s.logger.Info("Stopping HTTP server")
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleHealthz handles the /healthz endpoint.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	defer func() {
		metrics.RecordHTTPRequest("/healthz", "200", time.Since(start))
	}()

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handlePrice handles the /v1/price endpoint: the sole price-producing entry point.
func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "200"
	defer func() {
		metrics.RecordHTTPRequest("/v1/price", status, time.Since(start))
	}()

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	result, err := s.aggregator.AggregatedPrice(ctx)
	if err != nil {
		status = "503"
		s.logger.Error("Failed to aggregate price", "error", err.Error())
		s.sendError(w, http.StatusServiceUnavailable, "insufficient price sources")
		return
	}

	s.sendJSON(w, result)
}

// handleSources handles the /v1/sources endpoint: per-source health statistics.
func (s *Server) handleSources(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	defer func() {
		metrics.RecordHTTPRequest("/v1/sources", "200", time.Since(start))
	}()

	s.sendJSON(w, s.aggregator.SourceStatuses())
}

// sendJSON sends a JSON response.
func (s *Server) sendJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response", "error", err)
	}
}

// sendError sends a JSON error response.
func (s *Server) sendError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		s.logger.Error("Failed to encode JSON error response", "error", err)
	}
}
