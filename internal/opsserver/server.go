// Package opsserver exposes operational HTTP endpoints: endpoint health,
// cache statistics, and Prometheus metrics.
package opsserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/revlens/revlens/internal/coordinator"
	"github.com/revlens/revlens/internal/infra/api"
)

// Server provides HTTP endpoints for health monitoring.
type Server struct {
	coord  *coordinator.Coordinator
	server *http.Server
}

// NewServer creates a new ops server.
func NewServer(coord *coordinator.Coordinator, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		coord: coord,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/cache/stats", s.handleCacheStats)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snapshot := s.coord.Monitor().Snapshot()

	w.Header().Set("Content-Type", "application/json")
	if snapshot.Status != api.StatusHealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	_ = json.NewEncoder(w).Encode(snapshot)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.coord.CacheStats())
}
