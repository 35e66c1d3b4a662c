// Package control wires the data-access layer together and manages its
// lifecycle.
package control

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/revlens/revlens/internal/cache"
	"github.com/revlens/revlens/internal/coordinator"
	"github.com/revlens/revlens/internal/core/config"
	"github.com/revlens/revlens/internal/infra/api"
	"github.com/revlens/revlens/internal/opsserver"
)

// Service composes the API client, cache store, request coordinator, and
// ops server.
type Service struct {
	cfg    *config.AppConfig
	store  *cache.Store
	client *api.Client
	coord  *coordinator.Coordinator
	ops    *opsserver.Server

	sweepCancel context.CancelFunc
}

// NewService creates a service with all dependencies initialized.
func NewService(cfg *config.AppConfig) *Service {
	store := cache.New(cfg.Cache.Capacity, cfg.Cache.TTL)
	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	coord := coordinator.New(store, client, api.RetryConfig{
		MaxRetries: cfg.Retry.MaxRetries,
		BaseDelay:  cfg.Retry.BaseDelay,
		Multiplier: cfg.Retry.Multiplier,
		MaxDelay:   cfg.Retry.MaxDelay,
	}, cfg.Cache.TTL)

	return &Service{
		cfg:    cfg,
		store:  store,
		client: client,
		coord:  coord,
		ops:    opsserver.NewServer(coord, cfg.Server.Port),
	}
}

// Coordinator returns the request coordinator for embedding consumers.
func (s *Service) Coordinator() *coordinator.Coordinator {
	return s.coord
}

// Start launches the cache sweeper and the ops server. Non-blocking.
func (s *Service) Start(ctx context.Context) error {
	sweepCtx, cancel := context.WithCancel(ctx)
	s.sweepCancel = cancel
	go s.store.StartSweeper(sweepCtx, s.cfg.Cache.SweepInterval)

	go func() {
		slog.Info("ops server listening", "addr", s.ops.Addr())
		if err := s.ops.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("ops server failed", "error", err)
		}
	}()

	slog.Info("service started",
		"endpoint", s.client.BaseURL(),
		"cache_capacity", s.cfg.Cache.Capacity,
		"cache_ttl", s.cfg.Cache.TTL,
	)
	return nil
}

// Stop shuts the service down gracefully.
func (s *Service) Stop(ctx context.Context) error {
	if s.sweepCancel != nil {
		s.sweepCancel()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.ops.Stop(shutdownCtx); err != nil {
		return err
	}

	slog.Info("service stopped")
	return nil
}
