// Package coordinator orchestrates fetches: cache lookup, supersession of
// in-flight requests per call site, retry around the network call, and
// write-through on success.
package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/revlens/revlens/internal/cache"
	"github.com/revlens/revlens/internal/core/domain"
	"github.com/revlens/revlens/internal/infra/api"
	"github.com/revlens/revlens/internal/metrics"
	"github.com/revlens/revlens/internal/transform"
)

// ErrSuperseded signals that a newer request from the same call site
// replaced this one. Callers treat it as "ignore": the result never
// reaches any state.
var ErrSuperseded = errors.New("request superseded by a newer one")

const recordsEndpoint = "records"

// FetchOptions control cache behavior for one fetch.
type FetchOptions struct {
	// ForceRefresh bypasses the cache lookup (the result is still
	// written through).
	ForceRefresh bool

	// IncludeCache enables both the lookup and the write-through.
	IncludeCache bool
}

// DefaultFetchOptions serve from cache when possible.
var DefaultFetchOptions = FetchOptions{IncludeCache: true}

// FetchResult is what UI consumers receive. Failures populate Err instead
// of escaping as an error; only cancellation and supersession are
// returned as Go errors.
type FetchResult struct {
	Data        []domain.RevenueRecord `json:"data"`
	Pagination  domain.Pagination      `json:"pagination"`
	LastUpdated time.Time              `json:"last_updated"`
	FromCache   bool                   `json:"from_cache"`
	Err         string                 `json:"error,omitempty"`
}

// ChartResult is a FetchResult already shaped for one chart kind.
type ChartResult struct {
	Series      any       `json:"series"`
	LastUpdated time.Time `json:"last_updated"`
	Err         string    `json:"error,omitempty"`
}

// inflight is the cancellation token for one call site. It is replaced
// atomically on each new request; identity comparison against the
// registry decides whether a resolution is still current.
type inflight struct {
	cancel context.CancelFunc
}

// Coordinator sits between UI consumers and the reporting endpoint.
type Coordinator struct {
	store  *cache.Store
	client *api.Client
	retry  api.RetryConfig
	ttl    time.Duration

	mu       sync.Mutex
	inFlight map[string]*inflight
}

// New creates a coordinator. A zero ttl uses the cache default.
func New(store *cache.Store, client *api.Client, retry api.RetryConfig, ttl time.Duration) *Coordinator {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Coordinator{
		store:    store,
		client:   client,
		retry:    retry,
		ttl:      ttl,
		inFlight: make(map[string]*inflight),
	}
}

// FetchData resolves a request for a call site. Cache first (unless
// forced), then the network behind the retry executor. Terminal failures
// come back inside the result; the returned error is non-nil only for
// cancellation or supersession.
func (c *Coordinator) FetchData(ctx context.Context, site string, req domain.FetchRequest, opts FetchOptions) (FetchResult, error) {
	req = req.Normalized()
	key := cache.Key(recordsEndpoint, req)
	trace := uuid.NewString()

	if opts.IncludeCache && !opts.ForceRefresh {
		if entry, ok := c.store.Get(key); ok {
			slog.Debug("fetch served from cache", "trace", trace, "site", site)
			return FetchResult{
				Data:        entry.Data,
				Pagination:  entry.Pagination,
				LastUpdated: entry.Timestamp,
				FromCache:   true,
			}, nil
		}
	}

	// Replace this site's cancellation token before the new call is
	// issued. The superseded request observes a cancelled context and
	// its resolution is discarded by the identity check below.
	callCtx, cancel := context.WithCancel(ctx)
	token := &inflight{cancel: cancel}

	c.mu.Lock()
	if prev, ok := c.inFlight[site]; ok {
		prev.cancel()
		metrics.RequestsSuperseded.Inc()
	}
	c.inFlight[site] = token
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.inFlight[site] == token {
			delete(c.inFlight, site)
		}
		c.mu.Unlock()
		cancel()
	}()

	slog.Debug("fetch started", "trace", trace, "site", site, "page", req.Page, "chunked", req.Chunked)

	resp, err := api.DoWithRetry(callCtx, c.retry, func(ctx context.Context) (*api.FetchResponse, error) {
		if req.Chunked {
			return c.client.FetchAllRecords(ctx, req)
		}
		return c.client.FetchRecords(ctx, req)
	})

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			if ctx.Err() != nil {
				// The caller itself went away.
				return FetchResult{}, ctx.Err()
			}
			return FetchResult{}, ErrSuperseded
		}

		cerr := api.Classify(err)
		metrics.FetchErrors.WithLabelValues(string(cerr.Kind)).Inc()
		slog.Warn("fetch failed", "trace", trace, "site", site, "kind", cerr.Kind, "error", cerr.Message)
		return FetchResult{
			Data:        []domain.RevenueRecord{},
			LastUpdated: time.Now(),
			Err:         cerr.Message,
		}, nil
	}

	// A newer request may have replaced this one while the network call
	// was completing. Its result must not overwrite state or cache.
	if !c.isCurrent(site, token) {
		return FetchResult{}, ErrSuperseded
	}

	now := time.Now()
	if opts.IncludeCache && len(resp.Data) > 0 {
		c.store.Set(key, resp.Data, resp.Pagination, c.ttl)
	}

	slog.Debug("fetch completed", "trace", trace, "site", site, "rows", len(resp.Data))
	return FetchResult{
		Data:        resp.Data,
		Pagination:  resp.Pagination,
		LastUpdated: now,
	}, nil
}

// FetchChartData fetches records and reshapes them for one chart kind.
func (c *Coordinator) FetchChartData(ctx context.Context, site string, kind transform.Kind, req domain.FetchRequest, opts FetchOptions) (ChartResult, error) {
	result, err := c.FetchData(ctx, site, req, opts)
	if err != nil {
		return ChartResult{}, err
	}
	if result.Err != "" {
		// Feed an empty (non-nil) slice so every kind, including ones
		// the dispatcher passes through unchanged, serializes as an
		// empty series rather than null.
		return ChartResult{
			Series:      transform.Transform(kind, []domain.RevenueRecord{}, req.Filters),
			LastUpdated: result.LastUpdated,
			Err:         result.Err,
		}, nil
	}
	return ChartResult{
		Series:      transform.Transform(kind, result.Data, req.Filters),
		LastUpdated: result.LastUpdated,
	}, nil
}

// Refetch re-issues the same request bypassing the cache lookup.
func (c *Coordinator) Refetch(ctx context.Context, site string, req domain.FetchRequest) (FetchResult, error) {
	return c.FetchData(ctx, site, req, FetchOptions{ForceRefresh: true, IncludeCache: true})
}

// InvalidateCache drops the entry for req; a nil req clears the whole
// store.
func (c *Coordinator) InvalidateCache(req *domain.FetchRequest) {
	if req == nil {
		c.store.Clear()
		return
	}
	c.store.Invalidate(cache.Key(recordsEndpoint, req.Normalized()))
}

// CacheStats exposes the store counters.
func (c *Coordinator) CacheStats() cache.Stats {
	return c.store.Stats()
}

// Monitor exposes endpoint health for the ops server.
func (c *Coordinator) Monitor() *api.EndpointMonitor {
	return c.client.Monitor
}

func (c *Coordinator) isCurrent(site string, token *inflight) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight[site] == token
}
