// Package api implements the client side of the revenue reporting
// endpoint.
//
// This package contains:
//   - Client: HTTP client for the records route
//   - ClassifiedError / Classify: error taxonomy for failed calls
//   - DoWithRetry: bounded retry with exponential backoff
//   - EndpointMonitor: health and rate tracking
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/revlens/revlens/internal/core/domain"
	"github.com/revlens/revlens/internal/metrics"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "https://reporting.revlens.io"

	// BaseURLEnv selects the reporting endpoint host.
	BaseURLEnv = "REVLENS_API_BASE_URL"

	recordsPath = "/api/v1/revenue/records"
)

// BaseURLFromEnv returns the configured endpoint host, falling back to
// the default.
func BaseURLFromEnv() string {
	if v := os.Getenv(BaseURLEnv); v != "" {
		return v
	}
	return DefaultBaseURL
}

// FetchResponse is the success payload of the records route.
type FetchResponse struct {
	Data       []domain.RevenueRecord `json:"data"`
	Pagination domain.Pagination      `json:"pagination"`
}

// Client fetches revenue records from the reporting endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client

	Monitor *EndpointMonitor
}

// NewClient creates a reporting endpoint client. An empty baseURL falls
// back to the environment and then the default host.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = BaseURLFromEnv()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Monitor: NewEndpointMonitor(),
	}
}

// BaseURL returns the configured endpoint host.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchRecords performs a single records query. All failures are returned
// as *ClassifiedError, except context cancellation which propagates as-is.
func (c *Client) FetchRecords(ctx context.Context, req domain.FetchRequest) (*FetchResponse, error) {
	start := time.Now()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+recordsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.Monitor.RecordFailure(0)
		return nil, ClassifyTransport(err)
	}
	defer resp.Body.Close()

	latency := time.Since(start)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Monitor.RecordFailure(resp.StatusCode)
		return nil, ClassifyTransport(err)
	}

	if resp.StatusCode != http.StatusOK {
		c.Monitor.RecordFailure(resp.StatusCode)
		return nil, ClassifyResponse(resp.StatusCode, respBody)
	}

	var out FetchResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		c.Monitor.RecordFailure(resp.StatusCode)
		return nil, &ClassifiedError{
			Message:    fmt.Sprintf("parse response: %v", err),
			Kind:       KindGeneric,
			HTTPStatus: resp.StatusCode,
			Retryable:  true,
		}
	}

	c.Monitor.RecordSuccess(latency)
	metrics.FetchLatency.Observe(latency.Seconds())

	return &out, nil
}

// FetchAllRecords pages through the endpoint accumulating every row that
// matches the filters. Used for chunked fetches (exports, full-series
// charts). Each page goes through the same single-call path; retry policy
// is applied by the caller around the whole operation.
func (c *Client) FetchAllRecords(ctx context.Context, req domain.FetchRequest) (*FetchResponse, error) {
	req = req.Normalized()
	req.Page = 1

	var all []domain.RevenueRecord
	var last domain.Pagination

	for {
		page, err := c.FetchRecords(ctx, req)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Data...)
		last = page.Pagination

		if last.TotalPages == 0 || req.Page >= last.TotalPages || len(page.Data) == 0 {
			break
		}
		req.Page++
	}

	last.Page = 1
	last.PageSize = len(all)
	return &FetchResponse{Data: all, Pagination: last}, nil
}
