// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the client for the Godot documentation assistant backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/gdchat-tui/internal/cache"
	"github.com/jeranaias/gdchat-tui/internal/config"
	"github.com/jeranaias/gdchat-tui/internal/retry"
)

// Configuration constants for the assistant API.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// Sentinel errors for common failure modes.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("authentication required")
	ErrRateLimited  = errors.New("rate limited by backend")
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// Shared HTTP transport for all backend requests.
var sharedTransport = &http.Transport{
	MaxIdleConns:        10,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
}

// =============================================================================
// API ERROR
// =============================================================================

// APIError is a failed backend call carrying the HTTP status.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// HTTPStatus implements apperror.StatusCarrier.
func (e *APIError) HTTPStatus() int {
	return e.Status
}

// Is maps statuses onto the package sentinels so callers can use
// errors.Is without losing the status carrier from the chain.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	}
	return false
}

// envelope is the response wrapper every endpoint uses.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Code    string          `json:"code,omitempty"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the documentation assistant backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retryOpts  retry.Options

	sessions *cache.TTLCache[[]SessionRecord]
	sources  *cache.TTLCache[[]Source]
	queries  *cache.QueryCache[QueryResponse]
	caching  bool
}

// NewClient creates a client from the API configuration.
func NewClient(cfg config.APIConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var limiter *rate.Limiter
	if cfg.RateLimitPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitPerSec), 1)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Transport: sharedTransport,
			Timeout:   timeout,
		},
		limiter: limiter,
		retryOpts: retry.Options{
			MaxAttempts: cfg.MaxRetries,
			Delay:       time.Duration(cfg.RetryDelayMs) * time.Millisecond,
			Backoff:     retry.BackoffExponential,
		},
		sessions: cache.NewTTLCache[[]SessionRecord](cache.SessionTTL),
		sources:  cache.NewTTLCache[[]Source](cache.SourceTTL),
		queries:  cache.NewQueryCache[QueryResponse](cache.DefaultQueryCacheSize, cache.QueryTTL),
		caching:  true,
	}
}

// WithCaching enables or disables response caching.
func (c *Client) WithCaching(enabled bool) *Client {
	c.caching = enabled
	return c
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// doJSON performs one request with rate limiting and retry, decoding
// the envelope's data field into T. Only transient failures are
// retried; 4xx responses return immediately.
func doJSON[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	return retry.Do(ctx, func(ctx context.Context) (T, error) {
		var zero T
		raw, err := c.doOnce(ctx, method, path, body)
		if err != nil {
			if !retryEligible(err) {
				return zero, retry.Permanent(err)
			}
			return zero, err
		}
		if len(raw) == 0 || string(raw) == "null" {
			return zero, nil
		}
		if err := json.Unmarshal(raw, &zero); err != nil {
			return zero, retry.Permanent(fmt.Errorf("decoding %s %s: %w", method, path, err))
		}
		return zero, nil
	}, c.retryOpts)
}

// doOnce performs a single HTTP round trip and unwraps the envelope.
func (c *Client) doOnce(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromResponse(resp.StatusCode, data)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if !env.Success {
		return nil, &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message}
	}
	return env.Data, nil
}

// readResponse reads a body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// errorFromResponse converts an HTTP error response to a Go error.
func errorFromResponse(status int, body []byte) error {
	apiErr := &APIError{Status: status, Message: strings.TrimSpace(string(body))}

	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		apiErr.Code = env.Code
		apiErr.Message = env.Message
	}
	return apiErr
}

// retryEligible reports whether a failure is worth another attempt:
// transport errors and 5xx, never context cancellation or 4xx.
func retryEligible(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500 && apiErr.Status < 600
	}
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrRateLimited) {
		return false
	}
	// Anything left is a transport-level failure.
	return true
}
