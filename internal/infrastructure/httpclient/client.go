// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package httpclient is the REST client shared by the provider APIs: bearer
// authentication, retries with jittered exponential backoff and typed errors.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
)

const (
	// DefaultClientTimeout is the default HTTP client timeout for provider requests
	DefaultClientTimeout = 30 * time.Second
	// Default retry configuration
	DefaultMaxRetries        = 3
	DefaultInitialBackoff    = 1 * time.Second
	DefaultMaxBackoff        = 30 * time.Second
	DefaultBackoffMultiplier = 2.0
)

// ErrorParser extracts the vendor code and message from an error body.
type ErrorParser func(body []byte) (code string, message string)

// Config holds the configuration for a provider client
type Config struct {
	// Provider names the vendor in logs and errors.
	Provider string
	BaseURL  string
	// Optional: override timeout for HTTP requests
	Timeout time.Duration
	// Optional: retry configuration. A negative MaxRetries disables retries.
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
	// Optional: JSON codec, encoding/json by default
	Marshal   func(v any) ([]byte, error)
	Unmarshal func(data []byte, v any) error
	// Optional: vendor error body parser
	ParseError ErrorParser
	// Optional: base transport, wrapped with otelhttp
	Transport http.RoundTripper
}

// Client performs authenticated JSON requests against one provider.
type Client struct {
	config    Config
	transport http.RoundTripper
}

// New creates a provider client, filling unset options with defaults.
func New(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = DefaultInitialBackoff
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = DefaultMaxBackoff
	}
	if config.BackoffMultiplier == 0 {
		config.BackoffMultiplier = DefaultBackoffMultiplier
	}
	if config.Marshal == nil {
		config.Marshal = json.Marshal
	}
	if config.Unmarshal == nil {
		config.Unmarshal = json.Unmarshal
	}

	base := config.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	return &Client{
		config:    config,
		transport: otelhttp.NewTransport(base),
	}
}

// Provider returns the configured vendor name.
func (c *Client) Provider() string {
	return c.config.Provider
}

// Do sends a request with the access token as bearer credential. A 2xx
// response body is decoded into out when out is non-nil; any other status
// is returned as *APIError.
func (c *Client) Do(ctx context.Context, method, path, accessToken string, body, out any) error {
	resp, err := c.doRequest(ctx, method, path, accessToken, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response body: %w", c.config.Provider, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return c.newAPIError(resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := c.config.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", c.config.Provider, err)
	}
	return nil
}

func (c *Client) newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Provider:   c.config.Provider,
		StatusCode: status,
		Body:       string(body),
	}
	if c.config.ParseError != nil {
		apiErr.Code, apiErr.Message = c.config.ParseError(body)
	}
	return apiErr
}

// httpClient returns a client that adds the bearer token to every request.
func (c *Client) httpClient(accessToken string) *http.Client {
	return &http.Client{
		Timeout: c.config.Timeout,
		Transport: &oauth2.Transport{
			Base:   c.transport,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
		},
	}
}

// shouldRetry determines if an error or HTTP status code should be retried
func shouldRetry(statusCode int, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	return statusCode >= http.StatusInternalServerError || statusCode == http.StatusTooManyRequests
}

// calculateBackoff calculates the backoff duration for a retry attempt with jitter
func (c *Client) calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return c.config.InitialBackoff
	}

	backoff := float64(c.config.InitialBackoff) * math.Pow(c.config.BackoffMultiplier, float64(attempt))
	if time.Duration(backoff) > c.config.MaxBackoff {
		backoff = float64(c.config.MaxBackoff)
	}

	// ±25% jitter
	jitter := backoff * 0.25 * (rand.Float64()*2 - 1)
	backoffWithJitter := time.Duration(backoff + jitter)

	if backoffWithJitter < c.config.InitialBackoff {
		backoffWithJitter = c.config.InitialBackoff
	}
	return backoffWithJitter
}

// doRequest performs the request, retrying transport failures, 5xx and 429.
// The last response is returned for non-retryable or exhausted statuses.
func (c *Client) doRequest(ctx context.Context, method, path, accessToken string, body any) (*http.Response, error) {
	payload, err := c.marshalRequestBody(body)
	if err != nil {
		return nil, err
	}

	client := c.httpClient(accessToken)
	url := c.config.BaseURL + path

	var (
		lastErr  error
		lastResp *http.Response
	)

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		req, err := c.createRequest(ctx, method, url, payload)
		if err != nil {
			return nil, err
		}

		c.logRequestAttempt(ctx, method, path, attempt)

		start := time.Now()
		resp, err := client.Do(req)
		duration := time.Since(start)

		if err == nil && !shouldRetry(resp.StatusCode, nil) {
			c.logResponse(ctx, method, path, resp.StatusCode, duration, attempt)
			if lastResp != nil {
				_ = lastResp.Body.Close()
			}
			return resp, nil
		}

		if lastResp != nil {
			_ = lastResp.Body.Close()
		}
		lastErr, lastResp = err, resp
		statusCode := 0
		if resp != nil {
			statusCode = resp.StatusCode
		}

		if !shouldRetry(statusCode, err) {
			slog.ErrorContext(ctx, c.config.Provider+" API request failed (not retryable)",
				"method", method,
				"path", path,
				"duration", duration.String(),
				"attempt", attempt+1,
				logging.ErrKey, err)
			break
		}

		if attempt == c.config.MaxRetries {
			slog.ErrorContext(ctx, c.config.Provider+" API request failed after all retries",
				"method", method,
				"path", path,
				"status", statusCode,
				"duration", duration.String(),
				"attempts", attempt+1,
				logging.ErrKey, err,
				logging.PriorityCritical())
			break
		}

		backoff := c.calculateBackoff(attempt)
		slog.WarnContext(ctx, c.config.Provider+" API request failed, retrying",
			"method", method,
			"path", path,
			"status", statusCode,
			"attempt", attempt+1,
			"max_retries", c.config.MaxRetries,
			"backoff", backoff.String(),
			logging.ErrKey, err)

		select {
		case <-ctx.Done():
			if lastResp != nil {
				_ = lastResp.Body.Close()
			}
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	if lastErr != nil {
		if lastResp != nil {
			_ = lastResp.Body.Close()
		}
		return nil, fmt.Errorf("%s request failed after %d attempts: %w", c.config.Provider, c.config.MaxRetries+1, lastErr)
	}
	return lastResp, nil
}

// marshalRequestBody marshals the request body to JSON
func (c *Client) marshalRequestBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	payload, err := c.config.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return payload, nil
}

// createRequest creates a new HTTP request with the given parameters
func (c *Client) createRequest(ctx context.Context, method, url string, payload []byte) (*http.Request, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) logRequestAttempt(ctx context.Context, method, path string, attempt int) {
	if attempt == 0 {
		slog.DebugContext(ctx, "making "+c.config.Provider+" API request",
			"method", method,
			"path", path,
			"max_retries", c.config.MaxRetries,
		)
		return
	}
	slog.DebugContext(ctx, "retrying "+c.config.Provider+" API request",
		"method", method,
		"path", path,
		"attempt", attempt,
	)
}

func (c *Client) logResponse(ctx context.Context, method, path string, status int, duration time.Duration, attempt int) {
	level := slog.LevelInfo
	if status >= http.StatusBadRequest {
		level = slog.LevelWarn
	}
	slog.Log(ctx, level, c.config.Provider+" API request completed",
		"method", method,
		"path", path,
		"status", status,
		"duration", duration.String(),
		"attempt", attempt+1,
	)
}
