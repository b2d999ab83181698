// Copyright (c) 2026 Mirrordex. All rights reserved.

/*
Package mangadex is the typed HTTP client for the MangaDex API.

It is the only package that talks to the upstream service. Every call is
paced through a shared token bucket so the daemon never exceeds the
published request budget, and transient failures (429, the retryable 5xx
family, and transport errors) are absorbed by a bounded retry loop.

Core Responsibilities:

  - Pacing: a minimum spacing between any two calls, shared by all workers.
  - Resilience: Retry-After backoff for 429, exponential for 5xx and
    transport errors.
  - Decoding: strict envelope handling with typed accessors per endpoint.

Callers receive plain structs and never see HTTP details.
*/
package mangadex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/mirrordex/mirrordex/internal/platform/constants"
)

// ErrRetriesExhausted is returned when an endpoint kept failing with
// retryable statuses until the retry budget ran out.
var ErrRetriesExhausted = errors.New("mangadex: retries exhausted")

// Client is a paced, retrying MangaDex API client.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	uploadsURL string
	userAgent  string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient builds a [Client] against the given API and uploads hosts.
//
// # Parameters
//   - baseURL: JSON API host, e.g. "https://api.mangadex.org".
//   - uploadsURL: asset host, e.g. "https://uploads.mangadex.org".
//   - userAgent: identifies this daemon to the upstream service.
//   - logger: structured logger for retry and pacing events.
func NewClient(baseURL, uploadsURL, userAgent string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: constants.UpstreamRequestTimeout},
		baseURL:    baseURL,
		uploadsURL: uploadsURL,
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(rate.Every(constants.UpstreamMinDelay), 1),
		logger:     logger,
	}
}

// get fetches an endpoint and decodes the standard response envelope.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*Envelope, error) {
	body, err := c.do(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	env := &Envelope{}
	if err := json.Unmarshal(body, env); err != nil {
		return nil, fmt.Errorf("mangadex: decode envelope: %w", err)
	}

	// The API can report failure inside a 200 response.
	if env.Result == "error" {
		return nil, decodeAPIError(http.StatusOK, body)
	}

	return env, nil
}

// do fetches an endpoint and returns the raw body of a successful response.
//
// Retry policy:
//   - 429: wait the Retry-After duration (default 60s), then retry.
//   - 500/502/503/504: exponential backoff, then retry.
//   - timeouts, resets and truncated bodies: exponential backoff, then retry.
//   - any other non-2xx: fail immediately with the upstream error detail.
//
// After [constants.UpstreamMaxRetries] failed attempts the last status or
// transport error is wrapped in [ErrRetriesExhausted].
func (c *Client) do(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	fullURL := c.baseURL + endpoint
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	backoff := constants.UpstreamBackoffBase
	var lastFailure string

	for attempt := 0; attempt <= constants.UpstreamMaxRetries; attempt++ {

		// Shared pacing: every call across every goroutine waits here.
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		request, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("mangadex: build request: %w", err)
		}
		request.Header.Set("User-Agent", c.userAgent)

		response, err := c.httpClient.Do(request)
		if err == nil {
			body, readErr := io.ReadAll(response.Body)
			_ = response.Body.Close()
			if readErr == nil {
				outcome, outErr := c.handleStatus(ctx, endpoint, response, body, attempt, &backoff)
				switch outcome {
				case outcomeDone:
					return body, nil
				case outcomeFail:
					return nil, outErr
				}
				lastFailure = fmt.Sprintf("status %d", response.StatusCode)
				continue
			}
			err = readErr
		}

		// Timeouts, resets and truncated reads are as transient as a 503.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("mangadex: request failed: %w", err)
		}
		lastFailure = err.Error()
		c.logger.Warn("upstream_transport_error",
			slog.String("endpoint", endpoint),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", backoff),
			slog.Any("error", err),
		)
		if err := sleepCtx(ctx, backoff); err != nil {
			return nil, err
		}
		backoff *= constants.UpstreamBackoffFactor
	}

	return nil, fmt.Errorf("%w: %s (%s)", ErrRetriesExhausted, endpoint, lastFailure)
}

// requestOutcome classifies one attempt inside the retry loop of [Client.do].
type requestOutcome int

const (
	outcomeDone  requestOutcome = iota // 2xx, body is usable
	outcomeRetry                       // transient status, loop again
	outcomeFail                        // permanent status, stop
)

// handleStatus applies the status-code half of the retry policy and performs
// any mandated wait. backoff is advanced in place on a 5xx retry.
func (c *Client) handleStatus(ctx context.Context, endpoint string, response *http.Response, body []byte, attempt int, backoff *time.Duration) (requestOutcome, error) {
	switch {
	case response.StatusCode == http.StatusTooManyRequests:
		wait := retryAfter(response.Header)
		c.logger.Warn("upstream_rate_limited",
			slog.String("endpoint", endpoint),
			slog.Int("attempt", attempt+1),
			slog.Duration("wait", wait),
		)
		if err := sleepCtx(ctx, wait); err != nil {
			return outcomeFail, err
		}
		return outcomeRetry, nil

	case isRetryableStatus(response.StatusCode):
		c.logger.Warn("upstream_server_error",
			slog.String("endpoint", endpoint),
			slog.Int("status", response.StatusCode),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", *backoff),
		)
		if err := sleepCtx(ctx, *backoff); err != nil {
			return outcomeFail, err
		}
		*backoff *= constants.UpstreamBackoffFactor
		return outcomeRetry, nil

	case response.StatusCode < 200 || response.StatusCode >= 300:
		return outcomeFail, decodeAPIError(response.StatusCode, body)
	}

	return outcomeDone, nil
}

// isRetryableStatus reports whether a 5xx status is worth retrying.
func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// retryAfter reads the Retry-After header of a 429 response.
// Malformed or missing values fall back to the configured default.
func retryAfter(header http.Header) time.Duration {
	raw := header.Get("Retry-After")
	if raw == "" {
		return constants.UpstreamRetryAfterDefault
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return constants.UpstreamRetryAfterDefault
	}
	return time.Duration(seconds) * time.Second
}

// decodeAPIError turns an error payload into a descriptive Go error.
func decodeAPIError(status int, body []byte) error {
	env := Envelope{}
	if json.Unmarshal(body, &env) == nil && len(env.Errors) > 0 {
		first := env.Errors[0]
		return fmt.Errorf("mangadex: api error (%d): %s: %s", status, first.Title, first.Detail)
	}
	return fmt.Errorf("mangadex: unexpected status %d", status)
}

// sleepCtx waits for the duration or until the context is cancelled.
func sleepCtx(ctx context.Context, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
