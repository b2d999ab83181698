// Copyright (c) 2026 Mirrordex. All rights reserved.

package mangadex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mirrordex/mirrordex/internal/platform/constants"
)

// ErrSkipAsset marks a cover that should be recorded as permanently
// unavailable rather than retried: the file is gone upstream, is not an
// accepted image type, or exceeds the storage cap.
var ErrSkipAsset = errors.New("mangadex: asset skipped")

// acceptedImageTypes is the content-type whitelist for cover assets.
var acceptedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// CoverURL returns the canonical asset URL for a cover file.
func (c *Client) CoverURL(mangaID, fileName string) string {
	return c.uploadsURL + "/covers/" + apiID(mangaID) + "/" + fileName
}

// DownloadCover fetches the raw bytes of a cover asset.
//
// A missing file (404), unexpected content type, or oversized body returns
// [ErrSkipAsset]; callers should mark the cover as skipped and move on.
// Transient failures are retried up to [constants.CoverDownloadRetries]
// times before surfacing the error.
func (c *Client) DownloadCover(ctx context.Context, mangaID, fileName string) ([]byte, error) {
	assetURL := c.CoverURL(mangaID, fileName)
	backoff := constants.UpstreamBackoffBase

	for attempt := 0; attempt < constants.CoverDownloadRetries; attempt++ {

		// Asset downloads share the API token bucket so the combined
		// request rate stays under the upstream budget.
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		request, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
		if err != nil {
			return nil, fmt.Errorf("mangadex: build request: %w", err)
		}
		request.Header.Set("User-Agent", c.userAgent)

		response, err := c.httpClient.Do(request)
		if err != nil {
			// Timeouts and resets are transient; retry like a bad status.
			if ctx.Err() != nil {
				return nil, fmt.Errorf("mangadex: download failed: %w", err)
			}
			c.logger.Warn("cover_download_transport_error",
				slog.String("file", fileName),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
				slog.Any("error", err),
			)
			if err := sleepCtx(ctx, backoff); err != nil {
				return nil, err
			}
			backoff *= constants.UpstreamBackoffFactor
			continue
		}

		switch {
		case response.StatusCode == http.StatusNotFound:
			_ = response.Body.Close()
			return nil, fmt.Errorf("%w: missing upstream (%s)", ErrSkipAsset, fileName)

		case response.StatusCode == http.StatusTooManyRequests:
			wait := retryAfter(response.Header)
			_ = response.Body.Close()
			c.logger.Warn("cover_download_rate_limited",
				slog.String("file", fileName),
				slog.Int("attempt", attempt+1),
				slog.Duration("wait", wait),
			)
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, err
			}
			continue

		case response.StatusCode != http.StatusOK:
			_ = response.Body.Close()
			c.logger.Warn("cover_download_failed",
				slog.String("file", fileName),
				slog.Int("status", response.StatusCode),
				slog.Int("attempt", attempt+1),
			)
			if err := sleepCtx(ctx, backoff); err != nil {
				return nil, err
			}
			backoff *= constants.UpstreamBackoffFactor
			continue
		}

		contentType := response.Header.Get("Content-Type")
		if !acceptedImageTypes[contentType] {
			_ = response.Body.Close()
			return nil, fmt.Errorf("%w: unexpected content type %q (%s)", ErrSkipAsset, contentType, fileName)
		}

		// Read one byte past the cap so oversized bodies are detectable
		// without buffering them in full.
		limited := io.LimitReader(response.Body, constants.CoverMaxBytes+1)
		data, err := io.ReadAll(limited)
		_ = response.Body.Close()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("mangadex: read asset: %w", err)
			}
			c.logger.Warn("cover_download_truncated",
				slog.String("file", fileName),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
				slog.Any("error", err),
			)
			if err := sleepCtx(ctx, backoff); err != nil {
				return nil, err
			}
			backoff *= constants.UpstreamBackoffFactor
			continue
		}
		if len(data) > constants.CoverMaxBytes {
			return nil, fmt.Errorf("%w: exceeds %d bytes (%s)", ErrSkipAsset, constants.CoverMaxBytes, fileName)
		}

		return data, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrRetriesExhausted, assetURL)
}
