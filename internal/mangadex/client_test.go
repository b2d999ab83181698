// Copyright (c) 2026 Mirrordex. All rights reserved.

package mangadex

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirrordex/mirrordex/internal/platform/constants"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(apiURL, uploadsURL string) *Client {
	return NewClient(apiURL, uploadsURL, "mirrordex-test/0", testLogger())
}

/*
TestClient_RetriesAfterRateLimit verifies that a 429 response is retried
only after the full Retry-After duration has elapsed.
*/
func TestClient_RetriesAfterRateLimit(t *testing.T) {
	var mu sync.Mutex
	var arrivals []time.Time

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		arrivals = append(arrivals, time.Now())
		first := len(arrivals) == 1
		mu.Unlock()

		if first {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"result":"ok","response":"entity","data":{"id":"abc","type":"manga"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL)
	manga, err := client.GetManga(context.Background(), "abc")

	require.NoError(t, err)
	assert.Equal(t, "abc", manga.ID)
	require.Len(t, arrivals, 2)
	assert.GreaterOrEqual(t, arrivals[1].Sub(arrivals[0]), time.Second,
		"retry must wait out the Retry-After duration")
}

/*
TestClient_RetriesTransportErrors verifies that a dropped connection is
retried like a retryable status instead of failing the call.
*/
func TestClient_RetriesTransportErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			conn, _, err := w.(http.Hijacker).Hijack()
			require.NoError(t, err)
			_ = conn.Close()
			return
		}
		_, _ = w.Write([]byte(`{"result":"ok","response":"entity","data":{"id":"abc","type":"manga"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL)
	manga, err := client.GetManga(context.Background(), "abc")

	require.NoError(t, err)
	assert.Equal(t, "abc", manga.ID)
	assert.Equal(t, int32(2), calls.Load())
}

/*
TestClient_ExhaustsRetryBudget verifies that endless 429 responses
eventually surface ErrRetriesExhausted instead of looping forever.
*/
func TestClient_ExhaustsRetryBudget(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL)
	_, err := client.GetManga(context.Background(), "abc")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Equal(t, int32(constants.UpstreamMaxRetries+1), calls.Load())
}

/*
TestClient_FailsFastOnClientError verifies that non-retryable statuses
are surfaced immediately with the upstream error detail.
*/
func TestClient_FailsFastOnClientError(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"result":"error","errors":[{"status":400,"title":"Bad Request","detail":"invalid uuid"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL)
	_, err := client.GetManga(context.Background(), "not-a-uuid")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad Request")
	assert.Contains(t, err.Error(), "invalid uuid")
	assert.Equal(t, int32(1), calls.Load(), "client errors must not be retried")
}

/*
TestClient_ListChapters_Paginates verifies that chapter listing walks
pages until an empty page arrives.
*/
func TestClient_ListChapters_Paginates(t *testing.T) {
	pages := map[string]string{
		"0":   `{"result":"ok","response":"collection","data":[{"id":"c1","type":"chapter","attributes":{"chapter":"1"}}],"limit":100,"offset":0,"total":2}`,
		"100": `{"result":"ok","response":"collection","data":[{"id":"c2","type":"chapter","attributes":{"chapter":"2"}}],"limit":100,"offset":100,"total":2}`,
		"200": `{"result":"ok","response":"collection","data":[],"limit":100,"offset":200,"total":2}`,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chapter", r.URL.Path)
		assert.Equal(t, []string{"vi", "en"}, r.URL.Query()["translatedLanguage[]"])
		_, _ = w.Write([]byte(pages[r.URL.Query().Get("offset")]))
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL)
	chapters, err := client.ListChapters(context.Background(), "ABC", []string{"vi", "en"})

	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "c1", chapters[0].ID)
	assert.Equal(t, "c2", chapters[1].ID)
}

/*
TestClient_ListCovers_PaginatesByTotal verifies that cover listing is
driven by the reported collection total.
*/
func TestClient_ListCovers_PaginatesByTotal(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		// 12 covers total, page size 10: two pages.
		count := 10
		if offset == 10 {
			count = 2
		}
		body := `{"result":"ok","response":"collection","data":[`
		for i := 0; i < count; i++ {
			if i > 0 {
				body += ","
			}
			body += fmt.Sprintf(`{"id":"cov-%d-%d","type":"cover_art","attributes":{"fileName":"f.png"}}`, offset, i)
		}
		body += `],"limit":10,"offset":` + strconv.Itoa(offset) + `,"total":12}`
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL)
	covers, err := client.ListCovers(context.Background(), "abc")

	require.NoError(t, err)
	assert.Len(t, covers, 12)
	assert.Equal(t, int32(2), calls.Load())
}

/*
TestClient_GetStatistics_LowercasesIDs verifies that statistics lookups
send lowercase IDs and key the result map by lowercase ID.
*/
func TestClient_GetStatistics_LowercasesIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/statistics/manga", r.URL.Path)
		assert.Equal(t, []string{"abc-def"}, r.URL.Query()["manga[]"])
		_, _ = w.Write([]byte(`{"result":"ok","statistics":{"abc-def":{"follows":100,"rating":{"average":8.5,"bayesian":8.1},"unavailableChaptersCount":3}}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL)
	stats, err := client.GetStatistics(context.Background(), []string{"ABC-DEF"})

	require.NoError(t, err)
	require.Contains(t, stats, "abc-def")
	assert.Equal(t, int64(100), stats["abc-def"].Follows)
	require.NotNil(t, stats["abc-def"].Rating.Average)
	assert.InDelta(t, 8.5, *stats["abc-def"].Rating.Average, 0.001)
	assert.Equal(t, 3, stats["abc-def"].UnavailableChaptersCount)
}

/*
TestClient_DownloadCover_SkipConditions verifies the three permanent-skip
conditions: missing asset, unexpected content type, oversized body.
*/
func TestClient_DownloadCover_SkipConditions(t *testing.T) {
	oversized := bytes.Repeat([]byte{0xFF}, constants.CoverMaxBytes+1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/covers/abc/missing.png":
			w.WriteHeader(http.StatusNotFound)
		case "/covers/abc/page.html":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		case "/covers/abc/huge.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(oversized)
		case "/covers/abc/good.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte("jpeg-bytes"))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.URL)
	ctx := context.Background()

	_, err := client.DownloadCover(ctx, "ABC", "missing.png")
	assert.ErrorIs(t, err, ErrSkipAsset, "404 must skip, not retry")

	_, err = client.DownloadCover(ctx, "ABC", "page.html")
	assert.ErrorIs(t, err, ErrSkipAsset, "non-image content type must skip")

	_, err = client.DownloadCover(ctx, "ABC", "huge.png")
	assert.ErrorIs(t, err, ErrSkipAsset, "oversized body must skip")

	data, err := client.DownloadCover(ctx, "ABC", "good.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

/*
TestRetryAfter verifies header parsing and the fallback default.
*/
func TestRetryAfter(t *testing.T) {
	header := http.Header{}
	assert.Equal(t, constants.UpstreamRetryAfterDefault, retryAfter(header), "missing header uses default")

	header.Set("Retry-After", "5")
	assert.Equal(t, 5*time.Second, retryAfter(header))

	header.Set("Retry-After", "soon")
	assert.Equal(t, constants.UpstreamRetryAfterDefault, retryAfter(header), "malformed header uses default")
}
