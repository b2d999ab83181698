// Copyright (c) 2026 Mirrordex. All rights reserved.

package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirrordex/mirrordex/internal/mangadex"
)

/*
TestCoverCrawler_Start verifies one full crawl pass: covers with an owning
entry get their metadata and bytes stored, orphaned cover documents are
skipped, and the finished offset lands in the checkpoint file.
*/
func TestCoverCrawler_Start(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cover", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") != "0" {
			_, _ = w.Write([]byte(`{"result":"ok","response":"collection","data":[],"limit":100,"offset":100,"total":2}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":"ok","response":"collection","data":[
			{"id": "cov-1", "type": "cover_art", "attributes": {"fileName": "one.jpg"},
			 "relationships": [{"id": "aaa-1", "type": "manga"}]},
			{"id": "cov-2", "type": "cover_art", "attributes": {"fileName": "two.jpg"},
			 "relationships": []}
		],"limit":100,"offset":0,"total":2}`))
	})
	mux.HandleFunc("/covers/aaa-1/one.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	data := newFakeData()
	client := mangadex.NewClient(server.URL, server.URL, "mirrordex-test/0", discardLogger())
	checkpoint := NewCheckpoint(filepath.Join(t.TempDir(), "crawl.json"))
	crawler := NewCoverCrawler(client, &fakeCoverStore{data}, checkpoint, discardLogger())

	require.NoError(t, crawler.Start(context.Background(), 0))

	status := crawler.Status()
	assert.False(t, status.Running)
	require.NotNil(t, status.FinishedAt)
	assert.Equal(t, 1, status.Stored)
	assert.Equal(t, 1, status.Skipped, "covers without an owning entry are skipped")
	assert.Zero(t, status.Failed)

	require.Contains(t, data.covers, "COV-1")
	assert.Equal(t, "AAA-1", data.covers["COV-1"].EntryID)
	assert.Equal(t, []byte("jpeg-bytes"), data.images["COV-1"])
	assert.NotContains(t, data.covers, "COV-2")

	// The next crawl resumes past the finished range.
	offset, err := checkpoint.Load()
	require.NoError(t, err)
	assert.Equal(t, 100, offset)
}

/*
TestCoverCrawler_Start_RejectsConcurrentRun verifies the single-run guard.
*/
func TestCoverCrawler_Start_RejectsConcurrentRun(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/cover", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		_, _ = w.Write([]byte(`{"result":"ok","response":"collection","data":[],"limit":100,"offset":0,"total":0}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := mangadex.NewClient(server.URL, server.URL, "mirrordex-test/0", discardLogger())
	checkpoint := NewCheckpoint(filepath.Join(t.TempDir(), "crawl.json"))
	crawler := NewCoverCrawler(client, &fakeCoverStore{newFakeData()}, checkpoint, discardLogger())

	done := make(chan error, 1)
	go func() {
		done <- crawler.Start(context.Background(), 0)
	}()

	<-started
	err := crawler.Start(context.Background(), 0)
	require.Error(t, err, "a second crawl must be rejected while one runs")

	close(release)
	require.NoError(t, <-done)
}
