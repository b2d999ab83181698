// Copyright (c) 2026 Mirrordex. All rights reserved.

package sync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestCheckpoint_RoundTrip verifies that an offset survives save and load.
*/
func TestCheckpoint_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawl.json")
	checkpoint := NewCheckpoint(path)

	require.NoError(t, checkpoint.Save(4200))

	offset, err := checkpoint.Load()
	require.NoError(t, err)
	assert.Equal(t, 4200, offset)
}

/*
TestCheckpoint_MissingFileMeansFreshCrawl verifies that a missing file
yields offset 0 and no error.
*/
func TestCheckpoint_MissingFileMeansFreshCrawl(t *testing.T) {
	checkpoint := NewCheckpoint(filepath.Join(t.TempDir(), "nope.json"))

	offset, err := checkpoint.Load()
	require.NoError(t, err)
	assert.Zero(t, offset)
}

/*
TestCheckpoint_RejectsCorruptState verifies that a malformed or negative
checkpoint surfaces an error instead of silently restarting.
*/
func TestCheckpoint_RejectsCorruptState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawl.json")

	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, err := NewCheckpoint(path).Load()
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"offset":-5}`), 0o644))
	_, err = NewCheckpoint(path).Load()
	assert.Error(t, err)
}
