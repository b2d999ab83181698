// Copyright (c) 2026 Mirrordex. All rights reserved.

package sync

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Checkpoint persists the resume offset of the catalog-wide cover crawl
// so an interrupted crawl continues where it stopped.
//
// The state lives in a small JSON file next to the daemon's data. Writes
// go through a temp file plus rename so a crash never leaves a truncated
// checkpoint behind.
type Checkpoint struct {
	path string
}

// checkpointState is the on-disk shape of the crawl checkpoint.
type checkpointState struct {
	Offset    int       `json:"offset"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCheckpoint builds a checkpoint backed by the given file path.
func NewCheckpoint(path string) *Checkpoint {
	return &Checkpoint{path: path}
}

// Load returns the saved resume offset. A missing file means a fresh
// crawl and returns offset 0 without error.
func (c *Checkpoint) Load() (int, error) {
	raw, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("checkpoint: read %s: %w", c.path, err)
	}

	state := checkpointState{}
	if err := json.Unmarshal(raw, &state); err != nil {
		return 0, fmt.Errorf("checkpoint: decode %s: %w", c.path, err)
	}
	if state.Offset < 0 {
		return 0, fmt.Errorf("checkpoint: negative offset in %s", c.path)
	}
	return state.Offset, nil
}

// Save atomically persists the given resume offset.
func (c *Checkpoint) Save(offset int) error {
	raw, err := json.Marshal(checkpointState{
		Offset:    offset,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("checkpoint: encode: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("checkpoint: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("checkpoint: rename %s: %w", tmp, err)
	}
	return nil
}
