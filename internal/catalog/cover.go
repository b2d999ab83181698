// Copyright (c) 2026 Mirrordex. All rights reserved.

package catalog

import "time"

// Cover represents a cover art asset attached to an entry.
//
// Metadata and image bytes converge independently: a metadata sync records
// the row, and the asset fetcher fills ImageData later. DownloadedAt stays
// nil until the bytes have actually been stored.
type Cover struct {
	ID          string `json:"id"`
	EntryID     string `json:"entry_id"`
	Volume      string `json:"volume"`
	Locale      string `json:"locale"`
	Description string `json:"description"`
	FileName    string `json:"file_name"`
	Version     int    `json:"version"`
	UploaderID  string `json:"uploader_id"`
	ImageURL    string `json:"image_url"`

	// ImageData holds the raw asset bytes once downloaded. It is excluded
	// from JSON output because of its size.
	ImageData []byte `json:"-"`

	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DownloadedAt *time.Time `json:"downloaded_at,omitempty"`
}

// HasImage reports whether the asset bytes have been stored.
func (c *Cover) HasImage() bool {
	return c.DownloadedAt != nil
}
