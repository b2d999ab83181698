// Copyright (c) 2026 Mirrordex. All rights reserved.

/*
Package catalog defines the core domain entities of the Mirrordex mirror.

It models the local, relational projection of the upstream catalog: entries
(serialised publications), their chapters, covers, creators, tags, and the
append-only statistics history.

Core Responsibility:

  - Identity: Entry and related IDs are stored uppercase; the upstream API
    is always addressed with lowercase IDs.
  - Convergence: Stores expose merge-style upserts whose outcome reports
    whether a row was inserted, updated, or already current.
  - History: Statistics are never overwritten; every sync appends a row.

This package acts as the source of truth for all mirrored data models.
*/
package catalog

import "time"

// # Upsert Outcomes

// UpsertOutcome describes what a merge-style write did to its target row.
type UpsertOutcome string

const (
	// OutcomeInserted means the row did not exist and was created.
	OutcomeInserted UpsertOutcome = "inserted"

	// OutcomeUpdated means the row existed and at least one field changed.
	OutcomeUpdated UpsertOutcome = "updated"

	// OutcomeUnchanged means the row existed and was already identical.
	OutcomeUnchanged UpsertOutcome = "unchanged"
)

// # Core Entities

// Entry is the central aggregate of the Mirrordex domain.
// It represents a single serialised publication mirrored from upstream.
type Entry struct {
	ID                    string            `json:"id"`
	Type                  string            `json:"type"`
	Title                 string            `json:"title"`
	Slug                  string            `json:"slug"`
	ChapterNumbersReset   bool              `json:"chapter_numbers_reset"`
	ContentRating         string            `json:"content_rating"`
	IsLocked              bool              `json:"is_locked"`
	LastChapter           string            `json:"last_chapter"`
	LastVolume            string            `json:"last_volume"`
	LatestUploadedChapter string            `json:"latest_uploaded_chapter"`
	OriginalLanguage      string            `json:"original_language"`
	Demographic           string            `json:"demographic"`
	State                 string            `json:"state"`
	Status                string            `json:"status"`
	Year                  *int              `json:"year,omitempty"`
	Links                 map[string]string `json:"links,omitempty"` // raw upstream link map, keyed by provider code

	// Remote timestamps as reported by the source API.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// LastSyncedAt is the local time of the last write that touched this row.
	LastSyncedAt time.Time `json:"last_synced_at"`
}

// AltTitle is an alternative title of an entry in a given language.
// One title is kept per (entry, language) pair; later variants are ignored.
type AltTitle struct {
	EntryID  string `json:"entry_id"`
	LangCode string `json:"lang_code"`
	Title    string `json:"title"`
}

// Description is a localized synopsis of an entry.
type Description struct {
	EntryID     string `json:"entry_id"`
	LangCode    string `json:"lang_code"`
	Description string `json:"description"`
}

// Link is a resolved external provider link of an entry.
type Link struct {
	EntryID  string `json:"entry_id"`
	Provider string `json:"provider"`
	URL      string `json:"url"`
}

// Relation connects two entries (e.g. sequel, spin_off, colored).
type Relation struct {
	EntryID   string    `json:"entry_id"`
	RelatedID string    `json:"related_id"`
	Relation  string    `json:"relation"`
	FetchedAt time.Time `json:"fetched_at"`
}
