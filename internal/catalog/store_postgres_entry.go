// Copyright (c) 2026 Mirrordex. All rights reserved.

/*
Package catalog provides the PostgreSQL implementation of the mirror's
data access.

The stores lean on native Postgres conflict handling to express the
merge semantics of a sync run:

  - Merge-diff upserts: INSERT .. ON CONFLICT DO UPDATE with an
    IS DISTINCT FROM guard, so a repeated sync of identical upstream data
    leaves the row (and its xmin/xmax lineage) untouched.
  - Insert-if-absent: INSERT .. ON CONFLICT DO NOTHING for detail tables
    keyed by natural composite keys, which also makes concurrent refreshes
    of the same entry race-safe.
  - Outcome detection: RETURNING (xmax = 0) distinguishes a fresh insert
    from an update of an existing row.
*/
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mirrordex/mirrordex/internal/platform/database/schema"
	"github.com/mirrordex/mirrordex/internal/platform/dberr"
)

// # PostgreSQL Stores

// entryStore implements the [EntryStore] interface using pgx.
type entryStore struct {
	pool *pgxpool.Pool
}

// NewEntryStore constructs a PostgreSQL backed entry store.
func NewEntryStore(pool *pgxpool.Pool) EntryStore {
	return &entryStore{pool: pool}
}

// Upsert merges an entry into catalog.entry.
//
// The IS DISTINCT FROM guard compares every mutable column, so the UPDATE
// branch only fires when upstream data actually changed. RETURNING
// (xmax = 0) tells inserts apart from updates; an empty result means the
// guard suppressed the update entirely.
func (store *entryStore) Upsert(context context.Context, entry *Entry) (UpsertOutcome, error) {
	e := schema.Entry

	linksJSON, err := json.Marshal(entry.Links)
	if err != nil {
		return "", fmt.Errorf("catalog: encode links: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s AS e (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s, %s, %s, %s, %s
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s
		WHERE (e.%s, e.%s, e.%s, e.%s, e.%s, e.%s, e.%s, e.%s, e.%s,
			e.%s, e.%s, e.%s, e.%s, e.%s, e.%s, e.%s, e.%s)
		IS DISTINCT FROM
			(EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s,
			EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s,
			EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s,
			EXCLUDED.%s, EXCLUDED.%s)
		RETURNING (xmax = 0)
	`,
		e.Table,
		e.ID, e.Type, e.Title, e.Slug, e.ChapterNumbersReset, e.ContentRating,
		e.IsLocked, e.LastChapter, e.LastVolume, e.LatestUploadedChapter,
		e.OriginalLanguage, e.Demographic, e.State, e.Status, e.Year, e.Links,
		e.CreatedAt, e.UpdatedAt, e.LastSyncedAt,
		e.ID,
		e.Type, e.Type, e.Title, e.Title, e.Slug, e.Slug,
		e.ChapterNumbersReset, e.ChapterNumbersReset, e.ContentRating, e.ContentRating, e.IsLocked, e.IsLocked,
		e.LastChapter, e.LastChapter, e.LastVolume, e.LastVolume, e.LatestUploadedChapter, e.LatestUploadedChapter,
		e.OriginalLanguage, e.OriginalLanguage, e.Demographic, e.Demographic, e.State, e.State,
		e.Status, e.Status, e.Year, e.Year, e.Links, e.Links,
		e.CreatedAt, e.CreatedAt, e.UpdatedAt, e.UpdatedAt, e.LastSyncedAt, e.LastSyncedAt,
		e.Type, e.Title, e.Slug, e.ChapterNumbersReset, e.ContentRating,
		e.IsLocked, e.LastChapter, e.LastVolume, e.LatestUploadedChapter,
		e.OriginalLanguage, e.Demographic, e.State, e.Status, e.Year, e.Links,
		e.CreatedAt, e.UpdatedAt,
		e.Type, e.Title, e.Slug, e.ChapterNumbersReset, e.ContentRating,
		e.IsLocked, e.LastChapter, e.LastVolume, e.LatestUploadedChapter,
		e.OriginalLanguage, e.Demographic, e.State, e.Status, e.Year, e.Links,
		e.CreatedAt, e.UpdatedAt,
	)

	var inserted bool
	err = store.pool.QueryRow(context, query,
		entry.ID, entry.Type, entry.Title, entry.Slug, entry.ChapterNumbersReset,
		entry.ContentRating, entry.IsLocked, entry.LastChapter, entry.LastVolume,
		entry.LatestUploadedChapter, entry.OriginalLanguage, entry.Demographic,
		entry.State, entry.Status, entry.Year, linksJSON,
		entry.CreatedAt, entry.UpdatedAt, entry.LastSyncedAt,
	).Scan(&inserted)

	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict hit but the guard found nothing to change.
		return OutcomeUnchanged, nil
	}
	if err != nil {
		return "", dberr.Wrap(err, "upsert entry")
	}
	if inserted {
		return OutcomeInserted, nil
	}
	return OutcomeUpdated, nil
}

// FindByID returns the entry with the given ID.
func (store *entryStore) FindByID(context context.Context, id string) (*Entry, error) {
	e := schema.Entry

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		e.ID, e.Type, e.Title, e.Slug, e.ChapterNumbersReset, e.ContentRating,
		e.IsLocked, e.LastChapter, e.LastVolume, e.LatestUploadedChapter,
		e.OriginalLanguage, e.Demographic, e.State, e.Status, e.Year, e.Links,
		e.CreatedAt, e.UpdatedAt, e.LastSyncedAt,
		e.Table,
		e.ID,
	)

	entry := &Entry{}
	var linksJSON []byte
	var createdAt, updatedAt, lastSyncedAt time.Time

	err := store.pool.QueryRow(context, query, id).Scan(
		&entry.ID, &entry.Type, &entry.Title, &entry.Slug, &entry.ChapterNumbersReset,
		&entry.ContentRating, &entry.IsLocked, &entry.LastChapter, &entry.LastVolume,
		&entry.LatestUploadedChapter, &entry.OriginalLanguage, &entry.Demographic,
		&entry.State, &entry.Status, &entry.Year, &linksJSON,
		&createdAt, &updatedAt, &lastSyncedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find entry")
	}

	if len(linksJSON) > 0 {
		if err := json.Unmarshal(linksJSON, &entry.Links); err != nil {
			return nil, fmt.Errorf("catalog: decode links: %w", err)
		}
	}
	entry.CreatedAt = createdAt
	entry.UpdatedAt = updatedAt
	entry.LastSyncedAt = lastSyncedAt

	return entry, nil
}

// AddAltTitle records an alternative title unless the (entry, language)
// slot is already taken.
func (store *entryStore) AddAltTitle(context context.Context, title AltTitle) (bool, error) {
	t := schema.EntryAltTitle

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s, %s) DO NOTHING
	`,
		t.Table, t.EntryID, t.LangCode, t.Title,
		t.EntryID, t.LangCode,
	)

	tag, err := store.pool.Exec(context, query, title.EntryID, title.LangCode, title.Title)
	if err != nil {
		return false, dberr.Wrap(err, "add alt title")
	}
	return tag.RowsAffected() == 1, nil
}

// AddDescription records a localized synopsis unless one exists.
func (store *entryStore) AddDescription(context context.Context, description Description) (bool, error) {
	t := schema.EntryDescription

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s, %s) DO NOTHING
	`,
		t.Table, t.EntryID, t.LangCode, t.Description,
		t.EntryID, t.LangCode,
	)

	tag, err := store.pool.Exec(context, query, description.EntryID, description.LangCode, description.Description)
	if err != nil {
		return false, dberr.Wrap(err, "add description")
	}
	return tag.RowsAffected() == 1, nil
}

// AddLanguage records an available translation language unless present.
func (store *entryStore) AddLanguage(context context.Context, entryID, langCode string) (bool, error) {
	t := schema.EntryLanguage

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		ON CONFLICT (%s, %s) DO NOTHING
	`,
		t.Table, t.EntryID, t.LangCode,
		t.EntryID, t.LangCode,
	)

	tag, err := store.pool.Exec(context, query, entryID, langCode)
	if err != nil {
		return false, dberr.Wrap(err, "add language")
	}
	return tag.RowsAffected() == 1, nil
}

// AddLink records a resolved provider link unless present.
func (store *entryStore) AddLink(context context.Context, link Link) (bool, error) {
	t := schema.EntryLink

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s, %s) DO NOTHING
	`,
		t.Table, t.EntryID, t.Provider, t.URL,
		t.EntryID, t.Provider,
	)

	tag, err := store.pool.Exec(context, query, link.EntryID, link.Provider, link.URL)
	if err != nil {
		return false, dberr.Wrap(err, "add link")
	}
	return tag.RowsAffected() == 1, nil
}

// AddRelation records an entry-to-entry relation unless present.
func (store *entryStore) AddRelation(context context.Context, relation Relation) (bool, error) {
	t := schema.EntryRelation

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (%s, %s, %s) DO NOTHING
	`,
		t.Table, t.EntryID, t.RelatedID, t.Relation, t.FetchedAt,
		t.EntryID, t.RelatedID, t.Relation,
	)

	tag, err := store.pool.Exec(context, query,
		relation.EntryID, relation.RelatedID, relation.Relation, relation.FetchedAt)
	if err != nil {
		return false, dberr.Wrap(err, "add relation")
	}
	return tag.RowsAffected() == 1, nil
}
