// Copyright (c) 2026 Mirrordex. All rights reserved.

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mirrordex/mirrordex/internal/platform/database/schema"
	"github.com/mirrordex/mirrordex/internal/platform/dberr"
)

// coverStore implements the [CoverStore] interface using pgx.
type coverStore struct {
	pool *pgxpool.Pool
}

// NewCoverStore constructs a PostgreSQL backed cover store.
func NewCoverStore(pool *pgxpool.Pool) CoverStore {
	return &coverStore{pool: pool}
}

// Upsert merges cover metadata into catalog.cover.
// The image columns are deliberately absent from both the SET list and the
// diff guard: asset bytes only move through [coverStore.SaveImage].
func (store *coverStore) Upsert(context context.Context, cover *Cover) (UpsertOutcome, error) {
	c := schema.Cover

	query := fmt.Sprintf(`
		INSERT INTO %s AS c (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s
		WHERE (c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s)
		IS DISTINCT FROM
			(EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s,
			EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s)
		RETURNING (xmax = 0)
	`,
		c.Table,
		c.ID, c.EntryID, c.Volume, c.Locale, c.Description, c.FileName,
		c.Version, c.UploaderID, c.ImageURL, c.CreatedAt, c.UpdatedAt,
		c.ID,
		c.EntryID, c.EntryID, c.Volume, c.Volume, c.Locale, c.Locale,
		c.Description, c.Description, c.FileName, c.FileName, c.Version, c.Version,
		c.UploaderID, c.UploaderID, c.ImageURL, c.ImageURL, c.CreatedAt, c.CreatedAt,
		c.UpdatedAt, c.UpdatedAt,
		c.EntryID, c.Volume, c.Locale, c.Description, c.FileName,
		c.Version, c.UploaderID, c.ImageURL, c.CreatedAt, c.UpdatedAt,
		c.EntryID, c.Volume, c.Locale, c.Description, c.FileName,
		c.Version, c.UploaderID, c.ImageURL, c.CreatedAt, c.UpdatedAt,
	)

	var inserted bool
	err := store.pool.QueryRow(context, query,
		cover.ID, cover.EntryID, cover.Volume, cover.Locale, cover.Description,
		cover.FileName, cover.Version, cover.UploaderID, cover.ImageURL,
		cover.CreatedAt, cover.UpdatedAt,
	).Scan(&inserted)

	if errors.Is(err, pgx.ErrNoRows) {
		return OutcomeUnchanged, nil
	}
	if err != nil {
		return "", dberr.Wrap(err, "upsert cover")
	}
	if inserted {
		return OutcomeInserted, nil
	}
	return OutcomeUpdated, nil
}

// HasImage reports whether the asset bytes of a cover are stored.
// An unknown cover reports false without error so crawlers can probe freely.
func (store *coverStore) HasImage(context context.Context, id string) (bool, error) {
	c := schema.Cover

	query := fmt.Sprintf(`
		SELECT %s IS NOT NULL FROM %s WHERE %s = $1
	`, c.DownloadedAt, c.Table, c.ID)

	var has bool
	err := store.pool.QueryRow(context, query, id).Scan(&has)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, dberr.Wrap(err, "check cover image")
	}
	return has, nil
}

// SaveImage stores the downloaded asset bytes and stamps DownloadedAt.
func (store *coverStore) SaveImage(context context.Context, id string, data []byte) error {
	c := schema.Cover

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1
	`, c.Table, c.ImageData, c.DownloadedAt, c.ID)

	tag, err := store.pool.Exec(context, query, id, data, time.Now().UTC())
	if err != nil {
		return dberr.Wrap(err, "save cover image")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// CountPending returns how many known covers still lack image bytes.
func (store *coverStore) CountPending(context context.Context) (int, error) {
	c := schema.Cover

	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s WHERE %s IS NULL
	`, c.Table, c.DownloadedAt)

	var count int
	if err := store.pool.QueryRow(context, query).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count pending covers")
	}
	return count, nil
}
