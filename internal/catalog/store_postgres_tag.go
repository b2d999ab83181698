// Copyright (c) 2026 Mirrordex. All rights reserved.

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mirrordex/mirrordex/internal/platform/database/schema"
	"github.com/mirrordex/mirrordex/internal/platform/dberr"
)

// tagStore implements the [TagStore] interface using pgx.
type tagStore struct {
	pool *pgxpool.Pool
}

// NewTagStore constructs a PostgreSQL backed tag store.
func NewTagStore(pool *pgxpool.Pool) TagStore {
	return &tagStore{pool: pool}
}

// Upsert merges a tag into the shared vocabulary with a diff guard.
func (store *tagStore) Upsert(context context.Context, tag *Tag) (UpsertOutcome, error) {
	t := schema.Tag

	query := fmt.Sprintf(`
		INSERT INTO %s AS t (%s, %s, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s, %s = EXCLUDED.%s
		WHERE (t.%s, t.%s) IS DISTINCT FROM (EXCLUDED.%s, EXCLUDED.%s)
		RETURNING (xmax = 0)
	`,
		t.Table, t.ID, t.NameEn, t.GroupName,
		t.ID,
		t.NameEn, t.NameEn, t.GroupName, t.GroupName,
		t.NameEn, t.GroupName, t.NameEn, t.GroupName,
	)

	var inserted bool
	err := store.pool.QueryRow(context, query, tag.ID, tag.NameEn, tag.GroupName).Scan(&inserted)

	if errors.Is(err, pgx.ErrNoRows) {
		return OutcomeUnchanged, nil
	}
	if err != nil {
		return "", dberr.Wrap(err, "upsert tag")
	}
	if inserted {
		return OutcomeInserted, nil
	}
	return OutcomeUpdated, nil
}

// AttachToEntry links a tag to an entry unless the link exists.
func (store *tagStore) AttachToEntry(context context.Context, entryID, tagID string) (bool, error) {
	t := schema.EntryTag

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		ON CONFLICT (%s, %s) DO NOTHING
	`,
		t.Table, t.EntryID, t.TagID,
		t.EntryID, t.TagID,
	)

	tag, err := store.pool.Exec(context, query, entryID, tagID)
	if err != nil {
		return false, dberr.Wrap(err, "attach tag")
	}
	return tag.RowsAffected() == 1, nil
}
