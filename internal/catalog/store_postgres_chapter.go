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

// chapterStore implements the [ChapterStore] interface using pgx.
type chapterStore struct {
	pool *pgxpool.Pool
}

// NewChapterStore constructs a PostgreSQL backed chapter store.
func NewChapterStore(pool *pgxpool.Pool) ChapterStore {
	return &chapterStore{pool: pool}
}

// Upsert merges a chapter into catalog.chapter with a diff guard,
// following the same xmax technique as the entry store.
func (store *chapterStore) Upsert(context context.Context, chapter *Chapter) (UpsertOutcome, error) {
	c := schema.Chapter

	query := fmt.Sprintf(`
		INSERT INTO %s AS c (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s
		WHERE (c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s)
		IS DISTINCT FROM
			(EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s,
			EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s,
			EXCLUDED.%s, EXCLUDED.%s)
		RETURNING (xmax = 0)
	`,
		c.Table,
		c.ID, c.EntryID, c.Type, c.Volume, c.Number, c.Title, c.TranslatedLang,
		c.Pages, c.PublishAt, c.ReadableAt, c.IsUnavailable, c.CreatedAt, c.UpdatedAt,
		c.ID,
		c.EntryID, c.EntryID, c.Type, c.Type, c.Volume, c.Volume,
		c.Number, c.Number, c.Title, c.Title, c.TranslatedLang, c.TranslatedLang,
		c.Pages, c.Pages, c.PublishAt, c.PublishAt, c.ReadableAt, c.ReadableAt,
		c.IsUnavailable, c.IsUnavailable, c.CreatedAt, c.CreatedAt, c.UpdatedAt, c.UpdatedAt,
		c.EntryID, c.Type, c.Volume, c.Number, c.Title, c.TranslatedLang,
		c.Pages, c.PublishAt, c.ReadableAt, c.IsUnavailable, c.CreatedAt, c.UpdatedAt,
		c.EntryID, c.Type, c.Volume, c.Number, c.Title,
		c.TranslatedLang, c.Pages, c.PublishAt, c.ReadableAt, c.IsUnavailable,
		c.CreatedAt, c.UpdatedAt,
	)

	var inserted bool
	err := store.pool.QueryRow(context, query,
		chapter.ID, chapter.EntryID, chapter.Type, chapter.Volume, chapter.Number,
		chapter.Title, chapter.TranslatedLang, chapter.Pages, chapter.PublishAt,
		chapter.ReadableAt, chapter.IsUnavailable, chapter.CreatedAt, chapter.UpdatedAt,
	).Scan(&inserted)

	if errors.Is(err, pgx.ErrNoRows) {
		return OutcomeUnchanged, nil
	}
	if err != nil {
		return "", dberr.Wrap(err, "upsert chapter")
	}
	if inserted {
		return OutcomeInserted, nil
	}
	return OutcomeUpdated, nil
}

// ListByEntry returns the stored chapters of an entry, ordered for reading.
// Numeric ordering is done in Go because chapter numbers are free-form text.
func (store *chapterStore) ListByEntry(context context.Context, entryID, langCode string) ([]*Chapter, error) {
	c := schema.Chapter

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		c.ID, c.EntryID, c.Type, c.Volume, c.Number, c.Title, c.TranslatedLang,
		c.Pages, c.PublishAt, c.ReadableAt, c.IsUnavailable, c.CreatedAt, c.UpdatedAt,
		c.Table,
		c.EntryID,
	)

	args := []any{entryID}
	if langCode != "" {
		query += fmt.Sprintf(" AND %s = $2", c.TranslatedLang)
		args = append(args, langCode)
	}

	rows, err := store.pool.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list chapters")
	}
	defer rows.Close()

	var chapters []*Chapter
	for rows.Next() {
		chapter := &Chapter{}
		var publishAt, readableAt, createdAt, updatedAt time.Time

		err := rows.Scan(
			&chapter.ID, &chapter.EntryID, &chapter.Type, &chapter.Volume,
			&chapter.Number, &chapter.Title, &chapter.TranslatedLang, &chapter.Pages,
			&publishAt, &readableAt, &chapter.IsUnavailable, &createdAt, &updatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan chapter")
		}

		chapter.PublishAt = publishAt
		chapter.ReadableAt = readableAt
		chapter.CreatedAt = createdAt
		chapter.UpdatedAt = updatedAt
		chapters = append(chapters, chapter)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list chapters")
	}

	SortChapters(chapters)
	return chapters, nil
}
