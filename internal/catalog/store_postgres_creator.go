// Copyright (c) 2026 Mirrordex. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mirrordex/mirrordex/internal/platform/database/schema"
	"github.com/mirrordex/mirrordex/internal/platform/dberr"
)

// creatorStore implements the [CreatorStore] interface using pgx.
type creatorStore struct {
	pool *pgxpool.Pool
}

// NewCreatorStore constructs a PostgreSQL backed creator store.
func NewCreatorStore(pool *pgxpool.Pool) CreatorStore {
	return &creatorStore{pool: pool}
}

// Upsert merges a creator into catalog.creator with a diff guard.
// Biographies are stored as a single JSONB language map.
func (store *creatorStore) Upsert(context context.Context, creator *Creator) (UpsertOutcome, error) {
	c := schema.Creator

	biographyJSON, err := json.Marshal(creator.Biography)
	if err != nil {
		return "", fmt.Errorf("catalog: encode biography: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s AS c (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s,
			%s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s
		WHERE (c.%s, c.%s, c.%s, c.%s, c.%s, c.%s)
		IS DISTINCT FROM
			(EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s, EXCLUDED.%s)
		RETURNING (xmax = 0)
	`,
		c.Table,
		c.ID, c.Type, c.Name, c.ImageURL, c.Biography, c.CreatedAt, c.UpdatedAt,
		c.ID,
		c.Type, c.Type, c.Name, c.Name, c.ImageURL, c.ImageURL,
		c.Biography, c.Biography, c.CreatedAt, c.CreatedAt, c.UpdatedAt, c.UpdatedAt,
		c.Type, c.Name, c.ImageURL, c.Biography, c.CreatedAt, c.UpdatedAt,
		c.Type, c.Name, c.ImageURL, c.Biography, c.CreatedAt, c.UpdatedAt,
	)

	var inserted bool
	err = store.pool.QueryRow(context, query,
		creator.ID, creator.Type, creator.Name, creator.ImageURL, biographyJSON,
		creator.CreatedAt, creator.UpdatedAt,
	).Scan(&inserted)

	if errors.Is(err, pgx.ErrNoRows) {
		return OutcomeUnchanged, nil
	}
	if err != nil {
		return "", dberr.Wrap(err, "upsert creator")
	}
	if inserted {
		return OutcomeInserted, nil
	}
	return OutcomeUpdated, nil
}

// AddRelation records a creator-to-entry credit unless present.
func (store *creatorStore) AddRelation(context context.Context, relation CreatorRelation) (bool, error) {
	t := schema.CreatorRelation

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s, %s, %s) DO NOTHING
	`,
		t.Table, t.CreatorID, t.RelatedID, t.RelatedType,
		t.CreatorID, t.RelatedID, t.RelatedType,
	)

	tag, err := store.pool.Exec(context, query,
		relation.CreatorID, relation.RelatedID, relation.RelatedType)
	if err != nil {
		return false, dberr.Wrap(err, "add creator relation")
	}
	return tag.RowsAffected() == 1, nil
}
