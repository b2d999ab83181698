// Copyright (c) 2026 Mirrordex. All rights reserved.

package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mirrordex/mirrordex/internal/platform/database/schema"
	"github.com/mirrordex/mirrordex/internal/platform/dberr"
)

// statisticStore implements the [StatisticStore] interface using pgx.
type statisticStore struct {
	pool *pgxpool.Pool
}

// NewStatisticStore constructs a PostgreSQL backed statistic store.
func NewStatisticStore(pool *pgxpool.Pool) StatisticStore {
	return &statisticStore{pool: pool}
}

// Insert appends a snapshot row to the statistics time series.
func (store *statisticStore) Insert(context context.Context, statistic *Statistic) error {
	s := schema.Statistic

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		s.Table,
		s.ID, s.EntryID, s.Source, s.Follows, s.AverageRating,
		s.BayesianRating, s.UnavailableChapters, s.FetchedAt,
	)

	_, err := store.pool.Exec(context, query,
		statistic.ID, statistic.EntryID, statistic.Source, statistic.Follows,
		statistic.AverageRating, statistic.BayesianRating,
		statistic.UnavailableChapters, statistic.FetchedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "insert statistic")
	}
	return nil
}
