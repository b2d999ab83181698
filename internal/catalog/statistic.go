// Copyright (c) 2026 Mirrordex. All rights reserved.

package catalog

import "time"

// Statistic is one point-in-time snapshot of an entry's upstream counters.
//
// The table is append-only: every sync run inserts a fresh row with its
// own generated ID, forming a time series per entry.
type Statistic struct {
	ID                  string    `json:"id"`
	EntryID             string    `json:"entry_id"`
	Source              string    `json:"source"`
	Follows             int64     `json:"follows"`
	AverageRating       *float64  `json:"average_rating,omitempty"`
	BayesianRating      *float64  `json:"bayesian_rating,omitempty"`
	UnavailableChapters int       `json:"unavailable_chapters"`
	FetchedAt           time.Time `json:"fetched_at"`
}
