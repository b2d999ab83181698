// Copyright (c) 2026 Mirrordex. All rights reserved.

package catalog

import "context"

// # Entry Data Access

// EntryStore defines the data access contract for entries and their
// dependent detail tables.
type EntryStore interface {

	/*
		Upsert merges an entry into the store.

		Only rows whose compared fields actually differ are rewritten, so
		repeated syncs of unchanged upstream data leave rows untouched.

		Returns:
		  - UpsertOutcome: inserted, updated, or unchanged
		  - error: storage failures
	*/
	Upsert(context context.Context, entry *Entry) (UpsertOutcome, error)

	/*
		FindByID returns the entry with the given (uppercase) ID.

		Returns:
		  - *Entry: the hydrated entity
		  - error: ErrNotFound if missing
	*/
	FindByID(context context.Context, id string) (*Entry, error)

	/*
		AddAltTitle records an alternative title if no title exists yet for
		the same (entry, language) pair. It reports whether a row was added.
	*/
	AddAltTitle(context context.Context, title AltTitle) (bool, error)

	// AddDescription records a localized synopsis if none exists for the
	// (entry, language) pair. It reports whether a row was added.
	AddDescription(context context.Context, description Description) (bool, error)

	// AddLanguage records an available translation language if missing.
	AddLanguage(context context.Context, entryID, langCode string) (bool, error)

	// AddLink records an external provider link if missing.
	AddLink(context context.Context, link Link) (bool, error)

	// AddRelation records an entry-to-entry relation if missing.
	AddRelation(context context.Context, relation Relation) (bool, error)
}

// # Chapter Data Access

// ChapterStore defines the data access contract for chapters.
type ChapterStore interface {

	// Upsert merges a chapter into the store, reporting the outcome.
	Upsert(context context.Context, chapter *Chapter) (UpsertOutcome, error)

	/*
		ListByEntry returns every stored chapter of an entry in the given
		translation language, ordered for reading (see [SortChapters]).
		An empty langCode returns chapters across all languages.
	*/
	ListByEntry(context context.Context, entryID, langCode string) ([]*Chapter, error)
}

// # Cover Data Access

// CoverStore defines the data access contract for cover art.
type CoverStore interface {

	// Upsert merges cover metadata into the store, reporting the outcome.
	// Image bytes are never touched by metadata upserts.
	Upsert(context context.Context, cover *Cover) (UpsertOutcome, error)

	// HasImage reports whether the asset bytes of a cover are stored.
	HasImage(context context.Context, id string) (bool, error)

	/*
		SaveImage stores the downloaded asset bytes of a cover and stamps
		DownloadedAt. The metadata row must already exist.
	*/
	SaveImage(context context.Context, id string, data []byte) error

	// CountPending returns how many known covers still lack image bytes.
	CountPending(context context.Context) (int, error)
}

// # Creator Data Access

// CreatorStore defines the data access contract for authors and artists.
type CreatorStore interface {

	// Upsert merges a creator into the store, reporting the outcome.
	Upsert(context context.Context, creator *Creator) (UpsertOutcome, error)

	// AddRelation records a creator-to-entry credit if missing.
	AddRelation(context context.Context, relation CreatorRelation) (bool, error)
}

// # Tag Data Access

// TagStore defines the data access contract for the tag vocabulary.
type TagStore interface {

	// Upsert merges a tag into the shared vocabulary, reporting the outcome.
	Upsert(context context.Context, tag *Tag) (UpsertOutcome, error)

	// AttachToEntry links a tag to an entry if the link is missing.
	AttachToEntry(context context.Context, entryID, tagID string) (bool, error)
}

// # Statistic Data Access

// StatisticStore defines the data access contract for the statistics
// time series.
type StatisticStore interface {

	// Insert appends a snapshot row. Snapshots are never updated.
	Insert(context context.Context, statistic *Statistic) error
}
