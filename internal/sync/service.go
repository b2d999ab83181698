// Copyright (c) 2026 Mirrordex. All rights reserved.

package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mirrordex/mirrordex/internal/catalog"
	"github.com/mirrordex/mirrordex/internal/mangadex"
	"github.com/mirrordex/mirrordex/internal/platform/apperr"
	"github.com/mirrordex/mirrordex/internal/platform/constants"
)

// Stores bundles the catalog stores the engine writes to.
type Stores struct {
	Entries    catalog.EntryStore
	Chapters   catalog.ChapterStore
	Covers     catalog.CoverStore
	Creators   catalog.CreatorStore
	Tags       catalog.TagStore
	Statistics catalog.StatisticStore
}

// Service orchestrates metadata synchronization from the upstream API
// into the catalog stores.
//
// Writes follow strict referential order: the entry row first, then its
// dependent detail rows, then chapters, covers, and creators. A failure in
// one sub-collection is logged and counted but never aborts the others.
type Service struct {
	client    *mangadex.Client
	stores    Stores
	vocab     VocabularyCache
	languages []string
	logger    *slog.Logger
}

// NewService constructs the sync orchestrator.
func NewService(client *mangadex.Client, stores Stores, vocab VocabularyCache, languages []string, logger *slog.Logger) *Service {
	return &Service{
		client:    client,
		stores:    stores,
		vocab:     vocab,
		languages: languages,
		logger:    logger,
	}
}

// RefreshReport summarizes what one entry refresh did.
type RefreshReport struct {
	EntryID       string                `json:"entry_id"`
	Title         string                `json:"title"`
	EntryOutcome  catalog.UpsertOutcome `json:"entry_outcome"`
	Chapters      int                   `json:"chapters"`
	Covers        int                   `json:"covers"`
	CoversStored  int                   `json:"covers_stored"`
	CoversSkipped int                   `json:"covers_skipped"`
	Tags          int                   `json:"tags"`
	Creators      int                   `json:"creators"`
	Failures      int                   `json:"failures"`
}

// runState carries per-run bookkeeping across the entries of one
// synchronization run. Creators are resolved at most once per run.
type runState struct {
	creatorsDone map[string]bool
}

func newRunState() *runState {
	return &runState{creatorsDone: make(map[string]bool)}
}

// # Public Operations

// RefreshEntry fetches one entry by ID and converges the catalog to the
// upstream state.
func (s *Service) RefreshEntry(context context.Context, id string) (*RefreshReport, error) {
	manga, err := s.client.GetManga(context, id)
	if err != nil {
		return nil, apperr.Upstream(err)
	}

	stats, err := s.client.GetStatistics(context, []string{manga.ID})
	if err != nil {
		return nil, apperr.Upstream(err)
	}

	return s.refresh(context, manga, stats, newRunState())
}

// SearchAndRefresh searches upstream by title and refreshes every hit.
// Statistics for all hits are fetched in one batched call up front.
func (s *Service) SearchAndRefresh(context context.Context, title string) ([]*RefreshReport, error) {
	results, err := s.client.SearchManga(context, title)
	if err != nil {
		return nil, apperr.Upstream(err)
	}
	if len(results) == 0 {
		return nil, apperr.NotFound("Entry")
	}

	ids := make([]string, 0, len(results))
	for _, manga := range results {
		ids = append(ids, manga.ID)
	}
	stats, err := s.client.GetStatistics(context, ids)
	if err != nil {
		return nil, apperr.Upstream(err)
	}

	run := newRunState()
	reports := make([]*RefreshReport, 0, len(results))
	for i := range results {
		report, err := s.refresh(context, &results[i], stats, run)
		if err != nil {
			// One broken entry must not sink the rest of the run.
			s.logger.Error("entry_refresh_failed",
				slog.String("entry_id", results[i].ID),
				slog.Any("error", err),
			)
			continue
		}
		reports = append(reports, report)
	}

	return reports, nil
}

// NextChapter returns the stored chapter following the given number, in
// reading order, within one translation language.
func (s *Service) NextChapter(context context.Context, entryID, number, langCode string) (*catalog.Chapter, error) {
	chapters, err := s.stores.Chapters.ListByEntry(context, storageID(entryID), langCode)
	if err != nil {
		return nil, err
	}
	next := catalog.NextChapter(chapters, number)
	if next == nil {
		return nil, apperr.NotFound("Chapter")
	}
	return next, nil
}

// PreviousChapter returns the stored chapter preceding the given number.
func (s *Service) PreviousChapter(context context.Context, entryID, number, langCode string) (*catalog.Chapter, error) {
	chapters, err := s.stores.Chapters.ListByEntry(context, storageID(entryID), langCode)
	if err != nil {
		return nil, err
	}
	prev := catalog.PreviousChapter(chapters, number)
	if prev == nil {
		return nil, apperr.NotFound("Chapter")
	}
	return prev, nil
}

// # Pipeline

// refresh converges one entry and all its sub-collections.
//
// Order matters: rows are written parents-first so a failure partway
// through never leaves a child referencing a missing parent.
func (s *Service) refresh(context context.Context, manga *mangadex.Manga, stats map[string]mangadex.Statistics, run *runState) (*RefreshReport, error) {
	now := time.Now().UTC()
	normalized := NormalizeEntry(manga, now)
	entry := normalized.Entry

	report := &RefreshReport{EntryID: entry.ID, Title: entry.Title}
	logger := s.logger.With(slog.String("entry_id", entry.ID))

	// 1. The entry row anchors everything else; its failure is fatal.
	outcome, err := s.stores.Entries.Upsert(context, entry)
	if err != nil {
		return nil, fmt.Errorf("sync: upsert entry %s: %w", entry.ID, err)
	}
	report.EntryOutcome = outcome
	logger.Info("entry_converged", slog.String("outcome", string(outcome)))

	// 2. Detail rows.
	s.syncDetails(context, normalized, report, logger)

	// 3. Statistics snapshot (append-only).
	if stat, ok := stats[manga.ID]; ok {
		if err := s.stores.Statistics.Insert(context, NormalizeStatistic(manga.ID, stat, now)); err != nil {
			report.Failures++
			logger.Warn("statistic_insert_failed", slog.Any("error", err))
		}
	}

	// 4. Tags: vocabulary first, then the junction rows.
	s.syncTags(context, normalized, report, logger)

	// 5. Chapters.
	s.syncChapters(context, entry.ID, report, logger)

	// 6. Covers (metadata plus inline asset download).
	s.syncCovers(context, entry.ID, report, logger)

	// 7. Creators, resolved at most once per run.
	s.syncCreators(context, normalized, run, report, logger)

	return report, nil
}

func (s *Service) syncDetails(context context.Context, normalized *NormalizedEntry, report *RefreshReport, logger *slog.Logger) {
	for _, alt := range normalized.AltTitles {
		if _, err := s.stores.Entries.AddAltTitle(context, alt); err != nil {
			report.Failures++
			logger.Warn("alt_title_failed", slog.String("lang", alt.LangCode), slog.Any("error", err))
		}
	}
	for _, desc := range normalized.Descriptions {
		if _, err := s.stores.Entries.AddDescription(context, desc); err != nil {
			report.Failures++
			logger.Warn("description_failed", slog.String("lang", desc.LangCode), slog.Any("error", err))
		}
	}
	for _, lang := range normalized.Languages {
		if _, err := s.stores.Entries.AddLanguage(context, normalized.Entry.ID, lang); err != nil {
			report.Failures++
			logger.Warn("language_failed", slog.String("lang", lang), slog.Any("error", err))
		}
	}
	for _, link := range normalized.Links {
		if _, err := s.stores.Entries.AddLink(context, link); err != nil {
			report.Failures++
			logger.Warn("link_failed", slog.String("provider", link.Provider), slog.Any("error", err))
		}
	}
	for _, relation := range normalized.Relations {
		if _, err := s.stores.Entries.AddRelation(context, relation); err != nil {
			report.Failures++
			logger.Warn("relation_failed", slog.String("related_id", relation.RelatedID), slog.Any("error", err))
		}
	}
}

func (s *Service) syncTags(context context.Context, normalized *NormalizedEntry, report *RefreshReport, logger *slog.Logger) {
	for i := range normalized.Tags {
		tag := &normalized.Tags[i]

		// Vocabulary row first. The cache only skips members that have
		// already been converged; the upsert itself is idempotent.
		if !s.vocab.Seen(context, constants.RedisKeyKnownTags, tag.ID) {
			if _, err := s.stores.Tags.Upsert(context, tag); err != nil {
				report.Failures++
				logger.Warn("tag_upsert_failed", slog.String("tag_id", tag.ID), slog.Any("error", err))
				continue
			}
			s.vocab.Mark(context, constants.RedisKeyKnownTags, tag.ID)
		}

		if _, err := s.stores.Tags.AttachToEntry(context, normalized.Entry.ID, tag.ID); err != nil {
			report.Failures++
			logger.Warn("tag_attach_failed", slog.String("tag_id", tag.ID), slog.Any("error", err))
			continue
		}
		report.Tags++
	}
}

func (s *Service) syncChapters(context context.Context, entryID string, report *RefreshReport, logger *slog.Logger) {
	chapters, err := s.client.ListChapters(context, entryID, s.languages)
	if err != nil {
		report.Failures++
		logger.Warn("chapter_list_failed", slog.Any("error", err))
		return
	}

	for i := range chapters {
		record := NormalizeChapter(entryID, &chapters[i])
		if _, err := s.stores.Chapters.Upsert(context, record); err != nil {
			report.Failures++
			logger.Warn("chapter_upsert_failed", slog.String("chapter_id", record.ID), slog.Any("error", err))
			continue
		}
		report.Chapters++
	}
}

func (s *Service) syncCovers(context context.Context, entryID string, report *RefreshReport, logger *slog.Logger) {
	covers, err := s.client.ListCovers(context, entryID)
	if err != nil {
		report.Failures++
		logger.Warn("cover_list_failed", slog.Any("error", err))
		return
	}

	for i := range covers {
		cover := &covers[i]
		imageURL := s.client.CoverURL(entryID, cover.Attributes.FileName)
		record := NormalizeCover(entryID, cover, imageURL)

		if _, err := s.stores.Covers.Upsert(context, record); err != nil {
			report.Failures++
			logger.Warn("cover_upsert_failed", slog.String("cover_id", record.ID), slog.Any("error", err))
			continue
		}
		report.Covers++

		if err := s.fetchCoverImage(context, record); err != nil {
			if errors.Is(err, mangadex.ErrSkipAsset) {
				report.CoversSkipped++
				logger.Info("cover_skipped", slog.String("cover_id", record.ID), slog.Any("reason", err))
				continue
			}
			report.Failures++
			logger.Warn("cover_download_failed", slog.String("cover_id", record.ID), slog.Any("error", err))
			continue
		}
		report.CoversStored++
	}
}

// fetchCoverImage downloads and stores the asset bytes of one cover,
// unless they are already present.
func (s *Service) fetchCoverImage(context context.Context, cover *catalog.Cover) error {
	has, err := s.stores.Covers.HasImage(context, cover.ID)
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	data, err := s.client.DownloadCover(context, cover.EntryID, cover.FileName)
	if err != nil {
		return err
	}
	return s.stores.Covers.SaveImage(context, cover.ID, data)
}

func (s *Service) syncCreators(context context.Context, normalized *NormalizedEntry, run *runState, report *RefreshReport, logger *slog.Logger) {
	for _, ref := range normalized.Creators {

		// Resolve the full document at most once per run, so a run that
		// touches many entries by the same author costs one API call.
		if !run.creatorsDone[ref.ID] {
			author, err := s.client.GetAuthor(context, ref.ID)
			if err != nil {
				report.Failures++
				logger.Warn("creator_fetch_failed", slog.String("creator_id", ref.ID), slog.Any("error", err))
				continue
			}
			if _, err := s.stores.Creators.Upsert(context, NormalizeCreator(author, ref.Role)); err != nil {
				report.Failures++
				logger.Warn("creator_upsert_failed", slog.String("creator_id", ref.ID), slog.Any("error", err))
				continue
			}
			run.creatorsDone[ref.ID] = true
		}

		relation := catalog.CreatorRelation{
			CreatorID:   ref.ID,
			RelatedID:   normalized.Entry.ID,
			RelatedType: ref.Role,
		}
		if _, err := s.stores.Creators.AddRelation(context, relation); err != nil {
			report.Failures++
			logger.Warn("creator_relation_failed", slog.String("creator_id", ref.ID), slog.Any("error", err))
			continue
		}
		report.Creators++
	}
}
