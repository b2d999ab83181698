// Copyright (c) 2026 Mirrordex. All rights reserved.

/*
Package sync implements the synchronization engine of the Mirrordex daemon.

It orchestrates the flow from the upstream API into the relational catalog:
fetching, normalizing response documents into typed records, and converging
the local tables through the catalog stores. Dependent rows are always
written after the row they reference, so a partial failure never leaves
dangling references.

Identity convention: every ID is stored uppercase; the upstream API is
addressed with lowercase IDs (the client handles that side).
*/
package sync

import (
	"sort"
	"strings"
	"time"

	"github.com/mirrordex/mirrordex/internal/catalog"
	"github.com/mirrordex/mirrordex/internal/mangadex"
	"github.com/mirrordex/mirrordex/pkg/pointer"
	"github.com/mirrordex/mirrordex/pkg/slug"
	"github.com/mirrordex/mirrordex/pkg/uuidv7"
)

// UnknownTitle is stored when an entry carries no usable title at all.
const UnknownTitle = "Unknown"

// StatisticSource labels the statistics snapshots this engine appends.
const StatisticSource = "mangadex"

// storageID converts an upstream ID to its storage form.
func storageID(id string) string { return strings.ToUpper(id) }

// # Entry Normalization

// CreatorRef identifies an author or artist relationship found on an entry
// that the orchestrator still has to resolve into a full creator record.
type CreatorRef struct {
	ID   string // storage form
	Role string // "author" or "artist"
}

// NormalizedEntry is the flattened, storage-ready projection of one
// upstream manga document.
type NormalizedEntry struct {
	Entry        *catalog.Entry
	AltTitles    []catalog.AltTitle
	Descriptions []catalog.Description
	Languages    []string
	Links        []catalog.Link
	Tags         []catalog.Tag
	Relations    []catalog.Relation
	Creators     []CreatorRef
}

// NormalizeEntry flattens a manga document into typed records.
//
// Title selection: the "en" title wins; otherwise the first value in key
// order; otherwise [UnknownTitle]. The slug is derived from the chosen
// title. Remote timestamps that fail to parse are left at their zero value.
func NormalizeEntry(manga *mangadex.Manga, now time.Time) *NormalizedEntry {
	attrs := manga.Attributes
	id := storageID(manga.ID)
	title := pickTitle(attrs.Title)

	entry := &catalog.Entry{
		ID:                    id,
		Type:                  manga.Type,
		Title:                 title,
		Slug:                  slug.From(title),
		ChapterNumbersReset:   attrs.ChapterNumbersResetOnNewVolume,
		ContentRating:         attrs.ContentRating,
		IsLocked:              attrs.IsLocked,
		LastChapter:           attrs.LastChapter,
		LastVolume:            attrs.LastVolume,
		LatestUploadedChapter: storageID(attrs.LatestUploadedChapter),
		OriginalLanguage:      attrs.OriginalLanguage,
		Demographic:           attrs.PublicationDemographic,
		State:                 attrs.State,
		Status:                attrs.Status,
		Links:                 attrs.Links,
		CreatedAt:             parseTime(attrs.CreatedAt),
		UpdatedAt:             parseTime(attrs.UpdatedAt),
		LastSyncedAt:          now,
	}
	if attrs.Year != 0 {
		entry.Year = pointer.To(attrs.Year)
	}

	normalized := &NormalizedEntry{Entry: entry}

	// Alternative titles: first title per language wins.
	seenAltLangs := map[string]bool{}
	for _, alt := range attrs.AltTitles {
		for _, lang := range sortedKeys(alt) {
			if seenAltLangs[lang] {
				continue
			}
			seenAltLangs[lang] = true
			normalized.AltTitles = append(normalized.AltTitles, catalog.AltTitle{
				EntryID:  id,
				LangCode: lang,
				Title:    alt[lang],
			})
		}
	}

	for _, lang := range sortedKeys(attrs.Description) {
		normalized.Descriptions = append(normalized.Descriptions, catalog.Description{
			EntryID:     id,
			LangCode:    lang,
			Description: attrs.Description[lang],
		})
	}

	normalized.Languages = append(normalized.Languages, attrs.AvailableTranslatedLanguages...)

	for _, provider := range sortedKeys(attrs.Links) {
		url, ok := providerURL(provider, attrs.Links[provider])
		if !ok {
			continue
		}
		normalized.Links = append(normalized.Links, catalog.Link{
			EntryID:  id,
			Provider: provider,
			URL:      url,
		})
	}

	for _, tag := range attrs.Tags {
		normalized.Tags = append(normalized.Tags, catalog.Tag{
			ID:        storageID(tag.ID),
			NameEn:    pickTitle(tag.Attributes.Name),
			GroupName: tag.Attributes.Group,
		})
	}

	for _, rel := range manga.Relationships {
		switch rel.Type {
		case "author", "artist":
			normalized.Creators = append(normalized.Creators, CreatorRef{
				ID:   storageID(rel.ID),
				Role: rel.Type,
			})
		case "manga":
			if rel.Related == "" {
				continue
			}
			normalized.Relations = append(normalized.Relations, catalog.Relation{
				EntryID:   id,
				RelatedID: storageID(rel.ID),
				Relation:  rel.Related,
				FetchedAt: now,
			})
		}
	}

	return normalized
}

// pickTitle selects a display title from a language map:
// "en" first, then the first value in key order, then [UnknownTitle].
func pickTitle(titles map[string]string) string {
	if title := titles["en"]; title != "" {
		return title
	}
	for _, lang := range sortedKeys(titles) {
		if titles[lang] != "" {
			return titles[lang]
		}
	}
	return UnknownTitle
}

// sortedKeys returns map keys in stable order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseTime parses an RFC3339 upstream timestamp, zero on failure.
func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}

// # Provider Links

// providerURL resolves an upstream link-map value to a full URL.
//
// Some providers report bare IDs or slugs that need a URL template; others
// (amz, ebj, cdj, raw, engtl) already carry complete URLs. Unrecognized
// provider codes pass their raw value through unchanged so new upstream
// providers surface instead of silently vanishing.
func providerURL(provider, value string) (string, bool) {
	if value == "" {
		return "", false
	}

	switch provider {
	case "al":
		return "https://anilist.co/manga/" + value, true
	case "ap":
		return "https://www.anime-planet.com/manga/" + value, true
	case "bw":
		return "https://bookwalker.jp/" + value, true
	case "mu":
		return "https://www.mangaupdates.com/series/" + value, true
	case "nu":
		return "https://www.novelupdates.com/series/" + value, true
	case "kt":
		return "https://kitsu.io/manga/" + value, true
	case "mal":
		return "https://myanimelist.net/manga/" + value, true
	}
	// Complete-URL providers (amz, ebj, cdj, raw, engtl) and anything
	// upstream adds later.
	return value, true
}

// # Chapter Normalization

// NormalizeChapter converts a chapter document into a storage record.
// Chapters with an empty number are recorded as oneshots.
func NormalizeChapter(entryID string, chapter *mangadex.Chapter) *catalog.Chapter {
	attrs := chapter.Attributes

	chapterType := chapter.Type
	if attrs.Chapter == "" {
		chapterType = "oneshot"
	}

	return &catalog.Chapter{
		ID:             storageID(chapter.ID),
		EntryID:        storageID(entryID),
		Type:           chapterType,
		Volume:         attrs.Volume,
		Number:         attrs.Chapter,
		Title:          attrs.Title,
		TranslatedLang: attrs.TranslatedLanguage,
		Pages:          attrs.Pages,
		PublishAt:      parseTime(attrs.PublishAt),
		ReadableAt:     parseTime(attrs.ReadableAt),
		IsUnavailable:  attrs.IsUnavailable,
		CreatedAt:      parseTime(attrs.CreatedAt),
		UpdatedAt:      parseTime(attrs.UpdatedAt),
	}
}

// # Cover Normalization

// NormalizeCover converts a cover document into a storage record.
// The uploader, if expanded, comes from the relationships list; imageURL is
// the canonical asset location on the uploads host.
func NormalizeCover(entryID string, cover *mangadex.Cover, imageURL string) *catalog.Cover {
	attrs := cover.Attributes

	uploaderID := ""
	for _, rel := range cover.Relationships {
		if rel.Type == "user" {
			uploaderID = storageID(rel.ID)
			break
		}
	}

	return &catalog.Cover{
		ID:          storageID(cover.ID),
		EntryID:     storageID(entryID),
		Volume:      attrs.Volume,
		Locale:      attrs.Locale,
		Description: attrs.Description,
		FileName:    attrs.FileName,
		Version:     attrs.Version,
		UploaderID:  uploaderID,
		ImageURL:    imageURL,
		CreatedAt:   parseTime(attrs.CreatedAt),
		UpdatedAt:   parseTime(attrs.UpdatedAt),
	}
}

// CoverEntryID extracts the owning manga ID (storage form) from a cover's
// relationships. Catalog-wide crawls need this because the collection
// endpoint returns covers detached from their manga.
func CoverEntryID(cover *mangadex.Cover) string {
	for _, rel := range cover.Relationships {
		if rel.Type == "manga" {
			return storageID(rel.ID)
		}
	}
	return ""
}

// # Creator Normalization

// NormalizeCreator converts an author document into a storage record.
func NormalizeCreator(author *mangadex.Author, role string) *catalog.Creator {
	attrs := author.Attributes

	return &catalog.Creator{
		ID:        storageID(author.ID),
		Type:      role,
		Name:      attrs.Name,
		ImageURL:  attrs.ImageURL,
		Biography: attrs.Biography,
		CreatedAt: parseTime(attrs.CreatedAt),
		UpdatedAt: parseTime(attrs.UpdatedAt),
	}
}

// # Statistic Normalization

// NormalizeStatistic converts an upstream statistics object into a fresh
// snapshot row with its own generated ID.
func NormalizeStatistic(entryID string, stats mangadex.Statistics, now time.Time) *catalog.Statistic {
	return &catalog.Statistic{
		ID:                  uuidv7.New(),
		EntryID:             storageID(entryID),
		Source:              StatisticSource,
		Follows:             stats.Follows,
		AverageRating:       stats.Rating.Average,
		BayesianRating:      stats.Rating.Bayesian,
		UnavailableChapters: stats.UnavailableChaptersCount,
		FetchedAt:           now,
	}
}
