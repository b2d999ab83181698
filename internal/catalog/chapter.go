// Copyright (c) 2026 Mirrordex. All rights reserved.

package catalog

import (
	"sort"
	"time"

	"github.com/mirrordex/mirrordex/pkg/chapternum"
)

// Chapter represents a single translated chapter of an entry.
//
// Number is kept as the raw upstream string: it may be decimal ("10.5"),
// carry a suffix ("84a"), or be empty for oneshots.
type Chapter struct {
	ID             string    `json:"id"`
	EntryID        string    `json:"entry_id"`
	Type           string    `json:"type"`
	Volume         string    `json:"volume"`
	Number         string    `json:"number"`
	Title          string    `json:"title"`
	TranslatedLang string    `json:"translated_lang"`
	Pages          int       `json:"pages"`
	PublishAt      time.Time `json:"publish_at"`
	ReadableAt     time.Time `json:"readable_at"`
	IsUnavailable  bool      `json:"is_unavailable"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// # Reader Navigation

// SortChapters orders chapters for reading: numeric chapter numbers first
// in decimal order, then non-numeric numbers lexically. Oneshots lead.
func SortChapters(chapters []*Chapter) {
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapternum.Less(chapters[i].Number, chapters[j].Number)
	})
}

// NextChapter returns the chapter that follows the given number in reading
// order, or nil when the number is the last one.
func NextChapter(chapters []*Chapter, number string) *Chapter {
	var next *Chapter
	for _, candidate := range chapters {
		if chapternum.Compare(candidate.Number, number) <= 0 {
			continue
		}
		if next == nil || chapternum.Less(candidate.Number, next.Number) {
			next = candidate
		}
	}
	return next
}

// PreviousChapter returns the chapter that precedes the given number in
// reading order, or nil when the number is the first one.
func PreviousChapter(chapters []*Chapter, number string) *Chapter {
	var prev *Chapter
	for _, candidate := range chapters {
		if chapternum.Compare(candidate.Number, number) >= 0 {
			continue
		}
		if prev == nil || chapternum.Less(prev.Number, candidate.Number) {
			prev = candidate
		}
	}
	return prev
}
