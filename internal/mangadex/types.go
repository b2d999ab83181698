// Copyright (c) 2026 Mirrordex. All rights reserved.

package mangadex

import "encoding/json"

// Envelope is the generic response wrapper returned by every JSON endpoint.
//
// Collection endpoints additionally fill Limit, Offset, and Total; entity
// endpoints leave them zero. Data is kept raw so callers can decode it as
// either a single object or a list.
type Envelope struct {
	Result   string          `json:"result"`
	Response string          `json:"response"`
	Data     json.RawMessage `json:"data"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
	Total    int             `json:"total"`
	Errors   []APIError      `json:"errors,omitempty"`
}

// APIError represents an error object in the API response.
type APIError struct {
	ID     string `json:"id"`
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Manga represents a manga object from the source API.
type Manga struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Attributes    MangaAttributes `json:"attributes"`
	Relationships []Relationship  `json:"relationships"`
}

// MangaAttributes represents the attributes of a manga.
type MangaAttributes struct {
	Title                          map[string]string   `json:"title"`
	AltTitles                      []map[string]string `json:"altTitles"`
	Description                    map[string]string   `json:"description"`
	IsLocked                       bool                `json:"isLocked"`
	Links                          map[string]string   `json:"links"`
	OriginalLanguage               string              `json:"originalLanguage"`
	LastVolume                     string              `json:"lastVolume"`
	LastChapter                    string              `json:"lastChapter"`
	PublicationDemographic         string              `json:"publicationDemographic"`
	Status                         string              `json:"status"`
	Year                           int                 `json:"year"`
	ContentRating                  string              `json:"contentRating"`
	ChapterNumbersResetOnNewVolume bool                `json:"chapterNumbersResetOnNewVolume"`
	AvailableTranslatedLanguages   []string            `json:"availableTranslatedLanguages"`
	LatestUploadedChapter          string              `json:"latestUploadedChapter"`
	Tags                           []Tag               `json:"tags"`
	State                          string              `json:"state"`
	Version                        int                 `json:"version"`
	CreatedAt                      string              `json:"createdAt"`
	UpdatedAt                      string              `json:"updatedAt"`
}

// Tag represents a tag object attached to a manga.
type Tag struct {
	ID         string        `json:"id"`
	Type       string        `json:"type"`
	Attributes TagAttributes `json:"attributes"`
}

// TagAttributes represents the attributes of a tag.
type TagAttributes struct {
	Name        map[string]string `json:"name"`
	Description map[string]string `json:"description"`
	Group       string            `json:"group"`
	Version     int               `json:"version"`
}

// Relationship links a resource to another resource by type.
//
// Attributes is only populated when the caller asked for reference
// expansion via the includes[] parameter.
type Relationship struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Related    string                 `json:"related"`
	Attributes map[string]interface{} `json:"attributes"`
}

// Chapter represents a chapter object from the source API.
type Chapter struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"`
	Attributes    ChapterAttributes `json:"attributes"`
	Relationships []Relationship    `json:"relationships"`
}

// ChapterAttributes represents the attributes of a chapter.
type ChapterAttributes struct {
	Volume             string `json:"volume"`
	Chapter            string `json:"chapter"`
	Title              string `json:"title"`
	TranslatedLanguage string `json:"translatedLanguage"`
	Pages              int    `json:"pages"`
	IsUnavailable      bool   `json:"isUnavailable"`
	PublishAt          string `json:"publishAt"`
	ReadableAt         string `json:"readableAt"`
	CreatedAt          string `json:"createdAt"`
	UpdatedAt          string `json:"updatedAt"`
	Version            int    `json:"version"`
}

// Cover represents a cover art object from the source API.
type Cover struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Attributes    CoverAttributes `json:"attributes"`
	Relationships []Relationship  `json:"relationships"`
}

// CoverAttributes represents the attributes of a cover.
type CoverAttributes struct {
	Volume      string `json:"volume"`
	Locale      string `json:"locale"`
	Description string `json:"description"`
	FileName    string `json:"fileName"`
	Version     int    `json:"version"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// Author represents an author or artist object from the source API.
type Author struct {
	ID            string           `json:"id"`
	Type          string           `json:"type"`
	Attributes    AuthorAttributes `json:"attributes"`
	Relationships []Relationship   `json:"relationships"`
}

// AuthorAttributes represents the attributes of an author.
type AuthorAttributes struct {
	Name      string            `json:"name"`
	ImageURL  string            `json:"imageUrl"`
	Biography map[string]string `json:"biography"`
	CreatedAt string            `json:"createdAt"`
	UpdatedAt string            `json:"updatedAt"`
	Version   int               `json:"version"`
}

// Statistics carries the aggregate counters the statistics endpoint
// reports for a single manga.
type Statistics struct {
	Rating                   StatisticsRating `json:"rating"`
	Follows                  int64            `json:"follows"`
	UnavailableChaptersCount int              `json:"unavailableChaptersCount"`
}

// StatisticsRating is the rating sub-object of [Statistics].
type StatisticsRating struct {
	Average  *float64 `json:"average"`
	Bayesian *float64 `json:"bayesian"`
}

// statisticsEnvelope is the wrapper used by the statistics endpoint,
// which keys results by manga ID instead of using a data array.
type statisticsEnvelope struct {
	Result     string                `json:"result"`
	Statistics map[string]Statistics `json:"statistics"`
	Errors     []APIError            `json:"errors,omitempty"`
}
