// Copyright (c) 2026 Mirrordex. All rights reserved.

package mangadex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mirrordex/mirrordex/internal/platform/constants"
)

// The upstream API only accepts lowercase UUIDs in paths and parameters.
func apiID(id string) string { return strings.ToLower(id) }

// SearchManga looks up manga by title.
// Results carry expanded cover art, author, and artist relationships so a
// refresh can proceed without extra round trips.
func (c *Client) SearchManga(ctx context.Context, title string) ([]Manga, error) {
	params := url.Values{}
	params.Set("title", title)
	params.Set("limit", strconv.Itoa(constants.SearchResultLimit))
	params["includes[]"] = []string{"cover_art", "author", "artist"}

	env, err := c.get(ctx, "/manga", params)
	if err != nil {
		return nil, err
	}

	var results []Manga
	if err := json.Unmarshal(env.Data, &results); err != nil {
		return nil, fmt.Errorf("mangadex: decode search results: %w", err)
	}
	return results, nil
}

// GetManga fetches a single manga with expanded relationships.
func (c *Client) GetManga(ctx context.Context, id string) (*Manga, error) {
	params := url.Values{}
	params["includes[]"] = []string{"cover_art", "author", "artist"}

	env, err := c.get(ctx, "/manga/"+apiID(id), params)
	if err != nil {
		return nil, err
	}

	manga := &Manga{}
	if err := json.Unmarshal(env.Data, manga); err != nil {
		return nil, fmt.Errorf("mangadex: decode manga: %w", err)
	}
	return manga, nil
}

// GetAuthor fetches a single author or artist.
func (c *Client) GetAuthor(ctx context.Context, id string) (*Author, error) {
	env, err := c.get(ctx, "/author/"+apiID(id), nil)
	if err != nil {
		return nil, err
	}

	author := &Author{}
	if err := json.Unmarshal(env.Data, author); err != nil {
		return nil, fmt.Errorf("mangadex: decode author: %w", err)
	}
	return author, nil
}

// ListChapters returns every chapter of a manga in the given translation
// languages. It pages through the collection until an empty page arrives.
func (c *Client) ListChapters(ctx context.Context, mangaID string, languages []string) ([]Chapter, error) {
	var all []Chapter

	for offset := 0; ; offset += constants.ChapterPageSize {
		params := url.Values{}
		params.Set("manga", apiID(mangaID))
		params.Set("limit", strconv.Itoa(constants.ChapterPageSize))
		params.Set("offset", strconv.Itoa(offset))
		for _, lang := range languages {
			params.Add("translatedLanguage[]", lang)
		}

		env, err := c.get(ctx, "/chapter", params)
		if err != nil {
			return nil, err
		}

		var page []Chapter
		if err := json.Unmarshal(env.Data, &page); err != nil {
			return nil, fmt.Errorf("mangadex: decode chapters: %w", err)
		}
		if len(page) == 0 {
			break
		}
		all = append(all, page...)
	}

	return all, nil
}

// ListCovers returns every cover of a manga.
// Pagination is driven by the reported total rather than empty pages,
// because the cover collection endpoint always echoes its total.
func (c *Client) ListCovers(ctx context.Context, mangaID string) ([]Cover, error) {
	var all []Cover

	for offset := 0; ; {
		params := url.Values{}
		params.Add("manga[]", apiID(mangaID))
		params.Set("limit", strconv.Itoa(constants.CoverPageSize))
		params.Set("offset", strconv.Itoa(offset))

		env, err := c.get(ctx, "/cover", params)
		if err != nil {
			return nil, err
		}

		var page []Cover
		if err := json.Unmarshal(env.Data, &page); err != nil {
			return nil, fmt.Errorf("mangadex: decode covers: %w", err)
		}
		all = append(all, page...)

		offset += constants.CoverPageSize
		if offset >= env.Total {
			break
		}
	}

	return all, nil
}

// ListAllCovers returns one page of the catalog-wide cover collection,
// along with the collection total for resume bookkeeping.
func (c *Client) ListAllCovers(ctx context.Context, limit, offset int) ([]Cover, int, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	env, err := c.get(ctx, "/cover", params)
	if err != nil {
		return nil, 0, err
	}

	var page []Cover
	if err := json.Unmarshal(env.Data, &page); err != nil {
		return nil, 0, fmt.Errorf("mangadex: decode covers: %w", err)
	}
	return page, env.Total, nil
}

// GetStatistics fetches aggregate statistics for a set of manga IDs,
// batching requests so no single call exceeds the endpoint's ID budget.
// The returned map is keyed by lowercase manga ID.
func (c *Client) GetStatistics(ctx context.Context, ids []string) (map[string]Statistics, error) {
	out := make(map[string]Statistics, len(ids))

	for start := 0; start < len(ids); start += constants.StatisticsBatchSize {
		end := start + constants.StatisticsBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		params := url.Values{}
		for _, id := range ids[start:end] {
			params.Add("manga[]", apiID(id))
		}

		body, err := c.do(ctx, "/statistics/manga", params)
		if err != nil {
			return nil, err
		}

		env := statisticsEnvelope{}
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("mangadex: decode statistics: %w", err)
		}
		if env.Result == "error" {
			if len(env.Errors) > 0 {
				first := env.Errors[0]
				return nil, fmt.Errorf("mangadex: api error: %s: %s", first.Title, first.Detail)
			}
			return nil, fmt.Errorf("mangadex: statistics request failed")
		}

		for id, stats := range env.Statistics {
			out[strings.ToLower(id)] = stats
		}
	}

	return out, nil
}
