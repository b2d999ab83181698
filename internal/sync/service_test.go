// Copyright (c) 2026 Mirrordex. All rights reserved.

package sync

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirrordex/mirrordex/internal/catalog"
	"github.com/mirrordex/mirrordex/internal/mangadex"
	"github.com/mirrordex/mirrordex/internal/platform/apperr"
)

// # In-Memory Stores

// fakeData is a shared in-memory catalog. Every mutating call appends to
// ops so tests can assert referential write order, and bumps writes so
// tests can assert convergence (a second identical run writes nothing).
type fakeData struct {
	ops    []string
	writes int

	entries      map[string]*catalog.Entry
	altTitles    map[string]string
	descriptions map[string]string
	languages    map[string]bool
	links        map[string]string
	relations    map[string]bool
	chapters     map[string]*catalog.Chapter
	covers       map[string]*catalog.Cover
	images       map[string][]byte
	creators     map[string]*catalog.Creator
	creatorRels  map[string]bool
	tags         map[string]*catalog.Tag
	entryTags    map[string]bool
	statistics   []*catalog.Statistic

	failEntry map[string]error
}

func newFakeData() *fakeData {
	return &fakeData{
		entries:      map[string]*catalog.Entry{},
		altTitles:    map[string]string{},
		descriptions: map[string]string{},
		languages:    map[string]bool{},
		links:        map[string]string{},
		relations:    map[string]bool{},
		chapters:     map[string]*catalog.Chapter{},
		covers:       map[string]*catalog.Cover{},
		images:       map[string][]byte{},
		creators:     map[string]*catalog.Creator{},
		creatorRels:  map[string]bool{},
		tags:         map[string]*catalog.Tag{},
		entryTags:    map[string]bool{},
		failEntry:    map[string]error{},
	}
}

func (d *fakeData) record(op string) { d.ops = append(d.ops, op) }

// opIndex returns the position of the first op with the given prefix,
// or -1 when absent.
func (d *fakeData) opIndex(prefix string) int {
	return slices.IndexFunc(d.ops, func(op string) bool {
		return len(op) >= len(prefix) && op[:len(prefix)] == prefix
	})
}

func (d *fakeData) stores() Stores {
	return Stores{
		Entries:    &fakeEntryStore{d},
		Chapters:   &fakeChapterStore{d},
		Covers:     &fakeCoverStore{d},
		Creators:   &fakeCreatorStore{d},
		Tags:       &fakeTagStore{d},
		Statistics: &fakeStatisticStore{d},
	}
}

type fakeEntryStore struct{ d *fakeData }

func (s *fakeEntryStore) Upsert(_ context.Context, entry *catalog.Entry) (catalog.UpsertOutcome, error) {
	if err := s.d.failEntry[entry.ID]; err != nil {
		return "", err
	}
	s.d.record("entry:" + entry.ID)

	existing, ok := s.d.entries[entry.ID]
	if ok {
		// The sync stamp alone never counts as a change.
		compared := *entry
		compared.LastSyncedAt = existing.LastSyncedAt
		if reflect.DeepEqual(&compared, existing) {
			return catalog.OutcomeUnchanged, nil
		}
	}

	stored := *entry
	s.d.entries[entry.ID] = &stored
	s.d.writes++
	if ok {
		return catalog.OutcomeUpdated, nil
	}
	return catalog.OutcomeInserted, nil
}

func (s *fakeEntryStore) FindByID(_ context.Context, id string) (*catalog.Entry, error) {
	entry, ok := s.d.entries[id]
	if !ok {
		return nil, apperr.NotFound("Entry")
	}
	return entry, nil
}

// addIfAbsent models the insert-if-absent detail tables.
func (d *fakeData) addIfAbsent(kind, key string, present bool) bool {
	d.record(kind + ":" + key)
	if present {
		return false
	}
	d.writes++
	return true
}

func (s *fakeEntryStore) AddAltTitle(_ context.Context, title catalog.AltTitle) (bool, error) {
	key := title.EntryID + "|" + title.LangCode
	_, present := s.d.altTitles[key]
	if s.d.addIfAbsent("alt_title", key, present) {
		s.d.altTitles[key] = title.Title
		return true, nil
	}
	return false, nil
}

func (s *fakeEntryStore) AddDescription(_ context.Context, description catalog.Description) (bool, error) {
	key := description.EntryID + "|" + description.LangCode
	_, present := s.d.descriptions[key]
	if s.d.addIfAbsent("description", key, present) {
		s.d.descriptions[key] = description.Description
		return true, nil
	}
	return false, nil
}

func (s *fakeEntryStore) AddLanguage(_ context.Context, entryID, langCode string) (bool, error) {
	key := entryID + "|" + langCode
	if s.d.addIfAbsent("language", key, s.d.languages[key]) {
		s.d.languages[key] = true
		return true, nil
	}
	return false, nil
}

func (s *fakeEntryStore) AddLink(_ context.Context, link catalog.Link) (bool, error) {
	key := link.EntryID + "|" + link.Provider
	_, present := s.d.links[key]
	if s.d.addIfAbsent("link", key, present) {
		s.d.links[key] = link.URL
		return true, nil
	}
	return false, nil
}

func (s *fakeEntryStore) AddRelation(_ context.Context, relation catalog.Relation) (bool, error) {
	key := relation.EntryID + "|" + relation.RelatedID + "|" + relation.Relation
	if s.d.addIfAbsent("relation", key, s.d.relations[key]) {
		s.d.relations[key] = true
		return true, nil
	}
	return false, nil
}

type fakeChapterStore struct{ d *fakeData }

func (s *fakeChapterStore) Upsert(_ context.Context, chapter *catalog.Chapter) (catalog.UpsertOutcome, error) {
	s.d.record("chapter:" + chapter.ID)
	if existing, ok := s.d.chapters[chapter.ID]; ok {
		if reflect.DeepEqual(existing, chapter) {
			return catalog.OutcomeUnchanged, nil
		}
		stored := *chapter
		s.d.chapters[chapter.ID] = &stored
		s.d.writes++
		return catalog.OutcomeUpdated, nil
	}
	stored := *chapter
	s.d.chapters[chapter.ID] = &stored
	s.d.writes++
	return catalog.OutcomeInserted, nil
}

func (s *fakeChapterStore) ListByEntry(_ context.Context, entryID, langCode string) ([]*catalog.Chapter, error) {
	var out []*catalog.Chapter
	for _, chapter := range s.d.chapters {
		if chapter.EntryID != entryID {
			continue
		}
		if langCode != "" && chapter.TranslatedLang != langCode {
			continue
		}
		out = append(out, chapter)
	}
	catalog.SortChapters(out)
	return out, nil
}

type fakeCoverStore struct{ d *fakeData }

func (s *fakeCoverStore) Upsert(_ context.Context, cover *catalog.Cover) (catalog.UpsertOutcome, error) {
	s.d.record("cover:" + cover.ID)
	if existing, ok := s.d.covers[cover.ID]; ok {
		if reflect.DeepEqual(existing, cover) {
			return catalog.OutcomeUnchanged, nil
		}
		stored := *cover
		s.d.covers[cover.ID] = &stored
		s.d.writes++
		return catalog.OutcomeUpdated, nil
	}
	stored := *cover
	s.d.covers[cover.ID] = &stored
	s.d.writes++
	return catalog.OutcomeInserted, nil
}

func (s *fakeCoverStore) HasImage(_ context.Context, id string) (bool, error) {
	_, ok := s.d.images[id]
	return ok, nil
}

func (s *fakeCoverStore) SaveImage(_ context.Context, id string, data []byte) error {
	s.d.record("cover_image:" + id)
	s.d.images[id] = data
	s.d.writes++
	return nil
}

func (s *fakeCoverStore) CountPending(_ context.Context) (int, error) {
	return len(s.d.covers) - len(s.d.images), nil
}

type fakeCreatorStore struct{ d *fakeData }

func (s *fakeCreatorStore) Upsert(_ context.Context, creator *catalog.Creator) (catalog.UpsertOutcome, error) {
	s.d.record("creator:" + creator.ID)
	if existing, ok := s.d.creators[creator.ID]; ok {
		if reflect.DeepEqual(existing, creator) {
			return catalog.OutcomeUnchanged, nil
		}
		stored := *creator
		s.d.creators[creator.ID] = &stored
		s.d.writes++
		return catalog.OutcomeUpdated, nil
	}
	stored := *creator
	s.d.creators[creator.ID] = &stored
	s.d.writes++
	return catalog.OutcomeInserted, nil
}

func (s *fakeCreatorStore) AddRelation(_ context.Context, relation catalog.CreatorRelation) (bool, error) {
	key := relation.CreatorID + "|" + relation.RelatedID + "|" + relation.RelatedType
	if s.d.addIfAbsent("creator_relation", key, s.d.creatorRels[key]) {
		s.d.creatorRels[key] = true
		return true, nil
	}
	return false, nil
}

type fakeTagStore struct{ d *fakeData }

func (s *fakeTagStore) Upsert(_ context.Context, tag *catalog.Tag) (catalog.UpsertOutcome, error) {
	s.d.record("tag:" + tag.ID)
	if existing, ok := s.d.tags[tag.ID]; ok {
		if reflect.DeepEqual(existing, tag) {
			return catalog.OutcomeUnchanged, nil
		}
		stored := *tag
		s.d.tags[tag.ID] = &stored
		s.d.writes++
		return catalog.OutcomeUpdated, nil
	}
	stored := *tag
	s.d.tags[tag.ID] = &stored
	s.d.writes++
	return catalog.OutcomeInserted, nil
}

func (s *fakeTagStore) AttachToEntry(_ context.Context, entryID, tagID string) (bool, error) {
	key := entryID + "|" + tagID
	if s.d.addIfAbsent("entry_tag", key, s.d.entryTags[key]) {
		s.d.entryTags[key] = true
		return true, nil
	}
	return false, nil
}

type fakeStatisticStore struct{ d *fakeData }

func (s *fakeStatisticStore) Insert(_ context.Context, statistic *catalog.Statistic) error {
	s.d.record("statistic:" + statistic.EntryID)
	stored := *statistic
	s.d.statistics = append(s.d.statistics, &stored)
	s.d.writes++
	return nil
}

// # Upstream Fixture

// newUpstream serves a tiny two-entry catalog: "Foo One" (aaa-1, one
// chapter, one cover, author auth-1) and "Foo Two" (bbb-2, one chapter,
// no covers, same author). Cover assets are served from the same host.
func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	mangaDoc := func(id, title string) string {
		return fmt.Sprintf(`{
			"id": %q, "type": "manga",
			"attributes": {
				"title": {"en": %q},
				"altTitles": [{"ja": "フー"}],
				"description": {"en": "A foo story."},
				"availableTranslatedLanguages": ["en"],
				"links": {"al": "11"},
				"year": 2020,
				"status": "ongoing",
				"contentRating": "safe",
				"createdAt": "2020-01-01T00:00:00+00:00",
				"updatedAt": "2020-01-02T00:00:00+00:00",
				"tags": [{"id": "tag-1", "type": "tag", "attributes": {"name": {"en": "Action"}, "group": "genre"}}]
			},
			"relationships": [{"id": "auth-1", "type": "author"}]
		}`, id, title)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/manga", func(w http.ResponseWriter, r *http.Request) {
		body := `{"result":"ok","response":"collection","data":[` +
			mangaDoc("aaa-1", "Foo One") + "," + mangaDoc("bbb-2", "Foo Two") +
			`],"limit":5,"offset":0,"total":2}`
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("/manga/aaa-1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"ok","response":"entity","data":` + mangaDoc("aaa-1", "Foo One") + `}`))
	})

	mux.HandleFunc("/statistics/manga", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"ok","statistics":{"aaa-1":{"follows":100},"bbb-2":{"follows":50}}}`))
	})

	mux.HandleFunc("/chapter", func(w http.ResponseWriter, r *http.Request) {
		manga := r.URL.Query().Get("manga")
		if r.URL.Query().Get("offset") != "0" {
			_, _ = w.Write([]byte(`{"result":"ok","response":"collection","data":[],"limit":100,"offset":100,"total":1}`))
			return
		}
		body := fmt.Sprintf(`{"result":"ok","response":"collection","data":[
			{"id": "ch-%s", "type": "chapter", "attributes": {"chapter": "1", "translatedLanguage": "en", "pages": 20}}
		],"limit":100,"offset":0,"total":1}`, manga)
		_, _ = w.Write([]byte(body))
	})

	mux.HandleFunc("/cover", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("manga[]") != "aaa-1" {
			_, _ = w.Write([]byte(`{"result":"ok","response":"collection","data":[],"limit":10,"offset":0,"total":0}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":"ok","response":"collection","data":[
			{"id": "cov-1", "type": "cover_art", "attributes": {"fileName": "one.jpg", "volume": "1"},
			 "relationships": [{"id": "aaa-1", "type": "manga"}]}
		],"limit":10,"offset":0,"total":1}`))
	})

	mux.HandleFunc("/author/auth-1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"ok","response":"entity","data":{"id":"auth-1","type":"author","attributes":{"name":"Bob"}}}`))
	})

	mux.HandleFunc("/covers/aaa-1/one.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(server *httptest.Server, data *fakeData) *Service {
	client := mangadex.NewClient(server.URL, server.URL, "mirrordex-test/0", discardLogger())
	return NewService(client, data.stores(), NewMemoryVocabulary(), []string{"en"}, discardLogger())
}

// # Tests

/*
TestService_SearchAndRefresh_ConvergesCatalog verifies the full pipeline:
both search hits land in the store with their detail rows, chapters,
covers, creators, and a statistics snapshot carrying the batched counts.
*/
func TestService_SearchAndRefresh_ConvergesCatalog(t *testing.T) {
	data := newFakeData()
	service := newTestService(newUpstream(t), data)

	reports, err := service.SearchAndRefresh(context.Background(), "Foo")
	require.NoError(t, err)
	require.Len(t, reports, 2)

	first := reports[0]
	assert.Equal(t, "AAA-1", first.EntryID)
	assert.Equal(t, "Foo One", first.Title)
	assert.Equal(t, catalog.OutcomeInserted, first.EntryOutcome)
	assert.Equal(t, 1, first.Chapters)
	assert.Equal(t, 1, first.Covers)
	assert.Equal(t, 1, first.CoversStored)
	assert.Equal(t, 1, first.Tags)
	assert.Equal(t, 1, first.Creators)
	assert.Zero(t, first.Failures)

	// Stored identity is uppercase throughout.
	require.Contains(t, data.entries, "AAA-1")
	require.Contains(t, data.entries, "BBB-2")
	assert.Equal(t, "foo-two", data.entries["BBB-2"].Slug)

	// The batched statistics landed on the right entries.
	follows := map[string]int64{}
	for _, stat := range data.statistics {
		follows[stat.EntryID] = stat.Follows
	}
	assert.Equal(t, map[string]int64{"AAA-1": 100, "BBB-2": 50}, follows)

	// Chapters, cover metadata, and the asset bytes all arrived.
	assert.Contains(t, data.chapters, "CH-AAA-1")
	assert.Contains(t, data.chapters, "CH-BBB-2")
	require.Contains(t, data.covers, "COV-1")
	assert.Equal(t, []byte("jpeg-bytes"), data.images["COV-1"])

	// The shared author was resolved once and credited on both entries.
	assert.Len(t, data.creators, 1)
	assert.Len(t, data.creatorRels, 2)
}

/*
TestService_Refresh_WriteOrder verifies referential write order: the
entry row lands before its detail rows, and a tag's vocabulary row lands
before the row linking it to the entry.
*/
func TestService_Refresh_WriteOrder(t *testing.T) {
	data := newFakeData()
	service := newTestService(newUpstream(t), data)

	_, err := service.RefreshEntry(context.Background(), "AAA-1")
	require.NoError(t, err)

	entryAt := data.opIndex("entry:AAA-1")
	require.GreaterOrEqual(t, entryAt, 0)

	for _, prefix := range []string{"alt_title:", "description:", "language:", "link:", "statistic:", "tag:", "chapter:", "cover:", "creator:"} {
		at := data.opIndex(prefix)
		require.GreaterOrEqualf(t, at, 0, "no %q op recorded", prefix)
		assert.Greaterf(t, at, entryAt, "%q written before its entry", prefix)
	}

	assert.Greater(t, data.opIndex("entry_tag:"), data.opIndex("tag:"),
		"tag link written before its vocabulary row")
	assert.Greater(t, data.opIndex("creator_relation:"), data.opIndex("creator:"),
		"creator credit written before the creator row")
}

/*
TestService_Refresh_SecondRunAppendsOnlyStatistics verifies convergence:
re-refreshing unchanged upstream data appends one statistics snapshot per
entry and writes nothing else.
*/
func TestService_Refresh_SecondRunAppendsOnlyStatistics(t *testing.T) {
	data := newFakeData()
	service := newTestService(newUpstream(t), data)

	_, err := service.SearchAndRefresh(context.Background(), "Foo")
	require.NoError(t, err)
	writesAfterFirst := data.writes

	reports, err := service.SearchAndRefresh(context.Background(), "Foo")
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, catalog.OutcomeUnchanged, reports[0].EntryOutcome)
	assert.Equal(t, catalog.OutcomeUnchanged, reports[1].EntryOutcome)
	assert.Len(t, data.statistics, 4, "one snapshot per entry per run")
	assert.Equal(t, writesAfterFirst+2, data.writes,
		"a converged run must write only its statistics snapshots")
}

/*
TestService_SearchAndRefresh_SkipsBrokenEntry verifies that one failing
entry does not sink the rest of the run.
*/
func TestService_SearchAndRefresh_SkipsBrokenEntry(t *testing.T) {
	data := newFakeData()
	data.failEntry["AAA-1"] = assert.AnError
	service := newTestService(newUpstream(t), data)

	reports, err := service.SearchAndRefresh(context.Background(), "Foo")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "BBB-2", reports[0].EntryID)
	assert.NotContains(t, data.entries, "AAA-1")
}

/*
TestService_ChapterNavigation verifies next/previous lookups against the
stored chapters, including the oneshot (empty number) boundary.
*/
func TestService_ChapterNavigation(t *testing.T) {
	data := newFakeData()
	for i, number := range []string{"", "1", "2", "10"} {
		id := fmt.Sprintf("CH-%d", i)
		data.chapters[id] = &catalog.Chapter{ID: id, EntryID: "AAA-1", Number: number, TranslatedLang: "en"}
	}
	service := NewService(nil, data.stores(), NewMemoryVocabulary(), []string{"en"}, discardLogger())

	next, err := service.NextChapter(context.Background(), "aaa-1", "2", "en")
	require.NoError(t, err)
	assert.Equal(t, "10", next.Number)

	prev, err := service.PreviousChapter(context.Background(), "aaa-1", "1", "en")
	require.NoError(t, err)
	assert.Empty(t, prev.Number, "the oneshot precedes chapter 1")

	_, err = service.NextChapter(context.Background(), "aaa-1", "10", "en")
	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
}
