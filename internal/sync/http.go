// Copyright (c) 2026 Mirrordex. All rights reserved.

package sync

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mirrordex/mirrordex/internal/platform/apperr"
	"github.com/mirrordex/mirrordex/internal/platform/ctxutil"
	"github.com/mirrordex/mirrordex/internal/platform/respond"
	"github.com/mirrordex/mirrordex/pkg/convert"
)

// # Handler Implementation

// Handler implements the HTTP control surface of the sync engine.
// It translates web requests into service and crawler calls.
type Handler struct {
	service *Service
	crawler *CoverCrawler

	// crawlContext outlives the triggering request so an async crawl is
	// only stopped by daemon shutdown, not by the client disconnecting.
	crawlContext context.Context
}

// NewHandler constructs a sync [Handler].
// appContext bounds background crawls started from the API.
func NewHandler(appContext context.Context, service *Service, crawler *CoverCrawler) *Handler {
	return &Handler{
		service:      service,
		crawler:      crawler,
		crawlContext: appContext,
	}
}

// Routes returns a [chi.Router] configured with the sync endpoints.
//
// # Routing Strategy
//
//   - Refresh operations are synchronous: the response carries the report.
//   - The catalog-wide cover crawl is asynchronous: POST answers 202 and
//     GET exposes progress.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/entries/{id}", handler.refreshEntry)
	router.Post("/search", handler.searchAndRefresh)
	router.Post("/covers", handler.startCoverCrawl)
	router.Get("/covers", handler.coverCrawlStatus)

	router.Get("/entries/{id}/chapters/{number}/next", handler.nextChapter)
	router.Get("/entries/{id}/chapters/{number}/previous", handler.previousChapter)

	return router
}

// refreshEntry handles POST /entries/{id}: one full metadata refresh.
func (handler *Handler) refreshEntry(writer http.ResponseWriter, request *http.Request) {
	id := strings.TrimSpace(chi.URLParam(request, "id"))
	if id == "" {
		respond.Error(writer, request, apperr.ValidationError("Entry ID is required"))
		return
	}

	report, err := handler.service.RefreshEntry(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, report)
}

// searchRequest is the body of POST /search.
type searchRequest struct {
	Title string `json:"title"`
}

// searchAndRefresh handles POST /search: refresh every search hit.
func (handler *Handler) searchAndRefresh(writer http.ResponseWriter, request *http.Request) {
	body := searchRequest{}
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Request body must be JSON"))
		return
	}
	if strings.TrimSpace(body.Title) == "" {
		respond.Error(writer, request, apperr.ValidationError("Title is required",
			apperr.FieldError{Field: "title", Message: "must not be empty"}))
		return
	}

	reports, err := handler.service.SearchAndRefresh(request.Context(), body.Title)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, reports)
}

// crawlRequest is the body of POST /covers.
// Offset -1 (the default when the body is empty) resumes the checkpoint.
type crawlRequest struct {
	Offset *int `json:"offset"`
}

// startCoverCrawl handles POST /covers: kick off the async catalog crawl.
func (handler *Handler) startCoverCrawl(writer http.ResponseWriter, request *http.Request) {
	body := crawlRequest{}
	if request.Body != nil {
		// An empty or absent body simply resumes from the checkpoint.
		_ = json.NewDecoder(request.Body).Decode(&body)
	}

	// Offset precedence: JSON body, then ?offset= query, then checkpoint.
	offset := convert.ToIntD(request.URL.Query().Get("offset"), -1)
	if body.Offset != nil {
		offset = *body.Offset
	}
	if offset < -1 {
		respond.Error(writer, request, apperr.ValidationError("Offset must not be negative",
			apperr.FieldError{Field: "offset", Message: "must be zero or positive"}))
		return
	}

	if handler.crawler.Status().Running {
		respond.Error(writer, request, apperr.Conflict("A cover crawl is already running"))
		return
	}

	logger := ctxutil.GetLogger(request.Context())
	go func() {
		if err := handler.crawler.Start(handler.crawlContext, offset); err != nil {
			logger.Error("cover_crawl_failed", slog.Any("error", err))
		}
	}()

	respond.Accepted(writer, map[string]string{"status": "crawl started"})
}

// coverCrawlStatus handles GET /covers: progress of the async crawl.
func (handler *Handler) coverCrawlStatus(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.crawler.Status())
}

// nextChapter handles GET /entries/{id}/chapters/{number}/next.
// The oneshot sentinel "oneshot" maps to the empty chapter number.
func (handler *Handler) nextChapter(writer http.ResponseWriter, request *http.Request) {
	entryID := chi.URLParam(request, "id")
	number := chapterNumberParam(request)
	lang := request.URL.Query().Get("lang")

	chapter, err := handler.service.NextChapter(request.Context(), entryID, number, lang)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, chapter)
}

// previousChapter handles GET /entries/{id}/chapters/{number}/previous.
func (handler *Handler) previousChapter(writer http.ResponseWriter, request *http.Request) {
	entryID := chi.URLParam(request, "id")
	number := chapterNumberParam(request)
	lang := request.URL.Query().Get("lang")

	chapter, err := handler.service.PreviousChapter(request.Context(), entryID, number, lang)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, chapter)
}

// chapterNumberParam reads the {number} path segment, translating the
// "oneshot" sentinel into the empty number oneshots are stored under.
func chapterNumberParam(request *http.Request) string {
	number := chi.URLParam(request, "number")
	if number == "oneshot" {
		return ""
	}
	return number
}
