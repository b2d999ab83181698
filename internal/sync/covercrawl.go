// Copyright (c) 2026 Mirrordex. All rights reserved.

package sync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mirrordex/mirrordex/internal/catalog"
	"github.com/mirrordex/mirrordex/internal/mangadex"
	"github.com/mirrordex/mirrordex/internal/platform/apperr"
	"github.com/mirrordex/mirrordex/internal/platform/constants"
	"github.com/mirrordex/mirrordex/pkg/pointer"
)

// CoverCrawler walks the entire upstream cover collection and backfills
// missing asset bytes into the catalog.
//
// Page fetches and metadata upserts run sequentially; only the binary
// downloads fan out to a small worker pool. Progress is checkpointed every
// few pages so a restart resumes close to where it stopped.
type CoverCrawler struct {
	client     *mangadex.Client
	covers     catalog.CoverStore
	checkpoint *Checkpoint
	logger     *slog.Logger

	mu     sync.Mutex
	status CrawlStatus
}

// CrawlStatus is a point-in-time snapshot of crawl progress.
type CrawlStatus struct {
	Running    bool       `json:"running"`
	Offset     int        `json:"offset"`
	Total      int        `json:"total"`
	Stored     int        `json:"stored"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// NewCoverCrawler constructs a crawler over the given client and store.
func NewCoverCrawler(client *mangadex.Client, covers catalog.CoverStore, checkpoint *Checkpoint, logger *slog.Logger) *CoverCrawler {
	return &CoverCrawler{
		client:     client,
		covers:     covers,
		checkpoint: checkpoint,
		logger:     logger,
	}
}

// Status returns a snapshot of the current (or last) crawl.
func (c *CoverCrawler) Status() CrawlStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Start begins a crawl in the calling goroutine.
//
// startOffset < 0 resumes from the checkpoint; any other value overrides
// it. Only one crawl may run at a time; a second Start reports a conflict.
func (c *CoverCrawler) Start(context context.Context, startOffset int) error {
	offset := startOffset
	if offset < 0 {
		saved, err := c.checkpoint.Load()
		if err != nil {
			return err
		}
		offset = saved
	}

	c.mu.Lock()
	if c.status.Running {
		c.mu.Unlock()
		return apperr.Conflict("A cover crawl is already running")
	}
	c.status = CrawlStatus{Running: true, Offset: offset, StartedAt: pointer.To(time.Now().UTC())}
	c.mu.Unlock()

	err := c.run(context, offset)

	c.mu.Lock()
	c.status.Running = false
	c.status.FinishedAt = pointer.To(time.Now().UTC())
	c.mu.Unlock()

	return err
}

// coverJob is one pending asset download.
type coverJob struct {
	record *catalog.Cover
}

func (c *CoverCrawler) run(ctx context.Context, offset int) error {
	jobs := make(chan coverJob)
	var workers sync.WaitGroup

	for i := 0; i < constants.CoverDownloadWorkers; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for job := range jobs {
				c.download(ctx, job.record)
			}
		}()
	}
	// The page loop is the only sender; close wakes the workers up on exit.
	defer func() {
		close(jobs)
		workers.Wait()
	}()

	pagesSinceCheckpoint := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, total, err := c.client.ListAllCovers(ctx, constants.CoverCrawlPageSize, offset)
		if err != nil {
			return err
		}

		c.mu.Lock()
		c.status.Offset = offset
		c.status.Total = total
		c.mu.Unlock()

		for i := range page {
			cover := &page[i]

			entryID := CoverEntryID(cover)
			if entryID == "" {
				// Orphaned cover document with no owning manga.
				c.count(func(s *CrawlStatus) { s.Skipped++ })
				continue
			}

			imageURL := c.client.CoverURL(entryID, cover.Attributes.FileName)
			record := NormalizeCover(entryID, cover, imageURL)

			if _, err := c.covers.Upsert(ctx, record); err != nil {
				c.count(func(s *CrawlStatus) { s.Failed++ })
				c.logger.Warn("crawl_cover_upsert_failed",
					slog.String("cover_id", record.ID),
					slog.Any("error", err),
				)
				continue
			}

			select {
			case jobs <- coverJob{record: record}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		offset += constants.CoverCrawlPageSize
		pagesSinceCheckpoint++

		if pagesSinceCheckpoint >= constants.CoverCheckpointEvery {
			pagesSinceCheckpoint = 0
			if err := c.checkpoint.Save(offset); err != nil {
				c.logger.Error("crawl_checkpoint_failed", slog.Any("error", err))
			}
		}

		if offset >= total {
			break
		}
	}

	// Final checkpoint so the next crawl starts past the finished range.
	if err := c.checkpoint.Save(offset); err != nil {
		c.logger.Error("crawl_checkpoint_failed", slog.Any("error", err))
	}

	c.logger.Info("crawl_finished", slog.Int("offset", offset))
	return nil
}

// download fetches and stores one cover asset, if it is still missing.
func (c *CoverCrawler) download(ctx context.Context, record *catalog.Cover) {
	has, err := c.covers.HasImage(ctx, record.ID)
	if err != nil {
		c.count(func(s *CrawlStatus) { s.Failed++ })
		return
	}
	if has {
		return
	}

	data, err := c.client.DownloadCover(ctx, record.EntryID, record.FileName)
	if err != nil {
		if errors.Is(err, mangadex.ErrSkipAsset) {
			c.count(func(s *CrawlStatus) { s.Skipped++ })
			return
		}
		if ctx.Err() != nil {
			return
		}
		c.count(func(s *CrawlStatus) { s.Failed++ })
		c.logger.Warn("crawl_download_failed",
			slog.String("cover_id", record.ID),
			slog.Any("error", err),
		)
		return
	}

	if err := c.covers.SaveImage(ctx, record.ID, data); err != nil {
		c.count(func(s *CrawlStatus) { s.Failed++ })
		return
	}
	c.count(func(s *CrawlStatus) { s.Stored++ })
}

func (c *CoverCrawler) count(update func(*CrawlStatus)) {
	c.mu.Lock()
	update(&c.status)
	c.mu.Unlock()
}
