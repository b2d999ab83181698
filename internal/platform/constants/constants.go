// Copyright (c) 2026 Mirrordex. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, upstream pacing parameters, and cross-cutting keys
that are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Upstream Pacing: request spacing and retry policy against the MangaDex API.
  - Sync: page sizes, batch sizes, and worker counts for catalog refreshes.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "mirrordex-syncd"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for a single database statement.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// SyncRequestTimeout bounds a synchronous refresh request end to end.
	// Refreshes page through rate-limited upstream collections, so this is
	// far above an ordinary API deadline.
	SyncRequestTimeout = 10 * time.Minute
)

// # Rate Limiting (inbound)

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Upstream Pacing (outbound, MangaDex)

const (
	// UpstreamMinDelay is the minimum spacing between any two upstream calls.
	UpstreamMinDelay = 250 * time.Millisecond

	// UpstreamMaxRetries is how many times a failed upstream call is retried
	// before the error is surfaced to the caller.
	UpstreamMaxRetries = 5

	// UpstreamBackoffFactor multiplies the wait between successive retries.
	UpstreamBackoffFactor = 2

	// UpstreamBackoffBase is the wait before the first retry of a 5xx response.
	UpstreamBackoffBase = 1 * time.Second

	// UpstreamRetryAfterDefault is the wait applied to a 429 response that
	// carries no usable Retry-After header.
	UpstreamRetryAfterDefault = 60 * time.Second

	// UpstreamRequestTimeout bounds a single upstream HTTP request.
	UpstreamRequestTimeout = 30 * time.Second
)

// # Sync

const (
	// ChapterPageSize is the page size used when listing an entry's chapters.
	ChapterPageSize = 100

	// CoverPageSize is the page size used when listing an entry's covers.
	CoverPageSize = 10

	// CoverCrawlPageSize is the page size used by the catalog-wide cover crawl.
	CoverCrawlPageSize = 100

	// StatisticsBatchSize is how many entry IDs a single statistics call may carry.
	StatisticsBatchSize = 100

	// SearchResultLimit caps title searches against the upstream API.
	SearchResultLimit = 5

	// CoverDownloadWorkers is the number of concurrent cover asset downloads.
	CoverDownloadWorkers = 4

	// CoverDownloadRetries is how many attempts a single cover asset gets.
	CoverDownloadRetries = 7

	// CoverMaxBytes is the largest cover asset accepted for storage.
	CoverMaxBytes = 10 << 20

	// CoverCheckpointEvery is how many crawl pages pass between checkpoint writes.
	CoverCheckpointEvery = 10
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaCatalog = "catalog"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisKeyKnownTags = "sync:known_tags"
)
