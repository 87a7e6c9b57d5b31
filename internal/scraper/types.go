// internal/scraper/types.go

// Package scraper fetches the catalog's sources concurrently and merges their
// extracted records into one result set. Each source is fetched, classified by
// content type and handed to the extractor; per-source failures are recorded
// in the scrape log and never abort the run.
package scraper

import (
	"time"
)

// FetchStatus classifies the outcome of fetching one URL.
type FetchStatus string

const (
	FetchOK          FetchStatus = "ok"
	FetchUnreachable FetchStatus = "unreachable"
	FetchHTTPError   FetchStatus = "http_error"
	FetchTimeout     FetchStatus = "timeout"
)

// FetchResult carries the response of one fetch attempt.
type FetchResult struct {
	URL         string
	Status      FetchStatus
	StatusCode  int
	ContentType string
	Body        []byte
	Duration    time.Duration

	// Rendered marks bodies produced by the headless browser rather than a
	// plain HTTP round trip.
	Rendered bool
}
