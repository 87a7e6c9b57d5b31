// internal/scraper/engine.go
package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/valpere/StatHarvester/internal/catalog"
	"github.com/valpere/StatHarvester/internal/config"
	"github.com/valpere/StatHarvester/internal/extract"
	"github.com/valpere/StatHarvester/internal/utils"
	"github.com/valpere/StatHarvester/pkg/types"
)

// Renderer produces a fully rendered HTML document for sources that need
// JavaScript execution.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// MetricsRecorder receives per-source observations. Implementations must be
// safe for concurrent use.
type MetricsRecorder interface {
	ObserveSource(status types.SourceStatus, records int, duration time.Duration)
}

// Engine runs one scraping pass over the catalog: it selects sources, fans
// them out to a worker pool and merges each worker's output over a channel.
// Results arrive in completion order, so record order varies between runs.
type Engine struct {
	cfg       *config.ScraperConfig
	catalog   *catalog.Catalog
	client    *Client
	prefilter *Prefilter
	extractor *extract.Extractor
	renderer  Renderer
	metrics   MetricsRecorder
	logger    utils.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRenderer attaches a browser renderer for browser-method sources.
// Without one those sources fall back to plain HTTP.
func WithRenderer(r Renderer) Option {
	return func(e *Engine) { e.renderer = r }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger replaces the default logger.
func WithLogger(l utils.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClient replaces the default HTTP client.
func WithClient(c *Client) Option {
	return func(e *Engine) { e.client = c }
}

// NewEngine creates an engine from a validated configuration and a source
// catalog.
func NewEngine(cfg *config.ScraperConfig, cat *catalog.Catalog, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if cat == nil {
		return nil, fmt.Errorf("source catalog is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	e := &Engine{
		cfg:     cfg,
		catalog: cat,
		client: NewClient(ClientConfig{
			Timeout:       cfg.Fetch.RequestTimeout(),
			RetryAttempts: cfg.Fetch.Retries(),
			RetryDelay:    cfg.Fetch.RetryBackoff(),
			UserAgents:    cfg.Fetch.UserAgents,
			Headers:       cfg.Fetch.Headers,
			RateLimit:     cfg.Fetch.RateLimit,
			RateBurst:     cfg.Fetch.RateBurst,
		}),
		prefilter: NewPrefilter(cfg.Fetch.CheckTimeout(), cfg.Fetch.AllowUnreliable),
		extractor: extract.New(extractLimits(cfg.Limits)),
		logger:    utils.NewLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func extractLimits(l config.LimitsConfig) extract.Limits {
	return extract.Limits{
		MatchesPerPattern: l.MatchesPerPattern,
		MaxTables:         l.MaxTables,
		TablePreviewRows:  l.TablePreviewRows,
		MaxParagraphs:     l.MaxParagraphs,
		MaxJSONItems:      l.MaxJSONItems,
		MaxListElements:   l.MaxListElements,
		MaxTextLines:      l.MaxTextLines,
		MaxPDFPages:       l.MaxPDFPages,
		MaxPDFStats:       l.MaxPDFStats,
		MaxExcerptLength:  l.MaxExcerptLength,
		MaxPDFLinks:       l.PDFLinkBudget(),
	}
}

// sourceOutcome is what one worker reports back for one source.
type sourceOutcome struct {
	records []types.Record
	tables  []types.ExtractedTable
	entry   types.LogEntry
}

// Run scrapes the selected sources and returns the merged, deduplicated
// result set. Per-source failures are recorded in the log, never returned as
// an error; an empty result set is a valid outcome. On context cancellation
// the partial result gathered so far is returned along with the context
// error.
func (e *Engine) Run(ctx context.Context, query string) (*types.ResultSet, error) {
	if deadline := e.cfg.Fetch.GlobalDeadline(); deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deadline)
		defer cancel()
	}

	rs := &types.ResultSet{Query: query, StartedAt: time.Now()}
	sources := e.catalog.Select(e.cfg.Categories, e.cfg.MaxSources)
	if len(sources) == 0 {
		e.logger.Warn("no sources selected, nothing to scrape")
		rs.Duration = time.Since(rs.StartedAt)
		return rs, nil
	}

	e.logger.Infof("scraping %d sources with %d workers", len(sources), e.cfg.Fetch.Workers)

	jobs := make(chan catalog.Source)
	results := make(chan sourceOutcome)

	var wg sync.WaitGroup
	for i := 0; i < e.cfg.Fetch.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range jobs {
				results <- e.scrapeSource(ctx, src, query)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, src := range sources {
			select {
			case jobs <- src:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// merge in completion order
	for out := range results {
		rs.Records = append(rs.Records, out.records...)
		rs.Tables = append(rs.Tables, out.tables...)
		rs.Log = append(rs.Log, out.entry)
	}

	removed := rs.Deduplicate()
	rs.Duration = time.Since(rs.StartedAt)
	e.logger.Infof("run finished: %d records, %d tables, %d duplicates removed, %v elapsed",
		len(rs.Records), len(rs.Tables), removed, rs.Duration.Round(time.Millisecond))

	return rs, ctx.Err()
}

// scrapeSource handles one source end to end: reachability probe, fetch,
// extraction and provenance stamping.
func (e *Engine) scrapeSource(ctx context.Context, src catalog.Source, query string) sourceOutcome {
	start := time.Now()
	log := e.logger.WithField("source", src.Name)

	entry := types.LogEntry{Source: src.Name, URL: src.URL}
	finish := func(status types.SourceStatus, message string) sourceOutcome {
		entry.Status = status
		entry.Message = message
		if e.metrics != nil {
			e.metrics.ObserveSource(status, entry.Records, time.Since(start))
		}
		return sourceOutcome{entry: entry}
	}

	if e.cfg.Fetch.Prefilter {
		if ok, reason := e.prefilter.Check(ctx, src.URL); !ok {
			log.Warnf("skipping unreachable source: %s", reason)
			return finish(types.SourceSkipped, reason)
		}
	}

	res, err := e.fetchSource(ctx, src)
	if err != nil {
		log.Warnf("fetch failed: %v", err)
		return finish(types.SourceFailed, err.Error())
	}

	extracted, err := e.extractor.Extract(src.URL, res.ContentType, res.Body, query)
	if err != nil {
		log.Warnf("extraction failed: %v", err)
		return finish(types.SourceFailed, err.Error())
	}

	method := string(src.Method)
	if res.Rendered {
		method = "browser"
	}
	now := time.Now()
	for _, rec := range extracted.Records {
		rec.Stamp(src.Name, src.URL, method, now)
	}

	records := extracted.Records
	tables := extracted.Tables

	// follow a bounded number of PDF links discovered on the page; a zero
	// budget disables following entirely
	budget := e.cfg.Limits.PDFLinkBudget()
	for i, link := range extracted.PDFLinks {
		if i >= budget {
			break
		}
		pdfRecords, err := e.scrapeLinkedPDF(ctx, src, link, query)
		if err != nil {
			log.Debugf("linked PDF %s: %v", link, err)
			continue
		}
		records = append(records, pdfRecords...)
	}

	entry.Records = len(records)
	entry.Tables = len(tables)
	status := types.SourceOK
	if len(records) == 0 && len(tables) == 0 {
		status = types.SourceEmpty
	}
	log.Infof("scraped %d records, %d tables in %v", len(records), len(tables),
		time.Since(start).Round(time.Millisecond))

	out := finish(status, "")
	out.records = records
	out.tables = tables
	return out
}

// fetchSource retrieves the source body, rendering browser-method sources
// with the headless browser when one is attached. Render failures fall back
// to a plain HTTP fetch.
func (e *Engine) fetchSource(ctx context.Context, src catalog.Source) (*FetchResult, error) {
	if src.Method == catalog.MethodBrowser && e.renderer != nil {
		html, err := e.renderer.Render(ctx, src.URL)
		if err == nil {
			return &FetchResult{
				URL:         src.URL,
				Status:      FetchOK,
				ContentType: "text/html",
				Body:        []byte(html),
				Rendered:    true,
			}, nil
		}
		e.logger.WithField("source", src.Name).Warnf("browser render failed, falling back to HTTP: %v", err)
	}
	return e.client.Fetch(ctx, src.URL)
}

// scrapeLinkedPDF fetches a PDF document linked from an HTML page and
// extracts its statistics.
func (e *Engine) scrapeLinkedPDF(ctx context.Context, src catalog.Source, link, query string) ([]types.Record, error) {
	res, err := e.client.Fetch(ctx, link)
	if err != nil {
		return nil, err
	}

	extracted, err := e.extractor.Extract(link, "application/pdf", res.Body, query)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, rec := range extracted.Records {
		rec.Stamp(src.Name, link, string(src.Method), now)
	}
	return extracted.Records, nil
}
