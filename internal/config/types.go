// internal/config/types.go

// Package config provides configuration types for StatHarvester. It defines
// the settings for a scraping run: source selection, fetch behaviour,
// extraction limits, browser rendering, output and monitoring.
package config

import (
	"time"

	"github.com/valpere/StatHarvester/internal/pipeline"
)

// ScraperConfig is the top-level configuration for a scraping run.
type ScraperConfig struct {
	// Name identifies this configuration
	Name string `yaml:"name" json:"name"`

	// Description provides human-readable information about this config
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// CatalogFile points at a YAML source catalog; empty means the built-in
	// catalog
	CatalogFile string `yaml:"catalog_file,omitempty" json:"catalog_file,omitempty"`

	// Categories restricts the run to sources in these categories; empty
	// means all
	Categories []string `yaml:"categories,omitempty" json:"categories,omitempty"`

	// MaxSources caps how many sources one run scrapes
	MaxSources int `yaml:"max_sources" json:"max_sources"`

	// Fetch configures the HTTP client and worker pool
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Limits bounds per-source extraction work
	Limits LimitsConfig `yaml:"limits" json:"limits"`

	// Browser configures JavaScript rendering for browser-method sources
	Browser *BrowserConfig `yaml:"browser,omitempty" json:"browser,omitempty"`

	// Output configures export format and destinations
	Output OutputConfig `yaml:"output" json:"output"`

	// Metrics configures the Prometheus endpoint
	Metrics MetricsConfig `yaml:"metrics,omitempty" json:"metrics,omitempty"`
}

// FetchConfig defines HTTP client and concurrency settings. Durations are
// strings in Go duration syntax ("10s", "1m"). RetryAttempts is a pointer so
// an explicit 0 disables retries instead of falling back to the default.
type FetchConfig struct {
	Workers          int               `yaml:"workers" json:"workers"`
	Timeout          string            `yaml:"timeout" json:"timeout"`
	GlobalTimeout    string            `yaml:"global_timeout,omitempty" json:"global_timeout,omitempty"`
	RetryAttempts    *int              `yaml:"retry_attempts,omitempty" json:"retry_attempts,omitempty"`
	RetryDelay       string            `yaml:"retry_delay" json:"retry_delay"`
	RateLimit        float64           `yaml:"rate_limit" json:"rate_limit"` // requests per second
	RateBurst        int               `yaml:"rate_burst" json:"rate_burst"`
	Prefilter        bool              `yaml:"prefilter" json:"prefilter"`
	PrefilterTimeout string            `yaml:"prefilter_timeout,omitempty" json:"prefilter_timeout,omitempty"`
	AllowUnreliable  []string          `yaml:"allow_unreliable,omitempty" json:"allow_unreliable,omitempty"`
	UserAgents       []string          `yaml:"user_agents,omitempty" json:"user_agents,omitempty"`
	Headers          map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
}

// LimitsConfig bounds how much each extractor pulls from a single document.
// The original scraper variants hardcoded divergent truncation constants;
// here they are tunables. MaxPDFLinks is a pointer so an explicit 0 turns
// linked-PDF following off.
type LimitsConfig struct {
	MatchesPerPattern int `yaml:"matches_per_pattern" json:"matches_per_pattern"`
	MaxTables         int `yaml:"max_tables" json:"max_tables"`
	TablePreviewRows  int `yaml:"table_preview_rows" json:"table_preview_rows"`
	MaxParagraphs     int `yaml:"max_paragraphs" json:"max_paragraphs"`
	MaxJSONItems      int `yaml:"max_json_items" json:"max_json_items"`
	MaxListElements   int `yaml:"max_list_elements" json:"max_list_elements"`
	MaxTextLines      int `yaml:"max_text_lines" json:"max_text_lines"`
	MaxPDFPages       int `yaml:"max_pdf_pages" json:"max_pdf_pages"`
	MaxPDFStats       int `yaml:"max_pdf_stats" json:"max_pdf_stats"`
	MaxExcerptLength  int `yaml:"max_excerpt_length" json:"max_excerpt_length"`
	MaxPDFLinks       *int `yaml:"max_pdf_links,omitempty" json:"max_pdf_links,omitempty"`
}

// BrowserConfig configures headless Chrome rendering.
type BrowserConfig struct {
	Enabled       bool   `yaml:"enabled" json:"enabled"`
	Headless      bool   `yaml:"headless" json:"headless"`
	Timeout       string `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	WaitDelay     string `yaml:"wait_delay,omitempty" json:"wait_delay,omitempty"`
	UserAgent     string `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
	DisableImages bool   `yaml:"disable_images" json:"disable_images"`
}

// OutputConfig configures where and how results are written. Transforms are
// applied to every non-provenance record value before encoding.
type OutputConfig struct {
	Format     string                 `yaml:"format" json:"format"` // csv, json, excel
	File       string                 `yaml:"file" json:"file"`
	SheetName  string                 `yaml:"sheet_name,omitempty" json:"sheet_name,omitempty"`
	SQLiteFile string                 `yaml:"sqlite_file,omitempty" json:"sqlite_file,omitempty"`
	Transforms pipeline.TransformList `yaml:"transforms,omitempty" json:"transforms,omitempty"`
	Upload     *UploadConfig          `yaml:"upload,omitempty" json:"upload,omitempty"`
}

// UploadConfig configures the best-effort cloud upload side call.
type UploadConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Folder  string `yaml:"folder,omitempty" json:"folder,omitempty"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled" json:"enabled"`
	ListenAddress string `yaml:"listen_address,omitempty" json:"listen_address,omitempty"`
	MetricsPath   string `yaml:"metrics_path,omitempty" json:"metrics_path,omitempty"`
}

// ValidationError describes a single configuration problem.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Path + ": " + e.Message
}

// Duration accessors. Defaults are applied at load time, so parse failures
// here fall back to the documented default rather than erroring twice.

// RequestTimeout returns the per-attempt fetch timeout.
func (f FetchConfig) RequestTimeout() time.Duration {
	return parseDuration(f.Timeout, 30*time.Second)
}

// GlobalDeadline returns the whole-run deadline, or zero if unset.
func (f FetchConfig) GlobalDeadline() time.Duration {
	return parseDuration(f.GlobalTimeout, 0)
}

// RetryBackoff returns the base delay between retry attempts.
func (f FetchConfig) RetryBackoff() time.Duration {
	return parseDuration(f.RetryDelay, time.Second)
}

// Retries returns the retry attempt count, defaulting to 2 when unset. An
// explicit 0 means a single attempt with no retries.
func (f FetchConfig) Retries() int {
	if f.RetryAttempts == nil {
		return 2
	}
	return *f.RetryAttempts
}

// PDFLinkBudget returns how many linked PDFs one source may follow,
// defaulting to 1 when unset. An explicit 0 disables PDF link following.
func (l LimitsConfig) PDFLinkBudget() int {
	if l.MaxPDFLinks == nil {
		return 1
	}
	return *l.MaxPDFLinks
}

// CheckTimeout returns the reachability probe timeout.
func (f FetchConfig) CheckTimeout() time.Duration {
	return parseDuration(f.PrefilterTimeout, 5*time.Second)
}

// RenderTimeout returns the browser navigation timeout.
func (b BrowserConfig) RenderTimeout() time.Duration {
	return parseDuration(b.Timeout, 45*time.Second)
}

// RenderWaitDelay returns the post-navigation settle delay.
func (b BrowserConfig) RenderWaitDelay() time.Duration {
	return parseDuration(b.WaitDelay, 2*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
