// internal/config/validation.go
package config

import (
	"fmt"
	"time"
)

var validFormats = map[string]bool{
	"csv":   true,
	"json":  true,
	"excel": true,
}

// Validate checks the configuration for errors. Defaults are expected to be
// applied already.
func (c *ScraperConfig) Validate() error {
	if c.Name == "" {
		return ValidationError{Path: "name", Message: "cannot be empty"}
	}
	if c.MaxSources <= 0 {
		return ValidationError{Path: "max_sources", Message: "must be positive"}
	}

	if err := c.Fetch.validate(); err != nil {
		return err
	}
	if err := c.Limits.validate(); err != nil {
		return err
	}
	if err := c.Output.validate(); err != nil {
		return err
	}
	if c.Browser != nil {
		if err := c.Browser.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (f FetchConfig) validate() error {
	if f.Workers <= 0 {
		return ValidationError{Path: "fetch.workers", Message: "must be positive"}
	}
	if f.Workers > 64 {
		return ValidationError{Path: "fetch.workers", Message: "must not exceed 64"}
	}
	if f.RetryAttempts != nil && *f.RetryAttempts < 0 {
		return ValidationError{Path: "fetch.retry_attempts", Message: "cannot be negative"}
	}
	if f.RateLimit <= 0 {
		return ValidationError{Path: "fetch.rate_limit", Message: "must be positive"}
	}

	for path, value := range map[string]string{
		"fetch.timeout":           f.Timeout,
		"fetch.retry_delay":       f.RetryDelay,
		"fetch.prefilter_timeout": f.PrefilterTimeout,
	} {
		if err := validateDuration(value); err != nil {
			return ValidationError{Path: path, Message: err.Error()}
		}
	}
	if f.GlobalTimeout != "" {
		if err := validateDuration(f.GlobalTimeout); err != nil {
			return ValidationError{Path: "fetch.global_timeout", Message: err.Error()}
		}
	}
	return nil
}

func (l LimitsConfig) validate() error {
	for path, value := range map[string]int{
		"limits.matches_per_pattern": l.MatchesPerPattern,
		"limits.max_tables":          l.MaxTables,
		"limits.table_preview_rows":  l.TablePreviewRows,
		"limits.max_json_items":      l.MaxJSONItems,
		"limits.max_list_elements":   l.MaxListElements,
		"limits.max_text_lines":      l.MaxTextLines,
		"limits.max_pdf_pages":       l.MaxPDFPages,
		"limits.max_excerpt_length":  l.MaxExcerptLength,
	} {
		if value <= 0 {
			return ValidationError{Path: path, Message: "must be positive"}
		}
	}
	if l.MaxPDFLinks != nil && *l.MaxPDFLinks < 0 {
		return ValidationError{Path: "limits.max_pdf_links", Message: "cannot be negative"}
	}
	return nil
}

func (o OutputConfig) validate() error {
	if !validFormats[o.Format] {
		return ValidationError{
			Path:    "output.format",
			Message: fmt.Sprintf("unsupported format %q (csv, json, excel)", o.Format),
		}
	}
	if o.File == "" {
		return ValidationError{Path: "output.file", Message: "cannot be empty"}
	}
	if err := o.Transforms.Validate(); err != nil {
		return ValidationError{Path: "output.transforms", Message: err.Error()}
	}
	return nil
}

func (b BrowserConfig) validate() error {
	if b.Timeout != "" {
		if err := validateDuration(b.Timeout); err != nil {
			return ValidationError{Path: "browser.timeout", Message: err.Error()}
		}
	}
	if b.WaitDelay != "" {
		if err := validateDuration(b.WaitDelay); err != nil {
			return ValidationError{Path: "browser.wait_delay", Message: err.Error()}
		}
	}
	return nil
}

func validateDuration(s string) error {
	if s == "" {
		return fmt.Errorf("duration cannot be empty")
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return fmt.Errorf("duration %q cannot be negative", s)
	}
	return nil
}
