// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/valpere/StatHarvester/internal/pipeline"
)

func TestLoadFromBytes(t *testing.T) {
	data := []byte(`
name: nigeria-stats
max_sources: 4
categories:
  - Economic Statistics
fetch:
  workers: 3
  timeout: 10s
  retry_attempts: 2
output:
  format: json
  file: out.json
`)

	cfg, err := LoadFromBytes(data)
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}

	if cfg.Name != "nigeria-stats" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.MaxSources != 4 {
		t.Errorf("MaxSources = %d, want 4", cfg.MaxSources)
	}
	if cfg.Fetch.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Fetch.Workers)
	}
	if got := cfg.Fetch.RequestTimeout(); got != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", got)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %q", cfg.Output.Format)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("name: minimal\n"))
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}

	if cfg.MaxSources != 8 {
		t.Errorf("default MaxSources = %d, want 8", cfg.MaxSources)
	}
	if cfg.Fetch.Workers != 5 {
		t.Errorf("default Workers = %d, want 5", cfg.Fetch.Workers)
	}
	if cfg.Fetch.Retries() != 2 {
		t.Errorf("default retries = %d, want 2", cfg.Fetch.Retries())
	}
	if cfg.Limits.PDFLinkBudget() != 1 {
		t.Errorf("default PDF link budget = %d, want 1", cfg.Limits.PDFLinkBudget())
	}
	if cfg.Limits.MatchesPerPattern != 3 {
		t.Errorf("default MatchesPerPattern = %d, want 3", cfg.Limits.MatchesPerPattern)
	}
	if cfg.Limits.MaxPDFPages != 3 {
		t.Errorf("default MaxPDFPages = %d, want 3", cfg.Limits.MaxPDFPages)
	}
	if cfg.Output.Format != "csv" || cfg.Output.File != "results.csv" {
		t.Errorf("default output = %q %q", cfg.Output.Format, cfg.Output.File)
	}
	if len(cfg.Fetch.AllowUnreliable) == 0 {
		t.Error("default AllowUnreliable list is empty")
	}
}

func TestZeroValuesDisableRetriesAndPDFLinks(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
name: no-retry
fetch:
  retry_attempts: 0
limits:
  max_pdf_links: 0
`))
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}

	if got := cfg.Fetch.Retries(); got != 0 {
		t.Errorf("explicit zero retries coerced to %d", got)
	}
	if got := cfg.Limits.PDFLinkBudget(); got != 0 {
		t.Errorf("explicit zero PDF link budget coerced to %d", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero values rejected: %v", err)
	}
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	os.Setenv("STATHARVESTER_TEST_OUT", "env-results.csv")
	defer os.Unsetenv("STATHARVESTER_TEST_OUT")

	cfg, err := LoadFromBytes([]byte(`
name: env-test
output:
  format: csv
  file: ${STATHARVESTER_TEST_OUT}
`))
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}
	if cfg.Output.File != "env-results.csv" {
		t.Errorf("Output.File = %q, want env-results.csv", cfg.Output.File)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ScraperConfig)
	}{
		{"empty name", func(c *ScraperConfig) { c.Name = "" }},
		{"bad format", func(c *ScraperConfig) { c.Output.Format = "parquet" }},
		{"too many workers", func(c *ScraperConfig) { c.Fetch.Workers = 100 }},
		{"bad timeout", func(c *ScraperConfig) { c.Fetch.Timeout = "not-a-duration" }},
		{"negative retries", func(c *ScraperConfig) { c.Fetch.RetryAttempts = intPtr(-1) }},
		{"negative pdf links", func(c *ScraperConfig) { c.Limits.MaxPDFLinks = intPtr(-1) }},
		{"zero max sources", func(c *ScraperConfig) { c.MaxSources = 0 }},
		{"bad transform rule", func(c *ScraperConfig) {
			c.Output.Transforms = pipeline.TransformList{{Type: "reverse"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Default()
	cfg.Name = "round-trip"
	cfg.Categories = []string{"Health Statistics"}

	if err := SaveToFile(cfg, path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.Name != "round-trip" {
		t.Errorf("Name = %q", loaded.Name)
	}
	if len(loaded.Categories) != 1 || loaded.Categories[0] != "Health Statistics" {
		t.Errorf("Categories = %v", loaded.Categories)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDurationAccessorFallbacks(t *testing.T) {
	f := FetchConfig{}
	if got := f.RequestTimeout(); got != 30*time.Second {
		t.Errorf("empty timeout fallback = %v, want 30s", got)
	}
	if got := f.GlobalDeadline(); got != 0 {
		t.Errorf("empty global deadline = %v, want 0", got)
	}
	f.Timeout = "garbage"
	if got := f.RequestTimeout(); got != 30*time.Second {
		t.Errorf("unparseable timeout fallback = %v, want 30s", got)
	}
}
