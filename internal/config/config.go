// internal/config/config.go
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(filename string) (*ScraperConfig, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes. Environment variables in
// ${VAR} form are expanded before parsing.
func LoadFromBytes(data []byte) (*ScraperConfig, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	expanded := os.ExpandEnv(string(data))

	var cfg ScraperConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from an io.Reader.
func LoadFromReader(reader io.Reader) (*ScraperConfig, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %w", err)
	}

	return LoadFromBytes(data)
}

// Default returns a ready-to-use configuration with all defaults applied.
func Default() *ScraperConfig {
	cfg := &ScraperConfig{Name: "statharvester"}
	applyDefaults(cfg)
	return cfg
}

// SaveToFile writes the configuration to a YAML file.
func SaveToFile(cfg *ScraperConfig, filename string) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %w", err)
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	return nil
}

// applyDefaults fills zero-valued fields with sensible defaults.
func applyDefaults(cfg *ScraperConfig) {
	if cfg.MaxSources <= 0 {
		cfg.MaxSources = 8
	}

	f := &cfg.Fetch
	if f.Workers <= 0 {
		f.Workers = 5
	}
	if f.Timeout == "" {
		f.Timeout = "30s"
	}
	if f.RetryAttempts == nil {
		f.RetryAttempts = intPtr(2)
	}
	if f.RetryDelay == "" {
		f.RetryDelay = "1s"
	}
	if f.RateLimit <= 0 {
		f.RateLimit = 2.0
	}
	if f.RateBurst <= 0 {
		f.RateBurst = 5
	}
	if f.PrefilterTimeout == "" {
		f.PrefilterTimeout = "5s"
	}
	if f.AllowUnreliable == nil {
		// government endpoints that fail HEAD probes but still serve content
		f.AllowUnreliable = []string{
			"covid19.ncdc.gov.ng",
			"npf.gov.ng",
			"health.gov.ng",
		}
	}

	l := &cfg.Limits
	if l.MatchesPerPattern <= 0 {
		l.MatchesPerPattern = 3
	}
	if l.MaxTables <= 0 {
		l.MaxTables = 3
	}
	if l.TablePreviewRows <= 0 {
		l.TablePreviewRows = 5
	}
	if l.MaxParagraphs <= 0 {
		l.MaxParagraphs = 10
	}
	if l.MaxJSONItems <= 0 {
		l.MaxJSONItems = 5
	}
	if l.MaxListElements <= 0 {
		l.MaxListElements = 2
	}
	if l.MaxTextLines <= 0 {
		l.MaxTextLines = 30
	}
	if l.MaxPDFPages <= 0 {
		l.MaxPDFPages = 3
	}
	if l.MaxPDFStats <= 0 {
		l.MaxPDFStats = 20
	}
	if l.MaxExcerptLength <= 0 {
		l.MaxExcerptLength = 500
	}
	if l.MaxPDFLinks == nil {
		l.MaxPDFLinks = intPtr(1)
	}

	o := &cfg.Output
	if o.Format == "" {
		o.Format = "csv"
	}
	if o.File == "" {
		o.File = "results." + extensionFor(o.Format)
	}
	if o.SheetName == "" {
		o.SheetName = "Results"
	}

	m := &cfg.Metrics
	if m.ListenAddress == "" {
		m.ListenAddress = ":9090"
	}
	if m.MetricsPath == "" {
		m.MetricsPath = "/metrics"
	}
}

func intPtr(v int) *int {
	return &v
}

func extensionFor(format string) string {
	switch format {
	case "excel":
		return "xlsx"
	default:
		return format
	}
}
