// internal/catalog/catalog.go
package catalog

import (
	"fmt"
	"net/url"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Method describes how a source is fetched.
type Method string

const (
	MethodDirect  Method = "direct"  // plain HTTP GET
	MethodAPI     Method = "api"     // JSON/XML endpoint
	MethodBrowser Method = "browser" // requires JavaScript rendering
)

// ValidMethods returns all supported fetch methods.
func ValidMethods() []Method {
	return []Method{MethodDirect, MethodAPI, MethodBrowser}
}

// Source is one external website or endpoint configured for scraping.
// Sources are declarative data: loaded once, never mutated at runtime.
// Identity is the URL.
type Source struct {
	Name     string `yaml:"name" json:"name"`
	URL      string `yaml:"url" json:"url"`
	Category string `yaml:"category" json:"category"`
	Method   Method `yaml:"method" json:"method"`
	Priority int    `yaml:"priority" json:"priority"`
}

// Validate checks a single source entry.
func (s Source) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("source name cannot be empty")
	}
	if s.URL == "" {
		return fmt.Errorf("source %q: URL cannot be empty", s.Name)
	}
	parsed, err := url.Parse(s.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("source %q: invalid URL %q", s.Name, s.URL)
	}
	switch s.Method {
	case MethodDirect, MethodAPI, MethodBrowser:
	default:
		return fmt.Errorf("source %q: invalid method %q", s.Name, s.Method)
	}
	return nil
}

// Catalog is an ordered, immutable collection of sources.
type Catalog struct {
	sources []Source
}

// New builds a catalog from the given sources after validating them.
func New(sources []Source) (*Catalog, error) {
	seen := make(map[string]string, len(sources))
	for i, s := range sources {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if prev, dup := seen[s.URL]; dup {
			return nil, fmt.Errorf("entry %d: URL %s already used by %q", i, s.URL, prev)
		}
		seen[s.URL] = s.Name
	}

	out := make([]Source, len(sources))
	copy(out, sources)
	return &Catalog{sources: out}, nil
}

// catalogFile is the YAML shape of a catalog file.
type catalogFile struct {
	Sources []Source `yaml:"sources"`
}

// LoadFromFile loads a catalog from a YAML file.
func LoadFromFile(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes loads a catalog from YAML bytes.
func LoadFromBytes(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("catalog contains no sources")
	}
	return New(file.Sources)
}

// Len returns the number of sources in the catalog.
func (c *Catalog) Len() int {
	return len(c.sources)
}

// Sources returns a copy of all sources in catalog order.
func (c *Catalog) Sources() []Source {
	out := make([]Source, len(c.sources))
	copy(out, c.sources)
	return out
}

// Categories returns the distinct categories in the catalog, sorted.
func (c *Catalog) Categories() []string {
	set := make(map[string]struct{})
	for _, s := range c.sources {
		if s.Category != "" {
			set[s.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for cat := range set {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// Filter returns the sources whose category is in the given set. An empty or
// nil set passes everything through.
func (c *Catalog) Filter(categories []string) []Source {
	if len(categories) == 0 {
		return c.Sources()
	}

	wanted := make(map[string]struct{}, len(categories))
	for _, cat := range categories {
		wanted[cat] = struct{}{}
	}

	var out []Source
	for _, s := range c.sources {
		if _, ok := wanted[s.Category]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Select filters by category, orders by ascending priority (stable, so
// catalog order breaks ties) and truncates to maxSources. maxSources <= 0
// means no limit.
func (c *Catalog) Select(categories []string, maxSources int) []Source {
	candidates := c.Filter(categories)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority < candidates[j].Priority
	})
	if maxSources > 0 && len(candidates) > maxSources {
		candidates = candidates[:maxSources]
	}
	return candidates
}
