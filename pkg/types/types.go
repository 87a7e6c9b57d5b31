// pkg/types/types.go
package types

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Standard provenance fields carried by every Record. A record can always be
// traced back to the source it came from.
const (
	FieldSourceURL    = "source_url"
	FieldSourceName   = "source_name"
	FieldScrapeMethod = "scrape_method"
	FieldScrapeDate   = "scrape_date"
)

// ScrapeDateFormat is the layout used for the scrape_date field.
const ScrapeDateFormat = "2006-01-02"

// Record is a single flat key/value result unit extracted from a source.
// Values are stored as strings; numeric content keeps its textual form.
type Record map[string]string

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Stamp sets the provenance fields on the record.
func (r Record) Stamp(sourceName, sourceURL, method string, at time.Time) {
	r[FieldSourceName] = sourceName
	r[FieldSourceURL] = sourceURL
	r[FieldScrapeMethod] = method
	r[FieldScrapeDate] = at.Format(ScrapeDateFormat)
}

// Key returns a canonical representation of the record used for exact-match
// deduplication. Two records produce the same key iff all their fields are
// equal.
func (r Record) Key() string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('\x1f')
		b.WriteString(r[k])
		b.WriteByte('\x1e')
	}
	return b.String()
}

// String renders the record as a stable "k=v" listing, used for query
// matching and logging.
func (r Record) String() string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, r[k]))
	}
	return strings.Join(parts, " ")
}

// TableMetadata describes a single extracted table.
type TableMetadata struct {
	SourceURL        string   `json:"source_url"`
	TableName        string   `json:"table_name"`
	ExtractionMethod string   `json:"extraction_method"`
	RowCount         int      `json:"row_count"`
	ColumnCount      int      `json:"column_count"`
	ColumnNames      []string `json:"column_names"`
	ScrapeDate       string   `json:"scrape_date"`
}

// ExtractedTable is one structured tabular result detected on a page. Tables
// have an independent lifecycle from Records and can coexist in one run.
type ExtractedTable struct {
	Metadata TableMetadata       `json:"metadata"`
	Rows     []map[string]string `json:"rows"`
}

// SourceStatus classifies the per-source outcome recorded in the scrape log.
type SourceStatus string

const (
	SourceOK      SourceStatus = "ok"
	SourceSkipped SourceStatus = "skipped"
	SourceFailed  SourceStatus = "failed"
	SourceEmpty   SourceStatus = "empty"
)

// LogEntry is one progress entry emitted while scraping a source.
type LogEntry struct {
	Source  string       `json:"source"`
	URL     string       `json:"url"`
	Status  SourceStatus `json:"status"`
	Records int          `json:"records"`
	Tables  int          `json:"tables"`
	Message string       `json:"message,omitempty"`
}

// ResultSet is the merged outcome of one scraping run. Record order is
// completion order across sources, which is not deterministic between runs;
// consumers treat the collection as unordered.
type ResultSet struct {
	Query     string           `json:"query"`
	StartedAt time.Time        `json:"started_at"`
	Duration  time.Duration    `json:"duration"`
	Records   []Record         `json:"records"`
	Tables    []ExtractedTable `json:"tables,omitempty"`
	Log       []LogEntry       `json:"log,omitempty"`
}

// Empty reports whether the run produced no records and no tables.
func (rs *ResultSet) Empty() bool {
	return len(rs.Records) == 0 && len(rs.Tables) == 0
}

// Deduplicate removes exact-duplicate records in place, keeping the first
// occurrence, and returns the number of records removed. Applying it twice is
// a no-op. Near-duplicates differing only by scrape_date are kept: distinct
// scrape events stay distinct.
func (rs *ResultSet) Deduplicate() int {
	seen := make(map[string]struct{}, len(rs.Records))
	kept := rs.Records[:0]
	for _, rec := range rs.Records {
		key := rec.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, rec)
	}
	removed := len(rs.Records) - len(kept)
	rs.Records = kept
	return removed
}

// CountByStatus tallies log entries with the given status.
func (rs *ResultSet) CountByStatus(status SourceStatus) int {
	n := 0
	for _, e := range rs.Log {
		if e.Status == status {
			n++
		}
	}
	return n
}
