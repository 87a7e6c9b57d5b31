// internal/extract/extract.go

// Package extract turns fetched documents into flat records and tables. One
// handler exists per content kind; unknown kinds extract nothing. Extraction
// degrades gracefully: a single bad pattern or malformed table never aborts
// the rest of the page.
package extract

import (
	"fmt"
	"strings"

	"github.com/valpere/StatHarvester/pkg/types"
)

// ContentKind classifies a document for extraction dispatch.
type ContentKind int

const (
	KindUnknown ContentKind = iota
	KindHTML
	KindJSON
	KindXML
	KindText
	KindPDF
)

// String returns the kind's name.
func (k ContentKind) String() string {
	switch k {
	case KindHTML:
		return "html"
	case KindJSON:
		return "json"
	case KindXML:
		return "xml"
	case KindText:
		return "text"
	case KindPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// KindOf resolves a Content-Type header value to a ContentKind.
func KindOf(contentType string) ContentKind {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "text/html"), strings.Contains(ct, "application/xhtml"):
		return KindHTML
	case strings.Contains(ct, "application/json"):
		return KindJSON
	case strings.Contains(ct, "application/xml"), strings.Contains(ct, "text/xml"):
		return KindXML
	case strings.Contains(ct, "application/pdf"):
		return KindPDF
	case strings.Contains(ct, "text/plain"):
		return KindText
	default:
		return KindUnknown
	}
}

// Limits bounds per-document extraction work.
type Limits struct {
	MatchesPerPattern int
	MaxTables         int
	TablePreviewRows  int
	MaxParagraphs     int
	MaxJSONItems      int
	MaxListElements   int
	MaxTextLines      int
	MaxPDFPages       int
	MaxPDFStats       int
	MaxExcerptLength  int
	MaxPDFLinks       int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MatchesPerPattern: 3,
		MaxTables:         3,
		TablePreviewRows:  5,
		MaxParagraphs:     10,
		MaxJSONItems:      5,
		MaxListElements:   2,
		MaxTextLines:      30,
		MaxPDFPages:       3,
		MaxPDFStats:       20,
		MaxExcerptLength:  500,
		MaxPDFLinks:       1,
	}
}

// Result holds everything pulled from one document.
type Result struct {
	Records []types.Record
	Tables  []types.ExtractedTable

	// PDFLinks are absolute URLs of PDF documents linked from an HTML page,
	// surfaced so the caller can follow them with its own fetch budget.
	PDFLinks []string
}

// Extractor dispatches documents to per-kind handlers.
type Extractor struct {
	limits   Limits
	backends []PDFBackend
	handlers map[ContentKind]handlerFunc
}

type handlerFunc func(pageURL string, body []byte, out *Result) error

// New creates an extractor with the given limits and the default PDF backend
// chain.
func New(limits Limits) *Extractor {
	return NewWithBackends(limits, DefaultPDFBackends())
}

// NewWithBackends creates an extractor with an explicit PDF backend chain,
// tried in order.
func NewWithBackends(limits Limits, backends []PDFBackend) *Extractor {
	e := &Extractor{limits: limits, backends: backends}
	e.handlers = map[ContentKind]handlerFunc{
		KindHTML: e.extractHTML,
		KindJSON: e.extractJSON,
		KindXML:  e.extractXML,
		KindText: e.extractText,
		KindPDF:  e.extractPDF,
	}
	return e
}

// Extract parses the document and returns its records and tables, filtered by
// the query. An unknown content kind yields an empty result, not an error.
func (e *Extractor) Extract(pageURL, contentType string, body []byte, query string) (*Result, error) {
	out := &Result{}
	kind := KindOf(contentType)

	handler, ok := e.handlers[kind]
	if !ok {
		return out, nil
	}

	if err := handler(pageURL, body, out); err != nil {
		return out, fmt.Errorf("%s extraction failed: %w", kind, err)
	}

	if query != "" {
		out.Records = FilterRecords(out.Records, query)
		out.Tables = FilterTables(out.Tables, query, e.limits.TablePreviewRows)
	}
	return out, nil
}

// FilterRecords keeps the records whose string form contains at least one
// lowercased query token. It is a pure filter: the output is always a subset
// of the input, and an empty query passes everything through.
func FilterRecords(records []types.Record, query string) []types.Record {
	tokens := queryTokens(query)
	if len(tokens) == 0 {
		return records
	}

	var out []types.Record
	for _, rec := range records {
		haystack := strings.ToLower(rec.String())
		if containsAny(haystack, tokens) {
			out = append(out, rec)
		}
	}
	return out
}

// FilterTables keeps the tables whose column names, metadata or first
// previewRows rows contain at least one query token.
func FilterTables(tables []types.ExtractedTable, query string, previewRows int) []types.ExtractedTable {
	tokens := queryTokens(query)
	if len(tokens) == 0 {
		return tables
	}

	var out []types.ExtractedTable
	for _, tbl := range tables {
		var b strings.Builder
		b.WriteString(strings.Join(tbl.Metadata.ColumnNames, " "))
		b.WriteString(" ")
		b.WriteString(tbl.Metadata.TableName)
		b.WriteString(" ")
		b.WriteString(tbl.Metadata.SourceURL)
		for i, row := range tbl.Rows {
			if previewRows > 0 && i >= previewRows {
				break
			}
			for k, v := range row {
				b.WriteString(" ")
				b.WriteString(k)
				b.WriteString(" ")
				b.WriteString(v)
			}
		}
		if containsAny(strings.ToLower(b.String()), tokens) {
			out = append(out, tbl)
		}
	}
	return out
}

func queryTokens(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

func containsAny(haystack string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(haystack, tok) {
			return true
		}
	}
	return false
}
