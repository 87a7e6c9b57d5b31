// internal/extract/pdf.go
package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/valpere/StatHarvester/internal/pipeline"
	"github.com/valpere/StatHarvester/pkg/types"
)

// PDFBackend extracts plain text from a PDF document, one string per page,
// bounded to the first maxPages pages. Backends are tried in order until one
// yields records; each must be independently testable and swappable.
type PDFBackend interface {
	Name() string
	ExtractText(data []byte, maxPages int) ([]string, error)
}

// DefaultPDFBackends returns the production backend chain: the plain-text
// reader first, then the row-based reader for documents whose content streams
// defeat the plain-text column detection.
func DefaultPDFBackends() []PDFBackend {
	return []PDFBackend{plainTextBackend{}, rowTextBackend{}}
}

func (e *Extractor) extractPDF(pageURL string, body []byte, out *Result) error {
	for _, backend := range e.backends {
		pages, err := backend.ExtractText(body, e.limits.MaxPDFPages)
		if err != nil {
			continue
		}

		var records []types.Record
		for pageIdx, text := range pages {
			if strings.TrimSpace(text) == "" {
				continue
			}
			for _, stat := range ScanStatistics(text, e.limits.MaxPDFStats) {
				rec := e.newRecord(pageURL)
				rec["page"] = strconv.Itoa(pageIdx + 1)
				rec["content_type"] = "pdf_statistic"
				rec["extracted_data"] = pipeline.Truncate(pipeline.CleanText(stat), 200)
				rec["parser"] = backend.Name()
				records = append(records, rec)
			}
		}
		if len(records) > 0 {
			out.Records = append(out.Records, records...)
			return nil
		}
	}

	// every backend failed or produced nothing: crude scan of the raw byte
	// stream for uncompressed text objects
	if excerpt := rawParenthesisText(body, e.limits.MaxExcerptLength); excerpt != "" {
		rec := e.newRecord(pageURL)
		rec["content_type"] = "pdf"
		rec["extracted_text"] = excerpt
		rec["parser"] = "rawscan"
		rec["note"] = "basic text extraction"
		out.Records = append(out.Records, rec)
	}
	return nil
}

// plainTextBackend extracts text with the ledongthuc/pdf reader.
type plainTextBackend struct{}

func (plainTextBackend) Name() string { return "pdftext" }

func (plainTextBackend) ExtractText(data []byte, maxPages int) (pages []string, err error) {
	// the reader panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf reader panicked: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	n := reader.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}

	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// rowTextBackend reads text row by row with the same reader, joining the
// words of each row with spaces.
type rowTextBackend struct{}

func (rowTextBackend) Name() string { return "pdfrows" }

func (rowTextBackend) ExtractText(data []byte, maxPages int) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf reader panicked: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	n := reader.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}

	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			pages = append(pages, "")
			continue
		}

		var b strings.Builder
		for _, row := range rows {
			for _, word := range row.Content {
				b.WriteString(word.S)
				b.WriteByte(' ')
			}
			b.WriteByte('\n')
		}
		pages = append(pages, b.String())
	}
	return pages, nil
}

var parenTextRe = regexp.MustCompile(`\(([^()]{2,})\)`)

// rawParenthesisText pulls the strings found between literal parenthesis
// pairs in the raw byte stream, a heuristic for uncompressed PDF text
// objects. The stream is decoded as Latin-1 so every byte maps to a rune.
func rawParenthesisText(data []byte, maxLen int) string {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		decoded = data
	}

	matches := parenTextRe.FindAllStringSubmatch(string(decoded), 30)
	if len(matches) == 0 {
		return ""
	}

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		if s := pipeline.CleanText(m[1]); s != "" && isMostlyPrintable(s) {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return pipeline.Truncate(strings.Join(parts, " "), maxLen)
}

// isMostlyPrintable filters out binary garbage captured by the parenthesis
// heuristic.
func isMostlyPrintable(s string) bool {
	printable := 0
	for _, r := range s {
		if r >= 0x20 && r < 0x7f {
			printable++
		}
	}
	return printable*10 >= len(s)*8
}
