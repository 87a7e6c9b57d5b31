// internal/extract/html.go
package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/StatHarvester/internal/pipeline"
	"github.com/valpere/StatHarvester/pkg/types"
)

const (
	minParagraphLength = 20
	maxParagraphLength = 500
	minTableRows       = 2
)

func (e *Extractor) extractHTML(pageURL string, body []byte, out *Result) error {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to parse HTML: %w", err)
	}

	e.extractPatternRecords(doc, pageURL, out)
	e.extractTables(doc, pageURL, out)
	e.extractParagraphs(doc, pageURL, out)
	e.collectPDFLinks(doc, pageURL, out)
	return nil
}

// extractPatternRecords scans the page's visible text with the statistic
// patterns; every match becomes one record.
func (e *Extractor) extractPatternRecords(doc *goquery.Document, pageURL string, out *Result) {
	text := doc.Text()

	for _, p := range statPatterns {
		matches := p.re.FindAllString(text, e.limits.MatchesPerPattern)
		for _, m := range matches {
			rec := e.newRecord(pageURL)
			rec["statistical_match"] = pipeline.CleanText(m)
			rec["category"] = p.category
			rec["content_type"] = "html_statistic"
			out.Records = append(out.Records, rec)
		}
	}
}

// extractTables walks the page's tables. A structured header/row parse is
// tried first; when it yields nothing the raw row walk takes over. Tables
// below the row floor or with only empty cells are dropped.
func (e *Extractor) extractTables(doc *goquery.Document, pageURL string, out *Result) {
	doc.Find("table").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= e.limits.MaxTables {
			return false
		}
		tbl := e.parseTable(sel, pageURL, i)
		if tbl != nil {
			out.Tables = append(out.Tables, *tbl)
		}
		return true
	})
}

// parseTable converts one <table> element. A malformed table is skipped, it
// never aborts the page.
func (e *Extractor) parseTable(sel *goquery.Selection, pageURL string, index int) (tbl *types.ExtractedTable) {
	defer func() {
		if r := recover(); r != nil {
			tbl = nil
		}
	}()

	var rows [][]string
	sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, pipeline.CleanText(cell.Text()))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})

	if len(rows) < minTableRows {
		return nil
	}

	name := pipeline.CleanText(sel.Find("caption").First().Text())
	if name == "" {
		name = fmt.Sprintf("table_%d", index+1)
	}

	if t := e.buildStructuredTable(sel, rows, pageURL, name); t != nil {
		return t
	}
	return e.buildRowWalkTable(rows, pageURL, name)
}

// buildStructuredTable uses the header row (all <th> cells) as column names.
// It returns nil when the table has no header row, leaving the row walk to
// handle it.
func (e *Extractor) buildStructuredTable(sel *goquery.Selection, rows [][]string, pageURL, name string) *types.ExtractedTable {
	headerCells := sel.Find("tr").First().Find("th")
	if headerCells.Length() == 0 || headerCells.Length() != len(rows[0]) {
		return nil
	}

	columns := rows[0]
	for _, c := range columns {
		if c == "" {
			return nil
		}
	}

	var outRows []map[string]string
	nonEmpty := false
	for _, cells := range rows[1:] {
		row := make(map[string]string, len(columns))
		for j, col := range columns {
			v := ""
			if j < len(cells) {
				v = cells[j]
			}
			if v != "" {
				nonEmpty = true
			}
			row[col] = v
		}
		outRows = append(outRows, row)
	}
	if !nonEmpty {
		return nil
	}

	return &types.ExtractedTable{
		Metadata: types.TableMetadata{
			SourceURL:        pageURL,
			TableName:        name,
			ExtractionMethod: "structured",
			RowCount:         len(outRows),
			ColumnCount:      len(columns),
			ColumnNames:      columns,
			ScrapeDate:       time.Now().Format(types.ScrapeDateFormat),
		},
		Rows: outRows,
	}
}

// buildRowWalkTable maps cells to positional col_N columns when no usable
// header exists.
func (e *Extractor) buildRowWalkTable(rows [][]string, pageURL, name string) *types.ExtractedTable {
	width := 0
	for _, cells := range rows {
		if len(cells) > width {
			width = len(cells)
		}
	}
	if width == 0 {
		return nil
	}

	columns := make([]string, width)
	for j := range columns {
		columns[j] = "col_" + strconv.Itoa(j+1)
	}

	var outRows []map[string]string
	nonEmpty := false
	for _, cells := range rows {
		row := make(map[string]string, width)
		for j, col := range columns {
			v := ""
			if j < len(cells) {
				v = cells[j]
			}
			if v != "" {
				nonEmpty = true
			}
			row[col] = v
		}
		outRows = append(outRows, row)
	}
	if !nonEmpty {
		return nil
	}

	return &types.ExtractedTable{
		Metadata: types.TableMetadata{
			SourceURL:        pageURL,
			TableName:        name,
			ExtractionMethod: "row_walk",
			RowCount:         len(outRows),
			ColumnCount:      width,
			ColumnNames:      columns,
			ScrapeDate:       time.Now().Format(types.ScrapeDateFormat),
		},
		Rows: outRows,
	}
}

// extractParagraphs keeps short number-bearing prose fragments as records.
func (e *Extractor) extractParagraphs(doc *goquery.Document, pageURL string, out *Result) {
	count := 0
	doc.Find("p, div, span").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if count >= e.limits.MaxParagraphs {
			return false
		}
		text := pipeline.CleanText(sel.Text())
		if len(text) < minParagraphLength || len(text) > maxParagraphLength {
			return true
		}
		if !digitRe.MatchString(text) {
			return true
		}

		rec := e.newRecord(pageURL)
		rec["text_content"] = pipeline.Truncate(text, 300)
		rec["content_type"] = "html_text"
		rec["word_count"] = strconv.Itoa(len(strings.Fields(text)))
		out.Records = append(out.Records, rec)
		count++
		return true
	})
}

// collectPDFLinks resolves linked .pdf documents against the page URL.
func (e *Extractor) collectPDFLinks(doc *goquery.Document, pageURL string, out *Result) {
	if e.limits.MaxPDFLinks <= 0 {
		return
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return
	}

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(out.PDFLinks) >= e.limits.MaxPDFLinks {
			return false
		}
		href, _ := sel.Attr("href")
		if !strings.HasSuffix(strings.ToLower(href), ".pdf") {
			return true
		}
		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		out.PDFLinks = append(out.PDFLinks, base.ResolveReference(ref).String())
		return true
	})
}

// newRecord starts a record carrying the per-page provenance the extractor
// knows about. The orchestrator stamps the remaining source fields.
func (e *Extractor) newRecord(pageURL string) types.Record {
	return types.Record{
		types.FieldSourceURL:  pageURL,
		types.FieldScrapeDate: time.Now().Format(types.ScrapeDateFormat),
	}
}
