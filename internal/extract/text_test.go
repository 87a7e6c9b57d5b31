// internal/extract/text_test.go
package extract

import (
	"strings"
	"testing"
)

func TestExtractTextStatisticLines(t *testing.T) {
	body := []byte(`Nigeria statistical bulletin
Inflation rate: 28.9%
No numbers on this line
Population: 223 million
Plain prose without statistics
GDP growth was flat
`)

	e := New(DefaultLimits())
	res, err := e.Extract("https://example.com/bulletin.txt", "text/plain", body, "")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 statistic lines, got %d: %v", len(res.Records), res.Records)
	}

	// within a source, records preserve input order
	if !strings.Contains(res.Records[0]["text_line"], "28.9%") {
		t.Errorf("first record should be the inflation line: %v", res.Records[0])
	}
	if !strings.Contains(res.Records[1]["text_line"], "223 million") {
		t.Errorf("second record should be the population line: %v", res.Records[1])
	}
}

func TestExtractTextLineCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("rate is 10%\n")
	}

	limits := DefaultLimits()
	limits.MaxTextLines = 5
	e := New(limits)

	res, err := e.Extract("https://example.com/t.txt", "text/plain", []byte(b.String()), "")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(res.Records) != 5 {
		t.Errorf("line cap of 5 produced %d records", len(res.Records))
	}
}

func TestExtractTextTruncatesLongLines(t *testing.T) {
	long := "28.9% " + strings.Repeat("x", 400)
	e := New(DefaultLimits())
	res, err := e.Extract("https://example.com/t.txt", "text/plain", []byte(long), "")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
	if len(res.Records[0]["text_line"]) > 200 {
		t.Errorf("line not truncated: %d bytes", len(res.Records[0]["text_line"]))
	}
}

func TestScanStatistics(t *testing.T) {
	text := "GDP was $477,000 million while inflation hit 28.9% and unemployment 33.3%"
	stats := ScanStatistics(text, 20)
	if len(stats) == 0 {
		t.Fatal("no statistics found")
	}

	// unique matches only
	seen := map[string]bool{}
	for _, s := range stats {
		if seen[s] {
			t.Errorf("duplicate match %q", s)
		}
		seen[s] = true
	}

	// cap honored
	if got := ScanStatistics(text, 2); len(got) != 2 {
		t.Errorf("cap of 2 returned %d matches", len(got))
	}
}
