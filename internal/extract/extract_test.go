// internal/extract/extract_test.go
package extract

import (
	"testing"

	"github.com/valpere/StatHarvester/pkg/types"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		contentType string
		want        ContentKind
	}{
		{"text/html; charset=utf-8", KindHTML},
		{"application/xhtml+xml", KindHTML},
		{"application/json", KindJSON},
		{"application/xml", KindXML},
		{"text/xml; charset=iso-8859-1", KindXML},
		{"application/pdf", KindPDF},
		{"text/plain", KindText},
		{"image/png", KindUnknown},
		{"", KindUnknown},
	}

	for _, tt := range tests {
		if got := KindOf(tt.contentType); got != tt.want {
			t.Errorf("KindOf(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}

func TestExtractUnknownKindYieldsNothing(t *testing.T) {
	e := New(DefaultLimits())
	res, err := e.Extract("https://example.com/x.png", "image/png", []byte{0x89, 0x50}, "")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(res.Records) != 0 || len(res.Tables) != 0 {
		t.Errorf("unknown kind produced %d records, %d tables", len(res.Records), len(res.Tables))
	}
}

func TestFilterRecordsIsPureSubset(t *testing.T) {
	records := []types.Record{
		{"statistical_match": "GDP growth rate 2.5"},
		{"statistical_match": "inflation rate 28.9%"},
		{"text_line": "population 223 million"},
	}

	filtered := FilterRecords(records, "inflation")
	if len(filtered) != 1 {
		t.Fatalf("expected 1 record, got %d", len(filtered))
	}
	if filtered[0]["statistical_match"] != "inflation rate 28.9%" {
		t.Errorf("wrong record survived: %v", filtered[0])
	}

	// subset of unfiltered
	all := FilterRecords(records, "")
	if len(all) != len(records) {
		t.Errorf("empty query must pass everything, got %d of %d", len(all), len(records))
	}
	for _, rec := range filtered {
		found := false
		for _, orig := range all {
			if orig.Key() == rec.Key() {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("filtered record %v not present in unfiltered set", rec)
		}
	}
}

func TestFilterRecordsMatchesAnyToken(t *testing.T) {
	records := []types.Record{
		{"statistical_match": "literacy rate 62%"},
		{"statistical_match": "GDP $477 billion"},
	}
	filtered := FilterRecords(records, "literacy gdp")
	if len(filtered) != 2 {
		t.Errorf("any-token match expected 2 records, got %d", len(filtered))
	}
}

func TestFilterRecordsIsCaseInsensitive(t *testing.T) {
	records := []types.Record{{"statistical_match": "GDP growth 2.5%"}}
	if got := FilterRecords(records, "gdp"); len(got) != 1 {
		t.Errorf("lowercase query missed uppercase content")
	}
}

func TestFilterTables(t *testing.T) {
	tables := []types.ExtractedTable{
		{
			Metadata: types.TableMetadata{
				TableName:   "table_1",
				ColumnNames: []string{"Indicator", "Value"},
			},
			Rows: []map[string]string{{"Indicator": "Unemployment", "Value": "33.3%"}},
		},
		{
			Metadata: types.TableMetadata{
				TableName:   "table_2",
				ColumnNames: []string{"Year", "Exports"},
			},
			Rows: []map[string]string{{"Year": "2023", "Exports": "high"}},
		},
	}

	filtered := FilterTables(tables, "unemployment", 5)
	if len(filtered) != 1 || filtered[0].Metadata.TableName != "table_1" {
		t.Errorf("expected only table_1, got %d tables", len(filtered))
	}

	// column-name match
	filtered = FilterTables(tables, "exports", 5)
	if len(filtered) != 1 || filtered[0].Metadata.TableName != "table_2" {
		t.Errorf("expected only table_2, got %d tables", len(filtered))
	}
}
