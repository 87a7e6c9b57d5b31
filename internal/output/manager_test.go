// internal/output/manager_test.go
package output

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valpere/StatHarvester/internal/config"
	"github.com/valpere/StatHarvester/internal/pipeline"
	"github.com/valpere/StatHarvester/pkg/types"
)

func TestManagerWriteCSV(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.OutputConfig{
		Format: "csv",
		File:   filepath.Join(dir, "out.csv"),
	}

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := m.Write(context.Background(), testResultSet()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(cfg.File)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if len(data) == 0 {
		t.Error("output file is empty")
	}
}

func TestManagerUnsupportedFormat(t *testing.T) {
	m, err := NewManager(&config.OutputConfig{Format: "parquet", File: "out.parquet"})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := m.Write(context.Background(), testResultSet()); err == nil {
		t.Error("unsupported format must be an error")
	}
}

func TestManagerAppliesTransforms(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.OutputConfig{
		Format: "json",
		File:   filepath.Join(dir, "out.json"),
		Transforms: pipeline.TransformList{
			{Type: "normalize_spaces"},
			{Type: "uppercase"},
		},
	}

	rs := &types.ResultSet{Records: []types.Record{{
		"extracted_data":      "  inflation   rose  ",
		types.FieldSourceName: "Source A",
	}}}

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := m.Write(context.Background(), rs); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(cfg.File)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if !strings.Contains(string(data), "INFLATION ROSE") {
		t.Errorf("transforms not applied to extracted value: %s", data)
	}
	if !strings.Contains(string(data), "Source A") {
		t.Errorf("provenance field was transformed: %s", data)
	}
	if rs.Records[0]["extracted_data"] != "  inflation   rose  " {
		t.Error("input result set was mutated")
	}
}

func TestManagerWritesArchiveSideDestination(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.OutputConfig{
		Format:     "json",
		File:       filepath.Join(dir, "out.json"),
		SQLiteFile: filepath.Join(dir, "archive.db"),
	}

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := m.Write(context.Background(), testResultSet()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	a, err := NewArchive(cfg.SQLiteFile)
	if err != nil {
		t.Fatalf("archive missing: %v", err)
	}
	defer a.Close()

	runs, err := a.RunCount()
	if err != nil {
		t.Fatalf("RunCount failed: %v", err)
	}
	if runs != 1 {
		t.Errorf("archived runs = %d, want 1", runs)
	}
}

func TestManagerUploadsWhenEnabled(t *testing.T) {
	dir := t.TempDir()
	uploadDir := filepath.Join(dir, "drive")
	cfg := &config.OutputConfig{
		Format: "csv",
		File:   filepath.Join(dir, "out.csv"),
		Upload: &config.UploadConfig{Enabled: true},
	}

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	m.SetUploader(DirUploader{Dir: uploadDir})

	if err := m.Write(context.Background(), testResultSet()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(uploadDir, "out.csv")); err != nil {
		t.Errorf("uploaded copy missing: %v", err)
	}
}

func TestManagerUploadFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.OutputConfig{
		Format: "csv",
		File:   filepath.Join(dir, "out.csv"),
		Upload: &config.UploadConfig{Enabled: true},
	}

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	m.SetUploader(DirUploader{}) // no directory configured

	if err := m.Write(context.Background(), testResultSet()); err != nil {
		t.Errorf("upload failure propagated: %v", err)
	}
}
