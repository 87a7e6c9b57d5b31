// internal/output/manager.go
package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/valpere/StatHarvester/internal/config"
	"github.com/valpere/StatHarvester/internal/utils"
	"github.com/valpere/StatHarvester/pkg/types"
)

// Format identifies an export format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatExcel Format = "excel"
)

// Manager turns a result set into the configured export format and handles
// the optional side destinations.
type Manager struct {
	cfg      *config.OutputConfig
	uploader Uploader
	logger   utils.Logger
}

// NewManager creates an output manager.
func NewManager(cfg *config.OutputConfig) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("output configuration is required")
	}
	return &Manager{cfg: cfg, logger: utils.NewLogger()}, nil
}

// SetUploader attaches an upload destination.
func (m *Manager) SetUploader(u Uploader) {
	m.uploader = u
}

// SetLogger replaces the default logger.
func (m *Manager) SetLogger(l utils.Logger) {
	m.logger = l
}

// Encode serializes the result set in the given format. An unsupported
// format is the one export error that propagates to the caller.
func (m *Manager) Encode(rs *types.ResultSet, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return EncodeCSV(rs)
	case FormatJSON:
		return EncodeJSON(rs)
	case FormatExcel:
		return EncodeExcel(rs, m.cfg.SheetName)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Write exports the result set to the configured file and runs the side
// destinations: the SQLite archive when configured, then the uploader. Side
// destination failures are logged, not returned; the primary export is the
// only hard requirement.
func (m *Manager) Write(ctx context.Context, rs *types.ResultSet) error {
	rs = m.applyTransforms(rs)

	data, err := m.Encode(rs, Format(m.cfg.Format))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(m.cfg.File); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(m.cfg.File, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", m.cfg.File, err)
	}
	m.logger.Infof("wrote %d records to %s", len(rs.Records), m.cfg.File)

	if m.cfg.SQLiteFile != "" {
		if err := m.archive(rs); err != nil {
			m.logger.Warnf("archive failed: %v", err)
		}
	}

	if m.uploader != nil && m.cfg.Upload != nil && m.cfg.Upload.Enabled {
		if err := m.uploader.Upload(ctx, m.cfg.File, data); err != nil {
			m.logger.Warnf("upload failed: %v", err)
		}
	}
	return nil
}

// provenanceFields are never transformed so records stay traceable to their
// source.
var provenanceFields = map[string]bool{
	types.FieldSourceURL:    true,
	types.FieldSourceName:   true,
	types.FieldScrapeMethod: true,
	types.FieldScrapeDate:   true,
}

// applyTransforms runs the configured transform rules over every record
// value except the provenance fields. The input result set is left untouched.
func (m *Manager) applyTransforms(rs *types.ResultSet) *types.ResultSet {
	if len(m.cfg.Transforms) == 0 {
		return rs
	}

	out := *rs
	out.Records = make([]types.Record, len(rs.Records))
	for i, rec := range rs.Records {
		clone := rec.Clone()
		for key, value := range clone {
			if provenanceFields[key] {
				continue
			}
			transformed, err := m.cfg.Transforms.Apply(value)
			if err != nil {
				m.logger.Warnf("transform failed for field %s: %v", key, err)
				continue
			}
			clone[key] = transformed
		}
		out.Records[i] = clone
	}
	return &out
}

func (m *Manager) archive(rs *types.ResultSet) error {
	archive, err := NewArchive(m.cfg.SQLiteFile)
	if err != nil {
		return err
	}
	defer archive.Close()
	return archive.Store(rs)
}
