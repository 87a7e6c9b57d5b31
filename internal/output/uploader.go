// internal/output/uploader.go
package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Uploader pushes an exported file to a remote destination. Uploads are
// best-effort side calls: the manager logs failures and keeps the local copy.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte) error
}

// DirUploader copies exports into a directory, standing in for a mounted
// cloud drive or sync folder.
type DirUploader struct {
	Dir string
}

// Upload writes the export into the configured directory.
func (u DirUploader) Upload(ctx context.Context, name string, data []byte) error {
	if u.Dir == "" {
		return fmt.Errorf("upload directory is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(u.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	dest := filepath.Join(u.Dir, filepath.Base(name))
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}
