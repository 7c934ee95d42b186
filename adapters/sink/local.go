// Package sink provides PersistenceSink implementations.
package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/printforge/imageconv/errors"
)

// Local writes converted images to a directory on the local filesystem.
type Local struct {
	rootDir     string
	permissions os.FileMode
}

// NewLocal creates a Local sink rooted at dir.
func NewLocal(dir string, perm os.FileMode) (*Local, error) {
	if perm == 0 {
		perm = 0o644
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local sink: mkdir %s: %w", dir, err)
	}
	return &Local{rootDir: dir, permissions: perm}, nil
}

func (l *Local) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.CategoryPersist, "local.save", err)
	}
	path := filepath.Join(l.rootDir, filepath.Base(filepath.Clean(name)))
	if err := os.WriteFile(path, data, l.permissions); err != nil {
		return apperrors.Wrap(apperrors.CategoryPersist, "local.save", err)
	}
	return nil
}
