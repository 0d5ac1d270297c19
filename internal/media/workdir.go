package media

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// WorkDir is a scratch directory owned by one operation.
type WorkDir struct {
	Path     string
	released bool
}

// NewWorkDir creates ytnote-<uuid> under base (system temp when empty).
func NewWorkDir(base string) (*WorkDir, error) {
	if base == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "ytnote-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	return &WorkDir{Path: dir}, nil
}

func (w *WorkDir) Join(name string) string { return filepath.Join(w.Path, name) }

// Release removes the directory and everything in it. Safe to call twice.
func (w *WorkDir) Release() error {
	if w == nil || w.released {
		return nil
	}
	w.released = true
	return os.RemoveAll(w.Path)
}
