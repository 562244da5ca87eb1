package core

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/origadmin/factorygen/internal/logger"
)

// Stale returns the files Write would create, change or delete.
func (r *Result) Stale() ([]string, error) {
	var stale []string
	for _, f := range r.Files {
		old, err := os.ReadFile(f.Path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			stale = append(stale, f.Path)
		case err != nil:
			return nil, errors.Wrapf(err, "read %s", f.Path)
		case !bytes.Equal(old, f.Content):
			stale = append(stale, f.Path)
		}
	}
	return append(stale, r.Removed...), nil
}

// Write writes every changed file and deletes the removed ones. It returns
// the paths it touched.
func (r *Result) Write() ([]string, error) {
	changed, err := r.Stale()
	if err != nil {
		return nil, err
	}
	want := make(map[string]bool, len(changed))
	for _, p := range changed {
		want[p] = true
	}

	for _, f := range r.Files {
		if !want[f.Path] {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
			return nil, errors.Wrapf(err, "create directory for %s", f.Path)
		}
		if err := os.WriteFile(f.Path, f.Content, 0o644); err != nil {
			return nil, errors.Wrapf(err, "write %s", f.Path)
		}
		logger.Logger.Infow("wrote file", "path", f.Path, "unit", f.Unit.String())
	}
	for _, p := range r.Removed {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(err, "remove %s", p)
		}
		logger.Logger.Infow("removed stale file", "path", p)
	}
	return changed, nil
}
