// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrWrite is the sentinel error wrapped by WriteError.
var ErrWrite = errors.New("write failed")

// WriteError is returned when an output file cannot be written. Files
// written before the failure are left in place.
type WriteError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

// Unwrap returns both ErrWrite and the underlying error.
func (e *WriteError) Unwrap() []error { return []error{ErrWrite, e.Err} }

// NewOutputFs returns a file system rooted at dir on the host. Paths that
// would leave dir are rejected.
func NewOutputFs(dir string) afero.Fs {
	return afero.NewBasePathFs(afero.NewOsFs(), dir)
}

func (g *Generator) write(ctx context.Context, files []File) error {
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		g.logger.Info("Writing", "path", f.Path)
		name := filepath.FromSlash(f.Path)
		if err := g.fs.MkdirAll(filepath.FromSlash(path.Dir(f.Path)), 0o755); err != nil {
			return &WriteError{Path: f.Path, Err: err}
		}
		if err := afero.WriteFile(g.fs, name, f.Data, 0o644); err != nil {
			return &WriteError{Path: f.Path, Err: err}
		}
	}
	return nil
}
