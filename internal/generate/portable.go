// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/resc/resc/pkg/platform"
)

// ErrReservedName is wrapped in the WriteError returned on Windows for a
// path holding a device name such as "con".
var ErrReservedName = errors.New("reserved file name on Windows")

// checkPortable warns about staged paths Windows cannot create. On Windows
// itself such a path fails the run before anything is written.
func (g *Generator) checkPortable(files []File) error {
	for _, f := range files {
		seg, ok := platform.WindowsReservedSegment(f.Path)
		if !ok {
			continue
		}
		if runtime.GOOS == platform.Windows {
			return &WriteError{Path: f.Path, Err: fmt.Errorf("%w: %s", ErrReservedName, seg)}
		}
		g.logger.Warn("Path cannot be created on Windows", "path", f.Path, "segment", seg)
	}
	return nil
}
