// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/resc/resc/pkg/types"
)

// ExitError is returned from RunE once the failure has been reported to the
// user. Execute exits with Code; the error handler prints nothing more.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (exit status %s)", e.Code.Category(), e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }
