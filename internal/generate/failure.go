// SPDX-License-Identifier: MPL-2.0

package generate

// Failure is the category of a pipeline error.
type Failure int

const (
	FailureNone Failure = iota
	FailureDescription
	FailureArchive
	FailureDocument
	FailureWrite
	FailureOther
)

// String implements fmt.Stringer.
func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureDescription:
		return "malformed description"
	case FailureArchive:
		return "archive"
	case FailureDocument:
		return "malformed vanilla model"
	case FailureWrite:
		return "write"
	default:
		return "other"
	}
}
