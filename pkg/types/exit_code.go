// SPDX-License-Identifier: MPL-2.0

package types

import "strconv"

// ExitCode is the status resc exits with. Each failure category has its own
// code so scripts can tell a bad description from a bad archive.
type ExitCode int

const (
	ExitSuccess              ExitCode = 0
	ExitFailure              ExitCode = 1
	ExitMalformedDescription ExitCode = 2
	ExitArchive              ExitCode = 3
	ExitMalformedModel       ExitCode = 4
	ExitWriteFailure         ExitCode = 5
)

var categories = map[ExitCode]string{
	ExitSuccess:              "success",
	ExitFailure:              "failure",
	ExitMalformedDescription: "malformed description",
	ExitArchive:              "archive error",
	ExitMalformedModel:       "malformed vanilla model",
	ExitWriteFailure:         "write failure",
}

// Category names the failure class of c, "failure" for codes resc does not
// define.
func (c ExitCode) Category() string {
	if name, ok := categories[c]; ok {
		return name
	}
	return categories[ExitFailure]
}

// Status returns c as a process exit status. Codes POSIX cannot carry
// (outside 0-255) become ExitFailure.
func (c ExitCode) Status() int {
	if c < 0 || c > 255 {
		return int(ExitFailure)
	}
	return int(c)
}

func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
