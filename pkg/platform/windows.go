// SPDX-License-Identifier: MPL-2.0

package platform

import "strings"

// runtime.GOOS values resc branches on.
const (
	Windows = "windows"
	Darwin  = "darwin"
)

// windowsReservedNames are device names Windows refuses as file names,
// whatever the extension.
var windowsReservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// IsWindowsReservedName reports whether name, with or without an extension,
// is a Windows device name. Matching ignores case.
func IsWindowsReservedName(name string) bool {
	base, _, _ := strings.Cut(strings.ToUpper(name), ".")
	return windowsReservedNames[base]
}

// WindowsReservedSegment returns the first segment of the '/'-separated path
// p that Windows cannot create.
func WindowsReservedSegment(p string) (string, bool) {
	for seg := range strings.SplitSeq(p, "/") {
		if IsWindowsReservedName(seg) {
			return seg, true
		}
	}
	return "", false
}
