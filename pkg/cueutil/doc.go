// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE compilation and error formatting shared by
// the configuration loader and the CUE description reader.
//
// Errors carry the file name and a JSON-path style location:
//
//	config.cue: output.pretty: conflicting values "yes" and bool
//	desc.cue: stick.fire: incomplete value string
package cueutil
