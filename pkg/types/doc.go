// SPDX-License-Identifier: MPL-2.0

// Package types holds ExitCode, the process status shared by the pipeline
// and the CLI.
package types
