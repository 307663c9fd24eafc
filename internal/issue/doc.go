// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and the catalog of Markdown help
// texts shown for each kind of resc failure.
package issue
