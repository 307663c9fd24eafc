// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test fixtures and helpers that fail the test on
// error instead of returning it.
//
// The fixtures build game archives the way the client ships them: a zip
// written by MustWriteJar, or an extracted tree written by MustWriteTree.
// VanillaStick is the stick item model those archives usually carry.
package testutil
