// SPDX-License-Identifier: MPL-2.0

// Package modeldata turns the symbolic keys of a description file into numeric
// custom model data identifiers.
//
// A key is either an integer literal (used verbatim, whatever its size), the
// name of a constant (resolved through the constant table, possibly across
// several names), or any other string, which is hashed with the 32-bit string
// hash used by the Java platform and reduced into [0, 2^24).
package modeldata
