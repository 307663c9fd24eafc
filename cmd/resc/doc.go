// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the resc command line.
//
// The root command runs the resource pack pipeline; `hash` prints resolved
// custom model data identifiers and `config` manages the configuration file.
package cmd
