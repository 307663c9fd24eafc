// SPDX-License-Identifier: MPL-2.0

// Package config handles resc configuration using Viper with CUE as the file format.
//
// Configuration is loaded from config.cue in the platform config directory
// ($XDG_CONFIG_HOME/resc on Linux, ~/Library/Application Support/resc on macOS,
// %APPDATA%\resc on Windows), falling back to ./config.cue. Values can be
// overridden with RESC_* environment variables (RESC_OUTPUT_DIR,
// RESC_MODELS_STUB_PARENT, ...).
//
// Files are validated against the embedded CUE schema (config_schema.cue)
// before they are merged over the defaults.
package config
