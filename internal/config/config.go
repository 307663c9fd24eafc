// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/resc/resc/internal/issue"
	"github.com/resc/resc/pkg/cueutil"
	"github.com/resc/resc/pkg/platform"

	"github.com/spf13/viper"
)

const (
	AppName        = "resc"
	ConfigFileName = "config"
	ConfigFileExt  = "cue"
	// EnvPrefix prefixes environment overrides: output.dir is RESC_OUTPUT_DIR.
	EnvPrefix = "RESC"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the per-user resc configuration directory:
// %APPDATA%\resc on Windows, ~/Library/Application Support/resc on macOS and
// $XDG_CONFIG_HOME/resc (default ~/.config/resc) elsewhere.
//
//nolint:revive // config.Dir would read poorly at call sites
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	root, err := platformConfigRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, AppName), nil
}

func platformConfigRoot() (string, error) {
	switch runtime.GOOS {
	case platform.Windows:
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		return filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming"), nil
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, ".config"), nil
	}
}

// FilePath returns where the config file selected by opts lives. The file
// need not exist.
func FilePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}
	dir := opts.ConfigDirPath
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions layers defaults, the config file and RESC_* variables, in
// that order of precedence from lowest. It returns the file used, empty when
// there was none.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("load config canceled: %w", err)
	}

	source, err := findConfigFile(opts)
	if err != nil {
		return nil, "", err
	}

	v := newViper()
	if source != "" {
		if err := mergeCUEFile(v, source); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(source).
				WithSuggestion(
					"Check that the file contains valid CUE syntax",
					"Compare the file with the output of 'resc config dump'",
				).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(source).
			WithSuggestion(
				"Check RESC_* environment variables for empty or unknown values",
				"Use 'resc config show' to see the effective configuration",
			).
			Wrap(err).
			BuildError()
	}
	return &cfg, source, nil
}

// findConfigFile picks the file to load. An explicit --config file must
// exist; otherwise the config directory is tried, then ./config.cue, and no
// file at all means defaults.
func findConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion(
					"Verify the file path is correct",
					"Use 'resc config init' to write a default configuration",
				).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	inDir, err := FilePath(opts)
	if err != nil {
		return "", err
	}
	for _, candidate := range []string{inDir, ConfigFileName + "." + ConfigFileExt} {
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

func newViper() *viper.Viper {
	v := viper.New()
	d := DefaultConfig()
	for key, value := range map[string]any{
		"output.dir":         d.Output.Dir,
		"output.pretty":      d.Output.Pretty,
		"models.stub_parent": d.Models.StubParent,
		"ui.color_scheme":    d.UI.ColorScheme,
		"ui.verbose":         d.UI.Verbose,
	} {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// mergeCUEFile checks path against #Config and merges it over the defaults.
func mergeCUEFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	values, err := cueutil.DecodeWithSchema(configSchema, "#Config", data, path)
	if err != nil {
		return err
	}
	if err := v.MergeConfigMap(values); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes DefaultConfig as CUE to the file selected by
// opts. An existing file is left alone and created is false.
func CreateDefaultConfig(opts LoadOptions) (path string, created bool, err error) {
	if path, err = FilePath(opts); err != nil {
		return "", false, err
	}

	switch _, statErr := os.Stat(path); {
	case statErr == nil:
		return path, false, nil
	case !errors.Is(statErr, fs.ErrNotExist):
		return "", false, fmt.Errorf("failed to check config file: %w", statErr)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}
	return path, true, nil
}

// GenerateCUE renders cfg as a config file accepted by the #Config schema.
func GenerateCUE(cfg *Config) string {
	return fmt.Sprintf(`// resc configuration file
// Environment variables (RESC_OUTPUT_DIR, ...) override these values.

output: {
	dir:    %q
	pretty: %t
}

models: {
	stub_parent: %q
}

ui: {
	color_scheme: %q
	verbose:      %t
}
`, cfg.Output.Dir, cfg.Output.Pretty, cfg.Models.StubParent, string(cfg.UI.ColorScheme), cfg.UI.Verbose)
}
