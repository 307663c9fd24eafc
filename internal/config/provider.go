// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions selects where configuration comes from. The zero value
	// means the platform config directory, then ./config.cue.
	LoadOptions struct {
		// ConfigFilePath is the --config file; it must exist when set.
		ConfigFilePath string
		// ConfigDirPath replaces the platform config directory.
		ConfigDirPath string
	}

	// Provider is how the CLI obtains its Config. Tests substitute a static
	// implementation.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	fileProvider struct{}
)

// configDirOverride replaces the platform config directory in tests, where
// os.UserHomeDir() may ignore HOME (macOS CI).
var configDirOverride string

// NewProvider returns the Provider reading config.cue files and RESC_*
// environment variables.
func NewProvider() Provider {
	return fileProvider{}
}

func (fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	return cfg, err
}

// LoadWithSource loads like Provider.Load and also returns the config file
// the values came from, empty when only defaults and environment applied.
func LoadWithSource(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	return loadWithOptions(ctx, opts)
}

// SetConfigDirOverride makes ConfigDir return dir until Reset is called.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears test overrides.
func Reset() {
	configDirOverride = ""
}
