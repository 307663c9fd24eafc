// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/resc/resc/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand builds `resc config`. show and dump go through the App's
// provider; path and init only touch the file.
func newConfigCommand(app *App, rf *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage resc configuration",
		Long: `Manage resc configuration.

Configuration is stored in:
  - Linux: ~/.config/resc/config.cue
  - macOS: ~/Library/Application Support/resc/config.cue
  - Windows: %APPDATA%\resc\config.cue

A config.cue in the current directory is used when the above is missing.
RESC_OUTPUT_DIR, RESC_OUTPUT_PRETTY, RESC_MODELS_STUB_PARENT,
RESC_UI_COLOR_SCHEME and RESC_UI_VERBOSE override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, rf)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, rf)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.FilePath(config.LoadOptions{ConfigFilePath: rf.configFile})
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context(), app, rf)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

type configSection struct {
	name string
	rows [][2]string
}

func showConfig(ctx context.Context, app *App, rf *rootFlags) error {
	cfg, err := loadConfig(ctx, app, rf)
	if err != nil {
		return err
	}
	w := app.stdout

	source := SubtitleStyle.Render("(using defaults)")
	if path, err := config.FilePath(config.LoadOptions{ConfigFilePath: rf.configFile}); err == nil && fileExistsCheck(path) {
		source = path
	}
	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintf(w, "\n%s: %s\n", CmdStyle.Render("Config file"), source)

	for _, sec := range []configSection{
		{"output", [][2]string{
			{"dir", cfg.Output.Dir},
			{"pretty", strconv.FormatBool(cfg.Output.Pretty)},
		}},
		{"models", [][2]string{
			{"stub_parent", cfg.Models.StubParent},
		}},
		{"ui", [][2]string{
			{"color_scheme", cfg.UI.ColorScheme.String()},
			{"verbose", strconv.FormatBool(cfg.UI.Verbose)},
		}},
	} {
		fmt.Fprintf(w, "\n%s:\n", CmdStyle.Render(sec.name))
		for _, row := range sec.rows {
			fmt.Fprintf(w, "  %s: %s\n", row[0], SuccessStyle.Render(row[1]))
		}
	}
	return nil
}

func initConfig(app *App, rf *rootFlags) error {
	path, created, err := config.CreateDefaultConfig(config.LoadOptions{ConfigFilePath: rf.configFile})
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	if !created {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
