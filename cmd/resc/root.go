// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the flags of the root command and its persistent flags.
type rootFlags struct {
	verbose    bool
	configFile string
	outputDir  string
	format     string
	dryRun     bool
	pretty     bool
	watch      bool
}

// NewRootCommand builds the resc command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "resc [flags] <jarfile> <descfile>",
		Short: "Generate custom model data overrides for a resource pack",
		Long: TitleStyle.Render("resc") + SubtitleStyle.Render(" - custom model data for resource packs") + `

resc reads the vanilla item models from the game jar, adds one
custom_model_data override per entry of the description file and writes
the updated models, plus a stub model for every new model they refer to,
into the output folder.

` + SubtitleStyle.Render("Description:") + `
  __:
    fire: sword_fire       # constant: "fire" resolves like "sword_fire"
  stick:
    "5": custom_stick      # custom_model_data 5 -> minecraft:custom_stick
    fire: item/$1          # $1 is replaced by the key

` + SubtitleStyle.Render("Examples:") + `
  resc client.jar models.yaml              Write the pack to ./output
  resc -o pack --pretty client.jar m.yaml  Indented JSON into ./pack
  resc --dry-run client.jar models.yaml    List the files without writing
  resc -w extracted/ models.yaml           Regenerate on every change
  resc hash fire sword_fire                Print resolved identifiers`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResourcePack(cmd, app, flags, args)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default is $HOME/.config/resc/config.cue)")

	rootCmd.Flags().StringVarP(&flags.outputDir, "output", "o", "", "output folder (default from config, \"output\")")
	rootCmd.Flags().StringVar(&flags.format, "format", "", "description format: yaml, json, cue or toml (default by extension)")
	rootCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "list the files that would be written without writing them")
	rootCmd.Flags().BoolVar(&flags.pretty, "pretty", false, "indent the written JSON")
	rootCmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "regenerate whenever the description or an extracted jar changes")

	rootCmd.AddCommand(newHashCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the resc command line and exits with the code of the failure,
// if any. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code.Status())
		}
		os.Exit(1)
	}
}

// handleError prints errors fang reports, except ExitErrors whose message the
// command already printed.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
