// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/resc/resc/internal/config"
	"github.com/resc/resc/internal/generate"
	"github.com/resc/resc/internal/issue"
	"github.com/resc/resc/internal/watch"
	"github.com/resc/resc/pkg/description"
	"github.com/resc/resc/pkg/types"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// runParams is one pipeline run with flags and configuration merged.
type runParams struct {
	archivePath string
	descPath    string
	outputDir   string
	format      description.Format
	stubParent  string
	pretty      bool
	dryRun      bool
	verbose     bool
	watch       bool
	colorScheme string
}

// newRunParams applies flags over cfg. Flags win only when set explicitly.
func newRunParams(cmd *cobra.Command, flags *rootFlags, cfg *config.Config, args []string) runParams {
	p := runParams{
		archivePath: args[0],
		descPath:    args[1],
		outputDir:   cfg.Output.Dir,
		format:      description.Format(flags.format),
		stubParent:  cfg.Models.StubParent,
		pretty:      cfg.Output.Pretty,
		dryRun:      flags.dryRun,
		verbose:     flags.verbose || cfg.UI.Verbose,
		watch:       flags.watch,
		colorScheme: string(cfg.UI.ColorScheme),
	}
	if flags.outputDir != "" {
		p.outputDir = flags.outputDir
	}
	if cmd.Flags().Changed("pretty") {
		p.pretty = flags.pretty
	}
	return p
}

// loadConfig loads the configuration for a command, printing the failure.
func loadConfig(ctx context.Context, app *App, flags *rootFlags) (*config.Config, error) {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configFile})
	if err != nil {
		svcErr := newServiceError(err, issue.ConfigLoadFailedId, types.ExitFailure)
		renderServiceError(app.stderr, svcErr, flags.verbose, string(config.ColorSchemeAuto))
		return nil, svcErr.exitError()
	}
	return cfg, nil
}

// newLogger creates the progress logger: Info by default, Debug when verbose.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "resc",
		Level:  level,
	})
}

func runResourcePack(cmd *cobra.Command, app *App, flags *rootFlags, args []string) error {
	if flags.format != "" {
		if err := description.Format(flags.format).Validate(); err != nil {
			return err
		}
	}
	cmd.SilenceUsage = true

	ctx := cmd.Context()
	cfg, err := loadConfig(ctx, app, flags)
	if err != nil {
		return err
	}
	p := newRunParams(cmd, flags, cfg, args)

	svcErr := generateOnce(ctx, app, p)
	if !p.watch {
		if svcErr != nil {
			return svcErr.exitError()
		}
		return nil
	}
	return watchInputs(ctx, app, p)
}

// generateOnce runs the pipeline and prints its outcome. The returned error
// has already been rendered.
func generateOnce(ctx context.Context, app *App, p runParams) *ServiceError {
	desc, err := description.Load(p.descPath, p.format)
	if err != nil {
		svcErr := diagnoseRunError(err, p)
		if svcErr.Code == types.ExitFailure {
			ae := issue.NewErrorContext().
				WithOperation("read description").
				WithResource(p.descPath).
				WithSuggestion("Check the path of the description file").
				Wrap(err).
				Build()
			svcErr = newServiceError(ae, issue.DescriptionNotFoundId, types.ExitFailure)
		}
		renderServiceError(app.stderr, svcErr, p.verbose, p.colorScheme)
		return svcErr
	}

	gen := generate.New(app.OutputFs(p.outputDir), newLogger(app.stdout, p.verbose))
	res, err := gen.Run(ctx, desc, generate.Options{
		ArchivePath: p.archivePath,
		OutputDir:   p.outputDir,
		StubParent:  p.stubParent,
		Pretty:      p.pretty,
		DryRun:      p.dryRun,
	})
	if err != nil {
		svcErr := diagnoseRunError(err, p)
		renderServiceError(app.stderr, svcErr, p.verbose, p.colorScheme)
		return svcErr
	}

	if p.dryRun {
		printStagedFiles(app.stdout, p.outputDir, res)
	}
	fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("✓"), res.Summary())
	return nil
}

// watchInputs regenerates whenever the description, or an extracted archive
// directory, changes. It returns when ctx is canceled.
func watchInputs(ctx context.Context, app *App, p runParams) error {
	logger := newLogger(app.stdout, p.verbose)
	paths := []string{p.descPath}
	if info, err := os.Stat(p.archivePath); err == nil && info.IsDir() {
		paths = append(paths, p.archivePath)
	}

	w, err := watch.New(watch.Config{
		Paths:   paths,
		Exclude: []string{p.outputDir},
		Logger:  logger,
		OnChange: func(ctx context.Context, changed []string) error {
			logger.Info("Change detected, regenerating", "paths", len(changed))
			generateOnce(ctx, app, p)
			return nil
		},
	})
	if err != nil {
		svcErr := newServiceError(issue.WrapWithContext(err, "watch inputs", p.descPath), 0, types.ExitFailure)
		renderServiceError(app.stderr, svcErr, p.verbose, p.colorScheme)
		return svcErr.exitError()
	}

	fmt.Fprintf(app.stdout, "%s %s\n", TitleStyle.Render("Watching"), SubtitleStyle.Render(strings.Join(paths, ", ")+" (Ctrl-C to stop)"))
	if err := w.Run(ctx); err != nil {
		svcErr := newServiceError(issue.WrapWithContext(err, "watch inputs", p.descPath), 0, types.ExitFailure)
		renderServiceError(app.stderr, svcErr, p.verbose, p.colorScheme)
		return svcErr.exitError()
	}
	return nil
}

// printStagedFiles lists the files a dry run would write.
func printStagedFiles(w io.Writer, outputDir string, res *generate.Result) {
	fmt.Fprintln(w, TitleStyle.Render("Files")+SubtitleStyle.Render(" (dry run, relative to "+outputDir+")"))
	for _, f := range res.Files {
		fmt.Fprintf(w, "  %-5s %s %s\n",
			string(f.Kind),
			CmdStyle.Render(f.Path),
			VerboseStyle.Render(humanize.Bytes(uint64(len(f.Data)))),
		)
	}
	for _, path := range res.Skipped {
		fmt.Fprintf(w, "  %s %s\n", WarningStyle.Render("skip "), path)
	}
}
