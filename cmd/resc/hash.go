// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/resc/resc/internal/issue"
	"github.com/resc/resc/pkg/description"
	"github.com/resc/resc/pkg/modeldata"
	"github.com/resc/resc/pkg/types"

	"github.com/spf13/cobra"
)

// newHashCommand creates the `resc hash` command.
func newHashCommand(app *App, rf *rootFlags) *cobra.Command {
	var (
		descPath string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "hash [--desc <file>] <key>...",
		Short: "Print the custom_model_data of symbolic keys",
		Long: `Print the custom_model_data identifier each key resolves to.

Integer keys resolve to themselves. Other keys are looked up in the
constants of the description given with --desc, then hashed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "" {
				if err := description.Format(format).Validate(); err != nil {
					return err
				}
			}
			cmd.SilenceUsage = true

			resolver, err := resolverFor(descPath, description.Format(format))
			if err != nil {
				code, id := types.ExitFailure, issue.DescriptionNotFoundId
				if errors.Is(err, description.ErrMalformed) || errors.Is(err, modeldata.ErrConstantCycle) {
					code, id = types.ExitMalformedDescription, issue.DescriptionParseErrorId
					if errors.Is(err, modeldata.ErrConstantCycle) {
						id = issue.ConstantCycleId
					}
				}
				ae := issue.WrapWithContext(err, "read description", descPath)
				svcErr := newServiceError(ae, id, code)
				renderServiceError(app.stderr, svcErr, rf.verbose, "auto")
				return svcErr.exitError()
			}

			printHashes(app.stdout, resolver, args)
			return nil
		},
	}

	cmd.Flags().StringVar(&descPath, "desc", "", "description file whose constants apply")
	cmd.Flags().StringVar(&format, "format", "", "description format: yaml, json, cue or toml (default by extension)")

	return cmd
}

// resolverFor returns a Resolver over every constant defined in the
// description at path, or an empty one when path is empty.
func resolverFor(path string, format description.Format) (*modeldata.Resolver, error) {
	resolver := &modeldata.Resolver{}
	if path == "" {
		return resolver, nil
	}

	desc, err := description.Load(path, format)
	if err != nil {
		return nil, err
	}
	for _, entry := range desc.Entries {
		if !entry.IsConstants() {
			continue
		}
		if resolver, err = resolver.With(entry.Constants()); err != nil {
			return nil, err
		}
	}
	return resolver, nil
}

func printHashes(w io.Writer, resolver *modeldata.Resolver, keys []string) {
	for _, key := range keys {
		fmt.Fprintf(w, "%s %s", CmdStyle.Render(key), resolver.Resolve(key))
		if v, ok := resolver.Constant(key); ok {
			fmt.Fprintf(w, " %s", SubtitleStyle.Render("(= "+v+")"))
		}
		fmt.Fprintln(w)
	}
}
