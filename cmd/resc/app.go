// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"os"

	"github.com/resc/resc/internal/config"
	"github.com/resc/resc/internal/generate"

	"github.com/spf13/afero"
)

type (
	// App wires CLI services and shared dependencies. Every Cobra handler
	// receives an App and reaches configuration and the output file system
	// through it.
	App struct {
		Config   config.Provider
		OutputFs func(dir string) afero.Fs
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   config.Provider
		OutputFs func(dir string) afero.Fs
		Stdout   io.Writer
		Stderr   io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.OutputFs == nil {
		deps.OutputFs = generate.NewOutputFs
	}

	return &App{
		Config:   deps.Config,
		OutputFs: deps.OutputFs,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}
}
