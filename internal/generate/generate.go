// SPDX-License-Identifier: MPL-2.0

// Package generate runs the resource pack pipeline: it merges overrides into
// the vanilla item models read from the game archive, renders stub models for
// every newly referenced model, and writes both to the output file system.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/resc/resc/internal/archive"
	"github.com/resc/resc/pkg/description"
	"github.com/resc/resc/pkg/model"
	"github.com/resc/resc/pkg/override"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
)

// DefaultStubParent is the parent model of generated stubs.
const DefaultStubParent = "item/generated"

const (
	// FileModel is an updated vanilla item model.
	FileModel FileKind = "model"
	// FileStub is a generated model for a new model reference.
	FileStub FileKind = "stub"
)

type (
	// FileKind tells merged item models from generated stubs.
	FileKind string

	// Options configures a single run.
	Options struct {
		// ArchivePath is the game .jar or an extracted copy of it.
		ArchivePath string
		// OutputDir names the output root in progress lines. Files are written
		// relative to the Generator's file system.
		OutputDir string
		// StubParent overrides DefaultStubParent.
		StubParent string
		// Pretty indents the written JSON.
		Pretty bool
		// DryRun stages every file but writes none.
		DryRun bool
	}

	// File is one staged output file.
	File struct {
		// Path is relative to the output root and uses '/' separators.
		Path string
		Kind FileKind
		Data []byte
	}

	// Result describes a finished run.
	Result struct {
		Plan  *override.Plan
		Files []File
		// Skipped lists stub paths that collided with a merged item model.
		Skipped []string
		// Written is false for dry runs.
		Written bool
	}

	// Generator runs the pipeline against an output file system.
	Generator struct {
		fs     afero.Fs
		logger *log.Logger
	}
)

// New creates a Generator writing to fs. A nil logger discards progress.
func New(fs afero.Fs, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Generator{fs: fs, logger: logger}
}

// Run builds the override plan for desc, stages every output file and,
// unless opts.DryRun is set, writes them. Nothing is written when any
// staging step fails.
func (g *Generator) Run(ctx context.Context, desc *description.Description, opts Options) (*Result, error) {
	plan, err := override.Build(desc, g.logger)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("Planned", "items", len(plan.Items), "models", len(plan.NewModels), "constants", plan.Constants.Len())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged, err := g.Merge(ctx, opts.ArchivePath, plan, opts.Pretty)
	if err != nil {
		return nil, err
	}

	parent := opts.StubParent
	if parent == "" {
		parent = DefaultStubParent
	}
	stubs, skipped, err := g.Stubs(plan, merged, parent, opts.Pretty)
	if err != nil {
		return nil, err
	}

	res := &Result{Plan: plan, Files: append(merged, stubs...), Skipped: skipped}
	if err := g.checkPortable(res.Files); err != nil {
		return nil, err
	}
	if opts.DryRun {
		return res, nil
	}

	g.logger.Infof("Writing %d updated vanilla models to %s", len(merged), opts.OutputDir)
	if err := g.write(ctx, merged); err != nil {
		return nil, err
	}
	g.logger.Infof("Generating %d associated model files", len(stubs))
	if err := g.write(ctx, stubs); err != nil {
		return nil, err
	}
	res.Written = true
	return res, nil
}

// Count returns the number of staged files of kind.
func (r *Result) Count(kind FileKind) int {
	n := 0
	for _, f := range r.Files {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

// Bytes returns the total size of the staged files.
func (r *Result) Bytes() int64 {
	var n int64
	for _, f := range r.Files {
		n += int64(len(f.Data))
	}
	return n
}

// Summary is the one-line report printed after a run.
func (r *Result) Summary() string {
	verb := "Wrote"
	if !r.Written {
		verb = "Would write"
	}
	return fmt.Sprintf("%s %d item %s and %d stub %s (%s)",
		verb,
		r.Count(FileModel), plural(r.Count(FileModel), "model", "models"),
		r.Count(FileStub), plural(r.Count(FileStub), "model", "models"),
		humanize.Bytes(uint64(r.Bytes())),
	)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Classify reports which pipeline failure err is, for callers that map
// failures to exit codes or help texts.
func Classify(err error) Failure {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, description.ErrMalformed):
		return FailureDescription
	case errors.Is(err, archive.ErrOpen), errors.Is(err, archive.ErrEntryMissing):
		return FailureArchive
	case errors.Is(err, model.ErrMalformedDocument):
		return FailureDocument
	case errors.Is(err, ErrWrite):
		return FailureWrite
	default:
		return FailureOther
	}
}
