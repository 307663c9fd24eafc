// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/resc/resc/internal/archive"
	"github.com/resc/resc/internal/generate"
	"github.com/resc/resc/internal/issue"
	"github.com/resc/resc/pkg/modeldata"
	"github.com/resc/resc/pkg/resloc"
	"github.com/resc/resc/pkg/types"

	"github.com/charmbracelet/log"
)

// ServiceError is a pipeline error prepared for the CLI layer: the
// actionable error to print, the issue catalog entry explaining it and the
// exit code it maps to. Always create via newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// Code is the process exit code.
	Code types.ExitCode
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id, code types.ExitCode) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:     err,
		IssueID: issueID,
		Code:    code,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// exitError converts the ServiceError into the error returned from RunE.
func (e *ServiceError) exitError() *ExitError {
	return &ExitError{Code: e.Code, Err: e.Err}
}

// renderServiceError prints the error with its suggestions and, in verbose
// mode, the issue help section rendered in colorScheme.
func renderServiceError(stderr io.Writer, svcErr *ServiceError, verbose bool, colorScheme string) {
	if svcErr == nil {
		return
	}

	fmt.Fprintf(stderr, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(svcErr.Err, verbose))

	if !verbose || svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render(colorScheme)
		if renderErr != nil {
			log.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors carry their suggestions; verbose mode adds the error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// diagnoseRunError maps a pipeline failure to its actionable error, issue
// and exit code.
func diagnoseRunError(err error, p runParams) *ServiceError {
	ctx := issue.NewErrorContext().Wrap(err)

	switch generate.Classify(err) {
	case generate.FailureDescription:
		id := issue.DescriptionParseErrorId
		switch {
		case errors.Is(err, modeldata.ErrConstantCycle):
			id = issue.ConstantCycleId
			ctx.WithSuggestion("Give one constant of the loop a number")
		case errors.Is(err, resloc.ErrInvalidResourceLocation):
			id = issue.InvalidResourceLocationId
			ctx.WithSuggestion("Write locations as namespace:path or just path")
		default:
			ctx.WithSuggestion("Check the description syntax")
			if p.format == "" {
				ctx.WithSuggestion("Pass --format when the extension does not match the content")
			}
		}
		ae := ctx.WithOperation("read description").WithResource(p.descPath).Build()
		return newServiceError(ae, id, types.ExitMalformedDescription)

	case generate.FailureArchive:
		if errors.Is(err, archive.ErrOpen) {
			ae := ctx.WithOperation("open archive").
				WithResource(p.archivePath).
				WithSuggestion("Check the path to the game jar", "Pass an extracted jar directory instead").
				Build()
			return newServiceError(ae, issue.ArchiveOpenFailedId, types.ExitArchive)
		}
		ae := ctx.WithOperation("read vanilla model").
			WithResource(p.archivePath).
			WithSuggestion("Check the item name in the description", "Use the jar of the game version the item exists in").
			Build()
		return newServiceError(ae, issue.ArchiveEntryMissingId, types.ExitArchive)

	case generate.FailureDocument:
		ae := ctx.WithOperation("read vanilla model").
			WithResource(p.archivePath).
			WithSuggestion("Re-download the game version").
			Build()
		return newServiceError(ae, issue.ModelDocumentMalformedId, types.ExitMalformedModel)

	case generate.FailureWrite:
		ae := ctx.WithOperation("write resource pack").
			WithResource(p.outputDir).
			WithSuggestion("Check permissions of the output directory", "Choose another directory with --output").
			Build()
		return newServiceError(ae, issue.OutputWriteFailedId, types.ExitWriteFailure)
	}

	return newServiceError(ctx.WithOperation("generate resource pack").WithResource(p.outputDir).Build(), 0, types.ExitFailure)
}
