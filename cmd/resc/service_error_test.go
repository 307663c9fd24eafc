// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/resc/resc/internal/archive"
	"github.com/resc/resc/internal/generate"
	"github.com/resc/resc/internal/issue"
	"github.com/resc/resc/pkg/description"
	"github.com/resc/resc/pkg/model"
	"github.com/resc/resc/pkg/modeldata"
	"github.com/resc/resc/pkg/resloc"
	"github.com/resc/resc/pkg/types"
)

func TestNewServiceError_PanicsOnNilErr(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r != "ServiceError: Err must not be nil" {
			t.Fatalf("recover() = %v, want nil-Err panic", r)
		}
	}()

	newServiceError(nil, 0, types.ExitFailure)
}

func TestServiceError_ErrorAndUnwrap(t *testing.T) {
	t.Parallel()

	underlying := errors.New("underlying error")
	svcErr := newServiceError(underlying, issue.ArchiveOpenFailedId, types.ExitArchive)

	if svcErr.Error() != "underlying error" {
		t.Errorf("Error() = %q", svcErr.Error())
	}
	if !errors.Is(svcErr, underlying) {
		t.Error("errors.Is should find underlying error via Unwrap")
	}
	if exitErr := svcErr.exitError(); exitErr.Code != types.ExitArchive || !errors.Is(exitErr, underlying) {
		t.Errorf("exitError() = %+v", exitErr)
	}
}

func TestRenderServiceError(t *testing.T) {
	t.Parallel()

	ae := issue.NewErrorContext().
		WithOperation("open archive").
		WithResource("client.jar").
		WithSuggestion("Check the path").
		Wrap(errors.New("no such file")).
		Build()
	svcErr := newServiceError(ae, issue.ArchiveOpenFailedId, types.ExitArchive)

	var quiet bytes.Buffer
	renderServiceError(&quiet, svcErr, false, "notty")
	assertContains(t, "quiet output", quiet.String(), "Error:", "failed to open archive: client.jar: no such file", "Check the path")
	if strings.Contains(quiet.String(), "game archive") {
		t.Error("non-verbose output should not render the issue")
	}

	var verbose bytes.Buffer
	renderServiceError(&verbose, svcErr, true, "notty")
	assertContains(t, "verbose output", verbose.String(), "Error chain:", "game archive")

	var none bytes.Buffer
	renderServiceError(&none, nil, true, "notty")
	if none.Len() != 0 {
		t.Errorf("nil ServiceError rendered %q", none.String())
	}
}

func TestDiagnoseRunError(t *testing.T) {
	t.Parallel()

	malformed := func(err error) error {
		return &description.MalformedError{Source: "models.yaml", Path: "stick", Err: err}
	}

	tests := []struct {
		name     string
		err      error
		wantId   issue.Id
		wantCode types.ExitCode
		wantOp   string
	}{
		{"parse error", malformed(errors.New("bad")), issue.DescriptionParseErrorId, types.ExitMalformedDescription, "read description"},
		{"constant cycle", malformed(&modeldata.ConstantCycleError{Chain: []string{"a", "b", "a"}}), issue.ConstantCycleId, types.ExitMalformedDescription, "read description"},
		{"resource location", malformed(fmt.Errorf("x: %w", resloc.ErrInvalidResourceLocation)), issue.InvalidResourceLocationId, types.ExitMalformedDescription, "read description"},
		{"archive open", &archive.OpenError{Path: "client.jar", Err: errors.New("nope")}, issue.ArchiveOpenFailedId, types.ExitArchive, "open archive"},
		{"entry missing", fmt.Errorf("x: %w", archive.ErrEntryMissing), issue.ArchiveEntryMissingId, types.ExitArchive, "read vanilla model"},
		{"malformed document", fmt.Errorf("x: %w", model.ErrMalformedDocument), issue.ModelDocumentMalformedId, types.ExitMalformedModel, "read vanilla model"},
		{"write", &generate.WriteError{Path: "a.json", Err: errors.New("denied")}, issue.OutputWriteFailedId, types.ExitWriteFailure, "write resource pack"},
		{"other", errors.New("boom"), 0, types.ExitFailure, "generate resource pack"},
	}

	p := runParams{archivePath: "client.jar", descPath: "models.yaml", outputDir: "output"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svcErr := diagnoseRunError(tt.err, p)
			if svcErr.IssueID != tt.wantId || svcErr.Code != tt.wantCode {
				t.Errorf("diagnoseRunError() = issue %d code %d, want issue %d code %d", svcErr.IssueID, svcErr.Code, tt.wantId, tt.wantCode)
			}
			var ae *issue.ActionableError
			if !errors.As(svcErr, &ae) || ae.Operation != tt.wantOp {
				t.Errorf("actionable error = %+v, want operation %q", ae, tt.wantOp)
			}
			if !errors.Is(svcErr, tt.err) {
				t.Error("diagnosed error lost its cause")
			}
		})
	}
}
