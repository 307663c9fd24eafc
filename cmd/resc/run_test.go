// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/resc/resc/internal/config"
	"github.com/resc/resc/internal/testutil"
	"github.com/resc/resc/pkg/description"

	"github.com/spf13/afero"
)

func TestRun_StickExample(t *testing.T) {
	t.Parallel()

	archiveDir, descPath := stickInputs(t, "stick:\n  \"5\": custom_stick\n")
	h := newHarness(t, staticConfig{})

	if err := h.run(t, archiveDir, descPath); err != nil {
		t.Fatalf("run error = %v\nstderr: %s", err, h.stderr.String())
	}

	if h.outputDir != config.DefaultOutputDir {
		t.Errorf("output dir = %q, want %q", h.outputDir, config.DefaultOutputDir)
	}
	assertContains(t, stickModel, h.read(t, stickModel),
		`"overrides":[{"predicate":{"custom_model_data":5},"model":"custom_stick"}]`)
	assertContains(t, customStick, h.read(t, customStick), `"parent":"item/generated"`)
	assertContains(t, "stdout", h.stdout.String(),
		"Parsing",
		"Fetching 1 vanilla models from JAR",
		"Writing 1 updated vanilla models to output",
		"Generating 1 associated model files",
		"Wrote 1 item model and 1 stub model",
	)
	if h.stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty", h.stderr.String())
	}
}

func TestRun_ZipArchive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	jar := filepath.Join(dir, "client.jar")
	testutil.MustWriteJar(t, jar, map[string]string{stickModel: testutil.VanillaStick})
	_, descPath := stickInputs(t, `{"stick": {"fire": "item/$1"}}`)
	h := newHarness(t, staticConfig{})

	if err := h.run(t, "--format", "json", jar, descPath); err != nil {
		t.Fatalf("run error = %v\nstderr: %s", err, h.stderr.String())
	}
	assertContains(t, "output", strings.Join(h.files(t), "\n"), "models/item/fire.json")
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Output.Dir = "from-config"
	cfg.Output.Pretty = true
	cfg.Models.StubParent = "item/handheld"

	t.Run("config applies", func(t *testing.T) {
		t.Parallel()

		archiveDir, descPath := stickInputs(t, "stick: {\"1\": wand}\n")
		h := newHarness(t, staticConfig{cfg: cfg})
		if err := h.run(t, archiveDir, descPath); err != nil {
			t.Fatalf("run error = %v", err)
		}
		if h.outputDir != "from-config" {
			t.Errorf("output dir = %q", h.outputDir)
		}
		assertContains(t, stickModel, h.read(t, stickModel), "\n  \"overrides\": [")
		assertContains(t, "stub", h.read(t, "assets/minecraft/models/wand.json"), `"parent": "item/handheld"`)
	})

	t.Run("flags win", func(t *testing.T) {
		t.Parallel()

		archiveDir, descPath := stickInputs(t, "stick: {\"1\": wand}\n")
		h := newHarness(t, staticConfig{cfg: cfg})
		if err := h.run(t, "-o", "from-flag", "--pretty=false", archiveDir, descPath); err != nil {
			t.Fatalf("run error = %v", err)
		}
		if h.outputDir != "from-flag" {
			t.Errorf("output dir = %q", h.outputDir)
		}
		assertContains(t, stickModel, h.read(t, stickModel), `"overrides":[`)
	})
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	t.Parallel()

	archiveDir, descPath := stickInputs(t, "stick:\n  \"5\": custom_stick\n")
	h := newHarness(t, staticConfig{})

	if err := h.run(t, "--dry-run", archiveDir, descPath); err != nil {
		t.Fatalf("run error = %v", err)
	}
	if files := h.files(t); len(files) != 0 {
		t.Errorf("dry run wrote %v", files)
	}
	assertContains(t, "stdout", h.stdout.String(), stickModel, customStick, "Would write 1 item model and 1 stub model")
	if strings.Contains(h.stdout.String(), "Writing") {
		t.Errorf("dry run logged a write:\n%s", h.stdout.String())
	}
}

func TestRun_Verbose(t *testing.T) {
	t.Parallel()

	archiveDir, descPath := stickInputs(t, "__:\n  fire: 7\nstick:\n  fire: custom_stick\n")
	h := newHarness(t, staticConfig{})

	if err := h.run(t, "-v", archiveDir, descPath); err != nil {
		t.Fatalf("run error = %v", err)
	}
	assertContains(t, "stdout", h.stdout.String(), "Defining constant", "Resolved")
}

func TestRun_Failures(t *testing.T) {
	t.Parallel()

	vanilla := map[string]string{stickModel: testutil.VanillaStick}
	tests := []struct {
		name     string
		models   map[string]string
		desc     string
		archive  string
		readOnly bool
		wantCode int
		wantErr  string
	}{
		{name: "malformed description", models: vanilla, desc: "stick: [1, 2]\n", wantCode: 2, wantErr: "read description"},
		{name: "constant cycle", models: vanilla, desc: "__: {a: b, b: a}\nstick: {a: x}\n", wantCode: 2, wantErr: "constant cycle"},
		{name: "invalid item", models: vanilla, desc: "\":stick\": {\"1\": x}\n", wantCode: 2, wantErr: "read description"},
		{name: "missing archive", models: vanilla, desc: "stick: {\"1\": x}\n", archive: "missing.jar", wantCode: 3, wantErr: "open archive"},
		{name: "missing entry", models: vanilla, desc: "apple: {\"1\": x}\n", wantCode: 3, wantErr: "item/apple.json"},
		{name: "malformed model", models: map[string]string{stickModel: "[]"}, desc: "stick: {\"1\": x}\n", wantCode: 4, wantErr: "read vanilla model"},
		{name: "write failure", models: vanilla, desc: "stick: {\"1\": x}\n", readOnly: true, wantCode: 5, wantErr: "write resource pack"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			archiveDir, descPath := writeInputs(t, tt.models, "models.yaml", tt.desc)
			if tt.archive != "" {
				archiveDir = filepath.Join(t.TempDir(), tt.archive)
			}
			h := newHarness(t, staticConfig{})
			if tt.readOnly {
				mem := h.mem
				h.app.OutputFs = func(string) afero.Fs { return afero.NewReadOnlyFs(mem) }
			}

			err := h.run(t, archiveDir, descPath)
			assertExitCode(t, err, tt.wantCode)
			assertContains(t, "stderr", h.stderr.String(), "Error:", tt.wantErr)
			if files := h.files(t); len(files) != 0 {
				t.Errorf("failed run wrote %v", files)
			}
		})
	}
}

func TestRun_MissingDescription(t *testing.T) {
	t.Parallel()

	archiveDir, _ := stickInputs(t, "")
	h := newHarness(t, staticConfig{})

	err := h.run(t, archiveDir, filepath.Join(t.TempDir(), "nope.yaml"))
	assertExitCode(t, err, 1)
	assertContains(t, "stderr", h.stderr.String(), "failed to read description", "Check the path of the description file")
}

func TestRun_VerboseFailureShowsIssue(t *testing.T) {
	t.Parallel()

	archiveDir, descPath := stickInputs(t, "apple: {\"1\": x}\n")
	h := newHarness(t, staticConfig{})

	err := h.run(t, "--verbose", archiveDir, descPath)
	assertExitCode(t, err, 3)
	assertContains(t, "stderr", h.stderr.String(), "Error chain:", "not found in the archive")
}

func TestRun_InvalidFormatFlag(t *testing.T) {
	t.Parallel()

	archiveDir, descPath := stickInputs(t, "stick: {\"1\": x}\n")
	h := newHarness(t, staticConfig{})

	err := h.run(t, "--format", "xml", archiveDir, descPath)
	if !errors.Is(err, description.ErrInvalidFormat) {
		t.Fatalf("error = %v, want ErrInvalidFormat", err)
	}
}

func TestRun_ConfigLoadFailure(t *testing.T) {
	t.Parallel()

	archiveDir, descPath := stickInputs(t, "stick: {\"1\": x}\n")
	h := newHarness(t, staticConfig{err: errors.New("config is broken")})

	err := h.run(t, archiveDir, descPath)
	assertExitCode(t, err, 1)
	assertContains(t, "stderr", h.stderr.String(), "config is broken")
}

func TestRun_WrongArgCount(t *testing.T) {
	t.Parallel()

	h := newHarness(t, staticConfig{})
	if err := h.run(t, "only-one.jar"); err == nil {
		t.Fatal("expected an argument count error")
	}
}

func TestRun_WatchStopsOnCancel(t *testing.T) {
	t.Parallel()

	archiveDir, descPath := stickInputs(t, "stick:\n  \"5\": custom_stick\n")
	h := newHarness(t, staticConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := NewRootCommand(h.app)
	root.SetArgs([]string{"--watch", archiveDir, descPath})
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("watch after cancel = %v, want nil", err)
	}
	assertContains(t, "stdout", h.stdout.String(), "Watching", descPath)
}

func TestRun_WatchMissingDescription(t *testing.T) {
	t.Parallel()

	archiveDir, _ := stickInputs(t, "")
	h := newHarness(t, staticConfig{})

	err := h.run(t, "--watch", archiveDir, filepath.Join(t.TempDir(), "nope.yaml"))
	assertExitCode(t, err, 1)
	assertContains(t, "stderr", h.stderr.String(), "failed to watch inputs")
}
