// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/resc/resc/internal/config"
	"github.com/resc/resc/internal/testutil"

	"github.com/spf13/afero"
)

const (
	stickModel  = "assets/minecraft/models/item/stick.json"
	customStick = "assets/minecraft/models/custom_stick.json"
)

type (
	// staticConfig is a config.Provider returning a fixed configuration.
	staticConfig struct {
		cfg *config.Config
		err error
	}

	// harness runs commands against an in-memory output file system.
	harness struct {
		app       *App
		mem       afero.Fs
		outputDir string
		stdout    bytes.Buffer
		stderr    bytes.Buffer
	}
)

func (s staticConfig) Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.cfg == nil {
		return config.DefaultConfig(), nil
	}
	cfg := *s.cfg
	return &cfg, nil
}

func newHarness(t *testing.T, provider config.Provider) *harness {
	t.Helper()

	h := &harness{mem: afero.NewMemMapFs()}
	h.app = NewApp(Dependencies{
		Config: provider,
		OutputFs: func(dir string) afero.Fs {
			h.outputDir = dir
			return h.mem
		},
		Stdout: &h.stdout,
		Stderr: &h.stderr,
	})
	return h
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()

	root := NewRootCommand(h.app)
	root.SetArgs(args)
	root.SetOut(&h.stdout)
	root.SetErr(&h.stderr)
	return root.ExecuteContext(context.Background())
}

func (h *harness) files(t *testing.T) []string {
	t.Helper()

	var out []string
	err := afero.Walk(h.mem, "/", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			out = append(out, filepath.ToSlash(path))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walking output: %v", err)
	}
	return out
}

func (h *harness) read(t *testing.T, path string) string {
	t.Helper()

	data, err := afero.ReadFile(h.mem, filepath.FromSlash(path))
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// writeInputs writes an extracted jar directory and a description file,
// returning their paths.
func writeInputs(t *testing.T, models map[string]string, descName, desc string) (archiveDir, descPath string) {
	t.Helper()

	dir := t.TempDir()
	archiveDir = filepath.Join(dir, "jar")
	testutil.MustWriteTree(t, archiveDir, models)
	descPath = filepath.Join(dir, descName)
	if err := os.WriteFile(descPath, []byte(desc), 0o644); err != nil {
		t.Fatal(err)
	}
	return archiveDir, descPath
}

func stickInputs(t *testing.T, desc string) (string, string) {
	t.Helper()
	return writeInputs(t, map[string]string{stickModel: testutil.VanillaStick}, "models.yaml", desc)
}

func assertExitCode(t *testing.T, err error, want int) {
	t.Helper()

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v (%T), want *ExitError", err, err)
	}
	if int(exitErr.Code) != want {
		t.Errorf("exit code = %d, want %d (error: %v)", exitErr.Code, want, err)
	}
}

func assertContains(t *testing.T, what, got string, wants ...string) {
	t.Helper()

	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("%s does not contain %q:\n%s", what, want, got)
		}
	}
}
