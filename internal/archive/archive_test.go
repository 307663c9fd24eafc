// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/resc/resc/internal/testutil"
)

const stickPath = "assets/minecraft/models/item/stick.json"

func openBoth(t *testing.T) map[Kind]*Archive {
	t.Helper()

	files := map[string]string{stickPath: testutil.VanillaStick}
	dir := t.TempDir()

	jar := filepath.Join(dir, "client.jar")
	testutil.MustWriteJar(t, jar, files)
	tree := filepath.Join(dir, "extracted")
	testutil.MustWriteTree(t, tree, files)

	out := map[Kind]*Archive{}
	for kind, path := range map[Kind]string{KindZip: jar, KindDir: tree} {
		a, err := Open(path)
		if err != nil {
			t.Fatalf("Open(%s) error = %v", path, err)
		}
		t.Cleanup(testutil.DeferClose(t, a))
		if a.Kind() != kind {
			t.Errorf("Kind() = %q, want %q", a.Kind(), kind)
		}
		if a.Path() != path {
			t.Errorf("Path() = %q, want %q", a.Path(), path)
		}
		out[kind] = a
	}
	return out
}

func TestRead(t *testing.T) {
	t.Parallel()

	for kind, a := range openBoth(t) {
		t.Run(string(kind), func(t *testing.T) {
			data, err := a.Read(stickPath)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if string(data) != testutil.VanillaStick {
				t.Errorf("Read() = %q", data)
			}
		})
	}
}

func TestReadMissing(t *testing.T) {
	t.Parallel()

	for kind, a := range openBoth(t) {
		t.Run(string(kind), func(t *testing.T) {
			for _, name := range []string{
				"assets/minecraft/models/item/nope.json",
				"assets/minecraft/models/item",
				"../escape.json",
				"/abs.json",
			} {
				_, err := a.Read(name)
				if !errors.Is(err, ErrEntryMissing) {
					t.Errorf("Read(%q) error = %v, want ErrEntryMissing", name, err)
				}
			}
		})
	}
}

func TestOpenErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	notZip := filepath.Join(dir, "not.jar")
	if err := os.WriteFile(notZip, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{filepath.Join(dir, "missing.jar"), notZip} {
		_, err := Open(path)
		if !errors.Is(err, ErrOpen) {
			t.Errorf("Open(%s) error = %v, want ErrOpen", path, err)
		}
		var openErr *OpenError
		if !errors.As(err, &openErr) || openErr.Path != path {
			t.Errorf("Open(%s) error = %#v, want OpenError", path, err)
		}
	}
}

func TestCloseDirIsNoop(t *testing.T) {
	t.Parallel()

	a, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := a.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
