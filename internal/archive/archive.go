// SPDX-License-Identifier: MPL-2.0

// Package archive provides read-only access to the game archive: a .jar/.zip
// file or a directory holding its extracted contents.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

var (
	// ErrOpen is the sentinel error wrapped by OpenError.
	ErrOpen = errors.New("cannot open archive")

	// ErrEntryMissing is the sentinel error wrapped by EntryMissingError.
	ErrEntryMissing = errors.New("archive entry missing")
)

type (
	// Kind tells a zip archive from an extracted directory.
	Kind string

	// Archive is an open archive. Entry names always use '/' separators.
	Archive struct {
		path   string
		kind   Kind
		fsys   fs.FS
		closer io.Closer
	}

	// OpenError is returned when the archive itself cannot be opened.
	OpenError struct {
		Path string
		Err  error
	}

	// EntryMissingError is returned when a named entry does not exist.
	EntryMissingError struct {
		Archive string
		Name    string
		Err     error
	}
)

const (
	// KindZip is a .jar or .zip file.
	KindZip Kind = "zip"
	// KindDir is a directory tree.
	KindDir Kind = "dir"
)

// Error implements the error interface.
func (e *OpenError) Error() string {
	return fmt.Sprintf("cannot open archive %s: %v", e.Path, e.Err)
}

// Unwrap returns both ErrOpen and the underlying error.
func (e *OpenError) Unwrap() []error { return []error{ErrOpen, e.Err} }

// Error implements the error interface.
func (e *EntryMissingError) Error() string {
	return fmt.Sprintf("%s not found in archive %s", e.Name, e.Archive)
}

// Unwrap returns both ErrEntryMissing and the underlying error.
func (e *EntryMissingError) Unwrap() []error { return []error{ErrEntryMissing, e.Err} }

// Open opens the archive at path. Directories are read in place, anything
// else must be a zip file.
func Open(path string) (*Archive, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	if info.IsDir() {
		return &Archive{path: path, kind: KindDir, fsys: os.DirFS(path)}, nil
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return &Archive{path: path, kind: KindZip, fsys: zr, closer: zr}, nil
}

// Path returns the path the archive was opened from.
func (a *Archive) Path() string { return a.path }

// Kind reports how the archive is stored.
func (a *Archive) Kind() Kind { return a.kind }

// Read returns the contents of the named entry.
func (a *Archive) Read(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &EntryMissingError{Archive: a.path, Name: name, Err: fs.ErrInvalid}
	}

	info, err := fs.Stat(a.fsys, name)
	if err == nil && info.IsDir() {
		err = fmt.Errorf("%s is a directory: %w", name, fs.ErrNotExist)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &EntryMissingError{Archive: a.path, Name: name, Err: err}
		}
		return nil, fmt.Errorf("failed to stat %s in %s: %w", name, a.path, err)
	}

	data, err := fs.ReadFile(a.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from %s: %w", name, a.path, err)
	}
	return data, nil
}

// Close releases the archive. Closing a directory archive is a no-op.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
