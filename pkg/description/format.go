// SPDX-License-Identifier: MPL-2.0

package description

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const (
	// FormatYAML is the default description format.
	FormatYAML Format = "yaml"
	// FormatJSON reads the description as a JSON object of objects.
	FormatJSON Format = "json"
	// FormatCUE reads the description as a CUE struct of structs.
	FormatCUE Format = "cue"
	// FormatTOML reads the description as a TOML document of tables.
	FormatTOML Format = "toml"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid description format")

type (
	// Format names a description serialization.
	// The zero value ("") means "detect from the file extension".
	Format string

	// InvalidFormatError is returned when a Format value is not recognized.
	InvalidFormatError struct {
		Value Format
	}

	parseFunc func(b *builder, data []byte) error
)

var parsers = map[Format]parseFunc{
	FormatYAML: parseYAML,
	FormatJSON: parseJSON,
	FormatCUE:  parseCUE,
	FormatTOML: parseTOML,
}

// Formats returns every supported format, sorted.
func Formats() []Format {
	return slices.Sorted(maps.Keys(parsers))
}

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid description format %q (valid: yaml, json, cue, toml)", e.Value)
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// Validate returns an error if f is neither empty nor a supported format.
func (f Format) Validate() error {
	if f == "" {
		return nil
	}
	if _, ok := parsers[f]; !ok {
		return &InvalidFormatError{Value: f}
	}
	return nil
}

// DetectFormat picks a format from the file extension, defaulting to YAML.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".cue":
		return FormatCUE
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// Parse decodes data in the given format. source names the input in errors.
func Parse(data []byte, format Format, source string) (*Description, error) {
	if format == "" {
		format = DetectFormat(source)
	}
	parse, ok := parsers[format]
	if !ok {
		return nil, &InvalidFormatError{Value: format}
	}

	b := newBuilder(source)
	if err := parse(b, data); err != nil {
		var malformed *MalformedError
		if errors.As(err, &malformed) {
			return nil, err
		}
		return nil, b.malformed("", err)
	}
	return b.build()
}

// Load reads and parses the description file at path. An empty format is
// detected from the extension.
func Load(path string, format Format) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read description: %w", err)
	}
	return Parse(data, format, path)
}
