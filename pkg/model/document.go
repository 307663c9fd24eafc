// SPDX-License-Identifier: MPL-2.0

// Package model reads, merges and writes item model JSON documents while
// keeping every field it does not touch exactly as it was read.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/resc/resc/pkg/modeldata"
	"github.com/resc/resc/pkg/override"
)

// OverridesKey is the top-level field that holds the override list.
const OverridesKey = "overrides"

// ErrMalformedDocument is the sentinel error wrapped by MalformedDocumentError.
var ErrMalformedDocument = errors.New("malformed model document")

type (
	// Document is a JSON object whose top-level fields keep their original
	// order and raw bytes. Only the override list is decoded.
	Document struct {
		fields    []field
		overrides []json.RawMessage
		// overridesAt is the index of the overrides field in fields, or -1.
		overridesAt int
	}

	field struct {
		key   string
		value json.RawMessage
	}

	// MalformedDocumentError is returned when a model document is not a JSON
	// object or its overrides field is not an array.
	MalformedDocumentError struct {
		Path string
		Err  error
	}

	predicate struct {
		CustomModelData modeldata.ID `json:"custom_model_data"`
	}

	overrideEntry struct {
		Predicate predicate `json:"predicate"`
		Model     string    `json:"model"`
	}

	stubTextures struct {
		Layer0 string `json:"layer0"`
	}
)

// Error implements the error interface.
func (e *MalformedDocumentError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed model document: %v", e.Err)
	}
	return fmt.Sprintf("malformed model document %s: %v", e.Path, e.Err)
}

// Unwrap returns both ErrMalformedDocument and the underlying cause.
func (e *MalformedDocumentError) Unwrap() []error { return []error{ErrMalformedDocument, e.Err} }

// Parse reads a model document. path only labels errors.
func Parse(data []byte, path string) (*Document, error) {
	doc, err := parse(data)
	if err != nil {
		return nil, &MalformedDocumentError{Path: path, Err: err}
	}
	return doc, nil
}

func parse(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object, got %v", tok)
	}

	doc := &Document{overridesAt: -1}
	seen := map[string]bool{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		if seen[key] {
			return nil, fmt.Errorf("duplicate field %q", key)
		}
		seen[key] = true

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		if key == OverridesKey {
			if err := json.Unmarshal(raw, &doc.overrides); err != nil || doc.overrides == nil {
				return nil, fmt.Errorf("%q must be an array, got %s", OverridesKey, raw)
			}
			doc.overridesAt = len(doc.fields)
		}
		doc.fields = append(doc.fields, field{key: key, value: raw})
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after the top-level object")
	}
	return doc, nil
}

// NewStub returns the model document generated for a newly referenced model:
// a flat item model whose only texture layer is the reference itself.
func NewStub(parent, ref string) (*Document, error) {
	parentRaw, err := encode(parent)
	if err != nil {
		return nil, err
	}
	texturesRaw, err := encode(stubTextures{Layer0: ref})
	if err != nil {
		return nil, err
	}
	return &Document{
		fields: []field{
			{key: "parent", value: parentRaw},
			{key: "textures", value: texturesRaw},
		},
		overridesAt: -1,
	}, nil
}

// Overrides returns the number of entries in the override list.
func (d *Document) Overrides() int { return len(d.overrides) }

// AppendOverrides adds overrides after the existing ones. A document without
// an overrides field gains one as its last field.
func (d *Document) AppendOverrides(overrides []override.Override) error {
	for _, o := range overrides {
		raw, err := encode(overrideEntry{
			Predicate: predicate{CustomModelData: o.CustomModelData},
			Model:     o.Model,
		})
		if err != nil {
			return err
		}
		d.overrides = append(d.overrides, raw)
	}
	return nil
}

// Marshal renders the document followed by a newline. Untouched fields are
// emitted with their original bytes; pretty re-indents the whole document.
func (d *Document) Marshal(pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	writeField := func(key string, value []byte) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := encode(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(value)
		return nil
	}

	for i, f := range d.fields {
		value := []byte(f.value)
		if i == d.overridesAt {
			value = d.overridesArray()
		}
		if err := writeField(f.key, value); err != nil {
			return nil, err
		}
	}
	if d.overridesAt < 0 && len(d.overrides) > 0 {
		if err := writeField(OverridesKey, d.overridesArray()); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')

	if !pretty {
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func (d *Document) overridesArray() []byte {
	out := []byte{'['}
	for i, o := range d.overrides {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, o...)
	}
	return append(out, ']')
}

// encode marshals v without HTML escaping, so model references such as
// "item/<x>" stay readable.
func encode(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}
