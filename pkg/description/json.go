// SPDX-License-Identifier: MPL-2.0

package description

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
)

// parseJSON streams tokens so that object key order is kept.
func parseJSON(b *builder, data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.New("description is empty")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '{', "top level"); err != nil {
		return err
	}
	for dec.More() {
		name, err := dec.Token()
		if err != nil {
			return err
		}
		if err := b.startEntry(name); err != nil {
			return err
		}
		entry := b.desc.Entries[len(b.desc.Entries)-1].Name
		if err := expectDelim(dec, '{', entry); err != nil {
			return b.malformed(entry, err)
		}
		for dec.More() {
			key, err := dec.Token()
			if err != nil {
				return err
			}
			value, err := jsonScalar(dec)
			if err != nil {
				return err
			}
			if err := b.addPair(key, value); err != nil {
				return err
			}
		}
		if _, err := dec.Token(); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after top-level object")
	}
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim, what string) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%s must be an object, got %v", what, describeToken(tok))
	}
	return nil
}

// jsonScalar reads one value. Arrays and objects are skipped whole and
// reported as non-scalars.
func jsonScalar(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		kind := "object"
		if t == '[' {
			kind = "array"
		}
		for depth := 1; depth > 0; {
			next, err := dec.Token()
			if err != nil {
				return nil, err
			}
			if d, ok := next.(json.Delim); ok {
				if d == '{' || d == '[' {
					depth++
				} else {
					depth--
				}
			}
		}
		return nonScalar(kind), nil
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}
		if n, ok := new(big.Int).SetString(t.String(), 10); ok {
			return n, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return t, nil
	}
}

func describeToken(tok json.Token) string {
	switch t := tok.(type) {
	case json.Delim:
		return string(t)
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", t)
	}
}
