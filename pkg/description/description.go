// SPDX-License-Identifier: MPL-2.0

package description

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/resc/resc/pkg/modeldata"
)

// ConstantsKey is the reserved top-level key whose mapping defines constants
// instead of naming an item.
const ConstantsKey = "__"

var (
	// ErrMalformed is the sentinel error wrapped by MalformedError.
	ErrMalformed = errors.New("malformed description")

	errNotScalar = errors.New("expected a scalar value")
	errNull      = errors.New("null value")
)

type (
	// Pair is one inner-mapping entry: a symbolic key and its target.
	Pair struct {
		Key    string
		Target string
	}

	// Entry is one top-level entry of a description, in document order.
	// For the constants entry, Pairs holds name/value pairs.
	Entry struct {
		Name  string
		Pairs []Pair
	}

	// Description is the parsed description document.
	Description struct {
		// Source is the file the description was read from, if any.
		Source  string
		Entries []Entry
	}

	// nonScalar stands in for a mapping or list where a scalar is required.
	nonScalar string

	// MalformedError is returned when a description cannot be parsed or does
	// not have the expected mapping-of-mappings shape. It wraps ErrMalformed.
	MalformedError struct {
		Source string
		// Path locates the offending node ("stick", "__.foo"); empty for
		// whole-document parse failures.
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *MalformedError) Error() string {
	source := e.Source
	if source == "" {
		source = "<input>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", source, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", source, e.Err)
}

// Unwrap returns both ErrMalformed and the underlying parser error.
func (e *MalformedError) Unwrap() []error { return []error{ErrMalformed, e.Err} }

// IsConstants reports whether e is the constants entry.
func (e Entry) IsConstants() bool { return e.Name == ConstantsKey }

// Constants returns the entry's pairs as a constant table.
func (e Entry) Constants() modeldata.Constants {
	consts := make(modeldata.Constants, len(e.Pairs))
	for _, p := range e.Pairs {
		consts[p.Key] = p.Target
	}
	return consts
}

// builder accumulates entries while enforcing unique keys at both levels.
type builder struct {
	source string
	desc   Description
	seen   map[string]bool
	inner  map[string]bool
}

func newBuilder(source string) *builder {
	return &builder{
		source: source,
		desc:   Description{Source: source},
		seen:   map[string]bool{},
	}
}

func (b *builder) malformed(path string, err error) error {
	return &MalformedError{Source: b.source, Path: path, Err: err}
}

// startEntry opens a new top-level entry.
func (b *builder) startEntry(name any) error {
	text, err := scalarText(name, false)
	if err != nil {
		return b.malformed("", fmt.Errorf("top-level key: %w", err))
	}
	if b.seen[text] {
		return b.malformed(text, errors.New("duplicate top-level key"))
	}
	b.seen[text] = true
	b.inner = map[string]bool{}
	b.desc.Entries = append(b.desc.Entries, Entry{Name: text})
	return nil
}

// addPair appends a pair to the current entry.
func (b *builder) addPair(key, value any) error {
	entry := &b.desc.Entries[len(b.desc.Entries)-1]
	constant := entry.IsConstants()

	k, err := scalarText(key, false)
	if err != nil {
		return b.malformed(entry.Name, fmt.Errorf("key: %w", err))
	}
	path := entry.Name + "." + k
	if b.inner[k] {
		return b.malformed(path, errors.New("duplicate key"))
	}
	v, err := scalarText(value, constant)
	if err != nil {
		return b.malformed(path, err)
	}
	b.inner[k] = true
	entry.Pairs = append(entry.Pairs, Pair{Key: k, Target: v})
	return nil
}

func (b *builder) build() (*Description, error) {
	if len(b.desc.Entries) == 0 {
		return nil, b.malformed("", errors.New("description is empty"))
	}
	d := b.desc
	return &d, nil
}

// scalarText renders a decoded scalar as the text the resolver and the
// placeholder substitution work on. Other scalars read the way Python's str()
// prints them (1.0, True). Constant values are coerced the way int() would:
// floats truncate toward zero and booleans become 1 or 0.
func scalarText(v any, constant bool) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case *big.Int:
		return v.String(), nil
	case float64:
		if constant {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return "", fmt.Errorf("constant %v is not a finite number", v)
			}
			n, _ := big.NewFloat(v).Int(nil)
			return n.String(), nil
		}
		return floatText(v), nil
	case bool:
		switch {
		case constant && v:
			return "1", nil
		case constant:
			return "0", nil
		case v:
			return "True", nil
		default:
			return "False", nil
		}
	case nil:
		return "", errNull
	case nonScalar:
		return "", fmt.Errorf("%w, got %s", errNotScalar, string(v))
	default:
		return "", fmt.Errorf("%w, got %T", errNotScalar, v)
	}
}

// floatText formats f as the shortest text that reads back as f, always with
// a fraction or an exponent: 1.0, 0.0001, 1e-05, 1e+16.
func floatText(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return sci
	}
	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(fixed, ".") {
		fixed += ".0"
	}
	return fixed
}
