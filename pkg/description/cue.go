// SPDX-License-Identifier: MPL-2.0

package description

import (
	"fmt"

	"github.com/resc/resc/pkg/cueutil"

	"cuelang.org/go/cue"
)

// parseCUE compiles the document and walks its regular fields, which CUE
// yields in declaration order. Reserved or numeric labels must be quoted:
//
//	"__": {fire: "sword_fire"}
//	stick: {"5": "custom_stick", fire: "item/$1"}
func parseCUE(b *builder, data []byte) error {
	root, err := cueutil.Compile(data, b.source)
	if err != nil {
		return err
	}
	if k := root.IncompleteKind(); k != cue.StructKind {
		return fmt.Errorf("top level must be a struct, got %s", k)
	}

	entries, err := root.Fields()
	if err != nil {
		return cueutil.FormatError(err, b.source)
	}
	for entries.Next() {
		if err := b.startEntry(entries.Selector().Unquoted()); err != nil {
			return err
		}
		entry := b.desc.Entries[len(b.desc.Entries)-1].Name
		inner := entries.Value()
		if k := inner.IncompleteKind(); k != cue.StructKind {
			return b.malformed(entry, fmt.Errorf("expected a struct, got %s", k))
		}

		pairs, err := inner.Fields()
		if err != nil {
			return cueutil.FormatError(err, b.source)
		}
		for pairs.Next() {
			v, err := cueScalar(pairs.Value())
			if err != nil {
				return err
			}
			if err := b.addPair(pairs.Selector().Unquoted(), v); err != nil {
				return err
			}
		}
	}
	return nil
}

func cueScalar(v cue.Value) (any, error) {
	switch k := v.Kind(); k {
	case cue.StringKind:
		return v.String()
	case cue.IntKind:
		return v.Int(nil)
	case cue.FloatKind:
		return v.Float64()
	case cue.BoolKind:
		return v.Bool()
	case cue.NullKind:
		return nil, nil
	default:
		return nonScalar(k.String()), nil
	}
}
