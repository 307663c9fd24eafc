// SPDX-License-Identifier: MPL-2.0

package description

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"
)

// parseTOML reads the expression stream of the document, which preserves
// key order. Items are written as tables or as top-level inline tables:
//
//	["__"]
//	fire = "sword_fire"
//
//	[stick]
//	5 = "custom_stick"
//
//	"mymod:thing" = { fire = "item/$1" }
func parseTOML(b *builder, data []byte) error {
	p := unstable.Parser{}
	p.Reset(data)

	inTable := false
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table:
			name, err := tomlKey(expr.Key())
			if err != nil {
				return err
			}
			if err := b.startEntry(name); err != nil {
				return err
			}
			inTable = true

		case unstable.KeyValue:
			key, err := tomlKey(expr.Key())
			if err != nil {
				return err
			}
			value := expr.Value()
			if !inTable {
				if err := tomlInlineEntry(b, key, value); err != nil {
					return err
				}
				continue
			}
			v, err := tomlScalar(value)
			if err != nil {
				return err
			}
			if err := b.addPair(key, v); err != nil {
				return err
			}

		case unstable.ArrayTable:
			name, _ := tomlKey(expr.Key())
			return fmt.Errorf("array table [[%s]] is not supported", name)
		}
	}
	return p.Error()
}

// tomlInlineEntry handles `item = { key = "model" }` before any table header.
func tomlInlineEntry(b *builder, name string, value *unstable.Node) error {
	if err := b.startEntry(name); err != nil {
		return err
	}
	if value.Kind != unstable.InlineTable {
		return b.malformed(name, fmt.Errorf("expected a table, got %s", value.Kind))
	}
	children := value.Children()
	for children.Next() {
		kv := children.Node()
		key, err := tomlKey(kv.Key())
		if err != nil {
			return err
		}
		v, err := tomlScalar(kv.Value())
		if err != nil {
			return err
		}
		if err := b.addPair(key, v); err != nil {
			return err
		}
	}
	return nil
}

// tomlKey joins a key iterator. Dotted keys would address nested tables,
// which a description does not have.
func tomlKey(it unstable.Iterator) (string, error) {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	if len(parts) != 1 {
		return "", fmt.Errorf("dotted key %q is not supported", strings.Join(parts, "."))
	}
	return parts[0], nil
}

func tomlScalar(n *unstable.Node) (any, error) {
	switch n.Kind {
	case unstable.String:
		return string(n.Data), nil
	case unstable.Integer:
		return parseTOMLInt(string(n.Data))
	case unstable.Float:
		return strconv.ParseFloat(strings.ReplaceAll(string(n.Data), "_", ""), 64)
	case unstable.Bool:
		return string(n.Data) == "true", nil
	case unstable.Array:
		return nonScalar("array"), nil
	case unstable.InlineTable:
		return nonScalar("table"), nil
	default:
		return string(n.Data), nil
	}
}

// parseTOMLInt accepts the TOML integer forms: decimal with underscores and
// 0x, 0o, 0b prefixed literals.
func parseTOMLInt(s string) (int64, error) {
	s = strings.ReplaceAll(s, "_", "")
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0o"):
		base, s = 8, s[2:]
	case strings.HasPrefix(s, "0b"):
		base, s = 2, s[2:]
	}
	n, err := strconv.ParseInt(s, base, 64)
	if err != nil {
		return 0, errors.New("integer " + strconv.Quote(s) + " out of range")
	}
	return n, nil
}
