// SPDX-License-Identifier: MPL-2.0

package description

import (
	"errors"
	"fmt"
	"math/big"

	"gopkg.in/yaml.v3"
)

// parseYAML walks the node tree rather than decoding into a map so that
// document order survives.
func parseYAML(b *builder, data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return errors.New("description is empty")
	}

	root := deref(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: top level must be a mapping, got %s", root.Line, yamlKind(root))
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := deref(root.Content[i]), deref(root.Content[i+1])
		name, err := yamlScalar(keyNode)
		if err != nil {
			return err
		}
		if err := b.startEntry(name); err != nil {
			return err
		}
		entry := b.desc.Entries[len(b.desc.Entries)-1].Name
		if valueNode.Kind != yaml.MappingNode {
			return b.malformed(entry, fmt.Errorf("line %d: expected a mapping, got %s", valueNode.Line, yamlKind(valueNode)))
		}

		for j := 0; j+1 < len(valueNode.Content); j += 2 {
			k, err := yamlScalar(deref(valueNode.Content[j]))
			if err != nil {
				return err
			}
			v, err := yamlScalar(deref(valueNode.Content[j+1]))
			if err != nil {
				return err
			}
			if err := b.addPair(k, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// yamlScalar decodes a scalar node with the YAML core schema so that tagged
// integers, floats, booleans and nulls reach scalarText as Go values.
func yamlScalar(n *yaml.Node) (any, error) {
	if n.Kind != yaml.ScalarNode {
		return nonScalar(yamlKind(n)), nil
	}
	switch n.ShortTag() {
	case "!!str", "!!binary":
		return n.Value, nil
	case "!!null":
		return nil, nil
	case "!!int", "!!float":
		// integers beyond 64 bits resolve as floats
		if i, ok := new(big.Int).SetString(n.Value, 10); ok && !i.IsInt64() {
			return i, nil
		}
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	return v, nil
}

func deref(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func yamlKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return "null"
		}
		return "scalar"
	default:
		return "document"
	}
}
