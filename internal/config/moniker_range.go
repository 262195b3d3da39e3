package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MonikerRange binds a glob to a range string.
type MonikerRange struct {
	Pattern string `yaml:"pattern"`
	Range   string `yaml:"range"`
}

// MonikerRanges keeps moniker_range entries in declaration order. Declaration
// order is significant: later entries take priority over earlier ones.
//
// Accepted forms:
//
//	moniker_range:
//	  "docs/**": ">= v1"
//	  "docs/special/**": "v2"
//
//	moniker_range:
//	  - pattern: "docs/**"
//	    range: ">= v1"
type MonikerRanges []MonikerRange

// UnmarshalYAML walks the node directly so mapping order survives decoding.
func (m *MonikerRanges) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		out := make(MonikerRanges, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
				return fmt.Errorf("moniker_range line %d: expected \"glob\": \"range\"", k.Line)
			}
			out = append(out, MonikerRange{Pattern: k.Value, Range: v.Value})
		}
		*m = out
		return nil
	case yaml.SequenceNode:
		var list []MonikerRange
		if err := node.Decode(&list); err != nil {
			return err
		}
		*m = list
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*m = nil
			return nil
		}
	}
	return fmt.Errorf("moniker_range line %d: expected a mapping or a list", node.Line)
}

// MarshalYAML emits the mapping form, preserving order.
func (m MonikerRanges) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, r := range m {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: r.Pattern},
			&yaml.Node{Kind: yaml.ScalarNode, Value: r.Range},
		)
	}
	return node, nil
}
