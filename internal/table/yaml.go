package table

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarshalYAML renders the record as a YAML mapping with keys in insertion
// order. Needed because the CLI prints responses as YAML by default and
// the encoder cannot see the record's unexported fields.
func (r *Record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range r.keys {
		keyNode := &yaml.Node{}
		keyNode.SetString(k)

		valNode, err := encodeYAMLValue(r.values[k])
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

func encodeYAMLValue(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case json.Number:
		// Keep numbers as numbers instead of quoted strings.
		node := &yaml.Node{Kind: yaml.ScalarNode, Value: t.String()}
		if strings.ContainsAny(t.String(), ".eE") {
			node.Tag = "!!float"
		} else {
			node.Tag = "!!int"
		}
		return node, nil
	case *Record:
		v, err := t.MarshalYAML()
		if err != nil {
			return nil, err
		}
		return v.(*yaml.Node), nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, el := range t {
			en, err := encodeYAMLValue(el)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, en)
		}
		return node, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, err
		}
		return node, nil
	}
}
