package jsondoc

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// maxAliasDepth bounds alias expansion so self-referencing anchors fail
// instead of recursing forever
const maxAliasDepth = 64

// ParseYAML parses a YAML document into the document model. Mapping order is
// kept; keys must be scalars.
func ParseYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Offset: -1, Msg: "invalid YAML", Err: err}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	v, err := fromYAML(doc.Content[0], 0)
	if err != nil {
		return nil, &ParseError{Offset: -1, Msg: "unsupported YAML", Err: err}
	}
	return v, nil
}

func fromYAML(n *yaml.Node, aliasDepth int) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAML(n.Content[0], aliasDepth)

	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valueNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			child, err := fromYAML(valueNode, aliasDepth)
			if err != nil {
				return nil, err
			}
			obj.Set(keyNode.Value, child)
		}
		return obj, nil

	case yaml.SequenceNode:
		arr := NewArray()
		for _, item := range n.Content {
			child, err := fromYAML(item, aliasDepth)
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, child)
		}
		return arr, nil

	case yaml.AliasNode:
		if aliasDepth >= maxAliasDepth || n.Alias == nil {
			return nil, fmt.Errorf("line %d: alias nesting too deep", n.Line)
		}
		return fromYAML(n.Alias, aliasDepth+1)

	case yaml.ScalarNode:
		return yamlScalar(n)
	}

	return nil, fmt.Errorf("line %d: unsupported node kind %v", n.Line, n.Kind)
}

func yamlScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, err
		}
		return Number(strconv.FormatInt(i, 10)), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("line %d: %s has no JSON representation", n.Line, n.Value)
		}
		return Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	default:
		return n.Value, nil
	}
}
