package yaml

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// MergeRootFromValue parses YAML data, merges a value at the root,
// and returns the result. Comments and structure in the original data are preserved.
func MergeRootFromValue(data []byte, v any) ([]byte, error) {
	return MergeAt(data, nil, v)
}

// MergeAt sets v under the mapping keys in data, creating missing parent
// mappings, and returns the result. Comments and sibling keys along the path
// are preserved.
//
// The merge happens at the deepest existing mapping on the path, since
// [yaml.Path.MergeFromNode] replaces the value of an existing key instead of
// merging into it.
func MergeAt(data []byte, keys []string, v any) ([]byte, error) {
	file, err := parser.ParseBytes(data, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if v == nil {
		return nil, errors.New("merge yaml: nil value")
	}

	depth := existingDepth(file, keys)

	// Wrap v in the keys that don't exist yet.
	value := v
	for i := len(keys) - 1; i >= depth; i-- {
		value = yaml.MapSlice{{Key: keys[i], Value: value}}
	}
	if depth == len(keys) && depth > 0 {
		// The full path exists; replace the last key through its parent.
		depth--
		value = yaml.MapSlice{{Key: keys[depth], Value: v}}
	}

	node, err := yaml.ValueToNode(value, DefaultEncoderOptions...)
	if err != nil {
		return nil, fmt.Errorf("convert value to node: %w", err)
	}

	err = PathOf(keys[:depth]...).MergeFromNode(file, node)
	if err != nil {
		return nil, fmt.Errorf("merge yaml: %w", err)
	}

	return []byte(file.String()), nil
}

// existingDepth returns how many leading keys resolve to existing mapping
// values in file.
func existingDepth(file *ast.File, keys []string) int {
	for i := range keys {
		node, err := PathOf(keys[:i+1]...).FilterFile(file)
		if err != nil || node == nil {
			return i
		}
		if i < len(keys)-1 {
			if _, ok := node.(*ast.MappingNode); !ok {
				return i
			}
		}
	}

	return len(keys)
}
