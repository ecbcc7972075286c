// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package datameta

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"carvel.dev/blockgen/pkg/orderedmap"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func FormatFromPath(path string) (Format, bool) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".json"), strings.HasSuffix(lower, ".jsonc"):
		return FormatJSON, true
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML, true
	default:
		return FormatJSON, false
	}
}

type Parser struct {
	format Format
}

func NewParser(format Format) Parser { return Parser{format} }

// Parse decodes a single document. Comments and trailing commas
// are accepted in JSON input.
func (p Parser) Parse(data []byte, desc string) (interface{}, error) {
	switch p.format {
	case FormatYAML:
		return p.parseYAML(data, desc)
	default:
		return p.parseJSON(data, desc)
	}
}

// ParseMap is Parse that additionally expects the document to be an object.
func (p Parser) ParseMap(data []byte, desc string) (*orderedmap.Map, error) {
	val, err := p.Parse(data, desc)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return orderedmap.NewMap(), nil
	}
	typedVal, ok := val.(*orderedmap.Map)
	if !ok {
		return nil, fmt.Errorf("Expected %s to contain an object, but was %s", desc, TypeName(val))
	}
	return typedVal, nil
}

func (p Parser) parseJSON(data []byte, desc string) (interface{}, error) {
	stripped := jsonc.ToJSON(data)
	if len(bytes.TrimSpace(stripped)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(stripped))
	dec.UseNumber()

	val, err := p.decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("Unmarshaling %s: %w", desc, err)
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("Unmarshaling %s: Expected a single document", desc)
	}

	return val, nil
}

func (p Parser) decodeJSONValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch typedTok := tok.(type) {
	case json.Delim:
		switch typedTok {
		case '{':
			result := orderedmap.NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("Expected object key to be a string, but was %v", keyTok)
				}
				val, err := p.decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				result.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return result, nil

		case '[':
			result := []interface{}{}
			for dec.More() {
				val, err := p.decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				result = append(result, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return result, nil

		default:
			return nil, fmt.Errorf("Unexpected delimiter '%s'", typedTok)
		}

	case json.Number:
		if intVal, err := typedTok.Int64(); err == nil {
			return intVal, nil
		}
		return typedTok.Float64()

	default:
		// string, bool or nil
		return typedTok, nil
	}
}

func (p Parser) parseYAML(data []byte, desc string) (interface{}, error) {
	var doc yaml.Node

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("Unmarshaling %s: %w", desc, err)
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	val, err := p.convertYAMLNode(doc.Content[0])
	if err != nil {
		return nil, fmt.Errorf("Unmarshaling %s: %w", desc, err)
	}
	return val, nil
}

func (p Parser) convertYAMLNode(node *yaml.Node) (interface{}, error) {
	switch node.Kind {
	case yaml.MappingNode:
		result := orderedmap.NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: Expected object key to be a scalar", keyNode.Line)
			}
			val, err := p.convertYAMLNode(valNode)
			if err != nil {
				return nil, err
			}
			result.Set(keyNode.Value, val)
		}
		return result, nil

	case yaml.SequenceNode:
		result := []interface{}{}
		for _, itemNode := range node.Content {
			val, err := p.convertYAMLNode(itemNode)
			if err != nil {
				return nil, err
			}
			result = append(result, val)
		}
		return result, nil

	case yaml.AliasNode:
		return p.convertYAMLNode(node.Alias)

	case yaml.ScalarNode:
		var val interface{}
		if err := node.Decode(&val); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		switch typedVal := val.(type) {
		case int:
			return int64(typedVal), nil
		case uint64:
			return float64(typedVal), nil
		default:
			return val, nil
		}

	default:
		return nil, fmt.Errorf("line %d: Unsupported YAML node", node.Line)
	}
}

// TypeName describes the kind of a data model value for error messages.
func TypeName(val interface{}) string {
	switch val.(type) {
	case *orderedmap.Map:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, float64:
		return "number"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", val)
	}
}
