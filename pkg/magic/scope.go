// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package magic

import (
	"fmt"
	"strconv"
	"strings"

	"carvel.dev/blockgen/pkg/orderedmap"
	"carvel.dev/blockgen/pkg/substitute"
)

type ResolutionError struct {
	Expr    string
	Message string
}

func (e ResolutionError) Error() string {
	return fmt.Sprintf("Resolving magic expression '%s': %s", e.Expr, e.Message)
}

// Scope holds what expressions are evaluated against.
type Scope struct {
	Params    *orderedmap.Map
	Variables *orderedmap.Map
	// Namespace qualifies property names in current_block_state.
	Namespace string
	// Bindings maps an expression binding (e.g. "%axis") to the index of
	// the entry currently being iterated over.
	Bindings map[string]int
}

func (s Scope) source(origin Origin) *orderedmap.Map {
	if origin == OriginVariable {
		return s.Variables
	}
	return s.Params
}

// Bind returns a copy of s with binding set to index.
func (s Scope) Bind(binding string, index int) Scope {
	bindings := map[string]int{}
	for k, v := range s.Bindings {
		bindings[k] = v
	}
	bindings[binding] = index
	s.Bindings = bindings
	return s
}

// Evaluate computes the value of expr.
func (s Scope) Evaluate(expr *Expression) (interface{}, error) {
	val, found := s.source(expr.Origin).Get(expr.Property)
	if !found {
		return nil, ResolutionError{expr.Raw, fmt.Sprintf("Expected %s '%s' to be defined", expr.Origin, expr.Property)}
	}

	property := expr.Property

	if expr.HasSubKey() {
		key := expr.SubKey
		if expr.Dynamic != nil {
			dynVal, err := s.Evaluate(expr.Dynamic)
			if err != nil {
				return nil, err
			}
			key = substitute.Stringify(dynVal)
		}

		var err error
		val, err = s.subValue(expr, val, key)
		if err != nil {
			return nil, err
		}
		property = key
	}

	if expr.MetaKey == "" {
		return val, nil
	}

	data := NewData(s.Namespace, property, val)
	if idx, found := s.Bindings[expr.Binding()]; found && !expr.HasSubKey() {
		data.Index = idx
	}

	result, err := data.Get(expr.MetaKey)
	if err != nil {
		return nil, ResolutionError{expr.Raw, err.Error()}
	}
	return result, nil
}

func (s Scope) subValue(expr *Expression, val interface{}, key string) (interface{}, error) {
	switch typedVal := val.(type) {
	case *orderedmap.Map:
		subVal, found := typedVal.Get(key)
		if !found {
			return nil, ResolutionError{expr.Raw, fmt.Sprintf("Expected %s '%s' to have key '%s' (keys: %s)",
				expr.Origin, expr.Property, key, strings.Join(typedVal.Keys(), ", "))}
		}
		return subVal, nil

	case []interface{}:
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, ResolutionError{expr.Raw, fmt.Sprintf("Expected index '%s' of %s '%s' to be an integer", key, expr.Origin, expr.Property)}
		}
		if idx < 0 || idx >= len(typedVal) {
			return nil, ResolutionError{expr.Raw, fmt.Sprintf("Expected index %d of %s '%s' to be within 0..%d",
				idx, expr.Origin, expr.Property, len(typedVal)-1)}
		}
		return typedVal[idx], nil

	default:
		return nil, ResolutionError{expr.Raw, fmt.Sprintf("Expected %s '%s' to be an object or array to look up '%s'",
			expr.Origin, expr.Property, key)}
	}
}

// Expand evaluates expressions in str. A string that is exactly one
// expression becomes its value; otherwise each embedded expression naming
// a defined parameter or variable is replaced by its string form, and the
// others are kept as written.
func (s Scope) Expand(str string) (interface{}, error) {
	if !strings.ContainsAny(str, "%$") {
		return str, nil
	}

	segments, err := Segments(str)
	if err != nil {
		return nil, err
	}

	if len(segments) == 1 && segments[0].Expr != nil {
		val, err := s.Evaluate(segments[0].Expr)
		if err != nil {
			return nil, err
		}
		return orderedmap.DeepCopyValue(val), nil
	}

	var result strings.Builder
	for _, seg := range segments {
		if seg.Expr == nil {
			result.WriteString(seg.Text)
			continue
		}
		// embedded text such as "50%off" is left alone unless it names something
		if !s.source(seg.Expr.Origin).Has(seg.Expr.Property) {
			result.WriteString(seg.Expr.Raw)
			continue
		}
		val, err := s.Evaluate(seg.Expr)
		if err != nil {
			return nil, err
		}
		if list, ok := val.([]interface{}); ok && seg.Expr.MetaKey == MetaKeys {
			// keys embedded in text read as a Molang list
			data := NewData("", "", list)
			result.WriteString(data.KeyList())
			continue
		}
		result.WriteString(substitute.Stringify(val))
	}
	return result.String(), nil
}

// ExpandValue returns a copy of val with Expand applied to every string,
// including object keys. Object keys must expand to strings.
func (s Scope) ExpandValue(val interface{}) (interface{}, error) {
	switch typedVal := val.(type) {
	case *orderedmap.Map:
		result := orderedmap.NewMap()
		err := typedVal.IterateErr(func(k string, v interface{}) error {
			newKey, err := s.Expand(k)
			if err != nil {
				return err
			}
			keyStr, ok := newKey.(string)
			if !ok {
				keyStr = substitute.Stringify(newKey)
			}
			newVal, err := s.ExpandValue(v)
			if err != nil {
				return err
			}
			result.Set(keyStr, newVal)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return result, nil

	case []interface{}:
		result := make([]interface{}, len(typedVal))
		for i, item := range typedVal {
			newItem, err := s.ExpandValue(item)
			if err != nil {
				return nil, err
			}
			result[i] = newItem
		}
		return result, nil

	case string:
		return s.Expand(typedVal)

	default:
		return val, nil
	}
}

// Each returns one scope per entry of the value named by str (e.g.
// "%axis"), with the expression's binding set to that entry.
func (s Scope) Each(str string) ([]Scope, error) {
	expr, err := Parse(str)
	if err != nil {
		return nil, err
	}
	if expr.MetaKey != "" || expr.HasSubKey() {
		return nil, ResolutionError{str, "Expected a plain parameter or variable name to iterate over"}
	}

	val, err := s.Evaluate(expr)
	if err != nil {
		return nil, err
	}

	var scopes []Scope
	for i := 0; i < NewData("", "", val).Length(); i++ {
		scopes = append(scopes, s.Bind(expr.Binding(), i))
	}
	return scopes, nil
}
