// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package blockstate

import (
	"fmt"

	"carvel.dev/blockgen/pkg/datameta"
)

const (
	// AnyType is the separators key matching every step type.
	AnyType = "*"

	DefaultNameSeparator  = "_"
	DefaultTitleSeparator = " "
)

// Separator is placed around a step when joining it to the steps before it.
// A single string separator has an empty After.
type Separator struct {
	Before string
	After  string
}

func (s Separator) wrap(str string) string { return s.Before + str + s.After }

// Separators maps step types to separators.
type Separators struct {
	byType   map[string]Separator
	fallback string
}

func NewNameSeparators(byType map[string]Separator) Separators {
	return Separators{byType: byType, fallback: DefaultNameSeparator}
}

func NewTitleSeparators(byType map[string]Separator) Separators {
	return Separators{byType: byType, fallback: DefaultTitleSeparator}
}

// For finds the separator for typ, trying typ, "*" and "default" in
// that order before the built in fallback.
func (s Separators) For(typ string) Separator {
	for _, key := range []string{typ, AnyType, StepDefault} {
		if sep, found := s.byType[key]; found {
			return sep
		}
	}
	return Separator{Before: s.fallback}
}

// ParseSeparator accepts a string or a [before, after] pair.
func ParseSeparator(val interface{}) (Separator, error) {
	switch typedVal := val.(type) {
	case string:
		return Separator{Before: typedVal}, nil

	case []interface{}:
		if len(typedVal) != 2 {
			return Separator{}, fmt.Errorf("Expected separator pair to have 2 items, but had %d", len(typedVal))
		}
		before, beforeOk := typedVal[0].(string)
		after, afterOk := typedVal[1].(string)
		if !beforeOk || !afterOk {
			return Separator{}, fmt.Errorf("Expected separator pair to contain strings")
		}
		return Separator{Before: before, After: after}, nil

	case []string:
		return ParseSeparator(stringsAsValues(typedVal))

	default:
		return Separator{}, fmt.Errorf("Expected separator to be a string or [before, after] pair, but was %s",
			datameta.TypeName(val))
	}
}

func stringsAsValues(strs []string) []interface{} {
	result := make([]interface{}, len(strs))
	for i, str := range strs {
		result[i] = str
	}
	return result
}

// ParseSeparators converts a type-keyed table of separators.
func ParseSeparators(table map[string]interface{}) (map[string]Separator, error) {
	result := map[string]Separator{}
	for typ, val := range table {
		sep, err := ParseSeparator(val)
		if err != nil {
			return nil, fmt.Errorf("Separator for type '%s': %s", typ, err)
		}
		result[typ] = sep
	}
	return result, nil
}
