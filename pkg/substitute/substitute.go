// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package substitute

import (
	"fmt"
	"regexp"
	"strings"

	"carvel.dev/blockgen/pkg/datameta"
	"carvel.dev/blockgen/pkg/orderedmap"
)

type Options struct {
	Open  string
	Close string
	// ReferencePrefix marks a string that is a reference to a variable.
	ReferencePrefix string
	// RemoveUnmatched drops placeholders that name no variable.
	RemoveUnmatched bool
	// RemoveMissing deletes references that name no variable instead of keeping them.
	RemoveMissing bool
}

func DefaultOptions() Options {
	return Options{Open: "{{", Close: "}}", ReferencePrefix: "$"}
}

type Substituter struct {
	opts        Options
	placeholder *regexp.Regexp
	reference   *regexp.Regexp
}

func New(opts Options) Substituter {
	defaults := DefaultOptions()
	if opts.Open == "" || opts.Close == "" {
		opts.Open, opts.Close = defaults.Open, defaults.Close
	}
	if opts.ReferencePrefix == "" {
		opts.ReferencePrefix = defaults.ReferencePrefix
	}
	return Substituter{
		opts:        opts,
		placeholder: regexp.MustCompile(regexp.QuoteMeta(opts.Open) + `\s*(.+?)\s*` + regexp.QuoteMeta(opts.Close)),
		reference:   regexp.MustCompile(`^` + regexp.QuoteMeta(opts.ReferencePrefix) + `([A-Za-z_][A-Za-z0-9_.]*)$`),
	}
}

func NewDefault() Substituter { return New(DefaultOptions()) }

func (s Substituter) Options() Options { return s.opts }

// Resolve applies References and then TemplateStrings.
func (s Substituter) Resolve(val interface{}, vars *orderedmap.Map) interface{} {
	return s.TemplateStrings(s.References(val, vars), vars)
}

// TemplateStrings returns a copy of val with placeholders replaced in
// strings, object keys and array elements. A string that is exactly one
// placeholder takes the variable's value as is, keeping its type.
func (s Substituter) TemplateStrings(val interface{}, vars *orderedmap.Map) interface{} {
	switch typedVal := val.(type) {
	case *orderedmap.Map:
		result := orderedmap.NewMap()
		typedVal.Iterate(func(k string, v interface{}) {
			result.Set(s.String(k, vars), s.TemplateStrings(v, vars))
		})
		return result

	case []interface{}:
		result := make([]interface{}, len(typedVal))
		for i, item := range typedVal {
			result[i] = s.TemplateStrings(item, vars)
		}
		return result

	case string:
		if match := s.placeholder.FindStringSubmatchIndex(typedVal); match != nil && match[0] == 0 && match[1] == len(typedVal) {
			name := typedVal[match[2]:match[3]]
			if found, ok := Lookup(vars, name); ok {
				return orderedmap.DeepCopyValue(found)
			}
		}
		return s.String(typedVal, vars)

	default:
		return val
	}
}

// String replaces placeholders inside str with the string form of their values.
func (s Substituter) String(str string, vars *orderedmap.Map) string {
	if !strings.Contains(str, s.opts.Open) {
		return str
	}
	return s.placeholder.ReplaceAllStringFunc(str, func(match string) string {
		name := s.placeholder.FindStringSubmatch(match)[1]
		if found, ok := Lookup(vars, name); ok {
			return Stringify(found)
		}
		if s.opts.RemoveUnmatched {
			return ""
		}
		return match
	})
}

// References returns a copy of val with every reference replaced by a
// copy of the referenced value. Missing references are kept, or removed
// from their containing object/array when RemoveMissing is set.
func (s Substituter) References(val interface{}, vars *orderedmap.Map) interface{} {
	result, _ := s.references(val, vars)
	return result
}

func (s Substituter) references(val interface{}, vars *orderedmap.Map) (interface{}, bool) {
	switch typedVal := val.(type) {
	case *orderedmap.Map:
		result := orderedmap.NewMap()
		typedVal.Iterate(func(k string, v interface{}) {
			if newVal, keep := s.references(v, vars); keep {
				result.Set(k, newVal)
			}
		})
		return result, true

	case []interface{}:
		result := make([]interface{}, 0, len(typedVal))
		for _, item := range typedVal {
			if newVal, keep := s.references(item, vars); keep {
				result = append(result, newVal)
			}
		}
		return result, true

	case string:
		name, isRef := s.ReferenceName(typedVal)
		if !isRef {
			return typedVal, true
		}
		if found, ok := Lookup(vars, name); ok {
			return orderedmap.DeepCopyValue(found), true
		}
		return typedVal, !s.opts.RemoveMissing

	default:
		return val, true
	}
}

// ReferenceName reports whether str is a reference and to which variable.
func (s Substituter) ReferenceName(str string) (string, bool) {
	match := s.reference.FindStringSubmatch(str)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// Placeholders lists variable names used as placeholders anywhere in val.
func (s Substituter) Placeholders(val interface{}) []string {
	var names []string
	s.visitStrings(val, func(str string) {
		for _, match := range s.placeholder.FindAllStringSubmatch(str, -1) {
			names = append(names, match[1])
		}
	})
	return names
}

// ReferencedNames lists variable names referenced anywhere in val.
func (s Substituter) ReferencedNames(val interface{}) []string {
	var names []string
	s.visitStrings(val, func(str string) {
		if name, ok := s.ReferenceName(str); ok {
			names = append(names, name)
		}
	})
	return names
}

func (s Substituter) visitStrings(val interface{}, fn func(string)) {
	switch typedVal := val.(type) {
	case *orderedmap.Map:
		typedVal.Iterate(func(k string, v interface{}) {
			fn(k)
			s.visitStrings(v, fn)
		})
	case []interface{}:
		for _, item := range typedVal {
			s.visitStrings(item, fn)
		}
	case string:
		fn(typedVal)
	}
}

// Lookup finds name in vars. Dotted names descend into nested objects
// when no variable has the full dotted name.
func Lookup(vars *orderedmap.Map, name string) (interface{}, bool) {
	if val, found := vars.Get(name); found {
		return val, true
	}
	pieces := strings.Split(name, ".")
	if len(pieces) == 1 {
		return nil, false
	}
	var current interface{} = vars
	for _, piece := range pieces {
		typedCurrent, ok := current.(*orderedmap.Map)
		if !ok {
			return nil, false
		}
		current, ok = typedCurrent.Get(piece)
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Stringify renders a value for embedding inside a string.
func Stringify(val interface{}) string {
	switch typedVal := val.(type) {
	case string:
		return typedVal
	case nil:
		return "null"
	case float64:
		return fmt.Sprintf("%g", typedVal)
	case *orderedmap.Map, []interface{}:
		bs, err := jsonCompact(typedVal)
		if err != nil {
			return fmt.Sprintf("%v", typedVal)
		}
		return bs
	default:
		return fmt.Sprintf("%v", typedVal)
	}
}

func jsonCompact(val interface{}) (string, error) {
	bs, err := datameta.NewCompactJSONPrinter().Print(val)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(bs), "\n"), nil
}
