// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"fmt"
	"strings"

	"carvel.dev/blockgen/pkg/orderedmap"
)

type Options struct {
	// OverwriteArrays replaces target arrays instead of appending to them.
	OverwriteArrays bool
	// OverwriteTarget replaces every top level key of target with the source value.
	OverwriteTarget bool
	// MergeKeys are key names that always merge recursively, even when OverwriteArrays is set.
	MergeKeys []string
}

func (o Options) isMergeKey(key string) bool {
	for _, k := range o.MergeKeys {
		if k == key {
			return true
		}
	}
	return false
}

type TypeMismatchError struct {
	Path     []string
	Expected string
	Found    string
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("Expected value at '%s' to be %s (to merge with existing value), but was %s",
		strings.Join(e.Path, "."), e.Expected, e.Found)
}

// Maps merges source into target in place. Values taken from source
// are deep copied so target never aliases source.
func Maps(target, source *orderedmap.Map, opts Options) error {
	return Op{opts}.mergeMap(target, source, nil)
}

// Values returns the result of merging source onto target. Maps are merged
// in place into target; arrays are rebuilt.
func Values(target, source interface{}, opts Options) (interface{}, error) {
	return Op{opts}.mergeValue(target, source, nil, false)
}

type Op struct {
	opts Options
}

func (o Op) mergeMap(target, source *orderedmap.Map, path []string) error {
	return source.IterateErr(func(key string, srcVal interface{}) error {
		itemPath := append(append([]string(nil), path...), key)

		leftVal, found := target.Get(key)
		if !found || (o.opts.OverwriteTarget && len(path) == 0) {
			target.Set(key, orderedmap.DeepCopyValue(srcVal))
			return nil
		}

		newVal, err := o.mergeValue(leftVal, srcVal, itemPath, o.opts.isMergeKey(key))
		if err != nil {
			return err
		}
		target.Set(key, newVal)
		return nil
	})
}

func (o Op) mergeValue(leftVal, srcVal interface{}, path []string, forceMerge bool) (interface{}, error) {
	switch typedSrc := srcVal.(type) {
	case *orderedmap.Map:
		switch typedLeft := leftVal.(type) {
		case *orderedmap.Map:
			err := o.mergeMap(typedLeft, typedSrc, path)
			if err != nil {
				return nil, err
			}
			return typedLeft, nil
		case []interface{}:
			return nil, TypeMismatchError{Path: path, Expected: "array", Found: "object"}
		default:
			return typedSrc.DeepCopy(), nil
		}

	case []interface{}:
		switch typedLeft := leftVal.(type) {
		case []interface{}:
			if o.opts.OverwriteArrays && !forceMerge {
				return orderedmap.DeepCopyValue(typedSrc), nil
			}
			result := make([]interface{}, 0, len(typedLeft)+len(typedSrc))
			result = append(result, typedLeft...)
			for _, item := range typedSrc {
				result = append(result, orderedmap.DeepCopyValue(item))
			}
			return result, nil
		case *orderedmap.Map:
			return nil, TypeMismatchError{Path: path, Expected: "object", Found: "array"}
		default:
			return orderedmap.DeepCopyValue(typedSrc), nil
		}

	default:
		return srcVal, nil
	}
}

// Clone is a convenience for merging a list of maps, base first, into a fresh map.
func Clone(opts Options, maps ...*orderedmap.Map) (*orderedmap.Map, error) {
	result := orderedmap.NewMap()
	for _, m := range maps {
		if m == nil {
			continue
		}
		if err := Maps(result, m, opts); err != nil {
			return nil, err
		}
	}
	return result, nil
}
