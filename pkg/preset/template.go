// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package preset

import (
	"fmt"
	"strings"

	"carvel.dev/blockgen/pkg/classify"
	"carvel.dev/blockgen/pkg/datameta"
	"carvel.dev/blockgen/pkg/orderedmap"
)

// Template is a preset with its inheritance chain merged in. It is not
// modified once resolved.
type Template struct {
	Name         string
	Defaults     *orderedmap.Map
	Required     []string
	Vars         *orderedmap.Map
	Data         *orderedmap.Map
	States       *orderedmap.Map
	Events       *orderedmap.Map
	Permutations []interface{}
}

var templateKeys = []string{keyParent, keyTemplates, keyDefaults, keyRequired, keyData, keyStates, keyEvents, keyPermutations}

func newTemplate(name string, merged *orderedmap.Map, classifier classify.Classifier) (*Template, error) {
	tmpl := &Template{
		Name:     name,
		Defaults: orderedmap.NewMap(),
		Vars:     orderedmap.NewMap(),
		Data:     orderedmap.NewMap(),
		States:   orderedmap.NewMap(),
		Events:   orderedmap.NewMap(),
	}

	err := merged.IterateErr(func(key string, val interface{}) error {
		if category, varName := classifier.Key(key); category == classify.CategoryVariable {
			tmpl.Vars.Set(varName, val)
			return nil
		}

		var err error

		switch key {
		case keyDefaults:
			tmpl.Defaults, err = asMap(name, key, val)
		case keyData:
			tmpl.Data, err = asMap(name, key, val)
		case keyStates:
			tmpl.States, err = asMap(name, key, val)
		case keyEvents:
			tmpl.Events, err = asMap(name, key, val)

		case keyRequired:
			list, ok := val.([]interface{})
			if !ok {
				return fmt.Errorf("Expected preset '%s' %s to be an array, but was %s", name, key, datameta.TypeName(val))
			}
			for _, item := range list {
				param, ok := item.(string)
				if !ok {
					return fmt.Errorf("Expected preset '%s' %s to contain strings, but found %s", name, key, datameta.TypeName(item))
				}
				tmpl.Required = append(tmpl.Required, param)
			}

		case keyPermutations:
			list, ok := val.([]interface{})
			if !ok {
				return fmt.Errorf("Expected preset '%s' %s to be an array, but was %s", name, key, datameta.TypeName(val))
			}
			tmpl.Permutations = list

		default:
			return fmt.Errorf("Unknown key '%s' in preset '%s' (known keys: %s, or variables)",
				key, name, strings.Join(templateKeys, ", "))
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return tmpl, nil
}

func asMap(name, key string, val interface{}) (*orderedmap.Map, error) {
	typedVal, ok := val.(*orderedmap.Map)
	if !ok {
		return nil, fmt.Errorf("Expected preset '%s' %s to be an object, but was %s", name, key, datameta.TypeName(val))
	}
	return typedVal, nil
}
