// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package preset

import (
	"fmt"

	"carvel.dev/blockgen/pkg/blockstate"
	"carvel.dev/blockgen/pkg/classify"
	"carvel.dev/blockgen/pkg/diag"
	"carvel.dev/blockgen/pkg/magic"
	"carvel.dev/blockgen/pkg/merge"
	"carvel.dev/blockgen/pkg/orderedmap"
	"carvel.dev/blockgen/pkg/substitute"
)

const keyEach = "each"

type ParameterError struct {
	Preset string
	Param  string
}

func (e ParameterError) Error() string {
	return fmt.Sprintf("Expected preset '%s' to be given required parameter '%s'", e.Preset, e.Param)
}

type Engine struct {
	catalog    *Catalog
	classifier classify.Classifier
	subst      substitute.Substituter
	namespace  string
}

func NewEngine(catalog *Catalog, classifier classify.Classifier, namespace string) Engine {
	return Engine{
		catalog:    catalog,
		classifier: classifier,
		subst:      substitute.New(substitute.Options{ReferencePrefix: classifier.Prefixes().Variable}),
		namespace:  namespace,
	}
}

// Apply merges every active preset of the state's apply directive into
// the state. Unusable entries and missing presets are reported and
// skipped; resolution errors abort.
func (e Engine) Apply(state *blockstate.State, rep diag.Reporter) error {
	applyVal, found := state.Dir.Get(classify.DirectiveApply)
	if !found {
		return nil
	}
	state.Dir.Delete(classify.DirectiveApply)

	entries, err := ParseApply(applyVal)
	if err != nil {
		rep.Error(classify.NewDirectiveError(classify.DirectiveApply, "%s", err))
		return nil
	}

	active, err := Flatten(entries, rep)
	if err != nil {
		return err
	}

	for _, entry := range active {
		tmpl, err := e.catalog.Resolve(entry.Preset)
		if err != nil {
			rep.Error(classify.NewDirectiveError(classify.DirectiveApply, "%s", err))
			continue
		}
		err = e.apply(state, tmpl, entry.Config, rep.With(entry.Name))
		if err != nil {
			return fmt.Errorf("Applying preset '%s': %w", entry.Name, err)
		}
	}
	return nil
}

func (e Engine) apply(state *blockstate.State, tmpl *Template, config *orderedmap.Map, rep diag.Reporter) error {
	params := tmpl.Defaults.DeepCopy()
	configVars := orderedmap.NewMap()

	config.Iterate(func(key string, val interface{}) {
		if category, name := e.classifier.Key(key); category == classify.CategoryVariable {
			configVars.Set(name, orderedmap.DeepCopyValue(val))
			return
		}
		params.Set(key, orderedmap.DeepCopyValue(val))
	})

	for _, param := range tmpl.Required {
		if !params.Has(param) {
			return ParameterError{Preset: tmpl.Name, Param: param}
		}
	}

	data, dataVars := e.splitVariables(tmpl.Data)

	vars, err := merge.Clone(merge.Options{OverwriteTarget: true}, tmpl.Defaults, tmpl.Vars, dataVars, state.Vars, configVars)
	if err != nil {
		return err
	}
	if err := e.subst.NestedVariables(vars); err != nil {
		return err
	}

	scope := magic.Scope{Params: params, Variables: vars, Namespace: e.namespace}
	expandedVars, err := scope.ExpandValue(vars)
	if err != nil {
		return err
	}
	scope.Variables = expandedVars.(*orderedmap.Map)

	resolve := func(scope magic.Scope, val interface{}) (interface{}, error) {
		return scope.ExpandValue(e.subst.Resolve(val, scope.Variables))
	}

	if data.Len() > 0 {
		resolvedData, err := resolve(scope, data)
		if err != nil {
			return err
		}
		classified := e.classifier.Classify(resolvedData.(*orderedmap.Map), rep)
		if classified.Variants.Len() > 0 {
			rep.Warnf("Preset '%s' data declares child permutations %v, which are ignored", tmpl.Name, classified.Variants.Keys())
		}
		if err := state.Absorb(classified); err != nil {
			return err
		}
	}

	for _, section := range []struct {
		directive string
		val       *orderedmap.Map
	}{
		{classify.DirectiveStates, tmpl.States},
		{classify.DirectiveEvents, tmpl.Events},
	} {
		if section.val.Len() == 0 {
			continue
		}
		resolved, err := resolve(scope, section.val)
		if err != nil {
			return err
		}
		if err := mergeDirective(state, section.directive, resolved); err != nil {
			return err
		}
	}

	if len(tmpl.Permutations) > 0 {
		var perms []interface{}
		for _, item := range tmpl.Permutations {
			resolved, err := e.permutation(scope, item, resolve)
			if err != nil {
				return err
			}
			perms = append(perms, resolved...)
		}
		if err := mergeDirective(state, classify.DirectivePermutations, perms); err != nil {
			return err
		}
	}

	return nil
}

// splitVariables separates the variable keys of a data fragment from the
// rest. Variables join the preset's own, below block variables.
func (e Engine) splitVariables(data *orderedmap.Map) (*orderedmap.Map, *orderedmap.Map) {
	rest := orderedmap.NewMap()
	vars := orderedmap.NewMap()

	data.Iterate(func(key string, val interface{}) {
		if category, name := e.classifier.Key(key); category == classify.CategoryVariable {
			vars.Set(name, orderedmap.DeepCopyValue(val))
			return
		}
		rest.Set(key, val)
	})
	return rest, vars
}

// permutation resolves a permutation entry, once per entry of the value
// named by its "each" key when present.
func (e Engine) permutation(scope magic.Scope, item interface{},
	resolve func(magic.Scope, interface{}) (interface{}, error)) ([]interface{}, error) {

	entry, ok := item.(*orderedmap.Map)
	if !ok || !entry.Has(keyEach) {
		resolved, err := resolve(scope, item)
		if err != nil {
			return nil, err
		}
		return []interface{}{resolved}, nil
	}

	each, _ := entry.Get(keyEach)
	eachStr, ok := each.(string)
	if !ok {
		return nil, fmt.Errorf("Expected permutation 'each' to be a magic expression string")
	}

	scopes, err := scope.Each(eachStr)
	if err != nil {
		return nil, err
	}

	body := entry.DeepCopy()
	body.Delete(keyEach)

	var result []interface{}
	for _, itemScope := range scopes {
		resolved, err := resolve(itemScope, body)
		if err != nil {
			return nil, err
		}
		result = append(result, resolved)
	}
	return result, nil
}

func mergeDirective(state *blockstate.State, directive string, val interface{}) error {
	source := orderedmap.NewMapWithItems([]orderedmap.MapItem{{Key: directive, Value: val}})
	if err := merge.Maps(state.Dir, source, merge.Options{}); err != nil {
		return fmt.Errorf("Merging preset %s: %w", directive, err)
	}
	return nil
}
