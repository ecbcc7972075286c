// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package block

import (
	"fmt"

	"carvel.dev/blockgen/pkg/blockstate"
	"carvel.dev/blockgen/pkg/classify"
	"carvel.dev/blockgen/pkg/datameta"
	"carvel.dev/blockgen/pkg/diag"
	"carvel.dev/blockgen/pkg/merge"
	"carvel.dev/blockgen/pkg/orderedmap"
	"carvel.dev/blockgen/pkg/substitute"
	"github.com/hashicorp/go-version"
)

const (
	DefaultFormatVersion = "1.20.80"

	componentNamespace = "minecraft"
	materialInstances  = "minecraft:material_instances"

	// MaxStateValues is the number of values a block state may have in game.
	MaxStateValues = 16
)

// statesSince is the first format version using "states" over "properties".
var statesSince = version.Must(version.NewVersion("1.20.20"))

type Options struct {
	// Namespace prefixes identifiers and state names.
	Namespace     string
	FormatVersion string
	Substitute    substitute.Options
}

type Compiler struct {
	opts  Options
	subst substitute.Substituter
}

func NewCompiler(opts Options) Compiler {
	if opts.FormatVersion == "" {
		opts.FormatVersion = DefaultFormatVersion
	}
	return Compiler{opts: opts, subst: substitute.New(opts.Substitute)}
}

type definition struct {
	description  *orderedmap.Map
	components   *orderedmap.Map
	permutations []interface{}
	events       *orderedmap.Map
}

// Compile resolves the state's variables and builds the block definition
// for identifier. The state is not modified.
func (c Compiler) Compile(identifier string, state *blockstate.State, rep diag.Reporter) (*orderedmap.Map, error) {
	vars := state.Vars.DeepCopy()
	if err := c.subst.NestedVariables(vars); err != nil {
		return nil, err
	}

	formatVersion, err := c.formatVersion(state.Dir)
	if err != nil {
		return nil, err
	}

	def := definition{
		description: orderedmap.NewMap(),
		components:  orderedmap.NewMap(),
		events:      orderedmap.NewMap(),
	}
	def.description.Set(DescIdentifier, Namespaced(c.opts.Namespace, identifier))

	props := c.subst.Resolve(state.Props, vars).(*orderedmap.Map)
	if err := c.route(&def, props); err != nil {
		return nil, err
	}
	// static values are routed as is
	if err := c.route(&def, state.Static.DeepCopy()); err != nil {
		return nil, err
	}

	dir := c.subst.Resolve(state.Dir, vars).(*orderedmap.Map)
	for _, name := range []string{classify.DirectiveDescription, classify.DirectiveStates,
		classify.DirectivePermutations, classify.DirectiveEvents} {
		val, found := dir.Get(name)
		if !found {
			continue
		}
		if err := c.routeValue(&def, name, val); err != nil {
			return nil, fmt.Errorf("Directive '%s': %w", name, err)
		}
	}

	if instances, found := dir.Get(classify.DirectiveMaterialInstances); found {
		def.components.Set(materialInstances, instances)
	}

	tags := c.subst.Resolve(state.Tags, vars).(*orderedmap.Map)
	tags.Iterate(func(name string, val interface{}) {
		if val == nil {
			val = orderedmap.NewMap()
		}
		def.components.Set(name, val)
	})

	c.checkStates(def.description, rep)

	return c.record(def, formatVersion)
}

func (c Compiler) formatVersion(dir *orderedmap.Map) (string, error) {
	fv := c.opts.FormatVersion
	if val, found := dir.Get(classify.DirectiveFormatVersion); found {
		str, ok := val.(string)
		if !ok {
			return "", fmt.Errorf("Expected directive 'format_version' to be a string, but was %s", datameta.TypeName(val))
		}
		fv = str
	}
	if _, err := version.NewVersion(fv); err != nil {
		return "", fmt.Errorf("Expected format_version '%s' to be a version: %s", fv, err)
	}
	return fv, nil
}

func (c Compiler) route(def *definition, props *orderedmap.Map) error {
	return props.IterateErr(func(name string, val interface{}) error {
		if err := c.routeValue(def, name, val); err != nil {
			return fmt.Errorf("Property '%s': %w", name, err)
		}
		return nil
	})
}

func (c Compiler) routeValue(def *definition, name string, val interface{}) error {
	switch Route(name) {
	case BucketRoot:
		switch name {
		case RootComponents:
			comps, err := asMap(name, val)
			if err != nil {
				return err
			}
			return merge.Maps(def.components, c.namespaceComponents(comps), merge.Options{})

		case RootDescription:
			desc, err := asMap(name, val)
			if err != nil {
				return err
			}
			desc = desc.DeepCopy()
			// identifier is always derived from the permutation path
			desc.Delete(DescIdentifier)
			if states, found := desc.Get(DescStates); found {
				desc.Delete(DescStates)
				if err := c.routeValue(def, DescStates, states); err != nil {
					return err
				}
			}
			return merge.Maps(def.description, desc, merge.Options{})

		case RootEvents:
			events, err := asMap(name, val)
			if err != nil {
				return err
			}
			return merge.Maps(def.events, events, merge.Options{})

		case RootPermutations:
			list, ok := val.([]interface{})
			if !ok {
				return fmt.Errorf("Expected '%s' to be an array, but was %s", name, datameta.TypeName(val))
			}
			for _, item := range list {
				def.permutations = append(def.permutations, c.namespacePermutation(item))
			}
		}
		return nil

	case BucketDescription:
		if name == DescIdentifier {
			return nil
		}
		if name == DescStates {
			states, err := asMap(name, val)
			if err != nil {
				return err
			}
			namespaced := orderedmap.NewMap()
			states.Iterate(func(stateName string, values interface{}) {
				namespaced.Set(Namespaced(c.opts.Namespace, stateName), orderedmap.DeepCopyValue(values))
			})
			source := orderedmap.NewMapWithItems([]orderedmap.MapItem{{Key: DescStates, Value: namespaced}})
			return merge.Maps(def.description, source, merge.Options{})
		}
		source := orderedmap.NewMapWithItems([]orderedmap.MapItem{{Key: name, Value: orderedmap.DeepCopyValue(val)}})
		return merge.Maps(def.description, source, merge.Options{})

	default:
		source := orderedmap.NewMapWithItems([]orderedmap.MapItem{
			{Key: Namespaced(componentNamespace, name), Value: orderedmap.DeepCopyValue(val)},
		})
		return merge.Maps(def.components, source, merge.Options{})
	}
}

func (c Compiler) namespaceComponents(comps *orderedmap.Map) *orderedmap.Map {
	result := orderedmap.NewMap()
	comps.Iterate(func(name string, val interface{}) {
		result.Set(Namespaced(componentNamespace, name), orderedmap.DeepCopyValue(val))
	})
	return result
}

func (c Compiler) namespacePermutation(item interface{}) interface{} {
	perm, ok := item.(*orderedmap.Map)
	if !ok {
		return orderedmap.DeepCopyValue(item)
	}
	result := orderedmap.NewMap()
	perm.Iterate(func(key string, val interface{}) {
		if comps, ok := val.(*orderedmap.Map); ok && key == RootComponents {
			result.Set(key, c.namespaceComponents(comps))
			return
		}
		result.Set(key, orderedmap.DeepCopyValue(val))
	})
	return result
}

func (c Compiler) checkStates(desc *orderedmap.Map, rep diag.Reporter) {
	states, found := desc.Get(DescStates)
	if !found {
		return
	}
	typedStates, ok := states.(*orderedmap.Map)
	if !ok {
		return
	}
	typedStates.Iterate(func(name string, values interface{}) {
		if list, ok := values.([]interface{}); ok && len(list) > MaxStateValues {
			rep.Noticef("State '%s' has %d values, more than the %d a block state may have", name, len(list), MaxStateValues)
		}
	})
}

func (c Compiler) record(def definition, formatVersion string) (*orderedmap.Map, error) {
	fv, err := version.NewVersion(formatVersion)
	if err != nil {
		return nil, err
	}
	if fv.LessThan(statesSince) {
		if states, found := def.description.Get(DescStates); found {
			desc := orderedmap.NewMap()
			def.description.Iterate(func(k string, v interface{}) {
				if k == DescStates {
					desc.Set(DescProperties, states)
					return
				}
				desc.Set(k, v)
			})
			def.description = desc
		}
	}

	body := orderedmap.NewMap()
	body.Set(RootDescription, def.description)
	if def.components.Len() > 0 {
		body.Set(RootComponents, def.components)
	}
	if len(def.permutations) > 0 {
		body.Set(RootPermutations, def.permutations)
	}
	if def.events.Len() > 0 {
		body.Set(RootEvents, def.events)
	}

	result := orderedmap.NewMap()
	result.Set("format_version", formatVersion)
	result.Set("minecraft:block", body)
	return result, nil
}

func asMap(name string, val interface{}) (*orderedmap.Map, error) {
	typedVal, ok := val.(*orderedmap.Map)
	if !ok {
		return nil, fmt.Errorf("Expected '%s' to be an object, but was %s", name, datameta.TypeName(val))
	}
	return typedVal, nil
}
