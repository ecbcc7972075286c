// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package material

import (
	"fmt"

	"carvel.dev/blockgen/pkg/blockstate"
	"carvel.dev/blockgen/pkg/classify"
	"carvel.dev/blockgen/pkg/datameta"
	"carvel.dev/blockgen/pkg/diag"
	"carvel.dev/blockgen/pkg/merge"
	"carvel.dev/blockgen/pkg/orderedmap"
)

const (
	VarMaterial = "material"
	VarTexture  = "texture"
)

type Material struct {
	Key       string
	Title     *string
	Instances *orderedmap.Map
}

type Permutation struct {
	Key       string
	Title     *string
	Instances *orderedmap.Map
	Include   []string
	Exclude   []string
}

type Expander struct {
	catalog *Catalog
}

func NewExpander(catalog *Catalog) Expander {
	return Expander{catalog}
}

// Expand returns one state per material declared by the leaf state, or
// the state itself when it declares no materials or already carries
// material_instances. The given state is not modified.
func (e Expander) Expand(state *blockstate.State, rep diag.Reporter) ([]*blockstate.State, error) {
	dir := state.Dir
	if dir.Has(classify.DirectiveMaterialInstances) {
		return []*blockstate.State{state}, nil
	}
	if !dir.Has(classify.DirectiveMaterials) && !dir.Has(classify.DirectiveTextures) {
		return []*blockstate.State{state}, nil
	}

	render, err := optionalMap(dir, classify.DirectiveRender)
	if err != nil {
		return nil, err
	}
	n := normalizer{catalog: e.catalog, render: render}

	materials, err := e.materials(n, dir, rep)
	if err != nil {
		return nil, err
	}
	perms, err := e.permutations(n, dir)
	if err != nil {
		return nil, err
	}

	var result []*blockstate.State

	for _, mat := range materials {
		leaf := e.leaf(state, blockstate.NewMaterialStep(mat.Key), mat.Title, mat.Instances)
		leaf.Vars.Set(VarMaterial, mat.Key)
		result = append(result, leaf)

		for _, perm := range perms {
			instances, err := perm.apply(mat.Instances)
			if err != nil {
				rep.With(mat.Key, perm.Key).Error(err)
				continue
			}
			subRep := rep.With(mat.Key, perm.Key)
			if err := n.finalize(mat.Key+"/"+perm.Key, instances, subRep); err != nil {
				subRep.Error(err)
				continue
			}
			result = append(result, e.leaf(leaf, blockstate.NewMaterialStep(perm.Key), perm.Title, instances))
		}
	}

	return result, nil
}

func (e Expander) leaf(parent *blockstate.State, step blockstate.Step, title *string, instances *orderedmap.Map) *blockstate.State {
	leaf := parent.Clone()
	step.Title = title
	leaf.Path = leaf.Path.Push(step)

	for _, name := range []string{classify.DirectiveMaterials, classify.DirectiveTextures,
		classify.DirectiveMaterialPermutations, classify.DirectiveRender} {
		leaf.Dir.Delete(name)
	}
	leaf.Dir.Set(classify.DirectiveMaterialInstances, instances.DeepCopy())
	leaf.Vars.Set(VarTexture, DefaultTexture(instances))
	return leaf
}

// Materials normalizes the materials and textures directives of dir.
// Materials that fail validation are reported and left out.
func (e Expander) Materials(dir *orderedmap.Map, rep diag.Reporter) ([]Material, error) {
	render, err := optionalMap(dir, classify.DirectiveRender)
	if err != nil {
		return nil, err
	}
	return e.materials(normalizer{catalog: e.catalog, render: render}, dir, rep)
}

func (e Expander) materials(n normalizer, dir *orderedmap.Map, rep diag.Reporter) ([]Material, error) {
	entries, err := optionalMap(dir, classify.DirectiveMaterials)
	if err != nil {
		return nil, err
	}
	entries = entries.DeepCopy()

	if textures, found := dir.Get(classify.DirectiveTextures); found {
		list, ok := textures.([]interface{})
		if !ok {
			return nil, fmt.Errorf("Expected directive '%s' to be an array, but was %s",
				classify.DirectiveTextures, datameta.TypeName(textures))
		}
		for _, item := range list {
			name, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("Expected directive '%s' to contain strings, but found %s",
					classify.DirectiveTextures, datameta.TypeName(item))
			}
			if !entries.Has(name) {
				entries.Set(name, true)
			}
		}
	}

	var result []Material

	err = entries.IterateErr(func(key string, val interface{}) error {
		var (
			def   interface{}
			title *string
		)

		// material keys are permutation steps and follow the same naming rules
		if err := blockstate.ValidateKey(key, blockstate.Path{blockstate.NewStep("-")}); err != nil {
			rep.With(key).Error(err)
			return nil
		}

		switch typedVal := val.(type) {
		case bool:
			if !typedVal {
				return nil
			}
			def = key
		case string:
			def = typedVal
		case *orderedmap.Map:
			def = typedVal
			if titleVal, found := typedVal.Get(keyTitle); found {
				if str, ok := titleVal.(string); ok {
					title = &str
				}
			}
		default:
			return fmt.Errorf("Expected material '%s' to be a boolean, string or object, but was %s",
				key, datameta.TypeName(val))
		}

		matRep := rep.With(key)

		faces, err := n.faces(def, nil)
		if err != nil {
			matRep.Error(err)
			return nil
		}
		if err := n.finalize(key, faces, matRep); err != nil {
			matRep.Error(err)
			return nil
		}

		result = append(result, Material{Key: key, Title: title, Instances: faces})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e Expander) permutations(n normalizer, dir *orderedmap.Map) ([]Permutation, error) {
	entries, err := optionalMap(dir, classify.DirectiveMaterialPermutations)
	if err != nil {
		return nil, err
	}

	var result []Permutation

	err = entries.IterateErr(func(key string, val interface{}) error {
		if err := blockstate.ValidateKey(key, blockstate.Path{blockstate.NewStep("-")}); err != nil {
			return err
		}

		entry, ok := val.(*orderedmap.Map)
		if !ok {
			return fmt.Errorf("Expected material permutation '%s' to be an object, but was %s",
				key, datameta.TypeName(val))
		}

		perm := Permutation{Key: key}
		var err error

		instancesVal, found := entry.Get("instances")
		if !found {
			return fmt.Errorf("Expected material permutation '%s' to declare instances", key)
		}
		perm.Instances, err = n.faces(instancesVal, nil)
		if err != nil {
			return fmt.Errorf("Material permutation '%s': %w", key, err)
		}

		if perm.Include, err = stringList(entry, "include"); err != nil {
			return fmt.Errorf("Material permutation '%s': %w", key, err)
		}
		if perm.Exclude, err = stringList(entry, "exclude"); err != nil {
			return fmt.Errorf("Material permutation '%s': %w", key, err)
		}
		if perm.Include != nil && !contains(perm.Include, DefaultFace) {
			perm.Include = append(perm.Include, DefaultFace)
		}

		if titleVal, found := entry.Get(keyTitle); found {
			if str, ok := titleVal.(string); ok {
				perm.Title = &str
			}
		}

		result = append(result, perm)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// apply filters the material's instances by the permutation's include and
// exclude lists and merges the permutation's own instances on top.
func (p Permutation) apply(base *orderedmap.Map) (*orderedmap.Map, error) {
	result := orderedmap.NewMap()
	base.Iterate(func(face string, instance interface{}) {
		if p.Include != nil && !contains(p.Include, face) {
			return
		}
		if contains(p.Exclude, face) {
			return
		}
		result.Set(face, orderedmap.DeepCopyValue(instance))
	})

	if err := merge.Maps(result, p.Instances, merge.Options{}); err != nil {
		return nil, err
	}
	return result, nil
}

func optionalMap(dir *orderedmap.Map, name string) (*orderedmap.Map, error) {
	val, found := dir.Get(name)
	if !found || val == nil {
		return orderedmap.NewMap(), nil
	}
	typedVal, ok := val.(*orderedmap.Map)
	if !ok {
		return nil, fmt.Errorf("Expected directive '%s' to be an object, but was %s", name, datameta.TypeName(val))
	}
	return typedVal, nil
}

func stringList(entry *orderedmap.Map, key string) ([]string, error) {
	val, found := entry.Get(key)
	if !found {
		return nil, nil
	}
	list, ok := val.([]interface{})
	if !ok {
		return nil, fmt.Errorf("Expected '%s' to be an array, but was %s", key, datameta.TypeName(val))
	}
	result := []string{}
	for _, item := range list {
		str, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("Expected '%s' to contain strings, but found %s", key, datameta.TypeName(item))
		}
		result = append(result, str)
	}
	return result, nil
}
