// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package blockstate

import (
	"fmt"

	"carvel.dev/blockgen/pkg/classify"
	"carvel.dev/blockgen/pkg/datameta"
	"carvel.dev/blockgen/pkg/merge"
	"carvel.dev/blockgen/pkg/orderedmap"
)

// State is owned by exactly one tree node. Children start from a Clone.
type State struct {
	Dir    *orderedmap.Map
	Vars   *orderedmap.Map
	Tags   *orderedmap.Map
	Static *orderedmap.Map
	Props  *orderedmap.Map
	Path   Path
}

func New() *State {
	return &State{
		Dir:    orderedmap.NewMap(),
		Vars:   orderedmap.NewMap(),
		Tags:   orderedmap.NewMap(),
		Static: orderedmap.NewMap(),
		Props:  orderedmap.NewMap(),
	}
}

// Clone returns a deep copy sharing nothing with s.
func (s *State) Clone() *State {
	return &State{
		Dir:    s.Dir.DeepCopy(),
		Vars:   s.Vars.DeepCopy(),
		Tags:   s.Tags.DeepCopy(),
		Static: s.Static.DeepCopy(),
		Props:  s.Props.DeepCopy(),
		Path:   append(Path(nil), s.Path...),
	}
}

var (
	// variables and static values replace what ancestors declared
	replaceOpts = merge.Options{OverwriteTarget: true}
	mergeOpts   = merge.Options{}
)

// Absorb merges a node's classified data into s. Step-local directives
// (title, type) are skipped; see StepFor.
func (s *State) Absorb(c classify.Classified) error {
	dir := c.Dir.DeepCopy()
	dir.Delete(classify.DirectiveTitle)
	dir.Delete(classify.DirectiveType)

	if err := merge.Maps(s.Dir, dir, mergeOpts); err != nil {
		return fmt.Errorf("Merging directives: %w", err)
	}
	if err := merge.Maps(s.Vars, c.Vars, replaceOpts); err != nil {
		return fmt.Errorf("Merging variables: %w", err)
	}
	if err := merge.Maps(s.Static, c.Static, replaceOpts); err != nil {
		return fmt.Errorf("Merging static values: %w", err)
	}
	if err := merge.Maps(s.Tags, c.Tags, mergeOpts); err != nil {
		return fmt.Errorf("Merging tags: %w", err)
	}
	if err := merge.Maps(s.Props, c.Props, mergeOpts); err != nil {
		return fmt.Errorf("Merging properties: %w", err)
	}
	return nil
}

// StepFor builds the step for key from the node's own directives.
func StepFor(key string, dir *orderedmap.Map) (Step, error) {
	step := NewStep(key)

	if typ, found := dir.Get(classify.DirectiveType); found {
		typStr, ok := typ.(string)
		if !ok {
			return Step{}, fmt.Errorf("Expected directive 'type' to be a string, but was %s", datameta.TypeName(typ))
		}
		step.Type = typStr
	}

	if title, found := dir.Get(classify.DirectiveTitle); found {
		switch typedTitle := title.(type) {
		case nil:
			step = step.WithoutTitle()
		case string:
			step = step.WithTitle(typedTitle)
		default:
			return Step{}, fmt.Errorf("Expected directive 'title' to be a string or null, but was %s", datameta.TypeName(title))
		}
	}

	return step, nil
}
