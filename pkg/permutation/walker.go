// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package permutation

import (
	"io"
	"log/slog"

	"carvel.dev/blockgen/pkg/block"
	"carvel.dev/blockgen/pkg/blockstate"
	"carvel.dev/blockgen/pkg/classify"
	"carvel.dev/blockgen/pkg/datameta"
	"carvel.dev/blockgen/pkg/diag"
	"carvel.dev/blockgen/pkg/material"
	"carvel.dev/blockgen/pkg/orderedmap"
	"carvel.dev/blockgen/pkg/preset"
	"carvel.dev/blockgen/pkg/substitute"
)

type Options struct {
	Classifier      classify.Classifier
	NameSeparators  blockstate.Separators
	TitleSeparators blockstate.Separators
	Materials       *material.Catalog
	Presets         *preset.Catalog
	Block           block.Options
	Logger          *slog.Logger
}

type Walker struct {
	opts      Options
	materials material.Expander
	presets   preset.Engine
	compiler  block.Compiler
	subst     substitute.Substituter
	log       *slog.Logger
}

func NewWalker(opts Options) Walker {
	if opts.Materials == nil {
		opts.Materials = material.NewCatalog()
	}
	if opts.Presets == nil {
		opts.Presets = preset.NewCatalog(opts.Classifier)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	substOpts := opts.Block.Substitute
	substOpts.ReferencePrefix = opts.Classifier.Prefixes().Variable
	opts.Block.Substitute = substOpts

	return Walker{
		opts:      opts,
		materials: material.NewExpander(opts.Materials),
		presets:   preset.NewEngine(opts.Presets, opts.Classifier, opts.Block.Namespace),
		compiler:  block.NewCompiler(opts.Block),
		subst:     substitute.New(substOpts),
		log:       logger,
	}
}

// Walk emits every leaf of a template file's tree to sink. Failures
// within the tree are reported to rep; only sink errors are returned.
func (w Walker) Walk(root *orderedmap.Map, sink Sink, rep diag.Reporter) error {
	branches := w.opts.Classifier.ClassifyRoot(root, rep)
	return branches.IterateErr(func(key string, val interface{}) error {
		return w.visit(key, val, blockstate.New(), sink, rep.With(key))
	})
}

func (w Walker) visit(key string, val interface{}, parent *blockstate.State, sink Sink, rep diag.Reporter) error {
	if err := blockstate.ValidateKey(key, parent.Path); err != nil {
		rep.Error(err)
		return nil
	}

	node, ok := val.(*orderedmap.Map)
	if !ok {
		rep.Errorf("Expected permutation '%s' to be an object, but was %s", key, datameta.TypeName(val))
		return nil
	}

	classified := w.opts.Classifier.Classify(node, rep)

	step, err := blockstate.StepFor(key, classified.Dir)
	if err != nil {
		rep.Error(classify.NewDirectiveError(classify.DirectiveTitle, "%s", err))
		step = blockstate.NewStep(key)
	}

	state := parent.Clone()
	state.Path = state.Path.Push(step)
	if err := state.Absorb(classified); err != nil {
		rep.Error(err)
		return nil
	}

	exported, err := exportOf(classified.Dir)
	if err != nil {
		rep.Error(err)
	}
	if !exported {
		w.log.Debug("pruned", "path", state.Path.String())
		return nil
	}

	if classified.Variants.Len() > 0 {
		w.log.Debug("branch", "path", state.Path.String(), "variants", classified.Variants.Len())
		return classified.Variants.IterateErr(func(childKey string, childVal interface{}) error {
			return w.visit(childKey, childVal, state, sink, rep.With(childKey))
		})
	}

	return w.leaf(state, sink, rep)
}

func (w Walker) leaf(state *blockstate.State, sink Sink, rep diag.Reporter) error {
	if err := blockstate.ValidateLeaf(state.Path); err != nil {
		rep.Error(err)
		return nil
	}

	states, err := w.materials.Expand(state, rep)
	if err != nil {
		rep.Error(err)
		return nil
	}

	for _, expanded := range states {
		expandedRep := rep
		for _, step := range expanded.Path[len(state.Path):] {
			expandedRep = expandedRep.With(step.Key)
		}

		leaf, err := w.compile(expanded, expandedRep)
		if err != nil {
			expandedRep.Error(err)
			continue
		}

		w.log.Debug("leaf", "path", expanded.Path.String(), "identifier", leaf.Identifier)

		if err := sink.Emit(leaf); err != nil {
			return err
		}
	}
	return nil
}

func (w Walker) compile(state *blockstate.State, rep diag.Reporter) (Leaf, error) {
	if err := w.presets.Apply(state, rep); err != nil {
		return Leaf{}, err
	}

	identifier := state.Path.Name(w.opts.NameSeparators)

	data, err := w.compiler.Compile(identifier, state, rep)
	if err != nil {
		return Leaf{}, err
	}

	vars := state.Vars.DeepCopy()
	if err := w.subst.NestedVariables(vars); err != nil {
		return Leaf{}, err
	}

	return Leaf{
		Identifier: identifier,
		Path:       state.Path.NamedKeys(),
		Title:      w.subst.String(state.Path.Title(w.opts.TitleSeparators), vars),
		Data:       data,
	}, nil
}

func exportOf(dir *orderedmap.Map) (bool, error) {
	val, found := dir.Get(classify.DirectiveExport)
	if !found {
		return true, nil
	}
	exported, ok := val.(bool)
	if !ok {
		return true, classify.NewDirectiveError(classify.DirectiveExport,
			"Expected directive 'export' to be a boolean, but was %s", datameta.TypeName(val))
	}
	return exported, nil
}
