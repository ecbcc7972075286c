// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package permutation_test

import (
	"errors"
	"strings"
	"testing"

	"carvel.dev/blockgen/pkg/block"
	"carvel.dev/blockgen/pkg/blockstate"
	"carvel.dev/blockgen/pkg/classify"
	"carvel.dev/blockgen/pkg/datameta"
	"carvel.dev/blockgen/pkg/diag"
	"carvel.dev/blockgen/pkg/orderedmap"
	"carvel.dev/blockgen/pkg/permutation"
	"carvel.dev/blockgen/pkg/preset"
	"carvel.dev/blockgen/pkg/substitute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, data string) *orderedmap.Map {
	m, err := datameta.NewParser(datameta.FormatJSON).ParseMap([]byte(data), "test.json")
	require.NoError(t, err)
	return m
}

func compact(t *testing.T, val interface{}) string {
	bs, err := datameta.NewCompactJSONPrinter().Print(val)
	require.NoError(t, err)
	return strings.TrimSuffix(string(bs), "\n")
}

func components(t *testing.T, leaf permutation.Leaf) string {
	body, found := leaf.Data.Get("minecraft:block")
	require.True(t, found)
	comps, found := body.(*orderedmap.Map).Get("components")
	require.True(t, found)
	return compact(t, comps)
}

func identifiers(leaves []permutation.Leaf) []string {
	var result []string
	for _, leaf := range leaves {
		result = append(result, leaf.Identifier)
	}
	return result
}

func walk(t *testing.T, opts permutation.Options, tmpl string) ([]permutation.Leaf, *diag.Log) {
	if opts.Block.Namespace == "" {
		opts.Block.Namespace = "wiki"
	}
	opts.Classifier = classify.NewDefaultClassifier()
	if opts.Presets == nil {
		opts.Presets = preset.NewCatalog(opts.Classifier)
	}

	log := diag.NewLog()
	collector := &permutation.Collector{}
	err := permutation.NewWalker(opts).Walk(parse(t, tmpl), collector, diag.NewReporter(log))
	require.NoError(t, err)
	return collector.Leaves(), log
}

func defaultOpts() permutation.Options {
	return permutation.Options{
		NameSeparators:  blockstate.NewNameSeparators(nil),
		TitleSeparators: blockstate.NewTitleSeparators(nil),
	}
}

func TestWalkScenario(t *testing.T) {
	opts := defaultOpts()
	opts.NameSeparators = blockstate.NewNameSeparators(map[string]blockstate.Separator{"*": {Before: "."}})

	leaves, log := walk(t, opts, `{"oak": {"title": "Oak", "materials": {"bark": "oak_log_top", "ring": "oak_log"}}}`)
	assert.Empty(t, log.Messages())
	require.Equal(t, []string{"oak.bark", "oak.ring"}, identifiers(leaves))

	assert.Equal(t, "Oak", leaves[0].Title)
	assert.Equal(t, "Oak", leaves[1].Title)
	assert.Equal(t, []string{"oak", "ring"}, leaves[1].Path)
	assert.Equal(t, `{"minecraft:material_instances":{"*":{"texture":"oak_log_top"}}}`, components(t, leaves[0]))
	assert.Equal(t, `{"minecraft:material_instances":{"*":{"texture":"oak_log"}}}`, components(t, leaves[1]))
}

func TestWalkRejectsInvalidMaterialNames(t *testing.T) {
	leaves, log := walk(t, defaultOpts(), `{"oak": {"materials": {"Bad Key!": "oak_log", "ok": "x"}}}`)
	assert.Equal(t, []string{"oak_ok"}, identifiers(leaves))

	require.Len(t, log.Messages(), 1)
	msg := log.Messages()[0]
	assert.Equal(t, diag.LevelError, msg.Level)
	assert.Equal(t, []string{"oak", "Bad Key!"}, msg.Context)

	var namingErr blockstate.NamingError
	require.ErrorAs(t, msg.Data.(error), &namingErr)
	assert.Equal(t, "Bad Key!", namingErr.Key)
}

func TestWalkExportFalsePrunesSubtree(t *testing.T) {
	leaves, log := walk(t, defaultOpts(), `{"oak": {
		"/log": {"export": false, "/stripped": {}, "/plain": {}},
		"/planks": {}
	}}`)
	assert.Empty(t, log.Messages())
	assert.Equal(t, []string{"oak_planks"}, identifiers(leaves))
}

func TestWalkSiblingsAreIsolated(t *testing.T) {
	leaves, _ := walk(t, defaultOpts(), `{"oak": {
		"$wood": "oak",
		"friction": 0.1,
		"/a": {"$wood": "birch", "#x": {}, "friction": 0.2},
		"/b": {"name_display": "{{wood}}"}
	}}`)
	require.Equal(t, []string{"oak_a", "oak_b"}, identifiers(leaves))

	assert.Equal(t, `{"minecraft:friction":0.2,"tag:x":{}}`, components(t, leaves[0]))
	assert.Equal(t, `{"minecraft:friction":0.1,"minecraft:name_display":"oak"}`, components(t, leaves[1]))
}

func TestWalkInvalidRootAbortsOnlyThatBranch(t *testing.T) {
	leaves, log := walk(t, defaultOpts(), `{"Bad": {}, "good": {}}`)
	assert.Equal(t, []string{"good"}, identifiers(leaves))

	require.Len(t, log.Messages(), 1)
	msg := log.Messages()[0]
	assert.Equal(t, []string{"Bad"}, msg.Context)
	assert.Equal(t, "Invalid permutation name 'Bad': Expected root name to match ^[a-z][a-z0-9_]*$", msg.Message)

	var namingErr blockstate.NamingError
	require.ErrorAs(t, msg.Data.(error), &namingErr)
}

func TestWalkAnonymousBranches(t *testing.T) {
	leaves, log := walk(t, defaultOpts(), `{"oak": {"/-": {}}}`)
	assert.Empty(t, leaves)
	require.Len(t, log.Messages(), 1)
	assert.Equal(t, []string{"oak", "-"}, log.Messages()[0].Context)
	assert.Equal(t, "Invalid permutation name '-' under 'oak': Expected anonymous branch to have child permutations",
		log.Messages()[0].Message)

	leaves, log = walk(t, defaultOpts(), `{"oak": {"/-": {"friction": 0.3, "/slab": {"title": "Slab"}}}}`)
	assert.Empty(t, log.Messages())
	require.Equal(t, []string{"oak_slab"}, identifiers(leaves))
	assert.Equal(t, "oak Slab", leaves[0].Title)
	assert.Equal(t, []string{"oak", "slab"}, leaves[0].Path)
	assert.Equal(t, `{"minecraft:friction":0.3}`, components(t, leaves[0]))
}

func TestWalkTitleUsesVariables(t *testing.T) {
	leaves, _ := walk(t, defaultOpts(), `{"oak": {"$wood": "Oak", "title": "{{wood}} Planks", "/slab": {"title": null}}}`)
	require.Len(t, leaves, 1)
	assert.Equal(t, "Oak Planks", leaves[0].Title)
}

func TestWalkVariableCycleDropsLeaf(t *testing.T) {
	leaves, log := walk(t, defaultOpts(), `{"oak": {"$a": "$b", "$b": "$a"}, "birch": {}}`)
	assert.Equal(t, []string{"birch"}, identifiers(leaves))

	require.Len(t, log.Messages(), 1)
	assert.Equal(t, []string{"oak"}, log.Messages()[0].Context)

	var cycleErr substitute.CycleError
	require.ErrorAs(t, log.Messages()[0].Data.(error), &cycleErr)
}

func TestWalkAppliesPresets(t *testing.T) {
	opts := defaultOpts()
	opts.Presets = preset.NewCatalog(classify.NewDefaultClassifier())
	require.NoError(t, opts.Presets.Add("glowing", parse(t, `{"required": ["level"], "data": {"light_emission": "%level"}}`)))

	leaves, log := walk(t, opts, `{
		"lamp": {"apply": [{"preset": "glowing", "config": {"level": 15}}]},
		"broken": {"apply": ["glowing"]},
		"plain": {}
	}`)
	assert.Equal(t, []string{"lamp", "plain"}, identifiers(leaves))
	assert.Equal(t, `{"minecraft:light_emission":15}`, components(t, leaves[0]))

	require.Len(t, log.Messages(), 1)
	assert.Equal(t, []string{"broken"}, log.Messages()[0].Context)
	assert.Equal(t, "Applying preset 'glowing': Expected preset 'glowing' to be given required parameter 'level'",
		log.Messages()[0].Message)
}

func TestWalkReportsNonObjectNodes(t *testing.T) {
	leaves, log := walk(t, defaultOpts(), `{"oak": {"/a": 1, "/b": {}}}`)
	assert.Equal(t, []string{"oak_b"}, identifiers(leaves))
	require.Len(t, log.Messages(), 1)
	assert.Equal(t, "Expected permutation 'a' to be an object, but was number", log.Messages()[0].Message)
}

func TestWalkReturnsSinkErrors(t *testing.T) {
	opts := defaultOpts()
	opts.Classifier = classify.NewDefaultClassifier()
	opts.Block = block.Options{Namespace: "wiki"}

	sink := permutation.SinkFunc(func(permutation.Leaf) error { return errors.New("full") })
	err := permutation.NewWalker(opts).Walk(parse(t, `{"a": {}, "b": {}}`), sink, diag.NewReporter(nil))
	require.EqualError(t, err, "full")
}
