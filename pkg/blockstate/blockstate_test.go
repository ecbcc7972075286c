// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package blockstate_test

import (
	"testing"

	"carvel.dev/blockgen/pkg/blockstate"
	"carvel.dev/blockgen/pkg/classify"
	"carvel.dev/blockgen/pkg/datameta"
	"carvel.dev/blockgen/pkg/diag"
	"carvel.dev/blockgen/pkg/merge"
	"carvel.dev/blockgen/pkg/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, data string) *orderedmap.Map {
	m, err := datameta.NewParser(datameta.FormatJSON).ParseMap([]byte(data), "test.json")
	require.NoError(t, err)
	return m
}

func TestNameWithPairSeparator(t *testing.T) {
	seps := blockstate.NewNameSeparators(map[string]blockstate.Separator{
		"default":  {Before: "_"},
		"material": {Before: "(", After: ")"},
	})

	path := blockstate.Path{blockstate.NewStep("a"), blockstate.NewMaterialStep("b")}
	assert.Equal(t, "a(b)", path.Name(seps))
}

func TestNameWithAnySeparator(t *testing.T) {
	seps := blockstate.NewNameSeparators(map[string]blockstate.Separator{"*": {Before: "."}})

	path := blockstate.Path{blockstate.NewStep("a"), blockstate.NewStep("b")}
	assert.Equal(t, "a.b", path.Name(seps))
}

func TestSeparatorLookupOrder(t *testing.T) {
	seps := blockstate.NewNameSeparators(map[string]blockstate.Separator{
		"default": {Before: "-"},
		"slab":    {Before: "~"},
	})
	assert.Equal(t, blockstate.Separator{Before: "~"}, seps.For("slab"))
	assert.Equal(t, blockstate.Separator{Before: "-"}, seps.For("material"))

	empty := blockstate.NewNameSeparators(nil)
	assert.Equal(t, blockstate.Separator{Before: "_"}, empty.For("material"))
	assert.Equal(t, blockstate.Separator{Before: " "}, blockstate.NewTitleSeparators(nil).For("default"))
}

func TestAnonymousStepsAreSkipped(t *testing.T) {
	seps := blockstate.NewNameSeparators(nil)
	path := blockstate.Path{blockstate.NewStep("oak"), blockstate.NewStep("--"), blockstate.NewStep("slab")}

	assert.Equal(t, "oak_slab", path.Name(seps))
	assert.Equal(t, "oak slab", path.Title(blockstate.NewTitleSeparators(nil)))
	assert.Equal(t, []string{"oak", "slab"}, path.NamedKeys())
	assert.Equal(t, "oak/--/slab", path.String())
}

func TestTitle(t *testing.T) {
	seps := blockstate.NewTitleSeparators(map[string]blockstate.Separator{"material": {Before: " (", After: ")"}})
	path := blockstate.Path{
		blockstate.NewStep("oak").WithTitle("Oak"),
		blockstate.NewStep("log").WithoutTitle(),
		blockstate.NewMaterialStep("bark"),
		blockstate.NewMaterialStep("ring").WithTitle("Ring"),
	}

	assert.Equal(t, "Oak (Ring)", path.Title(seps))
}

func TestPushDoesNotModify(t *testing.T) {
	base := blockstate.Path{blockstate.NewStep("a")}
	left := base.Push(blockstate.NewStep("b"))
	right := base.Push(blockstate.NewStep("c"))

	assert.Equal(t, []string{"a"}, base.Keys())
	assert.Equal(t, []string{"a", "b"}, left.Keys())
	assert.Equal(t, []string{"a", "c"}, right.Keys())
}

func TestParseSeparator(t *testing.T) {
	sep, err := blockstate.ParseSeparator("_")
	require.NoError(t, err)
	assert.Equal(t, blockstate.Separator{Before: "_"}, sep)

	sep, err = blockstate.ParseSeparator([]interface{}{"(", ")"})
	require.NoError(t, err)
	assert.Equal(t, blockstate.Separator{Before: "(", After: ")"}, sep)

	_, err = blockstate.ParseSeparator([]interface{}{"("})
	require.EqualError(t, err, "Expected separator pair to have 2 items, but had 1")

	_, err = blockstate.ParseSeparator(int64(1))
	require.EqualError(t, err, "Expected separator to be a string or [before, after] pair, but was number")

	seps, err := blockstate.ParseSeparators(map[string]interface{}{"*": ".", "material": []string{"[", "]"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]blockstate.Separator{"*": {Before: "."}, "material": {Before: "[", After: "]"}}, seps)
}

func TestValidateKey(t *testing.T) {
	root := blockstate.Path(nil)
	child := blockstate.Path{blockstate.NewStep("oak")}

	require.NoError(t, blockstate.ValidateKey("oak_log", root))
	require.Error(t, blockstate.ValidateKey("1oak", root))
	require.Error(t, blockstate.ValidateKey("-", root))
	require.Error(t, blockstate.ValidateKey("Oak", root))

	require.NoError(t, blockstate.ValidateKey("1", child))
	require.NoError(t, blockstate.ValidateKey("--", child))
	err := blockstate.ValidateKey("Bad-Name", child)
	require.Error(t, err)

	var namingErr blockstate.NamingError
	require.ErrorAs(t, err, &namingErr)
	assert.Equal(t, "oak", namingErr.Path)
}

func TestValidateLeaf(t *testing.T) {
	require.NoError(t, blockstate.ValidateLeaf(blockstate.Path{blockstate.NewStep("oak")}))

	err := blockstate.ValidateLeaf(blockstate.Path{blockstate.NewStep("oak"), blockstate.NewStep("-")})
	require.EqualError(t, err, "Invalid permutation name '-' under 'oak': Expected anonymous branch to have child permutations")
}

func TestStepFor(t *testing.T) {
	step, err := blockstate.StepFor("oak", parse(t, `{"title": "Oak", "type": "wood"}`))
	require.NoError(t, err)
	require.NotNil(t, step.Title)
	assert.Equal(t, "Oak", *step.Title)
	assert.Equal(t, "wood", step.Type)

	step, err = blockstate.StepFor("oak", parse(t, `{"title": null}`))
	require.NoError(t, err)
	assert.Nil(t, step.Title)

	step, err = blockstate.StepFor("oak", orderedmap.NewMap())
	require.NoError(t, err)
	assert.Equal(t, "oak", *step.Title)
	assert.Equal(t, blockstate.StepDefault, step.Type)

	_, err = blockstate.StepFor("oak", parse(t, `{"title": 1}`))
	require.EqualError(t, err, "Expected directive 'title' to be a string or null, but was number")
}

func TestAbsorbAndClone(t *testing.T) {
	classifier := classify.NewDefaultClassifier()
	parent := blockstate.New()
	require.NoError(t, parent.Absorb(classifier.Classify(parse(t, `{
		"title": "Oak", "$wood": "oak", "!geo": {"a": 1}, "#log": {}, "friction": 0.5,
		"@apply": ["log"]
	}`), diag.NewReporter(nil))))

	assert.Equal(t, []string{"apply"}, parent.Dir.Keys())

	child := parent.Clone()
	child.Path = child.Path.Push(blockstate.NewStep("x"))
	require.NoError(t, child.Absorb(classifier.Classify(parse(t, `{
		"$wood": "birch", "!geo": {"b": 2}, "@apply": ["stripped"], "friction": 0.2
	}`), diag.NewReporter(nil))))

	wood, _ := child.Vars.Get("wood")
	assert.Equal(t, "birch", wood)
	geo, _ := child.Static.Get("geo")
	assert.Equal(t, []string{"b"}, geo.(*orderedmap.Map).Keys())
	apply, _ := child.Dir.Get("apply")
	assert.Equal(t, []interface{}{"log", "stripped"}, apply)

	// parent is untouched
	wood, _ = parent.Vars.Get("wood")
	assert.Equal(t, "oak", wood)
	apply, _ = parent.Dir.Get("apply")
	assert.Equal(t, []interface{}{"log"}, apply)
	friction, _ := parent.Props.Get("friction")
	assert.Equal(t, 0.5, friction)
	assert.Empty(t, parent.Path)
}

func TestAbsorbTypeMismatch(t *testing.T) {
	classifier := classify.NewDefaultClassifier()
	state := blockstate.New()
	require.NoError(t, state.Absorb(classifier.Classify(parse(t, `{"friction": [1]}`), diag.NewReporter(nil))))

	err := state.Absorb(classifier.Classify(parse(t, `{"friction": {"a": 1}}`), diag.NewReporter(nil)))
	require.Error(t, err)

	var mismatch merge.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}
