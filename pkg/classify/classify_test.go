// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package classify_test

import (
	"testing"

	"carvel.dev/blockgen/pkg/classify"
	"carvel.dev/blockgen/pkg/datameta"
	"carvel.dev/blockgen/pkg/diag"
	"carvel.dev/blockgen/pkg/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, data string) *orderedmap.Map {
	m, err := datameta.NewParser(datameta.FormatJSON).ParseMap([]byte(data), "test.json")
	require.NoError(t, err)
	return m
}

func TestClassifySplitsByPrefix(t *testing.T) {
	node := parse(t, `{
		"@export": true,
		"title": "Oak",
		"$color": "brown",
		"/stripped": {},
		"!minecraft:geometry": "geometry.log",
		"#wood": {},
		"minecraft:destructible_by_mining": {"seconds_to_destroy": 1}
	}`)

	log := diag.NewLog()
	result := classify.NewDefaultClassifier().Classify(node, diag.NewReporter(log))

	assert.Equal(t, []string{"export", "title"}, result.Dir.Keys())
	assert.Equal(t, []string{"color"}, result.Vars.Keys())
	assert.Equal(t, []string{"stripped"}, result.Variants.Keys())
	assert.Equal(t, []string{"minecraft:geometry"}, result.Static.Keys())
	assert.Equal(t, []string{"tag:wood"}, result.Tags.Keys())
	assert.Equal(t, []string{"minecraft:destructible_by_mining"}, result.Props.Keys())
	assert.Empty(t, log.Messages())

	// input is untouched
	assert.Equal(t, 7, node.Len())
}

func TestUnknownDirectiveIsReportedAndDropped(t *testing.T) {
	log := diag.NewLog()
	result := classify.NewDefaultClassifier().Classify(parse(t, `{"@colour": "red", "@export": false}`), diag.NewReporter(log).With("oak"))

	assert.Equal(t, []string{"export"}, result.Dir.Keys())
	msgs := log.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, diag.LevelError, msgs[0].Level)
	assert.Contains(t, msgs[0].Message, "Unknown directive 'colour'")
	assert.Equal(t, []string{"oak"}, msgs[0].Context)
}

func TestEmptyNameIsReported(t *testing.T) {
	log := diag.NewLog()
	result := classify.NewDefaultClassifier().Classify(parse(t, `{"$": 1}`), diag.NewReporter(log))

	assert.Equal(t, 0, result.Vars.Len())
	require.Len(t, log.Messages(), 1)
	assert.Equal(t, "Expected key '$' to have a name after its variable prefix", log.Messages()[0].Message)
}

func TestRedundantTagPrefixNotice(t *testing.T) {
	log := diag.NewLog()
	result := classify.NewDefaultClassifier().Classify(parse(t, `{"#tag:stone": {}}`), diag.NewReporter(log))

	assert.Equal(t, []string{"tag:stone"}, result.Tags.Keys())
	require.Len(t, log.Messages(), 1)
	assert.Equal(t, diag.LevelNotice, log.Messages()[0].Level)
}

func TestClassificationIsIdempotentOnProps(t *testing.T) {
	node := parse(t, `{
		"$v": 1, "@title": "x", "/child": {}, "#t": {}, "!s": 1,
		"minecraft:geometry": "g", "friction": 0.4, "light_dampening": 0
	}`)

	classifier := classify.NewDefaultClassifier()
	first := classifier.Classify(node, diag.NewReporter(nil))
	second := classifier.Classify(first.Props, diag.NewReporter(nil))

	assert.Equal(t, first.Props, second.Props)
	assert.Equal(t, 0, second.Dir.Len())
	assert.Equal(t, 0, second.Vars.Len())
	assert.Equal(t, 0, second.Variants.Len())
	assert.Equal(t, 0, second.Static.Len())
	assert.Equal(t, 0, second.Tags.Len())
}

func TestLongerPrefixWins(t *testing.T) {
	prefixes := classify.DefaultPrefixes()
	prefixes.Static = "$$"
	classifier := classify.NewClassifier(prefixes, classify.Directives)

	category, name := classifier.Key("$$frozen")
	assert.Equal(t, classify.CategoryStatic, category)
	assert.Equal(t, "frozen", name)

	category, name = classifier.Key("$var")
	assert.Equal(t, classify.CategoryVariable, category)
	assert.Equal(t, "var", name)
}

func TestSamePrefixLengthFollowsPriority(t *testing.T) {
	prefixes := classify.DefaultPrefixes()
	prefixes.Tag = "!"
	classifier := classify.NewClassifier(prefixes, classify.Directives)

	category, _ := classifier.Key("!thing")
	assert.Equal(t, classify.CategoryStatic, category)
	assert.Error(t, prefixes.Validate())
}

func TestPrefixesValidate(t *testing.T) {
	require.NoError(t, classify.DefaultPrefixes().Validate())
	require.NoError(t, classify.Prefixes{Tag: "+"}.WithDefaults().Validate())

	err := classify.Prefixes{Variable: "$"}.Validate()
	require.EqualError(t, err, "Expected directive prefix to be non-empty")
}

func TestClassifyRoot(t *testing.T) {
	log := diag.NewLog()
	roots := classify.NewDefaultClassifier().ClassifyRoot(parse(t, `{"oak": {}, "/birch": {}, "@odd": {}}`), diag.NewReporter(log))

	assert.Equal(t, []string{"oak", "birch", "@odd"}, roots.Keys())
	require.Len(t, log.Messages(), 1)
	assert.Equal(t, diag.LevelNotice, log.Messages()[0].Level)
}
