// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package datameta_test

import (
	"testing"

	"carvel.dev/blockgen/pkg/datameta"
	"carvel.dev/blockgen/pkg/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONPreservesKeyOrder(t *testing.T) {
	data := []byte(`{
  // variants are walked in declaration order
  "oak": {"title": "Oak", "count": 3, "ratio": 0.5},
  "birch": {"export": false, "list": [1, "two", null, true],},
}`)

	val, err := datameta.NewParser(datameta.FormatJSON).ParseMap(data, "blocks.jsonc")
	require.NoError(t, err)

	assert.Equal(t, []string{"oak", "birch"}, val.Keys())

	oak, _ := val.Get("oak")
	assert.Equal(t, []string{"title", "count", "ratio"}, oak.(*orderedmap.Map).Keys())

	count, _ := oak.(*orderedmap.Map).Get("count")
	assert.Equal(t, int64(3), count)
	ratio, _ := oak.(*orderedmap.Map).Get("ratio")
	assert.Equal(t, 0.5, ratio)

	birch, _ := val.Get("birch")
	list, _ := birch.(*orderedmap.Map).Get("list")
	assert.Equal(t, []interface{}{int64(1), "two", nil, true}, list)
}

func TestParseJSONErrors(t *testing.T) {
	_, err := datameta.NewParser(datameta.FormatJSON).ParseMap([]byte(`[1, 2]`), "list.json")
	require.EqualError(t, err, "Expected list.json to contain an object, but was array")

	_, err = datameta.NewParser(datameta.FormatJSON).Parse([]byte(`{"a": `), "broken.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unmarshaling broken.json")

	_, err = datameta.NewParser(datameta.FormatJSON).Parse([]byte(`{} {}`), "two.json")
	require.EqualError(t, err, "Unmarshaling two.json: Expected a single document")
}

func TestParseEmptyDocument(t *testing.T) {
	val, err := datameta.NewParser(datameta.FormatJSON).ParseMap([]byte("  // nothing\n"), "empty.json")
	require.NoError(t, err)
	assert.Equal(t, 0, val.Len())
}

func TestParseYAMLPreservesKeyOrder(t *testing.T) {
	data := []byte(`
zeta: &base
  texture: z
alpha:
  count: 2
  ratio: 1.25
  list: [a, b]
  empty: ~
copy: *base
`)

	val, err := datameta.NewParser(datameta.FormatYAML).ParseMap(data, "materials.yml")
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "copy"}, val.Keys())

	alpha, _ := val.Get("alpha")
	count, _ := alpha.(*orderedmap.Map).Get("count")
	assert.Equal(t, int64(2), count)
	empty, found := alpha.(*orderedmap.Map).Get("empty")
	assert.True(t, found)
	assert.Nil(t, empty)

	cp, _ := val.Get("copy")
	texture, _ := cp.(*orderedmap.Map).Get("texture")
	assert.Equal(t, "z", texture)
}

func TestFormatFromPath(t *testing.T) {
	format, ok := datameta.FormatFromPath("a/b.JSONC")
	assert.True(t, ok)
	assert.Equal(t, datameta.FormatJSON, format)

	format, ok = datameta.FormatFromPath("a/b.yml")
	assert.True(t, ok)
	assert.Equal(t, datameta.FormatYAML, format)

	_, ok = datameta.FormatFromPath("a/b.txt")
	assert.False(t, ok)
}

func TestJSONPrinter(t *testing.T) {
	m := orderedmap.NewMap()
	m.Set("b", "x<y")
	m.Set("a", []interface{}{int64(1)})

	bs, err := datameta.NewJSONPrinter().Print(m)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": \"x<y\",\n  \"a\": [\n    1\n  ]\n}\n", string(bs))

	bs, err = datameta.NewCompactJSONPrinter().Print(m)
	require.NoError(t, err)
	assert.Equal(t, "{\"b\":\"x<y\",\"a\":[1]}\n", string(bs))
}
