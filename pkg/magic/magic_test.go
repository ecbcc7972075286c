// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package magic_test

import (
	"testing"

	"carvel.dev/blockgen/pkg/datameta"
	"carvel.dev/blockgen/pkg/magic"
	"carvel.dev/blockgen/pkg/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, data string) *orderedmap.Map {
	m, err := datameta.NewParser(datameta.FormatJSON).ParseMap([]byte(data), "test.json")
	require.NoError(t, err)
	return m
}

func TestParse(t *testing.T) {
	expr, err := magic.Parse("%axis")
	require.NoError(t, err)
	assert.Equal(t, &magic.Expression{Origin: magic.OriginParameter, Property: "axis", Raw: "%axis"}, expr)

	expr, err = magic.Parse("$faces.top")
	require.NoError(t, err)
	assert.Equal(t, magic.OriginVariable, expr.Origin)
	assert.Equal(t, "faces", expr.Property)
	assert.Equal(t, "top", expr.SubKey)

	expr, err = magic.Parse("%size::max")
	require.NoError(t, err)
	assert.Equal(t, "max", expr.MetaKey)

	expr, err = magic.Parse("%a.[%b::value]::keys")
	require.NoError(t, err)
	assert.Equal(t, "a", expr.Property)
	require.NotNil(t, expr.Dynamic)
	assert.Equal(t, "b", expr.Dynamic.Property)
	assert.Equal(t, "value", expr.Dynamic.MetaKey)
	assert.Equal(t, "%a.[%b::value]::keys", expr.Raw)
}

func TestParseErrors(t *testing.T) {
	_, err := magic.Parse("plain")
	require.EqualError(t, err, "Expected 'plain' to be a magic expression (e.g. %name, %name.key, %name::keys)")

	_, err = magic.Parse("%a::bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown magic expression metadata key 'bogus'")

	_, err = magic.Parse("%a.[%b.[%c]]")
	require.EqualError(t, err, "Expected at most one level of dynamic keys in '%a.[%b.[%c]]'")

	_, err = magic.Parse("%a.[%b")
	require.EqualError(t, err, "Expected closing ']' in '%a.[%b'")
}

func TestSegments(t *testing.T) {
	segments, err := magic.Segments("q.block_state('x') == %axis::key && 50%")
	require.NoError(t, err)
	require.Len(t, segments, 3)
	assert.Equal(t, "q.block_state('x') == ", segments[0].Text)
	assert.Equal(t, "%axis::key", segments[1].Expr.Raw)
	assert.Equal(t, " && 50%", segments[2].Text)

	assert.True(t, magic.Contains("a %b c"))
	assert.False(t, magic.Contains("a % b $ c"))
	assert.True(t, magic.IsExpression("$wood"))
	assert.False(t, magic.IsExpression("$wood "))
}

func TestMetadata(t *testing.T) {
	scope := magic.Scope{
		Params:    parse(t, `{"faces": {"up": 1, "down": 5, "north": "x"}, "sizes": [3, 8, 2], "name": "oak"}`),
		Namespace: "wiki",
	}

	cases := []struct {
		expr     string
		expected interface{}
	}{
		{"%faces::keys", []interface{}{"up", "down", "north"}},
		{"%faces::key_list", "'up', 'down', 'north'"},
		{"%faces::length", int64(3)},
		{"%faces::max", int64(5)},
		{"%faces::min", int64(1)},
		{"%faces::key", "up"},
		{"%faces::value", int64(1)},
		{"%faces::current_block_state", "q.block_state('wiki:faces')"},
		{"%sizes::key_list", "3, 8, 2"},
		{"%sizes::max", int64(8)},
		{"%sizes::min", int64(2)},
		{"%sizes.1", int64(8)},
		{"%faces.down", int64(5)},
		{"%name::length", int64(1)},
	}

	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			expr, err := magic.Parse(tc.expr)
			require.NoError(t, err)
			val, err := scope.Evaluate(expr)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, val)
		})
	}
}

func TestDynamicKey(t *testing.T) {
	scope := magic.Scope{
		Params: parse(t, `{"textures": {"north": "n.png", "south": "s.png"}, "dir": ["south", "north"]}`),
	}

	val, err := scope.Expand("%textures.[%dir::value]")
	require.NoError(t, err)
	assert.Equal(t, "s.png", val)

	val, err = scope.Bind("%dir", 1).Expand("%textures.[%dir::value]")
	require.NoError(t, err)
	assert.Equal(t, "n.png", val)
}

func TestResolutionErrors(t *testing.T) {
	scope := magic.Scope{Params: parse(t, `{"list": [1], "name": "x", "obj": {"a": 1}}`)}

	cases := map[string]string{
		"%missing":     "Resolving magic expression '%missing': Expected parameter 'missing' to be defined",
		"%list.4":      "Resolving magic expression '%list.4': Expected index 4 of parameter 'list' to be within 0..0",
		"%list.x":      "Resolving magic expression '%list.x': Expected index 'x' of parameter 'list' to be an integer",
		"%name.a":      "Resolving magic expression '%name.a': Expected parameter 'name' to be an object or array to look up 'a'",
		"%obj.b":       "Resolving magic expression '%obj.b': Expected parameter 'obj' to have key 'b' (keys: a)",
		"%name::max":   "Resolving magic expression '%name::max': Expected 'name' to contain at least one number",
		"$wood":        "Resolving magic expression '$wood': Expected variable 'wood' to be defined",
		"%list.[%obj]": "Resolving magic expression '%list.[%obj]': Expected index '{\"a\":1}' of parameter 'list' to be an integer",
	}

	for str, expected := range cases {
		_, err := scope.Expand(str)
		require.Error(t, err, str)

		var resErr magic.ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Equal(t, expected, err.Error())
	}
}

func TestExpand(t *testing.T) {
	scope := magic.Scope{
		Params:    parse(t, `{"axis": ["x", "y", "z"], "depth": 2}`),
		Variables: parse(t, `{"wood": "oak"}`),
		Namespace: "wiki",
	}

	val, err := scope.Expand("%depth")
	require.NoError(t, err)
	assert.Equal(t, int64(2), val)

	val, err = scope.Expand("$wood-%depth")
	require.NoError(t, err)
	assert.Equal(t, "oak-2", val)

	val, err = scope.Expand("%axis::current_block_state == %axis::key")
	require.NoError(t, err)
	assert.Equal(t, "q.block_state('wiki:axis') == x", val)

	val, err = scope.Expand("[%axis::keys]")
	require.NoError(t, err)
	assert.Equal(t, "['x', 'y', 'z']", val)

	val, err = scope.Expand("50%off for $5, depth %depth")
	require.NoError(t, err)
	assert.Equal(t, "50%off for $5, depth 2", val)

	val, err = scope.Expand("$unknown_var and $wood")
	require.NoError(t, err)
	assert.Equal(t, "$unknown_var and oak", val)

	// a whole-string expression still has to resolve
	_, err = scope.Expand("%off")
	require.EqualError(t, err, "Resolving magic expression '%off': Expected parameter 'off' to be defined")
}

func TestExpandValue(t *testing.T) {
	scope := magic.Scope{Params: parse(t, `{"axis": {"x": [0, 0, 0], "y": [90, 0, 0]}}`)}

	val, err := scope.ExpandValue(parse(t, `{"%axis::key": "%axis.x", "list": ["%axis::length"], "n": 1}`))
	require.NoError(t, err)

	bs, err := datameta.NewCompactJSONPrinter().Print(val)
	require.NoError(t, err)
	assert.Equal(t, `{"x":[0,0,0],"list":[2],"n":1}`+"\n", string(bs))
}

func TestEach(t *testing.T) {
	scope := magic.Scope{Params: parse(t, `{"axis": {"x": 0, "y": 90, "z": 180}}`), Namespace: "wiki"}

	scopes, err := scope.Each("%axis")
	require.NoError(t, err)
	require.Len(t, scopes, 3)

	var keys, values []interface{}
	for _, s := range scopes {
		key, err := s.Expand("%axis::key")
		require.NoError(t, err)
		value, err := s.Expand("%axis::value")
		require.NoError(t, err)
		keys = append(keys, key)
		values = append(values, value)
	}
	assert.Equal(t, []interface{}{"x", "y", "z"}, keys)
	assert.Equal(t, []interface{}{int64(0), int64(90), int64(180)}, values)

	// original scope is not bound
	assert.Empty(t, scope.Bindings)

	_, err = scope.Each("%axis::keys")
	require.Error(t, err)
}
