// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package orderedmap_test

import (
	"reflect"
	"testing"

	"carvel.dev/blockgen/pkg/orderedmap"
	"github.com/stretchr/testify/require"
)

func TestFromUnorderedMaps(t *testing.T) {
	inputA := map[string]interface{}{
		"key": []interface{}{map[string]interface{}{"nestedKey": "nestedValue"}},
	}
	inputB := map[string]interface{}{
		"key": []interface{}{map[string]interface{}{"nestedKey": "nestedValue"}},
	}

	result := orderedmap.Conversion{Object: inputA}.FromUnorderedMaps()

	if !reflect.DeepEqual(inputA, inputB) {
		t.Errorf("Nested object was modified. Got: %v, Expected: %v", inputA, inputB)
	}

	resultMap, ok := result.(*orderedmap.Map)
	require.True(t, ok)
	require.Equal(t, []string{"key"}, resultMap.Keys())
}

func TestFromUnorderedMapsSortsKeys(t *testing.T) {
	result := orderedmap.Conversion{Object: map[string]interface{}{"b": 1, "a": 2, "c": 3}}.FromUnorderedMaps()
	require.Equal(t, []string{"a", "b", "c"}, result.(*orderedmap.Map).Keys())
}

func TestAsUnorderedStringMapsDoesNotModifyInput(t *testing.T) {
	inner := orderedmap.NewMap()
	inner.Set("x", 1)
	input := []interface{}{inner}

	result := orderedmap.Conversion{Object: input}.AsUnorderedStringMaps()

	require.Equal(t, []interface{}{map[string]interface{}{"x": 1}}, result)
	require.IsType(t, &orderedmap.Map{}, input[0])
}
