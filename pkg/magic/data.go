// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package magic

import (
	"fmt"
	"strconv"
	"strings"

	"carvel.dev/blockgen/pkg/datameta"
	"carvel.dev/blockgen/pkg/orderedmap"
)

const (
	MetaKey               = "key"
	MetaKeys              = "keys"
	MetaKeyList           = "key_list"
	MetaValue             = "value"
	MetaMin               = "min"
	MetaMax               = "max"
	MetaLength            = "length"
	MetaCurrentBlockState = "current_block_state"
)

var MetaNames = []string{
	MetaKey, MetaKeys, MetaKeyList, MetaValue, MetaMin, MetaMax, MetaLength, MetaCurrentBlockState,
}

func isMetaKey(name string) bool {
	for _, key := range MetaNames {
		if key == name {
			return true
		}
	}
	return false
}

// Data is metadata about a referenced value. Objects contribute their
// keys and values; arrays contribute their elements as both; any other
// value is treated as a single entry.
type Data struct {
	// Property is the fully qualified property name (namespace:name).
	Property string
	keys     []interface{}
	values   []interface{}
	// Index selects the current entry for key/value.
	Index int
}

func NewData(namespace, property string, val interface{}) Data {
	data := Data{Property: qualify(namespace, property)}

	switch typedVal := val.(type) {
	case *orderedmap.Map:
		typedVal.Iterate(func(k string, v interface{}) {
			data.keys = append(data.keys, k)
			data.values = append(data.values, v)
		})
	case []interface{}:
		data.keys = append(data.keys, typedVal...)
		data.values = append(data.values, typedVal...)
	case nil:
	default:
		data.keys = []interface{}{typedVal}
		data.values = []interface{}{typedVal}
	}
	return data
}

func qualify(namespace, property string) string {
	if namespace == "" || strings.Contains(property, ":") {
		return property
	}
	return namespace + ":" + property
}

func (d Data) Length() int { return len(d.keys) }

func (d Data) Keys() []interface{} { return append([]interface{}(nil), d.keys...) }

// Get returns the metadata named by metaKey.
func (d Data) Get(metaKey string) (interface{}, error) {
	switch metaKey {
	case MetaKey:
		return d.entry(d.keys)
	case MetaValue:
		return d.entry(d.values)
	case MetaKeys:
		return d.Keys(), nil
	case MetaKeyList:
		return d.KeyList(), nil
	case MetaLength:
		return int64(d.Length()), nil
	case MetaMin:
		return d.bound(func(a, b float64) bool { return a < b })
	case MetaMax:
		return d.bound(func(a, b float64) bool { return a > b })
	case MetaCurrentBlockState:
		return d.CurrentBlockState(), nil
	default:
		return nil, fmt.Errorf("Unknown magic expression metadata key '%s' (known keys: %s)",
			metaKey, strings.Join(MetaNames, ", "))
	}
}

func (d Data) entry(list []interface{}) (interface{}, error) {
	if d.Index < 0 || d.Index >= len(list) {
		return nil, fmt.Errorf("Expected index %d of '%s' to be within 0..%d", d.Index, d.Property, len(list)-1)
	}
	return list[d.Index], nil
}

// KeyList renders keys as Molang literals joined with ", ".
func (d Data) KeyList() string {
	var parts []string
	for _, key := range d.keys {
		parts = append(parts, MolangLiteral(key))
	}
	return strings.Join(parts, ", ")
}

// CurrentBlockState is the Molang query reading the property's current value.
func (d Data) CurrentBlockState() string {
	return fmt.Sprintf("q.block_state('%s')", d.Property)
}

func (d Data) bound(better func(a, b float64) bool) (interface{}, error) {
	var (
		best    interface{}
		bestNum float64
	)
	for _, val := range d.values {
		num, ok := Number(val)
		if !ok {
			continue
		}
		if best == nil || better(num, bestNum) {
			best, bestNum = val, num
		}
	}
	if best == nil {
		return nil, fmt.Errorf("Expected '%s' to contain at least one number", d.Property)
	}
	return best, nil
}

// Number converts numeric values of the data model to float64.
func Number(val interface{}) (float64, bool) {
	switch typedVal := val.(type) {
	case int:
		return float64(typedVal), true
	case int64:
		return float64(typedVal), true
	case float64:
		return typedVal, true
	default:
		return 0, false
	}
}

// MolangLiteral renders val as a Molang literal: strings are single quoted.
func MolangLiteral(val interface{}) string {
	switch typedVal := val.(type) {
	case string:
		return "'" + strings.ReplaceAll(typedVal, "'", `\'`) + "'"
	case bool:
		return strconv.FormatBool(typedVal)
	case float64:
		return strconv.FormatFloat(typedVal, 'g', -1, 64)
	case nil:
		return "0"
	default:
		if num, ok := Number(val); ok {
			return strconv.FormatFloat(num, 'g', -1, 64)
		}
		return fmt.Sprintf("'%s'", datameta.TypeName(val))
	}
}
