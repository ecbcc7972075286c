// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package preset

import (
	"fmt"

	"carvel.dev/blockgen/pkg/datameta"
	"carvel.dev/blockgen/pkg/diag"
	"carvel.dev/blockgen/pkg/merge"
	"carvel.dev/blockgen/pkg/orderedmap"
)

// Entry is one item of an apply directive.
type Entry struct {
	// Name identifies the entry for stacking and disabling. It defaults
	// to the preset name.
	Name    string
	Preset  string
	Config  *orderedmap.Map
	Disable bool
}

// ParseApply reads the apply directive: an array of entries or a map of
// names to entries.
func ParseApply(val interface{}) ([]Entry, error) {
	switch typedVal := val.(type) {
	case nil:
		return nil, nil

	case string:
		return []Entry{{Name: typedVal, Preset: typedVal, Config: orderedmap.NewMap()}}, nil

	case []interface{}:
		var entries []Entry
		for i, item := range typedVal {
			entry, err := parseListEntry(item)
			if err != nil {
				return nil, fmt.Errorf("Apply entry %d: %w", i, err)
			}
			entries = append(entries, entry)
		}
		return entries, nil

	case *orderedmap.Map:
		var entries []Entry
		err := typedVal.IterateErr(func(name string, item interface{}) error {
			entry, err := parseMapEntry(name, item)
			if err != nil {
				return fmt.Errorf("Apply entry '%s': %w", name, err)
			}
			entries = append(entries, entry)
			return nil
		})
		return entries, err

	default:
		return nil, fmt.Errorf("Expected directive 'apply' to be an array or an object, but was %s", datameta.TypeName(val))
	}
}

func parseListEntry(item interface{}) (Entry, error) {
	switch typedItem := item.(type) {
	case string:
		return Entry{Name: typedItem, Preset: typedItem, Config: orderedmap.NewMap()}, nil

	case *orderedmap.Map:
		if disable, found := typedItem.Get("disable"); found {
			name, ok := disable.(string)
			if !ok {
				return Entry{}, fmt.Errorf("Expected 'disable' to be a preset entry name, but was %s", datameta.TypeName(disable))
			}
			return Entry{Name: name, Disable: true}, nil
		}

		presetVal, found := typedItem.Get("preset")
		if !found {
			return Entry{}, fmt.Errorf("Expected entry to name a 'preset' or 'disable' an entry")
		}
		presetName, ok := presetVal.(string)
		if !ok {
			return Entry{}, fmt.Errorf("Expected 'preset' to be a string, but was %s", datameta.TypeName(presetVal))
		}

		entry := Entry{Name: presetName, Preset: presetName}
		if nameVal, found := typedItem.Get("name"); found {
			name, ok := nameVal.(string)
			if !ok {
				return Entry{}, fmt.Errorf("Expected 'name' to be a string, but was %s", datameta.TypeName(nameVal))
			}
			entry.Name = name
		}

		config, err := entryConfig(typedItem)
		if err != nil {
			return Entry{}, err
		}
		entry.Config = config
		return entry, nil

	default:
		return Entry{}, fmt.Errorf("Expected entry to be a string or an object, but was %s", datameta.TypeName(item))
	}
}

func parseMapEntry(name string, item interface{}) (Entry, error) {
	switch typedItem := item.(type) {
	case bool:
		if !typedItem {
			return Entry{Name: name, Disable: true}, nil
		}
		return Entry{Name: name, Preset: name, Config: orderedmap.NewMap()}, nil

	case *orderedmap.Map:
		entry := Entry{Name: name, Preset: name}
		if presetVal, found := typedItem.Get("preset"); found {
			presetName, ok := presetVal.(string)
			if !ok {
				return Entry{}, fmt.Errorf("Expected 'preset' to be a string, but was %s", datameta.TypeName(presetVal))
			}
			entry.Preset = presetName
		}
		config, err := entryConfig(typedItem)
		if err != nil {
			return Entry{}, err
		}
		entry.Config = config
		return entry, nil

	default:
		return Entry{}, fmt.Errorf("Expected entry to be a boolean or an object, but was %s", datameta.TypeName(item))
	}
}

func entryConfig(item *orderedmap.Map) (*orderedmap.Map, error) {
	config, found := item.Get("config")
	if !found || config == nil {
		return orderedmap.NewMap(), nil
	}
	typedConfig, ok := config.(*orderedmap.Map)
	if !ok {
		return nil, fmt.Errorf("Expected 'config' to be an object, but was %s", datameta.TypeName(config))
	}
	return typedConfig.DeepCopy(), nil
}

// Flatten folds entries in order into the active list. Entries sharing a
// name stack: configs merge and a later preset replaces the earlier one.
// A disable entry removes the named entry.
func Flatten(entries []Entry, rep diag.Reporter) ([]Entry, error) {
	var active []Entry

	indexOf := func(name string) int {
		for i, entry := range active {
			if entry.Name == name {
				return i
			}
		}
		return -1
	}

	for _, entry := range entries {
		idx := indexOf(entry.Name)

		if entry.Disable {
			if idx < 0 {
				rep.Warnf("Disabled preset entry '%s' is not applied", entry.Name)
				continue
			}
			active = append(active[:idx], active[idx+1:]...)
			continue
		}

		if idx < 0 {
			active = append(active, Entry{Name: entry.Name, Preset: entry.Preset, Config: entry.Config.DeepCopy()})
			continue
		}

		stacked := active[idx]
		stacked.Preset = entry.Preset
		if err := merge.Maps(stacked.Config, entry.Config, merge.Options{}); err != nil {
			return nil, fmt.Errorf("Stacking preset entry '%s': %w", entry.Name, err)
		}
		active[idx] = stacked
	}

	return active, nil
}
