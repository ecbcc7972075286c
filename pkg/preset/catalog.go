// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package preset

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"carvel.dev/blockgen/pkg/classify"
	"carvel.dev/blockgen/pkg/datameta"
	"carvel.dev/blockgen/pkg/merge"
	"carvel.dev/blockgen/pkg/orderedmap"
)

const (
	keyParent       = "parent"
	keyTemplates    = "templates"
	keyDefaults     = "defaults"
	keyRequired     = "required"
	keyData         = "data"
	keyStates       = "states"
	keyEvents       = "events"
	keyPermutations = "permutations"
)

type MissingError struct {
	Name  string
	Known []string
}

func (e MissingError) Error() string {
	return fmt.Sprintf("Expected preset '%s' to be defined (known presets: %s)", e.Name, strings.Join(e.Known, ", "))
}

type CycleError struct {
	Chain []string
}

func (e CycleError) Error() string {
	return fmt.Sprintf("Expected preset '%s' to not inherit from itself (%s)",
		e.Chain[len(e.Chain)-1], strings.Join(e.Chain, " -> "))
}

// Catalog holds named preset templates. Resolved templates are cached;
// the catalog may be shared between goroutines once loaded.
type Catalog struct {
	classifier classify.Classifier
	raw        map[string]*orderedmap.Map

	mu       sync.Mutex
	resolved map[string]*Template
}

func NewCatalog(classifier classify.Classifier) *Catalog {
	return &Catalog{
		classifier: classifier,
		raw:        map[string]*orderedmap.Map{},
		resolved:   map[string]*Template{},
	}
}

func (c *Catalog) Add(name string, tmpl *orderedmap.Map) error {
	if _, found := c.raw[name]; found {
		return fmt.Errorf("Expected preset '%s' to be defined once", name)
	}
	c.raw[name] = tmpl
	return nil
}

func (c *Catalog) Has(name string) bool {
	_, found := c.raw[name]
	return found
}

func (c *Catalog) Names() []string {
	var names []string
	for name := range c.raw {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the preset with its parent and templates merged in.
func (c *Catalog) Resolve(name string) (*Template, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tmpl, found := c.resolved[name]; found {
		return tmpl, nil
	}

	merged, err := c.chain(name, nil)
	if err != nil {
		return nil, err
	}
	tmpl, err := newTemplate(name, merged, c.classifier)
	if err != nil {
		return nil, err
	}
	c.resolved[name] = tmpl
	return tmpl, nil
}

// chain merges the inheritance chain of name base first.
func (c *Catalog) chain(name string, visited []string) (*orderedmap.Map, error) {
	path := append(append([]string(nil), visited...), name)
	for _, seen := range visited {
		if seen == name {
			return nil, CycleError{Chain: path}
		}
	}

	raw, found := c.raw[name]
	if !found {
		return nil, MissingError{Name: name, Known: c.Names()}
	}

	var bases []string

	if parent, found := raw.Get(keyParent); found {
		parentName, ok := parent.(string)
		if !ok {
			return nil, fmt.Errorf("Expected preset '%s' parent to be a string, but was %s", name, datameta.TypeName(parent))
		}
		bases = append(bases, parentName)
	}

	if templates, found := raw.Get(keyTemplates); found {
		list, ok := templates.([]interface{})
		if !ok {
			return nil, fmt.Errorf("Expected preset '%s' templates to be an array, but was %s", name, datameta.TypeName(templates))
		}
		for _, item := range list {
			itemName, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("Expected preset '%s' templates to contain strings, but found %s", name, datameta.TypeName(item))
			}
			bases = append(bases, itemName)
		}
	}

	result := orderedmap.NewMap()
	for _, base := range bases {
		baseMap, err := c.chain(base, path)
		if err != nil {
			return nil, err
		}
		if err := merge.Maps(result, baseMap, merge.Options{}); err != nil {
			return nil, fmt.Errorf("Merging preset '%s' into '%s': %w", base, name, err)
		}
	}

	own := raw.DeepCopy()
	own.Delete(keyParent)
	own.Delete(keyTemplates)
	if err := merge.Maps(result, own, merge.Options{}); err != nil {
		return nil, fmt.Errorf("Merging preset '%s': %w", name, err)
	}
	return result, nil
}
