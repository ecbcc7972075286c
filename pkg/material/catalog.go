// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package material

import (
	"fmt"
	"sort"

	"carvel.dev/blockgen/pkg/orderedmap"
)

// Catalog holds named material templates. It is read only once loaded.
type Catalog struct {
	templates map[string]interface{}
}

func NewCatalog() *Catalog {
	return &Catalog{templates: map[string]interface{}{}}
}

func (c *Catalog) Add(name string, def interface{}) error {
	if _, found := c.templates[name]; found {
		return fmt.Errorf("Expected material template '%s' to be defined once", name)
	}
	c.templates[name] = def
	return nil
}

// AddAll adds every top level entry of defs as a template.
func (c *Catalog) AddAll(defs *orderedmap.Map) error {
	return defs.IterateErr(func(name string, def interface{}) error {
		return c.Add(name, def)
	})
}

func (c *Catalog) Get(name string) (interface{}, bool) {
	if c == nil {
		return nil, false
	}
	def, found := c.templates[name]
	return def, found
}

func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	var names []string
	for name := range c.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
