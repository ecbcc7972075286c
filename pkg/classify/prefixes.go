// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package classify

import (
	"fmt"
	"sort"
)

type Category int

const (
	CategoryProp Category = iota
	CategoryVariable
	CategoryDirective
	CategoryStatic
	CategoryTag
	CategoryChild
)

func (c Category) String() string {
	switch c {
	case CategoryProp:
		return "property"
	case CategoryVariable:
		return "variable"
	case CategoryDirective:
		return "directive"
	case CategoryStatic:
		return "static"
	case CategoryTag:
		return "tag"
	case CategoryChild:
		return "child"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Prefixes is the prefix table. Order of checks is the field order
// below; longer prefixes are always tried before shorter ones.
type Prefixes struct {
	Variable  string `toml:"variable"`
	Directive string `toml:"directive"`
	Static    string `toml:"static"`
	Tag       string `toml:"tag"`
	Child     string `toml:"child"`
}

func DefaultPrefixes() Prefixes {
	return Prefixes{
		Variable:  "$",
		Directive: "@",
		Static:    "!",
		Tag:       "#",
		Child:     "/",
	}
}

// WithDefaults fills empty entries from DefaultPrefixes.
func (p Prefixes) WithDefaults() Prefixes {
	defaults := DefaultPrefixes()
	if p.Variable == "" {
		p.Variable = defaults.Variable
	}
	if p.Directive == "" {
		p.Directive = defaults.Directive
	}
	if p.Static == "" {
		p.Static = defaults.Static
	}
	if p.Tag == "" {
		p.Tag = defaults.Tag
	}
	if p.Child == "" {
		p.Child = defaults.Child
	}
	return p
}

func (p Prefixes) Validate() error {
	seen := map[string]Category{}
	for _, rule := range p.rules() {
		if rule.prefix == "" {
			return fmt.Errorf("Expected %s prefix to be non-empty", rule.category)
		}
		if other, found := seen[rule.prefix]; found {
			return fmt.Errorf("Expected %s prefix '%s' to differ from %s prefix", rule.category, rule.prefix, other)
		}
		seen[rule.prefix] = rule.category
	}
	return nil
}

type prefixRule struct {
	prefix   string
	category Category
	priority int
}

func (p Prefixes) rules() []prefixRule {
	return []prefixRule{
		{p.Variable, CategoryVariable, 0},
		{p.Directive, CategoryDirective, 1},
		{p.Static, CategoryStatic, 2},
		{p.Tag, CategoryTag, 3},
		{p.Child, CategoryChild, 4},
	}
}

func (p Prefixes) sortedRules() []prefixRule {
	rules := p.rules()
	sort.SliceStable(rules, func(i, j int) bool {
		if len(rules[i].prefix) != len(rules[j].prefix) {
			return len(rules[i].prefix) > len(rules[j].prefix)
		}
		return rules[i].priority < rules[j].priority
	})
	return rules
}
