// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package classify

import (
	"fmt"
	"strings"

	"carvel.dev/blockgen/pkg/diag"
	"carvel.dev/blockgen/pkg/orderedmap"
)

const (
	DirectiveExport               = "export"
	DirectiveTitle                = "title"
	DirectiveType                 = "type"
	DirectiveMaterials            = "materials"
	DirectiveTextures             = "textures"
	DirectiveMaterialPermutations = "material_permutations"
	DirectiveMaterialInstances    = "material_instances"
	DirectiveRender               = "render"
	DirectiveApply                = "apply"
	DirectiveFormatVersion        = "format_version"
	DirectiveStates               = "states"
	DirectivePermutations         = "permutations"
	DirectiveEvents               = "events"
	DirectiveDescription          = "description"
)

var Directives = []string{
	DirectiveExport,
	DirectiveTitle,
	DirectiveType,
	DirectiveMaterials,
	DirectiveTextures,
	DirectiveMaterialPermutations,
	DirectiveMaterialInstances,
	DirectiveRender,
	DirectiveApply,
	DirectiveFormatVersion,
	DirectiveStates,
	DirectivePermutations,
	DirectiveEvents,
	DirectiveDescription,
}

const tagNamespace = "tag:"

// DirectiveError is an unusable directive. The directive is skipped and
// the rest of its node is still processed.
type DirectiveError struct {
	Directive string
	Message   string
}

func (e DirectiveError) Error() string { return e.Message }

func NewDirectiveError(directive, format string, args ...interface{}) DirectiveError {
	return DirectiveError{Directive: directive, Message: fmt.Sprintf(format, args...)}
}

type Classified struct {
	Dir      *orderedmap.Map
	Vars     *orderedmap.Map
	Variants *orderedmap.Map
	Static   *orderedmap.Map
	Tags     *orderedmap.Map
	Props    *orderedmap.Map
}

func NewClassified() Classified {
	return Classified{
		Dir:      orderedmap.NewMap(),
		Vars:     orderedmap.NewMap(),
		Variants: orderedmap.NewMap(),
		Static:   orderedmap.NewMap(),
		Tags:     orderedmap.NewMap(),
		Props:    orderedmap.NewMap(),
	}
}

type Classifier struct {
	prefixes   Prefixes
	rules      []prefixRule
	directives map[string]struct{}
}

func NewClassifier(prefixes Prefixes, directives []string) Classifier {
	known := map[string]struct{}{}
	for _, name := range directives {
		known[name] = struct{}{}
	}
	return Classifier{prefixes, prefixes.sortedRules(), known}
}

func NewDefaultClassifier() Classifier {
	return NewClassifier(DefaultPrefixes(), Directives)
}

func (c Classifier) Prefixes() Prefixes { return c.prefixes }

func (c Classifier) IsDirective(name string) bool {
	_, found := c.directives[name]
	return found
}

// Key returns the category of key and its name with the prefix removed.
func (c Classifier) Key(key string) (Category, string) {
	for _, rule := range c.rules {
		if strings.HasPrefix(key, rule.prefix) {
			return rule.category, strings.TrimPrefix(key, rule.prefix)
		}
	}
	if c.IsDirective(key) {
		return CategoryDirective, key
	}
	return CategoryProp, key
}

// Classify partitions node. Unknown directives and empty names are
// reported and dropped; node is not modified.
func (c Classifier) Classify(node *orderedmap.Map, rep diag.Reporter) Classified {
	result := NewClassified()

	node.Iterate(func(key string, val interface{}) {
		category, name := c.Key(key)

		if len(name) == 0 {
			rep.Errorf("Expected key '%s' to have a name after its %s prefix", key, category)
			return
		}

		switch category {
		case CategoryDirective:
			if !c.IsDirective(name) {
				rep.Error(NewDirectiveError(name, "Unknown directive '%s' (known directives: %s)", name, strings.Join(Directives, ", ")))
				return
			}
			result.Dir.Set(name, val)

		case CategoryVariable:
			result.Vars.Set(name, val)

		case CategoryStatic:
			result.Static.Set(name, val)

		case CategoryTag:
			if strings.HasPrefix(name, tagNamespace) {
				rep.Noticef("Tag '%s' has a redundant '%s' prefix", key, tagNamespace)
				name = strings.TrimPrefix(name, tagNamespace)
			}
			result.Tags.Set(tagNamespace+name, val)

		case CategoryChild:
			result.Variants.Set(name, val)

		default:
			result.Props.Set(name, val)
		}
	})

	return result
}

// ClassifyRoot treats every key of a template file's top level object as a
// root branch. A child prefix on a root key is accepted but redundant.
func (c Classifier) ClassifyRoot(node *orderedmap.Map, rep diag.Reporter) *orderedmap.Map {
	result := orderedmap.NewMap()
	node.Iterate(func(key string, val interface{}) {
		if strings.HasPrefix(key, c.prefixes.Child) {
			rep.Noticef("Root branch '%s' has a redundant '%s' prefix", key, c.prefixes.Child)
			key = strings.TrimPrefix(key, c.prefixes.Child)
		}
		result.Set(key, val)
	})
	return result
}
