// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package material

import (
	"fmt"
	"strings"

	"carvel.dev/blockgen/pkg/datameta"
	"carvel.dev/blockgen/pkg/diag"
	"carvel.dev/blockgen/pkg/merge"
	"carvel.dev/blockgen/pkg/orderedmap"
)

const (
	DefaultFace = "*"

	KeyTexture          = "texture"
	KeyRenderMethod     = "render_method"
	KeyAmbientOcclusion = "ambient_occlusion"
	KeyFaceDimming      = "face_dimming"

	keyTemplate = "template"
	keyTitle    = "title"
)

var InstanceKeys = []string{KeyTexture, KeyRenderMethod, KeyAmbientOcclusion, KeyFaceDimming}

var RenderMethods = []string{
	"opaque",
	"double_sided",
	"blend",
	"alpha_test",
	"alpha_test_single_sided",
	"blend_to_opaque",
	"alpha_test_to_opaque",
	"alpha_test_single_sided_to_opaque",
}

func contains(list []string, item string) bool {
	for _, candidate := range list {
		if candidate == item {
			return true
		}
	}
	return false
}

type normalizer struct {
	catalog *Catalog
	render  *orderedmap.Map
}

// faces converts a material definition to a map of faces to instances.
// Strings name a catalog template or else a texture.
func (n normalizer) faces(def interface{}, seen []string) (*orderedmap.Map, error) {
	switch typedDef := def.(type) {
	case string:
		if tmpl, found := n.catalog.Get(typedDef); found {
			chain := append(append([]string(nil), seen...), typedDef)
			if contains(seen, typedDef) {
				return nil, fmt.Errorf("Expected material template '%s' to not include itself (%s)",
					typedDef, strings.Join(chain, " -> "))
			}
			return n.faces(tmpl, chain)
		}
		return orderedmap.NewMapWithItems([]orderedmap.MapItem{
			{Key: DefaultFace, Value: textureInstance(typedDef)},
		}), nil

	case *orderedmap.Map:
		if tmplName, found := typedDef.Get(keyTemplate); found {
			return n.templated(tmplName, typedDef, seen)
		}
		if typedDef.Has(KeyTexture) {
			instance := typedDef.DeepCopy()
			instance.Delete(keyTitle)
			return orderedmap.NewMapWithItems([]orderedmap.MapItem{{Key: DefaultFace, Value: instance}}), nil
		}

		result := orderedmap.NewMap()
		err := typedDef.IterateErr(func(face string, val interface{}) error {
			if face == keyTitle {
				return nil
			}
			switch typedVal := val.(type) {
			case string:
				result.Set(face, textureInstance(typedVal))
			case *orderedmap.Map:
				result.Set(face, typedVal.DeepCopy())
			default:
				return fmt.Errorf("Expected material instance '%s' to be a texture name or an object, but was %s",
					face, datameta.TypeName(val))
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return result, nil

	default:
		return nil, fmt.Errorf("Expected material to be a string or an object, but was %s", datameta.TypeName(def))
	}
}

func (n normalizer) templated(tmplName interface{}, def *orderedmap.Map, seen []string) (*orderedmap.Map, error) {
	name, ok := tmplName.(string)
	if !ok {
		return nil, fmt.Errorf("Expected material 'template' to be a string, but was %s", datameta.TypeName(tmplName))
	}
	if _, found := n.catalog.Get(name); !found {
		return nil, fmt.Errorf("Expected material template '%s' to be defined (known templates: %s)",
			name, strings.Join(n.catalog.Names(), ", "))
	}

	base, err := n.faces(name, seen)
	if err != nil {
		return nil, err
	}

	overrides := def.DeepCopy()
	overrides.Delete(keyTemplate)
	overrides.Delete(keyTitle)
	if overrides.Len() == 0 {
		return base, nil
	}

	// instance keys override every face of the template
	if onlyInstanceKeys(overrides) {
		err := base.IterateErr(func(_ string, instance interface{}) error {
			typedInstance, ok := instance.(*orderedmap.Map)
			if !ok {
				return nil
			}
			return merge.Maps(typedInstance, overrides, merge.Options{OverwriteArrays: true})
		})
		if err != nil {
			return nil, err
		}
		return base, nil
	}

	overrideFaces, err := n.faces(overrides, seen)
	if err != nil {
		return nil, err
	}
	if err := merge.Maps(base, overrideFaces, merge.Options{}); err != nil {
		return nil, err
	}
	return base, nil
}

func textureInstance(texture string) *orderedmap.Map {
	return orderedmap.NewMapWithItems([]orderedmap.MapItem{{Key: KeyTexture, Value: texture}})
}

// finalize applies render defaults and validates every instance. Invalid
// keys are reported and dropped; an instance without a usable texture or
// with an unknown render method is an error.
func (n normalizer) finalize(name string, faces *orderedmap.Map, rep diag.Reporter) error {
	err := faces.IterateErr(func(face string, val interface{}) error {
		instance, ok := val.(*orderedmap.Map)
		if !ok {
			return fmt.Errorf("Expected material '%s' instance '%s' to be an object, but was %s",
				name, face, datameta.TypeName(val))
		}

		n.render.Iterate(func(k string, v interface{}) {
			if !instance.Has(k) {
				instance.Set(k, orderedmap.DeepCopyValue(v))
			}
		})

		for _, key := range instance.Keys() {
			if !contains(InstanceKeys, key) {
				rep.Errorf("Unknown key '%s' in material '%s' instance '%s' (known keys: %s)",
					key, name, face, strings.Join(InstanceKeys, ", "))
				instance.Delete(key)
			}
		}

		texture, _ := instance.Get(KeyTexture)
		if str, ok := texture.(string); !ok || str == "" {
			return fmt.Errorf("Expected material '%s' instance '%s' to have a texture", name, face)
		}

		if method, found := instance.Get(KeyRenderMethod); found {
			str, ok := method.(string)
			if !ok || !contains(RenderMethods, str) {
				return fmt.Errorf("Expected material '%s' instance '%s' render_method to be one of %s, but was '%v'",
					name, face, strings.Join(RenderMethods, ", "), method)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !faces.Has(DefaultFace) {
		rep.Warnf("Material '%s' has no default '%s' instance", name, DefaultFace)
	}
	return nil
}

// DefaultTexture returns the texture of the '*' instance, if any.
func DefaultTexture(faces *orderedmap.Map) string {
	instance, found := faces.Get(DefaultFace)
	if !found {
		return ""
	}
	typedInstance, ok := instance.(*orderedmap.Map)
	if !ok {
		return ""
	}
	texture, _ := typedInstance.Get(KeyTexture)
	str, _ := texture.(string)
	return str
}

func onlyInstanceKeys(m *orderedmap.Map) bool {
	for _, key := range m.Keys() {
		if !contains(InstanceKeys, key) {
			return false
		}
	}
	return true
}
