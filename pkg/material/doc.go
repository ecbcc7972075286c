// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package material expands a leaf's materials and textures into one leaf per
material.

A material is a map of faces ("*", "up", "north", ...) to instances:

	{"*": {"texture": "oak_log", "render_method": "opaque"}, "up": {"texture": "oak_log_top"}}

Entries of the materials directive name catalog templates or textures, or
define instances inline. The textures directive is shorthand for materials
whose entries are all true.
*/
package material
