// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package preset merges named, reusable templates into blocks.

A preset template may build on other presets: its parent comes first,
then each entry of templates, then the preset itself, merged base first.

	{
		"parent": "rotatable",
		"templates": ["hardness"],
		"defaults": {"axis": ["x", "y", "z"]},
		"required": ["geometry"],
		"$geometry_id": "geometry.%geometry",
		"data": {"minecraft:geometry": "$geometry_id"},
		"states": {"axis": "%axis::keys"},
		"permutations": [{
			"each": "%axis",
			"condition": "%axis::current_block_state == '%axis::key'",
			"components": {"minecraft:transformation": {"rotation": "%axis::value"}}
		}]
	}

Blocks list presets to apply in the apply directive. Entries sharing a
name stack, and a later disable entry removes an earlier one.
*/
package preset
