// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package pkg is the collection of packages that make up the implementation of blockgen.

blockgen expands a tree of permutation templates into Minecraft Bedrock
block definitions. Every leaf of the tree becomes one block.

From top-down, blockgen code is layered in this way:

# Entry Point

	./cmd/blockgen             // a command-line tool

# Commands

	pkg/cmd                    // root, version and query commands
	pkg/cmd/generate           // generate command and config flags
	pkg/cmd/ui                 // terminal output and diagnostic styling

# The Workspace

A workspace is the set of template, preset and material files named by
the config. It loads catalogs, walks every template and writes blocks.

	pkg/workspace
	pkg/config
	pkg/files

# Expansion

The walker descends the template tree carrying inherited state. Leaves
are expanded per material, get their presets applied and are compiled
into block JSON.

	pkg/permutation
	pkg/classify               // key prefixes to buckets
	pkg/blockstate             // inherited state and naming
	pkg/material
	pkg/preset
	pkg/magic                  // %param expressions inside presets
	pkg/substitute             // {{var}} placeholders
	pkg/block                  // leaf state to block JSON

# Utilities

Domain-agnostic utilities.

	pkg/orderedmap
	pkg/merge
	pkg/datameta               // JSON(C) and YAML parsing and printing
	pkg/diag                   // collected diagnostics
	pkg/version
*/
package pkg
