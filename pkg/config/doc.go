// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package config loads blockgen.toml.

	prefix = "wiki"
	format_version = "1.20.80"
	min_version = ">= 0.1.0"
	concurrency = 4

	[separators]
	"*" = "_"
	material = ["(", ")"]

	[title_separators]
	material = " "

	[paths]
	templates = "templates"
	presets = "presets"
	materials = "materials"
	output = "output"
	manifest = "texts/en_US.lang"

	[prefixes]
	variable = "$"

Unknown keys are reported as warnings rather than rejected.
*/
package config
