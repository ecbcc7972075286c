// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package workspace loads a blockgen project (templates, presets and
material templates) and generates its blocks.

A Workspace is loaded once per run. Its catalogs are read-only after
loading, and each template file is walked independently: a file that
fails to parse is reported and does not stop the others.
*/
package workspace
