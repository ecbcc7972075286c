// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package files provides primitives for enumerating and loading data from
file or file-like Sources and for writing generated blocks to
directories.

Reads and writes go through a billy.Filesystem so the same code runs
against the OS filesystem and an in-memory one.

Files are parsed differently depending on their Type. For example,
File instances that are TypeYAML are parsed as YAML.
*/
package files
