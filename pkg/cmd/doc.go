// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package cmd is home to the full set of blockgen's "commands" -- instances of cobra.Command
(not to be confused with ./cmd which contains the bootstrapping for executing blockgen).

A cobra.Command is the starting point of execution.

For a list of commands run:

	$ blockgen help

The default command is "generate".
*/
package cmd
