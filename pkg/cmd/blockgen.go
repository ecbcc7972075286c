// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"carvel.dev/blockgen/pkg/cmd/generate"
	"carvel.dev/blockgen/pkg/version"
	"github.com/cppforlife/cobrautil"
	"github.com/spf13/cobra"
)

type BlockgenOptions struct{}

func NewDefaultBlockgenOptions() *BlockgenOptions {
	return &BlockgenOptions{}
}

func NewDefaultBlockgenCmd() *cobra.Command {
	return NewBlockgenCmd(NewDefaultBlockgenOptions())
}

func NewBlockgenCmd(_ *BlockgenOptions) *cobra.Command {
	cmd := generate.NewCmd(generate.NewOptions())

	cmd.Use = "blockgen"
	cmd.Aliases = nil
	cmd.Version = version.Version
	cmd.Short = "blockgen generates Minecraft blocks from permutation templates"
	cmd.Long = `blockgen generates Minecraft Bedrock blocks from permutation templates.

Every leaf of a template tree becomes one block. Blocks are written to the
output directory and their titles to the manifest language file.`

	// Affects children as well
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	// Disable docs header
	cmd.DisableAutoGenTag = true

	cmd.AddCommand(NewVersionCmd(NewVersionOptions()))
	cmd.AddCommand(generate.NewCmd(generate.NewOptions()))
	cmd.AddCommand(NewQueryCmd(NewQueryOptions()))

	// Reconfigure Commands
	cobrautil.VisitCommands(cmd, cobrautil.ReconfigureCmdWithSubcmd,
		cobrautil.WrapRunEForCmd(cobrautil.ResolveFlagsForCmd))

	return cmd
}
