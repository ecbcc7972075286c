// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strings"

	"carvel.dev/blockgen/pkg/cmd/generate"
	"carvel.dev/blockgen/pkg/cmd/ui"
	"carvel.dev/blockgen/pkg/datameta"
	"carvel.dev/blockgen/pkg/orderedmap"
	"carvel.dev/blockgen/pkg/permutation"
	"github.com/go-git/go-billy/v5"
	"github.com/ohler55/ojg/jp"
	"github.com/spf13/cobra"
)

// QueryOptions generates blocks in memory and prints the values
// matched by JSONPath expressions in each of them.
type QueryOptions struct {
	Generate *generate.Options
	// Identifiers limits the output to blocks whose identifier contains one of them.
	Identifiers []string
}

func NewQueryOptions() *QueryOptions {
	return &QueryOptions{Generate: generate.NewOptions()}
}

func NewQueryCmd(o *QueryOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "query <jsonpath>...",
		Aliases: []string{"q"},
		Short:   "Print parts of generated blocks selected by JSONPath",
		Example: `  blockgen query '$["minecraft:block"].components["minecraft:material_instances"]'`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return o.Run(generate.NewFilesystem(), ui.NewTTY(o.Generate.Debug), args)
		},
	}
	cmd.Flags().BoolVar(&o.Generate.Debug, "debug", false, "Enable debug output")
	cmd.Flags().StringSliceVar(&o.Identifiers, "block", nil, "Only query blocks whose identifier contains this (can be specified multiple times)")
	o.Generate.ConfigFlags.Set(cmd)
	return cmd
}

func (o *QueryOptions) Run(fs billy.Filesystem, tty ui.UI, exprs []string) error {
	var paths []jp.Expr
	for _, expr := range exprs {
		path, err := jp.ParseString(expr)
		if err != nil {
			return fmt.Errorf("Expected '%s' to be a JSONPath expression: %s", expr, err)
		}
		paths = append(paths, path)
	}

	out, err := o.Generate.RunWithFS(fs, quietUI{tty}, false)
	if err != nil {
		return err
	}

	printer := datameta.NewCompactJSONPrinter()

	for _, leaf := range out.Leaves {
		if !o.selected(leaf) {
			continue
		}
		data := orderedmap.Conversion{Object: leaf.Data}.AsUnorderedStringMaps()

		for i, path := range paths {
			for _, match := range path.Get(data) {
				bs, err := printer.Print(match)
				if err != nil {
					return fmt.Errorf("Printing match of '%s' in '%s': %s", exprs[i], leaf.Identifier, err)
				}
				tty.Printf("%s: %s", leaf.Identifier, bs)
			}
		}
	}

	return out.Err()
}

func (o *QueryOptions) selected(leaf permutation.Leaf) bool {
	if len(o.Identifiers) == 0 {
		return true
	}
	for _, id := range o.Identifiers {
		if strings.Contains(leaf.Identifier, id) {
			return true
		}
	}
	return false
}

// quietUI keeps generation progress off stdout so that only matches are printed.
type quietUI struct {
	ui.UI
}

func (u quietUI) Printf(str string, args ...interface{}) { u.UI.Debugf(str, args...) }
