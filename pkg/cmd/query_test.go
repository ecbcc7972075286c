// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd_test

import (
	"bytes"
	"strings"
	"testing"

	"carvel.dev/blockgen/pkg/cmd"
	"carvel.dev/blockgen/pkg/cmd/ui"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/k14s/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func project(t *testing.T) billy.Filesystem {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "blockgen.toml", []byte(`prefix = "wiki"`), 0600))
	require.NoError(t, util.WriteFile(fs, "templates/wood.json", []byte(`{
		"oak": {"friction": 0.5, "materials": {"bark": "oak_log_top", "ring": "oak_log"}},
		"birch": {"friction": 0.3}
	}`), 0600))
	return fs
}

func TestQueryPrintsMatches(t *testing.T) {
	var stdout bytes.Buffer

	err := cmd.NewQueryOptions().Run(project(t), ui.NewCustomWriterTTY(false, &stdout, &bytes.Buffer{}), []string{
		`$["minecraft:block"].components["minecraft:friction"]`,
		`$["minecraft:block"].description.identifier`,
	})
	require.NoError(t, err)

	expected := `oak_bark: 0.5
oak_bark: "wiki:oak_bark"
oak_ring: 0.5
oak_ring: "wiki:oak_ring"
birch: 0.3
birch: "wiki:birch"
`
	if stdout.String() != expected {
		t.Fatalf("Not equal; diff expected...actual:\n%v\n",
			difflib.PPDiff(strings.Split(expected, "\n"), strings.Split(stdout.String(), "\n")))
	}
}

func TestQueryFiltersBlocks(t *testing.T) {
	var stdout bytes.Buffer

	opts := cmd.NewQueryOptions()
	opts.Identifiers = []string{"ring"}

	err := opts.Run(project(t), ui.NewCustomWriterTTY(false, &stdout, &bytes.Buffer{}), []string{
		`$["minecraft:block"].components["minecraft:material_instances"]`,
	})
	require.NoError(t, err)
	assert.Equal(t, `oak_ring: {"*":{"texture":"oak_log"}}`+"\n", stdout.String())
}

func TestQueryInvalidExpression(t *testing.T) {
	fs := project(t)
	err := cmd.NewQueryOptions().Run(fs, ui.NewCustomWriterTTY(false, &bytes.Buffer{}, &bytes.Buffer{}), []string{"$[["})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected '$[[' to be a JSONPath expression")

	_, err = fs.Stat("output")
	require.Error(t, err)
}
