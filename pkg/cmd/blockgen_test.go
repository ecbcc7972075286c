// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd_test

import (
	"testing"

	"carvel.dev/blockgen/pkg/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	root := cmd.NewDefaultBlockgenCmd()
	assert.Equal(t, "blockgen", root.Use)

	for _, name := range []string{"version", "generate", "query"} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	for _, flag := range []string{"config", "file", "output", "prefix", "dry-run", "debug"} {
		assert.NotNil(t, root.Flags().Lookup(flag), flag)
	}

	query, _, err := root.Find([]string{"q"})
	require.NoError(t, err)
	assert.NotNil(t, query.Flags().Lookup("block"))
	assert.Nil(t, query.Flags().Lookup("dry-run"))
}
