// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"strings"

	"carvel.dev/blockgen/pkg/datameta"
	"carvel.dev/blockgen/pkg/permutation"
)

const blockFileExt = ".json"

// LeafPath is where a leaf's block file goes relative to the output
// directory: every named permutation key but the last becomes a
// directory.
func LeafPath(leaf permutation.Leaf) string {
	var dirs []string
	if len(leaf.Path) > 1 {
		dirs = leaf.Path[:len(leaf.Path)-1]
	}
	return JoinPath(append(append([]string(nil), dirs...), leaf.Identifier+blockFileExt))
}

// NewLeafFiles renders leaves as pretty printed JSON files. Two leaves
// may not share an identifier.
func NewLeafFiles(leaves []permutation.Leaf) ([]OutputFile, error) {
	printer := datameta.NewJSONPrinter()
	seen := map[string]string{}

	var result []OutputFile

	for _, leaf := range leaves {
		path := LeafPath(leaf)
		if prevPath, found := seen[leaf.Identifier]; found {
			return nil, fmt.Errorf("Expected block identifier '%s' to be unique, but it is generated for '%s' and '%s'",
				leaf.Identifier, prevPath, path)
		}
		seen[leaf.Identifier] = path

		bs, err := printer.Print(leaf.Data)
		if err != nil {
			return nil, fmt.Errorf("Printing block '%s': %s", leaf.Identifier, err)
		}
		result = append(result, NewOutputFile(path, bs))
	}

	return result, nil
}

// Manifest collects block display names as language file entries.
type Manifest struct {
	namespace string
	lines     []string
}

func NewManifest(namespace string, leaves []permutation.Leaf) *Manifest {
	m := &Manifest{namespace: namespace}
	for _, leaf := range leaves {
		m.Add(leaf.Identifier, leaf.Title)
	}
	return m
}

func (m *Manifest) Add(identifier, title string) {
	m.lines = append(m.lines, fmt.Sprintf("tile.%s:%s.name=%s", m.namespace, identifier, title))
}

func (m *Manifest) Len() int { return len(m.lines) }

func (m *Manifest) Bytes() []byte {
	if len(m.lines) == 0 {
		return nil
	}
	return []byte(strings.Join(m.lines, "\n") + "\n")
}
