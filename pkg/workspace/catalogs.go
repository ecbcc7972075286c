// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"errors"
	"fmt"
	"os"

	"carvel.dev/blockgen/pkg/classify"
	"carvel.dev/blockgen/pkg/datameta"
	"carvel.dev/blockgen/pkg/diag"
	"carvel.dev/blockgen/pkg/files"
	"carvel.dev/blockgen/pkg/material"
	"carvel.dev/blockgen/pkg/orderedmap"
	"carvel.dev/blockgen/pkg/preset"
	"github.com/go-git/go-billy/v5"
)

// dataFiles lists the parseable files under dir. A missing directory
// has no files.
func dataFiles(fs billy.Filesystem, dir string, rep diag.Reporter) ([]*files.File, error) {
	if dir == "" {
		return nil, nil
	}
	if _, err := fs.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	found, err := files.NewFiles(fs, []string{dir}, true)
	if err != nil {
		return nil, err
	}

	var result []*files.File
	for _, file := range found {
		if file.Type() == files.TypeUnknown {
			rep.With(file.RelativePath()).Noticef("Skipping file with unknown extension")
			continue
		}
		result = append(result, file)
	}
	return result, nil
}

func parseFile(file *files.File) (*orderedmap.Map, error) {
	format := datameta.FormatJSON
	if file.Type() == files.TypeYAML {
		format = datameta.FormatYAML
	}

	bs, err := file.Bytes()
	if err != nil {
		return nil, fmt.Errorf("Reading %s: %s", file.Description(), err)
	}
	return datameta.NewParser(format).ParseMap(bs, file.RelativePath())
}

// LoadPresets reads one preset per file, named by the file stem.
func LoadPresets(fs billy.Filesystem, dir string, classifier classify.Classifier, rep diag.Reporter) (*preset.Catalog, error) {
	catalog := preset.NewCatalog(classifier)

	found, err := dataFiles(fs, dir, rep)
	if err != nil {
		return nil, fmt.Errorf("Listing presets: %s", err)
	}

	for _, file := range found {
		tmpl, err := parseFile(file)
		if err != nil {
			return nil, fmt.Errorf("Loading preset: %s", err)
		}
		if err := catalog.Add(file.Stem(), tmpl); err != nil {
			return nil, fmt.Errorf("Loading preset from %s: %s", file.Description(), err)
		}
	}
	return catalog, nil
}

// LoadMaterials reads material templates; each file holds a map of them.
func LoadMaterials(fs billy.Filesystem, dir string, rep diag.Reporter) (*material.Catalog, error) {
	catalog := material.NewCatalog()

	found, err := dataFiles(fs, dir, rep)
	if err != nil {
		return nil, fmt.Errorf("Listing materials: %s", err)
	}

	for _, file := range found {
		defs, err := parseFile(file)
		if err != nil {
			return nil, fmt.Errorf("Loading materials: %s", err)
		}
		if err := catalog.AddAll(defs); err != nil {
			return nil, fmt.Errorf("Loading materials from %s: %s", file.Description(), err)
		}
	}
	return catalog, nil
}
