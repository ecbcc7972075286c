// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"carvel.dev/blockgen/pkg/block"
	"carvel.dev/blockgen/pkg/config"
	"carvel.dev/blockgen/pkg/diag"
	"carvel.dev/blockgen/pkg/files"
	"carvel.dev/blockgen/pkg/permutation"
	"github.com/go-git/go-billy/v5"
)

type Options struct {
	Config config.Config
	// Templates overrides the configured templates path when set.
	Templates []string
	Logger    *slog.Logger
}

type Workspace struct {
	fs        billy.Filesystem
	cfg       config.Config
	templates []*files.File
	walker    permutation.Walker
	log       *slog.Logger
}

type GenerateStats struct {
	Files       int
	FailedFiles int
	Leaves      int
}

// Load reads the catalogs and lists the template files. The config is
// expected to be valid.
func Load(fs billy.Filesystem, opts Options, rep diag.Reporter) (*Workspace, error) {
	cfg := opts.Config
	classifier := cfg.Classifier()

	names, titles, err := cfg.ParsedSeparators()
	if err != nil {
		return nil, err
	}

	presets, err := LoadPresets(fs, cfg.Paths.Presets, classifier, rep)
	if err != nil {
		return nil, err
	}
	materials, err := LoadMaterials(fs, cfg.Paths.Materials, rep)
	if err != nil {
		return nil, err
	}

	templatePaths := opts.Templates
	if len(templatePaths) == 0 {
		templatePaths = []string{cfg.Paths.Templates}
	}
	templates, err := files.NewFiles(fs, templatePaths, true)
	if err != nil {
		return nil, err
	}

	walker := permutation.NewWalker(permutation.Options{
		Classifier:      classifier,
		NameSeparators:  names,
		TitleSeparators: titles,
		Materials:       materials,
		Presets:         presets,
		Block:           block.Options{Namespace: cfg.Prefix, FormatVersion: cfg.FormatVersion},
		Logger:          opts.Logger,
	})

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Workspace{fs: fs, cfg: cfg, templates: templates, walker: walker, log: logger}, nil
}

func (w *Workspace) Templates() []*files.File { return w.templates }

// Generate walks every template file, emitting leaves to sink. Files
// that cannot be parsed are reported and skipped.
func (w *Workspace) Generate(sink permutation.Sink, rep diag.Reporter) (GenerateStats, error) {
	var stats GenerateStats

	counting := permutation.SinkFunc(func(leaf permutation.Leaf) error {
		stats.Leaves++
		return sink.Emit(leaf)
	})

	for _, file := range w.templates {
		fileRep := rep.With(file.RelativePath())

		if file.Type() == files.TypeUnknown {
			fileRep.Noticef("Skipping file with unknown extension")
			continue
		}
		stats.Files++

		root, err := parseFile(file)
		if err != nil {
			stats.FailedFiles++
			fileRep.Error(err)
			continue
		}

		w.log.Debug("walking", "file", file.RelativePath(), "branches", root.Len())

		if err := w.walker.Walk(root, counting, fileRep); err != nil {
			return stats, fmt.Errorf("Generating %s: %w", file.Description(), err)
		}
	}

	return stats, nil
}

// Write stores leaves as block files under the configured output
// directory and writes the title manifest when one is configured.
func (w *Workspace) Write(leaves []permutation.Leaf, ui files.UI) (files.WriteStats, error) {
	outputs, err := files.NewLeafFiles(leaves)
	if err != nil {
		return files.WriteStats{}, err
	}

	stats, err := files.NewOutputDirectory(w.fs, w.cfg.Paths.Output, outputs, ui).
		WithConcurrency(w.cfg.Concurrency).Write()
	if err != nil {
		return stats, err
	}

	if w.cfg.Paths.Manifest != "" {
		manifest := files.NewManifest(w.cfg.Prefix, leaves)
		dir, name := filepath.Split(w.cfg.Paths.Manifest)
		err := files.NewOutputFile(name, manifest.Bytes()).Create(w.fs, dir)
		if err != nil {
			return stats, fmt.Errorf("Writing manifest '%s': %s", w.cfg.Paths.Manifest, err)
		}
		ui.Printf("manifest: %s (%d titles)\n", w.cfg.Paths.Manifest, manifest.Len())
	}

	return stats, nil
}
