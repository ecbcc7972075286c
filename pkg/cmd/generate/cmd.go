// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package generate

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"carvel.dev/blockgen/pkg/cmd/ui"
	"carvel.dev/blockgen/pkg/config"
	"carvel.dev/blockgen/pkg/diag"
	"carvel.dev/blockgen/pkg/permutation"
	"carvel.dev/blockgen/pkg/version"
	"carvel.dev/blockgen/pkg/workspace"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
)

type Options struct {
	Debug  bool
	DryRun bool

	ConfigFlags ConfigFlags
}

type Output struct {
	Leaves  []permutation.Leaf
	Summary diag.Summary
	Config  config.Config
}

func NewOptions() *Options {
	return &Options{}
}

func NewCmd(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"g", "gen"},
		Short:   "Generate blocks from templates",
		RunE:    func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	o.BindFlags(cmd)
	return cmd
}

func (o *Options) BindFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
	cmd.Flags().BoolVar(&o.DryRun, "dry-run", false, "Generate blocks without writing them")
	o.ConfigFlags.Set(cmd)
}

func (o *Options) Run() error {
	tty := ui.NewTTY(o.Debug)
	t1 := time.Now()

	defer func() {
		tty.Debugf("total: %s\n", time.Since(t1))
	}()

	out, err := o.RunWithFS(NewFilesystem(), tty, !o.DryRun)
	if err != nil {
		return err
	}
	return out.Err()
}

// RunWithFS generates blocks from fs and writes them back when write is set.
func (o *Options) RunWithFS(fs billy.Filesystem, tty ui.UI, write bool) (Output, error) {
	log := diag.NewForwardingLog(ui.NewDiagnosticSink(tty))
	rep := diag.NewReporter(log)

	cfg, err := o.LoadConfig(fs, rep)
	if err != nil {
		return Output{}, err
	}

	logger := slog.New(slog.NewTextHandler(tty.DebugWriter(), &slog.HandlerOptions{Level: slog.LevelDebug}))

	ws, err := workspace.Load(fs, workspace.Options{
		Config:    cfg,
		Templates: resolvePaths(o.ConfigFlags.Files),
		Logger:    logger,
	}, rep)
	if err != nil {
		return Output{}, err
	}

	collector := &permutation.Collector{}
	stats, err := ws.Generate(collector, rep)
	if err != nil {
		return Output{}, err
	}

	tty.Debugf("files: %d (%d failed)\n", stats.Files, stats.FailedFiles)

	leaves := collector.Leaves()
	summary := log.Summary(len(leaves))

	out := Output{Leaves: leaves, Summary: summary, Config: cfg}

	if write && len(leaves) > 0 {
		writeStats, err := ws.Write(leaves, tty)
		if err != nil {
			tty.Printf("%s\n", summary)
			return out, err
		}
		tty.Printf("wrote %d block file(s), %d unchanged\n", writeStats.Written, writeStats.Unchanged)
	}

	tty.Printf("%s\n", summary)

	return out, nil
}

// LoadConfig reads the config file, applies flag overrides and checks the result.
func (o *Options) LoadConfig(fs billy.Filesystem, rep diag.Reporter) (config.Config, error) {
	path := o.ConfigFlags.ConfigFile
	required := path != ""
	if !required {
		path = config.DefaultFile
	}

	cfg, err := config.Load(fs, resolvePath(path), required, rep)
	if err != nil {
		return config.Config{}, err
	}

	cfg = o.ConfigFlags.Apply(cfg)
	cfg.Paths = config.Paths{
		Templates: resolvePath(cfg.Paths.Templates),
		Presets:   resolvePath(cfg.Paths.Presets),
		Materials: resolvePath(cfg.Paths.Materials),
		Output:    resolvePath(cfg.Paths.Output),
		Manifest:  resolvePath(cfg.Paths.Manifest),
	}

	if err := cfg.CheckVersion(version.Version); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (o Output) Err() error {
	if o.Summary.Failed() {
		return fmt.Errorf("Expected generation to succeed, but %s", o.Summary)
	}
	return nil
}

// NewFilesystem returns the OS filesystem addressed by paths as given,
// relative to the working directory or absolute.
func NewFilesystem() billy.Filesystem { return osfs.New("") }

// resolvePath makes paths leaving the working directory absolute since
// the filesystem does not address them relatively.
func resolvePath(path string) string {
	if path == "" || path == "-" {
		return path
	}
	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		if abs, err := filepath.Abs(clean); err == nil {
			return abs
		}
	}
	return path
}

func resolvePaths(paths []string) []string {
	var result []string
	for _, path := range paths {
		result = append(result, resolvePath(path))
	}
	return result
}
