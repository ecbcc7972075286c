// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package generate

import (
	"carvel.dev/blockgen/pkg/config"
	"github.com/spf13/cobra"
)

// ConfigFlags override values of the config file.
type ConfigFlags struct {
	ConfigFile    string
	Files         []string
	Presets       string
	Materials     string
	Output        string
	Manifest      string
	Prefix        string
	FormatVersion string
	Concurrency   int
}

func (s *ConfigFlags) Set(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.ConfigFile, "config", "c", "", "Config file (defaults to '"+config.DefaultFile+"' when present)")
	cmd.Flags().StringSliceVarP(&s.Files, "file", "f", nil, "Template file or directory (ie local path, -) (can be specified multiple times)")
	cmd.Flags().StringVar(&s.Presets, "presets", "", "Directory of preset files")
	cmd.Flags().StringVar(&s.Materials, "materials", "", "Directory of material template files")
	cmd.Flags().StringVarP(&s.Output, "output", "o", "", "Directory for generated blocks")
	cmd.Flags().StringVar(&s.Manifest, "manifest", "", "Language file to write block titles to")
	cmd.Flags().StringVar(&s.Prefix, "prefix", "", "Namespace prefix of generated identifiers")
	cmd.Flags().StringVar(&s.FormatVersion, "format-version", "", "Format version of generated blocks")
	cmd.Flags().IntVar(&s.Concurrency, "concurrency", 0, "Number of block files written at once")
}

func (s *ConfigFlags) Apply(cfg config.Config) config.Config {
	overrides := []struct {
		flag   string
		target *string
	}{
		{s.Presets, &cfg.Paths.Presets},
		{s.Materials, &cfg.Paths.Materials},
		{s.Output, &cfg.Paths.Output},
		{s.Manifest, &cfg.Paths.Manifest},
		{s.Prefix, &cfg.Prefix},
		{s.FormatVersion, &cfg.FormatVersion},
	}
	for _, override := range overrides {
		if override.flag != "" {
			*override.target = override.flag
		}
	}
	if s.Concurrency > 0 {
		cfg.Concurrency = s.Concurrency
	}
	return cfg
}
