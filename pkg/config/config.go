// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"carvel.dev/blockgen/pkg/blockstate"
	"carvel.dev/blockgen/pkg/classify"
	"carvel.dev/blockgen/pkg/diag"
	"github.com/BurntSushi/toml"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/hashicorp/go-version"
)

const DefaultFile = "blockgen.toml"

var prefixRegexp = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

type Paths struct {
	Templates string `toml:"templates"`
	Presets   string `toml:"presets"`
	Materials string `toml:"materials"`
	Output    string `toml:"output"`
	// Manifest is the language file listing block titles. Empty skips it.
	Manifest string `toml:"manifest"`
}

type Config struct {
	Prefix        string `toml:"prefix"`
	FormatVersion string `toml:"format_version"`
	// MinVersion is a version constraint (or a bare minimum version)
	// the running blockgen has to satisfy.
	MinVersion      string                 `toml:"min_version"`
	Separators      map[string]interface{} `toml:"separators"`
	TitleSeparators map[string]interface{} `toml:"title_separators"`
	Paths           Paths                  `toml:"paths"`
	Prefixes        classify.Prefixes      `toml:"prefixes"`
	Concurrency     int                    `toml:"concurrency"`
}

func Default() Config {
	return Config{
		Paths: Paths{
			Templates: "templates",
			Presets:   "presets",
			Materials: "materials",
			Output:    "output",
		},
		Prefixes: classify.DefaultPrefixes(),
	}
}

// Load reads path on fs over the defaults. A missing file is only an
// error when required is set.
func Load(fs billy.Filesystem, path string, required bool, rep diag.Reporter) (Config, error) {
	cfg := Default()

	data, err := util.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("Reading config '%s': %s", path, err)
	}

	cfg, err = Parse(data, rep.With(path))
	if err != nil {
		return Config{}, fmt.Errorf("Parsing config '%s': %s", path, err)
	}
	return cfg, nil
}

func Parse(data []byte, rep diag.Reporter) (Config, error) {
	cfg := Default()

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, err
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		// separator tables are free form
		if len(key) > 1 && (key[0] == "separators" || key[0] == "title_separators") {
			continue
		}
		unknown = append(unknown, key.String())
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		rep.Warnf("Unknown config key '%s'", key)
	}

	cfg.Prefixes = cfg.Prefixes.WithDefaults()
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []string

	if c.Prefix == "" {
		errs = append(errs, "Expected 'prefix' to be set")
	} else if !prefixRegexp.MatchString(c.Prefix) {
		errs = append(errs, fmt.Sprintf("Expected 'prefix' to match %s, but was '%s'", prefixRegexp, c.Prefix))
	}

	if c.FormatVersion != "" {
		if _, err := version.NewVersion(c.FormatVersion); err != nil {
			errs = append(errs, fmt.Sprintf("Expected 'format_version' to be a version: %s", err))
		}
	}

	if c.Concurrency < 0 {
		errs = append(errs, fmt.Sprintf("Expected 'concurrency' to be positive, but was %d", c.Concurrency))
	}

	if err := c.Prefixes.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if _, _, err := c.ParsedSeparators(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("Invalid config:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// CheckVersion checks toolVersion against MinVersion. Development
// builds without a version always pass.
func (c Config) CheckVersion(toolVersion string) error {
	if c.MinVersion == "" {
		return nil
	}

	current, err := version.NewVersion(toolVersion)
	if err != nil {
		return nil
	}

	constraintStr := c.MinVersion
	if _, err := version.NewVersion(constraintStr); err == nil {
		constraintStr = ">= " + constraintStr
	}

	constraints, err := version.NewConstraint(constraintStr)
	if err != nil {
		return fmt.Errorf("Expected 'min_version' to be a version constraint: %s", err)
	}
	if !constraints.Check(current) {
		return fmt.Errorf("Expected blockgen version '%s' to satisfy min_version '%s'", toolVersion, c.MinVersion)
	}
	return nil
}

func (c Config) Classifier() classify.Classifier {
	return classify.NewClassifier(c.Prefixes.WithDefaults(), classify.Directives)
}

// ParsedSeparators returns the name and title separator tables.
func (c Config) ParsedSeparators() (blockstate.Separators, blockstate.Separators, error) {
	names, err := blockstate.ParseSeparators(c.Separators)
	if err != nil {
		return blockstate.Separators{}, blockstate.Separators{}, fmt.Errorf("In 'separators': %s", err)
	}
	titles, err := blockstate.ParseSeparators(c.TitleSeparators)
	if err != nil {
		return blockstate.Separators{}, blockstate.Separators{}, fmt.Errorf("In 'title_separators': %s", err)
	}
	return blockstate.NewNameSeparators(names), blockstate.NewTitleSeparators(titles), nil
}
