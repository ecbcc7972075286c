// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

var (
	jsonExts = []string{".json", ".jsonc"}
	yamlExts = []string{".yaml", ".yml"}
)

type Type int

const (
	TypeUnknown Type = iota
	TypeJSON
	TypeYAML
)

type File struct {
	src     Source
	relPath string
}

// NewFiles lists files named by paths. Directories are walked when
// recursive is set; files found in them are sorted by path. "-" reads
// standard input.
func NewFiles(fs billy.Filesystem, paths []string, recursive bool) ([]*File, error) {
	var fileSrcs []Source

	for _, path := range paths {
		if path == "-" {
			fileSrcs = append(fileSrcs, NewStdinSource())
			continue
		}

		fileInfo, err := fs.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("Checking file '%s': %s", path, err)
		}

		if !fileInfo.IsDir() {
			fileSrcs = append(fileSrcs, NewFilesystemSource(fs, path, ""))
			continue
		}

		if !recursive {
			return nil, fmt.Errorf("Expected file '%s' to not be a directory", path)
		}

		var selectedPaths []string

		err = util.Walk(fs, path, func(walkedPath string, fi os.FileInfo, err error) error {
			if err != nil || fi.IsDir() {
				return err
			}
			selectedPaths = append(selectedPaths, walkedPath)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("Listing files '%s': %s", path, err)
		}

		sort.Strings(selectedPaths)

		for _, selectedPath := range selectedPaths {
			fileSrcs = append(fileSrcs, NewFilesystemSource(fs, selectedPath, path))
		}
	}

	var files []*File

	for _, fileSrc := range fileSrcs {
		file, err := NewFileFromSource(fileSrc)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, nil
}

func NewFileFromSource(fileSrc Source) (*File, error) {
	relPath, err := fileSrc.RelativePath()
	if err != nil {
		return nil, fmt.Errorf("Calculating relative path for '%s': %s", fileSrc.Description(), err)
	}

	return &File{src: NewCachedSource(fileSrc), relPath: relPath}, nil
}

func MustNewFileFromSource(fileSrc Source) *File {
	file, err := NewFileFromSource(fileSrc)
	if err != nil {
		panic(err)
	}
	return file
}

func (r *File) Description() string    { return r.src.Description() }
func (r *File) RelativePath() string   { return r.relPath }
func (r *File) Bytes() ([]byte, error) { return r.src.Bytes() }

func (r *File) Type() Type {
	switch {
	case r.matchesExt(jsonExts):
		return TypeJSON
	case r.matchesExt(yamlExts):
		return TypeYAML
	default:
		return TypeUnknown
	}
}

// Stem is the file name without directory and extension.
func (r *File) Stem() string {
	name := filepath.Base(r.relPath)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func (r *File) matchesExt(exts []string) bool {
	filename := filepath.Base(r.RelativePath())
	for _, ext := range exts {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

func SplitPath(path string) ([]string, string) {
	pieces := strings.Split(path, "/")
	if len(pieces) == 1 {
		return nil, pieces[0]
	}
	return pieces[:len(pieces)-1], pieces[len(pieces)-1]
}

func JoinPath(pieces []string) string {
	return strings.Join(pieces, "/")
}
