// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

type Source interface {
	Description() string
	RelativePath() (string, error)
	Bytes() ([]byte, error)
}

var _ []Source = []Source{BytesSource{}, StdinSource{}, FilesystemSource{}, &CachedSource{}}

type BytesSource struct {
	path string
	data []byte
}

func NewBytesSource(path string, data []byte) BytesSource { return BytesSource{path, data} }

func (s BytesSource) Description() string           { return s.path }
func (s BytesSource) RelativePath() (string, error) { return s.path, nil }
func (s BytesSource) Bytes() ([]byte, error)        { return s.data, nil }

type StdinSource struct {
	bytes []byte
	err   error
}

func NewStdinSource() StdinSource {
	bs, err := ReadStdin()
	return StdinSource{bs, err}
}

func (s StdinSource) Description() string           { return "stdin.json" }
func (s StdinSource) RelativePath() (string, error) { return "stdin.json", nil }
func (s StdinSource) Bytes() ([]byte, error)        { return s.bytes, s.err }

// FilesystemSource is a file of a billy.Filesystem, optionally found
// while walking dir.
type FilesystemSource struct {
	fs   billy.Filesystem
	path string
	dir  string
}

func NewFilesystemSource(fs billy.Filesystem, path, dir string) FilesystemSource {
	return FilesystemSource{fs, path, dir}
}

func (s FilesystemSource) Description() string { return fmt.Sprintf("file '%s'", s.path) }

func (s FilesystemSource) RelativePath() (string, error) {
	if s.dir == "" {
		return filepath.Base(s.path), nil
	}

	cleanPath := filepath.ToSlash(filepath.Clean(s.path))
	cleanDir := filepath.ToSlash(filepath.Clean(s.dir))

	if cleanDir == "." {
		return cleanPath, nil
	}
	if strings.HasPrefix(cleanPath, cleanDir+"/") {
		return strings.TrimPrefix(cleanPath, cleanDir+"/"), nil
	}

	return "", fmt.Errorf("unknown relative path for %s", s.path)
}

func (s FilesystemSource) Bytes() ([]byte, error) { return util.ReadFile(s.fs, s.path) }

type CachedSource struct {
	src Source

	bytesFetched bool
	bytes        []byte
	bytesErr     error
}

func NewCachedSource(src Source) *CachedSource { return &CachedSource{src: src} }

func (s *CachedSource) Description() string           { return s.src.Description() }
func (s *CachedSource) RelativePath() (string, error) { return s.src.RelativePath() }

func (s *CachedSource) Bytes() ([]byte, error) {
	if s.bytesFetched {
		return s.bytes, s.bytesErr
	}

	s.bytesFetched = true
	s.bytes, s.bytesErr = s.src.Bytes()

	return s.bytes, s.bytesErr
}
