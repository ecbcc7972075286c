// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/zeebo/blake3"
)

type Digest [32]byte

type OutputFile struct {
	relativePath string
	data         []byte
}

func NewOutputFile(relativePath string, data []byte) OutputFile {
	return OutputFile{relativePath, data}
}

func (f OutputFile) RelativePath() string { return f.relativePath }
func (f OutputFile) Bytes() []byte        { return f.data }
func (f OutputFile) Digest() Digest       { return blake3.Sum256(f.data) }

func (f OutputFile) Path(dirPath string) string {
	return filepath.Join(dirPath, f.relativePath)
}

// Unchanged reports whether the file under dirPath already holds the
// same content.
func (f OutputFile) Unchanged(fs billy.Filesystem, dirPath string) bool {
	existing, err := util.ReadFile(fs, f.Path(dirPath))
	if err != nil || len(existing) != len(f.data) {
		return false
	}
	return Digest(blake3.Sum256(existing)) == f.Digest()
}

func (f OutputFile) Create(fs billy.Filesystem, dirPath string) error {
	resultPath := f.Path(dirPath)

	err := fs.MkdirAll(filepath.Dir(resultPath), 0700)
	if err != nil {
		return err
	}

	return util.WriteFile(fs, resultPath, f.data, os.FileMode(0600))
}
