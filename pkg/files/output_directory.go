// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/sync/errgroup"
)

var (
	suspiciousOutputDirectoryPaths = []string{"/", ".", "./", ""}
)

const DefaultConcurrency = 8

type OutputDirectory struct {
	fs          billy.Filesystem
	path        string
	files       []OutputFile
	ui          UI
	uiLock      sync.Mutex
	concurrency int
}

func NewOutputDirectory(fs billy.Filesystem, path string, files []OutputFile, ui UI) *OutputDirectory {
	return &OutputDirectory{fs: fs, path: path, files: files, ui: ui, concurrency: DefaultConcurrency}
}

// WithConcurrency limits how many files are written at once.
func (d *OutputDirectory) WithConcurrency(n int) *OutputDirectory {
	if n > 0 {
		d.concurrency = n
	}
	return d
}

func (d *OutputDirectory) Files() []OutputFile { return d.files }

type WriteStats struct {
	Written   int
	Unchanged int
}

// Write creates every file under the directory. Files whose content is
// already on disk are left alone, so repeated runs only touch what changed.
func (d *OutputDirectory) Write() (WriteStats, error) {
	filePaths := map[string]struct{}{}

	for _, file := range d.files {
		file := file
		path := file.RelativePath()
		if _, found := filePaths[path]; found {
			return WriteStats{}, fmt.Errorf("Multiple files have same output destination paths: %s", path)
		}
		filePaths[path] = struct{}{}
	}

	if d.isSuspicious() {
		return WriteStats{}, fmt.Errorf("Expected output directory path to not be one of '%s'",
			strings.Join(suspiciousOutputDirectoryPaths, "', '"))
	}

	return d.WriteFiles()
}

func (d *OutputDirectory) isSuspicious() bool {
	if d.path == "" {
		return true
	}
	for _, path := range suspiciousOutputDirectoryPaths {
		if path != "" && filepath.Clean(d.path) == filepath.Clean(path) {
			return true
		}
	}
	return false
}

func (d *OutputDirectory) WriteFiles() (WriteStats, error) {
	err := d.fs.MkdirAll(d.path, 0700)
	if err != nil {
		return WriteStats{}, err
	}

	var written, unchanged atomic.Int64

	var group errgroup.Group
	group.SetLimit(d.concurrency)

	for _, file := range d.files {
		file := file
		group.Go(func() error {
			if file.Unchanged(d.fs, d.path) {
				d.printf(d.ui.Debugf, "unchanged: %s\n", file.Path(d.path))
				unchanged.Add(1)
				return nil
			}

			d.printf(d.ui.Printf, "creating: %s\n", file.Path(d.path))

			err := file.Create(d.fs, d.path)
			if err != nil {
				return fmt.Errorf("Writing '%s': %s", file.Path(d.path), err)
			}
			written.Add(1)
			return nil
		})
	}

	err = group.Wait()
	return WriteStats{Written: int(written.Load()), Unchanged: int(unchanged.Load())}, err
}

func (d *OutputDirectory) printf(fn func(string, ...interface{}), format string, args ...interface{}) {
	d.uiLock.Lock()
	defer d.uiLock.Unlock()
	fn(format, args...)
}
