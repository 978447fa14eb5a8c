// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package templater

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/pkg/errors"
)

var (
	// errNoParentDir is the error returned with the parent directory is missing
	// and the user disabled it.
	errNoParentDir = errors.New("parent directory is missing")

	// errMissingDest is the error returned with the destination is empty.
	errMissingDest = errors.New("missing destination")
)

// FileWriter writes rendered template output to a file.
type FileWriter struct {
	createDestDirs bool
	path           string
	perms          os.FileMode
	backup         BackupFunc
}

// FileWriterInput is the input structure for NewFileWriter.
type FileWriterInput struct {
	// CreateDestDirs causes missing directories on path to be created
	CreateDestDirs bool
	// Path is the full file path to write to
	Path string
	// Perms sets the mode of the file. Zero keeps the mode of an existing
	// file and uses 0644 for a new one.
	Perms os.FileMode
	// Backup is called with the path before it is overwritten
	Backup BackupFunc
}

// BackupFunc defines the function type passed in to make backups of
// previously written output, if desired.
type BackupFunc func(path string)

// WriteResult reports the outcome of FileWriter.Write.
type WriteResult struct {
	// DidWrite indicates the file on disk changed.
	DidWrite bool

	// WouldWrite is true when the output was written or was already
	// identical to the file on disk.
	WouldWrite bool
}

// NewFileWriter returns a new FileWriter.
func NewFileWriter(i FileWriterInput) FileWriter {
	backup := i.Backup
	if backup == nil {
		backup = func(string) {}
	}
	return FileWriter{
		createDestDirs: i.CreateDestDirs,
		path:           i.Path,
		perms:          i.Perms,
		backup:         backup,
	}
}

// Write atomically replaces the file contents, skipping the write when the
// file already holds the same bytes.
func (w FileWriter) Write(contents []byte) (WriteResult, error) {
	if w.path == "" {
		return WriteResult{}, errMissingDest
	}

	existing, err := os.ReadFile(w.path)
	fileExists := !os.IsNotExist(err)
	if err != nil && fileExists {
		return WriteResult{}, errors.Wrap(err, "failed reading file")
	}

	if fileExists && bytes.Equal(existing, contents) {
		return WriteResult{DidWrite: false, WouldWrite: true}, nil
	}

	if fileExists {
		w.backup(w.path)
	}

	if err := atomicWrite(w.path, contents, w.perms, w.createDestDirs); err != nil {
		return WriteResult{}, errors.Wrap(err, "failed writing file")
	}
	return WriteResult{DidWrite: true, WouldWrite: true}, nil
}

// Backup creates a [filename].bak copy, preserving the Mode
// Provided for convenience (to use as the BackupFunc) and an example.
func Backup(path string) {
	if path == "" {
		return
	}
	bak, old := path+".bak", path+".old.bak"
	os.Rename(bak, old) // ignore error
	if err := os.Link(path, bak); err == nil {
		os.Remove(old) // ignore error
	}
}

// atomicWrite writes contents to path through a temporary file in the same
// directory. An existing file keeps its mode unless perms is set; a new file
// gets perms, or 0644.
func atomicWrite(path string, contents []byte, perms os.FileMode, createDestDirs bool) error {
	parent := filepath.Dir(path)
	if _, err := os.Stat(parent); os.IsNotExist(err) {
		if !createDestDirs {
			return errNoParentDir
		}
		if err := os.MkdirAll(parent, 0755); err != nil {
			return err
		}
	}

	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	if err := atomic.WriteFile(path, bytes.NewReader(contents)); err != nil {
		return err
	}

	switch {
	case perms != 0:
		return os.Chmod(path, perms)
	case isNew:
		return os.Chmod(path, 0644)
	}
	return nil
}
