// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package templater

import (
	"os"
	"path/filepath"
	"strings"
)

// TemplateName derives a template name from a file path: the base name
// without its final extension. "a/b/c.ejs" becomes "c".
func TemplateName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// hasMeta reports whether path contains any of the glob magic characters
// recognized by filepath.Match.
func hasMeta(path string) bool {
	return strings.ContainsAny(path, `*?[\`)
}

// directoryPattern turns a directory into a glob for the files in it with the
// given extension ("*" when empty). Patterns that are already globs are
// returned unchanged.
func directoryPattern(dirOrPattern, ext string) string {
	if hasMeta(dirOrPattern) {
		return dirOrPattern
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "*"
	}
	return filepath.Join(dirOrPattern, "*."+ext)
}

// scanRoot returns the leading part of a glob pattern that contains no magic
// characters. It is the directory that must exist for the listing to succeed.
func scanRoot(pattern string) string {
	dir := filepath.Dir(pattern)
	for hasMeta(dir) {
		dir = filepath.Dir(dir)
	}
	return dir
}

// globFiles lists the regular files matching pattern, sorted. A missing or
// unreadable root directory is an error, not an empty result.
func globFiles(pattern string) ([]string, error) {
	root := scanRoot(pattern)
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "scan", Path: root, Err: os.ErrInvalid}
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return nil, err
		}
		if info.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	return files, nil
}
