// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/templater"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlManifest = `
[defaults.template]
layout = "default"

[defaults.directory]
extension = "html"

[[template]]
path = "views/home.html"

[[template]]
name = "bare"
path = "views/bare.html"
layout = "none"

[[directory]]
pattern = "views/partials"
namespace = "partial"
`

const yamlManifest = `
defaults:
  template:
    layout: default
  directory:
    extension: html
templates:
  - path: views/home.html
  - name: bare
    path: views/bare.html
    layout: none
directories:
  - pattern: views/partials
    namespace: partial
`

const jsonManifest = `{
  "defaults": {
    "template": {"layout": "default"},
    "directory": {"extension": "html"}
  },
  "templates": [
    {"path": "views/home.html"},
    {"name": "bare", "path": "views/bare.html", "layout": "none"}
  ],
  "directories": [
    {"pattern": "views/partials", "namespace": "partial"}
  ]
}`

func TestParse(t *testing.T) {
	t.Parallel()

	exp := &Manifest{
		Defaults: Defaults{
			Template:  Template{Layout: "default"},
			Directory: Directory{Extension: "html"},
		},
		Templates: []Template{
			{Path: "views/home.html", Layout: "default"},
			{Name: "bare", Path: "views/bare.html", Layout: "none"},
		},
		Directories: []Directory{
			{Pattern: "views/partials", Extension: "html", Namespace: "partial"},
		},
	}

	cases := []struct {
		format Format
		in     string
	}{
		{FormatTOML, tomlManifest},
		{FormatYAML, yamlManifest},
		{FormatJSON, jsonManifest},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(string(tc.format), func(t *testing.T) {
			m, err := Parse([]byte(tc.in), tc.format)
			require.NoError(t, err)
			assert.Equal(t, exp, m)
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("x"), "ini")
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	_, err = Parse([]byte("[[template"), FormatTOML)
	assert.Error(t, err)

	_, err = Parse([]byte("templates:\n  - bogus: 1\n"), FormatYAML)
	assert.Error(t, err, "unknown fields are rejected")

	_, err = Parse([]byte("{"), FormatJSON)
	assert.Error(t, err)
}

func TestFormatFor(t *testing.T) {
	t.Parallel()

	cases := map[string]Format{
		"templates.toml": FormatTOML,
		"templates.yaml": FormatYAML,
		"templates.YML":  FormatYAML,
		"templates.json": FormatJSON,
	}
	for path, exp := range cases {
		f, err := FormatFor(path)
		require.NoError(t, err, path)
		assert.Equal(t, exp, f, path)
	}

	_, err := FormatFor("templates.ini")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func setupViews(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{
		"views/home.html",
		"views/bare.html",
		"views/partials/nav.html",
		"views/partials/footer.html",
		"views/partials/notes.txt",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0644))
	}
	return dir
}

func TestLoadAndApply(t *testing.T) {
	t.Parallel()

	dir := setupViews(t)
	path := filepath.Join(dir, "templates.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlManifest), 0644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "views/home.html"), m.Templates[0].Path)
	assert.Equal(t, filepath.Join(dir, "views/partials"), m.Directories[0].Pattern)

	tr := templater.NewTemplater(templater.TemplaterInput{})
	names, err := LoadAndApply(path, tr)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"home", "bare", "partial-nav", "partial-footer"}, names)

	def, ok := tr.Get("home")
	require.True(t, ok)
	assert.Equal(t, "default", def.Layout)
	assert.Equal(t, filepath.Join(dir, "views/home.html"), def.Path)

	def, ok = tr.Get("bare")
	require.True(t, ok)
	assert.Equal(t, "none", def.Layout)

	_, ok = tr.Get("partial-notes")
	assert.False(t, ok)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "templates.ini"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
}

func TestApplyCombinesErrors(t *testing.T) {
	t.Parallel()

	dir := setupViews(t)
	m := &Manifest{
		Templates: []Template{
			{Path: ""},
			{Path: filepath.Join(dir, "views/home.html")},
		},
		Directories: []Directory{
			{Pattern: filepath.Join(dir, "nope")},
		},
	}

	tr := templater.NewTemplater(templater.TemplaterInput{})
	names, err := m.Apply(tr)
	require.Error(t, err)
	assert.Equal(t, []string{"home"}, names)

	assert.True(t, errors.Is(err, templater.ErrInvalidDefinition))
	var scanErr *templater.DirectoryScanError
	assert.True(t, errors.As(err, &scanErr))
}
