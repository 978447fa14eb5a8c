// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package manifest registers templates from a declarative file. A manifest
// lists single templates and template directories, with optional defaults
// applied to every entry:
//
//	[defaults.template]
//	layout = "default"
//
//	[[template]]
//	path = "views/home.html"
//
//	[[directory]]
//	pattern = "views/partials"
//	extension = "html"
//
// TOML, YAML and JSON are supported, picked by file extension.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/hashicorp/templater"
	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Format is the encoding of a manifest.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for a manifest file with an extension other
// than .toml, .yaml, .yml or .json.
var ErrUnknownFormat = errors.New("unknown manifest format")

// Template registers a single template file.
type Template struct {
	Name   string `toml:"name" yaml:"name" json:"name"`
	Path   string `toml:"path" yaml:"path" json:"path"`
	Layout string `toml:"layout" yaml:"layout" json:"layout"`
}

// Directory registers every matching file of a directory.
type Directory struct {
	Pattern   string `toml:"pattern" yaml:"pattern" json:"pattern"`
	Extension string `toml:"extension" yaml:"extension" json:"extension"`
	Layout    string `toml:"layout" yaml:"layout" json:"layout"`
	Namespace string `toml:"namespace" yaml:"namespace" json:"namespace"`
}

// Defaults fill the unset fields of every entry.
type Defaults struct {
	Template  Template  `toml:"template" yaml:"template" json:"template"`
	Directory Directory `toml:"directory" yaml:"directory" json:"directory"`
}

// Manifest is the decoded manifest file.
type Manifest struct {
	Defaults    Defaults    `toml:"defaults" yaml:"defaults" json:"defaults"`
	Templates   []Template  `toml:"template" yaml:"templates" json:"templates"`
	Directories []Directory `toml:"directory" yaml:"directories" json:"directories"`
}

// Registrar is the subset of *templater.Templater a manifest registers
// into.
type Registrar interface {
	RegisterFile(templater.FileInput) (string, error)
	RegisterDirectory(templater.DirectoryInput) ([]string, error)
}

// check for interface compliance
var _ Registrar = (*templater.Templater)(nil)

// FormatFor returns the format for a manifest path.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q", path)
	}
}

// Load reads and parses the manifest at path. Relative template paths and
// directory patterns are resolved against the manifest's directory.
func Load(path string) (*Manifest, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}
	m, err := Parse(b, format)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	m.resolve(filepath.Dir(path))
	return m, nil
}

// Parse decodes a manifest and applies its defaults to every entry.
func Parse(b []byte, format Format) (*Manifest, error) {
	var m Manifest
	var err error
	switch format {
	case FormatTOML:
		_, err = toml.Decode(string(b), &m)
	case FormatYAML:
		err = yaml.UnmarshalStrict(b, &m)
	case FormatJSON:
		err = json.Unmarshal(b, &m)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
	if err != nil {
		return nil, errors.Wrap(err, "parse manifest")
	}

	if err := m.applyDefaults(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) applyDefaults() error {
	for i := range m.Templates {
		if err := mergo.Merge(&m.Templates[i], m.Defaults.Template); err != nil {
			return errors.Wrap(err, "template defaults")
		}
	}
	for i := range m.Directories {
		if err := mergo.Merge(&m.Directories[i], m.Defaults.Directory); err != nil {
			return errors.Wrap(err, "directory defaults")
		}
	}
	return nil
}

func (m *Manifest) resolve(dir string) {
	for i, t := range m.Templates {
		if t.Path != "" && !filepath.IsAbs(t.Path) {
			m.Templates[i].Path = filepath.Join(dir, t.Path)
		}
	}
	for i, d := range m.Directories {
		if d.Pattern != "" && !filepath.IsAbs(d.Pattern) {
			m.Directories[i].Pattern = filepath.Join(dir, d.Pattern)
		}
	}
}

// Apply registers every entry of the manifest and returns the registered
// names. Failing entries do not stop the others; their errors are combined.
func (m *Manifest) Apply(r Registrar) ([]string, error) {
	var (
		names  []string
		result error
	)
	for _, t := range m.Templates {
		name, err := r.RegisterFile(templater.FileInput{
			Path:   t.Path,
			Name:   t.Name,
			Layout: t.Layout,
		})
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "template %q", t.Path))
			continue
		}
		names = append(names, name)
	}
	for _, d := range m.Directories {
		registered, err := r.RegisterDirectory(templater.DirectoryInput{
			Pattern:   d.Pattern,
			Extension: d.Extension,
			Layout:    d.Layout,
			Namespace: d.Namespace,
		})
		names = append(names, registered...)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "directory %q", d.Pattern))
		}
	}
	return names, result
}

// LoadAndApply loads the manifest at path and registers its entries.
func LoadAndApply(path string, r Registrar) ([]string, error) {
	m, err := Load(path)
	if err != nil {
		return nil, err
	}
	return m.Apply(r)
}
