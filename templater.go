// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package templater

import (
	"context"

	"github.com/hashicorp/templater/events"
	"github.com/pkg/errors"
)

// Engine renders template source. It is implemented by renderer.Renderer.
type Engine interface {
	// RenderFile renders the file at path, picking the engine type from the
	// file extension.
	RenderFile(ctx context.Context, path string, data map[string]interface{}) (string, error)

	// Render renders content with the engine registered for typ.
	Render(ctx context.Context, typ, content string, data map[string]interface{}) (string, error)
}

// Templater holds a registry of named templates and renders them.
type Templater struct {
	registry *Registry
	engine   Engine
	gatherer Gatherer
	event    events.EventHandler
}

// TemplaterInput is used as input when creating a Templater.
type TemplaterInput struct {
	// Engine renders file templates and typed function templates. Optional
	// if only untyped function templates are used.
	Engine Engine

	// Gatherer is asked for extra context on every render. Optional.
	Gatherer Gatherer

	// EventHandler receives events for registration and render progress.
	EventHandler events.EventHandler
}

// NewTemplater creates a Templater with an empty registry.
func NewTemplater(i TemplaterInput) *Templater {
	t := &Templater{
		registry: NewRegistry(),
		engine:   i.Engine,
		gatherer: i.Gatherer,
		event:    i.EventHandler,
	}
	if t.event == nil {
		t.event = func(events.Event) {}
	}
	return t
}

// Registry returns the registry backing this Templater.
func (t *Templater) Registry() *Registry {
	return t.registry
}

// FileInput is used to register a file template.
type FileInput struct {
	// Path to the template file.
	Path string

	// Name to register under. Defaults to the file name without directory
	// and extension.
	Name string

	// Layout is the optional wrapping template.
	Layout string
}

// DirectoryInput is used to register every matching file in a directory.
type DirectoryInput struct {
	// Pattern is a directory or a glob pattern. A directory is expanded to
	// "<dir>/*.<Extension>".
	Pattern string

	// Layout applied to every registered template.
	Layout string

	// Extension filters the files of a directory. Defaults to "*".
	Extension string

	// Namespace, when set, prefixes names with "<Namespace>-".
	Namespace string
}

// FunctionInput is used to register a function template.
type FunctionInput struct {
	Name    string
	Layout  string
	Handler HandlerFunc

	// Type, when set, renders the handler output with the engine for that
	// type.
	Type string
}

// Register stores def under name. A later registration under the same name
// replaces it.
func (t *Templater) Register(name string, def Definition) error {
	if err := t.registry.Register(name, def); err != nil {
		return err
	}
	t.event(events.TemplateRegistered{
		Name:   name,
		Kind:   def.Kind().String(),
		Layout: def.Layout,
	})
	return nil
}

// RegisterFile registers a file template and returns the name it was
// registered under.
func (t *Templater) RegisterFile(i FileInput) (string, error) {
	if i.Path == "" {
		return "", errors.Wrap(ErrInvalidDefinition, "register file")
	}
	name := i.Name
	if name == "" {
		name = TemplateName(i.Path)
	}
	err := t.Register(name, Definition{Path: i.Path, Layout: i.Layout})
	if err != nil {
		return "", err
	}
	return name, nil
}

// RegisterDirectory registers every file matching the input pattern and
// returns the registered names. Calling it again for the same directory
// re-registers the same names.
func (t *Templater) RegisterDirectory(i DirectoryInput) ([]string, error) {
	pattern := directoryPattern(i.Pattern, i.Extension)
	files, err := globFiles(pattern)
	if err != nil {
		return nil, &DirectoryScanError{Pattern: pattern, Err: err}
	}

	prefix := ""
	if i.Namespace != "" {
		prefix = i.Namespace + "-"
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		name, err := t.RegisterFile(FileInput{
			Path:   f,
			Name:   prefix + TemplateName(f),
			Layout: i.Layout,
		})
		if err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

// RegisterFunction registers a function template.
func (t *Templater) RegisterFunction(i FunctionInput) error {
	if i.Handler == nil {
		return errors.Wrap(ErrInvalidDefinition, "register function")
	}
	return t.Register(i.Name, Definition{
		Handler: i.Handler,
		Layout:  i.Layout,
		Type:    i.Type,
	})
}

// Get returns the definition registered under name.
func (t *Templater) Get(name string) (Definition, bool) {
	return t.registry.Get(name)
}

// List returns a copy of all registered definitions.
func (t *Templater) List() map[string]Definition {
	return t.registry.List()
}
