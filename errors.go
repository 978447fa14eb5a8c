// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package templater

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidDefinition is returned when a definition sets both a file
	// path and a handler, or neither.
	ErrInvalidDefinition = errors.New("definition must set exactly one of path or handler")

	// ErrNoEngine is returned when a file (or typed function) template is
	// rendered by a Templater created without an Engine.
	ErrNoEngine = errors.New("no render engine configured")

	errMissingName = errors.New("template name required")
)

// TemplateNotFoundError is returned when rendering or looking up a name that
// was never registered.
type TemplateNotFoundError struct {
	Name string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.Name)
}

// DirectoryScanError is returned when the filesystem listing behind a
// directory registration fails. Templates registered earlier in the same
// call stay registered.
type DirectoryScanError struct {
	Pattern string
	Err     error
}

func (e *DirectoryScanError) Error() string {
	return fmt.Sprintf("scan %q: %v", e.Pattern, e.Err)
}

func (e *DirectoryScanError) Unwrap() error { return e.Err }

// RenderEngineError wraps a failure of the template source: the render
// engine, or the handler of a function template.
type RenderEngineError struct {
	Name string
	Err  error
}

func (e *RenderEngineError) Error() string {
	return fmt.Sprintf("render %q: %v", e.Name, e.Err)
}

func (e *RenderEngineError) Unwrap() error { return e.Err }

// LayoutCycleError is returned when a layout chain wraps a template that is
// already part of the chain. Chain lists the names in wrapping order, ending
// with the repeated name.
type LayoutCycleError struct {
	Chain []string
}

func (e *LayoutCycleError) Error() string {
	return "layout cycle: " + strings.Join(e.Chain, " -> ")
}
