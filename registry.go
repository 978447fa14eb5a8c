// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package templater

import (
	"context"
	"sort"
	"sync"

	bexpr "github.com/hashicorp/go-bexpr"
	"github.com/pkg/errors"
	glob "github.com/ryanuber/go-glob"
)

// Kind identifies the source of a template definition.
type Kind int

const (
	KindInvalid Kind = iota
	KindFile
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindFunction:
		return "function"
	default:
		return "invalid"
	}
}

// HandlerFunc produces the contents of a function template. It receives the
// merged render context and the name the template was rendered under.
type HandlerFunc func(ctx context.Context, data Context, name string) (string, error)

// Definition describes a registered template. Exactly one of Path and
// Handler must be set.
type Definition struct {
	// Path to the template file. The render engine is picked from the file
	// extension at render time.
	Path string

	// Handler returns the template contents for function templates.
	Handler HandlerFunc

	// Layout is the name of the template that wraps this one's output.
	Layout string

	// Type, when set on a function template, hands the handler output to the
	// render engine of that type instead of returning it as is.
	Type string
}

// Kind reports whether the definition is a file or a function template. A
// definition with both sources set reports KindFile.
func (d Definition) Kind() Kind {
	switch {
	case d.Path != "":
		return KindFile
	case d.Handler != nil:
		return KindFunction
	default:
		return KindInvalid
	}
}

func (d Definition) validate() error {
	if (d.Path == "") == (d.Handler == nil) {
		return ErrInvalidDefinition
	}
	return nil
}

// Info is the introspection view of a registered template, used by Filter.
type Info struct {
	Name   string `bexpr:"Name"`
	Kind   string `bexpr:"Kind"`
	Path   string `bexpr:"Path"`
	Layout string `bexpr:"Layout"`
	Type   string `bexpr:"Type"`
}

// Registry maps template names to definitions.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]Definition
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		templates: make(map[string]Definition),
	}
}

// Register stores def under name, replacing any earlier definition.
func (r *Registry) Register(name string, def Definition) error {
	if name == "" {
		return errMissingName
	}
	if err := def.validate(); err != nil {
		return errors.Wrapf(err, "register %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[name] = def
	return nil
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.templates[name]
	return def, ok
}

// List returns a copy of all registered definitions.
func (r *Registry) List() map[string]Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Definition, len(r.templates))
	for name, def := range r.templates {
		out[name] = def
	}
	return out
}

// Names returns the sorted names of all registered templates.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Match returns the sorted names matching a wildcard pattern, where '*'
// matches any run of characters (eg. "default-*").
func (r *Registry) Match(pattern string) []string {
	var out []string
	for _, name := range r.Names() {
		if glob.Glob(pattern, name) {
			out = append(out, name)
		}
	}
	return out
}

// Filter returns the templates for which the boolean expression holds, sorted
// by name. Selectors are the fields of Info, eg. `Layout == "page"` or
// `Kind == "function" and Name matches "^admin"`.
func (r *Registry) Filter(expr string) ([]Info, error) {
	eval, err := bexpr.CreateEvaluator(expr)
	if err != nil {
		return nil, errors.Wrap(err, "filter")
	}

	list := r.List()
	var out []Info
	for _, name := range r.Names() {
		def, ok := list[name]
		if !ok {
			continue
		}
		info := Info{
			Name:   name,
			Kind:   def.Kind().String(),
			Path:   def.Path,
			Layout: def.Layout,
			Type:   def.Type,
		}
		match, err := eval.Evaluate(info)
		if err != nil {
			return nil, errors.Wrapf(err, "filter %q", name)
		}
		if match {
			out = append(out, info)
		}
	}
	return out, nil
}
