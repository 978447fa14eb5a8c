// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package renderer maps template types (file extensions) to the engines that
// render them. It implements templater.Engine.
package renderer

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/hashicorp/templater/funcs"
	"github.com/pkg/errors"
)

// ErrNoEngine is returned when rendering a type no engine is registered for.
var ErrNoEngine = errors.New("no engine registered for type")

// FilenameKey is set to the template path by RenderFile.
const FilenameKey = "filename"

// Engine renders template source with data.
type Engine interface {
	Render(content string, data map[string]interface{}) (string, error)
}

// FileEngine is implemented by engines that load files themselves, so that
// includes can be resolved relative to the template file.
type FileEngine interface {
	Engine
	RenderFile(path string, data map[string]interface{}) (string, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(content string, data map[string]interface{}) (string, error)

// Render calls f.
func (f EngineFunc) Render(content string, data map[string]interface{}) (string, error) {
	return f(content, data)
}

// Renderer is a registry of engines keyed by type.
type Renderer struct {
	mu      sync.RWMutex
	engines map[string]Engine
}

// Input is used as input when creating a Renderer.
type Input struct {
	// Funcs are added to (or override) the helper functions installed in the
	// built-in engines.
	Funcs template.FuncMap

	// ErrMissingKey makes text/template engines fail when a map is indexed
	// with a key that does not exist.
	ErrMissingKey bool

	// LeftDelim and RightDelim are the text/template delimiters.
	LeftDelim  string
	RightDelim string

	// Engines are registered after the built-in ones and replace them for
	// the same type.
	Engines map[string]Engine
}

// New returns a Renderer with the built-in engines registered: text/template
// for "gotmpl" and "tmpl", and pongo2 for "html", "pongo" and "django".
func New(i Input) *Renderer {
	fm := funcs.All()
	for k, v := range i.Funcs {
		fm[k] = v
	}

	r := &Renderer{engines: make(map[string]Engine)}

	text := NewTextEngine(TextEngineInput{
		Funcs:         fm,
		ErrMissingKey: i.ErrMissingKey,
		LeftDelim:     i.LeftDelim,
		RightDelim:    i.RightDelim,
	})
	for _, typ := range []string{"gotmpl", "tmpl"} {
		r.Register(typ, text)
	}

	pongo := NewPongoEngine(PongoEngineInput{Funcs: fm})
	for _, typ := range []string{"html", "pongo", "django"} {
		r.Register(typ, pongo)
	}

	for typ, e := range i.Engines {
		r.Register(typ, e)
	}
	return r
}

// Register sets the engine for typ. A leading "." is ignored, so
// Register(".html", e) and Register("html", e) are the same.
func (r *Renderer) Register(typ string, e Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[normalizeType(typ)] = e
}

// Types returns the sorted registered types.
func (r *Renderer) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.engines))
	for typ := range r.engines {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}

func (r *Renderer) engine(typ string) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[normalizeType(typ)]
	if !ok {
		return nil, errors.Wrapf(ErrNoEngine, "%q", typ)
	}
	return e, nil
}

// Render renders content with the engine registered for typ.
func (r *Renderer) Render(ctx context.Context, typ, content string, data map[string]interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	e, err := r.engine(typ)
	if err != nil {
		return "", err
	}
	return e.Render(content, data)
}

// RenderFile renders the file at path with the engine registered for its
// extension. The engine sees the path under FilenameKey; data itself is not
// modified.
func (r *Renderer) RenderFile(ctx context.Context, path string, data map[string]interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	e, err := r.engine(filepath.Ext(path))
	if err != nil {
		return "", err
	}

	fileData := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		fileData[k] = v
	}
	fileData[FilenameKey] = path

	if fe, ok := e.(FileEngine); ok {
		return fe.RenderFile(path, fileData)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "read template")
	}
	return e.Render(string(b), fileData)
}

func normalizeType(typ string) string {
	return strings.TrimPrefix(typ, ".")
}
