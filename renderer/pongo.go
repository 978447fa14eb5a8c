// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package renderer

import (
	"reflect"
	"regexp"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/pkg/errors"
)

// contentKey holds already rendered output when a layout is rendered. It is
// passed to pongo2 as a safe value so layouts need no "|safe" filter.
const contentKey = "content"

// PongoEngine renders Django-syntax templates with pongo2.
//
// Files are loaded through a local filesystem loader without a base
// directory, so `{% include %}` and `{% extends %}` resolve relative to the
// including template.
type PongoEngine struct {
	// pongo2 marks the set as used on every compile without locking
	mu  sync.Mutex
	set *pongo2.TemplateSet
}

// PongoEngineInput is used as input when creating a PongoEngine.
type PongoEngineInput struct {
	// Funcs are installed as globals of the template set.
	Funcs map[string]interface{}
}

// check for interface compliance
var _ FileEngine = (*PongoEngine)(nil)

// NewPongoEngine returns a PongoEngine with its own template set.
func NewPongoEngine(i PongoEngineInput) *PongoEngine {
	loader := pongo2.MustNewLocalFileSystemLoader("")
	set := pongo2.NewSet("templater", loader)
	for k, v := range i.Funcs {
		set.Globals[k] = v
	}
	return &PongoEngine{set: set}
}

// Render compiles and executes content.
func (e *PongoEngine) Render(content string, data map[string]interface{}) (string, error) {
	e.mu.Lock()
	tpl, err := e.set.FromString(content)
	e.mu.Unlock()
	if err != nil {
		return "", errors.Wrap(err, "parse")
	}
	return e.execute(tpl, data)
}

// RenderFile compiles and executes the template file at path.
func (e *PongoEngine) RenderFile(path string, data map[string]interface{}) (string, error) {
	e.mu.Lock()
	tpl, err := e.set.FromFile(path)
	e.mu.Unlock()
	if err != nil {
		return "", errors.Wrap(err, "parse")
	}
	return e.execute(tpl, data)
}

func (e *PongoEngine) execute(tpl *pongo2.Template, data map[string]interface{}) (string, error) {
	out, err := tpl.Execute(pongoContext(data))
	if err != nil {
		return "", errors.Wrap(err, "execute")
	}
	return out, nil
}

var pongoIdentifier = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// pongoContext converts data into a pongo2 context. Keys pongo2 cannot
// address are dropped. Callbacks returning strings (such as the nested
// render function) are wrapped to return safe values, so their output is
// not escaped.
func pongoContext(data map[string]interface{}) pongo2.Context {
	ctx := make(pongo2.Context, len(data))
	for k, v := range data {
		if !pongoIdentifier.MatchString(k) {
			continue
		}
		switch val := v.(type) {
		case func(string, ...map[string]interface{}) string:
			ctx[k] = safePartial(val)
		case string:
			if k == contentKey {
				ctx[k] = pongo2.AsSafeValue(val)
			} else {
				ctx[k] = val
			}
		default:
			ctx[k] = v
		}
	}
	return ctx
}

// safePartial adapts a nested render function for pongo2, which passes
// variadic arguments through untyped.
func safePartial(fn func(string, ...map[string]interface{}) string) func(string, ...interface{}) *pongo2.Value {
	return func(name string, opts ...interface{}) *pongo2.Value {
		maps := make([]map[string]interface{}, 0, len(opts))
		for _, o := range opts {
			if m, ok := toStringMap(o); ok {
				maps = append(maps, m)
			}
		}
		return pongo2.AsSafeValue(fn(name, maps...))
	}
}

// toStringMap converts any map with string keys to map[string]interface{}.
func toStringMap(v interface{}) (map[string]interface{}, bool) {
	if m, ok := v.(map[string]interface{}); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]interface{}, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
