// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package renderer

import (
	"bytes"
	"reflect"
	"regexp"
	"text/template"

	"github.com/pkg/errors"
)

// TextEngine renders text/template source.
//
// Function values in the data are also installed as template functions under
// their key, so a callback such as the nested render function can be called
// as `{{ render "sidebar" }}` as well as through the data.
type TextEngine struct {
	funcs         template.FuncMap
	errMissingKey bool
	leftDelim     string
	rightDelim    string
}

// TextEngineInput is used as input when creating a TextEngine.
type TextEngineInput struct {
	// Funcs is the base function map.
	Funcs template.FuncMap

	// ErrMissingKey causes the template to fail when a map is indexed with a
	// key that does not exist.
	ErrMissingKey bool

	// LeftDelim and RightDelim are the template delimiters.
	LeftDelim  string
	RightDelim string
}

// check for interface compliance
var _ Engine = (*TextEngine)(nil)

// NewTextEngine returns a TextEngine.
func NewTextEngine(i TextEngineInput) *TextEngine {
	return &TextEngine{
		funcs:         i.Funcs,
		errMissingKey: i.ErrMissingKey,
		leftDelim:     i.LeftDelim,
		rightDelim:    i.RightDelim,
	}
}

// Render parses and executes content with data as dot.
func (e *TextEngine) Render(content string, data map[string]interface{}) (string, error) {
	name, _ := data[FilenameKey].(string)
	if name == "" {
		name = "inline"
	}

	tmpl := template.New(name)
	tmpl.Delims(e.leftDelim, e.rightDelim)
	tmpl.Funcs(e.funcMap(data))

	if e.errMissingKey {
		tmpl.Option("missingkey=error")
	} else {
		tmpl.Option("missingkey=zero")
	}

	tmpl, err := tmpl.Parse(content)
	if err != nil {
		return "", errors.Wrap(err, "parse")
	}

	var b bytes.Buffer
	if err := tmpl.Execute(&b, data); err != nil {
		return "", errors.Wrap(err, "execute")
	}
	return b.String(), nil
}

// funcMap is the base function map plus the callable values of data.
func (e *TextEngine) funcMap(data map[string]interface{}) template.FuncMap {
	fm := make(template.FuncMap, len(e.funcs)+1)
	for k, v := range e.funcs {
		fm[k] = v
	}
	for k, v := range data {
		if isTemplateFunc(k, v) {
			fm[k] = v
		}
	}
	return fm
}

var (
	identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
)

// isTemplateFunc reports whether v can be installed in a text/template
// FuncMap under name without Funcs panicking.
func isTemplateFunc(name string, v interface{}) bool {
	if !identifier.MatchString(name) {
		return false
	}
	fv := reflect.ValueOf(v)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return false
	}
	t := fv.Type()
	switch t.NumOut() {
	case 1:
		return true
	case 2:
		return t.Out(1) == errorType
	default:
		return false
	}
}
