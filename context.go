// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package templater

import (
	"reflect"
)

// Reserved context keys.
const (
	// ContentKey holds the output of the wrapped template when a layout is
	// rendered.
	ContentKey = "content"

	// TemplateKey overrides the layout for a single render call. It is
	// removed from the context before the template source runs.
	TemplateKey = "template"

	// FilenameKey is set to the template path for file templates.
	FilenameKey = "filename"

	// RenderKey holds the nested render function (see PartialFunc).
	RenderKey = "render"

	// InlineRenderIDKey tags the context of a nested render with the token
	// of the placeholder it will replace.
	InlineRenderIDKey = "_inlineRenderId"
)

// Context is the data passed to a render call. Values are expected to be one
// of: string, bool, integer or float numbers, slices, nested
// map[string]interface{} (or Context), and function values.
type Context map[string]interface{}

// Copy returns a shallow copy of the context. A nil context copies to an
// empty one.
func (c Context) Copy() Context {
	out := make(Context, len(c)+1)
	for k, v := range c {
		out[k] = v
	}
	return out
}

// without returns a shallow copy with the given keys removed.
func (c Context) without(keys ...string) Context {
	out := c.Copy()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Merge applies additions to a copy of base, left to right, and returns the
// result. An addition may be a Context, a map[string]interface{}, a slice of
// either, or nil.
//
// When both the existing value and the added value for a key are slices, the
// result is their union in first-seen order with duplicates removed.
// Otherwise the added value replaces the existing one. Neither base nor the
// additions are modified.
func Merge(base Context, additions ...interface{}) Context {
	out := base.Copy()
	for _, a := range additions {
		switch v := a.(type) {
		case nil:
		case Context:
			mergeInto(out, v)
		case map[string]interface{}:
			mergeInto(out, v)
		case []Context:
			for _, m := range v {
				mergeInto(out, m)
			}
		case []map[string]interface{}:
			for _, m := range v {
				mergeInto(out, m)
			}
		case []interface{}:
			out = Merge(out, v...)
		}
	}
	return out
}

func mergeInto(dst Context, src map[string]interface{}) {
	for k, v := range src {
		if existing, ok := dst[k]; ok {
			if u, ok := union(existing, v); ok {
				dst[k] = u
				continue
			}
		}
		dst[k] = v
	}
}

// union returns the ordered, de-duplicated union of two slices. The result
// keeps the element type when both slices share a type and falls back to
// []interface{} otherwise. ok is false when either value is not a slice.
func union(base, add interface{}) (interface{}, bool) {
	bv, av := reflect.ValueOf(base), reflect.ValueOf(add)
	if bv.Kind() != reflect.Slice || av.Kind() != reflect.Slice {
		return nil, false
	}

	typ := bv.Type()
	if av.Type() != typ {
		typ = reflect.TypeOf([]interface{}{})
	}

	out := reflect.MakeSlice(typ, 0, bv.Len()+av.Len())
	seen := make([]interface{}, 0, bv.Len()+av.Len())
	for _, src := range []reflect.Value{bv, av} {
		for i := 0; i < src.Len(); i++ {
			item := src.Index(i)
			if containsValue(seen, item.Interface()) {
				continue
			}
			seen = append(seen, item.Interface())
			out = reflect.Append(out, item)
		}
	}
	return out.Interface(), true
}

func containsValue(list []interface{}, v interface{}) bool {
	for _, item := range list {
		if reflect.DeepEqual(item, v) {
			return true
		}
	}
	return false
}
