// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package funcs holds the helper functions installed in every render engine.
// The same map serves text/template (as a FuncMap) and pongo2 (as set
// globals), so every function returns either one value or a value and an
// error.
package funcs

import "text/template"

// All returns every helper function.
func All() template.FuncMap {
	all := make(template.FuncMap)
	groups := []func() template.FuncMap{
		Strings, Encoding, Maps, HTML, Time, Network}
	for _, f := range groups {
		for k, v := range f() {
			all[k] = v
		}
	}
	return all
}

// Strings returns the string manipulation helpers.
func Strings() template.FuncMap {
	return template.FuncMap{
		"toLower":         toLower,
		"toUpper":         toUpper,
		"toTitle":         toTitle,
		"join":            join,
		"split":           split,
		"trimSpace":       trimSpace,
		"indent":          indent,
		"truncate":        truncate,
		"slugify":         slugify,
		"replaceAll":      replaceAll,
		"regexReplaceAll": regexReplaceAll,
		"regexMatch":      regexMatch,
	}
}

// Encoding returns the parse and serialize helpers.
func Encoding() template.FuncMap {
	return template.FuncMap{
		"parseBool":    parseBool,
		"parseInt":     parseInt,
		"parseJSON":    parseJSON,
		"parseYAML":    parseYAML,
		"parseTOML":    parseTOML,
		"toJSON":       toJSON,
		"toJSONPretty": toJSONPretty,
		"toYAML":       toYAML,
		"toTOML":       toTOML,
		"base64Encode": base64Encode,
		"base64Decode": base64Decode,
	}
}

// Maps returns the helpers for nested map data.
func Maps() template.FuncMap {
	return template.FuncMap{
		"explodeMap":           ExplodeMap,
		"mergeMap":             mergeMap,
		"mergeMapWithOverride": mergeMapWithOverride,
		"dict":                 dict,
		"keys":                 keys,
		"pick":                 pick,
	}
}

// HTML returns the HTML sanitizing helpers.
func HTML() template.FuncMap {
	return template.FuncMap{
		"sanitize":  sanitize,
		"stripTags": stripTags,
	}
}

// Time returns the time formatting helpers.
func Time() template.FuncMap {
	return template.FuncMap{
		"timestamp":  timestamp,
		"formatTime": formatTime,
	}
}

// Network returns the network address helpers.
func Network() template.FuncMap {
	return template.FuncMap{
		"sockaddr": sockaddr,
	}
}
