// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package funcs

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

func toLower(s string) string { return strings.ToLower(s) }

func toUpper(s string) string { return strings.ToUpper(s) }

// toTitle upper-cases the first letter of every space separated word.
func toTitle(s string) string {
	out := []rune(s)
	for i, r := range out {
		if i == 0 || unicode.IsSpace(out[i-1]) {
			out[i] = unicode.ToTitle(r)
		}
	}
	return string(out)
}

// join is a version of strings.Join that can be piped
func join(sep string, a []string) string {
	return strings.Join(a, sep)
}

// split is a version of strings.Split that can be piped. An empty (or blank)
// string splits to an empty list.
func split(sep, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	return strings.Split(s, sep)
}

func trimSpace(s string) string { return strings.TrimSpace(s) }

// indent prefixes each non-empty line of s with the given number of spaces.
func indent(spaces int, s string) (string, error) {
	if spaces < 0 {
		return "", fmt.Errorf("indent value must be a positive integer")
	}
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n"), nil
}

// truncate shortens s to at most length runes, ending it with "..." when it
// was cut.
func truncate(length int, s string) string {
	const ellipsis = "..."
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	if length <= len(ellipsis) {
		return string(r[:length])
	}
	return string(r[:length-len(ellipsis)]) + ellipsis
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns s into a lowercase, dash separated url path segment.
func slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func replaceAll(f, t, s string) string {
	return strings.ReplaceAll(s, f, t)
}

// regexReplaceAll replaces all occurrences of a regular expression with
// the given replacement value.
func regexReplaceAll(re, pl, s string) (string, error) {
	compiled, err := regexp.Compile(re)
	if err != nil {
		return "", err
	}
	return compiled.ReplaceAllString(s, pl), nil
}

func regexMatch(re, s string) (bool, error) {
	compiled, err := regexp.Compile(re)
	if err != nil {
		return false, err
	}
	return compiled.MatchString(s), nil
}
