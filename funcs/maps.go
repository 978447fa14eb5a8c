// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package funcs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"
)

// ExplodeMap turns a single-level map with "/" separated keys into a
// deeply-nested one. {"a/b": 1} becomes {"a": {"b": 1}}.
func ExplodeMap(mapIn map[string]interface{}) (map[string]interface{}, error) {
	mapOut := make(map[string]interface{})

	keys := make([]string, 0, len(mapIn))
	for k := range mapIn {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := explodeHelper(mapOut, k, mapIn[k], k); err != nil {
			return nil, errors.Wrap(err, "explodeMap")
		}
	}
	return mapOut, nil
}

func explodeHelper(m map[string]interface{}, k string, v interface{}, p string) error {
	top, rest, nested := strings.Cut(k, "/")
	if !nested {
		if k != "" {
			m[k] = v
		}
		return nil
	}

	if _, ok := m[top]; !ok {
		m[top] = make(map[string]interface{})
	}
	nest, ok := m[top].(map[string]interface{})
	if !ok {
		return fmt.Errorf("not a map: %q: %q already has value %q", p, top, m[top])
	}
	return explodeHelper(nest, rest, v, p)
}

type _map = map[string]interface{}

// mergeMap fills the missing keys of dstMap from srcMap.
func mergeMap(dstMap _map, srcMap _map, args ...func(*mergo.Config)) (_map, error) {
	out := make(_map, len(dstMap))
	for k, v := range dstMap {
		out[k] = v
	}
	if err := mergo.Map(&out, srcMap, args...); err != nil {
		return nil, errors.Wrap(err, "mergeMap")
	}
	return out, nil
}

// mergeMapWithOverride is mergeMap with srcMap values taking precedence.
func mergeMapWithOverride(dstMap _map, srcMap _map) (_map, error) {
	return mergeMap(dstMap, srcMap, mergo.WithOverride)
}

// dict builds a map from alternating keys and values:
// `dict "src" "/js/app.js"`.
func dict(pairs ...interface{}) (_map, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	out := make(_map, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		out[k] = pairs[i+1]
	}
	return out, nil
}

// keys returns the sorted keys of m.
func keys(m _map) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// pick returns a map with only the given keys of m.
func pick(m _map, names ...string) _map {
	out := make(_map, len(names))
	for _, n := range names {
		if v, ok := m[n]; ok {
			out[n] = v
		}
	}
	return out
}
