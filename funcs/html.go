// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package funcs

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policiesOnce sync.Once
	ugcPolicy    *bluemonday.Policy
	strictPolicy *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policiesOnce.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()
		strictPolicy = bluemonday.StrictPolicy()
	})
	return ugcPolicy, strictPolicy
}

// sanitize removes scripts, event handlers and other unsafe markup from user
// supplied HTML while keeping formatting elements.
func sanitize(s string) string {
	ugc, _ := policies()
	return ugc.Sanitize(s)
}

// stripTags removes all markup from s.
func stripTags(s string) string {
	_, strict := policies()
	return strict.Sanitize(s)
}
