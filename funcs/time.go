// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package funcs

import (
	"fmt"
	"strconv"
	"time"
)

// now is overridden in tests.
var now = func() time.Time { return time.Now().UTC() }

// timestamp returns the current time in UTC, formatted as RFC3339 or with
// the given layout. The layout "unix" returns seconds since the epoch.
func timestamp(s ...string) (string, error) {
	switch len(s) {
	case 0:
		return now().Format(time.RFC3339), nil
	case 1:
		if s[0] == "unix" {
			return strconv.FormatInt(now().Unix(), 10), nil
		}
		return now().Format(s[0]), nil
	default:
		return "", fmt.Errorf("timestamp: wrong number of arguments, "+
			"expected 0 or 1, but got %d", len(s))
	}
}

// formatTime formats t with layout. t may be a time.Time, an RFC3339 string
// or unix seconds.
func formatTime(layout string, t interface{}) (string, error) {
	var tm time.Time
	switch v := t.(type) {
	case time.Time:
		tm = v
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return "", fmt.Errorf("formatTime: %w", err)
		}
		tm = parsed
	case int:
		tm = time.Unix(int64(v), 0).UTC()
	case int64:
		tm = time.Unix(v, 0).UTC()
	default:
		return "", fmt.Errorf("formatTime: unsupported time value %T", t)
	}
	return tm.Format(layout), nil
}
