// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package funcs

import (
	"fmt"
	"strings"

	socktmpl "github.com/hashicorp/go-sockaddr/template"
)

// sockaddr evaluates a go-sockaddr template expression, for example
// `sockaddr "GetPrivateIP"`.
func sockaddr(args ...string) (string, error) {
	t := fmt.Sprintf("{{ %s }}", strings.Join(args, " "))
	return socktmpl.Parse(t)
}
