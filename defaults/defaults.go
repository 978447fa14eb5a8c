// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package defaults provides a bundled set of text/template page templates
// (a base "default" layout, "page", "admin", error pages and the script and
// flash message partials) and registers the static asset routes they refer
// to.
package defaults

import (
	"context"
	"embed"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/hashicorp/templater"
	"github.com/pkg/errors"
)

//go:embed templates/*.gotmpl
var templateFS embed.FS

// Type is the render engine type of the bundled templates.
const Type = "gotmpl"

// layouts maps the bundled templates to the layout that wraps them.
var layouts = map[string]string{
	"page":  "default",
	"admin": "default",
	"404":   "page",
	"500":   "page",
}

// assetRoutes are the URL prefixes served from the asset directory, each
// from the subdirectory of the same name.
var assetRoutes = []string{"/dist", "/js"}

// StaticRouter serves a directory of static files under a URL prefix.
type StaticRouter interface {
	Static(prefix, dir string) error
}

// Registrar is the subset of *templater.Templater used to register the
// bundled templates.
type Registrar interface {
	RegisterFunction(templater.FunctionInput) error
}

// check for interface compliance
var _ Registrar = (*templater.Templater)(nil)

// Input is used as input to Register.
type Input struct {
	// Router, when set along with AssetsDir, gets a route for each asset
	// prefix.
	Router StaticRouter

	// AssetsDir holds the "dist" and "js" asset directories.
	AssetsDir string
}

// Register registers the bundled templates and static routes and returns the
// registered template names.
func Register(r Registrar, i Input) ([]string, error) {
	files, err := fs.Glob(templateFS, "templates/*.gotmpl")
	if err != nil {
		return nil, errors.Wrap(err, "defaults")
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		b, err := templateFS.ReadFile(f)
		if err != nil {
			return names, errors.Wrapf(err, "defaults: read %s", f)
		}

		name := templater.TemplateName(path.Base(f))
		if err := r.RegisterFunction(templater.FunctionInput{
			Name:    name,
			Layout:  layouts[name],
			Type:    Type,
			Handler: source(string(b)),
		}); err != nil {
			return names, err
		}
		names = append(names, name)
	}

	if i.Router == nil || i.AssetsDir == "" {
		return names, nil
	}
	for _, route := range assetRoutes {
		dir := filepath.Join(i.AssetsDir, filepath.FromSlash(route))
		if err := i.Router.Static(route, dir); err != nil {
			return names, errors.Wrapf(err, "static %s", route)
		}
	}
	return names, nil
}

// source returns a handler that hands back fixed template source.
func source(contents string) templater.HandlerFunc {
	return func(context.Context, templater.Context, string) (string, error) {
		return contents, nil
	}
}
