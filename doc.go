// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

/*
The Templater library.

This library keeps a registry of named templates and renders them by name.
Templates are registered from a file, from every file of a directory, or from
a function that returns the template contents. A render can be wrapped in a
layout template and enriched with context contributed by other parts of the
application.

Rendering a template goes through these steps:

  - Context contributors registered with the Gatherer for the "context" event
    and for "contextFor:<name>" are called concurrently and their
    contributions are merged over the caller's data.
  - The template source runs with a nested render function in the context
    under "render". Calling it starts rendering another template and returns
    a placeholder right away; the placeholder is replaced with the nested
    output once the source has finished.
  - If the template has a layout, or the context sets "template", the output
    is rendered again inside the layout as "content".

The package examples register a page and its layout and then render the
page.
*/
package templater
