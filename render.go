// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package templater

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/templater/events"
	"github.com/pkg/errors"
)

// Render renders the named template with data and returns the output.
//
// Context contributed by the Gatherer is merged over data first. The
// template source then runs with a nested render function available under
// RenderKey. If the context carries a TemplateKey override, or the template
// has a layout, the output is rendered again inside that layout as
// ContentKey.
//
// data is not modified. An unknown name fails with *TemplateNotFoundError.
func (t *Templater) Render(ctx context.Context, name string, data Context) (string, error) {
	out, err := t.render(ctx, name, data, nil)
	if err != nil {
		t.event(events.RenderFailed{Name: name, Error: err})
		return "", err
	}
	return out, nil
}

// render is Render with the names of the templates already entered in the
// current layout chain.
func (t *Templater) render(ctx context.Context, name string, data Context, chain []string) (string, error) {
	def, ok := t.registry.Get(name)
	if !ok {
		return "", &TemplateNotFoundError{Name: name}
	}

	start := time.Now()
	t.event(events.RenderStart{Name: name})

	data, err := t.gatherContext(ctx, name, data)
	if err != nil {
		return "", err
	}

	layout := def.Layout
	if v, ok := data[TemplateKey]; ok {
		delete(data, TemplateKey)
		if s, ok := v.(string); ok && s != "" {
			layout = s
		}
	}

	content, err := t.invoke(ctx, name, def, data)
	if err != nil {
		return "", err
	}

	if layout == "" {
		t.event(events.RenderComplete{Name: name, Duration: time.Since(start)})
		return content, nil
	}

	chain = append(chain[:len(chain):len(chain)], name)
	for _, entered := range chain {
		if entered == layout {
			return "", &LayoutCycleError{Chain: append(chain, layout)}
		}
	}

	t.event(events.LayoutApplied{Name: name, Layout: layout})
	next := data.without(RenderKey, InlineRenderIDKey)
	next[ContentKey] = content
	out, err := t.render(ctx, layout, next, chain)
	if err != nil {
		return "", err
	}
	t.event(events.RenderComplete{Name: name, Duration: time.Since(start)})
	return out, nil
}

// gatherContext returns a copy of data with the global and name-scoped
// contributions merged over it.
func (t *Templater) gatherContext(ctx context.Context, name string, data Context) (Context, error) {
	merged := data.Copy()
	if t.gatherer == nil {
		return merged, nil
	}

	var contributions []Context
	for _, event := range []string{ContextEvent, ContextForEvent(name)} {
		parts, err := t.gatherer.Gather(ctx, event, name)
		if err != nil {
			return nil, errors.Wrap(err, "gather context")
		}
		contributions = append(contributions, parts...)
	}

	t.event(events.ContextGathered{Name: name, Contributions: len(contributions)})
	return Merge(merged, contributions), nil
}

// invoke runs the template source with a fresh nested render set and
// resolves the placeholders it produced. data is modified in place.
func (t *Templater) invoke(ctx context.Context, name string, def Definition, data Context) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RenderEngineError{Name: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	partials := newPartialSet(ctx, t, data)
	data[RenderKey] = partials.Render

	switch def.Kind() {
	case KindFile:
		if t.engine == nil {
			return "", &RenderEngineError{Name: name, Err: ErrNoEngine}
		}
		data[FilenameKey] = def.Path
		out, err = t.engine.RenderFile(ctx, def.Path, data)

	case KindFunction:
		out, err = def.Handler(ctx, data, name)
		if err == nil && def.Type != "" {
			if t.engine == nil {
				return "", &RenderEngineError{Name: name, Err: ErrNoEngine}
			}
			out, err = t.engine.Render(ctx, def.Type, out, data)
		}

	default:
		err = ErrInvalidDefinition
	}
	if err != nil {
		return "", &RenderEngineError{Name: name, Err: err}
	}

	return partials.resolve(ctx, out)
}

// RenderPartial renders source and wraps the result in layout. source is
// rendered directly through the engine when it names an existing file, and
// as a registered template otherwise.
func (t *Templater) RenderPartial(ctx context.Context, source, layout string, data Context) (string, error) {
	var (
		content string
		err     error
	)
	if info, statErr := os.Stat(source); statErr == nil && info.Mode().IsRegular() {
		content, err = t.invoke(ctx, source, Definition{Path: source}, data.Copy())
	} else {
		content, err = t.Render(ctx, source, data)
	}
	if err != nil {
		return "", err
	}

	next := data.without(TemplateKey)
	next[ContentKey] = content
	return t.Render(ctx, layout, next)
}

// RenderToFile renders the named template and writes the output with w.
func (t *Templater) RenderToFile(ctx context.Context, name string, data Context, w FileWriter) (WriteResult, error) {
	out, err := t.Render(ctx, name, data)
	if err != nil {
		return WriteResult{}, err
	}
	return w.Write([]byte(out))
}
