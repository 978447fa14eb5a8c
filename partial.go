// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package templater

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/go-uuid"
	"github.com/hashicorp/templater/events"
)

// PartialFunc is the nested render function injected into the context under
// RenderKey. It starts rendering the named template and returns a placeholder
// at once; the placeholder is replaced with the rendered output once the
// calling template has finished.
//
// Without opts the nested render gets a copy of the calling context. With
// opts, they are merged (left to right) into a fresh context instead.
type PartialFunc = func(name string, opts ...map[string]interface{}) string

const (
	tokenOpen  = "<<<"
	tokenClose = ">>>"
)

func placeholder(id string) string {
	return tokenOpen + id + tokenClose
}

type partialResult struct {
	out string
	err error
}

// pendingPartial is a nested render that has been started but not yet
// substituted into its parent's output.
type pendingPartial struct {
	id   string
	name string
	done chan partialResult
}

// partialSet tracks the nested renders requested by a single invocation of a
// template source. The invocation that created it owns it and resolves it
// once the source returns.
type partialSet struct {
	t    *Templater
	ctx  context.Context
	data Context

	mu      sync.Mutex
	pending []*pendingPartial
}

func newPartialSet(ctx context.Context, t *Templater, data Context) *partialSet {
	return &partialSet{t: t, ctx: ctx, data: data}
}

// Render implements PartialFunc.
func (p *partialSet) Render(name string, opts ...map[string]interface{}) string {
	id, err := uuid.GenerateUUID()
	if err != nil {
		p.t.event(events.PartialFailed{Name: name, Error: err})
		return ""
	}

	var child Context
	if len(opts) == 0 {
		child = p.data.without(RenderKey)
		child[InlineRenderIDKey] = id
	} else {
		adds := make([]interface{}, len(opts))
		for i, o := range opts {
			adds[i] = o
		}
		child = Merge(nil, adds...)
	}

	pp := &pendingPartial{
		id:   id,
		name: name,
		done: make(chan partialResult, 1),
	}
	p.mu.Lock()
	p.pending = append(p.pending, pp)
	p.mu.Unlock()
	p.t.event(events.Trace{ID: id, Message: "inline render started: " + name})

	go func() {
		var res partialResult
		defer func() {
			if r := recover(); r != nil {
				res = partialResult{err: fmt.Errorf("panic: %v", r)}
			}
			pp.done <- res
		}()
		res.out, res.err = p.t.Render(p.ctx, name, child)
	}()

	return placeholder(id)
}

// resolve waits for every pending nested render in the order they were
// requested and replaces their placeholders in out. A failed nested render
// is reported and replaced with the empty string. Placeholders that belong to
// other renders are left alone.
func (p *partialSet) resolve(ctx context.Context, out string) (string, error) {
	p.mu.Lock()
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()

	self, _ := p.data[InlineRenderIDKey].(string)
	for _, pp := range pending {
		if pp.id == self {
			continue
		}

		var res partialResult
		select {
		case res = <-pp.done:
		case <-ctx.Done():
			return out, ctx.Err()
		}

		if res.err != nil {
			p.t.event(events.PartialFailed{ID: pp.id, Name: pp.name, Error: res.err})
			res.out = ""
		}
		out = strings.ReplaceAll(out, placeholder(pp.id), res.out)
	}
	return out, nil
}
