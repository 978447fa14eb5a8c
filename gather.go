// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package templater

import (
	"context"
	"fmt"
	"sync"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// ContextEvent is the broadcast point asked for context on every render.
const ContextEvent = "context"

// ContextForEvent returns the broadcast point asked for context only when
// the named template renders.
func ContextForEvent(name string) string {
	return "contextFor:" + name
}

// Gatherer collects partial contexts from the contributors registered for an
// event. Nil contributions are dropped.
type Gatherer interface {
	Gather(ctx context.Context, event, name string) ([]Context, error)
}

// ContributorFunc returns context to merge into the render of the named
// template. Returning a nil Context contributes nothing.
type ContributorFunc func(ctx context.Context, name string) (Context, error)

// Broadcaster is a Gatherer that fans out to every contributor registered for
// an event concurrently and returns their contributions in registration
// order.
type Broadcaster struct {
	mu           sync.RWMutex
	contributors map[string][]ContributorFunc
}

// check for interface compliance
var _ Gatherer = (*Broadcaster)(nil)

// NewBroadcaster returns a Broadcaster with no contributors.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		contributors: make(map[string][]ContributorFunc),
	}
}

// On registers fn as a contributor for event.
func (b *Broadcaster) On(event string, fn ContributorFunc) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.contributors[event] = append(b.contributors[event], fn)
}

// Gather runs all contributors for event and waits for them. Errors from
// individual contributors are combined; contributions from the ones that
// succeeded are discarded in that case.
func (b *Broadcaster) Gather(ctx context.Context, event, name string) ([]Context, error) {
	b.mu.RLock()
	fns := make([]ContributorFunc, len(b.contributors[event]))
	copy(fns, b.contributors[event])
	b.mu.RUnlock()

	if len(fns) == 0 {
		return nil, nil
	}

	var (
		wg      sync.WaitGroup
		errMu   sync.Mutex
		result  error
		results = make([]Context, len(fns))
	)
	for i, fn := range fns {
		wg.Add(1)
		go func(i int, fn ContributorFunc) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errMu.Lock()
					result = multierror.Append(result, fmt.Errorf("%s: contributor panic: %v", event, r))
					errMu.Unlock()
				}
			}()

			c, err := fn(ctx, name)
			if err != nil {
				errMu.Lock()
				result = multierror.Append(result, errors.Wrap(err, event))
				errMu.Unlock()
				return
			}
			results[i] = c
		}(i, fn)
	}
	wg.Wait()

	if result != nil {
		return nil, result
	}

	out := make([]Context, 0, len(results))
	for _, c := range results {
		if c != nil {
			out = append(out, c)
		}
	}
	return out, nil
}
