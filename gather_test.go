// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package templater

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contribute(c Context) ContributorFunc {
	return func(context.Context, string) (Context, error) {
		return c, nil
	}
}

func TestBroadcasterGather(t *testing.T) {
	t.Parallel()

	t.Run("no_contributors", func(t *testing.T) {
		b := NewBroadcaster()
		out, err := b.Gather(context.Background(), ContextEvent, "page")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("registration_order", func(t *testing.T) {
		b := NewBroadcaster()
		// the first contributor finishes last
		b.On(ContextEvent, func(context.Context, string) (Context, error) {
			time.Sleep(20 * time.Millisecond)
			return Context{"n": 1}, nil
		})
		b.On(ContextEvent, contribute(Context{"n": 2}))
		b.On(ContextEvent, contribute(nil))
		b.On(ContextEvent, contribute(Context{"n": 3}))

		out, err := b.Gather(context.Background(), ContextEvent, "page")
		require.NoError(t, err)
		assert.Equal(t, []Context{{"n": 1}, {"n": 2}, {"n": 3}}, out)
	})

	t.Run("name_passed", func(t *testing.T) {
		b := NewBroadcaster()
		b.On(ContextForEvent("page"), func(_ context.Context, name string) (Context, error) {
			return Context{"name": name}, nil
		})
		out, err := b.Gather(context.Background(), ContextForEvent("page"), "page")
		require.NoError(t, err)
		assert.Equal(t, []Context{{"name": "page"}}, out)

		out, err = b.Gather(context.Background(), ContextForEvent("other"), "other")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("errors_combined", func(t *testing.T) {
		b := NewBroadcaster()
		b.On(ContextEvent, contribute(Context{"ok": true}))
		b.On(ContextEvent, func(context.Context, string) (Context, error) {
			return nil, fmt.Errorf("first")
		})
		b.On(ContextEvent, func(context.Context, string) (Context, error) {
			return nil, fmt.Errorf("second")
		})

		out, err := b.Gather(context.Background(), ContextEvent, "page")
		require.Error(t, err)
		assert.Nil(t, out)
		assert.Contains(t, err.Error(), "first")
		assert.Contains(t, err.Error(), "second")
	})

	t.Run("panic", func(t *testing.T) {
		b := NewBroadcaster()
		b.On(ContextEvent, func(context.Context, string) (Context, error) {
			panic("oops")
		})
		_, err := b.Gather(context.Background(), ContextEvent, "page")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "oops")
	})

	t.Run("nil_fn_ignored", func(t *testing.T) {
		b := NewBroadcaster()
		b.On(ContextEvent, nil)
		out, err := b.Gather(context.Background(), ContextEvent, "page")
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}
