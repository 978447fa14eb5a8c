// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package templater

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/templater/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nested returns a handler that calls the nested render function for each
// name and joins the placeholders it gets back with prefix.
func nested(prefix string, names ...string) HandlerFunc {
	return func(_ context.Context, data Context, _ string) (string, error) {
		render, ok := data[RenderKey].(PartialFunc)
		if !ok {
			return "", fmt.Errorf("render function missing")
		}
		var b strings.Builder
		b.WriteString(prefix)
		for _, n := range names {
			b.WriteString(render(n))
		}
		return b.String(), nil
	}
}

func TestPartialSubstitution(t *testing.T) {
	t.Parallel()

	tr := NewTemplater(TemplaterInput{})
	require.NoError(t, tr.RegisterFunction(FunctionInput{Name: "scripts", Handler: staticHandler("<script/>")}))
	require.NoError(t, tr.RegisterFunction(FunctionInput{Name: "nav", Handler: staticHandler("<nav/>")}))
	require.NoError(t, tr.RegisterFunction(FunctionInput{Name: "page", Handler: nested("page:", "nav", "scripts")}))

	out, err := tr.Render(context.Background(), "page", nil)
	require.NoError(t, err)
	assert.Equal(t, "page:<nav/><script/>", out)
}

func TestPartialNested(t *testing.T) {
	t.Parallel()

	tr := NewTemplater(TemplaterInput{})
	require.NoError(t, tr.RegisterFunction(FunctionInput{Name: "leaf", Handler: staticHandler("leaf")}))
	require.NoError(t, tr.RegisterFunction(FunctionInput{Name: "mid", Handler: nested("mid>", "leaf")}))
	require.NoError(t, tr.RegisterFunction(FunctionInput{Name: "top", Handler: nested("top>", "mid", "mid")}))

	out, err := tr.Render(context.Background(), "top", nil)
	require.NoError(t, err)
	assert.Equal(t, "top>mid>leafmid>leaf", out)
	assert.NotContains(t, out, tokenOpen)
}

func TestPartialInLayout(t *testing.T) {
	t.Parallel()

	tr := NewTemplater(TemplaterInput{})
	require.NoError(t, tr.RegisterFunction(FunctionInput{Name: "scripts", Handler: staticHandler("<script/>")}))
	require.NoError(t, tr.RegisterFunction(FunctionInput{
		Name: "layout",
		Handler: func(ctx context.Context, data Context, name string) (string, error) {
			tail, err := nested("", "scripts")(ctx, data, name)
			return fmt.Sprintf("<body>%v%s</body>", data[ContentKey], tail), err
		},
	}))
	require.NoError(t, tr.RegisterFunction(FunctionInput{Name: "page", Layout: "layout", Handler: staticHandler("hi")}))

	out, err := tr.Render(context.Background(), "page", nil)
	require.NoError(t, err)
	assert.Equal(t, "<body>hi<script/></body>", out)
}

func TestPartialContext(t *testing.T) {
	t.Parallel()

	seen := make(chan Context, 2)
	tr := NewTemplater(TemplaterInput{})
	require.NoError(t, tr.RegisterFunction(FunctionInput{
		Name: "child",
		Handler: func(_ context.Context, data Context, _ string) (string, error) {
			seen <- data.Copy()
			return "", nil
		},
	}))
	require.NoError(t, tr.RegisterFunction(FunctionInput{
		Name: "parent",
		Handler: func(_ context.Context, data Context, _ string) (string, error) {
			render := data[RenderKey].(PartialFunc)
			return render("child") + render("child", map[string]interface{}{"a": 1}, map[string]interface{}{"b": 2}), nil
		},
	}))

	_, err := tr.Render(context.Background(), "parent", Context{"title": "t"})
	require.NoError(t, err)

	var inherited, explicit Context
	for i := 0; i < 2; i++ {
		c := <-seen
		if _, ok := c["title"]; ok {
			inherited = c
		} else {
			explicit = c
		}
	}

	require.NotNil(t, inherited)
	assert.Equal(t, "t", inherited["title"])
	assert.NotEmpty(t, inherited[InlineRenderIDKey])

	require.NotNil(t, explicit)
	assert.Equal(t, 1, explicit["a"])
	assert.Equal(t, 2, explicit["b"])
	assert.NotContains(t, explicit, InlineRenderIDKey)
}

func TestPartialFailure(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	tr := NewTemplater(TemplaterInput{EventHandler: rec.handle})
	require.NoError(t, tr.RegisterFunction(FunctionInput{
		Name: "broken",
		Handler: func(context.Context, Context, string) (string, error) {
			return "", fmt.Errorf("boom")
		},
	}))
	require.NoError(t, tr.RegisterFunction(FunctionInput{Name: "ok", Handler: staticHandler("ok")}))
	require.NoError(t, tr.RegisterFunction(FunctionInput{Name: "page", Handler: nested("[", "broken", "ok", "missing")}))

	out, err := tr.Render(context.Background(), "page", nil)
	require.NoError(t, err)
	assert.Equal(t, "[ok", out)

	failed := rec.failures()
	require.Len(t, failed, 2)
	assert.Equal(t, "broken", failed[0].Name)
	assert.Contains(t, failed[0].Error.Error(), "boom")
	assert.NotEmpty(t, failed[0].ID)
	assert.Equal(t, "missing", failed[1].Name)

	var started []string
	for _, e := range rec.events {
		if ev, ok := e.(events.Trace); ok {
			started = append(started, ev.Message)
		}
	}
	assert.Equal(t, []string{
		"inline render started: broken",
		"inline render started: ok",
		"inline render started: missing",
	}, started)
}

func TestPartialForeignToken(t *testing.T) {
	t.Parallel()

	foreign := placeholder("not-one-of-ours")
	tr := NewTemplater(TemplaterInput{})
	require.NoError(t, tr.RegisterFunction(FunctionInput{Name: "ok", Handler: staticHandler("ok")}))
	require.NoError(t, tr.RegisterFunction(FunctionInput{
		Name: "page",
		Handler: func(ctx context.Context, data Context, name string) (string, error) {
			out, err := nested("", "ok")(ctx, data, name)
			return foreign + out, err
		},
	}))

	out, err := tr.Render(context.Background(), "page", nil)
	require.NoError(t, err)
	assert.Equal(t, foreign+"ok", out)
}

func TestPartialResolveSkipsOwnToken(t *testing.T) {
	t.Parallel()

	tr := NewTemplater(TemplaterInput{})
	data := Context{InlineRenderIDKey: "self"}
	ps := newPartialSet(context.Background(), tr, data)

	done := make(chan partialResult, 1)
	done <- partialResult{out: "child"}
	ps.pending = []*pendingPartial{
		// never completes; must not be waited on
		{id: "self", name: "loop", done: make(chan partialResult)},
		{id: "other", name: "child", done: done},
	}

	out, err := ps.resolve(context.Background(), placeholder("self")+"|"+placeholder("other"))
	require.NoError(t, err)
	assert.Equal(t, placeholder("self")+"|child", out)
}

func TestPartialResolveCancel(t *testing.T) {
	t.Parallel()

	tr := NewTemplater(TemplaterInput{})
	require.NoError(t, tr.RegisterFunction(FunctionInput{
		Name: "slow",
		Handler: func(ctx context.Context, _ Context, _ string) (string, error) {
			<-ctx.Done()
			time.Sleep(10 * time.Millisecond)
			return "late", nil
		},
	}))
	require.NoError(t, tr.RegisterFunction(FunctionInput{Name: "page", Handler: nested("", "slow")}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := tr.Render(ctx, "page", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPartialConcurrentRenders(t *testing.T) {
	t.Parallel()

	tr := NewTemplater(TemplaterInput{})
	require.NoError(t, tr.RegisterFunction(FunctionInput{
		Name: "echo",
		Handler: func(_ context.Context, data Context, _ string) (string, error) {
			return fmt.Sprint(data["n"]), nil
		},
	}))
	require.NoError(t, tr.RegisterFunction(FunctionInput{
		Name: "page",
		Handler: func(_ context.Context, data Context, _ string) (string, error) {
			render := data[RenderKey].(PartialFunc)
			return render("echo") + "-" + render("echo"), nil
		},
	}))

	errCh := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func(i int) {
			out, err := tr.Render(context.Background(), "page", Context{"n": i})
			if err == nil && out != fmt.Sprintf("%d-%d", i, i) {
				err = fmt.Errorf("render %d: got %q", i, out)
			}
			errCh <- err
		}(i)
	}
	for i := 0; i < 20; i++ {
		assert.NoError(t, <-errCh)
	}
}
