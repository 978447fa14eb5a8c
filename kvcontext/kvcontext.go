// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package kvcontext contributes render context from the Consul KV store.
//
// Keys are read from two trees under a prefix, and "/" separated key paths
// become nested maps:
//
//	<prefix>/global/site/name        -> {"site": {"name": ...}} for every render
//	<prefix>/templates/page/title    -> {"title": ...} when "page" renders
package kvcontext

import (
	"context"
	"strings"

	"github.com/hashicorp/consul/api"
	"github.com/hashicorp/templater"
	"github.com/hashicorp/templater/funcs"
	"github.com/pkg/errors"
)

const (
	globalTree   = "global/"
	templateTree = "templates/"
)

// Contributor reads context from Consul KV.
type Contributor struct {
	kv         *api.KV
	prefix     string
	datacenter string
	namespace  string
}

// Input is used as input when creating a Contributor.
type Input struct {
	// Client is the Consul client to use. When nil, one is built from
	// ClientInput.
	Client *api.Client
	ClientInput

	// Prefix all keys are read under.
	Prefix string

	// Datacenter and Namespace to query. Empty values use the agent's.
	Datacenter string
	Namespace  string
}

// New returns a Contributor.
func New(i Input) (*Contributor, error) {
	client := i.Client
	if client == nil {
		var err error
		if client, err = NewClient(i.ClientInput); err != nil {
			return nil, err
		}
	}

	prefix := strings.Trim(i.Prefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	return &Contributor{
		kv:         client.KV(),
		prefix:     prefix,
		datacenter: i.Datacenter,
		namespace:  i.Namespace,
	}, nil
}

// Register adds the global and the per-template contributors to b.
func (c *Contributor) Register(b *templater.Broadcaster) {
	b.On(templater.ContextEvent, c.Global)
	b.On(templater.ContextEvent, c.Template)
}

// Global returns the keys under "<prefix>/global/". It is the same for every
// template.
func (c *Contributor) Global(ctx context.Context, _ string) (templater.Context, error) {
	return c.list(ctx, c.prefix+globalTree)
}

// Template returns the keys under "<prefix>/templates/<name>/".
func (c *Contributor) Template(ctx context.Context, name string) (templater.Context, error) {
	return c.list(ctx, c.prefix+templateTree+name+"/")
}

// list reads every key under prefix. It returns nil when there are none.
func (c *Contributor) list(ctx context.Context, prefix string) (templater.Context, error) {
	q := &api.QueryOptions{
		Datacenter: c.datacenter,
		Namespace:  c.namespace,
	}
	pairs, _, err := c.kv.List(prefix, q.WithContext(ctx))
	if err != nil {
		return nil, errors.Wrapf(err, "kv list %q", prefix)
	}
	if len(pairs) == 0 {
		return nil, nil
	}

	flat := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key := strings.TrimPrefix(pair.Key, prefix)
		// folders
		if key == "" || strings.HasSuffix(key, "/") {
			continue
		}
		flat[key] = string(pair.Value)
	}

	nested, err := funcs.ExplodeMap(flat)
	if err != nil {
		return nil, errors.Wrapf(err, "kv list %q", prefix)
	}
	return templater.Context(nested), nil
}
