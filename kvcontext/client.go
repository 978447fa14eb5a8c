// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package kvcontext

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/consul/api"
	rootcerts "github.com/hashicorp/go-rootcerts"
	"github.com/pkg/errors"
)

// ClientInput describes how to reach the Consul agent when no client is
// passed in. Zero values fall back to the consul/api defaults, which read the
// CONSUL_* environment variables.
type ClientInput struct {
	Address string
	Token   string

	AuthEnabled  bool
	AuthUsername string
	AuthPassword string

	SSLEnabled bool
	SSLVerify  bool
	SSLCert    string
	SSLKey     string
	SSLCACert  string
	SSLCAPath  string
	ServerName string

	DialTimeout         time.Duration
	DialKeepAlive       time.Duration
	IdleConnTimeout     time.Duration
	MaxIdleConnsPerHost int
	TLSHandshakeTimeout time.Duration

	// HttpClient replaces the client built from the settings above.
	HttpClient *http.Client
}

// NewClient builds a Consul API client from i.
func NewClient(i ClientInput) (*api.Client, error) {
	config := api.DefaultConfig()
	if i.Address != "" {
		config.Address = i.Address
	}
	if i.Token != "" {
		config.Token = i.Token
	}
	if i.AuthEnabled {
		config.HttpAuth = &api.HttpBasicAuth{
			Username: i.AuthUsername,
			Password: i.AuthPassword,
		}
	}
	if i.SSLEnabled {
		config.Scheme = "https"
	}

	config.HttpClient = i.HttpClient
	if config.HttpClient == nil {
		transport, err := newTransport(i)
		if err != nil {
			return nil, err
		}
		config.HttpClient = &http.Client{Transport: transport}
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, errors.Wrap(err, "consul client")
	}
	return client, nil
}

func newTransport(i ClientInput) (*http.Transport, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   i.DialTimeout,
			KeepAlive: i.DialKeepAlive,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		IdleConnTimeout:     i.IdleConnTimeout,
		MaxIdleConnsPerHost: i.MaxIdleConnsPerHost,
		TLSHandshakeTimeout: i.TLSHandshakeTimeout,
	}
	if !i.SSLEnabled {
		return transport, nil
	}

	tlsConfig := &tls.Config{}
	if i.SSLCert != "" {
		key := i.SSLKey
		if key == "" {
			// combined cert and key file
			key = i.SSLCert
		}
		cert, err := tls.LoadX509KeyPair(i.SSLCert, key)
		if err != nil {
			return nil, errors.Wrap(err, "consul client: ssl")
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	if i.SSLCACert != "" || i.SSLCAPath != "" {
		err := rootcerts.ConfigureTLS(tlsConfig, &rootcerts.Config{
			CAFile: i.SSLCACert,
			CAPath: i.SSLCAPath,
		})
		if err != nil {
			return nil, errors.Wrap(err, "consul client: ssl ca")
		}
	}

	tlsConfig.ServerName = i.ServerName
	tlsConfig.InsecureSkipVerify = !i.SSLVerify
	transport.TLSClientConfig = tlsConfig
	return transport, nil
}
