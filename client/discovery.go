package client

import (
	"context"

	"mini-jsonrpc/loadbalance"
	"mini-jsonrpc/registry"

	"github.com/pkg/errors"
)

// NewFromRegistry looks service up in reg, lets bal pick one endpoint and
// builds a client for it. Host and Port of cfg are replaced by the picked
// endpoint; the client keeps talking to that endpoint for its whole life.
func NewFromRegistry(ctx context.Context, reg registry.Registry, bal loadbalance.Balancer, service string, cfg Config, opts ...Option) (*Client, error) {
	endpoints, err := reg.Discover(ctx, service)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to discover '%s'", service)
	}

	endpoint, err := bal.Pick(endpoints)
	if err != nil {
		return nil, errors.Wrapf(err, "%s could not pick an endpoint for '%s'", bal.Name(), service)
	}

	cfg.Host = endpoint.Host
	cfg.Port = endpoint.Port
	return New(cfg, opts...), nil
}
