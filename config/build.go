package config

import (
	"context"

	"mini-jsonrpc/client"
	"mini-jsonrpc/registry"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// NewClient validates f and builds a client from it. When a registry is
// configured the endpoint is discovered in etcd first.
func (f *File) NewClient(ctx context.Context, logger zerolog.Logger) (*client.Client, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	opts, err := f.Options(logger)
	if err != nil {
		return nil, err
	}
	if !f.UsesRegistry() {
		return client.New(f.ClientConfig(), opts...), nil
	}

	dialTimeout, err := f.DialTimeout()
	if err != nil {
		return nil, err
	}
	reg, err := registry.NewEtcdRegistry(f.Registry.Etcd, dialTimeout)
	if err != nil {
		return nil, err
	}
	defer reg.Close()

	bal, err := f.Balancer()
	if err != nil {
		return nil, err
	}

	c, err := client.NewFromRegistry(ctx, reg, bal, f.Registry.Service, f.ClientConfig(), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve endpoint")
	}
	logger.Debug().
		Str("service", f.Registry.Service).
		Str("balancer", bal.Name()).
		Str("endpoint", c.Config().Endpoint().Addr()).
		Msg("resolved endpoint")
	return c, nil
}
