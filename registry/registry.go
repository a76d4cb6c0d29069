package registry

import (
	"context"

	"mini-jsonrpc/protocol"
)

// Endpoint is one advertised JSON-RPC peer of a service.
type Endpoint struct {
	Host    string `json:"host"`
	Port    uint16 `json:"port"`
	Weight  int    `json:"weight"` // Weight for load balancing
	Version string `json:"version,omitempty"`
}

// Addr returns host:port.
func (e Endpoint) Addr() string {
	return e.Protocol().Addr()
}

// Protocol converts e to the wire-level endpoint.
func (e Endpoint) Protocol() protocol.Endpoint {
	return protocol.Endpoint{Host: e.Host, Port: e.Port}
}

type Registry interface {
	Register(ctx context.Context, service string, endpoint Endpoint, ttl int64) error
	Deregister(ctx context.Context, service string, addr string) error
	Discover(ctx context.Context, service string) ([]Endpoint, error)
}
