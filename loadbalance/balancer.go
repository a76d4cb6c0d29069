// Package loadbalance picks the one peer a client talks to when a service has
// several registered endpoints.
//
// Three strategies are implemented:
//   - RoundRobin:      successive clients spread evenly over the endpoints
//   - WeightedRandom:  endpoints with more capacity get proportionally more clients
//   - ConsistentHash:  the same key (e.g. the RPC user) always lands on the same endpoint
package loadbalance

import (
	"fmt"

	"mini-jsonrpc/registry"
)

// Balancer is the interface for load balancing strategies.
// A client calls Pick once, when it is built.
type Balancer interface {
	// Pick selects one endpoint from the available list.
	// Must be goroutine-safe.
	Pick(endpoints []registry.Endpoint) (*registry.Endpoint, error)

	// Name returns the strategy name (for logging/debugging).
	Name() string
}

// New returns the balancer registered under name. key is only used by
// the consistent hash strategy.
func New(name string, key string) (Balancer, error) {
	switch name {
	case "", "round-robin":
		return &RoundRobinBalancer{}, nil
	case "weighted-random":
		return &WeightedRandomBalancer{}, nil
	case "consistent-hash":
		return NewConsistentHashBalancer(key), nil
	default:
		return nil, fmt.Errorf("unknown balancer: %s", name)
	}
}
