// Package registry keeps the addresses of JSON-RPC peers in etcd.
//
// etcd acts as a phonebook for services:
//
//	Key:   /mini-jsonrpc/{service}/{host:port}
//	Value: JSON-encoded Endpoint
//
// A client looks its peer up once, when it is built. Entries registered with a
// TTL live on a lease and disappear once the lease is no longer kept alive.
package registry

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	clientv3 "go.etcd.io/etcd/client/v3"
)

const keyPrefix = "/mini-jsonrpc/"

// EtcdRegistry implements the Registry interface using etcd v3.
type EtcdRegistry struct {
	client *clientv3.Client // thread-safe, shared across goroutines
}

// NewEtcdRegistry creates a new registry connected to the given etcd endpoints.
func NewEtcdRegistry(endpoints []string, dialTimeout time.Duration) (*EtcdRegistry, error) {
	c, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to etcd")
	}
	return &EtcdRegistry{client: c}, nil
}

// Close releases the etcd connection.
func (r *EtcdRegistry) Close() error {
	return r.client.Close()
}

func servicePrefix(service string) string {
	return keyPrefix + service + "/"
}

func endpointKey(service, addr string) string {
	return servicePrefix(service) + addr
}

// Register adds an endpoint for service.
//
// With ttl <= 0 the entry is permanent. Otherwise it is attached to a lease of
// ttl seconds that is kept alive until ctx is done.
func (r *EtcdRegistry) Register(ctx context.Context, service string, endpoint Endpoint, ttl int64) error {
	val, err := json.Marshal(endpoint)
	if err != nil {
		return errors.Wrap(err, "failed to encode endpoint")
	}
	key := endpointKey(service, endpoint.Addr())

	if ttl <= 0 {
		_, err = r.client.Put(ctx, key, string(val))
		return errors.Wrapf(err, "failed to put '%s'", key)
	}

	lease, err := r.client.Grant(ctx, ttl)
	if err != nil {
		return errors.Wrap(err, "failed to grant lease")
	}

	if _, err := r.client.Put(ctx, key, string(val), clientv3.WithLease(lease.ID)); err != nil {
		return errors.Wrapf(err, "failed to put '%s'", key)
	}

	// leaseID stays local: several registrations may share one EtcdRegistry
	ch, err := r.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return errors.Wrap(err, "failed to keep lease alive")
	}

	// drain keep alive responses so the channel never fills up
	go func() {
		for range ch {
		}
	}()
	return nil
}

// Deregister removes the endpoint addr of service.
func (r *EtcdRegistry) Deregister(ctx context.Context, service string, addr string) error {
	key := endpointKey(service, addr)
	_, err := r.client.Delete(ctx, key)
	return errors.Wrapf(err, "failed to delete '%s'", key)
}

// Discover returns all endpoints currently registered for service.
func (r *EtcdRegistry) Discover(ctx context.Context, service string) ([]Endpoint, error) {
	prefix := servicePrefix(service)

	resp, err := r.client.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list '%s'", prefix)
	}

	values := make(map[string][]byte, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		values[string(kv.Key)] = kv.Value
	}
	return decodeEndpoints(values), nil
}

// decodeEndpoints skips malformed entries. A value without a host falls back
// to the address in its key.
func decodeEndpoints(values map[string][]byte) []Endpoint {
	endpoints := make([]Endpoint, 0, len(values))
	for key, value := range values {
		var endpoint Endpoint
		if err := json.Unmarshal(value, &endpoint); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("skip malformed endpoint")
			continue
		}
		if endpoint.Host == "" {
			endpoint.Host = hostFromKey(key)
		}
		if endpoint.Host == "" {
			continue
		}
		endpoints = append(endpoints, endpoint)
	}
	sortEndpoints(endpoints)
	return endpoints
}

func hostFromKey(key string) string {
	addr := key[strings.LastIndex(key, "/")+1:]
	if i := strings.LastIndex(addr, ":"); i > 0 {
		return strings.Trim(addr[:i], "[]")
	}
	return ""
}
