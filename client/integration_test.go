package client

import (
	"context"
	"testing"
	"time"

	"mini-jsonrpc/loadbalance"
	"mini-jsonrpc/registry"
	"mini-jsonrpc/rpctest"

	"github.com/stretchr/testify/require"
)

// TestIntegrationWithEtcd runs end to end against a local etcd.
// etcd Register → NewFromRegistry (Discover, Pick) → Call → peer
func TestIntegrationWithEtcd(t *testing.T) {
	reg, err := registry.NewEtcdRegistry([]string{"127.0.0.1:2379"}, time.Second)
	if err != nil {
		t.Skipf("etcd not available: %v", err)
	}
	defer reg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	peer := rpctest.NewPeer(t)
	peer.Reply("getBalance", `{"jsonrpc":"2.0","id":"1","result":42}`)

	endpoint := registry.Endpoint{Host: peer.Host(), Port: peer.Port(), Weight: 10}
	if err := reg.Register(ctx, "integration-wallet", endpoint, 10); err != nil {
		t.Skipf("etcd not available: %v", err)
	}
	defer reg.Deregister(context.Background(), "integration-wallet", endpoint.Addr())

	c, err := NewFromRegistry(ctx, reg, &loadbalance.WeightedRandomBalancer{}, "integration-wallet", Config{
		User:      "alice",
		Password:  "secret",
		RequestID: "1",
	})
	require.NoError(t, err)

	balance, err := Call[int](ctx, c, "getBalance")
	require.NoError(t, err)
	require.Equal(t, 42, *balance)
}
