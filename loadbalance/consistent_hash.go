package loadbalance

import (
	"fmt"
	"hash/crc32"
	"sort"

	"mini-jsonrpc/registry"
)

const defaultReplicas = 100

// ConsistentHashBalancer maps a fixed key to an endpoint using a hash ring.
// The same key always maps to the same endpoint until the ring changes, so a
// given RPC user keeps talking to the same peer.
//
// Each endpoint is placed on the ring as 100 virtual nodes to keep the
// distribution even with few endpoints.
//
//	Hash Ring:
//	                  0
//	                ╱   ╲
//	         B ●               ● A
//	           │    key ◆──►   │   (clockwise to nearest node → A)
//	         C ●               ● A' (virtual node of A)
//	                ╲   ╱
type ConsistentHashBalancer struct {
	key      string
	replicas int
}

func NewConsistentHashBalancer(key string) *ConsistentHashBalancer {
	return &ConsistentHashBalancer{
		key:      key,
		replicas: defaultReplicas,
	}
}

// Pick builds the ring for endpoints and returns the owner of the balancer's key.
func (b *ConsistentHashBalancer) Pick(endpoints []registry.Endpoint) (*registry.Endpoint, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints available")
	}
	r := newRing(b.replicas)
	for i := range endpoints {
		r.add(&endpoints[i])
	}
	return r.lookup(b.key), nil
}

func (b *ConsistentHashBalancer) Name() string {
	return "ConsistentHash"
}

type ring struct {
	replicas int
	hashes   []uint32                      // sorted
	nodes    map[uint32]*registry.Endpoint // hash → endpoint
}

func newRing(replicas int) *ring {
	return &ring{
		replicas: replicas,
		nodes:    make(map[uint32]*registry.Endpoint),
	}
}

// add places an endpoint onto the ring, hashing "{addr}#{i}" per virtual node.
func (r *ring) add(endpoint *registry.Endpoint) {
	for i := 0; i < r.replicas; i++ {
		hash := crc32.ChecksumIEEE([]byte(fmt.Sprintf("%s#%d", endpoint.Addr(), i)))
		if _, ok := r.nodes[hash]; ok {
			continue
		}
		r.hashes = append(r.hashes, hash)
		r.nodes[hash] = endpoint
	}
	sort.Slice(r.hashes, func(i, j int) bool {
		return r.hashes[i] < r.hashes[j]
	})
}

// lookup finds the first node clockwise from the key's hash, wrapping to the start.
func (r *ring) lookup(key string) *registry.Endpoint {
	hash := crc32.ChecksumIEEE([]byte(key))
	idx := sort.Search(len(r.hashes), func(i int) bool {
		return r.hashes[i] >= hash
	})
	if idx == len(r.hashes) {
		idx = 0
	}
	return r.nodes[r.hashes[idx]]
}
