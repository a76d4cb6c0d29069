package loadbalance

import (
	"fmt"
	"math/rand"

	"mini-jsonrpc/registry"
)

type WeightedRandomBalancer struct{}

func (b *WeightedRandomBalancer) Pick(endpoints []registry.Endpoint) (*registry.Endpoint, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints available")
	}

	// total weight, non-positive weights are skipped
	totalWeight := 0
	for _, v := range endpoints {
		if v.Weight > 0 {
			totalWeight += v.Weight
		}
	}

	// nobody advertised a weight, fall back to uniform
	if totalWeight == 0 {
		return &endpoints[rand.Intn(len(endpoints))], nil
	}

	// random point in [0, total)
	r := rand.Intn(totalWeight)
	for i := range endpoints {
		if endpoints[i].Weight <= 0 {
			continue
		}
		r -= endpoints[i].Weight
		if r < 0 {
			return &endpoints[i], nil
		}
	}

	return nil, fmt.Errorf("unexpected error in weighted random selection")
}

func (b *WeightedRandomBalancer) Name() string {
	return "WeightedRandom"
}
