package registry

import "sort"

// sortEndpoints orders endpoints by address so balancers see a stable list.
func sortEndpoints(endpoints []Endpoint) {
	sort.Slice(endpoints, func(i, j int) bool {
		return endpoints[i].Addr() < endpoints[j].Addr()
	})
}
