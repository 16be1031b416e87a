package aws

import (
	"context"

	"infra-check/decision/directory"
	"infra-check/decision/resolver"
)

// LoadBalancerStrategy resolves ApplicationLoadBalancer and NetworkLoadBalancer
// components. Both share one listing, so the load balancer type is reported
// rather than enforced.
type LoadBalancerStrategy struct{}

// NewLoadBalancerStrategy creates a new load balancer strategy
func NewLoadBalancerStrategy() *LoadBalancerStrategy {
	return &LoadBalancerStrategy{}
}

// ComponentType returns the descriptor type tag
func (s *LoadBalancerStrategy) ComponentType() string {
	return TypeApplicationLoadBalancer
}

// Resolve matches the declared name against the load balancer listing
func (s *LoadBalancerStrategy) Resolve(ctx context.Context, name string, _ map[string]any, dir directory.Directory) resolver.Verdict {
	lbs, err := dir.ListLoadBalancers(ctx)
	if err != nil {
		return resolver.Failed(err)
	}
	names := make([]string, len(lbs))
	for i, lb := range lbs {
		names[i] = lb.Name
	}
	return containment("load balancer", name, names, func(i int) resolver.Verdict {
		lb := lbs[i]
		return resolver.Found(lb.ARN, lb.State, fields(
			"name", lb.Name,
			"type", lb.Type,
			"state", lb.State,
			"dns_name", lb.DNSName,
		))
	})
}
