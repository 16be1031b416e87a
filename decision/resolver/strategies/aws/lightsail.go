package aws

import (
	"context"

	"infra-check/decision/directory"
	"infra-check/decision/resolver"
)

// LightsailStrategy resolves Lightsail components by instance name
type LightsailStrategy struct{}

// NewLightsailStrategy creates a new Lightsail strategy
func NewLightsailStrategy() *LightsailStrategy {
	return &LightsailStrategy{}
}

// ComponentType returns the descriptor type tag
func (s *LightsailStrategy) ComponentType() string {
	return TypeLightsail
}

// Resolve matches the declared name against the instance listing
func (s *LightsailStrategy) Resolve(ctx context.Context, name string, _ map[string]any, dir directory.Directory) resolver.Verdict {
	instances, err := dir.ListLightsailInstances(ctx)
	if err != nil {
		return resolver.Failed(err)
	}
	names := make([]string, len(instances))
	for i, inst := range instances {
		names[i] = inst.Name
	}
	return containment("Lightsail instance", name, names, func(i int) resolver.Verdict {
		inst := instances[i]
		return resolver.Found(inst.ARN, inst.State, fields(
			"name", inst.Name,
			"state", inst.State,
			"blueprint", inst.Blueprint,
		))
	})
}
