package aws

import (
	"context"
	"fmt"
	"strconv"

	"infra-check/decision/directory"
	"infra-check/decision/resolver"
)

// ManagementHostStrategy resolves ManagementHost components to EC2 instances
// by Name tag.
type ManagementHostStrategy struct{}

// NewManagementHostStrategy creates a new management host strategy
func NewManagementHostStrategy() *ManagementHostStrategy {
	return &ManagementHostStrategy{}
}

// ComponentType returns the descriptor type tag
func (s *ManagementHostStrategy) ComponentType() string {
	return TypeManagementHost
}

// Resolve filters instances on tag:Name = *<name>*. The first instance
// returned wins; status checks are attached when the provider has them.
func (s *ManagementHostStrategy) Resolve(ctx context.Context, name string, _ map[string]any, dir directory.Directory) resolver.Verdict {
	pattern := fmt.Sprintf("*%s*", name)

	instances, err := dir.InstancesByNameTag(ctx, pattern)
	if err != nil {
		return resolver.Failed(err)
	}
	if len(instances) == 0 {
		return resolver.NotFound(fmt.Sprintf("no instance tagged Name=%s", pattern))
	}

	inst := instances[0]
	f := fields(
		"name", inst.Name,
		"state", inst.State,
		"instance_type", inst.Type,
	)
	if len(instances) > 1 {
		f["other_matches"] = strconv.Itoa(len(instances) - 1)
	}

	// Health is best effort; a failed status call does not hide the instance.
	health, err := dir.InstanceHealth(ctx, inst.ID)
	switch {
	case err != nil:
		f["health"] = "unavailable: " + string(directory.ClassOf(err))
	case health != nil:
		if health.InstanceStatus != "" {
			f["instance_status"] = health.InstanceStatus
		}
		if health.SystemStatus != "" {
			f["system_status"] = health.SystemStatus
		}
	}

	return resolver.Found(inst.ID, inst.State, f)
}
