package aws

import (
	"context"
	"fmt"
	"strconv"

	"infra-check/decision/directory"
	"infra-check/decision/resolver"
)

// ECSClusterStrategy resolves ECSCluster components
type ECSClusterStrategy struct{}

// NewECSClusterStrategy creates a new ECS cluster strategy
func NewECSClusterStrategy() *ECSClusterStrategy {
	return &ECSClusterStrategy{}
}

// ComponentType returns the descriptor type tag
func (s *ECSClusterStrategy) ComponentType() string {
	return TypeECSCluster
}

// SupportedProperties returns the properties this strategy reads
func (s *ECSClusterStrategy) SupportedProperties() []string {
	return []string{"cluster_name"}
}

// Resolve describes the cluster by name. An INACTIVE cluster still exists
// and is reported as found with its status.
func (s *ECSClusterStrategy) Resolve(ctx context.Context, name string, props map[string]any, dir directory.Directory) resolver.Verdict {
	clusterName := resolver.Identifier(props, name, s.SupportedProperties()...)

	cluster, err := dir.DescribeECSCluster(ctx, clusterName)
	if err != nil {
		if directory.IsNotFound(err) {
			return resolver.NotFound(fmt.Sprintf("no ECS cluster named %q", clusterName))
		}
		return resolver.Failed(err)
	}
	return resolver.Found(cluster.ARN, cluster.Status, fields(
		"name", cluster.Name,
		"status", cluster.Status,
		"active_services", strconv.Itoa(cluster.ActiveServices),
		"running_tasks", strconv.Itoa(cluster.RunningTasks),
	))
}
