package aws

import (
	"context"
	"fmt"

	"infra-check/decision/directory"
	"infra-check/decision/resolver"
)

// EKSClusterStrategy resolves EKSCluster components
type EKSClusterStrategy struct{}

// NewEKSClusterStrategy creates a new EKS cluster strategy
func NewEKSClusterStrategy() *EKSClusterStrategy {
	return &EKSClusterStrategy{}
}

// ComponentType returns the descriptor type tag
func (s *EKSClusterStrategy) ComponentType() string {
	return TypeEKSCluster
}

// SupportedProperties returns the properties this strategy reads
func (s *EKSClusterStrategy) SupportedProperties() []string {
	return []string{"cluster_name"}
}

// Resolve describes the cluster by name
func (s *EKSClusterStrategy) Resolve(ctx context.Context, name string, props map[string]any, dir directory.Directory) resolver.Verdict {
	clusterName := resolver.Identifier(props, name, s.SupportedProperties()...)

	cluster, err := dir.DescribeEKSCluster(ctx, clusterName)
	if err != nil {
		if directory.IsNotFound(err) {
			return resolver.NotFound(fmt.Sprintf("no EKS cluster named %q", clusterName))
		}
		return resolver.Failed(err)
	}
	return resolver.Found(cluster.ARN, cluster.Status, fields(
		"name", cluster.Name,
		"status", cluster.Status,
		"version", cluster.Version,
	))
}
