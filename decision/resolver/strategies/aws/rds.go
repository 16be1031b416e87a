package aws

import (
	"context"

	"infra-check/decision/directory"
	"infra-check/decision/resolver"
)

// AuroraPostgresStrategy resolves RDSAuroraPostgres components to DB clusters
type AuroraPostgresStrategy struct{}

// NewAuroraPostgresStrategy creates a new Aurora PostgreSQL strategy
func NewAuroraPostgresStrategy() *AuroraPostgresStrategy {
	return &AuroraPostgresStrategy{}
}

// ComponentType returns the descriptor type tag
func (s *AuroraPostgresStrategy) ComponentType() string {
	return TypeAuroraPostgres
}

// SupportedProperties returns the properties this strategy reads
func (s *AuroraPostgresStrategy) SupportedProperties() []string {
	return []string{"cluster_identifier", "custom_cluster_name"}
}

// Resolve describes the cluster by its exact identifier. When no such cluster
// exists the declared name is matched against the cluster listing instead,
// since generated identifiers usually embed it.
func (s *AuroraPostgresStrategy) Resolve(ctx context.Context, name string, props map[string]any, dir directory.Directory) resolver.Verdict {
	id := resolver.Identifier(props, name, s.SupportedProperties()...)

	cluster, err := dir.DescribeDBCluster(ctx, id)
	if err == nil {
		return clusterVerdict(*cluster)
	}
	if !directory.IsNotFound(err) {
		return resolver.Failed(err)
	}

	clusters, err := dir.ListDBClusters(ctx)
	if err != nil {
		return resolver.Failed(err)
	}
	names := make([]string, len(clusters))
	for i, c := range clusters {
		names[i] = c.Identifier
	}
	return containment("DB cluster", name, names, func(i int) resolver.Verdict {
		return clusterVerdict(clusters[i])
	})
}

func clusterVerdict(c directory.DBCluster) resolver.Verdict {
	return resolver.Found(c.Identifier, c.Status, fields(
		"status", c.Status,
		"engine", c.Engine,
		"arn", c.ARN,
	))
}
