// Package directory provides read-only access to the cloud provider's
// describe/list/search operations, one method per resource kind.
package directory

import "context"

// Kind identifies a provider service; one client exists per kind.
type Kind string

const (
	KindRDS              Kind = "rds"
	KindEC2              Kind = "ec2"
	KindELBv2            Kind = "elbv2"
	KindIAM              Kind = "iam"
	KindECS              Kind = "ecs"
	KindKMS              Kind = "kms"
	KindSQS              Kind = "sqs"
	KindLambda           Kind = "lambda"
	KindLightsail        Kind = "lightsail"
	KindEKS              Kind = "eks"
	KindSTS              Kind = "sts"
	KindResourceExplorer Kind = "resource-explorer-2"
)

// Directory is the capability boundary strategies query live infrastructure through.
// Implementations never create, modify or delete provider resources.
type Directory interface {
	// Database
	DescribeDBCluster(ctx context.Context, identifier string) (*DBCluster, error)
	ListDBClusters(ctx context.Context) ([]DBCluster, error)

	// Compute
	InstancesByNameTag(ctx context.Context, pattern string) ([]Instance, error)
	InstanceHealth(ctx context.Context, instanceID string) (*InstanceHealth, error)
	ListLightsailInstances(ctx context.Context) ([]LightsailInstance, error)
	ListFunctions(ctx context.Context) ([]Function, error)

	// Containers
	DescribeECSCluster(ctx context.Context, name string) (*ECSCluster, error)
	DescribeEKSCluster(ctx context.Context, name string) (*EKSCluster, error)

	// Networking
	ListLoadBalancers(ctx context.Context) ([]LoadBalancer, error)

	// Security
	ListRoles(ctx context.Context) ([]Role, error)
	DescribeKeyByAlias(ctx context.Context, alias string) (*Key, error)
	CallerIdentity(ctx context.Context) (*Identity, error)

	// Messaging
	ListQueues(ctx context.Context) ([]Queue, error)

	// Inventory
	ListIndexes(ctx context.Context) ([]Index, error)
	SearchResources(ctx context.Context, query string) ([]Resource, error)
}

// =============================================================================
// RESOURCE SHAPES
// =============================================================================

type DBCluster struct {
	Identifier string
	ARN        string
	Status     string
	Engine     string
}

type Instance struct {
	ID    string
	Name  string
	State string
	Type  string
}

// InstanceHealth holds EC2 status check results.
type InstanceHealth struct {
	InstanceStatus string
	SystemStatus   string
}

type LightsailInstance struct {
	Name      string
	ARN       string
	State     string
	Blueprint string
}

type Function struct {
	Name         string
	ARN          string
	Runtime      string
	State        string
	LastModified string
}

type ECSCluster struct {
	Name           string
	ARN            string
	Status         string
	ActiveServices int
	RunningTasks   int
}

type EKSCluster struct {
	Name    string
	ARN     string
	Status  string
	Version string
}

type LoadBalancer struct {
	Name    string
	ARN     string
	Type    string
	State   string
	DNSName string
}

type Role struct {
	Name string
	ARN  string
	Path string
}

type Key struct {
	ID    string
	ARN   string
	State string
	Alias string
}

type Identity struct {
	Account string
	ARN     string
	UserID  string
}

type Queue struct {
	Name string
	URL  string
}

// Index is a Resource Explorer index.
type Index struct {
	Region string
	Type   string
	ARN    string
}

// Resource is one Resource Explorer search hit.
type Resource struct {
	ARN          string `json:"arn"`
	ResourceType string `json:"resource_type"`
	Service      string `json:"service"`
	Region       string `json:"region"`
	Name         string `json:"name"`
}
