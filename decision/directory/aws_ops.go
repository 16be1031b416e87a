package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lightsail"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/resourceexplorer2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

var _ Directory = (*AWS)(nil)

// =============================================================================
// DATABASE
// =============================================================================

func (a *AWS) DescribeDBCluster(ctx context.Context, identifier string) (*DBCluster, error) {
	ctx, cancel := a.call(ctx)
	defer cancel()

	out, err := a.rds().DescribeDBClusters(ctx, &rds.DescribeDBClustersInput{
		DBClusterIdentifier: aws.String(identifier),
	})
	if err != nil {
		return nil, wrapError(KindRDS, "DescribeDBClusters", err)
	}
	if len(out.DBClusters) == 0 {
		return nil, notFound(KindRDS, "DescribeDBClusters", identifier)
	}
	c := out.DBClusters[0]
	return &DBCluster{
		Identifier: aws.ToString(c.DBClusterIdentifier),
		ARN:        aws.ToString(c.DBClusterArn),
		Status:     aws.ToString(c.Status),
		Engine:     aws.ToString(c.Engine),
	}, nil
}

func (a *AWS) ListDBClusters(ctx context.Context) ([]DBCluster, error) {
	clusters := make([]DBCluster, 0)
	p := rds.NewDescribeDBClustersPaginator(a.rds(), &rds.DescribeDBClustersInput{})
	for p.HasMorePages() {
		page, err := a.rdsPage(ctx, p)
		if err != nil {
			return nil, wrapError(KindRDS, "DescribeDBClusters", err)
		}
		for _, c := range page.DBClusters {
			clusters = append(clusters, DBCluster{
				Identifier: aws.ToString(c.DBClusterIdentifier),
				ARN:        aws.ToString(c.DBClusterArn),
				Status:     aws.ToString(c.Status),
				Engine:     aws.ToString(c.Engine),
			})
		}
	}
	return clusters, nil
}

func (a *AWS) rdsPage(ctx context.Context, p *rds.DescribeDBClustersPaginator) (*rds.DescribeDBClustersOutput, error) {
	ctx, cancel := a.call(ctx)
	defer cancel()
	return p.NextPage(ctx)
}

// =============================================================================
// COMPUTE
// =============================================================================

// InstancesByNameTag returns instances whose Name tag matches pattern, which
// may carry EC2 filter wildcards ("*orders*").
func (a *AWS) InstancesByNameTag(ctx context.Context, pattern string) ([]Instance, error) {
	instances := make([]Instance, 0)
	p := ec2.NewDescribeInstancesPaginator(a.ec2(), &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{{
			Name:   aws.String("tag:Name"),
			Values: []string{pattern},
		}},
	})
	for p.HasMorePages() {
		page, err := a.ec2Page(ctx, p)
		if err != nil {
			return nil, wrapError(KindEC2, "DescribeInstances", err)
		}
		for _, r := range page.Reservations {
			for _, inst := range r.Instances {
				i := Instance{
					ID:   aws.ToString(inst.InstanceId),
					Type: string(inst.InstanceType),
				}
				if inst.State != nil {
					i.State = string(inst.State.Name)
				}
				for _, tag := range inst.Tags {
					if aws.ToString(tag.Key) == "Name" {
						i.Name = aws.ToString(tag.Value)
					}
				}
				instances = append(instances, i)
			}
		}
	}
	return instances, nil
}

func (a *AWS) ec2Page(ctx context.Context, p *ec2.DescribeInstancesPaginator) (*ec2.DescribeInstancesOutput, error) {
	ctx, cancel := a.call(ctx)
	defer cancel()
	return p.NextPage(ctx)
}

// InstanceHealth returns nil without error when the instance reports no
// status checks. Stopped instances are included and report "not-applicable".
func (a *AWS) InstanceHealth(ctx context.Context, instanceID string) (*InstanceHealth, error) {
	ctx, cancel := a.call(ctx)
	defer cancel()

	out, err := a.ec2().DescribeInstanceStatus(ctx, &ec2.DescribeInstanceStatusInput{
		InstanceIds:         []string{instanceID},
		IncludeAllInstances: aws.Bool(true),
	})
	if err != nil {
		return nil, wrapError(KindEC2, "DescribeInstanceStatus", err)
	}
	if len(out.InstanceStatuses) == 0 {
		return nil, nil
	}
	s := out.InstanceStatuses[0]
	h := &InstanceHealth{}
	if s.InstanceStatus != nil {
		h.InstanceStatus = string(s.InstanceStatus.Status)
	}
	if s.SystemStatus != nil {
		h.SystemStatus = string(s.SystemStatus.Status)
	}
	return h, nil
}

func (a *AWS) ListLightsailInstances(ctx context.Context) ([]LightsailInstance, error) {
	instances := make([]LightsailInstance, 0)
	var token *string
	for {
		out, err := a.lightsailPage(ctx, token)
		if err != nil {
			return nil, wrapError(KindLightsail, "GetInstances", err)
		}
		for _, inst := range out.Instances {
			li := LightsailInstance{
				Name:      aws.ToString(inst.Name),
				ARN:       aws.ToString(inst.Arn),
				Blueprint: aws.ToString(inst.BlueprintId),
			}
			if inst.State != nil {
				li.State = aws.ToString(inst.State.Name)
			}
			instances = append(instances, li)
		}
		if aws.ToString(out.NextPageToken) == "" {
			return instances, nil
		}
		token = out.NextPageToken
	}
}

func (a *AWS) lightsailPage(ctx context.Context, token *string) (*lightsail.GetInstancesOutput, error) {
	ctx, cancel := a.call(ctx)
	defer cancel()
	return a.lightsail().GetInstances(ctx, &lightsail.GetInstancesInput{PageToken: token})
}

func (a *AWS) ListFunctions(ctx context.Context) ([]Function, error) {
	functions := make([]Function, 0)
	p := lambda.NewListFunctionsPaginator(a.lambda(), &lambda.ListFunctionsInput{})
	for p.HasMorePages() {
		page, err := a.lambdaPage(ctx, p)
		if err != nil {
			return nil, wrapError(KindLambda, "ListFunctions", err)
		}
		for _, f := range page.Functions {
			functions = append(functions, Function{
				Name:         aws.ToString(f.FunctionName),
				ARN:          aws.ToString(f.FunctionArn),
				Runtime:      string(f.Runtime),
				State:        string(f.State),
				LastModified: aws.ToString(f.LastModified),
			})
		}
	}
	return functions, nil
}

func (a *AWS) lambdaPage(ctx context.Context, p *lambda.ListFunctionsPaginator) (*lambda.ListFunctionsOutput, error) {
	ctx, cancel := a.call(ctx)
	defer cancel()
	return p.NextPage(ctx)
}

// =============================================================================
// CONTAINERS
// =============================================================================

func (a *AWS) DescribeECSCluster(ctx context.Context, name string) (*ECSCluster, error) {
	ctx, cancel := a.call(ctx)
	defer cancel()

	out, err := a.ecs().DescribeClusters(ctx, &ecs.DescribeClustersInput{
		Clusters: []string{name},
	})
	if err != nil {
		return nil, wrapError(KindECS, "DescribeClusters", err)
	}
	if len(out.Failures) > 0 {
		reason := aws.ToString(out.Failures[0].Reason)
		if reason == "MISSING" {
			return nil, notFound(KindECS, "DescribeClusters", name)
		}
		return nil, &Error{Kind: KindECS, Op: "DescribeClusters", Class: ClassProvider, Code: reason,
			Message: fmt.Sprintf("cluster %q: %s", name, reason)}
	}
	if len(out.Clusters) == 0 {
		return nil, notFound(KindECS, "DescribeClusters", name)
	}
	c := out.Clusters[0]
	return &ECSCluster{
		Name:           aws.ToString(c.ClusterName),
		ARN:            aws.ToString(c.ClusterArn),
		Status:         aws.ToString(c.Status),
		ActiveServices: toInt(c.ActiveServicesCount),
		RunningTasks:   toInt(c.RunningTasksCount),
	}, nil
}

func (a *AWS) DescribeEKSCluster(ctx context.Context, name string) (*EKSCluster, error) {
	ctx, cancel := a.call(ctx)
	defer cancel()

	out, err := a.eks().DescribeCluster(ctx, &eks.DescribeClusterInput{Name: aws.String(name)})
	if err != nil {
		return nil, wrapError(KindEKS, "DescribeCluster", err)
	}
	if out.Cluster == nil {
		return nil, notFound(KindEKS, "DescribeCluster", name)
	}
	return &EKSCluster{
		Name:    aws.ToString(out.Cluster.Name),
		ARN:     aws.ToString(out.Cluster.Arn),
		Status:  string(out.Cluster.Status),
		Version: aws.ToString(out.Cluster.Version),
	}, nil
}

// =============================================================================
// NETWORKING
// =============================================================================

func (a *AWS) ListLoadBalancers(ctx context.Context) ([]LoadBalancer, error) {
	lbs := make([]LoadBalancer, 0)
	p := elbv2.NewDescribeLoadBalancersPaginator(a.elbv2(), &elbv2.DescribeLoadBalancersInput{})
	for p.HasMorePages() {
		page, err := a.elbv2Page(ctx, p)
		if err != nil {
			return nil, wrapError(KindELBv2, "DescribeLoadBalancers", err)
		}
		for _, lb := range page.LoadBalancers {
			l := LoadBalancer{
				Name:    aws.ToString(lb.LoadBalancerName),
				ARN:     aws.ToString(lb.LoadBalancerArn),
				Type:    string(lb.Type),
				DNSName: aws.ToString(lb.DNSName),
			}
			if lb.State != nil {
				l.State = string(lb.State.Code)
			}
			lbs = append(lbs, l)
		}
	}
	return lbs, nil
}

func (a *AWS) elbv2Page(ctx context.Context, p *elbv2.DescribeLoadBalancersPaginator) (*elbv2.DescribeLoadBalancersOutput, error) {
	ctx, cancel := a.call(ctx)
	defer cancel()
	return p.NextPage(ctx)
}

// =============================================================================
// SECURITY
// =============================================================================

func (a *AWS) ListRoles(ctx context.Context) ([]Role, error) {
	roles := make([]Role, 0)
	p := iam.NewListRolesPaginator(a.iam(), &iam.ListRolesInput{})
	for p.HasMorePages() {
		page, err := a.iamPage(ctx, p)
		if err != nil {
			return nil, wrapError(KindIAM, "ListRoles", err)
		}
		for _, r := range page.Roles {
			roles = append(roles, Role{
				Name: aws.ToString(r.RoleName),
				ARN:  aws.ToString(r.Arn),
				Path: aws.ToString(r.Path),
			})
		}
	}
	return roles, nil
}

func (a *AWS) iamPage(ctx context.Context, p *iam.ListRolesPaginator) (*iam.ListRolesOutput, error) {
	ctx, cancel := a.call(ctx)
	defer cancel()
	return p.NextPage(ctx)
}

// DescribeKeyByAlias accepts the alias with or without its "alias/" prefix.
func (a *AWS) DescribeKeyByAlias(ctx context.Context, alias string) (*Key, error) {
	ctx, cancel := a.call(ctx)
	defer cancel()

	keyID := alias
	if !strings.HasPrefix(keyID, "alias/") {
		keyID = "alias/" + keyID
	}
	out, err := a.kms().DescribeKey(ctx, &kms.DescribeKeyInput{KeyId: aws.String(keyID)})
	if err != nil {
		return nil, wrapError(KindKMS, "DescribeKey", err)
	}
	if out.KeyMetadata == nil {
		return nil, notFound(KindKMS, "DescribeKey", keyID)
	}
	return &Key{
		ID:    aws.ToString(out.KeyMetadata.KeyId),
		ARN:   aws.ToString(out.KeyMetadata.Arn),
		State: string(out.KeyMetadata.KeyState),
		Alias: keyID,
	}, nil
}

func (a *AWS) CallerIdentity(ctx context.Context) (*Identity, error) {
	ctx, cancel := a.call(ctx)
	defer cancel()

	out, err := a.sts().GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, wrapError(KindSTS, "GetCallerIdentity", err)
	}
	return &Identity{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}

// =============================================================================
// MESSAGING
// =============================================================================

func (a *AWS) ListQueues(ctx context.Context) ([]Queue, error) {
	queues := make([]Queue, 0)
	p := sqs.NewListQueuesPaginator(a.sqs(), &sqs.ListQueuesInput{})
	for p.HasMorePages() {
		page, err := a.sqsPage(ctx, p)
		if err != nil {
			return nil, wrapError(KindSQS, "ListQueues", err)
		}
		for _, url := range page.QueueUrls {
			queues = append(queues, Queue{Name: QueueNameFromURL(url), URL: url})
		}
	}
	return queues, nil
}

func (a *AWS) sqsPage(ctx context.Context, p *sqs.ListQueuesPaginator) (*sqs.ListQueuesOutput, error) {
	ctx, cancel := a.call(ctx)
	defer cancel()
	return p.NextPage(ctx)
}

// =============================================================================
// INVENTORY
// =============================================================================

func (a *AWS) ListIndexes(ctx context.Context) ([]Index, error) {
	indexes := make([]Index, 0)
	p := resourceexplorer2.NewListIndexesPaginator(a.resourceExplorer(), &resourceexplorer2.ListIndexesInput{
		Regions: []string{a.cfg.Region},
	})
	for p.HasMorePages() {
		page, err := a.indexPage(ctx, p)
		if err != nil {
			return nil, wrapError(KindResourceExplorer, "ListIndexes", err)
		}
		for _, idx := range page.Indexes {
			indexes = append(indexes, Index{
				Region: aws.ToString(idx.Region),
				Type:   string(idx.Type),
				ARN:    aws.ToString(idx.Arn),
			})
		}
	}
	return indexes, nil
}

func (a *AWS) indexPage(ctx context.Context, p *resourceexplorer2.ListIndexesPaginator) (*resourceexplorer2.ListIndexesOutput, error) {
	ctx, cancel := a.call(ctx)
	defer cancel()
	return p.NextPage(ctx)
}

func (a *AWS) SearchResources(ctx context.Context, query string) ([]Resource, error) {
	if query == "" {
		query = "*"
	}
	resources := make([]Resource, 0)
	p := resourceexplorer2.NewSearchPaginator(a.resourceExplorer(), &resourceexplorer2.SearchInput{
		QueryString: aws.String(query),
	})
	for p.HasMorePages() {
		page, err := a.searchPage(ctx, p)
		if err != nil {
			return nil, wrapError(KindResourceExplorer, "Search", err)
		}
		for _, r := range page.Resources {
			arn := aws.ToString(r.Arn)
			region := aws.ToString(r.Region)
			if region == "" {
				region = RegionFromARN(arn)
			}
			resources = append(resources, Resource{
				ARN:          arn,
				ResourceType: aws.ToString(r.ResourceType),
				Service:      aws.ToString(r.Service),
				Region:       region,
				Name:         ResourceNameFromARN(arn),
			})
		}
	}
	return resources, nil
}

func (a *AWS) searchPage(ctx context.Context, p *resourceexplorer2.SearchPaginator) (*resourceexplorer2.SearchOutput, error) {
	ctx, cancel := a.call(ctx)
	defer cancel()
	return p.NextPage(ctx)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func notFound(kind Kind, op, identifier string) error {
	return &Error{Kind: kind, Op: op, Class: ClassNotFound, Message: fmt.Sprintf("%q not found", identifier)}
}

// toInt accepts both the value and pointer forms SDK counters come in.
func toInt(v any) int {
	switch n := v.(type) {
	case int32:
		return int(n)
	case *int32:
		if n != nil {
			return int(*n)
		}
	case int64:
		return int(n)
	case *int64:
		if n != nil {
			return int(*n)
		}
	}
	return 0
}
