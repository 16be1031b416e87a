// Package directorytest provides an in-memory Directory for tests.
package directorytest

import (
	"context"
	"fmt"
	"path"
	"strings"

	"infra-check/decision/directory"
)

// Fake serves canned listings. Errs, keyed by method name, makes that
// method fail. Calls records every method invoked, in order.
type Fake struct {
	DBClusters         []directory.DBCluster
	Instances          []directory.Instance
	Health             map[string]*directory.InstanceHealth
	LightsailInstances []directory.LightsailInstance
	Functions          []directory.Function
	ECSClusters        []directory.ECSCluster
	EKSClusters        []directory.EKSCluster
	LoadBalancers      []directory.LoadBalancer
	Roles              []directory.Role
	Keys               map[string]directory.Key // alias without prefix -> key
	Identity           *directory.Identity
	Queues             []directory.Queue
	Indexes            []directory.Index
	Resources          []directory.Resource

	Errs  map[string]error
	Calls []string
}

var _ directory.Directory = (*Fake)(nil)

// NotFoundError builds the error a real directory returns for a confirmed absence.
func NotFoundError(kind directory.Kind, op string) error {
	return &directory.Error{Kind: kind, Op: op, Class: directory.ClassNotFound, Message: "not found"}
}

// APIError builds a classified provider failure.
func APIError(kind directory.Kind, op string, class directory.ErrorClass, code string) error {
	return &directory.Error{Kind: kind, Op: op, Class: class, Code: code, Message: fmt.Sprintf("%s failed", op)}
}

func (f *Fake) record(method string) error {
	f.Calls = append(f.Calls, method)
	if f.Errs != nil {
		return f.Errs[method]
	}
	return nil
}

func (f *Fake) DescribeDBCluster(_ context.Context, identifier string) (*directory.DBCluster, error) {
	if err := f.record("DescribeDBCluster"); err != nil {
		return nil, err
	}
	for _, c := range f.DBClusters {
		if c.Identifier == identifier {
			c := c
			return &c, nil
		}
	}
	return nil, NotFoundError(directory.KindRDS, "DescribeDBClusters")
}

func (f *Fake) ListDBClusters(context.Context) ([]directory.DBCluster, error) {
	if err := f.record("ListDBClusters"); err != nil {
		return nil, err
	}
	return f.DBClusters, nil
}

// InstancesByNameTag honours EC2 style "*" wildcards in pattern.
func (f *Fake) InstancesByNameTag(_ context.Context, pattern string) ([]directory.Instance, error) {
	if err := f.record("InstancesByNameTag"); err != nil {
		return nil, err
	}
	out := make([]directory.Instance, 0)
	for _, i := range f.Instances {
		if ok, _ := path.Match(pattern, i.Name); ok {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *Fake) InstanceHealth(_ context.Context, instanceID string) (*directory.InstanceHealth, error) {
	if err := f.record("InstanceHealth"); err != nil {
		return nil, err
	}
	return f.Health[instanceID], nil
}

func (f *Fake) ListLightsailInstances(context.Context) ([]directory.LightsailInstance, error) {
	if err := f.record("ListLightsailInstances"); err != nil {
		return nil, err
	}
	return f.LightsailInstances, nil
}

func (f *Fake) ListFunctions(context.Context) ([]directory.Function, error) {
	if err := f.record("ListFunctions"); err != nil {
		return nil, err
	}
	return f.Functions, nil
}

func (f *Fake) DescribeECSCluster(_ context.Context, name string) (*directory.ECSCluster, error) {
	if err := f.record("DescribeECSCluster"); err != nil {
		return nil, err
	}
	for _, c := range f.ECSClusters {
		if c.Name == name {
			c := c
			return &c, nil
		}
	}
	return nil, NotFoundError(directory.KindECS, "DescribeClusters")
}

func (f *Fake) DescribeEKSCluster(_ context.Context, name string) (*directory.EKSCluster, error) {
	if err := f.record("DescribeEKSCluster"); err != nil {
		return nil, err
	}
	for _, c := range f.EKSClusters {
		if c.Name == name {
			c := c
			return &c, nil
		}
	}
	return nil, NotFoundError(directory.KindEKS, "DescribeCluster")
}

func (f *Fake) ListLoadBalancers(context.Context) ([]directory.LoadBalancer, error) {
	if err := f.record("ListLoadBalancers"); err != nil {
		return nil, err
	}
	return f.LoadBalancers, nil
}

func (f *Fake) ListRoles(context.Context) ([]directory.Role, error) {
	if err := f.record("ListRoles"); err != nil {
		return nil, err
	}
	return f.Roles, nil
}

func (f *Fake) DescribeKeyByAlias(_ context.Context, alias string) (*directory.Key, error) {
	if err := f.record("DescribeKeyByAlias"); err != nil {
		return nil, err
	}
	k, ok := f.Keys[strings.TrimPrefix(alias, "alias/")]
	if !ok {
		return nil, NotFoundError(directory.KindKMS, "DescribeKey")
	}
	if k.Alias == "" {
		k.Alias = "alias/" + strings.TrimPrefix(alias, "alias/")
	}
	return &k, nil
}

func (f *Fake) CallerIdentity(context.Context) (*directory.Identity, error) {
	if err := f.record("CallerIdentity"); err != nil {
		return nil, err
	}
	if f.Identity == nil {
		return &directory.Identity{Account: "123456789012"}, nil
	}
	return f.Identity, nil
}

func (f *Fake) ListQueues(context.Context) ([]directory.Queue, error) {
	if err := f.record("ListQueues"); err != nil {
		return nil, err
	}
	return f.Queues, nil
}

func (f *Fake) ListIndexes(context.Context) ([]directory.Index, error) {
	if err := f.record("ListIndexes"); err != nil {
		return nil, err
	}
	return f.Indexes, nil
}

func (f *Fake) SearchResources(context.Context, string) ([]directory.Resource, error) {
	if err := f.record("SearchResources"); err != nil {
		return nil, err
	}
	return f.Resources, nil
}
