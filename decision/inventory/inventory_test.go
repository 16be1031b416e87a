package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infra-check/decision/descriptor"
	"infra-check/decision/directory"
	"infra-check/decision/directory/directorytest"
)

func sampleResources() []directory.Resource {
	return []directory.Resource{
		{ARN: "arn:aws:sqs:us-east-1:123456789012:orders-events", ResourceType: "sqs:queue", Service: "sqs", Region: "us-east-1", Name: "orders-events"},
		{ARN: "arn:aws:lambda:us-east-1:123456789012:function:orders-handler", ResourceType: "lambda:function", Service: "lambda"},
		{ARN: "arn:aws:ec2:eu-west-1:123456789012:instance/i-1", ResourceType: "ec2:instance", Service: "ec2", Region: "eu-west-1"},
		{ARN: "arn:aws:iam::123456789012:role/app", ResourceType: "iam:role", Service: "iam", Region: "us-east-1"},
	}
}

func TestCollectFiltersRegionAndCountsServices(t *testing.T) {
	fake := &directorytest.Fake{Resources: sampleResources()}

	inv, err := Collect(context.Background(), fake, "us-east-1", "")
	require.NoError(t, err)

	assert.Equal(t, "*", inv.Query)
	require.Len(t, inv.Resources, 3)
	assert.Equal(t, "us-east-1", inv.Resources[1].Region)
	assert.Equal(t, "orders-handler", inv.Resources[1].Name)
	assert.Equal(t, map[string]int{"sqs": 1, "lambda": 1, "iam": 1}, inv.Services)
	assert.Equal(t, []string{"iam", "lambda", "sqs"}, inv.ServiceNames())
}

func TestCollectPropagatesSearchFailure(t *testing.T) {
	denied := directorytest.APIError(directory.KindResourceExplorer, "Search", directory.ClassAccessDenied, "AccessDeniedException")
	fake := &directorytest.Fake{Errs: map[string]error{"SearchResources": denied}}

	_, err := Collect(context.Background(), fake, "us-east-1", "service:sqs")

	require.Error(t, err)
	assert.Equal(t, directory.ClassAccessDenied, directory.ClassOf(err))
}

func TestPreflight(t *testing.T) {
	fake := &directorytest.Fake{Indexes: []directory.Index{
		{Region: "eu-west-1", Type: "LOCAL"},
		{Region: "us-east-1", Type: "AGGREGATOR"},
	}}

	indexes, err := Preflight(context.Background(), fake, "us-east-1")
	require.NoError(t, err)
	require.Len(t, indexes, 1)
	assert.Equal(t, "AGGREGATOR", indexes[0].Type)

	_, err = Preflight(context.Background(), fake, "ap-south-1")
	assert.True(t, errors.Is(err, ErrNoIndex))
	assert.Contains(t, err.Error(), "ap-south-1")
}

func TestCompareComponents(t *testing.T) {
	inv := &Inventory{Region: "us-east-1", Resources: sampleResources()[:2]}
	components := []descriptor.Component{
		{Type: "SQS", Name: "Orders-Events"},
		{Type: "Lambda", Name: "billing"},
		{Type: "KMS", Name: "app-key"},
		{Type: "Queue", Name: "handler"},
	}

	got := CompareComponents(components, inv)

	require.Len(t, got, 4)
	assert.True(t, got[0].Exists, "exact name, case-insensitive")
	assert.Len(t, got[0].Matches, 1)
	assert.True(t, got[1].Exists, "type substring")
	assert.Equal(t, "lambda:function", got[1].Matches[0].ResourceType)
	assert.False(t, got[2].Exists)
	assert.Empty(t, got[2].Matches)
	assert.True(t, got[3].Exists, "name inside ARN")
}

func TestCompareARNs(t *testing.T) {
	inv := &Inventory{Resources: []directory.Resource{
		{ARN: "arn:aws:sqs:us-east-1:123456789012:orders-events"},
		{ARN: "role/app"},
		{ARN: "arn:aws:kms:us-east-1:123456789012:key/abcd-1234-long"},
	}}

	got := CompareARNs([]string{
		"arn:aws:sqs:us-east-1:123456789012:orders-events",
		"arn:aws:iam::123456789012:role/app",
		"key/abcd-1234-long",
		"arn:aws:s3:::missing",
	}, inv)

	require.Len(t, got, 4)
	assert.True(t, got[0].Exists)
	assert.Equal(t, "role/app", got[1].Matched.ARN)
	assert.Equal(t, "arn:aws:kms:us-east-1:123456789012:key/abcd-1234-long", got[2].Matched.ARN)
	assert.False(t, got[3].Exists)
	assert.Nil(t, got[3].Matched)
}

func TestCompare(t *testing.T) {
	doc := &descriptor.Document{
		Region:     "us-east-2",
		Components: []descriptor.Component{{Type: "SQS", Name: "orders-events"}},
		ARNs:       []string{"arn:aws:sqs:us-east-1:123456789012:orders-events"},
	}
	inv := &Inventory{Region: "us-east-1", Resources: sampleResources()[:1]}

	c := Compare(doc, inv)

	assert.Equal(t, "us-east-2", c.DescriptorRegion)
	assert.Equal(t, "us-east-1", c.Region)
	assert.True(t, c.ARNs[0].Exists)
	assert.True(t, c.Components[0].Exists)
}

func TestServiceOf(t *testing.T) {
	assert.Equal(t, "ec2", ServiceOf("ec2:instance"))
	assert.Equal(t, "Unknown", ServiceOf("Unknown"))
}
