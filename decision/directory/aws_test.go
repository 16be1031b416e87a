package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST SERVER
// =============================================================================

// apiRequest is a decoded call against the test endpoint
type apiRequest struct {
	Op   string
	Body []byte
	Form url.Values
	Path string
}

// jsonField returns a top-level string member of a JSON protocol body
func (r apiRequest) jsonField(name string) string {
	var m map[string]any
	if err := json.Unmarshal(r.Body, &m); err != nil {
		return ""
	}
	s, _ := m[name].(string)
	return s
}

// newTestDirectory points every client at an httptest server. JSON protocol
// calls are routed by X-Amz-Target, query protocol calls by Action.
func newTestDirectory(t *testing.T, handle func(w http.ResponseWriter, req apiRequest), opts ...Option) *AWS {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		req := apiRequest{Body: body, Path: r.URL.Path}
		if target := r.Header.Get("X-Amz-Target"); target != "" {
			req.Op = target[strings.LastIndex(target, ".")+1:]
		} else if form, err := url.ParseQuery(string(body)); err == nil {
			req.Form = form
			req.Op = form.Get("Action")
		}
		handle(w, req)
	}))
	t.Cleanup(srv.Close)

	cfg := aws.Config{
		Region:           "us-east-1",
		BaseEndpoint:     aws.String(srv.URL),
		RetryMaxAttempts: 1,
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: "AKIDTEST", SecretAccessKey: "secret", Source: "test"}, nil
		}),
	}
	return NewAWS(cfg, opts...)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/x-amz-json-1.1")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func writeXML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// =============================================================================
// KMS
// =============================================================================

func TestDescribeKeyByAliasAddsPrefix(t *testing.T) {
	var got []string
	dir := newTestDirectory(t, func(w http.ResponseWriter, req apiRequest) {
		assert.Equal(t, "DescribeKey", req.Op)
		got = append(got, req.jsonField("KeyId"))
		writeJSON(w, http.StatusOK, `{"KeyMetadata":{"KeyId":"abcd-1234","Arn":"arn:aws:kms:us-east-1:123456789012:key/abcd-1234","KeyState":"Enabled"}}`)
	})

	key, err := dir.DescribeKeyByAlias(context.Background(), "app-key")
	require.NoError(t, err)
	assert.Equal(t, "abcd-1234", key.ID)
	assert.Equal(t, "Enabled", key.State)
	assert.Equal(t, "alias/app-key", key.Alias)

	_, err = dir.DescribeKeyByAlias(context.Background(), "alias/app-key")
	require.NoError(t, err)

	assert.Equal(t, []string{"alias/app-key", "alias/app-key"}, got)
}

func TestDescribeKeyByAliasNotFound(t *testing.T) {
	dir := newTestDirectory(t, func(w http.ResponseWriter, req apiRequest) {
		writeJSON(w, http.StatusBadRequest, `{"__type":"NotFoundException","message":"Alias alias/missing is not found."}`)
	})

	_, err := dir.DescribeKeyByAlias(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "kms DescribeKey")
}

func TestDescribeKeyByAliasAccessDenied(t *testing.T) {
	dir := newTestDirectory(t, func(w http.ResponseWriter, req apiRequest) {
		writeJSON(w, http.StatusBadRequest, `{"__type":"AccessDeniedException","message":"not authorized"}`)
	})

	_, err := dir.DescribeKeyByAlias(context.Background(), "app-key")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Equal(t, ClassAccessDenied, ClassOf(err))
}

func TestCallTimeoutBoundsSlowProvider(t *testing.T) {
	dir := newTestDirectory(t, func(w http.ResponseWriter, req apiRequest) {
		time.Sleep(500 * time.Millisecond)
		writeJSON(w, http.StatusOK, `{}`)
	}, WithCallTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := dir.DescribeKeyByAlias(context.Background(), "app-key")
	require.Error(t, err)
	assert.Equal(t, ClassTimeout, ClassOf(err))
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}

// =============================================================================
// RDS
// =============================================================================

func TestDescribeDBCluster(t *testing.T) {
	dir := newTestDirectory(t, func(w http.ResponseWriter, req apiRequest) {
		assert.Equal(t, "DescribeDBClusters", req.Op)
		assert.Equal(t, "orders-aurora", req.Form.Get("DBClusterIdentifier"))
		writeXML(w, http.StatusOK, `<DescribeDBClustersResponse xmlns="http://rds.amazonaws.com/doc/2014-10-31/">
  <DescribeDBClustersResult>
    <DBClusters>
      <DBCluster>
        <DBClusterIdentifier>orders-aurora</DBClusterIdentifier>
        <DBClusterArn>arn:aws:rds:us-east-1:123456789012:cluster:orders-aurora</DBClusterArn>
        <Status>available</Status>
        <Engine>aurora-postgresql</Engine>
      </DBCluster>
    </DBClusters>
  </DescribeDBClustersResult>
  <ResponseMetadata><RequestId>req-1</RequestId></ResponseMetadata>
</DescribeDBClustersResponse>`)
	})

	c, err := dir.DescribeDBCluster(context.Background(), "orders-aurora")
	require.NoError(t, err)
	assert.Equal(t, DBCluster{
		Identifier: "orders-aurora",
		ARN:        "arn:aws:rds:us-east-1:123456789012:cluster:orders-aurora",
		Status:     "available",
		Engine:     "aurora-postgresql",
	}, *c)
}

func TestDescribeDBClusterNotFound(t *testing.T) {
	dir := newTestDirectory(t, func(w http.ResponseWriter, req apiRequest) {
		writeXML(w, http.StatusNotFound, `<ErrorResponse xmlns="http://rds.amazonaws.com/doc/2014-10-31/">
  <Error>
    <Type>Sender</Type>
    <Code>DBClusterNotFoundFault</Code>
    <Message>DBCluster orders-aurora not found.</Message>
  </Error>
  <RequestId>req-2</RequestId>
</ErrorResponse>`)
	})

	_, err := dir.DescribeDBCluster(context.Background(), "orders-aurora")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

// =============================================================================
// ECS / EKS
// =============================================================================

func TestDescribeECSClusterFailures(t *testing.T) {
	tests := []struct {
		name      string
		reason    string
		notFound  bool
		wantClass ErrorClass
	}{
		{"missing", "MISSING", true, ClassNotFound},
		{"other reason", "ACCESS_DENIED", false, ClassProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := newTestDirectory(t, func(w http.ResponseWriter, req apiRequest) {
				assert.Equal(t, "DescribeClusters", req.Op)
				writeJSON(w, http.StatusOK, fmt.Sprintf(
					`{"clusters":[],"failures":[{"arn":"arn:aws:ecs:us-east-1:123456789012:cluster/orders","reason":%q}]}`, tt.reason))
			})

			_, err := dir.DescribeECSCluster(context.Background(), "orders")
			require.Error(t, err)
			assert.Equal(t, tt.notFound, IsNotFound(err))
			assert.Equal(t, tt.wantClass, ClassOf(err))
			if !tt.notFound {
				assert.Contains(t, err.Error(), tt.reason)
			}
		})
	}
}

func TestDescribeECSCluster(t *testing.T) {
	dir := newTestDirectory(t, func(w http.ResponseWriter, req apiRequest) {
		assert.Contains(t, string(req.Body), `"orders"`)
		writeJSON(w, http.StatusOK, `{"clusters":[{"clusterName":"orders","clusterArn":"arn:aws:ecs:us-east-1:123456789012:cluster/orders","status":"ACTIVE","activeServicesCount":2,"runningTasksCount":5}],"failures":[]}`)
	})

	c, err := dir.DescribeECSCluster(context.Background(), "orders")
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", c.Status)
	assert.Equal(t, 2, c.ActiveServices)
	assert.Equal(t, 5, c.RunningTasks)
}

func TestDescribeEKSClusterNotFound(t *testing.T) {
	dir := newTestDirectory(t, func(w http.ResponseWriter, req apiRequest) {
		assert.Equal(t, "/clusters/platform", req.Path)
		w.Header().Set("X-Amzn-Errortype", "ResourceNotFoundException")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"No cluster found for name: platform."}`)
	})

	_, err := dir.DescribeEKSCluster(context.Background(), "platform")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

// =============================================================================
// EC2
// =============================================================================

func TestInstanceHealthIncludesStoppedInstances(t *testing.T) {
	dir := newTestDirectory(t, func(w http.ResponseWriter, req apiRequest) {
		assert.Equal(t, "DescribeInstanceStatus", req.Op)
		assert.Equal(t, "true", req.Form.Get("IncludeAllInstances"))
		assert.Equal(t, "i-0abc", req.Form.Get("InstanceId.1"))
		writeXML(w, http.StatusOK, `<DescribeInstanceStatusResponse xmlns="http://ec2.amazonaws.com/doc/2016-11-15/">
  <requestId>req-3</requestId>
  <instanceStatusSet>
    <item>
      <instanceId>i-0abc</instanceId>
      <instanceStatus><status>not-applicable</status></instanceStatus>
      <systemStatus><status>not-applicable</status></systemStatus>
    </item>
  </instanceStatusSet>
</DescribeInstanceStatusResponse>`)
	})

	h, err := dir.InstanceHealth(context.Background(), "i-0abc")
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, "not-applicable", h.InstanceStatus)
	assert.Equal(t, "not-applicable", h.SystemStatus)
}

// =============================================================================
// SQS
// =============================================================================

func TestListQueuesFollowsPages(t *testing.T) {
	pages := map[string][]string{
		"":       {"https://sqs.us-east-1.amazonaws.com/123456789012/orders-events"},
		"page-2": {"https://sqs.us-east-1.amazonaws.com/123456789012/billing-dlq"},
	}
	next := map[string]string{"": "page-2"}

	dir := newTestDirectory(t, func(w http.ResponseWriter, req apiRequest) {
		assert.Equal(t, "ListQueues", req.Op)

		// Newer SQS clients speak JSON, older ones the query protocol.
		if req.Form == nil {
			token := req.jsonField("NextToken")
			out := map[string]any{"QueueUrls": pages[token]}
			if n := next[token]; n != "" {
				out["NextToken"] = n
			}
			data, err := json.Marshal(out)
			assert.NoError(t, err)
			writeJSON(w, http.StatusOK, string(data))
			return
		}

		token := req.Form.Get("NextToken")
		var b strings.Builder
		b.WriteString(`<ListQueuesResponse><ListQueuesResult>`)
		for _, u := range pages[token] {
			fmt.Fprintf(&b, "<QueueUrl>%s</QueueUrl>", u)
		}
		if n := next[token]; n != "" {
			fmt.Fprintf(&b, "<NextToken>%s</NextToken>", n)
		}
		b.WriteString(`</ListQueuesResult><ResponseMetadata><RequestId>req-4</RequestId></ResponseMetadata></ListQueuesResponse>`)
		writeXML(w, http.StatusOK, b.String())
	})

	queues, err := dir.ListQueues(context.Background())
	require.NoError(t, err)
	require.Len(t, queues, 2)
	assert.Equal(t, "orders-events", queues[0].Name)
	assert.Equal(t, "billing-dlq", queues[1].Name)
	assert.Equal(t, "https://sqs.us-east-1.amazonaws.com/123456789012/billing-dlq", queues[1].URL)
}
