package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infra-check/decision/directory"
	"infra-check/decision/directory/directorytest"
	"infra-check/pkg/platform"
)

const descriptorYAML = `
spec:
  environment:
    awsRegion: us-east-2
  components:
    - type: KMS
      name: encryption
      properties:
        key_alias: app-key
      connectsTo:
        - type: ApplicationLoadBalancer
          name: orders-alb
`

// harness records how the CLI connected and serves a fake directory
type harness struct {
	fake      *directorytest.Fake
	connected bool
	region    string
	err       error
}

func (h *harness) connect(_ context.Context, _ *platform.Config, region string, _ zerolog.Logger) (directory.Directory, string, error) {
	h.connected = true
	h.region = region
	if h.err != nil {
		return nil, "", h.err
	}
	if region == "" {
		region = "us-east-1"
	}
	return h.fake, region, nil
}

func (h *harness) run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"infracheck"}, args...), &stdout, &stderr, h.connect)
	return code, stdout.String(), stderr.String()
}

func writeDescriptor(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deployment_apply.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fullFake() *directorytest.Fake {
	return &directorytest.Fake{
		Keys:          map[string]directory.Key{"app-key": {ID: "abcd-1234", State: "Enabled"}},
		LoadBalancers: []directory.LoadBalancer{{Name: "prod-orders-alb", ARN: "arn:lb/orders", Type: "application"}},
	}
}

func TestVerifyAllFound(t *testing.T) {
	h := &harness{fake: fullFake()}

	code, stdout, _ := h.run(t, "verify", "-f", writeDescriptor(t, descriptorYAML))

	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "✔ [KMS] encryption")
	assert.Contains(t, stdout, "  ↳ ✔ [ApplicationLoadBalancer] orders-alb")
	assert.Contains(t, stdout, "2/2 found")
	assert.Equal(t, "us-east-2", h.region)
}

func TestVerifyNotAllFound(t *testing.T) {
	h := &harness{fake: &directorytest.Fake{Keys: fullFake().Keys}}

	code, stdout, stderr := h.run(t, "verify", "-f", writeDescriptor(t, descriptorYAML))

	assert.Equal(t, ExitNotAllFound, code)
	assert.Contains(t, stdout, "✘ [ApplicationLoadBalancer] orders-alb")
	assert.Contains(t, stdout, "1/2 found")
	assert.NotContains(t, stderr, "Error:")
}

func TestVerifyInputErrorsMakeNoProviderCall(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.yaml") }},
		{"malformed", func(t *testing.T) string { return writeDescriptor(t, "components: [type: {") }},
		{"no components section", func(t *testing.T) string { return writeDescriptor(t, "metadata:\n  name: x\n") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &harness{fake: fullFake()}

			code, _, stderr := h.run(t, "verify", "--file", tt.path(t))

			assert.Equal(t, ExitInputError, code)
			assert.False(t, h.connected)
			assert.Contains(t, stderr, "Error:")
		})
	}
}

func TestVerifyIncompleteRecordDoesNotStopTheRun(t *testing.T) {
	h := &harness{fake: fullFake()}
	path := writeDescriptor(t, `
components:
  - type: KMS
    name: encryption
    properties:
      key_alias: app-key
  - type: SQS
`)

	code, stdout, stderr := h.run(t, "verify", "-f", path)

	assert.Equal(t, ExitNotAllFound, code)
	assert.True(t, h.connected)
	assert.Contains(t, stdout, "✔ [KMS] encryption")
	assert.Contains(t, stdout, "invalid descriptor record: components[1]: name is required")
	assert.Contains(t, stdout, "1/2 found")
	assert.NotContains(t, stderr, "Error:")
	assert.Contains(t, h.fake.Calls, "DescribeKeyByAlias")
	assert.NotContains(t, h.fake.Calls, "ListQueues")
}

func TestVerifyJSONWithIntegerKeyedProperties(t *testing.T) {
	h := &harness{fake: fullFake()}
	path := writeDescriptor(t, `
components:
  - type: KMS
    name: encryption
    properties:
      key_alias: app-key
      ports: {80: http, 443: https}
`)

	code, stdout, stderr := h.run(t, "verify", "-f", path, "--format", "json")
	require.Equal(t, ExitOK, code, stderr)

	var report struct {
		Components []struct {
			Component struct {
				Properties map[string]any `json:"properties"`
			} `json:"component"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.Len(t, report.Components, 1)
	assert.Equal(t, map[string]any{"80": "http", "443": "https"}, report.Components[0].Component.Properties["ports"])
}

func TestVerifySetupFailure(t *testing.T) {
	h := &harness{err: errors.New("no credentials")}

	code, _, stderr := h.run(t, "verify", "-f", writeDescriptor(t, descriptorYAML))

	assert.Equal(t, ExitSetupError, code)
	assert.Contains(t, stderr, "no credentials")
}

func TestVerifyRegionFlagWins(t *testing.T) {
	h := &harness{fake: fullFake()}

	code, _, _ := h.run(t, "--region", "eu-west-1", "verify", "-f", writeDescriptor(t, descriptorYAML))

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "eu-west-1", h.region)
}

func TestVerifyJSONToFile(t *testing.T) {
	h := &harness{fake: fullFake()}
	out := filepath.Join(t.TempDir(), "report.json")

	code, stdout, _ := h.run(t, "verify", "-f", writeDescriptor(t, descriptorYAML), "--format", "json", "-o", out)
	require.Equal(t, ExitOK, code)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var report struct {
		Region     string `json:"region"`
		Account    string `json:"account"`
		Components []struct {
			Verdict struct {
				Identifier string `json:"identifier"`
			} `json:"verdict"`
		} `json:"components"`
		Connections []struct {
			Parent string `json:"parent"`
		} `json:"connections"`
	}
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "us-east-2", report.Region)
	assert.Equal(t, "123456789012", report.Account)
	assert.Equal(t, "abcd-1234", report.Components[0].Verdict.Identifier)
	assert.Equal(t, "encryption", report.Connections[0].Parent)
}

func TestVerifyUnknownFormat(t *testing.T) {
	h := &harness{fake: fullFake()}

	code, _, _ := h.run(t, "verify", "-f", writeDescriptor(t, descriptorYAML), "--format", "xml")

	assert.Equal(t, ExitInputError, code)
	assert.False(t, h.connected)
}

func TestInvalidLogLevel(t *testing.T) {
	h := &harness{fake: fullFake()}

	code, _, _ := h.run(t, "--log-level", "loud", "types")

	assert.Equal(t, ExitInputError, code)
}

func TestTypes(t *testing.T) {
	h := &harness{}

	code, stdout, _ := h.run(t, "types")

	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "RDSAuroraPostgres\n")
	assert.Contains(t, stdout, "  GlobalRoles -> Roles\n")
	assert.Contains(t, stdout, "  NetworkLoadBalancer -> ApplicationLoadBalancer\n")
	assert.False(t, h.connected)
}

func TestInventory(t *testing.T) {
	fake := fullFake()
	fake.Indexes = []directory.Index{{Region: "us-east-2", Type: "AGGREGATOR"}}
	fake.Resources = []directory.Resource{
		{ARN: "arn:aws:kms:us-east-2:123456789012:key/abcd-1234", ResourceType: "kms:key", Service: "kms", Region: "us-east-2", Name: "abcd-1234"},
	}
	h := &harness{fake: fake}

	code, stdout, _ := h.run(t, "inventory", "-f", writeDescriptor(t, descriptorYAML), "--format", "json")
	require.Equal(t, ExitOK, code)

	var out struct {
		Inventory struct {
			Services map[string]int `json:"services"`
		} `json:"inventory"`
		Comparison struct {
			Components []struct {
				Name   string `json:"name"`
				Exists bool   `json:"exists"`
			} `json:"components"`
		} `json:"comparison"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, map[string]int{"kms": 1}, out.Inventory.Services)
	require.Len(t, out.Comparison.Components, 1)
	assert.True(t, out.Comparison.Components[0].Exists)
}

func TestInventoryWithoutIndex(t *testing.T) {
	h := &harness{fake: fullFake()}

	code, _, stderr := h.run(t, "--region", "us-west-2", "inventory")

	assert.Equal(t, ExitSetupError, code)
	assert.Contains(t, stderr, "us-west-2")
}

func TestStatusRequestErrors(t *testing.T) {
	h := &harness{}

	code, _, _ := h.run(t, "status")
	assert.Equal(t, ExitInputError, code)

	code, _, _ = h.run(t, "status", "-c", "abc", "--binary", filepath.Join(t.TempDir(), "missing-eac"))
	assert.Equal(t, ExitSetupError, code)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, exitCode(nil))
	assert.Equal(t, 7, exitCode(&exitError{code: 7}))
	assert.Equal(t, ExitNotAllFound, exitCode(errors.New("render failed")))
}

func TestPickRegion(t *testing.T) {
	assert.Equal(t, "eu-west-1", pickRegion("eu-west-1", "us-east-2"))
	assert.Equal(t, "us-east-2", pickRegion("", "us-east-2"))
	assert.Equal(t, "", pickRegion("", ""))
}
