package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infra-check/decision/directory"
	"infra-check/decision/directory/directorytest"
)

type stubStrategy struct {
	componentType string
	verdict       Verdict
}

func (s stubStrategy) ComponentType() string { return s.componentType }

func (s stubStrategy) Resolve(context.Context, string, map[string]any, directory.Directory) Verdict {
	return s.verdict
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	roles := stubStrategy{componentType: "Roles", verdict: Found("app-role", "", nil)}
	reg.Register(roles)
	reg.RegisterAlias("GlobalRoles", "Roles")
	reg.RegisterAlias("Dangling", "Missing")

	assert.Equal(t, roles, reg.Lookup("Roles"))
	assert.Equal(t, roles, reg.Lookup("GlobalRoles"))

	for _, tag := range []string{"roles", "Dangling", "", "Roles "} {
		s := reg.Lookup(tag)
		require.NotNil(t, s, tag)
		assert.True(t, IsUnsupported(s), tag)
		assert.False(t, reg.Supports(tag), tag)
	}
	assert.True(t, reg.Supports("GlobalRoles"))
}

func TestUnsupportedSentinelMakesNoCalls(t *testing.T) {
	reg := NewRegistry()
	fake := &directorytest.Fake{}

	v := reg.Lookup("Route66").Resolve(context.Background(), "x", nil, fake)

	assert.Equal(t, StatusUnsupported, v.Status)
	assert.False(t, v.Exists)
	assert.Empty(t, v.Identifier)
	assert.Contains(t, v.Detail, `"Route66"`)
	assert.Empty(t, fake.Calls)
}

func TestRegistryTypesAndAliases(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterStrategies(
		stubStrategy{componentType: "SQS"},
		stubStrategy{componentType: "KMS"},
		stubStrategy{componentType: "Lambda"},
	)
	reg.RegisterAlias("Queue", "SQS")

	assert.Equal(t, []string{"KMS", "Lambda", "SQS"}, reg.Types())

	aliases := reg.Aliases()
	assert.Equal(t, map[string]string{"Queue": "SQS"}, aliases)
	aliases["Other"] = "KMS"
	assert.Len(t, reg.Aliases(), 1)
}

func TestVerdictConstructorsHoldInvariants(t *testing.T) {
	verdicts := []Verdict{
		Found("abcd-1234", "Enabled", map[string]string{"state": "Enabled"}),
		Found("", "matched", nil),
		NotFound("no cluster named db"),
		Failed(directorytest.APIError(directory.KindKMS, "DescribeKey", directory.ClassAccessDenied, "AccessDenied")),
		Unsupported("Route66"),
		NotImplemented("Route53 record checks are not implemented"),
	}
	for _, v := range verdicts {
		assert.True(t, v.Valid(), "%+v", v)
	}

	assert.Equal(t, StatusError, verdicts[1].Status)
	assert.Equal(t, directory.ClassAccessDenied, verdicts[3].ErrorClass)
	assert.False(t, Verdict{Status: StatusFound}.Valid())
	assert.False(t, Verdict{Status: StatusNotFound, Identifier: "x"}.Valid())
}

func TestFailedClassifiesForeignErrors(t *testing.T) {
	v := Failed(errors.New("boom"))
	assert.Equal(t, StatusError, v.Status)
	assert.Equal(t, directory.ClassProvider, v.ErrorClass)
	assert.Equal(t, "error: boom", v.Summary())
}

func TestVerdictSummary(t *testing.T) {
	assert.Equal(t, "found abcd-1234 (Enabled)", Found("abcd-1234", "Enabled", nil).Summary())
	assert.Equal(t, "found q", Found("q", "", nil).Summary())
	assert.Equal(t, "gone", NotFound("gone").Summary())
}

func TestStringProperty(t *testing.T) {
	props := map[string]any{
		"blank":  "  ",
		"alias":  "app-key",
		"number": 42,
		"list":   []any{"a"},
		"nil":    nil,
	}

	assert.Equal(t, "app-key", StringProperty(props, "missing", "blank", "alias"))
	assert.Equal(t, "42", StringProperty(props, "number"))
	assert.Equal(t, "", StringProperty(props, "list", "nil"))
	assert.Equal(t, "", StringProperty(nil, "alias"))
}

func TestIdentifier(t *testing.T) {
	props := map[string]any{"cluster_identifier": "prod-db-cluster"}

	assert.Equal(t, "prod-db-cluster", Identifier(props, "db", "custom_cluster_name", "cluster_identifier"))
	assert.Equal(t, "db", Identifier(props, "db", "custom_cluster_name"))
	assert.Equal(t, "db", Identifier(nil, "db"))
}

func TestFirstContaining(t *testing.T) {
	tests := []struct {
		name       string
		names      []string
		needle     string
		wantIndex  int
		wantOthers int
	}{
		{"single", []string{"a", "prod-orders-alb", "b"}, "orders-alb", 1, 0},
		{"first wins", []string{"orders-q-dlq", "orders-q"}, "orders-q", 0, 1},
		{"none", []string{"a", "b"}, "orders", -1, 0},
		{"empty needle", []string{"a"}, "", -1, 0},
		{"empty list", nil, "a", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, others := FirstContaining(tt.names, tt.needle)
			assert.Equal(t, tt.wantIndex, idx)
			assert.Equal(t, tt.wantOthers, others)
		})
	}
}
