package aws

import (
	"context"

	"infra-check/decision/directory"
	"infra-check/decision/resolver"
)

// RoleStrategy resolves Roles and GlobalRoles components to IAM roles
type RoleStrategy struct{}

// NewRoleStrategy creates a new IAM role strategy
func NewRoleStrategy() *RoleStrategy {
	return &RoleStrategy{}
}

// ComponentType returns the descriptor type tag
func (s *RoleStrategy) ComponentType() string {
	return TypeRoles
}

// Resolve matches the declared name against the role listing
func (s *RoleStrategy) Resolve(ctx context.Context, name string, _ map[string]any, dir directory.Directory) resolver.Verdict {
	roles, err := dir.ListRoles(ctx)
	if err != nil {
		return resolver.Failed(err)
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.Name
	}
	return containment("role", name, names, func(i int) resolver.Verdict {
		r := roles[i]
		return resolver.Found(r.ARN, r.Name, fields("name", r.Name, "path", r.Path))
	})
}
