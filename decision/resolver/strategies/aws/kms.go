package aws

import (
	"context"
	"fmt"

	"infra-check/decision/directory"
	"infra-check/decision/resolver"
)

// KMSStrategy resolves KMS components by key alias
type KMSStrategy struct{}

// NewKMSStrategy creates a new KMS strategy
func NewKMSStrategy() *KMSStrategy {
	return &KMSStrategy{}
}

// ComponentType returns the descriptor type tag
func (s *KMSStrategy) ComponentType() string {
	return TypeKMS
}

// SupportedProperties returns the properties this strategy reads
func (s *KMSStrategy) SupportedProperties() []string {
	return []string{"key_alias"}
}

// Resolve describes alias/<key_alias or name>; the detail is the key state
func (s *KMSStrategy) Resolve(ctx context.Context, name string, props map[string]any, dir directory.Directory) resolver.Verdict {
	alias := resolver.Identifier(props, name, s.SupportedProperties()...)

	key, err := dir.DescribeKeyByAlias(ctx, alias)
	if err != nil {
		if directory.IsNotFound(err) {
			return resolver.NotFound(fmt.Sprintf("no key with alias %q", alias))
		}
		return resolver.Failed(err)
	}
	return resolver.Found(key.ID, key.State, fields(
		"alias", key.Alias,
		"state", key.State,
		"arn", key.ARN,
	))
}
