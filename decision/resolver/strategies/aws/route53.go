package aws

import (
	"context"

	"infra-check/decision/directory"
	"infra-check/decision/resolver"
)

// Route53RecordStrategy is informational only. Records are accepted in
// descriptors but never looked up.
type Route53RecordStrategy struct{}

// NewRoute53RecordStrategy creates a new Route53 record strategy
func NewRoute53RecordStrategy() *Route53RecordStrategy {
	return &Route53RecordStrategy{}
}

// ComponentType returns the descriptor type tag
func (s *Route53RecordStrategy) ComponentType() string {
	return TypeRoute53Record
}

// Resolve makes no provider call
func (s *Route53RecordStrategy) Resolve(context.Context, string, map[string]any, directory.Directory) resolver.Verdict {
	return resolver.NotImplemented("Route53 record checks are not implemented")
}
