package aws

import (
	"context"

	"infra-check/decision/directory"
	"infra-check/decision/resolver"
)

// LambdaStrategy resolves Lambda components by function name
type LambdaStrategy struct{}

// NewLambdaStrategy creates a new Lambda strategy
func NewLambdaStrategy() *LambdaStrategy {
	return &LambdaStrategy{}
}

// ComponentType returns the descriptor type tag
func (s *LambdaStrategy) ComponentType() string {
	return TypeLambda
}

// Resolve matches the declared name against the function listing
func (s *LambdaStrategy) Resolve(ctx context.Context, name string, _ map[string]any, dir directory.Directory) resolver.Verdict {
	functions, err := dir.ListFunctions(ctx)
	if err != nil {
		return resolver.Failed(err)
	}
	names := make([]string, len(functions))
	for i, fn := range functions {
		names[i] = fn.Name
	}
	return containment("function", name, names, func(i int) resolver.Verdict {
		fn := functions[i]
		return resolver.Found(fn.ARN, fn.Name, fields(
			"name", fn.Name,
			"runtime", fn.Runtime,
			"state", fn.State,
			"last_modified", fn.LastModified,
		))
	})
}
