package resolver

import (
	"context"
	"sort"

	"infra-check/decision/directory"
)

// Strategy resolves one component type against the directory
type Strategy interface {
	// ComponentType returns the descriptor type tag this strategy handles
	ComponentType() string

	// Resolve looks up the live resource. It must always return a verdict;
	// provider failures become error verdicts.
	Resolve(ctx context.Context, name string, props map[string]any, dir directory.Directory) Verdict
}

// Registry maps type tags to strategies. It is built once at startup and
// only read afterwards.
type Registry struct {
	strategies map[string]Strategy
	aliases    map[string]string // alias -> canonical type
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
		aliases:    make(map[string]string),
	}
}

// Register adds a strategy under its own type tag
func (r *Registry) Register(s Strategy) {
	r.strategies[s.ComponentType()] = s
}

// RegisterStrategies adds multiple strategies
func (r *Registry) RegisterStrategies(strategies ...Strategy) {
	for _, s := range strategies {
		r.Register(s)
	}
}

// RegisterAlias makes alias resolve with the strategy registered for canonical
func (r *Registry) RegisterAlias(alias, canonical string) {
	r.aliases[alias] = canonical
}

// Lookup finds the strategy for a type tag. Matching is exact; unmatched tags
// get the unsupported sentinel, never nil.
func (r *Registry) Lookup(componentType string) Strategy {
	// Exact match first
	if s, ok := r.strategies[componentType]; ok {
		return s
	}

	// Then aliases
	if canonical, ok := r.aliases[componentType]; ok {
		if s, ok := r.strategies[canonical]; ok {
			return s
		}
	}

	return unsupported{componentType: componentType}
}

// Supports reports whether a type tag has a registered strategy
func (r *Registry) Supports(componentType string) bool {
	_, ok := r.Lookup(componentType).(unsupported)
	return !ok
}

// Types returns every registered canonical type tag, sorted
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.strategies))
	for t := range r.strategies {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Aliases returns alias -> canonical type pairs
func (r *Registry) Aliases() map[string]string {
	out := make(map[string]string, len(r.aliases))
	for a, c := range r.aliases {
		out[a] = c
	}
	return out
}

// unsupported is the sentinel strategy for unregistered type tags
type unsupported struct {
	componentType string
}

func (u unsupported) ComponentType() string { return u.componentType }

func (u unsupported) Resolve(context.Context, string, map[string]any, directory.Directory) Verdict {
	return Unsupported(u.componentType)
}

// IsUnsupported reports whether s is the unsupported sentinel
func IsUnsupported(s Strategy) bool {
	_, ok := s.(unsupported)
	return ok
}
