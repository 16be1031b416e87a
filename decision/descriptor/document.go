package descriptor

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Statistics summarizes what a document declares
type Statistics struct {
	Components  int            `json:"components"`  // top-level records
	Connections int            `json:"connections"` // nested connectsTo records, all depths
	TypeStats   map[string]int `json:"type_stats"`  // type -> count, all depths
	MaxDepth    int            `json:"max_depth"`
}

// Stats walks the component tree once and counts what it declares
func (d *Document) Stats() Statistics {
	s := Statistics{
		Components: len(d.Components),
		TypeStats:  make(map[string]int),
	}
	for _, c := range d.Components {
		s.walk(c, 0)
	}
	return s
}

func (s *Statistics) walk(c Component, depth int) {
	s.TypeStats[c.Type]++
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
	for _, child := range c.ConnectsTo {
		s.Connections++
		s.walk(child, depth+1)
	}
}

// ExtractARNs finds every string value that looks like an ARN in a decoded
// YAML tree. Duplicates are dropped, document order is kept.
func ExtractARNs(root *yaml.Node) []string {
	seen := make(map[string]bool)
	arns := make([]string, 0)
	collectARNs(root, seen, &arns)
	return arns
}

func collectARNs(node *yaml.Node, seen map[string]bool, arns *[]string) {
	if node == nil {
		return
	}
	switch node.Kind {
	case yaml.MappingNode:
		// keys at even positions, values at odd
		for i := 1; i < len(node.Content); i += 2 {
			collectARNs(node.Content[i], seen, arns)
		}
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range node.Content {
			collectARNs(child, seen, arns)
		}
	case yaml.ScalarNode:
		if node.ShortTag() == "!!str" && strings.HasPrefix(node.Value, "arn:") && !seen[node.Value] {
			seen[node.Value] = true
			*arns = append(*arns, node.Value)
		}
	}
}
