package aws

import (
	"context"

	"infra-check/decision/directory"
	"infra-check/decision/resolver"
)

// SQSStrategy resolves SQS components by queue name
type SQSStrategy struct{}

// NewSQSStrategy creates a new SQS strategy
func NewSQSStrategy() *SQSStrategy {
	return &SQSStrategy{}
}

// ComponentType returns the descriptor type tag
func (s *SQSStrategy) ComponentType() string {
	return TypeSQS
}

// Resolve matches the declared name against queue names taken from the
// queue URL listing.
func (s *SQSStrategy) Resolve(ctx context.Context, name string, _ map[string]any, dir directory.Directory) resolver.Verdict {
	queues, err := dir.ListQueues(ctx)
	if err != nil {
		return resolver.Failed(err)
	}
	names := make([]string, len(queues))
	for i, q := range queues {
		names[i] = q.Name
		if names[i] == "" {
			names[i] = directory.QueueNameFromURL(q.URL)
		}
	}
	return containment("queue", name, names, func(i int) resolver.Verdict {
		return resolver.Found(queues[i].URL, names[i], fields("name", names[i]))
	})
}
