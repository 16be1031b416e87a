package verify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"infra-check/decision/descriptor"
	"infra-check/decision/directory"
	"infra-check/decision/resolver"
)

// Builder runs every declared component through its strategy and collects
// the verdicts. Components are checked one at a time in declaration order.
type Builder struct {
	registry  *resolver.Registry
	directory directory.Directory
	logger    zerolog.Logger
	now       func() time.Time
}

// Option configures a Builder
type Option func(*Builder)

// WithLogger sets the logger used for per-component progress
func WithLogger(l zerolog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a report builder
func NewBuilder(registry *resolver.Registry, dir directory.Directory, opts ...Option) *Builder {
	b := &Builder{
		registry:  registry,
		directory: dir,
		logger:    zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run verifies every component of doc. It never fails: provider errors and
// strategy panics are recorded as error verdicts and the run continues.
func (b *Builder) Run(ctx context.Context, doc *descriptor.Document) *Report {
	report := &Report{
		RunID:       uuid.NewString(),
		Descriptor:  doc.Path,
		Region:      doc.Region,
		StartedAt:   b.now().UTC(),
		Components:  make([]ComponentResult, 0, len(doc.Components)),
		Connections: make([]ConnectionResult, 0),
	}

	seq := 0
	for _, c := range doc.Components {
		seq++
		v := b.resolve(ctx, c)
		report.Components = append(report.Components, ComponentResult{Seq: seq, Component: c, Verdict: v})
		report.tally(v, false)

		seq = b.connections(ctx, report, c, 1, seq)
	}

	// Account is informational and only looked up when a check already
	// talked to the provider. A failed identity call does not stop the run.
	if report.contactedProvider() {
		if id, err := b.directory.CallerIdentity(ctx); err != nil {
			b.logger.Warn().Err(err).Msg("could not determine account")
		} else if id != nil {
			report.Account = id.Account
		}
	}

	report.FinishedAt = b.now().UTC()

	b.logger.Info().
		Str("run_id", report.RunID).
		Int("found", report.Summary.Found()).
		Int("total", report.Summary.Total()).
		Int("unsupported", report.Summary.Unsupported).
		Int("errors", report.Summary.Errors).
		Dur("elapsed", report.FinishedAt.Sub(report.StartedAt)).
		Msg("verification complete")

	return report
}

// connections records parent's connectsTo entries depth first and returns
// the last sequence number used.
func (b *Builder) connections(ctx context.Context, report *Report, parent descriptor.Component, depth, seq int) int {
	for _, child := range parent.ConnectsTo {
		seq++
		v := b.resolve(ctx, child)
		report.Connections = append(report.Connections, ConnectionResult{
			Seq:       seq,
			Parent:    parent.Name,
			Depth:     depth,
			Component: child,
			Verdict:   v,
		})
		report.tally(v, true)

		seq = b.connections(ctx, report, child, depth+1, seq)
	}
	return seq
}

// resolve isolates one strategy call. A panic becomes an error verdict.
func (b *Builder) resolve(ctx context.Context, c descriptor.Component) (v resolver.Verdict) {
	if c.Problem != "" {
		b.logger.Warn().Str("problem", c.Problem).Msg("skipping incomplete record")
		return resolver.InvalidRecord(c.Problem)
	}

	strategy := b.registry.Lookup(c.Type)

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Str("type", c.Type).
				Str("name", c.Name).
				Interface("panic", r).
				Msg("strategy panicked")
			v = resolver.Failed(fmt.Errorf("check for %s %q panicked: %v", c.Type, c.Name, r))
		}
	}()

	v = strategy.Resolve(ctx, c.Name, c.Properties, b.directory)
	if !v.Valid() {
		v = resolver.Failed(fmt.Errorf("check for %s %q returned an inconsistent verdict", c.Type, c.Name))
	}

	b.logger.Debug().
		Str("type", c.Type).
		Str("name", c.Name).
		Str("verdict", v.Summary()).
		Msg("resolved component")

	return v
}
