package directory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lightsail"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/resourceexplorer2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog"
)

// DefaultCallTimeout bounds each provider call when no timeout is configured.
const DefaultCallTimeout = 20 * time.Second

// AWS implements Directory against the AWS control-plane APIs.
type AWS struct {
	cfg         aws.Config
	callTimeout time.Duration
	logger      zerolog.Logger

	mu      sync.Mutex
	clients map[Kind]any
}

// Option configures an AWS directory
type Option func(*AWS)

// WithCallTimeout bounds every individual provider call.
func WithCallTimeout(d time.Duration) Option {
	return func(a *AWS) {
		if d > 0 {
			a.callTimeout = d
		}
	}
}

// WithLogger sets the logger used for client lifecycle events.
func WithLogger(l zerolog.Logger) Option {
	return func(a *AWS) { a.logger = l }
}

// NewAWS creates a directory over an already resolved AWS configuration.
func NewAWS(cfg aws.Config, opts ...Option) *AWS {
	a := &AWS{
		cfg:         cfg,
		callTimeout: DefaultCallTimeout,
		logger:      zerolog.Nop(),
		clients:     make(map[Kind]any),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LoadAWS resolves credentials and region through the SDK default chain.
// An empty region or profile defers to the environment.
func LoadAWS(ctx context.Context, region, profile string, opts ...Option) (*AWS, error) {
	loadOpts := make([]func(*config.LoadOptions) error, 0, 2)
	if region != "" {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}
	if profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("no AWS region configured: set --region, AWS_REGION or environment.awsRegion in the descriptor")
	}
	return NewAWS(cfg, opts...), nil
}

// Region returns the region all clients are bound to.
func (a *AWS) Region() string {
	return a.cfg.Region
}

// clientFor returns the memoized client for kind, building it on first use.
func clientFor[T any](a *AWS, kind Kind, build func(aws.Config) T) T {
	a.mu.Lock()
	defer a.mu.Unlock()

	if c, ok := a.clients[kind]; ok {
		return c.(T)
	}
	a.logger.Debug().Str("kind", string(kind)).Str("region", a.cfg.Region).Msg("initialising provider client")
	c := build(a.cfg)
	a.clients[kind] = c
	return c
}

// call derives the per-call deadline.
func (a *AWS) call(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.callTimeout)
}

func (a *AWS) rds() *rds.Client {
	return clientFor(a, KindRDS, func(c aws.Config) *rds.Client { return rds.NewFromConfig(c) })
}

func (a *AWS) ec2() *ec2.Client {
	return clientFor(a, KindEC2, func(c aws.Config) *ec2.Client { return ec2.NewFromConfig(c) })
}

func (a *AWS) elbv2() *elbv2.Client {
	return clientFor(a, KindELBv2, func(c aws.Config) *elbv2.Client { return elbv2.NewFromConfig(c) })
}

func (a *AWS) iam() *iam.Client {
	return clientFor(a, KindIAM, func(c aws.Config) *iam.Client { return iam.NewFromConfig(c) })
}

func (a *AWS) ecs() *ecs.Client {
	return clientFor(a, KindECS, func(c aws.Config) *ecs.Client { return ecs.NewFromConfig(c) })
}

func (a *AWS) kms() *kms.Client {
	return clientFor(a, KindKMS, func(c aws.Config) *kms.Client { return kms.NewFromConfig(c) })
}

func (a *AWS) sqs() *sqs.Client {
	return clientFor(a, KindSQS, func(c aws.Config) *sqs.Client { return sqs.NewFromConfig(c) })
}

func (a *AWS) lambda() *lambda.Client {
	return clientFor(a, KindLambda, func(c aws.Config) *lambda.Client { return lambda.NewFromConfig(c) })
}

func (a *AWS) lightsail() *lightsail.Client {
	return clientFor(a, KindLightsail, func(c aws.Config) *lightsail.Client { return lightsail.NewFromConfig(c) })
}

func (a *AWS) eks() *eks.Client {
	return clientFor(a, KindEKS, func(c aws.Config) *eks.Client { return eks.NewFromConfig(c) })
}

func (a *AWS) sts() *sts.Client {
	return clientFor(a, KindSTS, func(c aws.Config) *sts.Client { return sts.NewFromConfig(c) })
}

func (a *AWS) resourceExplorer() *resourceexplorer2.Client {
	return clientFor(a, KindResourceExplorer, func(c aws.Config) *resourceexplorer2.Client {
		return resourceexplorer2.NewFromConfig(c)
	})
}

// cachedKinds lists the kinds with a live client, for diagnostics and tests.
func (a *AWS) cachedKinds() []Kind {
	a.mu.Lock()
	defer a.mu.Unlock()

	kinds := make([]Kind, 0, len(a.clients))
	for k := range a.clients {
		kinds = append(kinds, k)
	}
	return kinds
}
