// Package aws provides the AWS resolution strategies
package aws

import "infra-check/decision/resolver"

// RegisterAllStrategies registers every AWS strategy and its aliases
func RegisterAllStrategies(reg *resolver.Registry) {
	reg.RegisterStrategies(
		// Database
		NewAuroraPostgresStrategy(),

		// Compute
		NewManagementHostStrategy(),
		NewLambdaStrategy(),
		NewLightsailStrategy(),

		// Containers
		NewECSClusterStrategy(),
		NewEKSClusterStrategy(),

		// Networking
		NewLoadBalancerStrategy(),
		NewRoute53RecordStrategy(),

		// Security
		NewRoleStrategy(),
		NewKMSStrategy(),

		// Messaging
		NewSQSStrategy(),
	)

	reg.RegisterAlias(TypeGlobalRoles, TypeRoles)
	reg.RegisterAlias(TypeNetworkLoadBalancer, TypeApplicationLoadBalancer)
}

// Component type tags
const (
	TypeAuroraPostgres          = "RDSAuroraPostgres"
	TypeManagementHost          = "ManagementHost"
	TypeLambda                  = "Lambda"
	TypeLightsail               = "Lightsail"
	TypeECSCluster              = "ECSCluster"
	TypeEKSCluster              = "EKSCluster"
	TypeApplicationLoadBalancer = "ApplicationLoadBalancer"
	TypeNetworkLoadBalancer     = "NetworkLoadBalancer"
	TypeRoute53Record           = "Route53Record"
	TypeRoles                   = "Roles"
	TypeGlobalRoles             = "GlobalRoles"
	TypeKMS                     = "KMS"
	TypeSQS                     = "SQS"
)

// SupportedComponentTypes returns all type tags with a strategy, aliases included
func SupportedComponentTypes() []string {
	return []string{
		TypeAuroraPostgres,
		TypeManagementHost,
		TypeLambda,
		TypeLightsail,
		TypeECSCluster,
		TypeEKSCluster,
		TypeApplicationLoadBalancer,
		TypeNetworkLoadBalancer,
		TypeRoute53Record,
		TypeRoles,
		TypeGlobalRoles,
		TypeKMS,
		TypeSQS,
	}
}
